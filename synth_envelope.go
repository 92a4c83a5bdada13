// synth_envelope.go - ADSR amplitude envelope state machine

package main

// EnvPhase identifies the envelope stage.
type EnvPhase int

const (
	ENV_IDLE EnvPhase = iota
	ENV_ATTACK
	ENV_DECAY
	ENV_SUSTAIN
	ENV_RELEASE
)

// Envelope shapes a voice's amplitude over time. Idle is both the
// initial state and the terminal state of each note cycle; a voice
// whose envelope is Idle is free for reuse.
//
// Ramps are linear in frames. Retriggering (note-on in any state) and
// releasing both ramp from the current level rather than jumping, so
// rapid key presses never produce a click.
type Envelope struct {
	phase EnvPhase
	level float32

	attackFrames  int
	decayFrames   int
	sustainLevel  float32
	releaseFrames int

	pos      int     // Frames into the current stage
	rampFrom float32 // Level captured at the start of the current ramp
}

// SetADSR configures the stage lengths in frames and the sustain
// level. Ramp lengths are floored at one frame so a zero-length stage
// still transitions cleanly.
func (e *Envelope) SetADSR(attack, decay int, sustain float32, release int) {
	e.attackFrames = max(attack, MIN_ENV_FRAMES)
	e.decayFrames = max(decay, MIN_ENV_FRAMES)
	e.sustainLevel = clamp32(sustain, 0, 1)
	e.releaseFrames = max(release, MIN_ENV_FRAMES)
}

// NoteOn starts (or restarts) the attack ramp from the current level.
func (e *Envelope) NoteOn() {
	e.rampFrom = e.level
	e.phase = ENV_ATTACK
	e.pos = 0
}

// NoteOff moves to the release ramp. Calls while already idle or
// releasing are ignored.
func (e *Envelope) NoteOff() {
	if e.phase == ENV_IDLE || e.phase == ENV_RELEASE {
		return
	}
	e.rampFrom = e.level
	e.phase = ENV_RELEASE
	e.pos = 0
}

func (e *Envelope) Active() bool { return e.phase != ENV_IDLE }

func (e *Envelope) Phase() EnvPhase { return e.phase }

func (e *Envelope) Level() float32 { return e.level }

// Step advances the envelope by one frame and returns the new level.
func (e *Envelope) Step() float32 {
	switch e.phase {
	case ENV_ATTACK:
		e.pos++
		e.level = e.rampFrom + (1.0-e.rampFrom)*float32(e.pos)/float32(e.attackFrames)
		if e.pos >= e.attackFrames {
			e.level = 1.0
			e.phase = ENV_DECAY
			e.pos = 0
		}

	case ENV_DECAY:
		e.pos++
		e.level = 1.0 - (1.0-e.sustainLevel)*float32(e.pos)/float32(e.decayFrames)
		if e.pos >= e.decayFrames {
			e.level = e.sustainLevel
			e.phase = ENV_SUSTAIN
			e.pos = 0
		}

	case ENV_SUSTAIN:
		e.level = e.sustainLevel

	case ENV_RELEASE:
		e.pos++
		e.level = e.rampFrom * (1.0 - float32(e.pos)/float32(e.releaseFrames))
		if e.pos >= e.releaseFrames {
			e.level = 0.0
			e.phase = ENV_IDLE
			e.pos = 0
		}

	case ENV_IDLE:
		e.level = 0.0
	}

	return e.level
}
