// synth_voice.go - Voice: one oscillator + envelope + gain/pan

package main

import (
	"errors"
	"math"
)

// Parameter validation errors, surfaced at the voice boundary so bad
// input never reaches the oscillator or the fill path.
var (
	ErrInvalidFrequency = errors.New("frequency must be positive and below half the sample rate")
	ErrInvalidGain      = errors.New("gain must be within 0.0-1.0")
	ErrInvalidPan       = errors.New("pan must be within -1.0-1.0")
)

// Voice couples one oscillator and one envelope with per-voice gain
// and stereo pan. Voices live in a fixed pool allocated at engine
// start; nothing here allocates after construction.
//
// The optional detune oscillator shadows the primary at a small
// frequency offset and feeds only the right channel, recreating the
// PWM pair's stereo detune effect.
type Voice struct {
	osc       Oscillator
	detuneOsc Oscillator
	env       Envelope

	gain float32
	pan  float32
	panL float32 // Cached equal-power gains, updated on SetPan
	panR float32

	detuneHz float32 // 0 disables the detune oscillator

	triggerSeq uint64 // Monotonic note-on ordinal, drives voice stealing
}

func newVoice(sampleRate float32) *Voice {
	v := &Voice{
		osc:       newOscillator(sampleRate),
		detuneOsc: newOscillator(sampleRate),
		gain:      1.0,
	}
	v.setPan(0)
	return v
}

// Active reports whether this voice is producing sound. The invariant
// is that a voice is active exactly when its envelope is not idle.
func (v *Voice) Active() bool { return v.env.Active() }

// setPan caches equal-power channel gains. At pan 0 both gains are
// sqrt(2)/2 so a centered voice keeps unity power.
func (v *Voice) setPan(pan float32) {
	v.pan = pan
	theta := float64(pan+1) * math.Pi / 4
	v.panL = float32(math.Cos(theta))
	v.panR = float32(math.Sin(theta))
}

// SetPan validates and applies a new pan position.
func (v *Voice) SetPan(pan float32) error {
	if pan < -1 || pan > 1 {
		return ErrInvalidPan
	}
	v.setPan(pan)
	return nil
}

// SetWaveform forwards to both oscillators so the detune shadow stays
// in the same shape.
func (v *Voice) SetWaveform(w Waveform) {
	v.osc.SetWaveform(w)
	v.detuneOsc.SetWaveform(w)
}

// SetDutyCycle sets the square pulse width on both oscillators.
func (v *Voice) SetDutyCycle(duty float32) {
	v.osc.SetDutyCycle(duty)
	v.detuneOsc.SetDutyCycle(duty)
}

// SetDetune sets the right-channel frequency offset in Hz. Zero
// disables the shadow oscillator.
func (v *Voice) SetDetune(hz float32) {
	v.detuneHz = hz
	if v.env.Active() {
		v.detuneOsc.SetFrequency(v.osc.Frequency() + hz)
	}
}

// NoteOn triggers the voice. Invalid parameters are rejected before
// any oscillator or envelope state changes, and the note is simply
// not started.
func (v *Voice) NoteOn(freq, gain float32, seq uint64) error {
	// Above the Nyquist limit the phase increment exceeds 0.5 and the
	// waveform aliases into garbage.
	if freq <= 0 || freq >= v.osc.sampleRate/2 {
		return ErrInvalidFrequency
	}
	if gain < 0 || gain > 1 {
		return ErrInvalidGain
	}

	v.gain = gain
	v.triggerSeq = seq
	v.osc.SetFrequency(freq)
	v.osc.retrigger()
	v.detuneOsc.SetFrequency(freq + v.detuneHz)
	v.detuneOsc.retrigger()
	v.env.NoteOn()
	return nil
}

// NoteOff starts the release ramp.
func (v *Voice) NoteOff() {
	v.env.NoteOff()
}

// Tick produces one stereo frame: oscillator x envelope x gain, panned
// with the cached equal-power gains. Inactive voices return silence
// without advancing any state.
func (v *Voice) Tick() StereoFrame {
	if !v.env.Active() {
		return StereoFrame{}
	}

	left := v.osc.Sample()
	right := left
	if v.detuneHz != 0 {
		right = v.detuneOsc.Sample()
	}

	level := v.env.Step() * v.gain
	return StereoFrame{
		L: left * level * v.panL,
		R: right * level * v.panR,
	}
}
