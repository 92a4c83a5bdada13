// synth_engine.go - Synthesis engine: voice pool, event queue, fill loop

package main

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrSampleRatePinned rejects preset reloads that try to change the
// sample rate: the buffer manager and voice pool are sized for the
// rate fixed at construction.
var ErrSampleRatePinned = errors.New("sample rate cannot change on a running engine")

type eventKind int

const (
	EVENT_NOTE_ON eventKind = iota
	EVENT_NOTE_OFF
	EVENT_PRESET
)

// synthEvent is a control message queued by UI goroutines and applied
// by the fill goroutine at the next buffer boundary.
type synthEvent struct {
	kind      eventKind
	frequency float32
	gain      float32
	preset    *Preset
}

// EngineStats is a point-in-time snapshot of the engine's counters.
type EngineStats struct {
	BuffersFilled  uint64
	DeadlineMisses uint64
	Underruns      uint64
	ClipEvents     uint64
	StolenNotes    uint64
	DroppedEvents  uint64
	ActiveVoices   int
}

// Engine owns the voice pool and the real-time fill loop. All voice
// and envelope state is touched only by the fill goroutine; control
// goroutines communicate through the event queue and the routing
// controller.
type Engine struct {
	sampleRate int

	voices  [NUM_VOICES]*Voice
	mixer   *Mixer
	buffers *BufferManager
	routing *RoutingController
	viz     *VizTap

	events        chan synthEvent
	droppedEvents atomic.Uint64
	stolenNotes   atomic.Uint64

	// triggerSeq is owned by the fill goroutine. It orders note
	// triggers so stealing can pick the oldest sounding voice.
	triggerSeq uint64

	activeVoices atomic.Int32

	mutex   sync.Mutex
	started bool
	stop    chan struct{}
	done    chan struct{}
}

func NewEngine(preset *Preset) *Engine {
	e := &Engine{
		sampleRate: preset.SampleRate,
		buffers:    NewBufferManager(BUFFER_FRAMES, preset.SampleRate),
		routing:    NewRoutingController(preset.RoutingState()),
		viz:        NewVizTap(),
		events:     make(chan synthEvent, EVENT_QUEUE_DEPTH),
	}
	for i := range e.voices {
		e.voices[i] = newVoice(float32(preset.SampleRate))
	}
	e.mixer = NewMixer(e.voices[:])
	e.applyPreset(preset)
	return e
}

func (e *Engine) SampleRate() int             { return e.sampleRate }
func (e *Engine) Buffers() *BufferManager     { return e.buffers }
func (e *Engine) Routing() *RoutingController { return e.routing }
func (e *Engine) Viz() *VizTap                { return e.viz }

// Start launches the fill goroutine. The first buffers become audible
// as soon as an audio backend starts draining.
func (e *Engine) Start() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.started {
		return
	}
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	e.started = true
	go e.run()
}

// Stop shuts the fill loop down. A final zeroed buffer is committed
// when one is available so the output drains to silence instead of
// looping the last live buffer.
func (e *Engine) Stop() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if !e.started {
		return
	}
	close(e.stop)
	<-e.done
	e.started = false
}

// NoteOn validates and queues a note trigger. Validation happens here,
// on the caller's goroutine, so bad parameters surface immediately and
// the fill loop never sees them.
func (e *Engine) NoteOn(frequency, gain float32) error {
	if frequency <= 0 || frequency >= float32(e.sampleRate)/2 {
		return fmt.Errorf("%w: %v", ErrInvalidFrequency, frequency)
	}
	if gain < 0 || gain > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidGain, gain)
	}
	e.queue(synthEvent{kind: EVENT_NOTE_ON, frequency: frequency, gain: gain})
	return nil
}

// NoteOff releases every voice sounding the given frequency. Releasing
// a frequency with no sounding voice is a no-op.
func (e *Engine) NoteOff(frequency float32) {
	e.queue(synthEvent{kind: EVENT_NOTE_OFF, frequency: frequency})
}

// ApplyPreset swaps voice and envelope parameters at the next buffer
// boundary. Sounding notes keep playing with the new parameters.
func (e *Engine) ApplyPreset(p *Preset) error {
	if err := p.validate(); err != nil {
		return err
	}
	if p.SampleRate != e.sampleRate {
		return fmt.Errorf("%w: %d != %d", ErrSampleRatePinned, p.SampleRate, e.sampleRate)
	}
	e.queue(synthEvent{kind: EVENT_PRESET, preset: p})
	return nil
}

// queue never blocks. A full queue drops the event and counts it; the
// fill loop must not be stalled by a slow producer and producers must
// not be stalled by the fill loop.
func (e *Engine) queue(ev synthEvent) {
	select {
	case e.events <- ev:
	default:
		e.droppedEvents.Add(1)
	}
}

func (e *Engine) Stats() EngineStats {
	return EngineStats{
		BuffersFilled:  e.buffers.BuffersFilled(),
		DeadlineMisses: e.buffers.DeadlineMisses(),
		Underruns:      e.buffers.Underruns(),
		ClipEvents:     e.mixer.ClipEvents(),
		StolenNotes:    e.stolenNotes.Load(),
		DroppedEvents:  e.droppedEvents.Load(),
		ActiveVoices:   int(e.activeVoices.Load()),
	}
}

// run is the fill loop. It owns all voice state for its lifetime.
func (e *Engine) run() {
	defer close(e.done)
	for {
		buf, idx, ok := e.buffers.AcquireFill(e.stop)
		if !ok {
			break
		}
		start := time.Now()
		e.renderBuffer(buf)
		e.buffers.CommitFill(idx, time.Since(start))
		e.viz.Capture(buf)
	}
	// Drain to silence if a buffer is free, then stop the exchange.
	if buf, idx, ok := e.buffers.TryAcquireFill(); ok {
		for i := range buf {
			buf[i] = StereoFrame{}
		}
		e.buffers.CommitFill(idx, 0)
	}
	e.buffers.Shutdown()
}

// renderBuffer applies pending events, latches the routing gain and
// synthesizes one buffer. It allocates nothing.
func (e *Engine) renderBuffer(buf []StereoFrame) {
	e.drainEvents()
	gain := e.routing.Snapshot().effectiveGain()
	for i := range buf {
		buf[i] = e.mixer.Mix(gain)
	}
	active := int32(0)
	for _, v := range e.voices {
		if v.Active() {
			active++
		}
	}
	e.activeVoices.Store(active)
}

func (e *Engine) drainEvents() {
	for {
		select {
		case ev := <-e.events:
			e.applyEvent(ev)
		default:
			return
		}
	}
}

func (e *Engine) applyEvent(ev synthEvent) {
	switch ev.kind {
	case EVENT_NOTE_ON:
		v := e.allocateVoice()
		e.triggerSeq++
		// Parameters were validated on the caller's side.
		_ = v.NoteOn(ev.frequency, ev.gain, e.triggerSeq)
	case EVENT_NOTE_OFF:
		for _, v := range e.voices {
			if v.Active() && v.osc.frequency == ev.frequency {
				v.NoteOff()
			}
		}
	case EVENT_PRESET:
		e.applyPreset(ev.preset)
	}
}

// allocateVoice returns a free voice, stealing the oldest-triggered
// sounding voice when the pool is exhausted.
func (e *Engine) allocateVoice() *Voice {
	for _, v := range e.voices {
		if !v.Active() {
			return v
		}
	}
	oldest := e.voices[0]
	for _, v := range e.voices[1:] {
		if v.triggerSeq < oldest.triggerSeq {
			oldest = v
		}
	}
	e.stolenNotes.Add(1)
	return oldest
}

func secondsToFrames(seconds float32, sampleRate int) int {
	return int(seconds * float32(sampleRate))
}

// applyPreset configures the voice pool from a validated preset. Runs
// on the fill goroutine except during construction.
func (e *Engine) applyPreset(p *Preset) {
	env := p.Envelope
	attack := secondsToFrames(env.AttackSeconds, e.sampleRate)
	decay := secondsToFrames(env.DecaySeconds, e.sampleRate)
	release := secondsToFrames(env.ReleaseSeconds, e.sampleRate)
	detune := float32(0)
	if p.Detune.Enabled {
		detune = p.Detune.Hz
	}
	for i, v := range e.voices {
		slot := p.Slot(i)
		w, _ := ParseWaveform(slot.Waveform)
		v.SetWaveform(w)
		v.SetDutyCycle(p.PulseWidth)
		v.env.SetADSR(attack, decay, env.SustainLevel, release)
		v.setPan(slot.Pan)
		v.SetDetune(detune)
	}
}
