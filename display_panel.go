// display_panel.go - Front panel state shared by the display backends

package main

import (
	"sync"
)

const (
	VOLUME_STEP       = 0.1
	MIN_MASTER_VOLUME = 0.1
	MAX_MASTER_VOLUME = 1.0
	DEFAULT_NOTE_GAIN = 1.0
)

// PanelStatus is a copy of the panel state for rendering.
type PanelStatus struct {
	NoteName     string
	Octave       int
	Frequency    float32
	Waveform     Waveform
	Playing      bool
	Detune       bool
	MasterVolume float32
	ModeName     string
	PulseWidth   float32
}

// Panel translates key presses into engine control. All methods are
// safe to call from the display goroutine; the engine applies the
// resulting events at buffer boundaries.
type Panel struct {
	engine *Engine
	preset *Preset

	mutex        sync.Mutex
	noteIndex    int
	octave       int
	playing      bool
	soundingFreq float32
}

func NewPanel(engine *Engine, preset *Preset) *Panel {
	return &Panel{
		engine:    engine,
		preset:    preset,
		noteIndex: 9, // A
		octave:    REFERENCE_OCTAVE,
	}
}

func (p *Panel) Status() PanelStatus {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	routing := p.engine.Routing().Snapshot()
	return PanelStatus{
		NoteName:     NoteName(p.noteIndex),
		Octave:       p.octave,
		Frequency:    NoteFrequency(p.noteIndex, p.octave),
		Waveform:     p.preset.DefaultWaveform(),
		Playing:      p.playing,
		Detune:       p.preset.Detune.Enabled,
		MasterVolume: routing.MasterGain,
		ModeName:     routing.ModeName(),
		PulseWidth:   p.preset.PulseWidth,
	}
}

// retrigger restarts the current note if one is sounding, so parameter
// changes are audible immediately.
func (p *Panel) retrigger() {
	if !p.playing {
		return
	}
	p.engine.NoteOff(p.soundingFreq)
	p.soundingFreq = NoteFrequency(p.noteIndex, p.octave)
	_ = p.engine.NoteOn(p.soundingFreq, DEFAULT_NOTE_GAIN)
}

func (p *Panel) TogglePlay() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.playing {
		p.engine.NoteOff(p.soundingFreq)
		p.playing = false
		return
	}
	p.playing = true
	p.soundingFreq = NoteFrequency(p.noteIndex, p.octave)
	_ = p.engine.NoteOn(p.soundingFreq, DEFAULT_NOTE_GAIN)
}

func (p *Panel) NextNote() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.noteIndex = (p.noteIndex + 1) % len(noteNames)
	p.retrigger()
}

func (p *Panel) PrevNote() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.noteIndex = (p.noteIndex + len(noteNames) - 1) % len(noteNames)
	p.retrigger()
}

// SelectNote jumps to note index i when it is in range.
func (p *Panel) SelectNote(i int) {
	if i < 0 || i >= len(noteNames) {
		return
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.noteIndex = i
	p.retrigger()
}

func (p *Panel) OctaveUp() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.octave < MAX_OCTAVE {
		p.octave++
		p.retrigger()
	}
}

func (p *Panel) OctaveDown() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.octave > MIN_OCTAVE {
		p.octave--
		p.retrigger()
	}
}

func (p *Panel) CycleWaveform() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	next := (p.preset.DefaultWaveform() + 1) % WAVE_COUNT
	// Copy-on-write: the engine may still be reading the old preset.
	preset := p.preset.Clone()
	preset.Waveform = next.String()
	for i := range preset.Voices {
		preset.Voices[i].Waveform = next.String()
	}
	if p.engine.ApplyPreset(preset) == nil {
		p.preset = preset
	}
	p.retrigger()
}

func (p *Panel) ToggleDetune() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	preset := p.preset.Clone()
	preset.Detune.Enabled = !preset.Detune.Enabled
	if p.engine.ApplyPreset(preset) == nil {
		p.preset = preset
	}
}

// CycleOutputMode steps headphone -> speaker -> both.
func (p *Panel) CycleOutputMode() {
	r := p.engine.Routing()
	s := r.Snapshot()
	switch s.Mode() {
	case OUTPUT_HEADPHONE:
		_ = r.SetRouting(false, true, s.MasterGain)
	case OUTPUT_SPEAKER:
		_ = r.SetRouting(true, true, s.MasterGain)
	default:
		_ = r.SetRouting(true, false, s.MasterGain)
	}
}

func (p *Panel) AdjustVolume(delta float32) {
	r := p.engine.Routing()
	s := r.Snapshot()
	v := s.MasterGain + delta
	if v < MIN_MASTER_VOLUME {
		v = MIN_MASTER_VOLUME
	}
	if v > MAX_MASTER_VOLUME {
		v = MAX_MASTER_VOLUME
	}
	_ = r.SetRouting(s.HeadphoneEnabled, s.SpeakerEnabled, v)
}

// ApplyPreset swaps in a reloaded preset, keeping the sounding note.
func (p *Panel) ApplyPreset(preset *Preset) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if err := p.engine.ApplyPreset(preset); err != nil {
		return err
	}
	p.preset = preset
	return nil
}

// Silence releases the sounding note, used on shutdown.
func (p *Panel) Silence() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.playing {
		p.engine.NoteOff(p.soundingFreq)
		p.playing = false
	}
}
