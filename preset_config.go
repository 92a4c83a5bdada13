// preset_config.go - Persistent preset configuration (JSON)

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

const defaultPreset = `
{
	"sampleRate": 22050,
	"waveform": "sine",
	"pulseWidth": 0.5,
	"envelope": {
		"attackSeconds": 0.01,
		"decaySeconds": 0.05,
		"sustainLevel": 0.7,
		"releaseSeconds": 0.15
	},
	"voices": [
		{ "waveform": "sine", "gain": 1.0, "pan": -0.2 },
		{ "waveform": "sine", "gain": 1.0, "pan": 0.2 }
	],
	"routing": {
		"headphone": true,
		"speaker": false,
		"masterGain": 0.8
	},
	"detune": {
		"enabled": true,
		"hz": 3
	},
	"watchPreset": false
}
`

type EnvelopeConfig struct {
	AttackSeconds  float32 `json:"attackSeconds"`
	DecaySeconds   float32 `json:"decaySeconds"`
	SustainLevel   float32 `json:"sustainLevel"`
	ReleaseSeconds float32 `json:"releaseSeconds"`
}

type VoiceSlotConfig struct {
	Waveform string  `json:"waveform"`
	Gain     float32 `json:"gain"`
	Pan      float32 `json:"pan"`
}

type RoutingConfig struct {
	Headphone  bool    `json:"headphone"`
	Speaker    bool    `json:"speaker"`
	MasterGain float32 `json:"masterGain"`
}

type DetuneConfig struct {
	Enabled bool    `json:"enabled"`
	Hz      float32 `json:"hz"`
}

// Preset is the persistent engine configuration, loaded once at init.
// No file I/O happens on the real-time path; reloads arrive through
// the engine's event queue and apply at buffer boundaries.
type Preset struct {
	SampleRate  int               `json:"sampleRate"`
	Waveform    string            `json:"waveform"`
	PulseWidth  float32           `json:"pulseWidth"`
	Envelope    EnvelopeConfig    `json:"envelope"`
	Voices      []VoiceSlotConfig `json:"voices,omitempty"`
	Routing     RoutingConfig     `json:"routing"`
	Detune      DetuneConfig      `json:"detune"`
	WatchPreset bool              `json:"watchPreset"`
}

// ParseWaveform maps a preset waveform name to its selector.
func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(name) {
	case "sine":
		return WAVE_SINE, nil
	case "square", "pulse":
		return WAVE_SQUARE, nil
	case "saw", "sawtooth":
		return WAVE_SAW, nil
	case "triangle":
		return WAVE_TRIANGLE, nil
	case "noise":
		return WAVE_NOISE, nil
	default:
		return 0, fmt.Errorf("unknown waveform %q", name)
	}
}

// DefaultWaveform returns the preset's base waveform selector. The
// preset must have passed validation.
func (p *Preset) DefaultWaveform() Waveform {
	w, err := ParseWaveform(p.Waveform)
	if err != nil {
		return WAVE_SINE
	}
	return w
}

// Slot returns the effective configuration for voice slot i: the
// per-slot override if one exists, otherwise the preset defaults.
func (p *Preset) Slot(i int) VoiceSlotConfig {
	if i >= 0 && i < len(p.Voices) {
		slot := p.Voices[i]
		if slot.Waveform == "" {
			slot.Waveform = p.Waveform
		}
		return slot
	}
	return VoiceSlotConfig{Waveform: p.Waveform, Gain: 1.0, Pan: 0}
}

func (p *Preset) validate() error {
	if p.SampleRate <= 0 {
		return fmt.Errorf("sampleRate must be positive, got %d", p.SampleRate)
	}
	if p.PulseWidth < MIN_DUTY_CYCLE || p.PulseWidth > MAX_DUTY_CYCLE {
		return fmt.Errorf("pulseWidth %v outside %v-%v", p.PulseWidth, MIN_DUTY_CYCLE, MAX_DUTY_CYCLE)
	}
	if _, err := ParseWaveform(p.Waveform); err != nil {
		return err
	}
	env := p.Envelope
	if env.AttackSeconds < 0 || env.DecaySeconds < 0 || env.ReleaseSeconds < 0 {
		return fmt.Errorf("envelope times must be non-negative")
	}
	if env.SustainLevel < 0 || env.SustainLevel > 1 {
		return fmt.Errorf("sustainLevel %v outside 0.0-1.0", env.SustainLevel)
	}
	if p.Routing.MasterGain < 0 || p.Routing.MasterGain > 1 {
		return fmt.Errorf("masterGain %v outside 0.0-1.0", p.Routing.MasterGain)
	}
	if p.Detune.Hz < 0 {
		return fmt.Errorf("detune hz must be non-negative")
	}
	for i, slot := range p.Voices {
		if slot.Waveform != "" {
			if _, err := ParseWaveform(slot.Waveform); err != nil {
				return fmt.Errorf("voice %d: %w", i, err)
			}
		}
		if slot.Gain < 0 || slot.Gain > 1 {
			return fmt.Errorf("voice %d: gain %v outside 0.0-1.0", i, slot.Gain)
		}
		if slot.Pan < -1 || slot.Pan > 1 {
			return fmt.Errorf("voice %d: pan %v outside -1.0-1.0", i, slot.Pan)
		}
	}
	return nil
}

// Clone returns a deep copy, so a caller can derive a modified preset
// without mutating one the engine may still be reading.
func (p *Preset) Clone() *Preset {
	out := *p
	out.Voices = append([]VoiceSlotConfig(nil), p.Voices...)
	return &out
}

// RoutingState converts the persisted routing defaults to engine form.
func (p *Preset) RoutingState() RoutingState {
	return RoutingState{
		HeadphoneEnabled: p.Routing.Headphone,
		SpeakerEnabled:   p.Routing.Speaker,
		MasterGain:       p.Routing.MasterGain,
	}
}

// DefaultPresetConfig returns the built-in preset.
func DefaultPresetConfig() *Preset {
	var p Preset
	// The embedded default is a constant; a decode failure is a
	// programming error.
	if err := json.Unmarshal([]byte(defaultPreset), &p); err != nil {
		panic(err)
	}
	return &p
}

// ReadPreset loads a preset file, writing the built-in default first
// if the file does not exist yet.
func ReadPreset(path string) (*Preset, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, []byte(defaultPreset), 0644); err != nil {
			return nil, fmt.Errorf("can't write default preset: %w", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read preset: %w", err)
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshalling preset: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid preset: %w", err)
	}
	return &p, nil
}
