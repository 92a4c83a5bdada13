// audio_interface.go - Audio output backend interface and factory

package main

import "fmt"

// Audio backend selectors.
const (
	AUDIO_BACKEND_OTO = iota
	AUDIO_BACKEND_ALSA
	AUDIO_BACKEND_HEADLESS
)

// AudioError provides detailed error context for audio operations.
type AudioError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *AudioError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audio %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("audio %s failed: %s", e.Operation, e.Details)
}

func (e *AudioError) Unwrap() error { return e.Err }

// AudioOutput is the minimal contract an output peripheral backend
// must implement. Backends pull finished frames from the engine's
// BufferManager at the configured sample rate; the engine guarantees a
// buffer is committed before the peripheral exhausts the one draining.
type AudioOutput interface {
	Start()
	Stop()
	Close()
	IsStarted() bool
}

// NewAudioOutput constructs the selected backend wired to bm.
func NewAudioOutput(backend, sampleRate int, bm *BufferManager) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		return NewOtoPlayer(sampleRate, bm)
	case AUDIO_BACKEND_ALSA:
		return NewALSAPlayer(sampleRate, bm)
	case AUDIO_BACKEND_HEADLESS:
		return NewHeadlessPlayer(), nil
	default:
		return nil, &AudioError{
			Operation: "init",
			Details:   fmt.Sprintf("unknown backend %d", backend),
		}
	}
}

// ParseAudioBackend maps a command-line name to a backend selector.
func ParseAudioBackend(name string) (int, error) {
	switch name {
	case "oto":
		return AUDIO_BACKEND_OTO, nil
	case "alsa":
		return AUDIO_BACKEND_ALSA, nil
	case "none", "headless":
		return AUDIO_BACKEND_HEADLESS, nil
	default:
		return 0, &AudioError{Operation: "init", Details: "unknown backend name " + name}
	}
}
