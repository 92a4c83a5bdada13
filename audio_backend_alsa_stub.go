//go:build !alsa || headless

// audio_backend_alsa_stub.go - Stand-in when ALSA support is not built

package main

// NewALSAPlayer without the alsa build tag reports the backend as
// unavailable rather than failing at link time.
func NewALSAPlayer(sampleRate int, bm *BufferManager) (AudioOutput, error) {
	return nil, &AudioError{
		Operation: "init",
		Details:   "ALSA backend not built in (rebuild with -tags alsa)",
	}
}
