//go:build headless

// audio_backend_oto_stub.go - Headless stand-in for the oto backend

package main

// NewOtoPlayer in headless builds degrades to the no-op backend so the
// factory keeps working without an audio device or display server.
func NewOtoPlayer(sampleRate int, bm *BufferManager) (AudioOutput, error) {
	return NewHeadlessPlayer(), nil
}
