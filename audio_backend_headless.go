// audio_backend_headless.go - No-op audio backend for tests and CI

package main

// HeadlessPlayer satisfies AudioOutput without touching any hardware.
// Tests drive the buffer manager's drain side directly.
type HeadlessPlayer struct {
	started bool
}

func NewHeadlessPlayer() *HeadlessPlayer {
	return &HeadlessPlayer{}
}

func (hp *HeadlessPlayer) Start() {
	hp.started = true
}

func (hp *HeadlessPlayer) Stop() {
	hp.started = false
}

func (hp *HeadlessPlayer) Close() {
	hp.started = false
}

func (hp *HeadlessPlayer) IsStarted() bool {
	return hp.started
}
