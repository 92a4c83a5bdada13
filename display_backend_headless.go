// display_backend_headless.go - No-op display for tests and embedding

package main

// HeadlessDisplay satisfies DisplayOutput without drawing anything.
// Run blocks until Stop so the caller's lifecycle code stays the same
// across backends.
type HeadlessDisplay struct {
	stop chan struct{}
}

func NewHeadlessDisplay() *HeadlessDisplay {
	return &HeadlessDisplay{stop: make(chan struct{})}
}

func (h *HeadlessDisplay) Run() error {
	<-h.stop
	return nil
}

func (h *HeadlessDisplay) Stop() {
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
}
