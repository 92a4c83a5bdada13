//go:build headless

// display_backend_ebiten_stub.go - Headless builds have no windowed panel

package main

func NewEbitenDisplay(panel *Panel, engine *Engine) (DisplayOutput, error) {
	return nil, &AudioError{
		Operation: "display init",
		Details:   "windowed panel not built in (rebuild without -tags headless)",
	}
}
