// display_interface.go - Display backend interface and factory

package main

import (
	"fmt"
)

const (
	DISPLAY_BACKEND_TCELL = iota
	DISPLAY_BACKEND_EBITEN
	DISPLAY_BACKEND_HEADLESS
)

// DisplayOutput is the minimal surface a front panel backend must
// implement. Run blocks until the user quits or Stop is called.
type DisplayOutput interface {
	Run() error
	Stop()
}

// NewDisplayOutput instantiates the requested display backend.
func NewDisplayOutput(backend int, panel *Panel, engine *Engine) (DisplayOutput, error) {
	switch backend {
	case DISPLAY_BACKEND_TCELL:
		return NewTcellDisplay(panel, engine)
	case DISPLAY_BACKEND_EBITEN:
		return NewEbitenDisplay(panel, engine)
	case DISPLAY_BACKEND_HEADLESS:
		return NewHeadlessDisplay(), nil
	default:
		return nil, fmt.Errorf("unknown display backend: %d", backend)
	}
}

// ParseDisplayBackend maps a command line name to a backend selector.
func ParseDisplayBackend(name string) (int, error) {
	switch name {
	case "tcell", "term", "terminal":
		return DISPLAY_BACKEND_TCELL, nil
	case "ebiten", "gui", "window":
		return DISPLAY_BACKEND_EBITEN, nil
	case "none", "headless":
		return DISPLAY_BACKEND_HEADLESS, nil
	default:
		return 0, fmt.Errorf("unknown display backend %q (want tcell, ebiten or none)", name)
	}
}
