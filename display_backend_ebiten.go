//go:build !headless

// display_backend_ebiten.go - Windowed front panel drawn into an RGBA framebuffer

package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	EBITEN_PANEL_W = 512
	EBITEN_PANEL_H = 256
	SCOPE_TOP      = 64
	SCOPE_BOTTOM   = EBITEN_PANEL_H - 16
)

// EbitenDisplay renders the scope and VU meters by writing pixels into
// a framebuffer every frame, then blitting it with WritePixels.
type EbitenDisplay struct {
	panel  *Panel
	engine *Engine

	window      *ebiten.Image
	frameBuffer []byte
	stopping    atomic.Bool

	holdL peakHold
	holdR peakHold
}

func NewEbitenDisplay(panel *Panel, engine *Engine) (*EbitenDisplay, error) {
	return &EbitenDisplay{
		panel:       panel,
		engine:      engine,
		frameBuffer: make([]byte, EBITEN_PANEL_W*EBITEN_PANEL_H*4),
	}, nil
}

func (d *EbitenDisplay) Run() error {
	ebiten.SetWindowSize(EBITEN_PANEL_W*2, EBITEN_PANEL_H*2)
	ebiten.SetWindowTitle("PWM Synth")
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	if err := ebiten.RunGame(d); err != nil {
		return &AudioError{Operation: "display", Details: "ebiten run loop", Err: err}
	}
	return nil
}

func (d *EbitenDisplay) Stop() {
	d.stopping.Store(true)
}

func (d *EbitenDisplay) Update() error {
	if d.stopping.Load() || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		d.panel.Silence()
		return ebiten.Termination
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		d.panel.PrevNote()
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		d.panel.NextNote()
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		d.panel.OctaveUp()
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		d.panel.OctaveDown()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		d.panel.TogglePlay()
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		d.panel.CycleWaveform()
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		d.panel.CycleOutputMode()
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		d.panel.AdjustVolume(VOLUME_STEP)
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		d.panel.AdjustVolume(-VOLUME_STEP)
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		d.panel.ToggleDetune()
	}
	for k := ebiten.KeyDigit1; k <= ebiten.KeyDigit7; k++ {
		if inpututil.IsKeyJustPressed(k) {
			d.panel.SelectNote(int(k - ebiten.KeyDigit1))
		}
	}
	return nil
}

func (d *EbitenDisplay) Draw(screen *ebiten.Image) {
	if d.window == nil {
		d.window = ebiten.NewImage(EBITEN_PANEL_W, EBITEN_PANEL_H)
	}
	d.renderFrame()
	d.window.WritePixels(d.frameBuffer)
	screen.DrawImage(d.window, nil)

	status := d.panel.Status()
	state := "stopped"
	if status.Playing {
		state = "playing"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"%s%d %.1f Hz  %s  %s\nOut: %s  Vol: %d%%",
		status.NoteName, status.Octave, status.Frequency, status.Waveform, state,
		status.ModeName, int(status.MasterVolume*100+0.5)))
}

func (d *EbitenDisplay) Layout(_, _ int) (int, int) {
	return EBITEN_PANEL_W, EBITEN_PANEL_H
}

func (d *EbitenDisplay) renderFrame() {
	for i := range d.frameBuffer {
		d.frameBuffer[i] = 0
	}
	snap := d.engine.Viz().Snapshot()
	now := time.Now()
	d.drawVUBar(40, snap.PeakL, d.holdL.update(snap.PeakL, now))
	d.drawVUBar(48, snap.PeakR, d.holdR.update(snap.PeakR, now))
	d.drawScopeTrace(snap)
}

func (d *EbitenDisplay) setPixel(x, y int, r, g, b byte) {
	if x < 0 || x >= EBITEN_PANEL_W || y < 0 || y >= EBITEN_PANEL_H {
		return
	}
	off := (y*EBITEN_PANEL_W + x) * 4
	d.frameBuffer[off] = r
	d.frameBuffer[off+1] = g
	d.frameBuffer[off+2] = b
	d.frameBuffer[off+3] = 0xFF
}

func (d *EbitenDisplay) drawVUBar(y int, peak, hold float32) {
	barWidth := EBITEN_PANEL_W - 16
	width := int(peak * float32(barWidth))
	for x := 0; x < width; x++ {
		r, g := byte(0), byte(0xFF)
		if x > barWidth*3/4 {
			r, g = 0xFF, 0
		}
		for dy := 0; dy < 6; dy++ {
			d.setPixel(8+x, y+dy, r, g, 0)
		}
	}
	if hold > 0 {
		hx := int(hold * float32(barWidth))
		if hx >= barWidth {
			hx = barWidth - 1
		}
		for dy := 0; dy < 6; dy++ {
			d.setPixel(8+hx, y+dy, 0xFF, 0xFF, 0xFF)
		}
	}
}

func (d *EbitenDisplay) drawScopeTrace(snap *VizSnapshot) {
	mid := (SCOPE_TOP + SCOPE_BOTTOM) / 2
	half := float32((SCOPE_BOTTOM - SCOPE_TOP) / 2)
	for x := 0; x < EBITEN_PANEL_W; x++ {
		d.setPixel(x, mid, 0x30, 0x30, 0x30)
	}
	prevY := mid
	for x := 0; x < EBITEN_PANEL_W; x++ {
		f := snap.Frames[x*len(snap.Frames)/EBITEN_PANEL_W]
		mono := (f.L + f.R) * 0.5
		y := mid - int(mono*half)
		// Connect vertically so steep edges stay visible.
		step := 1
		if y < prevY {
			step = -1
		}
		for py := prevY; py != y+step; py += step {
			d.setPixel(x, py, 0, 0xFF, 0x80)
		}
		prevY = y
	}
}
