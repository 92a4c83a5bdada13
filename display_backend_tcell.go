// display_backend_tcell.go - Terminal front panel (scope, VU meters, status)

package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
)

const (
	PANEL_FPS       = 30
	VU_BAR_WIDTH    = 40
	PEAK_HOLD_DECAY = 0.01 // Per tick, after the hold window expires
	PEAK_HOLD_TIME  = time.Second
)

type peakHold struct {
	level float32
	since time.Time
}

func (ph *peakHold) update(peak float32, now time.Time) float32 {
	if peak >= ph.level {
		ph.level = peak
		ph.since = now
	} else if now.Sub(ph.since) > PEAK_HOLD_TIME {
		ph.level -= PEAK_HOLD_DECAY
		if ph.level < peak {
			ph.level = peak
		}
	}
	return ph.level
}

// TcellDisplay renders the front panel into a terminal. It reads the
// visualization tap and the panel state at ~30 FPS; key presses are
// forwarded to the panel.
type TcellDisplay struct {
	screen tcell.Screen
	panel  *Panel
	engine *Engine
	stop   chan struct{}

	holdL peakHold
	holdR peakHold
}

func NewTcellDisplay(panel *Panel, engine *Engine) (*TcellDisplay, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	return &TcellDisplay{
		screen: screen,
		panel:  panel,
		engine: engine,
		stop:   make(chan struct{}),
	}, nil
}

func (d *TcellDisplay) Run() error {
	defer d.screen.Fini()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / PANEL_FPS)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return nil
		case ev := <-events:
			if !d.handleInput(ev) {
				return nil
			}
		case <-ticker.C:
			d.draw()
		}
	}
}

func (d *TcellDisplay) Stop() {
	select {
	case <-d.stop:
	default:
		close(d.stop)
	}
}

func (d *TcellDisplay) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			d.panel.Silence()
			return false
		case tcell.KeyLeft:
			d.panel.PrevNote()
		case tcell.KeyRight:
			d.panel.NextNote()
		case tcell.KeyUp:
			d.panel.OctaveUp()
		case tcell.KeyDown:
			d.panel.OctaveDown()
		case tcell.KeyRune:
			d.handleRune(ev.Rune())
		}
	case *tcell.EventResize:
		d.screen.Sync()
	}
	return true
}

func (d *TcellDisplay) handleRune(r rune) {
	switch r {
	case 'p', 'P':
		d.panel.TogglePlay()
	case 'w', 'W':
		d.panel.CycleWaveform()
	case 'o', 'O':
		d.panel.CycleOutputMode()
	case 'v', 'V':
		d.panel.AdjustVolume(VOLUME_STEP)
	case 'b', 'B':
		d.panel.AdjustVolume(-VOLUME_STEP)
	case 'd', 'D':
		d.panel.ToggleDetune()
	default:
		if r >= '1' && r <= '7' {
			d.panel.SelectNote(int(r - '1'))
		}
	}
}

func (d *TcellDisplay) draw() {
	d.screen.Clear()
	width, height := d.screen.Size()
	status := d.panel.Status()
	snap := d.engine.Viz().Snapshot()
	stats := d.engine.Stats()
	now := time.Now()

	text := tcell.StyleDefault
	accent := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	warn := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	state := "stopped"
	if status.Playing {
		state = "playing"
	}
	d.drawText(0, 0, accent, fmt.Sprintf("PWM Synth  %s%d %.1f Hz  %s  %s",
		status.NoteName, status.Octave, status.Frequency, status.Waveform, state))
	detune := "off"
	if status.Detune {
		detune = "on"
	}
	d.drawText(0, 1, text, fmt.Sprintf("Out: %s  Vol: %d%%  Detune: %s  PW: %.2f",
		status.ModeName, int(status.MasterVolume*100+0.5), detune, status.PulseWidth))

	d.drawVU(0, 3, "L", snap.PeakL, d.holdL.update(snap.PeakL, now), width)
	d.drawVU(0, 4, "R", snap.PeakR, d.holdR.update(snap.PeakR, now), width)
	d.drawText(0, 5, text, fmt.Sprintf("RMS %.3f", snap.RMS))

	d.drawScope(7, width, height-10, snap)

	d.drawText(0, height-3, warn, fmt.Sprintf(
		"buffers %d  misses %d  underruns %d  clips %d  stolen %d  voices %d",
		stats.BuffersFilled, stats.DeadlineMisses, stats.Underruns,
		stats.ClipEvents, stats.StolenNotes, stats.ActiveVoices))
	d.drawText(0, height-2, text,
		"arrows: note/octave  1-7: note  P: play  W: wave  O: output  V/B: vol  D: detune  ESC: quit")

	d.screen.Show()
}

func (d *TcellDisplay) drawVU(x, y int, label string, peak, hold float32, width int) {
	barWidth := VU_BAR_WIDTH
	if barWidth > width-8 {
		barWidth = width - 8
	}
	if barWidth < 1 {
		return
	}
	d.drawText(x, y, tcell.StyleDefault, label+" ")
	filled := int(peak * float32(barWidth))
	holdPos := int(hold * float32(barWidth))
	if holdPos >= barWidth {
		holdPos = barWidth - 1
	}
	for i := 0; i < barWidth; i++ {
		style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
		if i > barWidth*3/4 {
			style = tcell.StyleDefault.Foreground(tcell.ColorRed)
		}
		switch {
		case i < filled:
			d.screen.SetContent(x+2+i, y, '█', nil, style)
		case i == holdPos && hold > 0:
			d.screen.SetContent(x+2+i, y, '|', nil, style)
		default:
			d.screen.SetContent(x+2+i, y, '·', nil, tcell.StyleDefault.Foreground(tcell.ColorGray))
		}
	}
}

func (d *TcellDisplay) drawScope(top, width, bottom int, snap *VizSnapshot) {
	rows := bottom - top
	if rows < 3 || width < 2 {
		return
	}
	mid := top + rows/2
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	axis := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for x := 0; x < width; x++ {
		d.screen.SetContent(x, mid, '─', nil, axis)
	}
	cols := width
	if cols > len(snap.Frames) {
		cols = len(snap.Frames)
	}
	for x := 0; x < cols; x++ {
		f := snap.Frames[x*len(snap.Frames)/cols]
		mono := (f.L + f.R) * 0.5
		y := mid - int(mono*float32(rows/2))
		if y < top {
			y = top
		}
		if y >= bottom {
			y = bottom - 1
		}
		d.screen.SetContent(x, y, '█', nil, style)
	}
}

func (d *TcellDisplay) drawText(x, y int, style tcell.Style, s string) {
	for i, r := range s {
		d.screen.SetContent(x+i, y, r, nil, style)
	}
}
