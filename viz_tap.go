// viz_tap.go - Visualization tap: decimated waveform snapshot + VU levels

package main

import (
	"math"
	"sync/atomic"
)

// VizSnapshot is a decimated copy of one output buffer plus level
// measurements, sized for a display refresh decoupled from the audio
// rate. PeakL/PeakR feed the stereo VU meters; Peak and RMS summarize
// both channels.
type VizSnapshot struct {
	Frames [SNAPSHOT_FRAMES]StereoFrame
	Peak   float32
	PeakL  float32
	PeakR  float32
	RMS    float32
	Seq    uint64 // Capture ordinal, lets readers detect fresh data
}

// VizTap copies audio data out of the fill path for the display
// subsystem. Single writer (the fill goroutine, after a buffer is
// committed), any number of readers. Each capture publishes a fresh
// immutable snapshot via an atomic pointer swap, so a slow display
// read can never stall audio production and a held snapshot stays
// valid however stale it gets. Capture runs after the buffer deadline
// has been met, off the allocation-free fill path.
type VizTap struct {
	current atomic.Pointer[VizSnapshot]
	seq     uint64
}

func NewVizTap() *VizTap {
	vt := &VizTap{}
	vt.current.Store(&VizSnapshot{})
	return vt
}

// Capture decimates buf into a new snapshot, computes peak and RMS
// over the whole buffer, and publishes. Called once per buffer, off
// the hard fill deadline.
func (vt *VizTap) Capture(buf []StereoFrame) {
	if len(buf) == 0 {
		return
	}
	snap := &VizSnapshot{}

	var peakL, peakR float32
	var sumSq float64
	for _, f := range buf {
		if a := abs32(f.L); a > peakL {
			peakL = a
		}
		if a := abs32(f.R); a > peakR {
			peakR = a
		}
		sumSq += float64(f.L)*float64(f.L) + float64(f.R)*float64(f.R)
	}

	step := len(buf) / SNAPSHOT_FRAMES
	if step < 1 {
		step = 1
	}
	for i := 0; i < SNAPSHOT_FRAMES; i++ {
		src := i * step
		if src >= len(buf) {
			src = len(buf) - 1
		}
		snap.Frames[i] = buf[src]
	}

	snap.PeakL = peakL
	snap.PeakR = peakR
	snap.Peak = peakL
	if peakR > peakL {
		snap.Peak = peakR
	}
	snap.RMS = float32(math.Sqrt(sumSq / float64(2*len(buf))))

	vt.seq++
	snap.Seq = vt.seq

	vt.current.Store(snap)
}

// Snapshot returns the most recently published capture. Readers must
// treat the contents as possibly stale.
func (vt *VizTap) Snapshot() *VizSnapshot {
	return vt.current.Load()
}
