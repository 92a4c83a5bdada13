// audio_lut.go - Lookup tables for optimized waveform synthesis

package main

import "math"

const (
	sinLUTSize = 8192           // ~0.00077 cycle resolution
	sinLUTMask = sinLUTSize - 1 // Mask for fast modulo
)

// sinLUT contains one full sine cycle indexed by normalized phase.
// Index mapping: phase * sinLUTSize for phase in [0, 1).
var sinLUT [sinLUTSize]float32

func init() {
	for i := 0; i < sinLUTSize; i++ {
		sinLUT[i] = float32(math.Sin(2 * math.Pi * float64(i) / float64(sinLUTSize)))
	}
}

// lutSin returns sin(2*pi*phase) using table lookup with linear
// interpolation. Phase is the engine's normalized accumulator value;
// values outside [0, 1) are wrapped.
//
//go:nosplit
func lutSin(phase float32) float32 {
	if phase < 0 {
		phase -= float32(int(phase)) - 1
	} else if phase >= 1 {
		phase -= float32(int(phase))
	}

	indexF := phase * sinLUTSize
	index := int(indexF)
	frac := indexF - float32(index)

	index &= sinLUTMask
	next := (index + 1) & sinLUTMask

	return sinLUT[index] + frac*(sinLUT[next]-sinLUT[index])
}

// polyBLEP32 applies polynomial band-limited step correction at a
// waveform discontinuity. t is the normalized phase position (0.0-1.0),
// dt the phase increment per frame (frequency/sampleRate).
//
//go:nosplit
func polyBLEP32(t, dt float32) float32 {
	if t < dt {
		// Leading edge correction
		t /= dt
		return t + t - t*t - 1.0
	} else if t > 1.0-dt {
		// Trailing edge correction
		t = (t - 1.0) / dt
		return t*t + t + t + 1.0
	}
	return 0.0
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp32(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
