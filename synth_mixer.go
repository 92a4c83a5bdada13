// synth_mixer.go - Voice summation, master gain, output clamping

package main

import "sync/atomic"

// Mixer sums the voice pool into stereo frames. It runs on the
// real-time fill path: per-frame work is bounded by the pool size and
// performs no allocation, locking, or I/O.
//
// Clamping is a last-resort safety measure, not headroom strategy; the
// per-voice mix level keeps the full pool below the clip point at
// unity gains, so the clip counter staying at zero is the expected
// steady state.
type Mixer struct {
	voices        []*Voice
	voiceMixLevel float32
	clipEvents    atomic.Uint64
}

func NewMixer(voices []*Voice) *Mixer {
	return &Mixer{
		voices:        voices,
		voiceMixLevel: VOICE_MIX_LEVEL,
	}
}

// Mix produces one output frame: sum of active voices, scaled by the
// latched routing gain, hard-clamped to the output range. Inactive
// voices are skipped without ticking.
func (m *Mixer) Mix(gain float32) StereoFrame {
	var left, right float32
	for _, v := range m.voices {
		if !v.Active() {
			continue
		}
		f := v.Tick()
		left += f.L * m.voiceMixLevel
		right += f.R * m.voiceMixLevel
	}

	left *= gain
	right *= gain

	if left > MAX_SAMPLE || left < MIN_SAMPLE || right > MAX_SAMPLE || right < MIN_SAMPLE {
		m.clipEvents.Add(1)
		left = clamp32(left, MIN_SAMPLE, MAX_SAMPLE)
		right = clamp32(right, MIN_SAMPLE, MAX_SAMPLE)
	}

	return StereoFrame{L: left, R: right}
}

// ClipEvents returns the number of frames that required clamping.
func (m *Mixer) ClipEvents() uint64 {
	return m.clipEvents.Load()
}
