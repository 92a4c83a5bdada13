// synth_oscillator_test.go - Oscillator waveform and phase tests

package main

import (
	"math"
	"testing"
)

func TestOscillator_OutputRange(t *testing.T) {
	waveforms := []Waveform{WAVE_SINE, WAVE_SQUARE, WAVE_SAW, WAVE_TRIANGLE, WAVE_NOISE}
	for _, w := range waveforms {
		t.Run(w.String(), func(t *testing.T) {
			osc := newOscillator(SAMPLE_RATE)
			osc.SetWaveform(w)
			osc.SetFrequency(440)
			for i := 0; i < SAMPLE_RATE; i++ {
				s := osc.Sample()
				if s < -1.0 || s > 1.0 {
					t.Fatalf("sample %d out of range: %v", i, s)
				}
			}
		})
	}
}

func TestOscillator_PhaseWraparound(t *testing.T) {
	// One period of a sine at frequency f spans sampleRate/f frames.
	// After an integer number of periods the phase must be back near
	// zero, so the next samples repeat the first ones.
	freqs := []float32{110, 262, 440, 880, 1000}
	for _, freq := range freqs {
		osc := newOscillator(SAMPLE_RATE)
		osc.SetWaveform(WAVE_SINE)
		osc.SetFrequency(freq)

		first := make([]float32, 16)
		for i := range first {
			first[i] = osc.Sample()
		}
		osc.retrigger()

		// Step exactly 100 periods' worth of frames via the phase
		// accumulator and compare the restart against the beginning.
		period := float64(SAMPLE_RATE) / float64(freq)
		frames := int(math.Round(period * 100))
		for i := 0; i < frames; i++ {
			osc.Sample()
		}
		for i := 0; i < len(first); i++ {
			got := osc.Sample()
			if diff := math.Abs(float64(got - first[i])); diff > 0.1 {
				t.Errorf("freq %v: sample %d after %d frames: got %v want %v (diff %v)",
					freq, i, frames, got, first[i], diff)
			}
		}
	}
}

func TestOscillator_SuperNyquistFrequencyStaysBounded(t *testing.T) {
	// A frequency above the sample rate pushes the per-frame increment
	// past 1.0. The accumulator must still wrap into [0, 1) and the
	// output must never leave [-1, 1], even though such frequencies are
	// rejected at the voice boundary.
	waveforms := []Waveform{WAVE_SINE, WAVE_SQUARE, WAVE_SAW, WAVE_TRIANGLE}
	for _, w := range waveforms {
		t.Run(w.String(), func(t *testing.T) {
			osc := newOscillator(SAMPLE_RATE)
			osc.SetWaveform(w)
			osc.SetFrequency(30000)
			for i := 0; i < 10000; i++ {
				s := osc.Sample()
				if s < MIN_SAMPLE || s > MAX_SAMPLE {
					t.Fatalf("sample %d out of range: %v", i, s)
				}
				if osc.phase < 0 || osc.phase >= 1.0 {
					t.Fatalf("phase escaped [0, 1) at frame %d: %v", i, osc.phase)
				}
			}
		})
	}
}

func TestOscillator_FrequencyChangeKeepsPhase(t *testing.T) {
	osc := newOscillator(SAMPLE_RATE)
	osc.SetWaveform(WAVE_SINE)
	osc.SetFrequency(440)
	for i := 0; i < 100; i++ {
		osc.Sample()
	}
	phaseBefore := osc.phase
	osc.SetFrequency(880)
	if osc.phase != phaseBefore {
		t.Errorf("frequency change reset phase: %v -> %v", phaseBefore, osc.phase)
	}
}

func TestOscillator_WaveformChangeResetsPhase(t *testing.T) {
	osc := newOscillator(SAMPLE_RATE)
	osc.SetWaveform(WAVE_SINE)
	osc.SetFrequency(440)
	for i := 0; i < 100; i++ {
		osc.Sample()
	}
	osc.SetWaveform(WAVE_SQUARE)
	if osc.phase != 0 {
		t.Errorf("waveform change kept phase %v", osc.phase)
	}
	// Setting the same waveform again must not reset.
	for i := 0; i < 100; i++ {
		osc.Sample()
	}
	phase := osc.phase
	osc.SetWaveform(WAVE_SQUARE)
	if osc.phase != phase {
		t.Errorf("same-waveform set reset phase: %v -> %v", phase, osc.phase)
	}
}

func TestOscillator_SquareDutyCycle(t *testing.T) {
	cases := []struct {
		name string
		duty float32
		want float32 // Expected high fraction after clamping
	}{
		{"Half", 0.5, 0.5},
		{"Quarter", 0.25, 0.25},
		{"ClampedLow", 0.0, MIN_DUTY_CYCLE},
		{"ClampedHigh", 1.0, MAX_DUTY_CYCLE},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			osc := newOscillator(SAMPLE_RATE)
			osc.SetWaveform(WAVE_SQUARE)
			osc.SetFrequency(100)
			osc.SetDutyCycle(tc.duty)

			high := 0
			total := SAMPLE_RATE
			for i := 0; i < total; i++ {
				if osc.Sample() > 0 {
					high++
				}
			}
			got := float32(high) / float32(total)
			if diff := abs32(got - tc.want); diff > 0.02 {
				t.Errorf("duty %v: high fraction %v, want ~%v", tc.duty, got, tc.want)
			}
		})
	}
}

func TestOscillator_TriangleShape(t *testing.T) {
	osc := newOscillator(SAMPLE_RATE)
	osc.SetWaveform(WAVE_TRIANGLE)
	osc.SetFrequency(100)

	// The triangle must hit both extremes within one period.
	period := SAMPLE_RATE / 100
	min, max := float32(1), float32(-1)
	for i := 0; i < period; i++ {
		s := osc.Sample()
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	if min > -0.95 || max < 0.95 {
		t.Errorf("triangle range [%v, %v], want close to [-1, 1]", min, max)
	}
}

func TestOscillator_NoiseDeterministic(t *testing.T) {
	// Two oscillators seeded identically and clocked identically must
	// produce the same sequence.
	a := newOscillator(SAMPLE_RATE)
	b := newOscillator(SAMPLE_RATE)
	for _, osc := range []*Oscillator{&a, &b} {
		osc.SetWaveform(WAVE_NOISE)
		osc.SetFrequency(8000)
	}
	for i := 0; i < 10000; i++ {
		sa, sb := a.Sample(), b.Sample()
		if sa != sb {
			t.Fatalf("noise diverged at frame %d: %v vs %v", i, sa, sb)
		}
	}
}

func TestOscillator_NoiseRetriggerKeepsRegister(t *testing.T) {
	osc := newOscillator(SAMPLE_RATE)
	osc.SetWaveform(WAVE_NOISE)
	osc.SetFrequency(8000)
	for i := 0; i < 1000; i++ {
		osc.Sample()
	}
	sr := osc.noiseSR
	osc.retrigger()
	if osc.noiseSR != sr {
		t.Errorf("retrigger reset the noise register: %#x -> %#x", sr, osc.noiseSR)
	}
	if osc.noisePhase != 0 {
		t.Errorf("retrigger kept noise phase %v", osc.noisePhase)
	}
}

func TestLutSin_MatchesMathSin(t *testing.T) {
	for i := 0; i < 1000; i++ {
		phase := float32(i) / 1000
		got := float64(lutSin(phase))
		want := math.Sin(2 * math.Pi * float64(phase))
		if math.Abs(got-want) > 0.001 {
			t.Fatalf("phase %v: lutSin %v, math.Sin %v", phase, got, want)
		}
	}
}
