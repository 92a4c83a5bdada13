// audio_benchmark_test.go - Fill path performance benchmarks

package main

import (
	"testing"
)

func BenchmarkOscillatorSine(b *testing.B) {
	osc := newOscillator(SAMPLE_RATE)
	osc.SetWaveform(WAVE_SINE)
	osc.SetFrequency(440)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		osc.Sample()
	}
}

func BenchmarkOscillatorSquareBLEP(b *testing.B) {
	osc := newOscillator(SAMPLE_RATE)
	osc.SetWaveform(WAVE_SQUARE)
	osc.SetFrequency(440)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		osc.Sample()
	}
}

func BenchmarkOscillatorNoise(b *testing.B) {
	osc := newOscillator(SAMPLE_RATE)
	osc.SetWaveform(WAVE_NOISE)
	osc.SetFrequency(8000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		osc.Sample()
	}
}

func BenchmarkMixerFullPool(b *testing.B) {
	voices := makeVoices(NUM_VOICES)
	m := NewMixer(voices)
	for i, v := range voices {
		if err := v.NoteOn(100*float32(i+1), 1.0, uint64(i)); err != nil {
			b.Fatal(err)
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Mix(0.8)
	}
}

func BenchmarkRenderBuffer(b *testing.B) {
	e := NewEngine(DefaultPresetConfig())
	for i := 0; i < NUM_VOICES; i++ {
		if err := e.NoteOn(100*float32(i+1), 1.0); err != nil {
			b.Fatal(err)
		}
	}
	buf := make([]StereoFrame, BUFFER_FRAMES)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.renderBuffer(buf)
	}
	b.ReportMetric(float64(BUFFER_FRAMES), "frames/op")
}

func BenchmarkVizCapture(b *testing.B) {
	vt := NewVizTap()
	buf := make([]StereoFrame, BUFFER_FRAMES)
	for i := range buf {
		buf[i] = StereoFrame{L: 0.5, R: -0.5}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		vt.Capture(buf)
	}
}
