// synth_voice_test.go - Voice validation, panning and lifecycle tests

package main

import (
	"errors"
	"math"
	"testing"
)

func TestVoice_NoteOnValidation(t *testing.T) {
	cases := []struct {
		name string
		freq float32
		gain float32
		want error
	}{
		{"Valid", 440, 0.5, nil},
		{"ZeroFrequency", 0, 0.5, ErrInvalidFrequency},
		{"NegativeFrequency", -440, 0.5, ErrInvalidFrequency},
		{"NyquistFrequency", SAMPLE_RATE / 2, 0.5, ErrInvalidFrequency},
		{"AboveSampleRate", SAMPLE_RATE + 8000, 0.5, ErrInvalidFrequency},
		{"NegativeGain", 440, -0.1, ErrInvalidGain},
		{"GainAboveOne", 440, 1.1, ErrInvalidGain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := newVoice(SAMPLE_RATE)
			err := v.NoteOn(tc.freq, tc.gain, 1)
			if !errors.Is(err, tc.want) {
				t.Fatalf("NoteOn(%v, %v) = %v, want %v", tc.freq, tc.gain, err, tc.want)
			}
			if tc.want != nil && v.Active() {
				t.Error("rejected NoteOn activated the voice")
			}
		})
	}
}

func TestVoice_RejectedNoteOnLeavesStateUntouched(t *testing.T) {
	v := newVoice(SAMPLE_RATE)
	if err := v.NoteOn(440, 0.5, 1); err != nil {
		t.Fatal(err)
	}
	freq := v.osc.Frequency()
	gain := v.gain

	if err := v.NoteOn(-1, 0.5, 2); err == nil {
		t.Fatal("expected error")
	}
	if v.osc.Frequency() != freq || v.gain != gain {
		t.Error("failed NoteOn modified voice state")
	}
	if v.triggerSeq != 1 {
		t.Errorf("failed NoteOn updated triggerSeq to %d", v.triggerSeq)
	}
}

func TestVoice_PanValidation(t *testing.T) {
	v := newVoice(SAMPLE_RATE)
	if err := v.SetPan(-1.5); !errors.Is(err, ErrInvalidPan) {
		t.Errorf("SetPan(-1.5) = %v, want ErrInvalidPan", err)
	}
	if err := v.SetPan(1.5); !errors.Is(err, ErrInvalidPan) {
		t.Errorf("SetPan(1.5) = %v, want ErrInvalidPan", err)
	}
	if err := v.SetPan(0.25); err != nil {
		t.Errorf("SetPan(0.25) = %v", err)
	}
}

func TestVoice_EqualPowerPan(t *testing.T) {
	cases := []struct {
		name  string
		pan   float32
		wantL float64
		wantR float64
	}{
		{"HardLeft", -1, 1, 0},
		{"Center", 0, math.Sqrt2 / 2, math.Sqrt2 / 2},
		{"HardRight", 1, 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := newVoice(SAMPLE_RATE)
			if err := v.SetPan(tc.pan); err != nil {
				t.Fatal(err)
			}
			if diff := math.Abs(float64(v.panL) - tc.wantL); diff > 1e-6 {
				t.Errorf("panL = %v, want %v", v.panL, tc.wantL)
			}
			if diff := math.Abs(float64(v.panR) - tc.wantR); diff > 1e-6 {
				t.Errorf("panR = %v, want %v", v.panR, tc.wantR)
			}
			// Power is conserved across the sweep.
			power := float64(v.panL*v.panL + v.panR*v.panR)
			if math.Abs(power-1) > 1e-5 {
				t.Errorf("pan %v: power %v, want 1", tc.pan, power)
			}
		})
	}
}

func TestVoice_InactiveProducesSilence(t *testing.T) {
	v := newVoice(SAMPLE_RATE)
	for i := 0; i < 100; i++ {
		if f := v.Tick(); f.L != 0 || f.R != 0 {
			t.Fatalf("inactive voice produced %+v", f)
		}
	}
}

func TestVoice_LifecycleEndsIdle(t *testing.T) {
	v := newVoice(SAMPLE_RATE)
	v.env.SetADSR(10, 10, 0.5, 10)
	if err := v.NoteOn(440, 1.0, 1); err != nil {
		t.Fatal(err)
	}
	if !v.Active() {
		t.Fatal("voice inactive after NoteOn")
	}
	for i := 0; i < 100; i++ {
		v.Tick()
	}
	v.NoteOff()
	for i := 0; i < 10; i++ {
		v.Tick()
	}
	if v.Active() {
		t.Error("voice still active after release completed")
	}
	if f := v.Tick(); f.L != 0 || f.R != 0 {
		t.Errorf("released voice produced %+v", f)
	}
}

func TestVoice_DetuneSplitsChannels(t *testing.T) {
	v := newVoice(SAMPLE_RATE)
	v.env.SetADSR(1, 1, 1.0, 1)
	v.SetDetune(3)
	if err := v.NoteOn(440, 1.0, 1); err != nil {
		t.Fatal(err)
	}
	// With detune the channels drift out of phase, so over a window
	// they cannot be identical.
	same := true
	for i := 0; i < SAMPLE_RATE; i++ {
		f := v.Tick()
		if abs32(f.L*v.panR-f.R*v.panL) > 1e-3 {
			same = false
			break
		}
	}
	if same {
		t.Error("detuned channels never diverged")
	}
}
