// synth_oscillator.go - Phase-accumulator oscillator with five waveforms

package main

// Waveform selects the oscillator's periodic function.
type Waveform int

const (
	WAVE_SINE Waveform = iota
	WAVE_SQUARE
	WAVE_SAW
	WAVE_TRIANGLE
	WAVE_NOISE
	WAVE_COUNT
)

var waveformNames = []string{"Sine", "Square", "Saw", "Triangle", "Noise"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return "Unknown"
	}
	return waveformNames[w]
}

// Oscillator generates one periodic sample stream. The phase
// accumulator is normalized to [0, 1) and advances by
// frequency/sampleRate each frame. The caller (Voice) is responsible
// for rejecting frequencies outside (0, sampleRate/2) before they
// reach here.
type Oscillator struct {
	waveform   Waveform
	frequency  float32
	phase      float32 // Normalized phase, wraps at 1.0
	sampleRate float32
	dutyCycle  float32 // Square pulse width (0.05-0.95)

	// Noise generator state
	noisePhase       float32
	noiseSR          uint32 // LFSR shift register
	noiseFilterState float32
}

func newOscillator(sampleRate float32) Oscillator {
	return Oscillator{
		waveform:   WAVE_SINE,
		sampleRate: sampleRate,
		dutyCycle:  0.5,
		noiseSR:    NOISE_LFSR_SEED,
	}
}

// SetWaveform switches the periodic function. The phase resets so the
// new shape starts from a zero crossing instead of clicking in
// mid-cycle. Selecting the current waveform again is a no-op.
func (o *Oscillator) SetWaveform(w Waveform) {
	if w == o.waveform {
		return
	}
	o.waveform = w
	o.phase = 0
}

// SetFrequency takes effect on the next frame. Phase is deliberately
// not reset: a frequency change mid-note must stay continuous.
func (o *Oscillator) SetFrequency(freq float32) {
	o.frequency = freq
}

// SetDutyCycle sets the square pulse width, clamped away from the
// extremes where the pulse degenerates to DC.
func (o *Oscillator) SetDutyCycle(duty float32) {
	o.dutyCycle = clamp32(duty, MIN_DUTY_CYCLE, MAX_DUTY_CYCLE)
}

func (o *Oscillator) Waveform() Waveform { return o.waveform }

func (o *Oscillator) Frequency() float32 { return o.frequency }

// retrigger restarts the waveform cycle for a fresh note. The noise
// shift register keeps running so the stream stays decorrelated
// between notes while remaining reproducible from engine start.
func (o *Oscillator) retrigger() {
	o.phase = 0
	o.noisePhase = 0
}

// Sample produces the next frame's value in [-1, 1] and advances the
// phase accumulator by one frame.
func (o *Oscillator) Sample() float32 {
	inc := o.frequency / o.sampleRate

	var raw float32
	switch o.waveform {
	case WAVE_SINE:
		raw = lutSin(o.phase)

	case WAVE_SQUARE:
		if o.phase < o.dutyCycle {
			raw = 1.0
		} else {
			raw = -1.0
		}
		// Band-limit the rising edge at 0 and the falling edge at the
		// duty point.
		raw += polyBLEP32(o.phase, inc)
		fall := o.phase - o.dutyCycle
		if fall < 0 {
			fall += 1.0
		}
		raw -= polyBLEP32(fall, inc)

	case WAVE_SAW:
		raw = 2.0*o.phase - 1.0
		raw -= polyBLEP32(o.phase, inc)

	case WAVE_TRIANGLE:
		raw = 2.0*abs32(2.0*o.phase-1.0) - 1.0

	case WAVE_NOISE:
		// Clock the LFSR at the oscillator frequency so low settings
		// produce rumble and high settings produce hiss.
		o.noisePhase += inc
		steps := int(o.noisePhase)
		o.noisePhase -= float32(steps)
		for i := 0; i < steps; i++ {
			// Taps 23,18 give a maximal-length sequence (2^23-1)
			newBit := ((o.noiseSR >> 22) ^ (o.noiseSR >> 17)) & 1
			o.noiseSR = ((o.noiseSR << 1) | newBit) & NOISE_LFSR_MASK
		}
		value := float32(o.noiseSR&1)*2 - 1
		o.noiseFilterState = 0.95*o.noiseFilterState + 0.05*value
		raw = o.noiseFilterState
	}

	if o.waveform != WAVE_NOISE {
		o.phase += inc
		if o.phase >= 1.0 {
			// True modulo: an increment above 1.0 must still land the
			// phase back in [0, 1).
			o.phase -= float32(int(o.phase))
		}
	}

	// Overlapping polyBLEP corrections at extreme frequency/duty
	// combinations can push a corrected edge past full scale.
	return clamp32(raw, MIN_SAMPLE, MAX_SAMPLE)
}
