// synth_constants.go - Engine-wide constants for the pwmsynth audio core

package main

const (
	SAMPLE_RATE   = 22050 // Default output sample rate in Hz
	BUFFER_FRAMES = 512   // Stereo frames per output buffer
	NUM_VOICES    = 8     // Fixed voice pool size
)

const (
	SNAPSHOT_FRAMES = 128 // Frames per visualization snapshot
)

const (
	MAX_SAMPLE = 1.0
	MIN_SAMPLE = -1.0
)

// Output level trims per routing mode. Headphones run quieter for
// hearing safety, the built-in speaker needs full drive to be audible.
const (
	HEADPHONE_TRIM = 0.7
	SPEAKER_TRIM   = 1.0
	BOTH_TRIM      = 0.8
)

const (
	VOICE_MIX_LEVEL = 0.125 // 1/8 for 8 voices, keeps the sum clip-free at full gain
)

const (
	NOISE_LFSR_SEED = 0x7FFFFF // 23-bit LFSR seed
	NOISE_LFSR_MASK = 0x7FFFFF // 23-bit mask
)

const (
	MIN_DUTY_CYCLE = 0.05
	MAX_DUTY_CYCLE = 0.95
)

const MIN_ENV_FRAMES = 1 // Minimum envelope ramp length

const EVENT_QUEUE_DEPTH = 64 // Pending input events per buffer period
