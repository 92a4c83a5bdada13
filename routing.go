// routing.go - Output routing controller (headphone/speaker/master gain)

package main

import (
	"errors"
	"sync/atomic"
)

var ErrInvalidMasterGain = errors.New("master gain must be within 0.0-1.0")

// Output modes, cycled by the frontend's O key.
const (
	OUTPUT_HEADPHONE = iota
	OUTPUT_SPEAKER
	OUTPUT_BOTH
)

var outputModeNames = []string{"Headphone", "Speaker", "Both"}

// RoutingState is an immutable snapshot of the output configuration.
// The fill path reads one snapshot per buffer, so a routing change can
// never shear audio mid-buffer.
type RoutingState struct {
	HeadphoneEnabled bool
	SpeakerEnabled   bool
	MasterGain       float32
}

// effectiveGain folds the per-mode level trim into the master gain.
// Both sinks disabled means mute.
func (rs RoutingState) effectiveGain() float32 {
	var trim float32
	switch {
	case rs.HeadphoneEnabled && rs.SpeakerEnabled:
		trim = BOTH_TRIM
	case rs.HeadphoneEnabled:
		trim = HEADPHONE_TRIM
	case rs.SpeakerEnabled:
		trim = SPEAKER_TRIM
	default:
		return 0
	}
	return rs.MasterGain * trim
}

// Mode maps the enable flags back to an output mode constant.
func (rs RoutingState) Mode() int {
	switch {
	case rs.HeadphoneEnabled && rs.SpeakerEnabled:
		return OUTPUT_BOTH
	case rs.SpeakerEnabled:
		return OUTPUT_SPEAKER
	default:
		return OUTPUT_HEADPHONE
	}
}

// ModeName returns the display name of the current output mode.
func (rs RoutingState) ModeName() string { return outputModeNames[rs.Mode()] }

// RoutingController holds the routing state behind an atomic pointer.
// Only the low-priority control path writes it; the fill path loads a
// snapshot once per buffer boundary and never sees a partial update.
type RoutingController struct {
	state atomic.Pointer[RoutingState]
}

func NewRoutingController(initial RoutingState) *RoutingController {
	rc := &RoutingController{}
	rc.state.Store(&initial)
	return rc
}

// SetRouting validates and publishes a complete routing state. It is
// consumed at the next buffer boundary, never mid-buffer.
func (rc *RoutingController) SetRouting(headphone, speaker bool, masterGain float32) error {
	if masterGain < 0 || masterGain > 1 {
		return ErrInvalidMasterGain
	}
	rc.state.Store(&RoutingState{
		HeadphoneEnabled: headphone,
		SpeakerEnabled:   speaker,
		MasterGain:       masterGain,
	})
	return nil
}

// Snapshot returns the current routing state by value.
func (rc *RoutingController) Snapshot() RoutingState {
	return *rc.state.Load()
}
