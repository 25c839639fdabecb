// Package gesture classifies which fingers of a projected hand are extended.
package gesture

import (
	"encoding/json"
	"strings"

	"github.com/ayusman/handtrack/internal/geometry"
	"github.com/ayusman/handtrack/internal/skeleton"
)

// FingerState is the set of fingers classified as up, one bit per finger
// (bit 0 = thumb ... bit 4 = pinky). The zero value is the empty set.
type FingerState uint8

// AllUp is the state with every finger extended.
const AllUp FingerState = 1<<skeleton.NumFingers - 1

// Has reports whether f is up.
func (s FingerState) Has(f skeleton.Finger) bool {
	return s&(1<<uint(f)) != 0
}

// With returns s with f marked up.
func (s FingerState) With(f skeleton.Finger) FingerState {
	return s | 1<<uint(f)
}

// Count returns the number of fingers that are up.
func (s FingerState) Count() int {
	n := 0
	for f := skeleton.Thumb; f <= skeleton.Pinky; f++ {
		if s.Has(f) {
			n++
		}
	}
	return n
}

// Fingers returns the indices of the fingers that are up, ascending.
func (s FingerState) Fingers() []int {
	out := make([]int, 0, skeleton.NumFingers)
	for f := skeleton.Thumb; f <= skeleton.Pinky; f++ {
		if s.Has(f) {
			out = append(out, int(f))
		}
	}
	return out
}

func (s FingerState) String() string {
	names := make([]string, 0, skeleton.NumFingers)
	for f := skeleton.Thumb; f <= skeleton.Pinky; f++ {
		if s.Has(f) {
			names = append(names, f.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

// MarshalJSON encodes the state as an array of finger indices.
func (s FingerState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Fingers())
}

// UnmarshalJSON decodes an array of finger indices.
func (s *FingerState) UnmarshalJSON(data []byte) error {
	var fingers []int
	if err := json.Unmarshal(data, &fingers); err != nil {
		return err
	}
	*s = StateOf(fingers...)
	return nil
}

// StateOf builds a FingerState from finger indices. Out-of-range indices
// are ignored.
func StateOf(fingers ...int) FingerState {
	var s FingerState
	for _, f := range fingers {
		if f >= 0 && f < skeleton.NumFingers {
			s = s.With(skeleton.Finger(f))
		}
	}
	return s
}

// FingersUp classifies each finger of hand.
//
// Index through pinky are up when the tip's y is at or above (<=) the joint
// two landmarks back. The thumb extends sideways, so it is up when the tip's
// x is at or left of (<=) the joint one landmark back. The thumb rule assumes
// the mirrored front-camera view and reads a rotated or opposite hand wrongly.
func FingersUp(hand geometry.PixelHand) FingerState {
	var s FingerState

	thumbTip := skeleton.Thumb.Tip()
	if hand[thumbTip].X <= hand[thumbTip-1].X {
		s = s.With(skeleton.Thumb)
	}

	for f := skeleton.Index; f <= skeleton.Pinky; f++ {
		tip := f.Tip()
		if hand[tip].Y <= hand[tip-2].Y {
			s = s.With(f)
		}
	}

	return s
}

// ClassifyAll returns the finger state of every hand, in order.
func ClassifyAll(hands []geometry.PixelHand) []FingerState {
	out := make([]FingerState, len(hands))
	for i, h := range hands {
		out[i] = FingersUp(h)
	}
	return out
}
