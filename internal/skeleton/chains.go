// Package skeleton reconstructs per-finger skeletal chains from projected
// hand landmarks and draws them onto a canvas.
package skeleton

import (
	"fmt"

	"github.com/ayusman/handtrack/internal/detector"
)

// Finger indexes the five fingers from thumb (0) to pinky (4).
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers = 5
)

var fingerNames = [NumFingers]string{"thumb", "index", "middle", "ring", "pinky"}

func (f Finger) String() string {
	if f < 0 || int(f) >= NumFingers {
		return fmt.Sprintf("finger(%d)", int(f))
	}
	return fingerNames[f]
}

// ChainLength is the number of landmarks in every finger chain.
const ChainLength = 5

// Chains lists, per finger, the landmark identifiers from wrist to tip.
// Every chain is rooted at the wrist so each finger is drawn attached to
// the hand rather than floating from its base knuckle.
var Chains = [NumFingers][ChainLength]int{
	Thumb:  {detector.Wrist, detector.ThumbCMC, detector.ThumbMCP, detector.ThumbIP, detector.ThumbTip},
	Index:  {detector.Wrist, detector.IndexMCP, detector.IndexPIP, detector.IndexDIP, detector.IndexTip},
	Middle: {detector.Wrist, detector.MiddleMCP, detector.MiddlePIP, detector.MiddleDIP, detector.MiddleTip},
	Ring:   {detector.Wrist, detector.RingMCP, detector.RingPIP, detector.RingDIP, detector.RingTip},
	Pinky:  {detector.Wrist, detector.PinkyMCP, detector.PinkyPIP, detector.PinkyDIP, detector.PinkyTip},
}

// Tip returns the landmark identifier of the finger's tip.
func (f Finger) Tip() int {
	return Chains[f][ChainLength-1]
}

// Connections is the estimator's generic landmark topology, used by the
// default rendering mode. The palm is drawn as a polygon and fingers start
// at their base knuckles.
var Connections = [][2]int{
	{detector.Wrist, detector.ThumbCMC},
	{detector.Wrist, detector.IndexMCP},
	{detector.MiddleMCP, detector.RingMCP},
	{detector.RingMCP, detector.PinkyMCP},
	{detector.IndexMCP, detector.MiddleMCP},
	{detector.Wrist, detector.PinkyMCP},

	{detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP},
	{detector.ThumbIP, detector.ThumbTip},

	{detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP},
	{detector.IndexDIP, detector.IndexTip},

	{detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP},
	{detector.MiddleDIP, detector.MiddleTip},

	{detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP},
	{detector.RingDIP, detector.RingTip},

	{detector.PinkyMCP, detector.PinkyPIP},
	{detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}
