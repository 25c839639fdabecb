package skeleton

import (
	"image"
	"image/color"

	"github.com/ayusman/handtrack/internal/geometry"
)

// SegmentsPerHand is the number of segments Build emits for one hand.
const SegmentsPerHand = NumFingers * (ChainLength - 1)

// Canvas is a render surface that can draw straight lines.
type Canvas interface {
	Line(a, b image.Point, c color.RGBA, thickness int)
}

// JointCanvas is a Canvas that can also mark joints.
type JointCanvas interface {
	Canvas
	Circle(center image.Point, radius int, c color.RGBA, thickness int)
}

// Style controls line color and thickness.
type Style struct {
	Color     color.RGBA
	Thickness int
}

// DefaultStyle draws white lines two pixels thick.
var DefaultStyle = Style{
	Color:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
	Thickness: 2,
}

// Segment is one line between two adjacent joints.
type Segment struct {
	Finger Finger      `json:"finger"`
	From   int         `json:"from"`
	To     int         `json:"to"`
	A      image.Point `json:"a"`
	B      image.Point `json:"b"`
}

// Build returns the segments joining consecutive landmarks of every finger
// chain, thumb first, each chain ordered from wrist to tip.
func Build(hand geometry.PixelHand) []Segment {
	segments := make([]Segment, 0, SegmentsPerHand)
	for f, chain := range Chains {
		for i := 0; i < len(chain)-1; i++ {
			from, to := chain[i], chain[i+1]
			segments = append(segments, Segment{
				Finger: Finger(f),
				From:   from,
				To:     to,
				A:      hand[from].Point(),
				B:      hand[to].Point(),
			})
		}
	}
	return segments
}

// BuildAll returns the segments of every hand. No hands yields no segments.
func BuildAll(hands []geometry.PixelHand) []Segment {
	var segments []Segment
	for _, h := range hands {
		segments = append(segments, Build(h)...)
	}
	return segments
}

// Draw renders the finger chains of every hand onto c.
func Draw(c Canvas, hands []geometry.PixelHand, style Style) {
	for _, s := range BuildAll(hands) {
		c.Line(s.A, s.B, style.Color, style.Thickness)
	}
}
