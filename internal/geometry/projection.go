// Package geometry maps normalized hand landmarks into pixel space.
package geometry

import (
	"fmt"
	"image"
	"math"

	"github.com/ayusman/handtrack/internal/detector"
)

// Resolution is a target surface size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (r Resolution) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// PixelLandmark is a landmark identifier with its pixel position.
type PixelLandmark struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

// Point returns the landmark as an image.Point.
func (p PixelLandmark) Point() image.Point {
	return image.Pt(p.X, p.Y)
}

// PixelHand holds the projected landmarks of one hand, indexed by identifier.
type PixelHand [detector.NumLandmarks]PixelLandmark

// Project scales every normalized landmark of hand to res.
//
// Each coordinate is rounded to the nearest pixel, halves away from zero:
// x = round(X*Width), y = round(Y*Height). Coordinates are not clamped, so
// an estimator value outside [0,1] yields a point off the canvas.
func Project(hand *detector.HandLandmarks, res Resolution) PixelHand {
	var out PixelHand
	for id, p := range hand.Points {
		out[id] = PixelLandmark{
			ID: id,
			X:  int(math.Round(p.X * float64(res.Width))),
			Y:  int(math.Round(p.Y * float64(res.Height))),
		}
	}
	return out
}

// ProjectAll projects each hand to res. No hands yields an empty result.
func ProjectAll(hands []detector.HandLandmarks, res Resolution) []PixelHand {
	out := make([]PixelHand, len(hands))
	for i := range hands {
		out[i] = Project(&hands[i], res)
	}
	return out
}
