package skeleton

import (
	"image/color"

	"github.com/ayusman/handtrack/internal/geometry"
)

// ConnectionStyle is the look of the default landmark overlay.
type ConnectionStyle struct {
	Line        Style
	Joint       color.RGBA
	JointRadius int
}

// DefaultConnectionStyle mirrors the estimator's stock drawing: light grey
// connections and small red joints.
var DefaultConnectionStyle = ConnectionStyle{
	Line:        Style{Color: color.RGBA{R: 224, G: 224, B: 224, A: 255}, Thickness: 2},
	Joint:       color.RGBA{R: 255, A: 255},
	JointRadius: 2,
}

// DrawDefault renders hand with the generic connection topology. Joints are
// marked only when c implements JointCanvas.
func DrawDefault(c Canvas, hand geometry.PixelHand, style ConnectionStyle) {
	for _, conn := range Connections {
		c.Line(hand[conn[0]].Point(), hand[conn[1]].Point(), style.Line.Color, style.Line.Thickness)
	}

	jc, ok := c.(JointCanvas)
	if !ok {
		return
	}
	for _, lm := range hand {
		jc.Circle(lm.Point(), style.JointRadius, style.Joint, -1)
	}
}
