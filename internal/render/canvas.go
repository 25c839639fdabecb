package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/handtrack/internal/geometry"
)

// MatCanvas draws onto a gocv.Mat. It implements skeleton.JointCanvas.
type MatCanvas struct {
	Mat *gocv.Mat
}

// NewBlankMat returns a black BGR image of res. The caller closes it.
func NewBlankMat(res geometry.Resolution) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), res.Height, res.Width, gocv.MatTypeCV8UC3)
}

// Resolution returns the canvas size.
func (c MatCanvas) Resolution() geometry.Resolution {
	return geometry.Resolution{Width: c.Mat.Cols(), Height: c.Mat.Rows()}
}

// Line draws a straight line.
func (c MatCanvas) Line(a, b image.Point, col color.RGBA, thickness int) {
	gocv.Line(c.Mat, a, b, col, thickness)
}

// Circle draws a circle; a negative thickness fills it.
func (c MatCanvas) Circle(center image.Point, radius int, col color.RGBA, thickness int) {
	gocv.Circle(c.Mat, center, radius, col, thickness)
}
