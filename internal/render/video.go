package render

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/handtrack/internal/geometry"
)

// DefaultCodec is the FourCC used for rendered video files.
const DefaultCodec = "MJPG"

// VideoSink writes rendered frames to a video file.
type VideoSink struct {
	writer *gocv.VideoWriter
	res    geometry.Resolution
	frames int
}

// NewVideoSink creates path for frames of size res at fps.
func NewVideoSink(path string, fps float64, res geometry.Resolution) (*VideoSink, error) {
	if !res.Valid() {
		return nil, fmt.Errorf("video sink: invalid resolution %s", res)
	}
	if fps <= 0 {
		fps = 30
	}

	w, err := gocv.VideoWriterFile(path, DefaultCodec, fps, res.Width, res.Height, true)
	if err != nil {
		return nil, fmt.Errorf("open video writer %s: %w", path, err)
	}
	return &VideoSink{writer: w, res: res}, nil
}

// Present appends canvas to the file. Frames of another size are resized.
func (s *VideoSink) Present(canvas *gocv.Mat) error {
	frame := *canvas
	if canvas.Cols() != s.res.Width || canvas.Rows() != s.res.Height {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(*canvas, &resized, image.Pt(s.res.Width, s.res.Height), 0, 0, gocv.InterpolationLinear)
		frame = resized
	}

	if err := s.writer.Write(frame); err != nil {
		return fmt.Errorf("write frame %d: %w", s.frames, err)
	}
	s.frames++
	return nil
}

// Frames returns the number of frames written.
func (s *VideoSink) Frames() int {
	return s.frames
}

// Close finalizes the file.
func (s *VideoSink) Close() error {
	return s.writer.Close()
}
