// Package capture provides frame sources backed by GoCV (OpenCV): live
// cameras and video files.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/handtrack/internal/geometry"
)

// Default camera settings
const (
	DefaultFPS    = 30
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")

	// ErrEndOfStream is returned when the source has no more frames.
	ErrEndOfStream = errors.New("end of stream")
)

// Camera defines the interface for frame sources.
type Camera interface {
	Open() error
	Close() error
	// ReadFrame returns the next frame. The caller closes the returned Mat.
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// cameraImpl manages video capture from a device or file using GoCV.
type cameraImpl struct {
	source     interface{} // device ID (int) or file path (string)
	resolution geometry.Resolution
	capture    *gocv.VideoCapture
	mu         sync.Mutex
	running    bool
	fps        int
}

// NewCamera creates a Camera for the given device ID that requests the
// target resolution when opened. An invalid resolution leaves the device's
// own default in place.
func NewCamera(deviceID int, res geometry.Resolution) Camera {
	return &cameraImpl{
		source:     deviceID,
		resolution: res,
		fps:        DefaultFPS,
	}
}

// FileSource is a Camera that plays a video file once.
type FileSource struct {
	*cameraImpl
	path string
}

// NewFileSource creates a source that reads frames from the video at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{
		cameraImpl: &cameraImpl{source: path},
		path:       path,
	}
}

// FrameCount returns the number of frames the container reports, or 0 when
// the file is not open or the count is unknown.
func (f *FileSource) FrameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.capture == nil {
		return 0
	}
	n := f.capture.Get(gocv.VideoCaptureFrameCount)
	if n < 0 {
		return 0
	}
	return int(n)
}

// Path returns the video file path.
func (f *FileSource) Path() string {
	return f.path
}

// Open opens the device or file for capturing frames.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.source)
	if err != nil {
		return fmt.Errorf("open video capture %v: %w", c.source, err)
	}

	if _, isDevice := c.source.(int); isDevice {
		if c.resolution.Valid() {
			capture.Set(gocv.VideoCaptureFrameWidth, float64(c.resolution.Width))
			capture.Set(gocv.VideoCaptureFrameHeight, float64(c.resolution.Height))
		}
		capture.Set(gocv.VideoCaptureFPS, float64(c.fps))
	} else if fps := capture.Get(gocv.VideoCaptureFPS); fps > 0 {
		c.fps = int(fps + 0.5)
	}

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the source and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the source.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, ErrEndOfStream
	}

	if mat.Empty() {
		mat.Close()
		return nil, ErrEndOfStream
	}

	return &mat, nil
}

// SetFPS sets the frames per second for capture.
// Values less than or equal to 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current frames per second setting.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// IsOpen returns true if the source is currently open.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
