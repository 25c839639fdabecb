package render

import (
	"gocv.io/x/gocv"
)

// DefaultStopKey quits the live window.
const DefaultStopKey = 'q'

// Window shows rendered frames in a HighGUI window and polls for the stop key.
// It must be used from the goroutine that created it.
type Window struct {
	win     *gocv.Window
	stopKey int
	stopped bool
}

// NewWindow opens a window with the given title, optionally fullscreen.
func NewWindow(title string, fullscreen bool) *Window {
	win := gocv.NewWindow(title)
	if fullscreen {
		win.SetWindowProperty(gocv.WindowPropertyFullscreen, gocv.WindowFullscreen)
	}
	return &Window{win: win, stopKey: DefaultStopKey}
}

// Present shows canvas and waits one millisecond for a key press.
func (w *Window) Present(canvas *gocv.Mat) error {
	w.win.IMShow(*canvas)
	if key := w.win.WaitKey(1); key >= 0 && key&0xFF == w.stopKey {
		w.stopped = true
	}
	return nil
}

// StopRequested reports whether the stop key has been pressed.
func (w *Window) StopRequested() bool {
	return w.stopped
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}
