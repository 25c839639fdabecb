package capture

import (
	"errors"
	"testing"

	"github.com/ayusman/handtrack/internal/geometry"
)

var testRes = geometry.Resolution{Width: 640, Height: 480}

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name     string
		deviceID int
		wantFPS  int
	}{
		{
			name:     "default device",
			deviceID: 0,
			wantFPS:  DefaultFPS,
		},
		{
			name:     "device 1",
			deviceID: 1,
			wantFPS:  DefaultFPS,
		},
		{
			name:     "device 2",
			deviceID: 2,
			wantFPS:  DefaultFPS,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.deviceID, testRes)

			if cam == nil {
				t.Fatal("NewCamera returned nil")
			}

			// Check default FPS through public interface
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d (default)", got, tt.wantFPS)
			}

			// Camera should not be running initially
			if cam.IsOpen() {
				t.Error("camera should not be running initially")
			}
		})
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0, testRes)

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{
			name:    "set to 10",
			fps:     10,
			wantFPS: 10,
		},
		{
			name:    "set to 30",
			fps:     30,
			wantFPS: 30,
		},
		{
			name:    "set to 1",
			fps:     1,
			wantFPS: 1,
		},
		{
			name:    "set to 0 should keep previous",
			fps:     0,
			wantFPS: 1, // Previous value
		},
		{
			name:    "set to negative should keep previous",
			fps:     -5,
			wantFPS: 1, // Previous value
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)

			got := cam.FPS()
			if got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

func TestCamera_FPS(t *testing.T) {
	cam := NewCamera(0, testRes)

	// Default FPS
	if got := cam.FPS(); got != DefaultFPS {
		t.Errorf("FPS() = %d, want %d (default)", got, DefaultFPS)
	}

	// After setting
	cam.SetFPS(15)
	if got := cam.FPS(); got != 15 {
		t.Errorf("FPS() = %d, want 15", got)
	}
}

func TestCamera_IsOpen_NotOpened(t *testing.T) {
	cam := NewCamera(0, testRes)

	if cam.IsOpen() {
		t.Error("IsOpen() should return false before Open() is called")
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0, testRes)

	// Test Open
	err := cam.Open()
	if err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	// Test ReadFrame
	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat == nil {
			t.Error("ReadFrame() returned nil mat")
		} else if mat.Empty() {
			t.Error("ReadFrame() returned empty mat")
		} else {
			// Verify dimensions (we set 640x480)
			if mat.Cols() != 640 || mat.Rows() != 480 {
				t.Logf("Frame dimensions: %dx%d (expected 640x480, but camera may not support)", mat.Cols(), mat.Rows())
			}
			mat.Close()
		}
	}

	// Test Close
	err = cam.Close()
	if err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(0, testRes)

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(0, testRes)

	// Close on not opened camera should not panic and return nil
	err := cam.Close()
	if err != nil {
		t.Errorf("Close() on not opened camera should return nil, got: %v", err)
	}
}

func TestFileSource_Missing(t *testing.T) {
	src := NewFileSource("/nonexistent/clip.mp4")

	if src.Path() != "/nonexistent/clip.mp4" {
		t.Errorf("Path() = %q", src.Path())
	}
	if src.FrameCount() != 0 {
		t.Errorf("FrameCount() before open = %d, want 0", src.FrameCount())
	}

	var cam Camera = src
	if err := cam.Open(); err == nil {
		cam.Close()
		t.Skip("backend opened a missing file; nothing to assert")
	}
	if cam.IsOpen() {
		t.Error("source should not be open after a failed Open")
	}
}
