package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	err      error
	calls    int
	closed   bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
	m.sequence = nil
}

// SetSequence makes Detect return one entry per call, in order.
// Once the sequence is exhausted Detect returns no hands.
func (m *MockDetector) SetSequence(seq [][]HandLandmarks) {
	m.sequence = seq
	m.hands = nil
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	call := m.calls
	m.calls++

	if m.err != nil {
		return nil, m.err
	}
	if m.sequence != nil {
		if call >= len(m.sequence) {
			return nil, nil
		}
		return m.sequence[call], nil
	}
	return m.hands, nil
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	return m.closed
}

// Close marks the mock as closed.
func (m *MockDetector) Close() error {
	m.closed = true
	return nil
}

// OpenPalmLandmarks returns a hand with all five fingers extended.
// The thumb points toward smaller X, the convention the finger
// classifier assumes for a mirrored camera feed.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.44, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.38, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.33, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.28, Y: 0.60, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.45, Y: 0.55}
	landmarks.Points[IndexPIP] = Point3D{X: 0.44, Y: 0.45}
	landmarks.Points[IndexDIP] = Point3D{X: 0.44, Y: 0.38}
	landmarks.Points[IndexTip] = Point3D{X: 0.44, Y: 0.31}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.54}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.43}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.35}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28}

	landmarks.Points[RingMCP] = Point3D{X: 0.55, Y: 0.55}
	landmarks.Points[RingPIP] = Point3D{X: 0.56, Y: 0.45}
	landmarks.Points[RingDIP] = Point3D{X: 0.56, Y: 0.38}
	landmarks.Points[RingTip] = Point3D{X: 0.57, Y: 0.32}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.60, Y: 0.58}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.62, Y: 0.50}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.63, Y: 0.45}
	landmarks.Points[PinkyTip] = Point3D{X: 0.64, Y: 0.40}

	return landmarks
}

// FistLandmarks returns a closed hand: every fingertip folded below its
// middle joint and the thumb tucked across the palm.
func FistLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.93,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.45, Y: 0.75, Z: -0.01}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.42, Y: 0.68, Z: -0.02}
	landmarks.Points[ThumbIP] = Point3D{X: 0.44, Y: 0.62, Z: -0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.48, Y: 0.60, Z: -0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.45, Y: 0.55, Z: -0.02}
	landmarks.Points[IndexPIP] = Point3D{X: 0.44, Y: 0.48, Z: -0.05}
	landmarks.Points[IndexDIP] = Point3D{X: 0.45, Y: 0.55, Z: -0.04}
	landmarks.Points[IndexTip] = Point3D{X: 0.46, Y: 0.58, Z: -0.02}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.54, Z: -0.02}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.47, Z: -0.05}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.54, Z: -0.04}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.57, Z: -0.02}

	landmarks.Points[RingMCP] = Point3D{X: 0.55, Y: 0.55, Z: -0.02}
	landmarks.Points[RingPIP] = Point3D{X: 0.56, Y: 0.48, Z: -0.05}
	landmarks.Points[RingDIP] = Point3D{X: 0.56, Y: 0.55, Z: -0.04}
	landmarks.Points[RingTip] = Point3D{X: 0.55, Y: 0.58, Z: -0.02}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.60, Y: 0.58, Z: -0.02}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.61, Y: 0.52, Z: -0.05}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.61, Y: 0.58, Z: -0.04}
	landmarks.Points[PinkyTip] = Point3D{X: 0.60, Y: 0.60, Z: -0.02}

	return landmarks
}

// PointingLandmarks returns a fist with only the index finger extended.
func PointingLandmarks() HandLandmarks {
	landmarks := FistLandmarks()
	landmarks.Score = 0.91

	landmarks.Points[IndexMCP] = Point3D{X: 0.45, Y: 0.55}
	landmarks.Points[IndexPIP] = Point3D{X: 0.44, Y: 0.45}
	landmarks.Points[IndexDIP] = Point3D{X: 0.44, Y: 0.38}
	landmarks.Points[IndexTip] = Point3D{X: 0.44, Y: 0.31}

	return landmarks
}

// ThumbsUpLandmarks returns a fist with the thumb raised and leaning
// slightly toward smaller X.
func ThumbsUpLandmarks() HandLandmarks {
	landmarks := FistLandmarks()
	landmarks.Score = 0.95

	landmarks.Points[ThumbCMC] = Point3D{X: 0.45, Y: 0.72}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.42, Y: 0.64}
	landmarks.Points[ThumbIP] = Point3D{X: 0.41, Y: 0.55}
	landmarks.Points[ThumbTip] = Point3D{X: 0.40, Y: 0.46}

	return landmarks
}
