package detector

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

func TestHandLandmarks_InFrame(t *testing.T) {
	t.Run("fixture is inside the frame", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		if !hand.InFrame() {
			t.Error("expected open palm fixture to be in frame")
		}
	})

	t.Run("negative coordinate is outside", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		hand.Points[PinkyTip].X = -0.01
		if hand.InFrame() {
			t.Error("expected hand with negative X to be out of frame")
		}
	})

	t.Run("coordinate above one is outside", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		hand.Points[Wrist].Y = 1.2
		if hand.InFrame() {
			t.Error("expected hand with Y > 1 to be out of frame")
		}
	})

	t.Run("nil hand is not in frame", func(t *testing.T) {
		var hand *HandLandmarks
		if hand.InFrame() {
			t.Error("expected nil hand to report false")
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{ThumbsUpLandmarks(), OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
	})

	t.Run("plays back a sequence then goes empty", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetSequence([][]HandLandmarks{
			{OpenPalmLandmarks()},
			nil,
			{FistLandmarks(), PointingLandmarks()},
		})

		wantCounts := []int{1, 0, 2, 0, 0}
		for i, want := range wantCounts {
			hands, err := mock.Detect(nil)
			if err != nil {
				t.Fatalf("call %d: unexpected error: %v", i, err)
			}
			if len(hands) != want {
				t.Errorf("call %d: expected %d hands, got %d", i, want, len(hands))
			}
		}
		if mock.Calls() != len(wantCounts) {
			t.Errorf("expected %d calls, got %d", len(wantCounts), mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("Close marks closed", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
		if !mock.Closed() {
			t.Error("expected mock to report closed")
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestFixtures(t *testing.T) {
	t.Run("open palm tips sit above their middle joints", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		for _, tip := range []int{IndexTip, MiddleTip, RingTip, PinkyTip} {
			if hand.Points[tip].Y >= hand.Points[tip-2].Y {
				t.Errorf("tip %d should be above joint %d", tip, tip-2)
			}
		}
		if hand.Points[ThumbTip].X >= hand.Points[ThumbIP].X {
			t.Error("thumb tip should be left of thumb IP")
		}
	})

	t.Run("fist tips sit below their middle joints", func(t *testing.T) {
		hand := FistLandmarks()
		for _, tip := range []int{IndexTip, MiddleTip, RingTip, PinkyTip} {
			if hand.Points[tip].Y <= hand.Points[tip-2].Y {
				t.Errorf("tip %d should be below joint %d", tip, tip-2)
			}
		}
		if hand.Points[ThumbTip].X <= hand.Points[ThumbIP].X {
			t.Error("thumb tip should be right of thumb IP")
		}
	})

	t.Run("pointing only changes the index finger", func(t *testing.T) {
		fist := FistLandmarks()
		pointing := PointingLandmarks()
		for i := 0; i < NumLandmarks; i++ {
			if i >= IndexMCP && i <= IndexTip {
				continue
			}
			if fist.Points[i] != pointing.Points[i] {
				t.Errorf("landmark %d differs from fist", i)
			}
		}
	})
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xff, 0xd8, 0xff, 0xe0}

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("writeFrame() error = %v", err)
	}

	out := buf.Bytes()
	if len(out) != 4+len(payload) {
		t.Fatalf("expected %d bytes, got %d", 4+len(payload), len(out))
	}
	if n := binary.BigEndian.Uint32(out[:4]); n != uint32(len(payload)) {
		t.Errorf("length prefix = %d, want %d", n, len(payload))
	}
	if !bytes.Equal(out[4:], payload) {
		t.Errorf("payload mismatch: %v", out[4:])
	}
}

func TestReadHands(t *testing.T) {
	points := strings.TrimSuffix(strings.Repeat(`{"x":0.5,"y":0.25,"z":0},`, NumLandmarks), ",")

	t.Run("parses hands", func(t *testing.T) {
		line := `{"hands":[{"points":[` + points + `],"handedness":"Left","score":0.9}]}` + "\n"
		hands, err := readHands(bufio.NewReader(strings.NewReader(line)))
		if err != nil {
			t.Fatalf("readHands() error = %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		if hands[0].Handedness != "Left" {
			t.Errorf("handedness = %s, want Left", hands[0].Handedness)
		}
		if hands[0].Points[PinkyTip].Y != 0.25 {
			t.Errorf("pinky tip Y = %f, want 0.25", hands[0].Points[PinkyTip].Y)
		}
	})

	t.Run("no hands", func(t *testing.T) {
		hands, err := readHands(bufio.NewReader(strings.NewReader(`{"hands":[]}` + "\n")))
		if err != nil {
			t.Fatalf("readHands() error = %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	t.Run("short landmark set is rejected", func(t *testing.T) {
		line := `{"hands":[{"points":[{"x":0,"y":0,"z":0}],"handedness":"Right","score":0.9}]}` + "\n"
		if _, err := readHands(bufio.NewReader(strings.NewReader(line))); err == nil {
			t.Error("expected error for a hand with 1 landmark")
		}
	})

	t.Run("service error is surfaced", func(t *testing.T) {
		line := `{"error":"decode failed"}` + "\n"
		_, err := readHands(bufio.NewReader(strings.NewReader(line)))
		if err == nil || !strings.Contains(err.Error(), "decode failed") {
			t.Errorf("expected service error, got %v", err)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		if _, err := readHands(bufio.NewReader(strings.NewReader("nope\n"))); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("closed stream", func(t *testing.T) {
		if _, err := readHands(bufio.NewReader(strings.NewReader(""))); err == nil {
			t.Error("expected read error")
		}
	})
}

func TestNewMediaPipeDetector_MissingScript(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScriptPath = "/nonexistent/hand_landmarks.py"

	if _, err := NewMediaPipeDetector(cfg); err == nil {
		t.Error("expected error for missing script")
	}
}

func TestMediaPipeDetector_Args(t *testing.T) {
	d := &MediaPipeDetector{
		config:     Config{MaxHands: 2, MinConfidence: 0.85, MinTrackingConf: 0.5},
		scriptPath: "/opt/hand_landmarks.py",
	}

	got := strings.Join(d.args(), " ")
	want := "/opt/hand_landmarks.py --max-hands 2 --min-detection-confidence 0.85 --min-tracking-confidence 0.5"
	if got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}
