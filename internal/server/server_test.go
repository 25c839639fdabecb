package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/handtrack/internal/detector"
	"github.com/ayusman/handtrack/internal/geometry"
	"github.com/ayusman/handtrack/internal/gesture"
	"github.com/ayusman/handtrack/internal/pipeline"
	"github.com/ayusman/handtrack/internal/render"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleResult() *pipeline.Result {
	palm := detector.OpenPalmLandmarks()
	res := geometry.Resolution{Width: 640, Height: 480}
	pixels := geometry.Project(&palm, res)
	return &pipeline.Result{
		Session:    "s-1",
		Frame:      7,
		Mode:       render.ModeCustom,
		Resolution: res,
		Hands: []pipeline.HandResult{{
			Handedness: "Right",
			Score:      0.97,
			Landmarks:  pixels,
			FingersUp:  gesture.FingersUp(pixels),
			InFrame:    true,
		}},
	}
}

func TestServer_Health(t *testing.T) {
	s := New(Config{SessionID: "abc"})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if !strings.HasPrefix(contentType, "application/json") {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}
		if response["session"] != "abc" {
			t.Errorf("expected session 'abc', got %v", response["session"])
		}
		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestServer_CORS(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestServer_LatestResult(t *testing.T) {
	s := New(Config{})

	t.Run("no content before the first frame", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/results/latest", nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected status %d, got %d", http.StatusNoContent, rec.Code)
		}
	})

	t.Run("returns the last observed result", func(t *testing.T) {
		s.Hub().ObserveResult(sampleResult())

		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/results/latest", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var got struct {
			Frame int64 `json:"frame"`
			Mode  string `json:"mode"`
			Hands []struct {
				FingersUp []int `json:"fingers_up"`
			} `json:"hands"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("failed to decode result: %v", err)
		}
		if got.Frame != 7 {
			t.Errorf("frame = %d, want 7", got.Frame)
		}
		if got.Mode != "custom" {
			t.Errorf("mode = %s, want custom", got.Mode)
		}
		if len(got.Hands) != 1 || len(got.Hands[0].FingersUp) != 5 {
			t.Errorf("unexpected hands %+v", got.Hands)
		}
	})
}

func TestServer_Metrics(t *testing.T) {
	s := New(Config{})
	s.Hub().ObserveResult(sampleResult())

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("expected default Go collectors in metrics output")
	}
}

func TestServer_LandmarksWebSocket(t *testing.T) {
	s := New(Config{})
	ts := httptest.NewServer(s)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/landmarks"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.Hub().Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	s.Hub().ObserveResult(sampleResult())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got pipeline.Result
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Session != "s-1" || len(got.Hands) != 1 {
		t.Errorf("unexpected result %+v", got)
	}
	if got.Hands[0].FingersUp != gesture.AllUp {
		t.Errorf("fingers up = %v, want all", got.Hands[0].FingersUp)
	}
}

func TestServer_Stream(t *testing.T) {
	s := New(Config{})
	ts := httptest.NewServer(s)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Fatalf("unexpected content type %s", ct)
	}

	canvas := render.NewBlankMat(geometry.Resolution{Width: 64, Height: 48})
	defer canvas.Close()

	for s.Hub().Viewers() == 0 {
		if ctx.Err() != nil {
			t.Fatal("viewer never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err := s.Hub().Present(&canvas); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	reader := bufio.NewReader(resp.Body)
	boundary, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read boundary: %v", err)
	}
	if strings.TrimSpace(boundary) != "--frame" {
		t.Errorf("boundary = %q", boundary)
	}
	partType, _ := reader.ReadString('\n')
	if strings.TrimSpace(partType) != "Content-Type: image/jpeg" {
		t.Errorf("part header = %q", partType)
	}
}

func TestHub_PresentSkipsWithoutViewers(t *testing.T) {
	h := NewHub(nil)
	canvas := gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8UC3)
	defer canvas.Close()

	if err := h.Present(&canvas); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if frame, seq := h.Frame(); frame != nil || seq != 0 {
		t.Error("expected no frame encoded without viewers")
	}

	h.addViewer()
	defer h.removeViewer()
	if err := h.Present(&canvas); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	frame, seq := h.Frame()
	if seq != 1 || len(frame) == 0 {
		t.Errorf("expected one encoded frame, got seq=%d len=%d", seq, len(frame))
	}
}

func TestServer_StaticFiles(t *testing.T) {
	tmpDir := t.TempDir()

	testContent := "<html><body>Hello, World!</body></html>"
	if err := os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte(testContent), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	s := New(Config{StaticDir: tmpDir})

	t.Run("serves index.html at root path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if rec.Body.String() != testContent {
			t.Errorf("expected body %q, got %q", testContent, rec.Body.String())
		}
	})

	t.Run("api routes still win", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
	})
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s := New(Config{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
