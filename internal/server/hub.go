package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/handtrack/internal/metrics"
	"github.com/ayusman/handtrack/internal/pipeline"
)

const writeTimeout = time.Second

// Hub fans pipeline output out to HTTP clients. It is a pipeline Presenter
// (latest JPEG for the MJPEG stream) and a ResultObserver (JSON pushed to
// WebSocket clients).
type Hub struct {
	log *zap.Logger

	mu       sync.RWMutex
	jpeg     []byte
	frameSeq uint64
	result   []byte
	clients  map[*websocket.Conn]struct{}
	viewers  int
}

// NewHub returns an empty Hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:     log,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Present encodes canvas as JPEG when someone is watching the stream.
// Encoding failures are logged and never stop the pipeline.
func (h *Hub) Present(canvas *gocv.Mat) error {
	h.mu.RLock()
	watching := h.viewers > 0
	h.mu.RUnlock()
	if !watching {
		return nil
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *canvas)
	if err != nil {
		h.log.Warn("jpeg encode failed", zap.Error(err))
		return nil
	}
	data := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	h.mu.Lock()
	h.jpeg = data
	h.frameSeq++
	h.mu.Unlock()
	return nil
}

// Frame returns the latest encoded frame and its sequence number.
func (h *Hub) Frame() ([]byte, uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.jpeg, h.frameSeq
}

// ObserveResult records r and sends it to every WebSocket client. Clients
// that fail to accept the message are dropped.
func (h *Hub) ObserveResult(r *pipeline.Result) {
	msg, err := json.Marshal(r)
	if err != nil {
		h.log.Warn("encode result", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.result = msg

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Debug("dropping websocket client", zap.String("remote", conn.RemoteAddr().String()), zap.Error(err))
			delete(h.clients, conn)
			conn.Close()
			metrics.ConnectedClients.WithLabelValues("landmarks").Dec()
		}
	}
}

// Latest returns the JSON of the most recent result, or nil.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.result
}

// Clients returns the number of attached WebSocket clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	metrics.ConnectedClients.WithLabelValues("landmarks").Inc()
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		metrics.ConnectedClients.WithLabelValues("landmarks").Dec()
	}
}

func (h *Hub) addViewer() {
	h.mu.Lock()
	h.viewers++
	h.mu.Unlock()
	metrics.ConnectedClients.WithLabelValues("stream").Inc()
}

func (h *Hub) removeViewer() {
	h.mu.Lock()
	h.viewers--
	h.mu.Unlock()
	metrics.ConnectedClients.WithLabelValues("stream").Dec()
}

// Viewers returns the number of MJPEG stream clients.
func (h *Hub) Viewers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.viewers
}
