package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const streamInterval = 66 * time.Millisecond // ~15 FPS

// handleStream serves the rendered canvas as MJPEG.
func (s *Server) handleStream(c *gin.Context) {
	w := c.Writer
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	s.hub.addViewer()
	defer s.hub.removeViewer()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	var sent uint64
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}

		frame, seq := s.hub.Frame()
		if frame == nil || seq == sent {
			continue
		}
		sent = seq

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(frame))
		if _, err := w.Write(frame); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")
		w.Flush()
	}
}
