// Package server exposes the live pipeline output over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Config holds the server configuration.
type Config struct {
	Hub          *Hub
	SessionID    string
	StaticDir    string
	AllowOrigins []string
	Logger       *zap.Logger
}

// Server serves health, the MJPEG stream, result WebSocket and metrics.
type Server struct {
	config Config
	hub    *Hub
	log    *zap.Logger
	engine *gin.Engine
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	hub := config.Hub
	if hub == nil {
		hub = NewHub(log)
	}
	if len(config.AllowOrigins) == 0 {
		config.AllowOrigins = []string{"*"}
	}

	s := &Server{
		config: config,
		hub:    hub,
		log:    log,
		engine: gin.New(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.engine.HandleMethodNotAllowed = true
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.engine.Use(cors.New(cors.Config{
		AllowOrigins:  s.config.AllowOrigins,
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	api := s.engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/results/latest", s.handleLatest)
	api.GET("/stream", s.handleStream)
	api.GET("/landmarks", s.handleLandmarks)

	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		s.engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.config.StaticDir))))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// Hub returns the hub the server reads from.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(s.start).String(),
		"session": s.config.SessionID,
		"clients": s.hub.Clients(),
		"viewers": s.hub.Viewers(),
	})
}

func (s *Server) handleLatest(c *gin.Context) {
	latest := s.hub.Latest()
	if latest == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, "application/json", latest)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
