// Package app wires capture, estimation, rendering and the live server into
// runnable sessions.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayusman/handtrack/internal/capture"
	"github.com/ayusman/handtrack/internal/config"
	"github.com/ayusman/handtrack/internal/detector"
	"github.com/ayusman/handtrack/internal/pipeline"
	"github.com/ayusman/handtrack/internal/render"
	"github.com/ayusman/handtrack/internal/server"
	"github.com/ayusman/handtrack/internal/store"
)

// WindowTitle is the live window name.
const WindowTitle = "Hands"

// Config holds configuration options for the application.
type Config struct {
	Settings  *config.Config
	Store     *store.Store
	Logger    *zap.Logger
	StaticDir string
	// Headless skips the HighGUI window in live mode.
	Headless bool

	// Camera and Detector replace the device camera and the MediaPipe
	// estimator when set.
	Camera   capture.Camera
	Detector detector.Detector
}

// App is one handtrack session.
type App struct {
	config    Config
	settings  *config.Config
	log       *zap.Logger
	sessionID string
	detector  detector.Detector
	hub       *server.Hub
	server    *server.Server

	mu     sync.Mutex
	frames int64
}

// New resolves the estimator and builds the live server for a new session.
func New(cfg Config) (*App, error) {
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	sessionID := uuid.NewString()
	log = log.With(zap.String("session", sessionID))

	det := cfg.Detector
	if det == nil {
		var err error
		det, err = newDetector(settings, log)
		if err != nil {
			return nil, err
		}
	}

	hub := server.NewHub(log)
	srv := server.New(server.Config{
		Hub:       hub,
		SessionID: sessionID,
		StaticDir: cfg.StaticDir,
		Logger:    log,
	})

	return &App{
		config:    cfg,
		settings:  settings,
		log:       log,
		sessionID: sessionID,
		detector:  det,
		hub:       hub,
		server:    srv,
	}, nil
}

// newDetector starts the MediaPipe estimator, falling back to the mock
// detector only when the settings allow it.
func newDetector(settings *config.Config, log *zap.Logger) (detector.Detector, error) {
	mp, err := detector.NewMediaPipeDetector(settings.Detector())
	if err == nil {
		log.Info("using MediaPipe hand detection")
		return mp, nil
	}
	if !settings.AllowMockDetector {
		return nil, fmt.Errorf("start hand detector: %w", err)
	}
	log.Warn("MediaPipe not available, using mock detector", zap.Error(err))
	return detector.NewMockDetector(), nil
}

// SessionID returns the id stamped on every result of this session.
func (a *App) SessionID() string {
	return a.sessionID
}

// Server returns the HTTP surface of this session.
func (a *App) Server() *server.Server {
	return a.server
}

// Frames returns the number of frames processed by the last run.
func (a *App) Frames() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frames
}

// Close stops the estimator.
func (a *App) Close() error {
	return a.detector.Close()
}

// Live runs the camera pipeline until the camera stops delivering frames,
// the stop key is pressed or ctx is cancelled. The HTTP server runs
// alongside when enabled in the settings.
func (a *App) Live(ctx context.Context) error {
	camera := a.config.Camera
	if camera == nil {
		camera = capture.NewCamera(a.settings.Camera, a.settings.Resolution())
	}
	camera.SetFPS(a.settings.FPS)

	pcfg := a.pipelineConfig(camera)
	if !a.config.Headless {
		win := render.NewWindow(WindowTitle, a.settings.Fullscreen)
		defer win.Close()
		pcfg.Presenters = append(pcfg.Presenters, win)
		pcfg.Stop = win
	}

	p, err := pipeline.New(pcfg)
	if err != nil {
		return err
	}

	source := fmt.Sprintf("camera:%d", a.settings.Camera)
	if !a.settings.Serve {
		return a.run(ctx, p, source)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		err := a.server.ListenAndServe(ctx, a.settings.Addr)
		if err != nil {
			a.log.Error("server stopped", zap.Error(err))
			cancel()
		}
		serveErr <- err
	}()

	// The pipeline stays on this goroutine: HighGUI must run on the
	// thread that created the window.
	runErr := a.run(ctx, p, source)
	cancel()
	if err := <-serveErr; err != nil && runErr == nil {
		runErr = fmt.Errorf("serve %s: %w", a.settings.Addr, err)
	}
	return runErr
}

func (a *App) pipelineConfig(camera capture.Camera) pipeline.Config {
	return pipeline.Config{
		Camera:     camera,
		Detector:   a.detector,
		Mode:       a.settings.Mode,
		Flip:       a.settings.Flip,
		Background: a.settings.Background,
		Resolution: a.settings.Resolution(),
		Presenters: []pipeline.Presenter{a.hub},
		Observers:  []pipeline.ResultObserver{a.hub},
		SessionID:  a.sessionID,
		Logger:     a.log,
	}
}

// run executes p and records the session in the store when one is set.
func (a *App) run(ctx context.Context, p *pipeline.Pipeline, source string) error {
	sessions := a.sessions()
	if sessions != nil {
		err := sessions.Start(&store.Session{
			ID:     a.sessionID,
			Source: source,
			Mode:   a.settings.Mode.String(),
			Width:  a.settings.Width,
			Height: a.settings.Height,
		})
		if err != nil {
			a.log.Warn("record session start", zap.Error(err))
			sessions = nil
		}
	}

	runErr := p.Run(ctx)

	a.mu.Lock()
	a.frames = p.Frames()
	a.mu.Unlock()

	if sessions != nil {
		if err := sessions.Finish(a.sessionID, p.Frames(), runErr); err != nil {
			a.log.Warn("record session end", zap.Error(err))
		}
	}

	a.log.Info("session finished", zap.String("source", source), zap.Int64("frames", p.Frames()), zap.Error(runErr))
	return runErr
}

func (a *App) sessions() *store.SessionRepository {
	if a.config.Store == nil {
		return nil
	}
	return a.config.Store.Sessions()
}
