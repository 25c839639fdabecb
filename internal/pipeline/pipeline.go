// Package pipeline runs the per-frame loop: capture, estimate, project,
// render, classify and present.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/handtrack/internal/capture"
	"github.com/ayusman/handtrack/internal/detector"
	"github.com/ayusman/handtrack/internal/geometry"
	"github.com/ayusman/handtrack/internal/render"
	"github.com/ayusman/handtrack/internal/skeleton"
)

// Background selects what the custom overlay is drawn on.
type Background int

const (
	// BackgroundBlank draws on a fresh black canvas every frame.
	BackgroundBlank Background = iota
	// BackgroundSource draws on the captured frame.
	BackgroundSource
)

func (b Background) String() string {
	if b == BackgroundSource {
		return "source"
	}
	return "blank"
}

// ParseBackground parses "blank" or "source".
func ParseBackground(s string) (Background, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blank":
		return BackgroundBlank, nil
	case "source":
		return BackgroundSource, nil
	}
	return BackgroundBlank, fmt.Errorf("unknown background %q", s)
}

// UnmarshalText lets Background be decoded from configuration.
func (b *Background) UnmarshalText(text []byte) error {
	parsed, err := ParseBackground(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Presenter receives the rendered surface of every frame.
type Presenter interface {
	Present(canvas *gocv.Mat) error
}

// StopSignal is polled once per frame after presenting.
type StopSignal interface {
	StopRequested() bool
}

// ResultObserver receives the classification result of every frame.
type ResultObserver interface {
	ObserveResult(r *Result)
}

// Config holds configuration options for the pipeline.
type Config struct {
	Camera     capture.Camera
	Detector   detector.Detector
	Mode       render.Mode
	Flip       bool
	Background Background
	// Resolution is the size of the blank canvas.
	Resolution geometry.Resolution
	Style      skeleton.Style
	Presenters []Presenter
	Observers  []ResultObserver
	Stop       StopSignal
	SessionID  string
	Logger     *zap.Logger
}

// Pipeline processes frames one at a time. It is not safe for concurrent use.
type Pipeline struct {
	config Config
	log    *zap.Logger
	frames int64
}

// New validates config and returns a Pipeline.
func New(config Config) (*Pipeline, error) {
	if config.Camera == nil {
		return nil, errors.New("pipeline: camera is required")
	}
	if config.Detector == nil {
		return nil, errors.New("pipeline: detector is required")
	}
	if config.Background == BackgroundBlank && config.Mode != render.ModeDefault && !config.Resolution.Valid() {
		return nil, fmt.Errorf("pipeline: invalid canvas resolution %s", config.Resolution)
	}
	if config.Style == (skeleton.Style{}) {
		config.Style = skeleton.DefaultStyle
	}

	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if config.SessionID != "" {
		log = log.With(zap.String("session", config.SessionID))
	}

	return &Pipeline{config: config, log: log}, nil
}

// Frames returns the number of frames processed so far.
func (p *Pipeline) Frames() int64 {
	return p.frames
}

// Run opens the camera and processes frames until the source runs dry, the
// stop signal fires or ctx is cancelled. Running out of frames is a normal
// end and returns nil. The camera is closed on every return path.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.config.Camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer func() {
		if cerr := p.config.Camera.Close(); cerr != nil {
			p.log.Warn("close camera", zap.Error(cerr))
		}
	}()

	p.log.Info("pipeline started",
		zap.Stringer("mode", p.config.Mode),
		zap.Stringer("background", p.config.Background),
		zap.Bool("flip", p.config.Flip),
	)

	for {
		if ctx.Err() != nil {
			p.log.Info("pipeline cancelled", zap.Int64("frames", p.frames))
			return nil
		}

		frame, err := p.config.Camera.ReadFrame()
		if err != nil {
			p.log.Info("capture ended", zap.Int64("frames", p.frames), zap.Error(err))
			return nil
		}

		_, err = p.Process(frame)
		frame.Close()
		if err != nil {
			return err
		}

		if p.config.Stop != nil && p.config.Stop.StopRequested() {
			p.log.Info("stop requested", zap.Int64("frames", p.frames))
			return nil
		}
	}
}
