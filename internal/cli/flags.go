package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ayusman/handtrack/internal/config"
	"github.com/ayusman/handtrack/internal/pipeline"
	"github.com/ayusman/handtrack/internal/render"
)

// pipelineFlags are the command-line overrides shared by run and render.
// Only flags the user actually set replace configured values.
type pipelineFlags struct {
	width      int
	height     int
	mode       string
	defaultOn  bool
	customOn   bool
	flip       bool
	background string

	maxHands            int
	detectionConfidence float64
	trackingConfidence  float64
	scriptPath          string
	allowMock           bool
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	d := config.Default()
	fs := cmd.Flags()

	fs.IntVar(&f.width, "width", d.Width, "Output canvas width in pixels")
	fs.IntVar(&f.height, "height", d.Height, "Output canvas height in pixels")
	fs.StringVar(&f.mode, "mode", d.Mode.String(), "Overlay mode: none, default, custom")
	fs.BoolVar(&f.defaultOn, "default-show", false, "Draw the estimator's landmark connections")
	fs.BoolVar(&f.customOn, "custom-show", false, "Draw wrist-rooted finger chains (wins over --default-show)")
	fs.BoolVar(&f.flip, "flip", d.Flip, "Mirror frames horizontally")
	fs.StringVar(&f.background, "background", d.Background.String(), "Custom overlay background: blank, source")

	fs.IntVar(&f.maxHands, "max-hands", d.MaxHands, "Maximum number of hands to detect")
	fs.Float64Var(&f.detectionConfidence, "detection-confidence", d.DetectionConfidence, "Minimum detection confidence")
	fs.Float64Var(&f.trackingConfidence, "tracking-confidence", d.TrackingConfidence, "Minimum tracking confidence")
	fs.StringVar(&f.scriptPath, "script", "", "Path to hand_landmarks.py")
	fs.BoolVar(&f.allowMock, "allow-mock", false, "Use a mock detector when MediaPipe is unavailable")

	cmd.MarkFlagsMutuallyExclusive("mode", "default-show")
	cmd.MarkFlagsMutuallyExclusive("mode", "custom-show")
}

func (f *pipelineFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()

	if fs.Changed("width") {
		cfg.Width = f.width
	}
	if fs.Changed("height") {
		cfg.Height = f.height
	}
	if fs.Changed("mode") {
		m, err := render.ParseMode(f.mode)
		if err != nil {
			return err
		}
		cfg.Mode = m
	}
	if fs.Changed("default-show") || fs.Changed("custom-show") {
		cfg.Mode = render.ResolveMode(f.defaultOn, f.customOn)
	}
	if fs.Changed("flip") {
		cfg.Flip = f.flip
	}
	if fs.Changed("background") {
		b, err := pipeline.ParseBackground(f.background)
		if err != nil {
			return err
		}
		cfg.Background = b
	}
	if fs.Changed("max-hands") {
		cfg.MaxHands = f.maxHands
	}
	if fs.Changed("detection-confidence") {
		cfg.DetectionConfidence = f.detectionConfidence
	}
	if fs.Changed("tracking-confidence") {
		cfg.TrackingConfidence = f.trackingConfidence
	}
	if fs.Changed("script") {
		cfg.ScriptPath = f.scriptPath
	}
	if fs.Changed("allow-mock") {
		cfg.AllowMockDetector = f.allowMock
	}
	return nil
}

// loadConfig layers stored settings, the environment and flags.
func loadConfig(cmd *cobra.Command, flags *pipelineFlags, extra func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(stored)
	if err != nil {
		return nil, err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return nil, err
	}
	if extra != nil {
		extra(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findWebDir searches for an overlay web directory in common locations.
// It checks: "web", "../web", and <data-dir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	for _, p := range []string{"web", "../web", filepath.Join(dataDir, "web")} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
