// Package config loads handtrack configuration from stored settings and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"

	"github.com/ayusman/handtrack/internal/detector"
	"github.com/ayusman/handtrack/internal/geometry"
	"github.com/ayusman/handtrack/internal/pipeline"
	"github.com/ayusman/handtrack/internal/render"
)

// Prefix is prepended to every environment variable name.
const Prefix = "HANDTRACK_"

// ErrUnknownSetting is returned for a key that names no configuration field.
var ErrUnknownSetting = errors.New("unknown setting")

type Config struct {
	Camera     int  `env:"CAMERA"     envDefault:"1"`
	Width      int  `env:"WIDTH"      envDefault:"1920"`
	Height     int  `env:"HEIGHT"     envDefault:"1080"`
	FPS        int  `env:"FPS"        envDefault:"30"`
	Fullscreen bool `env:"FULLSCREEN" envDefault:"true"`

	Mode       render.Mode         `env:"MODE"       envDefault:"custom"`
	Flip       bool                `env:"FLIP"       envDefault:"true"`
	Background pipeline.Background `env:"BACKGROUND" envDefault:"blank"`

	MaxHands            int     `env:"MAX_HANDS"            envDefault:"2"`
	DetectionConfidence float64 `env:"DETECTION_CONFIDENCE" envDefault:"0.85"`
	TrackingConfidence  float64 `env:"TRACKING_CONFIDENCE"  envDefault:"0.5"`
	ScriptPath          string  `env:"SCRIPT_PATH"`
	AllowMockDetector   bool    `env:"ALLOW_MOCK_DETECTOR"  envDefault:"false"`

	Serve bool   `env:"SERVE" envDefault:"false"`
	Addr  string `env:"ADDR"  envDefault:"127.0.0.1:8080"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration. Stored settings are keyed by setting name
// (see Keys) and are overridden by HANDTRACK_* environment variables.
func Load(stored map[string]string) (*Config, error) {
	environment := storedEnvironment(stored)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, Prefix) {
			environment[k] = v
		}
	}
	return parse(environment)
}

// Default returns the configuration with no settings or environment applied.
func Default() *Config {
	cfg, err := parse(map[string]string{})
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

func parse(environment map[string]string) (*Config, error) {
	cfg := &Config{}
	err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      Prefix,
		Environment: environment,
	})
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func storedEnvironment(stored map[string]string) map[string]string {
	environment := make(map[string]string, len(stored))
	for k, v := range stored {
		environment[Prefix+strings.ToUpper(k)] = v
	}
	return environment
}

// Validate checks value ranges that struct tags cannot express.
func (c *Config) Validate() error {
	if c.Camera < 0 {
		return fmt.Errorf("camera must be >= 0, got %d", c.Camera)
	}
	if !c.Resolution().Valid() {
		return fmt.Errorf("invalid resolution %s", c.Resolution())
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.MaxHands < 1 {
		return fmt.Errorf("max_hands must be >= 1, got %d", c.MaxHands)
	}
	if c.DetectionConfidence < 0 || c.DetectionConfidence > 1 {
		return fmt.Errorf("detection_confidence must be within [0,1], got %g", c.DetectionConfidence)
	}
	if c.TrackingConfidence < 0 || c.TrackingConfidence > 1 {
		return fmt.Errorf("tracking_confidence must be within [0,1], got %g", c.TrackingConfidence)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Resolution is the output canvas size.
func (c *Config) Resolution() geometry.Resolution {
	return geometry.Resolution{Width: c.Width, Height: c.Height}
}

// Detector returns the estimator configuration.
func (c *Config) Detector() detector.Config {
	return detector.Config{
		MaxHands:        c.MaxHands,
		MinConfidence:   c.DetectionConfidence,
		MinTrackingConf: c.TrackingConfidence,
		ScriptPath:      c.ScriptPath,
	}
}

// Setting describes one configurable key.
type Setting struct {
	Key     string
	Env     string
	Default string
}

// Keys lists every setting, sorted by key.
func Keys() []Setting {
	params, err := env.GetFieldParams(&Config{})
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}

	settings := make([]Setting, 0, len(params))
	for _, p := range params {
		settings = append(settings, Setting{
			Key:     strings.ToLower(p.OwnKey),
			Env:     Prefix + p.OwnKey,
			Default: p.DefaultValue,
		})
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	return settings
}

// NormalizeKey maps user input such as "MAX-HANDS" or "HANDTRACK_MODE" to
// a known setting key.
func NormalizeKey(key string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.ReplaceAll(k, "-", "_")
	k = strings.TrimPrefix(k, strings.ToLower(Prefix))

	for _, s := range Keys() {
		if s.Key == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSetting, key)
}

// CheckSetting reports whether value is acceptable for key given the other
// stored settings. The process environment is ignored.
func CheckSetting(stored map[string]string, key, value string) error {
	k, err := NormalizeKey(key)
	if err != nil {
		return err
	}

	merged := make(map[string]string, len(stored)+1)
	for sk, sv := range stored {
		merged[sk] = sv
	}
	merged[k] = value

	if _, err := parse(storedEnvironment(merged)); err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", value, k, err)
	}
	return nil
}
