// Package render provides gocv-backed render surfaces and the rendering mode.
package render

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for an unrecognized mode name.
var ErrUnknownMode = errors.New("unknown render mode")

// Mode selects how detected hands are drawn. The modes are mutually exclusive.
type Mode int

const (
	// ModeNone draws nothing.
	ModeNone Mode = iota
	// ModeDefault draws the estimator's generic landmark connections on the source frame.
	ModeDefault
	// ModeCustom draws wrist-rooted finger chains on the configured canvas.
	ModeCustom
)

var modeNames = map[Mode]string{
	ModeNone:    "none",
	ModeDefault: "default",
	ModeCustom:  "custom",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ResolveMode picks the mode for a pair of show flags. Custom wins when
// both are requested.
func ResolveMode(defaultShow, customShow bool) Mode {
	switch {
	case customShow:
		return ModeCustom
	case defaultShow:
		return ModeDefault
	default:
		return ModeNone
	}
}

// ParseMode parses "none", "default" or "custom", case-insensitively.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return ModeNone, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// UnmarshalText lets Mode be decoded from configuration.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalText encodes the mode name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
