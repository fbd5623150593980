// Package config reads player settings from YAML or TOML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"marquee14/pkg/css"
	"marquee14/pkg/text"
)

// Settings controls how a page is played. Every field has a usable zero
// value; Default fills them in.
type Settings struct {
	Width      int      `yaml:"width" toml:"width"`
	Height     int      `yaml:"height" toml:"height"`
	FPS        int      `yaml:"fps" toml:"fps"`
	Duration   Duration `yaml:"duration" toml:"duration"`
	Background string   `yaml:"background" toml:"background"`

	// Tags are element names, besides marquee, that animate as marquees.
	Tags []string `yaml:"tags" toml:"tags"`
	// Marquee holds attribute defaults, such as scrollamount or easing,
	// for elements that leave them out.
	Marquee map[string]string `yaml:"marquee" toml:"marquee"`

	Fonts text.FontConfig `yaml:"fonts" toml:"fonts"`
}

// Duration is a time.Duration written as a Go duration string ("10s").
type Duration time.Duration

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the settings used when no file is given.
func Default() Settings {
	return Settings{
		Width:      800,
		Height:     200,
		FPS:        30,
		Duration:   Duration(10 * time.Second),
		Background: "white",
		Fonts:      text.DefaultFontConfig(),
	}
}

// Load reads settings from path, choosing the format by extension, and
// fills anything the file leaves out from Default.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	case ".toml":
		err = toml.Unmarshal(data, &s)
	default:
		return Settings{}, fmt.Errorf("config %s: unknown format, want .yaml, .yml or .toml", path)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("config %s: %w", path, err)
	}
	s = s.withDefaults()
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// Write saves settings to path in the format its extension names.
func Write(s Settings, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	case ".toml":
		var sb strings.Builder
		err = toml.NewEncoder(&sb).Encode(s)
		data = []byte(sb.String())
	default:
		return fmt.Errorf("config %s: unknown format, want .yaml, .yml or .toml", path)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s Settings) withDefaults() Settings {
	d := Default()
	if s.Width == 0 {
		s.Width = d.Width
	}
	if s.Height == 0 {
		s.Height = d.Height
	}
	if s.FPS == 0 {
		s.FPS = d.FPS
	}
	if s.Duration == 0 {
		s.Duration = d.Duration
	}
	if s.Background == "" {
		s.Background = d.Background
	}
	s.Fonts = s.Fonts.Merge(d.Fonts)
	return s
}

// Validate rejects sizes and rates that cannot be played.
func (s Settings) Validate() error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("viewport %dx%d must not be negative", s.Width, s.Height)
	}
	if s.FPS < 0 || s.FPS > 240 {
		return fmt.Errorf("fps %d out of range 1-240", s.FPS)
	}
	if s.Duration < 0 {
		return fmt.Errorf("duration %v must not be negative", s.Duration)
	}
	if _, ok := css.ParseColor(s.Background); !ok {
		return fmt.Errorf("background %q is not a color", s.Background)
	}
	return nil
}

// BackgroundColor returns the parsed background, white if it is invalid.
func (s Settings) BackgroundColor() css.Color {
	if c, ok := css.ParseColor(s.Background); ok {
		return c
	}
	return css.Color{R: 255, G: 255, B: 255, A: 1}
}

// Frames is the number of frames Duration covers at FPS.
func (s Settings) Frames() int {
	return int(time.Duration(s.Duration).Seconds() * float64(s.FPS))
}

// FrameInterval is the virtual time between frames.
func (s Settings) FrameInterval() time.Duration {
	if s.FPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(s.FPS)
}
