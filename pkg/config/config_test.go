package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "player.yaml", `
width: 640
fps: 25
duration: 4s
background: "#000"
tags: [pwc-marquee]
marquee:
  scrollamount: "12"
  easing: ease-in-out
fonts:
  regular: /tmp/Regular.ttf
`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Width != 640 || s.Height != 200 {
		t.Errorf("viewport = %dx%d, want 640x200", s.Width, s.Height)
	}
	if s.FPS != 25 || time.Duration(s.Duration) != 4*time.Second {
		t.Errorf("fps, duration = %d, %v", s.FPS, s.Duration)
	}
	if len(s.Tags) != 1 || s.Tags[0] != "pwc-marquee" {
		t.Errorf("tags = %v", s.Tags)
	}
	if s.Marquee["scrollamount"] != "12" || s.Marquee["easing"] != "ease-in-out" {
		t.Errorf("marquee defaults = %v", s.Marquee)
	}
	if s.Fonts.Regular != "/tmp/Regular.ttf" {
		t.Errorf("regular font = %q", s.Fonts.Regular)
	}
	if s.Fonts.Bold == "" {
		t.Error("bold font not filled from defaults")
	}
	if c := s.BackgroundColor(); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("background = %+v, want black", c)
	}
	if got := s.Frames(); got != 100 {
		t.Errorf("Frames = %d, want 100", got)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "player.toml", `
height = 120
duration = "1500ms"
tags = ["x-ticker"]

[marquee]
behavior = "alternate"
`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Width != 800 || s.Height != 120 {
		t.Errorf("viewport = %dx%d, want 800x120", s.Width, s.Height)
	}
	if time.Duration(s.Duration) != 1500*time.Millisecond {
		t.Errorf("duration = %v", s.Duration)
	}
	if s.Marquee["behavior"] != "alternate" {
		t.Errorf("marquee defaults = %v", s.Marquee)
	}
	if s.FrameInterval() != time.Second/30 {
		t.Errorf("FrameInterval = %v", s.FrameInterval())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unknown extension", "player.json", `{}`, "unknown format"},
		{"bad duration", "player.yaml", "duration: soon\n", "duration"},
		{"bad background", "player.yaml", "background: plaid\n", "background"},
		{"fps out of range", "player.toml", "fps = 1000\n", "fps"},
		{"malformed toml", "player.toml", "width = \n", "player.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !os.IsNotExist(err) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestWriteThenLoad(t *testing.T) {
	s := Default()
	s.Tags = []string{"pwc-marquee"}
	s.Duration = Duration(3 * time.Second)
	path := filepath.Join(t.TempDir(), "out.toml")
	if err := Write(s, path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Duration != s.Duration || len(got.Tags) != 1 || got.Fonts != s.Fonts {
		t.Errorf("loaded %+v, want %+v", got, s)
	}
}
