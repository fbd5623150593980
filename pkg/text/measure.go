package text

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// FontConfig holds paths to font files used for text measurement and rendering.
type FontConfig struct {
	Regular    string `yaml:"regular" toml:"regular"`
	Bold       string `yaml:"bold" toml:"bold"`
	Italic     string `yaml:"italic" toml:"italic"`
	BoldItalic string `yaml:"bold_italic" toml:"bold_italic"`
	Monospace  string `yaml:"monospace" toml:"monospace"`
	MonoBold   string `yaml:"mono_bold" toml:"mono_bold"`
}

// defaultFontsDir returns the fonts directory next to the executable, or
// relative to this source file when running from a checkout.
func defaultFontsDir() string {
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Join(filepath.Dir(exe), "..", "fonts")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "fonts")
}

// DefaultFontConfig returns a FontConfig using the bundled Atkinson Hyperlegible fonts.
func DefaultFontConfig() FontConfig {
	dir := defaultFontsDir()
	return FontConfig{
		Regular:    filepath.Join(dir, "AtkinsonHyperlegible-Regular.ttf"),
		Bold:       filepath.Join(dir, "AtkinsonHyperlegible-Bold.ttf"),
		Italic:     filepath.Join(dir, "AtkinsonHyperlegible-Italic.ttf"),
		BoldItalic: filepath.Join(dir, "AtkinsonHyperlegible-BoldItalic.ttf"),
		Monospace:  filepath.Join(dir, "AtkinsonHyperlegibleMono-Regular.ttf"),
		MonoBold:   filepath.Join(dir, "AtkinsonHyperlegibleMono-Bold.ttf"),
	}
}

// Merge returns fc with every empty path filled from other.
func (fc FontConfig) Merge(other FontConfig) FontConfig {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return FontConfig{
		Regular:    pick(fc.Regular, other.Regular),
		Bold:       pick(fc.Bold, other.Bold),
		Italic:     pick(fc.Italic, other.Italic),
		BoldItalic: pick(fc.BoldItalic, other.BoldItalic),
		Monospace:  pick(fc.Monospace, other.Monospace),
		MonoBold:   pick(fc.MonoBold, other.MonoBold),
	}
}

// FontPath returns the font path for the given style combination.
func (fc FontConfig) FontPath(spec FaceSpec) string {
	if spec.Mono {
		if spec.Bold && fc.MonoBold != "" {
			return fc.MonoBold
		}
		if fc.Monospace != "" {
			return fc.Monospace
		}
	}
	if spec.Bold && spec.Italic && fc.BoldItalic != "" {
		return fc.BoldItalic
	}
	if spec.Bold && fc.Bold != "" {
		return fc.Bold
	}
	if spec.Italic && fc.Italic != "" {
		return fc.Italic
	}
	return fc.Regular
}

// FaceSpec selects a font face.
type FaceSpec struct {
	Size   float64
	Bold   bool
	Italic bool
	Mono   bool
}

// Measurer reports the advance width and line height of a run of text.
// Layout works in whatever unit the measurer uses: pixels for raster
// output, cells for a terminal.
type Measurer interface {
	Measure(s string, spec FaceSpec) (width, height float64)
}

// FontMeasurer measures with real font metrics. Fonts are parsed once and
// faces are cached per path and size. It is safe for concurrent use.
type FontMeasurer struct {
	fonts FontConfig

	mu     sync.Mutex
	parsed map[string]*truetype.Font
	faces  map[faceKey]font.Face
	failed map[string]bool
	dc     *gg.Context
}

type faceKey struct {
	path string
	size float64
}

func NewFontMeasurer(fonts FontConfig) *FontMeasurer {
	return &FontMeasurer{
		fonts:  fonts,
		parsed: make(map[string]*truetype.Font),
		faces:  make(map[faceKey]font.Face),
		failed: make(map[string]bool),
		dc:     gg.NewContext(1, 1),
	}
}

// Face returns the cached face for spec, loading it on first use.
func (m *FontMeasurer) Face(spec FaceSpec) (font.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.faceLocked(spec)
}

func (m *FontMeasurer) faceLocked(spec FaceSpec) (font.Face, error) {
	path := m.fonts.FontPath(spec)
	key := faceKey{path: path, size: spec.Size}
	if face, ok := m.faces[key]; ok {
		return face, nil
	}
	if m.failed[path] {
		return nil, fmt.Errorf("font %s unavailable", path)
	}
	f, ok := m.parsed[path]
	if !ok {
		data, err := os.ReadFile(path)
		if err != nil {
			m.failed[path] = true
			return nil, fmt.Errorf("reading font: %w", err)
		}
		f, err = truetype.Parse(data)
		if err != nil {
			m.failed[path] = true
			return nil, fmt.Errorf("parsing font %s: %w", path, err)
		}
		m.parsed[path] = f
	}
	face := truetype.NewFace(f, &truetype.Options{Size: spec.Size})
	m.faces[key] = face
	return face, nil
}

// Measure measures s. If the font cannot be loaded it falls back to a
// rough proportional estimate so layout still produces sensible boxes.
func (m *FontMeasurer) Measure(s string, spec FaceSpec) (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.faceLocked(spec)
	if err != nil {
		return EstimateMeasurer{}.Measure(s, spec)
	}
	m.dc.SetFontFace(face)
	w, _ := m.dc.MeasureString(s)
	return w, spec.Size * 1.2
}

// EstimateMeasurer approximates text width without any font: every rune
// is 0.6em wide and lines are 1.2em tall.
type EstimateMeasurer struct{}

func (EstimateMeasurer) Measure(s string, spec FaceSpec) (float64, float64) {
	return float64(utf8.RuneCountInString(s)) * spec.Size * 0.6, spec.Size * 1.2
}
