package text

import (
	"path/filepath"
	"testing"
)

func TestFontPath(t *testing.T) {
	fc := FontConfig{Regular: "r", Bold: "b", Italic: "i", BoldItalic: "bi", Monospace: "m", MonoBold: "mb"}
	tests := []struct {
		spec FaceSpec
		want string
	}{
		{FaceSpec{}, "r"},
		{FaceSpec{Bold: true}, "b"},
		{FaceSpec{Italic: true}, "i"},
		{FaceSpec{Bold: true, Italic: true}, "bi"},
		{FaceSpec{Mono: true}, "m"},
		{FaceSpec{Mono: true, Bold: true}, "mb"},
	}
	for _, tt := range tests {
		if got := fc.FontPath(tt.spec); got != tt.want {
			t.Errorf("FontPath(%+v) = %q, want %q", tt.spec, got, tt.want)
		}
	}
	if got := (FontConfig{Regular: "r"}).FontPath(FaceSpec{Bold: true, Mono: true}); got != "r" {
		t.Errorf("missing variants should fall back to regular, got %q", got)
	}
}

func TestMerge(t *testing.T) {
	got := FontConfig{Bold: "mine"}.Merge(FontConfig{Regular: "r", Bold: "theirs"})
	if got.Regular != "r" || got.Bold != "mine" {
		t.Errorf("Merge = %+v", got)
	}
}

func TestEstimateMeasurer(t *testing.T) {
	w, h := EstimateMeasurer{}.Measure("h\u00e9llo", FaceSpec{Size: 10})
	if w != 30 || h != 12 {
		t.Errorf("Measure = %v x %v, want 30 x 12", w, h)
	}
}

func TestFontMeasurerFallsBackWithoutFonts(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.ttf")
	m := NewFontMeasurer(FontConfig{Regular: missing})
	w, h := m.Measure("abcd", FaceSpec{Size: 20})
	if w != 48 || h != 24 {
		t.Errorf("Measure = %v x %v, want estimate 48 x 24", w, h)
	}
	if _, err := m.Face(FaceSpec{Size: 20}); err == nil {
		t.Error("Face should report the missing font")
	}
}

func TestCellMeasurer(t *testing.T) {
	w, h := CellMeasurer{}.Measure("ab\u65e5\u672c", FaceSpec{Size: 16})
	if w != 6 || h != 1 {
		t.Errorf("Measure = %v x %v, want 6 x 1", w, h)
	}
}

func TestCellMeasurerScaled(t *testing.T) {
	w, h := CellMeasurer{CellWidth: 8, CellHeight: 16}.Measure("ab\u65e5", FaceSpec{Size: 16})
	if w != 32 || h != 16 {
		t.Errorf("Measure = %v x %v, want 32 x 16", w, h)
	}
}
