package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodeTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	red := color.RGBA{255, 0, 0, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, red)
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

// createTestPNGDataURI creates a small 2x2 red PNG as a data URI.
func createTestPNGDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodeTestPNG(2, 2))
}

type fakeFetcher struct {
	files map[string][]byte
	calls int
}

func (f *fakeFetcher) FetchImage(uri string) ([]byte, error) {
	f.calls++
	data, ok := f.files[uri]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func TestIsDataURI(t *testing.T) {
	if !IsDataURI("data:image/png;base64,abc") {
		t.Error("expected true for data URI")
	}
	if IsDataURI("/path/to/file.png") {
		t.Error("expected false for file path")
	}
	if IsDataURI("") {
		t.Error("expected false for empty string")
	}
}

func TestLoadImageFromDataURI(t *testing.T) {
	uri := createTestPNGDataURI()
	img, err := LoadImageFromDataURI(uri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 2 || bounds.Dy() != 2 {
		t.Errorf("expected 2x2 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestLoadImageFromDataURI_Invalid(t *testing.T) {
	tests := []string{
		"not-a-data-uri",
		"data:image/png;base64", // no comma
		"data:image/png;base64,!!!invalid-base64!!!",
		"data:image/png;base64,aGVsbG8=", // valid base64 but not an image
	}
	for _, uri := range tests {
		_, err := LoadImageFromDataURI(uri)
		if err == nil {
			t.Errorf("expected error for %q", uri)
		}
	}
}

func TestLoadImage_DataURI(t *testing.T) {
	uri := createTestPNGDataURI()
	img, err := LoadImage(uri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 2 || bounds.Dy() != 2 {
		t.Errorf("expected 2x2 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	// Second call should hit cache
	img2, err := LoadImage(uri)
	if err != nil {
		t.Fatalf("unexpected error on cached load: %v", err)
	}
	if img != img2 {
		t.Error("expected cached image to be the same pointer")
	}
}

func TestGetImageDimensions_DataURI(t *testing.T) {
	uri := createTestPNGDataURI()
	w, h, err := GetImageDimensions(uri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 2 || h != 2 {
		t.Errorf("expected 2x2, got %dx%d", w, h)
	}
}

func TestLoaderResolvesAgainstBaseDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), encodeTestPNG(4, 3), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(nil, dir)
	w, h, err := l.Dimensions("logo.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 4 || h != 3 {
		t.Errorf("expected 4x3, got %dx%d", w, h)
	}
}

func TestLoaderFallsBackToFetcher(t *testing.T) {
	f := &fakeFetcher{files: map[string][]byte{
		"img/banner.png":                encodeTestPNG(5, 1),
		"https://example.com/badge.png": encodeTestPNG(1, 1),
	}}
	l := NewLoader(f, t.TempDir())

	if w, h, err := l.Dimensions("img/banner.png"); err != nil || w != 5 || h != 1 {
		t.Errorf("Dimensions(img/banner.png) = %d, %d, %v", w, h, err)
	}
	if _, err := l.Load("https://example.com/badge.png"); err != nil {
		t.Errorf("network image: %v", err)
	}
	if _, err := l.Load("https://example.com/badge.png"); err != nil {
		t.Fatal(err)
	}
	if f.calls != 2 {
		t.Errorf("fetcher calls = %d, want 2 (second load cached)", f.calls)
	}
	if _, err := l.Load("missing.png"); err == nil {
		t.Error("expected error for missing image")
	}
}

func TestLoaderWithoutFetcherRejectsNetwork(t *testing.T) {
	if _, err := NewLoader(nil, "").Load("http://example.com/a.png"); err == nil {
		t.Error("expected error without a fetcher")
	}
}
