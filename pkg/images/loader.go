package images

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	stdnet "marquee14/std/net"
)

// Fetcher retrieves image bytes that are not on the local filesystem.
type Fetcher interface {
	FetchImage(uri string) ([]byte, error)
}

// Loader loads and caches the images a page refers to. Sources are data
// URIs, file paths relative to the page directory, or anything the
// fetcher can retrieve.
type Loader struct {
	mu      sync.RWMutex
	cache   map[string]image.Image
	fetcher Fetcher
	baseDir string
}

// NewLoader creates a loader resolving relative paths against baseDir.
// fetcher may be nil for filesystem-only pages.
func NewLoader(fetcher Fetcher, baseDir string) *Loader {
	return &Loader{
		cache:   make(map[string]image.Image),
		fetcher: fetcher,
		baseDir: baseDir,
	}
}

// Global loader for callers without a page context
var globalLoader = NewLoader(nil, "")

// Load returns the decoded image for src.
func (l *Loader) Load(src string) (image.Image, error) {
	l.mu.RLock()
	if img, ok := l.cache[src]; ok {
		l.mu.RUnlock()
		return img, nil
	}
	l.mu.RUnlock()

	img, err := l.load(src)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[src] = img
	l.mu.Unlock()
	return img, nil
}

func (l *Loader) load(src string) (image.Image, error) {
	if IsDataURI(src) {
		return LoadImageFromDataURI(src)
	}
	if !stdnet.IsNetworkURL(src) {
		img, err := decodeFile(l.resolvePath(src))
		if err == nil || l.fetcher == nil {
			return img, err
		}
	}
	if l.fetcher == nil {
		return nil, fmt.Errorf("no fetcher for %s", src)
	}
	data, err := l.fetcher.FetchImage(src)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (l *Loader) resolvePath(src string) string {
	path := strings.TrimPrefix(src, "file://")
	if u, err := url.PathUnescape(path); err == nil {
		path = u
	}
	if l.baseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.baseDir, path)
	}
	return path
}

// Dimensions returns the natural width and height of src.
func (l *Loader) Dimensions(src string) (width, height int, err error) {
	img, err := l.Load(src)
	if err != nil {
		return 0, 0, err
	}
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy(), nil
}

func decodeFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes image bytes in any registered format.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// IsDataURI reports whether s is a data: URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// LoadImageFromDataURI decodes a base64 data URI.
func LoadImageFromDataURI(uri string) (image.Image, error) {
	if !IsDataURI(uri) {
		return nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	var data []byte
	if strings.HasSuffix(meta, ";base64") {
		var err error
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding data URI: %w", err)
		}
	} else {
		text, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding data URI: %w", err)
		}
		data = []byte(text)
	}
	return Decode(data)
}

// LoadImage loads an image through the global loader
func LoadImage(path string) (image.Image, error) {
	return globalLoader.Load(path)
}

// GetImageDimensions returns the width and height of an image
func GetImageDimensions(path string) (width, height int, err error) {
	return globalLoader.Dimensions(path)
}
