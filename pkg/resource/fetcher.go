package resource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	stdnet "marquee14/std/net"
)

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher fetches resources over HTTP/HTTPS or from the filesystem,
// resolving relative URIs against a base URL or directory.
type DefaultFetcher struct {
	base string
}

// NewFetcher creates a DefaultFetcher with the given base. A base that is
// not a network URL is taken as a directory.
func NewFetcher(base string) *DefaultFetcher {
	return &DefaultFetcher{base: base}
}

// Base returns the URL or directory relative URIs resolve against.
func (f *DefaultFetcher) Base() string { return f.base }

// Fetch retrieves the resource at the given URI.
// Relative URIs are resolved against the fetcher's base.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	if stdnet.IsNetworkURL(uri) {
		return stdnet.Fetch(ctx, uri)
	}
	if stdnet.IsNetworkURL(f.base) {
		return stdnet.Fetch(ctx, stdnet.ResolveURL(f.base, uri))
	}
	path := strings.TrimPrefix(uri, "file://")
	if f.base != "" && !filepath.IsAbs(path) {
		path = filepath.Join(f.base, path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return body, "", nil
}

// FetchImage fetches an image URI and returns its raw bytes.
func (f *DefaultFetcher) FetchImage(uri string) ([]byte, error) {
	body, _, err := f.Fetch(context.Background(), uri)
	if err != nil {
		return nil, err
	}
	return body, nil
}
