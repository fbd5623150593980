package resource

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	stdnet "marquee14/std/net"
)

// Source is a page's markup together with a fetcher for what it refers to.
type Source struct {
	Location string
	HTML     string
	Fetcher  *DefaultFetcher
}

// Open reads a page from a URL, a file path, or "-" for standard input.
func Open(ctx context.Context, location string) (*Source, error) {
	switch {
	case location == "-":
		body, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		wd, _ := os.Getwd()
		return &Source{Location: location, HTML: string(body), Fetcher: NewFetcher(wd)}, nil

	case stdnet.IsNetworkURL(location):
		body, ct, err := stdnet.Fetch(ctx, location)
		if err != nil {
			return nil, err
		}
		if ct != "" && !strings.Contains(strings.ToLower(ct), "html") && !strings.HasPrefix(ct, "text/") {
			return nil, fmt.Errorf("unexpected content type for a page: %s", ct)
		}
		return &Source{Location: location, HTML: string(body), Fetcher: NewFetcher(location)}, nil
	}

	path := strings.TrimPrefix(location, "file://")
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		dir = filepath.Dir(path)
	}
	return &Source{Location: location, HTML: string(body), Fetcher: NewFetcher(dir)}, nil
}

// BaseDir returns the directory relative image paths resolve against, or
// "" for network pages.
func (s *Source) BaseDir() string {
	if stdnet.IsNetworkURL(s.Fetcher.Base()) {
		return ""
	}
	return s.Fetcher.Base()
}
