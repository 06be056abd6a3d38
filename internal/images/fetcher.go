// Package images loads page images from local files and URLs.
package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultMaxBytes caps a single downloaded page.
const DefaultMaxBytes = 50 << 20

// Fetcher retrieves page images.
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

// NewFetcher creates a fetcher with a 30 second HTTP timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxBytes: DefaultMaxBytes,
	}
}

// Source is a fetched page before ingest.
type Source struct {
	Name string
	Data []byte
}

// Fetch loads src, which is either an http(s) URL or a file path. The page
// name is the base name of the path or URL path.
func (f *Fetcher) Fetch(ctx context.Context, src string) (*Source, error) {
	if u, err := url.Parse(src); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return f.download(ctx, u)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	return &Source{Name: filepath.Base(src), Data: data}, nil
}

// FetchAll loads every source in order and stops at the first failure.
func (f *Fetcher) FetchAll(ctx context.Context, srcs []string) ([]*Source, error) {
	out := make([]*Source, 0, len(srcs))
	for _, src := range srcs {
		s, err := f.Fetch(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *Fetcher) download(ctx context.Context, u *url.URL) (*Source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image larger than %d bytes", limit)
	}

	name := path.Base(u.Path)
	if name == "/" || name == "." || name == "" {
		name = u.Host
	}
	name = strings.TrimSpace(name)

	slog.Debug("Downloaded page", "url", u.Redacted(), "name", name, "size_bytes", len(data))
	return &Source{Name: name, Data: data}, nil
}
