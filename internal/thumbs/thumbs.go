// Package thumbs mirrors remote thumbnail images into a local directory
// with a bounded worker pool. Failures are per-item and silent: a pair that
// cannot be fetched or written simply ends up with no local copy.
package thumbs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"likeshelf/internal/domain"
)

const (
	// maxWorkers bounds the fetch-and-write pool.
	maxWorkers = 6

	defaultExt    = ".jpg"
	fetchTimeout  = 30 * time.Second
	maxImageBytes = 20 << 20
)

// Pair is one unit of mirroring work.
type Pair struct {
	ID  string
	URL string
}

// Cache downloads thumbnails into dir, one file per video id, extension
// derived from the declared content type.
type Cache struct {
	dir     string
	fetcher domain.ImageFetcher
	logger  *slog.Logger
}

// NewCache creates a thumbnail cache rooted at dir. A nil fetcher gets the
// default redirect-following HTTP fetcher.
func NewCache(dir string, fetcher domain.ImageFetcher, logger *slog.Logger) *Cache {
	if fetcher == nil {
		fetcher = &httpFetcher{client: &http.Client{Timeout: fetchTimeout}}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{dir: dir, fetcher: fetcher, logger: logger}
}

// CacheMany mirrors every pair independently and returns id -> local path.
// A failed item maps to the empty string; sibling items are unaffected.
// All workers run to completion before the call returns. Completion order
// is unspecified.
func (c *Cache) CacheMany(ctx context.Context, pairs []Pair) map[string]string {
	results := make(map[string]string, len(pairs))
	if len(pairs) == 0 {
		return results
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		c.logger.Error("failed to create thumbnail dir", "dir", c.dir, "error", err)
		for _, p := range pairs {
			results[p.ID] = ""
		}
		return results
	}

	workers := len(pairs)
	if workers > maxWorkers {
		workers = maxWorkers
	}

	queue := make(chan Pair, len(pairs))
	for _, p := range pairs {
		queue <- p
	}
	close(queue)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range queue {
				path := c.cacheOne(ctx, p)
				mu.Lock()
				results[p.ID] = path
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return results
}

// cacheOne fetches and persists a single thumbnail. Returns "" on any
// failure.
func (c *Cache) cacheOne(ctx context.Context, p Pair) string {
	if p.ID == "" || p.URL == "" {
		return ""
	}

	data, contentType, err := c.fetcher.FetchBytes(ctx, p.URL)
	if err != nil {
		c.logger.Debug("thumbnail fetch failed", "id", p.ID, "error", err)
		return ""
	}

	path := filepath.Join(c.dir, p.ID+extFor(contentType, data))
	if err := os.WriteFile(path, data, 0644); err != nil {
		c.logger.Debug("thumbnail write failed", "id", p.ID, "error", err)
		return ""
	}
	return path
}

// extFor derives a file extension from the declared content type, sniffing
// the bytes when the header is absent, and defaulting to .jpg.
func extFor(contentType string, data []byte) string {
	if contentType != "" {
		if m := mimetype.Lookup(strings.TrimSpace(strings.Split(contentType, ";")[0])); m != nil {
			if ext := m.Extension(); ext != "" {
				return ext
			}
		}
	}
	if len(data) > 0 {
		if ext := mimetype.Detect(data).Extension(); ext != "" {
			return ext
		}
	}
	return defaultExt
}

// httpFetcher is the production domain.ImageFetcher. http.Client follows
// redirects on its own.
type httpFetcher struct {
	client *http.Client
}

func (f *httpFetcher) FetchBytes(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	// Read one byte past the ceiling so truncation is detectable; a
	// silently clipped image must fail the item, not persist corrupt.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
