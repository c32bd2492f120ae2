package eodhd

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/sprout/logger"
)

// diskCache is an http.RoundTripper keeping successful responses on disk
// until the end of the day.
type diskCache struct {
	base http.RoundTripper
	dir  string
	now  func() time.Time
}

// newDailyCachingClient returns an http.Client whose responses are cached in
// dir, entries expire every day.
func newDailyCachingClient(base http.RoundTripper, dir string) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	if dir == "" {
		dir = os.TempDir()
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: &diskCache{base: base, dir: dir, now: time.Now},
	}
}

// key identifies req for the current day.
func (c *diskCache) key(req *http.Request) string {
	key := fmt.Sprintf("%s %s %s", c.now().Format(time.DateOnly), req.Method, req.URL.String())
	return fmt.Sprintf("eodhd-%x", sha1.Sum([]byte(key)))
}

// RoundTrip returns the cached response of the day if any, or performs the
// request and stores its response when it is a success.
func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	log := logger.FromContext(req.Context())
	key := c.key(req)
	if resp, err := c.get(key, req); err == nil {
		log.Debugw("eodhd cache hit", "path", req.URL.Path)
		return resp, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		log.Infow("cache write error (ignored)", "error", err)
	}
	return resp, nil
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores resp on disk. DumpResponse leaves resp.Body readable.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}
