package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

const maxIconSize = 512 << 10

var iconExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".ico": true, ".svg": true, ".gif": true, ".webp": true}

// IconCache downloads station favicons to disk so notifications can show
// them. Failed downloads are remembered for the life of the cache.
type IconCache struct {
	dir    string
	client *http.Client

	mu     sync.Mutex
	failed map[string]bool
}

// DefaultIconDir returns the favicon cache directory under the XDG cache dir.
func DefaultIconDir() (string, error) {
	p, err := xdg.CacheFile("airwaves/favicons/.keep")
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}

// NewIconCache creates a cache storing files in dir.
func NewIconCache(dir string, client *http.Client) *IconCache {
	if client == nil {
		client = http.DefaultClient
	}
	return &IconCache{dir: dir, client: client, failed: make(map[string]bool)}
}

// Path returns a local file for the station favicon, downloading it on first
// use. It returns "" when the station has no usable favicon.
func (c *IconCache) Path(ctx context.Context, stationID, faviconURL string) string {
	if stationID == "" || !strings.HasPrefix(faviconURL, "http") {
		return ""
	}
	file := filepath.Join(c.dir, iconName(stationID, faviconURL))
	if _, err := os.Stat(file); err == nil {
		return file
	}

	c.mu.Lock()
	skip := c.failed[stationID]
	c.mu.Unlock()
	if skip {
		return ""
	}

	if err := c.download(ctx, faviconURL, file); err != nil {
		c.mu.Lock()
		c.failed[stationID] = true
		c.mu.Unlock()
		return ""
	}
	return file
}

func (c *IconCache) download(ctx context.Context, rawURL, file string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("favicon: http %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("favicon: unexpected content type %q", ct)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconSize+1))
	if err != nil {
		return err
	}
	if len(data) == 0 || len(data) > maxIconSize {
		return errors.New("favicon: bad size")
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, ".icon-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), file)
}

// iconName builds a file name from the station id and the favicon extension.
func iconName(stationID, rawURL string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator || r == '.' {
			return '_'
		}
		return r
	}, stationID)

	ext := ".png"
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	if e := strings.ToLower(path.Ext(rawURL)); iconExts[e] {
		ext = e
	}
	return name + ext
}
