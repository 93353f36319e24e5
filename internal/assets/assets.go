// Package assets resolves image references (local paths or http(s) URLs),
// caches their bytes and decodes them.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	// Registered decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"go.uber.org/zap"

	"github.com/Faultbox/logoswarm/internal/engine/texture"
	"github.com/Faultbox/logoswarm/internal/logger"
)

// maxImageBytes bounds a single fetched resource.
const maxImageBytes = 32 << 20

// Options configures a Manager.
type Options struct {
	HTTPTimeout time.Duration
	Cache       bool
}

// Manager loads image resources. Safe for concurrent use.
type Manager struct {
	client *http.Client
	cache  *Cache
}

// NewManager creates a new asset manager.
func NewManager(opts Options) *Manager {
	m := &Manager{
		client: &http.Client{Timeout: opts.HTTPTimeout},
	}
	if opts.Cache {
		m.cache = NewCache()
	}
	return m
}

// Cache returns the byte cache, or nil when caching is disabled.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Load returns the raw bytes of src.
func (m *Manager) Load(ctx context.Context, src string) ([]byte, error) {
	if m.cache != nil {
		if data, ok := m.cache.Get(src); ok {
			return data, nil
		}
	}

	var (
		data []byte
		err  error
	)
	if isRemote(src) {
		data, err = m.fetch(ctx, src)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		m.cache.Set(src, data)
	}
	logger.Debug("asset loaded", zap.String("src", src), zap.Int("bytes", len(data)))
	return data, nil
}

// LoadImage loads and decodes src. TGA is picked by extension since it has
// no magic number; everything else is sniffed by image.Decode.
func (m *Manager) LoadImage(ctx context.Context, src string) (image.Image, error) {
	data, err := m.Load(ctx, src)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(path.Ext(resourcePath(src)), ".tga") {
		img, err := texture.DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", src, err)
		}
		return img, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", src, err)
	}
	logger.Debug("image decoded",
		zap.String("src", src),
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return img, nil
}

func (m *Manager) fetch(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", src, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("GET %s: body exceeds %d bytes", src, maxImageBytes)
	}
	return data, nil
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// resourcePath strips query and fragment from URLs.
func resourcePath(src string) string {
	if !isRemote(src) {
		return src
	}
	u, err := url.Parse(src)
	if err != nil {
		return src
	}
	return u.Path
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear empties the cache and resets stats.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
