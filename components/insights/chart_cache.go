package insights

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultChartCacheSize = 128
	defaultChartCacheTTL  = 5 * time.Minute
)

// RenderCache memoizes rendered chart HTML so repeated views are cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache is a size bounded TTL cache for rendered charts.
type ChartCache struct {
	entries *expirable.LRU[string, string]
}

// NewChartCache builds a cache holding up to size entries for ttl each.
// Non-positive values fall back to the defaults.
func NewChartCache(size int, ttl time.Duration) *ChartCache {
	if size <= 0 {
		size = defaultChartCacheSize
	}
	if ttl <= 0 {
		ttl = defaultChartCacheTTL
	}
	return &ChartCache{
		entries: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

// GetOrRender returns a cached entry or renders and stores a new one.
// Render errors are never cached.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c == nil || c.entries == nil {
		return render()
	}
	if html, ok := c.entries.Get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.entries.Add(key, html)
	return html, nil
}

// Len reports the number of live entries.
func (c *ChartCache) Len() int {
	if c == nil || c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Purge drops every entry.
func (c *ChartCache) Purge() {
	if c == nil || c.entries == nil {
		return
	}
	c.entries.Purge()
}

// specHash returns a deterministic hash for a chart spec.
func specHash(spec ChartSpec) string {
	b, err := json.Marshal(spec)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
