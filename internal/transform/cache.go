package transform

import (
	"crypto/sha256"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of memoized rewrites.
const DefaultCacheSize = 1024

type cacheKey struct {
	kind string
	sum  [sha256.Size]byte
}

// Cache memoizes rewrites by content hash. Rewrites are pure, so entries never go
// stale; the watch loop shares one Cache across runs to skip unchanged pages.
type Cache struct {
	entries *lru.Cache[cacheKey, string]
}

// NewCache returns a Cache holding at most size entries.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[cacheKey, string](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: c}, nil
}

// Source is the memoized form of the package-level Source.
func (c *Cache) Source(text string, v Variant) string {
	return c.get("source:"+v.String(), text, func(s string) string { return Source(s, v) })
}

// Wrapper is the memoized form of the package-level Wrapper.
func (c *Cache) Wrapper(text string) string {
	return c.get("wrapper", text, Wrapper)
}

// Stylesheet is the memoized form of the package-level Stylesheet.
func (c *Cache) Stylesheet(css string) string {
	return c.get("stylesheet", css, Stylesheet)
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

func (c *Cache) get(kind, text string, fn func(string) string) string {
	if c == nil {
		return fn(text)
	}
	key := cacheKey{kind: kind, sum: sha256.Sum256([]byte(text))}
	if out, ok := c.entries.Get(key); ok {
		return out
	}
	out := fn(text)
	c.entries.Add(key, out)
	return out
}
