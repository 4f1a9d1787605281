package include

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of file scans kept by NewCache(0).
const DefaultCacheSize = 4096

type cacheKey struct {
	pattern string
	path    string
	modTime int64
	size    int64
}

// Cache keeps the references found in recently scanned files. An entry is
// only reused while the file's size and modification time are unchanged.
// A nil *Cache is valid and caches nothing.
type Cache struct {
	entries *lru.Cache[cacheKey, []Ref]
}

// NewCache creates a cache holding up to size scans.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[cacheKey, []Ref](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create include cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Len returns the number of cached scans.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

func (c *Cache) get(k cacheKey) ([]Ref, bool) {
	if c == nil {
		return nil, false
	}
	return c.entries.Get(k)
}

func (c *Cache) add(k cacheKey, refs []Ref) {
	if c == nil {
		return
	}
	c.entries.Add(k, refs)
}
