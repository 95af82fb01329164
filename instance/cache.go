package instance

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/zeebo/xxh3"

	"github.com/HelgeS/mcap-rotational-diversity/internal/logging"
	"github.com/HelgeS/mcap-rotational-diversity/types"
)

// Cache keeps parsed instances keyed by absolute path.
//
// Every Get reads the file and compares an xxh3 fingerprint of its content
// with the cached entry, so an edited file is re-parsed. Callers always
// receive a clone; the cached instance itself is never handed out.
//
// Cache is safe for concurrent use.
type Cache struct {
	entries *xsync.Map[string, *entry]
	logger  types.Logger
}

type entry struct {
	fingerprint uint64
	inst        *Instance
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLogger sets the logger for cache diagnostics.
func WithLogger(logger types.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache creates an empty cache.
//
// Example:
//
//	cache := instance.NewCache()
//	for _, name := range strategies {
//	    inst, err := cache.Get("instances/small_01.pl")
//	    // each run gets its own tasks
//	}
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		entries: xsync.NewMap[string, *entry](),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns a fresh copy of the instance stored at path.
//
// Parameters:
//   - path: Instance file path, relative or absolute
//
// Returns:
//   - *Instance: An independent clone
//   - error: I/O errors or ErrMalformedInstance
func (c *Cache) Get(path string) (*Instance, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve instance path: %w", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read instance: %w", err)
	}
	fp := xxh3.Hash(data)

	if e, ok := c.entries.Load(abs); ok && e.fingerprint == fp {
		c.logger.Debug("instance cache hit", "path", abs)
		return e.inst.Clone(), nil
	}

	inst, err := Parse(nameOf(abs), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	c.entries.Store(abs, &entry{fingerprint: fp, inst: inst})
	c.logger.Debug("instance cached", "path", abs, "fingerprint", fp)

	return inst.Clone(), nil
}

// Forget drops the entry for path.
func (c *Cache) Forget(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	c.entries.Delete(abs)
}

// Len returns the number of cached instances.
func (c *Cache) Len() int {
	return c.entries.Size()
}
