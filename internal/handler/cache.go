package handler

import (
	"fmt"
	"sync"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/metrics"
)

// KeyFunc derives the memoization key for a call.
type KeyFunc func(err any, ctx verrors.Context) string

// DefaultCacheLimit bounds the cache handler.New installs. Messages often
// embed chat or request ids, so a long-running server sees unbounded keys.
const DefaultCacheLimit = 1024

// Cache is the memo table owned by cached handlers. It is safe for
// concurrent use and lives as long as its owner keeps it.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*verrors.McpError
	order    []string
	limit    int
	recorder metrics.Recorder
}

// NewCache creates an unbounded cache reporting lookups to recorder (may be nil).
func NewCache(recorder metrics.Recorder) *Cache {
	return NewBoundedCache(0, recorder)
}

// NewBoundedCache creates a cache holding at most limit keys; the oldest key
// is evicted first. A limit of 0 or less means unbounded.
func NewBoundedCache(limit int, recorder metrics.Recorder) *Cache {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Cache{entries: make(map[string]*verrors.McpError), limit: limit, recorder: recorder}
}

// Wrap memoizes h by key. The first result for a key, including nil, is
// returned for every later call with that key without invoking h again.
func (c *Cache) Wrap(h Handler, key KeyFunc) Handler {
	return func(err any, ctx verrors.Context) *verrors.McpError {
		k := key(err, ctx)

		c.mu.Lock()
		cached, ok := c.entries[k]
		c.mu.Unlock()
		c.recorder.IncCacheResult(ok)
		if ok {
			return cached.Clone()
		}

		res := h(err, ctx)

		c.mu.Lock()
		if existing, raced := c.entries[k]; raced {
			res = existing
		} else {
			c.store(k, res)
		}
		c.mu.Unlock()
		return res.Clone()
	}
}

// store must be called with mu held.
func (c *Cache) store(k string, res *verrors.McpError) {
	if c.limit > 0 && len(c.entries) >= c.limit {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	c.entries[k] = res
	c.order = append(c.order, k)
}

// Len reports the number of cached keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset discards every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.order = nil
}

// WithCache memoizes h in a cache private to the returned handler.
func WithCache(h Handler, key KeyFunc) Handler {
	return NewCache(nil).Wrap(h, key)
}

// ErrorKey keys on the error's dynamic type, explicit status and message,
// which together determine its classification.
func ErrorKey(err any, _ verrors.Context) string {
	status, _ := verrors.StatusOf(err)
	return fmt.Sprintf("%T|%d|%s", err, status, verrors.ExtractMessage(err))
}
