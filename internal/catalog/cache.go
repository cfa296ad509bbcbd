package catalog

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Cache holds the current Snapshot of one directory. Readers call Current,
// which never touches the disk; Refresh swaps in a new Snapshot only when the
// directory signature has changed.
type Cache struct {
	dir    string
	logger *slog.Logger

	mu  sync.Mutex // serializes Refresh
	cur atomic.Pointer[Snapshot]
}

// NewCache loads dir once and returns a cache serving that snapshot.
func NewCache(dir string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{dir: dir, logger: logger}
	c.cur.Store(Load(dir, logger))
	return c
}

// Dir returns the directory the cache loads from.
func (c *Cache) Dir() string { return c.dir }

// Current returns the latest snapshot.
func (c *Cache) Current() *Snapshot { return c.cur.Load() }

// Refresh re-lists the directory and reloads it when names, sizes or
// modification times differ from the current snapshot. It reports whether a
// new snapshot was installed.
func (c *Cache) Refresh() (*Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.cur.Load()
	store, metas, err := open(c.dir)

	sig := unavailableSignature
	if err == nil {
		sig = signature(metas)
	}
	if cur != nil && cur.Signature == sig {
		return cur, false
	}

	var next *Snapshot
	if err != nil {
		next = unavailable(c.dir, err, c.logger)
	} else {
		next = build(store, metas, c.logger)
	}
	c.cur.Store(next)

	c.logger.Info("catalog: reloaded",
		slog.String("dir", c.dir),
		slog.String("generation", next.Generation),
		slog.Int("papers", next.Len()))
	return next, true
}
