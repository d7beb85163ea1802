package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
)

// Result is a memoized catalog load.
type Result struct {
	Path     string
	Table    *domain.Table
	Message  string // user-visible load error; empty when the file was read
	LoadedAt time.Time
}

// HasData reports whether the load produced at least one row.
func (r *Result) HasData() bool {
	return r != nil && !r.Table.Empty()
}

type readFunc func(ctx context.Context, path string) (*domain.Table, error)

// Cache memoizes catalog loads per path for the life of the process. A
// successful read and a missing file are both cached; parse failures are not,
// so a corrected file is picked up by the next caller.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Result
	group   singleflight.Group

	read     readFunc
	resolver domain.RegionResolver
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// Option configures a Cache.
type Option func(*Cache)

// WithResolver enables region enrichment for rows with a blank Region label.
func WithResolver(r domain.RegionResolver) Option {
	return func(c *Cache) { c.resolver = r }
}

// NewCache creates an empty Cache reading files from disk.
func NewCache(logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*Result),
		read:    LoadFile,
		logger:  logger,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the memoized result for path, reading the file on first use.
// Concurrent first loads of the same path share one read.
func (c *Cache) Load(ctx context.Context, path string) (*Result, error) {
	if res, ok := c.lookup(path); ok {
		c.metrics.Loads.WithLabelValues("hit").Inc()
		return res, nil
	}

	v, err, _ := c.group.Do(path, func() (any, error) {
		return c.loadShared(context.WithoutCancel(ctx), path)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

// loadShared runs inside the singleflight group. Its result is memoized and
// handed to every waiting caller, so ctx must not carry a single caller's
// cancellation.
func (c *Cache) loadShared(ctx context.Context, path string) (*Result, error) {
	if res, ok := c.lookup(path); ok {
		c.metrics.Loads.WithLabelValues("hit").Inc()
		return res, nil
	}
	return c.load(ctx, path)
}

// Loaded reports whether path has been read successfully with at least one row.
func (c *Cache) Loaded(path string) bool {
	res, ok := c.lookup(path)
	return ok && res.HasData()
}

// Invalidate drops the memoized result for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

func (c *Cache) lookup(path string) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.entries[path]
	return res, ok
}

func (c *Cache) store(res *Result) {
	c.mu.Lock()
	c.entries[res.Path] = res
	c.mu.Unlock()
}

func (c *Cache) load(ctx context.Context, path string) (*Result, error) {
	start := time.Now()
	tbl, err := c.read(ctx, path)

	switch {
	case errors.Is(err, ErrNotFound):
		res := &Result{
			Path:     path,
			Table:    domain.EmptyTable(),
			Message:  fmt.Sprintf("'%s' file not found.", filepath.Base(path)),
			LoadedAt: domain.Now(),
		}
		c.logger.Error("data file not found", "path", path)
		c.metrics.Loads.WithLabelValues("not_found").Inc()
		c.metrics.DatasetRows.Set(0)
		c.store(res)
		return res, nil
	case err != nil:
		c.logger.Error("data file load failed", "path", path, "error", err)
		c.metrics.Loads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	tbl = domain.EnrichRegions(ctx, tbl, c.resolver, c.logger)

	res := &Result{Path: path, Table: tbl, LoadedAt: domain.Now()}
	c.store(res)
	c.metrics.Loads.WithLabelValues("loaded").Inc()
	c.metrics.DatasetRows.Set(float64(tbl.Len()))
	c.logger.Info("catalog loaded",
		"path", path,
		"rows", tbl.Len(),
		"regions", len(tbl.RegionDict),
		"duration", time.Since(start),
	)
	return res, nil
}
