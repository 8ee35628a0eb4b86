// Package engine is the address facade: it composes the query engine, the
// reduction lookup, an optional cache and metrics, and serializes rebuilds
// of the address store.
package engine

import (
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/iEmiya/ruaddress/config"
	"github.com/iEmiya/ruaddress/internal/cache"
	"github.com/iEmiya/ruaddress/internal/jobs"
	"github.com/iEmiya/ruaddress/internal/metrics"
	"github.com/iEmiya/ruaddress/internal/reduction"
	"github.com/iEmiya/ruaddress/internal/search"
	"github.com/iEmiya/ruaddress/model"
)

const dataDirPerm = 0750

// Engine answers address queries over the store in one data directory.
// It implements services.AddressService, services.Rebuilder and
// services.JobManager.
type Engine struct {
	dataDir string
	logger  *slog.Logger
	metrics *metrics.Metrics
	cache   *cache.AddressCache

	reductions atomic.Pointer[reduction.Loader]
	searcher   *search.Service
	jobManager *jobs.Manager
	rebuilding atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics records queries, builds and cache usage in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithCache puts c in front of GetByCode. A nil cache is ignored.
func WithCache(c *cache.AddressCache) Option {
	return func(e *Engine) { e.cache = c }
}

// NewEngine creates a facade over cfg.DataDir. The store and the reduction
// table are opened lazily, so a directory without a build is valid: every
// query answers empty until the first rebuild.
func NewEngine(cfg *config.Config, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		dataDir:    cfg.DataDir,
		logger:     logger,
		jobManager: jobs.NewManager(cfg.Jobs.MaxWorkers, logger),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := os.MkdirAll(e.dataDir, dataDirPerm); err != nil {
		logger.Warn("could not create data directory", "dir", e.dataDir, "error", err)
	}
	e.reductions.Store(reduction.NewLoader(e.dataDir, logger))
	e.searcher = search.NewService(e.dataDir, currentReductions{&e.reductions}, logger)
	e.jobManager.Start()
	return e
}

// currentReductions reads through to whichever loader the engine holds, so
// the query engine follows a rebuild without being recreated.
type currentReductions struct {
	p *atomic.Pointer[reduction.Loader]
}

func (c currentReductions) Get(level int, short string) (model.ReductionEntry, bool) {
	return c.p.Load().Get(level, short)
}

// DataDir returns the directory holding the store and the reduction table.
func (e *Engine) DataDir() string {
	return e.dataDir
}

// BuildID returns the id of the store being served, or "" before the first build.
func (e *Engine) BuildID() string {
	return e.searcher.BuildID()
}

// Close stops background jobs and releases the store and the cache.
func (e *Engine) Close() error {
	e.jobManager.Stop()
	if err := e.searcher.Close(); err != nil {
		return err
	}
	if e.cache != nil {
		return e.cache.Close()
	}
	return nil
}
