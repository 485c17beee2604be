package engine

import (
	"time"

	"go.uber.org/zap"

	"conduit/internal/slug"
	"conduit/internal/store"
)

// Engine executes domain operations against the store.
//
// Thread-safety: Engine holds no mutable state and is safe for concurrent
// use; every method is an independent unit of work. Serialization of
// conflicting mutations happens at the store level.
type Engine struct {
	store   *store.Store
	log     *zap.Logger
	slugify func(title string) string
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithSlugger replaces the slug generator. Tests use a deterministic one.
func WithSlugger(fn func(title string) string) Option {
	return func(e *Engine) { e.slugify = fn }
}

// WithClock replaces the time source. Tests use a fixed clock.
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

// New creates an Engine over the given store.
// A nil logger is replaced with a no-op logger.
func New(s *store.Store, log *zap.Logger, opts ...Option) *Engine {
	if log == nil {
		log = zap.NewNop()
	}

	e := &Engine{
		store:   s,
		log:     log,
		slugify: slug.Make,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
