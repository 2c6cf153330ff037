package ranged

import (
	"log/slog"
	"time"
)

// Builder configures the weapon runtime before initialization.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	bundles  []func(*Manager) *Bundle
	log      *slog.Logger
	store    Store
	tickRate time.Duration
}

// NewBuilder creates a new builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Bundle adds a bundle to the builder.
func (b *Builder) Bundle(callback func(*Manager) *Bundle) *Builder {
	b.bundles = append(b.bundles, callback)
	return b
}

// Logger sets the logger used by the manager. Defaults to slog.Default().
func (b *Builder) Logger(log *slog.Logger) *Builder {
	b.log = log
	return b
}

// Store sets the store weapon instances are persisted to.
// Without a store, instance state only lives as long as the session.
//
// Example:
//
//	db, err := store.OpenLevelDB("data/weapons")
//	...
//	builder.Store(db)
func (b *Builder) Store(s Store) *Builder {
	b.store = s
	return b
}

// TickRate sets the interval between two scheduler ticks. Defaults to 50ms (20 TPS).
func (b *Builder) TickRate(d time.Duration) *Builder {
	b.tickRate = d
	return b
}

// Init initializes the runtime with the configured settings.
// Returns the Manager instance which should be stored and used to create sessions.
// Multiple Manager instances can coexist for running multiple isolated servers.
func (b *Builder) Init() *Manager {
	log := b.log
	if log == nil {
		log = slog.Default()
	}
	m := newManager(log, b.store, b.tickRate)

	var hooks []func(*Manager)
	for _, f := range b.bundles {
		bund := f(m)
		m.bundles = append(m.bundles, bund)
		hooks = append(hooks, bund.postInitHooks...)
	}

	if err := m.build(); err != nil {
		panic("ranged: failed to build bundles: " + err.Error())
	}

	m.Start()

	for _, hook := range hooks {
		hook(m)
	}
	return m
}
