package cart

import (
	"context"
	"sync"
	"time"

	"github.com/khatias/rdbr-project/internal/upstream"

	"go.uber.org/zap"
)

// CoreFactory builds the core of a session the first time it is seen.
type CoreFactory func(sessionKey, token string) *Core

// NewCoreFactory wires cores to the upstream client with the session token
// and to the image cache of the session.
func NewCoreFactory(client *upstream.Client, images ImageCacheFactory, logger *zap.Logger) CoreFactory {
	return func(sessionKey, token string) *Core {
		var cache ImageCache
		if images != nil {
			cache = images(sessionKey)
		}
		return NewCore(NewGateway(client, token), cache, logger)
	}
}

type registryEntry struct {
	core     *Core
	lastUsed time.Time
}

// Registry holds one Core per session key.
type Registry struct {
	mu      sync.Mutex
	cores   map[string]*registryEntry
	factory CoreFactory
	now     func() time.Time
	logger  *zap.Logger
}

func NewRegistry(factory CoreFactory, logger ...*zap.Logger) *Registry {
	l := zap.L().Named("cart.registry")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cart.registry")
	}
	return &Registry{
		cores:   make(map[string]*registryEntry),
		factory: factory,
		now:     time.Now,
		logger:  l,
	}
}

// Get returns the core of sessionKey, creating it when needed. created
// reports whether the core is new and has never loaded the upstream cart.
func (r *Registry) Get(sessionKey, token string) (core *Core, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.cores[sessionKey]; ok {
		e.lastUsed = r.now()
		return e.core, false
	}

	core = r.factory(sessionKey, token)
	r.cores[sessionKey] = &registryEntry{core: core, lastUsed: r.now()}
	return core, true
}

// Lookup returns the core of sessionKey without creating one.
func (r *Registry) Lookup(sessionKey string) (*Core, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.cores[sessionKey]
	if !ok {
		return nil, false
	}
	return e.core, true
}

func (r *Registry) Forget(sessionKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cores, sessionKey)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cores)
}

// Sweep drops cores unused for longer than idle. Cores with an operation in
// flight are kept.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for key, e := range r.cores {
		if now.Sub(e.lastUsed) <= idle || e.core.Pending() {
			continue
		}
		delete(r.cores, key)
		removed++
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				r.logger.Info("idle carts evicted", zap.Int("count", n))
			}
		}
	}
}
