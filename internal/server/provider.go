package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"aanmeldapp/internal/models"
)

// IConfigLoader reads the raw key-value configuration from the config store.
type IConfigLoader interface {
	LoadConfig(ctx context.Context) (map[string]string, error)
}

// Provider hands out the parsed EventConfig to request handlers. The loaded
// value is cached for a short TTL and invalidated explicitly after an admin
// save, replacing the original's per-session cache with a per-process one
// that actually refreshes.
type Provider struct {
	loader IConfigLoader
	loc    *time.Location
	ttl    time.Duration
	logger *slog.Logger
	clock  func() time.Time

	mu       sync.Mutex
	cached   models.EventConfig
	loadedAt time.Time
	hasCache bool
}

// NewProvider creates a Provider.
func NewProvider(logger *slog.Logger, loader IConfigLoader, loc *time.Location, ttl time.Duration) *Provider {
	return &Provider{
		loader: loader,
		loc:    loc,
		ttl:    ttl,
		logger: logger,
		clock:  time.Now,
	}
}

// Current returns the active EventConfig. A stale cache triggers a reload;
// a failed load falls back to the last good value, or to the documented
// defaults if nothing was ever loaded, so the form always renders.
func (p *Provider) Current(ctx context.Context) models.EventConfig {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.hasCache && p.clock().Sub(p.loadedAt) < p.ttl {
		return p.cached
	}

	kv, err := p.loader.LoadConfig(ctx)
	if err != nil {
		p.logger.Error("Failed to load config, serving fallback", "error", err)
		if p.hasCache {
			return p.cached
		}
		return models.ParseEventConfig(nil, p.loc)
	}

	p.cached = models.ParseEventConfig(kv, p.loc)
	p.loadedAt = p.clock()
	p.hasCache = true
	return p.cached
}

// Invalidate drops the cache so the next request re-reads the store. Called
// after every admin save.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.hasCache = false
	p.mu.Unlock()
}
