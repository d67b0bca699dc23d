package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/tradesphere/quote-engine/internal/model"
)

// Cached is a process-wide read-through cache over a Provider. The catalog
// and variable configs are read-only per invocation, so concurrent quotes
// share one cache. Invalidate must be called whenever the underlying
// configuration changes.
type Cached struct {
	inner Provider

	mu       sync.RWMutex
	services []model.ServiceConfig
	byName   map[string]model.ServiceConfig
	synonyms []model.SynonymEntry
	vars     map[string]*model.VariableConfig
}

// NewCached wraps a Provider with caching.
func NewCached(inner Provider) *Cached {
	return &Cached{
		inner: inner,
		vars:  make(map[string]*model.VariableConfig),
	}
}

// Invalidate drops all cached data. The next read repopulates from the
// underlying provider.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services = nil
	c.byName = nil
	c.synonyms = nil
	c.vars = make(map[string]*model.VariableConfig)
	zap.L().Info("catalog: cache invalidated")
}

func (c *Cached) loadServices(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.byName != nil
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	services, err := c.inner.Services(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]model.ServiceConfig, len(services))
	for _, s := range services {
		byName[s.Name] = s
	}

	c.mu.Lock()
	c.services = services
	c.byName = byName
	c.mu.Unlock()
	return nil
}

// Services returns all catalog entries, loading once per invalidation.
func (c *Cached) Services(ctx context.Context) ([]model.ServiceConfig, error) {
	if err := c.loadServices(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services, nil
}

// ServiceByName returns a catalog entry or nil when unknown.
func (c *Cached) ServiceByName(ctx context.Context, name string) (*model.ServiceConfig, error) {
	if err := c.loadServices(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	sc, ok := c.byName[name]
	if !ok {
		return nil, nil
	}
	return &sc, nil
}

// Synonyms returns the ordered synonym table.
func (c *Cached) Synonyms(ctx context.Context) ([]model.SynonymEntry, error) {
	c.mu.RLock()
	cached := c.synonyms
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	synonyms, err := c.inner.Synonyms(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.synonyms = synonyms
	c.mu.Unlock()
	return synonyms, nil
}

// VariableConfig returns the company's variable tree, cached per company.
func (c *Cached) VariableConfig(ctx context.Context, companyID string) (*model.VariableConfig, error) {
	c.mu.RLock()
	vc, ok := c.vars[companyID]
	c.mu.RUnlock()
	if ok {
		return vc, nil
	}

	vc, err := c.inner.VariableConfig(ctx, companyID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.vars[companyID] = vc
	c.mu.Unlock()
	return vc, nil
}
