// Package catalog supplies the read-only service catalog, synonym table,
// and per-company variable configuration the pipeline consumes. The data is
// always injected; nothing in this package is module-level mutable state.
package catalog

import (
	"context"

	"github.com/tradesphere/quote-engine/internal/model"
)

// Provider defines the configuration reads the pipeline depends on.
// Implementations: Static (built-in defaults), Cached (read-through cache
// over a store-backed provider), and the store drivers themselves.
type Provider interface {
	Services(ctx context.Context) ([]model.ServiceConfig, error)
	ServiceByName(ctx context.Context, name string) (*model.ServiceConfig, error)
	Synonyms(ctx context.Context) ([]model.SynonymEntry, error)
	VariableConfig(ctx context.Context, companyID string) (*model.VariableConfig, error)
}

// Static is an in-memory Provider. It backs tests and the no-database mode
// of the CLI.
type Static struct {
	services []model.ServiceConfig
	byName   map[string]model.ServiceConfig
	synonyms []model.SynonymEntry
	vars     map[string]model.VariableConfig
}

// NewStatic builds a Static provider from explicit data. The variable
// config map is keyed by company id; the empty key is the fallback used
// when a company has no config of its own.
func NewStatic(services []model.ServiceConfig, synonyms []model.SynonymEntry, vars map[string]model.VariableConfig) *Static {
	byName := make(map[string]model.ServiceConfig, len(services))
	for _, s := range services {
		byName[s.Name] = s
	}
	return &Static{
		services: services,
		byName:   byName,
		synonyms: synonyms,
		vars:     vars,
	}
}

// Services returns all catalog entries.
func (s *Static) Services(_ context.Context) ([]model.ServiceConfig, error) {
	return s.services, nil
}

// ServiceByName returns the catalog entry for a canonical name, or nil if
// the service is not in the catalog.
func (s *Static) ServiceByName(_ context.Context, name string) (*model.ServiceConfig, error) {
	sc, ok := s.byName[name]
	if !ok {
		return nil, nil
	}
	return &sc, nil
}

// Synonyms returns the ordered synonym table.
func (s *Static) Synonyms(_ context.Context) ([]model.SynonymEntry, error) {
	return s.synonyms, nil
}

// VariableConfig returns the company's variable tree, falling back to the
// empty-key default when the company has none.
func (s *Static) VariableConfig(_ context.Context, companyID string) (*model.VariableConfig, error) {
	if vc, ok := s.vars[companyID]; ok {
		return &vc, nil
	}
	if vc, ok := s.vars[""]; ok {
		return &vc, nil
	}
	return nil, nil
}
