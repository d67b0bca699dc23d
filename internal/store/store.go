// Package store persists the service catalog, synonym table, and
// per-company variable configurations behind a driver-agnostic interface.
package store

import (
	"context"

	"github.com/tradesphere/quote-engine/internal/model"
)

// Store is the persistence interface for quoting configuration. It
// satisfies catalog.Provider so a store can be handed straight to the
// pipeline (usually wrapped in catalog.Cached).
type Store interface {
	// Reads (catalog.Provider)
	Services(ctx context.Context) ([]model.ServiceConfig, error)
	ServiceByName(ctx context.Context, name string) (*model.ServiceConfig, error)
	Synonyms(ctx context.Context) ([]model.SynonymEntry, error)
	VariableConfig(ctx context.Context, companyID string) (*model.VariableConfig, error)

	// Writes
	ReplaceCatalog(ctx context.Context, services []model.ServiceConfig, synonyms []model.SynonymEntry) error
	SaveVariableConfig(ctx context.Context, companyID string, cfg model.VariableConfig) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
