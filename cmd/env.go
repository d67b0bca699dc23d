package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tradesphere/quote-engine/internal/catalog"
	"github.com/tradesphere/quote-engine/internal/pipeline"
	"github.com/tradesphere/quote-engine/internal/pricing"
	"github.com/tradesphere/quote-engine/internal/store"
	"github.com/tradesphere/quote-engine/pkg/anthropic"
)

// env holds the wiring shared by every subcommand.
type env struct {
	Provider *catalog.Cached
	Store    store.Store // nil for the static driver
	Pipeline *pipeline.Pipeline
	Engine   *pricing.Engine
}

// initEnv builds the catalog provider, pipeline, and pricing engine from
// the loaded configuration.
func initEnv(ctx context.Context) (*env, error) {
	var base catalog.Provider
	var st store.Store

	switch cfg.Store.Driver {
	case "", "static":
		base = catalog.Default()
	case "sqlite":
		s, err := store.NewSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		st, base = s, s
	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st, base = s, s
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	provider := catalog.NewCached(base)

	var validator pipeline.Validator
	if cfg.Anthropic.Key != "" && !cfg.Anthropic.Disabled {
		client := anthropic.NewClient(cfg.Anthropic.Key, cfg.Anthropic.RequestsPerMinute)
		validator = pipeline.NewClaudeValidator(client, cfg.Anthropic)
	} else {
		zap.L().Info("advisory validation disabled, running deterministic-only")
	}

	rates := pricing.DefaultRates()
	if cfg.Pricing.RatesFile != "" {
		loaded, err := pricing.LoadRates(cfg.Pricing.RatesFile)
		if err != nil {
			closeStore(st)
			return nil, err
		}
		rates = loaded
	}

	return &env{
		Provider: provider,
		Store:    st,
		Pipeline: pipeline.New(provider, validator, cfg.Pipeline),
		Engine: pricing.NewEngine(rates, pricing.Terms{
			HourlyRate:   cfg.Pricing.HourlyRate,
			TeamSize:     cfg.Pricing.TeamSize,
			ProfitMargin: cfg.Pricing.ProfitMargin,
		}),
	}, nil
}

func (e *env) Close() {
	closeStore(e.Store)
}

func closeStore(st store.Store) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		zap.L().Warn("store close failed", zap.Error(err))
	}
}
