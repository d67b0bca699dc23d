package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/tradesphere/quote-engine/internal/model"
)

// Pool abstracts the pgx pool operations the store uses so tests can
// substitute pgxmock.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS services (
	name       TEXT PRIMARY KEY,
	sheet_row  INTEGER NOT NULL,
	unit       TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	is_special BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS synonyms (
	service  TEXT NOT NULL REFERENCES services(name) ON DELETE CASCADE,
	phrase   TEXT NOT NULL UNIQUE,
	position INTEGER NOT NULL,
	PRIMARY KEY (service, position)
);

CREATE TABLE IF NOT EXISTS variable_configs (
	company_id TEXT PRIMARY KEY,
	config     JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_synonyms_service ON synonyms(service);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Services(ctx context.Context) ([]model.ServiceConfig, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, sheet_row, unit, category, is_special FROM services ORDER BY sheet_row`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query services")
	}
	defer rows.Close()

	var services []model.ServiceConfig
	for rows.Next() {
		var sc model.ServiceConfig
		if err := rows.Scan(&sc.Name, &sc.Row, &sc.Unit, &sc.Category, &sc.IsSpecial); err != nil {
			return nil, eris.Wrap(err, "postgres: scan service")
		}
		services = append(services, sc)
	}
	return services, eris.Wrap(rows.Err(), "postgres: iterate services")
}

func (s *PostgresStore) ServiceByName(ctx context.Context, name string) (*model.ServiceConfig, error) {
	var sc model.ServiceConfig
	err := s.pool.QueryRow(ctx,
		`SELECT name, sheet_row, unit, category, is_special FROM services WHERE name = $1`,
		name,
	).Scan(&sc.Name, &sc.Row, &sc.Unit, &sc.Category, &sc.IsSpecial)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get service %q", name)
	}
	return &sc, nil
}

func (s *PostgresStore) Synonyms(ctx context.Context) ([]model.SynonymEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sy.service, sy.phrase
		FROM synonyms sy
		JOIN services sv ON sv.name = sy.service
		ORDER BY sv.sheet_row, sy.position`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query synonyms")
	}
	defer rows.Close()

	return collectSynonyms(rows)
}

func (s *PostgresStore) VariableConfig(ctx context.Context, companyID string) (*model.VariableConfig, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT config FROM variable_configs WHERE company_id = $1`, companyID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get variable config %q", companyID)
	}

	var cfg model.VariableConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal variable config %q", companyID)
	}
	return &cfg, nil
}

func (s *PostgresStore) ReplaceCatalog(ctx context.Context, services []model.ServiceConfig, synonyms []model.SynonymEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin replace catalog")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM synonyms`); err != nil {
		return eris.Wrap(err, "postgres: clear synonyms")
	}
	if _, err := tx.Exec(ctx, `DELETE FROM services`); err != nil {
		return eris.Wrap(err, "postgres: clear services")
	}

	for _, sc := range services {
		if _, err := tx.Exec(ctx,
			`INSERT INTO services (name, sheet_row, unit, category, is_special) VALUES ($1, $2, $3, $4, $5)`,
			sc.Name, sc.Row, string(sc.Unit), sc.Category, sc.IsSpecial,
		); err != nil {
			return eris.Wrapf(err, "postgres: insert service %q", sc.Name)
		}
	}
	for _, entry := range synonyms {
		for i, phrase := range entry.Phrases {
			if _, err := tx.Exec(ctx,
				`INSERT INTO synonyms (service, phrase, position) VALUES ($1, $2, $3)`,
				entry.Service, phrase, i,
			); err != nil {
				return eris.Wrapf(err, "postgres: insert synonym %q", phrase)
			}
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit replace catalog")
}

func (s *PostgresStore) SaveVariableConfig(ctx context.Context, companyID string, cfg model.VariableConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal variable config")
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO variable_configs (company_id, config, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (company_id) DO UPDATE SET config = EXCLUDED.config, updated_at = EXCLUDED.updated_at`,
		companyID, raw, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: save variable config %q", companyID)
}
