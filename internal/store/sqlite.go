package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/tradesphere/quote-engine/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS services (
	name       TEXT PRIMARY KEY,
	sheet_row  INTEGER NOT NULL,
	unit       TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	is_special INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS synonyms (
	service  TEXT NOT NULL REFERENCES services(name) ON DELETE CASCADE,
	phrase   TEXT NOT NULL UNIQUE,
	position INTEGER NOT NULL,
	PRIMARY KEY (service, position)
);

CREATE TABLE IF NOT EXISTS variable_configs (
	company_id TEXT PRIMARY KEY,
	config     TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_synonyms_service ON synonyms(service);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Services(ctx context.Context) ([]model.ServiceConfig, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, sheet_row, unit, category, is_special FROM services ORDER BY sheet_row`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query services")
	}
	defer rows.Close()

	var services []model.ServiceConfig
	for rows.Next() {
		var sc model.ServiceConfig
		if err := rows.Scan(&sc.Name, &sc.Row, &sc.Unit, &sc.Category, &sc.IsSpecial); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan service")
		}
		services = append(services, sc)
	}
	return services, eris.Wrap(rows.Err(), "sqlite: iterate services")
}

func (s *SQLiteStore) ServiceByName(ctx context.Context, name string) (*model.ServiceConfig, error) {
	var sc model.ServiceConfig
	err := s.db.QueryRowContext(ctx,
		`SELECT name, sheet_row, unit, category, is_special FROM services WHERE name = ?`,
		name,
	).Scan(&sc.Name, &sc.Row, &sc.Unit, &sc.Category, &sc.IsSpecial)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get service %q", name)
	}
	return &sc, nil
}

func (s *SQLiteStore) Synonyms(ctx context.Context) ([]model.SynonymEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sy.service, sy.phrase
		FROM synonyms sy
		JOIN services sv ON sv.name = sy.service
		ORDER BY sv.sheet_row, sy.position`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query synonyms")
	}
	defer rows.Close()

	return collectSynonyms(rows)
}

func (s *SQLiteStore) VariableConfig(ctx context.Context, companyID string) (*model.VariableConfig, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT config FROM variable_configs WHERE company_id = ?`, companyID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get variable config %q", companyID)
	}

	var cfg model.VariableConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal variable config %q", companyID)
	}
	return &cfg, nil
}

func (s *SQLiteStore) ReplaceCatalog(ctx context.Context, services []model.ServiceConfig, synonyms []model.SynonymEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace catalog")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM synonyms`); err != nil {
		return eris.Wrap(err, "sqlite: clear synonyms")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM services`); err != nil {
		return eris.Wrap(err, "sqlite: clear services")
	}

	for _, sc := range services {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO services (name, sheet_row, unit, category, is_special) VALUES (?, ?, ?, ?, ?)`,
			sc.Name, sc.Row, string(sc.Unit), sc.Category, sc.IsSpecial,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert service %q", sc.Name)
		}
	}
	for _, entry := range synonyms {
		for i, phrase := range entry.Phrases {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO synonyms (service, phrase, position) VALUES (?, ?, ?)`,
				entry.Service, phrase, i,
			); err != nil {
				return eris.Wrapf(err, "sqlite: insert synonym %q", phrase)
			}
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit replace catalog")
}

func (s *SQLiteStore) SaveVariableConfig(ctx context.Context, companyID string, cfg model.VariableConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal variable config")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO variable_configs (company_id, config, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (company_id) DO UPDATE SET config = excluded.config, updated_at = excluded.updated_at`,
		companyID, string(raw), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save variable config %q", companyID)
}

// rowScanner covers both database/sql and pgx row iteration.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// collectSynonyms groups (service, phrase) rows, already ordered, into
// entries preserving phrase order.
func collectSynonyms(rows rowScanner) ([]model.SynonymEntry, error) {
	var entries []model.SynonymEntry
	index := make(map[string]int)

	for rows.Next() {
		var service, phrase string
		if err := rows.Scan(&service, &phrase); err != nil {
			return nil, eris.Wrap(err, "store: scan synonym")
		}
		i, ok := index[service]
		if !ok {
			i = len(entries)
			index[service] = i
			entries = append(entries, model.SynonymEntry{Service: service})
		}
		entries[i].Phrases = append(entries[i].Phrases, phrase)
	}
	return entries, eris.Wrap(rows.Err(), "store: iterate synonyms")
}
