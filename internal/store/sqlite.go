package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/interleads/radar-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite, for local
// development without a postgres instance.
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
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS locations (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL UNIQUE,
	location_code INTEGER NOT NULL,
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS searches (
	id             TEXT PRIMARY KEY,
	niche_input    TEXT NOT NULL,
	city_input     TEXT NOT NULL,
	niche          TEXT NOT NULL,
	city_name      TEXT NOT NULL,
	grade          TEXT NOT NULL,
	primary_volume INTEGER NOT NULL,
	created_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_locations_name ON locations(name);
CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ListLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, location_code FROM locations ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list locations")
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(&loc.Name, &loc.LocationCode); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan location")
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate locations")
	}
	return locations, nil
}

func (s *SQLiteStore) UpsertLocation(ctx context.Context, loc model.Location) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO locations (id, name, location_code, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET location_code = excluded.location_code, updated_at = excluded.updated_at`,
		uuid.New().String(), loc.Name, loc.LocationCode, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: upsert location %s", loc.Name)
}

func (s *SQLiteStore) LogSearch(ctx context.Context, rec model.SearchRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (id, niche_input, city_input, niche, city_name, grade, primary_volume, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.NicheInput, rec.CityInput, rec.Niche, rec.CityName, string(rec.Grade), rec.PrimaryVolume, rec.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert search")
}

func (s *SQLiteStore) ListSearches(ctx context.Context, limit int) ([]model.SearchRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, niche_input, city_input, niche, city_name, grade, primary_volume, created_at FROM searches ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list searches")
	}
	defer rows.Close()

	var records []model.SearchRecord
	for rows.Next() {
		var rec model.SearchRecord
		var grade string
		if err := rows.Scan(&rec.ID, &rec.NicheInput, &rec.CityInput, &rec.Niche, &rec.CityName, &grade, &rec.PrimaryVolume, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan search")
		}
		rec.Grade = model.Grade(grade)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate searches")
	}
	return records, nil
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		s, err := NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case "postgres", "":
		s, err := NewPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
