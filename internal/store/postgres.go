package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/interleads/radar-cli/internal/db"
	"github.com/interleads/radar-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// preparedStatements lists queries to prepare on each new connection. The
// location listing runs on every search, so it is the one that matters.
var preparedStatements = map[string]string{
	"list_locations":  `SELECT name, location_code FROM locations ORDER BY name`,
	"upsert_location": `INSERT INTO locations (id, name, location_code, updated_at) VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO UPDATE SET location_code = EXCLUDED.location_code, updated_at = EXCLUDED.updated_at`,
	"insert_search":   `INSERT INTO searches (id, niche_input, city_input, niche, city_name, grade, primary_volume, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
	"list_searches":   `SELECT id, niche_input, city_input, niche, city_name, grade, primary_volume, created_at FROM searches ORDER BY created_at DESC LIMIT $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS locations (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name          TEXT NOT NULL UNIQUE,
	location_code INTEGER NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS searches (
	id             TEXT PRIMARY KEY,
	niche_input    TEXT NOT NULL,
	city_input     TEXT NOT NULL,
	niche          TEXT NOT NULL,
	city_name      TEXT NOT NULL,
	grade          TEXT NOT NULL,
	primary_volume INTEGER NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_locations_name ON locations(name);
CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) ListLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, location_code FROM locations ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list locations")
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(&loc.Name, &loc.LocationCode); err != nil {
			return nil, eris.Wrap(err, "postgres: scan location")
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate locations")
	}
	return locations, nil
}

func (s *PostgresStore) UpsertLocation(ctx context.Context, loc model.Location) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO locations (id, name, location_code, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO UPDATE SET location_code = EXCLUDED.location_code, updated_at = EXCLUDED.updated_at`,
		uuid.New().String(), loc.Name, loc.LocationCode, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: upsert location %s", loc.Name)
}

func (s *PostgresStore) LogSearch(ctx context.Context, rec model.SearchRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO searches (id, niche_input, city_input, niche, city_name, grade, primary_volume, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.NicheInput, rec.CityInput, rec.Niche, rec.CityName, string(rec.Grade), rec.PrimaryVolume, rec.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert search")
}

func (s *PostgresStore) ListSearches(ctx context.Context, limit int) ([]model.SearchRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, niche_input, city_input, niche, city_name, grade, primary_volume, created_at FROM searches ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: list searches")
	}
	defer rows.Close()

	var records []model.SearchRecord
	for rows.Next() {
		var rec model.SearchRecord
		var grade string
		if err := rows.Scan(&rec.ID, &rec.NicheInput, &rec.CityInput, &rec.Niche, &rec.CityName, &grade, &rec.PrimaryVolume, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan search")
		}
		rec.Grade = model.Grade(grade)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate searches")
	}
	return records, nil
}
