package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interleads/radar-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_ListLocations(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT name, location_code FROM locations`).
		WillReturnRows(pgxmock.NewRows([]string{"name", "location_code"}).
			AddRow("Natal", 1001662).
			AddRow("Recife", 1001643))

	locations, err := s.ListLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, model.Location{Name: "Natal", LocationCode: 1001662}, locations[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListLocations_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT name, location_code FROM locations`).
		WillReturnRows(pgxmock.NewRows([]string{"name", "location_code"}))

	locations, err := s.ListLocations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, locations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListLocations_QueryError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT name, location_code FROM locations`).
		WillReturnError(assert.AnError)

	_, err := s.ListLocations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list locations")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertLocation(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO locations`).
		WithArgs(pgxmock.AnyArg(), "Natal", 1001662, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.UpsertLocation(context.Background(), model.Location{Name: "Natal", LocationCode: 1001662})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LogSearch(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rec := model.SearchRecord{
		ID:            "search-1",
		NicheInput:    "farmásia",
		CityInput:     "natal",
		Niche:         "farmacia",
		CityName:      "Natal",
		Grade:         model.GradeA,
		PrimaryVolume: 12100,
		CreatedAt:     time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO searches`).
		WithArgs(rec.ID, rec.NicheInput, rec.CityInput, rec.Niche, rec.CityName, "A", rec.PrimaryVolume, rec.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.LogSearch(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListSearches(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, niche_input, city_input, niche, city_name, grade, primary_volume, created_at FROM searches`).
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "niche_input", "city_input", "niche", "city_name", "grade", "primary_volume", "created_at"}).
			AddRow("search-1", "pizzaria", "recife", "pizzaria", "Recife", "B", 4400, now))

	records, err := s.ListSearches(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.GradeB, records[0].Grade)
	assert.Equal(t, 4400, records[0].PrimaryVolume)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListSearches_DefaultLimit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, niche_input, city_input, niche, city_name, grade, primary_volume, created_at FROM searches`).
		WithArgs(50).
		WillReturnRows(pgxmock.NewRows([]string{"id", "niche_input", "city_input", "niche", "city_name", "grade", "primary_volume", "created_at"}))

	records, err := s.ListSearches(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}
