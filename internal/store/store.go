// Package store persists the city catalog and the search log.
package store

import (
	"context"

	"github.com/interleads/radar-cli/internal/model"
)

// Store defines the persistence interface for the catalog and search log.
// The search path only reads locations; writes come from the sync job.
type Store interface {
	// Locations
	ListLocations(ctx context.Context) ([]model.Location, error)
	UpsertLocation(ctx context.Context, loc model.Location) error

	// Search log
	LogSearch(ctx context.Context, rec model.SearchRecord) error
	ListSearches(ctx context.Context, limit int) ([]model.SearchRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
