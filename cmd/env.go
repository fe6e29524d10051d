package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/interleads/radar-cli/internal/niche"
	"github.com/interleads/radar-cli/internal/radar"
	"github.com/interleads/radar-cli/internal/store"
	"github.com/interleads/radar-cli/pkg/dataforseo"
)

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

func initProvider() (dataforseo.Client, error) {
	if cfg.DataForSEO.Login == "" || cfg.DataForSEO.Password == "" {
		return nil, eris.New("dataforseo credentials are required (RADAR_DATAFORSEO_LOGIN, RADAR_DATAFORSEO_PASSWORD)")
	}
	return dataforseo.NewClient(cfg.DataForSEO.Login, cfg.DataForSEO.Password,
		dataforseo.WithBaseURL(cfg.DataForSEO.BaseURL),
		dataforseo.WithRateLimit(cfg.DataForSEO.RateLimit, 1),
	), nil
}

func initOrchestrator(st store.Store) (*radar.Orchestrator, error) {
	provider, err := initProvider()
	if err != nil {
		return nil, err
	}
	niches := niche.NewResolver(niche.Canonical())
	return radar.New(niches, st, provider, st, cfg.Radar), nil
}
