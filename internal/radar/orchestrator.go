// Package radar runs the search pipeline: niche and city resolution, the
// keyword-data provider query, row normalization, and opportunity grading.
package radar

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/interleads/radar-cli/internal/config"
	"github.com/interleads/radar-cli/internal/location"
	"github.com/interleads/radar-cli/internal/match"
	"github.com/interleads/radar-cli/internal/model"
	"github.com/interleads/radar-cli/internal/niche"
	"github.com/interleads/radar-cli/pkg/dataforseo"
)

// CatalogReader is the read side of the city catalog store.
type CatalogReader interface {
	ListLocations(ctx context.Context) ([]model.Location, error)
}

// SearchLogger records executed searches for funnel analytics. Logging is
// best-effort; failures never fail the search itself.
type SearchLogger interface {
	LogSearch(ctx context.Context, rec model.SearchRecord) error
}

// Orchestrator sequences one search: resolve, query the provider, normalize,
// grade. Stateless across calls; safe for concurrent use.
type Orchestrator struct {
	niches   *niche.Resolver
	catalog  CatalogReader
	provider dataforseo.Client
	searches SearchLogger
	cfg      config.RadarConfig
}

// New creates an Orchestrator. searches may be nil to disable the search log.
func New(niches *niche.Resolver, catalog CatalogReader, provider dataforseo.Client, searches SearchLogger, cfg config.RadarConfig) *Orchestrator {
	if cfg.DisplayLimit <= 0 {
		cfg.DisplayLimit = 20
	}
	if cfg.USDBRLRate <= 0 {
		cfg.USDBRLRate = 5.0
	}
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "pt"
	}
	return &Orchestrator{
		niches:   niches,
		catalog:  catalog,
		provider: provider,
		searches: searches,
		cfg:      cfg,
	}
}

// Execute runs the full pipeline for one niche and city input. Failures are
// typed: *CityNotFoundError, *CatalogUnavailableError, *ProviderError or
// *InsufficientDataError.
func (o *Orchestrator) Execute(ctx context.Context, nicheInput, cityInput string) (*model.OpportunityReport, error) {
	log := zap.L().With(zap.String("component", "radar"))

	resolved, err := o.resolve(ctx, nicheInput, cityInput)
	if err != nil {
		return nil, err
	}
	log.Info("query resolved",
		zap.String("niche_input", resolved.NicheInput),
		zap.String("niche", resolved.Niche),
		zap.String("city_input", resolved.CityInput),
		zap.String("city", resolved.City.Name),
		zap.Float64("confidence", resolved.Confidence),
	)

	volumeRows, expansionRows, err := o.fetchKeywordData(ctx, resolved)
	if err != nil {
		return nil, err
	}
	if len(volumeRows) == 0 && len(expansionRows) == 0 {
		return nil, &InsufficientDataError{Niche: resolved.Niche, City: resolved.City.Name}
	}

	primaryVolume, monthly := o.primarySeries(resolved.Niche, volumeRows)
	keywords := o.normalizeRows(expansionRows)

	agg := Aggregate(keywords, primaryVolume, monthly)
	report := &model.OpportunityReport{
		Niche:                resolved.Niche,
		City:                 *resolved.City,
		PrimaryKeywordVolume: primaryVolume,
		TotalVolume:          agg.TotalVolume,
		KeywordCount:         agg.KeywordCount,
		AnnualVolume:         agg.AnnualVolume,
		Grade:                GradeVolume(primaryVolume),
		Keywords:             capKeywords(keywords, o.cfg.DisplayLimit),
	}

	o.logSearch(ctx, resolved, report)
	log.Info("search complete",
		zap.String("niche", report.Niche),
		zap.String("city", report.City.Name),
		zap.String("grade", string(report.Grade)),
		zap.Int("primary_volume", report.PrimaryKeywordVolume),
		zap.Int("keyword_count", report.KeywordCount),
	)
	return report, nil
}

// resolve corrects the niche and matches the city against the catalog.
func (o *Orchestrator) resolve(ctx context.Context, nicheInput, cityInput string) (*model.ResolvedQuery, error) {
	resolvedNiche, _ := o.niches.Resolve(strings.TrimSpace(nicheInput))

	catalog, err := o.catalog.ListLocations(ctx)
	if err != nil {
		return nil, &CatalogUnavailableError{Err: err}
	}

	res, err := location.Resolve(strings.TrimSpace(cityInput), catalog)
	if err != nil {
		if errors.Is(err, location.ErrEmptyCatalog) {
			return nil, &CatalogUnavailableError{Err: err}
		}
		return nil, eris.Wrap(err, "radar: resolve city")
	}
	if res.Match == nil {
		return nil, &CityNotFoundError{City: strings.TrimSpace(cityInput), Suggestions: res.Suggestions}
	}

	return &model.ResolvedQuery{
		NicheInput: nicheInput,
		Niche:      resolvedNiche,
		CityInput:  cityInput,
		City:       res.Match,
		Confidence: res.Score,
	}, nil
}

// fetchKeywordData issues the combined provider request: the precise volume
// series for the seed phrases and the related-keyword expansion, in parallel.
func (o *Orchestrator) fetchKeywordData(ctx context.Context, q *model.ResolvedQuery) (volumeRows, expansionRows []dataforseo.KeywordRow, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := o.provider.SearchVolume(gctx, dataforseo.SearchVolumeRequest{
			LocationCode: q.City.LocationCode,
			LanguageCode: o.cfg.LanguageCode,
			Keywords:     seedVariants(q.Niche),
			SortBy:       "search_volume",
		})
		if err != nil {
			return err
		}
		volumeRows = rows
		return nil
	})

	g.Go(func() error {
		rows, err := o.provider.KeywordsForKeywords(gctx, dataforseo.KeywordsForKeywordsRequest{
			LocationCode:       q.City.LocationCode,
			LanguageCode:       o.cfg.LanguageCode,
			Keywords:           []string{q.Niche},
			IncludeSeedKeyword: true,
			Limit:              o.cfg.ExpansionLimit,
			SortBy:             "search_volume",
		})
		if err != nil {
			return err
		}
		expansionRows = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		var apiErr *dataforseo.APIError
		if errors.As(err, &apiErr) {
			return nil, nil, &ProviderError{Status: apiErr.StatusCode, Err: err}
		}
		return nil, nil, &ProviderError{Err: err}
	}
	return volumeRows, expansionRows, nil
}

// seedVariants returns the phrases sent to the precise-volume lookup: the
// niche itself plus its price and "best" variants.
func seedVariants(niche string) []string {
	return []string{niche, "preço " + niche, "melhor " + niche}
}

// primarySeries picks the exact niche phrase's row out of the volume lookup.
// A missing row or volume is a legitimate low-traffic result, not a failure.
func (o *Orchestrator) primarySeries(niche string, rows []dataforseo.KeywordRow) (int, []model.MonthlyVolume) {
	normalized := match.Normalize(niche)
	for _, row := range rows {
		if match.Normalize(row.Keyword) != normalized {
			continue
		}
		volume := 0
		if row.SearchVolume != nil {
			volume = *row.SearchVolume
		}
		monthly := make([]model.MonthlyVolume, 0, len(row.MonthlySearches))
		for _, m := range row.MonthlySearches {
			monthly = append(monthly, model.MonthlyVolume{Year: m.Year, Month: m.Month, SearchVolume: m.SearchVolume})
		}
		return volume, monthly
	}
	return 0, nil
}

// normalizeRows converts provider rows into domain metrics: competition
// mapping, currency conversion, zero-volume filtering, and the stable
// descending sort by volume.
func (o *Orchestrator) normalizeRows(rows []dataforseo.KeywordRow) []model.KeywordMetric {
	keywords := make([]model.KeywordMetric, 0, len(rows))
	for _, row := range rows {
		if row.SearchVolume == nil || *row.SearchVolume <= 0 {
			continue
		}
		keywords = append(keywords, model.KeywordMetric{
			Keyword:      row.Keyword,
			SearchVolume: *row.SearchVolume,
			CPC:          o.toBRL(rowBid(row)),
			Competition:  rowCompetition(row),
		})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].SearchVolume > keywords[j].SearchVolume
	})
	return keywords
}

// rowBid picks the best available bid signal: CPC, then the top-of-page bids.
func rowBid(row dataforseo.KeywordRow) float64 {
	switch {
	case row.CPC != nil:
		return *row.CPC
	case row.HighTopOfPageBid != nil:
		return *row.HighTopOfPageBid
	case row.LowTopOfPageBid != nil:
		return *row.LowTopOfPageBid
	default:
		return 0
	}
}

// rowCompetition maps the provider's competition signal; the numeric index
// takes precedence over the categorical tag.
func rowCompetition(row dataforseo.KeywordRow) model.CompetitionLevel {
	if row.CompetitionIndex != nil {
		return model.CompetitionFromIndex(*row.CompetitionIndex)
	}
	if row.Competition != nil {
		return model.CompetitionFromTag(*row.Competition)
	}
	return model.CompetitionLow
}

// toBRL converts a USD amount to display currency, rounded to cents.
func (o *Orchestrator) toBRL(usd float64) float64 {
	return math.Round(usd*o.cfg.USDBRLRate*100) / 100
}

func capKeywords(keywords []model.KeywordMetric, limit int) []model.KeywordMetric {
	if len(keywords) <= limit {
		return keywords
	}
	return keywords[:limit]
}

// logSearch records the search for funnel analytics, best-effort.
func (o *Orchestrator) logSearch(ctx context.Context, q *model.ResolvedQuery, report *model.OpportunityReport) {
	if o.searches == nil {
		return
	}
	rec := model.SearchRecord{
		ID:            uuid.NewString(),
		NicheInput:    q.NicheInput,
		CityInput:     q.CityInput,
		Niche:         q.Niche,
		CityName:      q.City.Name,
		Grade:         report.Grade,
		PrimaryVolume: report.PrimaryKeywordVolume,
		CreatedAt:     time.Now().UTC(),
	}
	if err := o.searches.LogSearch(ctx, rec); err != nil {
		zap.L().Warn("search log write failed",
			zap.String("search_id", rec.ID),
			zap.Error(err),
		)
	}
}

// Describe formats the one-line summary used by the CLI output.
func Describe(report *model.OpportunityReport) string {
	return fmt.Sprintf("%s em %s: nota %s, %d buscas/mês no termo principal",
		report.Niche, report.City.Name, report.Grade, report.PrimaryKeywordVolume)
}
