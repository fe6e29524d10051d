// Package locsync reconciles the city catalog against the keyword provider's
// location taxonomy. It runs out-of-band from the search path, which only
// ever reads the catalog.
package locsync

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/interleads/radar-cli/internal/match"
	"github.com/interleads/radar-cli/internal/model"
	"github.com/interleads/radar-cli/pkg/dataforseo"
)

// capitalCodes maps major Brazilian capitals to their provider location
// codes. Checked before the taxonomy lookup; ambiguous taxonomy names
// made these worth pinning by hand.
var capitalCodes = map[string]int{
	"Maceió":         1001506,
	"Manaus":         1001511,
	"Salvador":       1001533,
	"Fortaleza":      1001556,
	"Brasília":       1001563,
	"Vitória":        1001568,
	"Goiânia":        1001574,
	"São Luís":       1001584,
	"Belo Horizonte": 1001596,
	"Campo Grande":   1001612,
	"Cuiabá":         1001621,
	"Belém":          1001631,
	"João Pessoa":    1001634,
	"Curitiba":       1001640,
	"Recife":         1001643,
	"Teresina":       1001648,
	"Rio de Janeiro": 1001655,
	"Natal":          1001662,
	"Porto Alegre":   1001674,
	"Florianópolis":  1001688,
	"Aracaju":        1001695,
	"Campinas":       1001764,
	"São Paulo":      1001773,
}

// Catalog is the store surface the sync job needs.
type Catalog interface {
	ListLocations(ctx context.Context) ([]model.Location, error)
	UpsertLocation(ctx context.Context, loc model.Location) error
}

// Update records one catalog correction.
type Update struct {
	City    string `json:"city"`
	OldCode int    `json:"old_code"`
	NewCode int    `json:"new_code"`
	Source  string `json:"source"`
}

// Result summarizes one sync run.
type Result struct {
	APICities      int      `json:"api_cities"`
	CatalogCities  int      `json:"catalog_cities"`
	Updates        []Update `json:"updates"`
	AlreadyCorrect int      `json:"already_correct"`
	NotFound       []string `json:"not_found"`
	Seeded         []string `json:"seeded,omitempty"`
}

// Options tunes one sync run.
type Options struct {
	// Country is the provider taxonomy to fetch, e.g. "br".
	Country string
	// SeedCapitals inserts the pinned capitals missing from the catalog
	// instead of only correcting existing records.
	SeedCapitals bool
}

// Syncer reconciles catalog location codes.
type Syncer struct {
	catalog  Catalog
	provider dataforseo.Client
}

// New creates a Syncer.
func New(catalog Catalog, provider dataforseo.Client) *Syncer {
	return &Syncer{catalog: catalog, provider: provider}
}

// Run fetches the provider taxonomy and corrects every catalog record whose
// location code drifted. Pinned capitals win over taxonomy matches.
func (s *Syncer) Run(ctx context.Context, opts Options) (*Result, error) {
	log := zap.L().With(zap.String("component", "locsync"))

	country := opts.Country
	if country == "" {
		country = "br"
	}

	rows, err := s.provider.Locations(ctx, country)
	if err != nil {
		return nil, eris.Wrapf(err, "locsync: fetch %s locations", country)
	}
	apiCities := cityIndex(rows)
	log.Info("provider taxonomy fetched",
		zap.Int("locations", len(rows)),
		zap.Int("cities", len(apiCities)),
	)

	existing, err := s.catalog.ListLocations(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "locsync: list catalog")
	}

	result := &Result{APICities: len(apiCities), CatalogCities: len(existing)}
	inCatalog := make(map[string]bool, len(existing))

	for _, rec := range existing {
		inCatalog[match.Normalize(rec.Name)] = true

		code, source := resolveCode(rec.Name, apiCities)
		if code == 0 {
			log.Warn("no taxonomy match for catalog city", zap.String("city", rec.Name))
			result.NotFound = append(result.NotFound, rec.Name)
			continue
		}
		if code == rec.LocationCode {
			result.AlreadyCorrect++
			continue
		}

		if err := s.catalog.UpsertLocation(ctx, model.Location{Name: rec.Name, LocationCode: code}); err != nil {
			return nil, eris.Wrapf(err, "locsync: update %s", rec.Name)
		}
		log.Info("location code corrected",
			zap.String("city", rec.Name),
			zap.Int("old_code", rec.LocationCode),
			zap.Int("new_code", code),
			zap.String("source", source),
		)
		result.Updates = append(result.Updates, Update{
			City:    rec.Name,
			OldCode: rec.LocationCode,
			NewCode: code,
			Source:  source,
		})
	}

	if opts.SeedCapitals {
		for name, code := range capitalCodes {
			if inCatalog[match.Normalize(name)] {
				continue
			}
			if err := s.catalog.UpsertLocation(ctx, model.Location{Name: name, LocationCode: code}); err != nil {
				return nil, eris.Wrapf(err, "locsync: seed %s", name)
			}
			result.Seeded = append(result.Seeded, name)
		}
		log.Info("capitals seeded", zap.Int("count", len(result.Seeded)))
	}

	return result, nil
}

// resolveCode returns the correct provider code for a catalog city: pinned
// capitals first, then the taxonomy index.
func resolveCode(city string, apiCities map[string]dataforseo.LocationRow) (int, string) {
	if code, ok := capitalCodes[city]; ok {
		return code, "manual_mapping"
	}
	if row, ok := apiCities[match.Normalize(city)]; ok {
		return row.LocationCode, "api_exact_match"
	}
	return 0, ""
}

// cityIndex keys the taxonomy's City rows by normalized bare city name (the
// part before the first comma of the qualified location name). When two rows
// normalize to the same name, the shorter qualified name wins as the more
// specific entry.
func cityIndex(rows []dataforseo.LocationRow) map[string]dataforseo.LocationRow {
	index := make(map[string]dataforseo.LocationRow)
	for _, row := range rows {
		if row.LocationType != "City" {
			continue
		}
		name, _, _ := strings.Cut(row.LocationName, ",")
		key := match.Normalize(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		current, exists := index[key]
		if !exists || len(row.LocationName) < len(current.LocationName) {
			index[key] = row
		}
	}
	return index
}
