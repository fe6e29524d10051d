// Package location resolves free-text city input against the dynamic city
// catalog. City names are the hard constraint for provider lookups (a wrong
// auto-accept silently returns data for the wrong city), so acceptance is
// conservative while suggestion inclusion is permissive.
package location

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/interleads/radar-cli/internal/match"
	"github.com/interleads/radar-cli/internal/model"
)

const (
	// acceptThreshold is the minimum score for auto-accepting the best match.
	acceptThreshold = 0.6
	// suggestThreshold is the minimum score for the suggestions pool.
	suggestThreshold = 0.3
	// maxSuggestions caps the suggestion list surfaced to the user.
	maxSuggestions = 5
)

// ErrEmptyCatalog signals that resolution ran against an empty city catalog.
// Callers must surface this as an infrastructure failure, not as "no match".
var ErrEmptyCatalog = eris.New("location: empty city catalog")

// Result is the outcome of resolving one city input. Match is nil when no
// record scored at least the acceptance threshold; Suggestions then carries
// up to five candidate names for the user, best first.
type Result struct {
	Match       *model.Location
	Score       float64
	Suggestions []string
}

// Resolve scores input against every catalog record and returns the best
// match plus ranked suggestions. Returns ErrEmptyCatalog when catalog has no
// records.
func Resolve(input string, catalog []model.Location) (*Result, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}

	type scored struct {
		name  string
		score float64
	}

	var best *model.Location
	bestScore := 0.0
	var pool []scored

	for i, rec := range catalog {
		score := match.Similarity(input, rec.Name)
		if score > bestScore {
			bestScore = score
			best = &catalog[i]
		}
		if score > suggestThreshold {
			pool = append(pool, scored{name: rec.Name, score: score})
		}
	}

	sort.SliceStable(pool, func(i, j int) bool { return pool[i].score > pool[j].score })
	suggestions := make([]string, 0, maxSuggestions)
	for _, s := range pool {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, s.name)
	}

	res := &Result{Score: bestScore, Suggestions: suggestions}
	if bestScore >= acceptThreshold {
		res.Match = best
	}
	return res, nil
}
