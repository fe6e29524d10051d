// Package niche corrects free-text business-segment input to the closest
// entry of the product's canonical niche catalog.
package niche

import "github.com/interleads/radar-cli/internal/match"

// acceptThreshold is the minimum similarity for auto-correcting input to a
// canonical niche. Below it the user's original text is kept as-is.
const acceptThreshold = 0.25

// Canonical returns the fixed catalog of business categories the product
// recognizes. The slice is a fresh copy; callers may reorder it.
func Canonical() []string {
	return []string{
		"farmacia",
		"farmácia de manipulação",
		"salão de beleza",
		"oficina mecânica",
		"dentista",
		"clínica de estética",
		"pizzaria",
		"advogado",
		"energia solar",
		"pet shop",
		"restaurante",
		"imobiliária",
		"academia",
		"contabilidade",
	}
}

// Resolver matches free-text niche input against a canonical catalog.
type Resolver struct {
	catalog []string
}

// NewResolver creates a Resolver over the given catalog. Pass Canonical()
// for the product's fixed list.
func NewResolver(catalog []string) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve returns the catalog entry most similar to input, or input unchanged
// when no entry scores at least the acceptance threshold. The first catalog
// entry reaching the maximum score wins ties. Never fails.
func (r *Resolver) Resolve(input string) (string, float64) {
	best := input
	bestScore := 0.0
	for _, candidate := range r.catalog {
		if score := match.Similarity(input, candidate); score > bestScore {
			bestScore = score
			best = candidate
		}
	}
	if bestScore < acceptThreshold {
		return input, bestScore
	}
	return best, bestScore
}
