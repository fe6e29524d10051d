// Package queryparse splits a single free-text search ("farmácia em Natal")
// into niche and city before the authoritative resolution step. It is a
// best-effort UX convenience for the single-box search variant; forms with
// separate niche and city fields bypass it entirely.
package queryparse

import (
	"sort"
	"strings"

	"github.com/interleads/radar-cli/internal/match"
)

// separators are the phrases users put between segment and city, tried in
// order against the lowercased query.
var separators = []string{" em ", " - ", ", ", " na cidade de ", " na ", " no "}

// Result is the outcome of parsing one query. On failure Error holds a
// user-facing Portuguese message and Suggestion an optional usage hint.
type Result struct {
	Success    bool   `json:"success"`
	Niche      string `json:"niche,omitempty"`
	City       string `json:"city,omitempty"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Parser splits free-text queries against a static city gazetteer.
type Parser struct {
	cities []string
	// byLength caches the gazetteer sorted longest-first for suffix matching,
	// so "São Paulo" is tried before "Paulo".
	byLength []string
}

// NewParser creates a Parser over the given city names. Pass Gazetteer() for
// the built-in list.
func NewParser(cities []string) *Parser {
	byLength := make([]string, len(cities))
	copy(byLength, cities)
	sort.SliceStable(byLength, func(i, j int) bool {
		return len([]rune(byLength[i])) > len([]rune(byLength[j]))
	})
	return &Parser{cities: cities, byLength: byLength}
}

// Parse splits query into niche and city. It first looks for an explicit
// separator, then for a known city name as a suffix of the query. The
// returned city is the gazetteer's canonical spelling.
func (p *Parser) Parse(query string) Result {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return Result{Error: "Por favor, digite seu segmento e cidade"}
	}

	lower := strings.ToLower(trimmed)
	for _, sep := range separators {
		idx := strings.Index(lower, sep)
		if idx <= 0 {
			continue
		}
		nichePart := strings.TrimSpace(trimmed[:idx])
		cityPart := strings.TrimSpace(trimmed[idx+len(sep):])
		if nichePart == "" || cityPart == "" {
			continue
		}
		if city, ok := p.lookupCity(cityPart); ok {
			return Result{Success: true, Niche: nichePart, City: city}
		}
		// Right format, unknown city. Stop here so the user sees which part
		// was not understood.
		return Result{
			Error:      `Cidade "` + cityPart + `" não encontrada`,
			Suggestion: "Tente: " + nichePart + " em Recife, São Paulo, Salvador...",
		}
	}

	if niche, city, ok := p.citySuffix(trimmed); ok {
		return Result{Success: true, Niche: niche, City: city}
	}

	return Result{
		Error:      "Não consegui identificar a cidade",
		Suggestion: "Tente: farmácia em Recife, salão de beleza São Paulo...",
	}
}

// lookupCity returns the canonical spelling for cityInput when it matches a
// gazetteer entry exactly, ignoring case and accents.
func (p *Parser) lookupCity(cityInput string) (string, bool) {
	normalized := match.Normalize(cityInput)
	for _, city := range p.cities {
		if match.Normalize(city) == normalized {
			return city, true
		}
	}
	return "", false
}

// citySuffix tries every gazetteer city, longest name first, as a literal
// suffix of the normalized query. The remainder, with trailing separators
// stripped, becomes the niche.
func (p *Parser) citySuffix(query string) (niche, city string, ok bool) {
	normalizedQuery := match.Normalize(query)
	for _, candidate := range p.byLength {
		if !strings.HasSuffix(normalizedQuery, match.Normalize(candidate)) {
			continue
		}
		queryRunes := []rune(query)
		cityRunes := []rune(candidate)
		if len(queryRunes) <= len(cityRunes) {
			continue
		}
		remainder := string(queryRunes[:len(queryRunes)-len(cityRunes)])
		remainder = strings.TrimRight(remainder, " ,-")
		if remainder == "" {
			continue
		}
		return remainder, candidate, true
	}
	return "", "", false
}
