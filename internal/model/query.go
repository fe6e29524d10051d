package model

// ResolvedQuery carries the outcome of niche and city resolution into the
// provider request. Transient, consumed immediately downstream.
type ResolvedQuery struct {
	NicheInput string    `json:"niche_input"`
	Niche      string    `json:"niche"`
	CityInput  string    `json:"city_input"`
	City       *Location `json:"city,omitempty"`
	Confidence float64   `json:"confidence"`
}
