package model

import "time"

// SearchRecord is the funnel-analytics log entry written for every executed
// search: what the user typed, what it resolved to, and the headline result.
type SearchRecord struct {
	ID            string    `json:"id"`
	NicheInput    string    `json:"niche_input"`
	CityInput     string    `json:"city_input"`
	Niche         string    `json:"niche"`
	CityName      string    `json:"city_name"`
	Grade         Grade     `json:"grade"`
	PrimaryVolume int       `json:"primary_volume"`
	CreatedAt     time.Time `json:"created_at"`
}
