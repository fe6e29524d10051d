package dataforseo

// SearchVolumeRequest is the task payload for the precise search-volume
// endpoint: exact monthly volumes for each listed keyword phrase.
type SearchVolumeRequest struct {
	LocationCode int      `json:"location_code"`
	LanguageCode string   `json:"language_code"`
	Keywords     []string `json:"keywords"`
	SortBy       string   `json:"sort_by,omitempty"`
}

// KeywordsForKeywordsRequest is the task payload for the keyword-expansion
// endpoint: related phrases ranked around the seed keywords.
type KeywordsForKeywordsRequest struct {
	LocationCode       int      `json:"location_code"`
	LanguageCode       string   `json:"language_code"`
	Keywords           []string `json:"keywords"`
	IncludeSeedKeyword bool     `json:"include_seed_keyword"`
	Limit              int      `json:"limit,omitempty"`
	SortBy             string   `json:"sort_by,omitempty"`
}

// KeywordRow is one keyword result row. The provider omits fields freely, so
// every numeric field is optional; callers must check presence explicitly.
type KeywordRow struct {
	Keyword          string          `json:"keyword"`
	SearchVolume     *int            `json:"search_volume"`
	CPC              *float64        `json:"cpc"`
	Competition      *string         `json:"competition"`
	CompetitionIndex *int            `json:"competition_index"`
	HighTopOfPageBid *float64        `json:"high_top_of_page_bid"`
	LowTopOfPageBid  *float64        `json:"low_top_of_page_bid"`
	MonthlySearches  []MonthlySearch `json:"monthly_searches"`
}

// MonthlySearch is one point of a keyword's monthly volume series.
type MonthlySearch struct {
	Year         int `json:"year"`
	Month        int `json:"month"`
	SearchVolume int `json:"search_volume"`
}

// LocationRow is one entry of the provider's location taxonomy.
type LocationRow struct {
	LocationCode   int    `json:"location_code"`
	LocationName   string `json:"location_name"`
	LocationType   string `json:"location_type"`
	CountryISOCode string `json:"country_iso_code"`
}
