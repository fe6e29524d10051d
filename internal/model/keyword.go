package model

// CompetitionLevel is the coarse ordinal summarizing how many advertisers bid
// on a keyword.
type CompetitionLevel string

const (
	CompetitionLow    CompetitionLevel = "low"
	CompetitionMedium CompetitionLevel = "medium"
	CompetitionHigh   CompetitionLevel = "high"
)

// Competition index cutoffs on the provider's 0-100 scale.
const (
	competitionHighIndex   = 67
	competitionMediumIndex = 33
)

// CompetitionFromIndex maps the provider's 0-100 competition index to a level.
func CompetitionFromIndex(index int) CompetitionLevel {
	switch {
	case index >= competitionHighIndex:
		return CompetitionHigh
	case index >= competitionMediumIndex:
		return CompetitionMedium
	default:
		return CompetitionLow
	}
}

// CompetitionFromTag maps the provider's categorical HIGH/MEDIUM/LOW tag to a
// level. Unknown tags fall back to low.
func CompetitionFromTag(tag string) CompetitionLevel {
	switch tag {
	case "HIGH":
		return CompetitionHigh
	case "MEDIUM":
		return CompetitionMedium
	default:
		return CompetitionLow
	}
}

// KeywordMetric is one normalized keyword row from the provider. Built fresh
// per search, never persisted. CPC is already converted to BRL.
type KeywordMetric struct {
	Keyword      string           `json:"keyword"`
	SearchVolume int              `json:"search_volume"`
	CPC          float64          `json:"cpc"`
	Competition  CompetitionLevel `json:"competition"`
}

// MonthlyVolume is a single point of the primary keyword's monthly search
// volume series.
type MonthlyVolume struct {
	Year         int `json:"year"`
	Month        int `json:"month"`
	SearchVolume int `json:"search_volume"`
}
