package model

// Grade classifies the market opportunity of the primary keyword's search
// volume, A (strongest) through D.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// OpportunityReport is the final result handed to the presentation boundary.
// Keywords is capped for display; the aggregate fields are computed over the
// full provider result set before the cap.
type OpportunityReport struct {
	Niche                string          `json:"niche"`
	City                 Location        `json:"city"`
	PrimaryKeywordVolume int             `json:"primary_keyword_volume"`
	TotalVolume          int             `json:"total_volume"`
	KeywordCount         int             `json:"keyword_count"`
	AnnualVolume         int             `json:"annual_volume"`
	Grade                Grade           `json:"grade"`
	Keywords             []KeywordMetric `json:"keywords"`
}
