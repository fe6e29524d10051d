package radar

import (
	"math"
	"sort"

	"github.com/interleads/radar-cli/internal/model"
)

// Grade thresholds on the primary keyword's monthly search volume.
const (
	gradeAMinVolume = 10000
	gradeBMinVolume = 3000
	gradeCMinVolume = 500
)

// GradeVolume classifies the primary keyword volume into the A-D opportunity
// grade. Pure and total.
func GradeVolume(primaryVolume int) model.Grade {
	switch {
	case primaryVolume >= gradeAMinVolume:
		return model.GradeA
	case primaryVolume >= gradeBMinVolume:
		return model.GradeB
	case primaryVolume >= gradeCMinVolume:
		return model.GradeC
	default:
		return model.GradeD
	}
}

// Aggregates are the whole-set statistics of one report, computed over every
// keyword the provider returned, not the truncated display list.
type Aggregates struct {
	TotalVolume  int
	KeywordCount int
	AnnualVolume int
}

// Aggregate computes the report statistics. keywords must already be filtered
// to rows with volume > 0. AnnualVolume sums the trailing 12 points of the
// primary keyword's monthly series; a partial series is extrapolated to a
// full year, and with no series at all the primary volume is annualized flat.
func Aggregate(keywords []model.KeywordMetric, primaryVolume int, monthly []model.MonthlyVolume) Aggregates {
	agg := Aggregates{KeywordCount: len(keywords)}
	for _, k := range keywords {
		agg.TotalVolume += k.SearchVolume
	}
	agg.AnnualVolume = annualVolume(primaryVolume, monthly)
	return agg
}

func annualVolume(primaryVolume int, monthly []model.MonthlyVolume) int {
	if len(monthly) == 0 {
		return primaryVolume * 12
	}

	recent := make([]model.MonthlyVolume, len(monthly))
	copy(recent, monthly)
	sort.SliceStable(recent, func(i, j int) bool {
		if recent[i].Year != recent[j].Year {
			return recent[i].Year > recent[j].Year
		}
		return recent[i].Month > recent[j].Month
	})
	if len(recent) > 12 {
		recent = recent[:12]
	}

	sum := 0
	for _, m := range recent {
		sum += m.SearchVolume
	}
	if len(recent) < 12 {
		// Newly-trending keywords come back with a short series; scale it to
		// a full-year estimate.
		return int(math.Round(float64(sum) * 12 / float64(len(recent))))
	}
	return sum
}
