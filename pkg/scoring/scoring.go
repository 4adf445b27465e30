// Package scoring implements the data-quality score model. The SQL rollups
// in pkg/templates persist these same formulas; this package is the pure
// form used for combined scores and for reasoning about the model in tests.
package scoring

import (
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

// GoodDataPct derives a column's good-data fraction from its anomaly
// prevalences: 1 minus the summed prevalence, capped into [0,1].
func GoodDataPct(prevalences []float64) float64 {
	var sum float64
	for _, p := range prevalences {
		sum += p
	}
	if sum > 1 {
		sum = 1
	}
	if sum < 0 {
		sum = 0
	}
	return 1 - sum
}

// ActivePrevalences filters a column's detections down to the prevalences
// that participate in scoring: dispositions NULL and Confirmed count,
// Dismissed and Inactive do not.
func ActivePrevalences(results []*models.ProfileAnomalyResult) []float64 {
	var out []float64
	for _, r := range results {
		if !r.Disposition.ActiveForScoring() {
			continue
		}
		if r.DQPrevalence == nil {
			continue
		}
		out = append(out, *r.DQPrevalence)
	}
	return out
}

// ColumnScore is one column's contribution to a run score.
type ColumnScore struct {
	RecordCt    int64
	GoodDataPct float64
}

// RunScore is the record-weighted mean of per-column good-data fractions.
// Returns 0 when no records were profiled.
func RunScore(cols []ColumnScore) float64 {
	var weighted, records float64
	for _, c := range cols {
		weighted += float64(c.RecordCt) * c.GoodDataPct
		records += float64(c.RecordCt)
	}
	if records == 0 {
		return 0
	}
	return weighted / records
}

// CombinedScore merges the profiling and testing scores for presentation:
// the product when both exist, the existing one otherwise, zero when
// neither exists. Kept behind a named function so the policy can change in
// one place.
func CombinedScore(profiling, testing *float64) float64 {
	switch {
	case profiling != nil && testing != nil:
		return *profiling * *testing
	case profiling != nil:
		return *profiling
	case testing != nil:
		return *testing
	default:
		return 0
	}
}
