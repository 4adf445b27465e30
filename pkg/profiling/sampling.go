package profiling

import (
	"fmt"
	"math"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/dialect"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

const (
	defaultSamplePercent  = 30.0
	defaultSampleMinCount = 15000
)

// samplingPlan is the per-table sampling decision. SampleSize -1 means the
// table is too small to sample and is profiled in full.
type samplingPlan struct {
	Sampled    bool
	SampleSize int64
	Percent    float64
	// Ratio is the expected fraction of rows profiled; count metrics are
	// divided by it after ingestion.
	Ratio float64
	// Suffix is a native TABLESAMPLE/SAMPLE clause appended to the table
	// reference. Condition is the WHERE fallback for flavors without one.
	Suffix    string
	Condition string
}

// planSampling decides whether and how one table gets sampled. probeColumn
// feeds the deterministic hash fallback on flavors without native sampling.
func planSampling(d dialect.Dialect, tg *models.TableGroup, rowCt int64, probeColumn string) samplingPlan {
	if !tg.UseSampling {
		return samplingPlan{SampleSize: -1}
	}

	minCount := tg.SampleMinCount
	if minCount <= 0 {
		minCount = defaultSampleMinCount
	}
	if rowCt < minCount {
		return samplingPlan{SampleSize: -1}
	}

	pct := tg.SamplePercent
	if pct <= 0 || pct >= 100 {
		pct = defaultSamplePercent
	}

	plan := samplingPlan{
		Sampled:    true,
		SampleSize: int64(math.Round(float64(rowCt) * pct / 100.0)),
		Percent:    pct,
		Ratio:      pct / 100.0,
	}

	if suffix := d.SampleExpression(pct); suffix != "" {
		plan.Suffix = " " + suffix
		return plan
	}

	// No native sampling on this flavor. Hash the probe column so the
	// filter is deterministic per row and the realised fraction tracks
	// the requested percent.
	plan.Condition = fmt.Sprintf(
		"MOD(STRTOL(SUBSTRING(MD5(CAST(%s AS VARCHAR)), 1, 8), 16), 100) < %d",
		probeColumn, int(math.Round(pct)))
	return plan
}
