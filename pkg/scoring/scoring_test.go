package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

func float64p(v float64) *float64 { return &v }

func TestGoodDataPct(t *testing.T) {
	assert.Equal(t, 1.0, GoodDataPct(nil), "no anomalies means a perfect column")
	assert.InDelta(t, 0.85, GoodDataPct([]float64{0.1, 0.05}), 1e-9)
	assert.Equal(t, 0.0, GoodDataPct([]float64{0.7, 0.6}), "summed prevalence caps at 1")
	assert.Equal(t, 1.0, GoodDataPct([]float64{-0.5}), "negative sums clamp to 0")
}

func TestActivePrevalences_DispositionFilter(t *testing.T) {
	results := []*models.ProfileAnomalyResult{
		{Disposition: models.DispositionNone, DQPrevalence: float64p(0.1)},
		{Disposition: models.DispositionConfirmed, DQPrevalence: float64p(0.2)},
		{Disposition: models.DispositionDismissed, DQPrevalence: float64p(0.9)},
		{Disposition: models.DispositionInactive, DQPrevalence: float64p(0.9)},
		{Disposition: models.DispositionNone, DQPrevalence: nil},
	}

	assert.Equal(t, []float64{0.1, 0.2}, ActivePrevalences(results))
}

func TestRunScore_RecordWeighted(t *testing.T) {
	cols := []ColumnScore{
		{RecordCt: 900, GoodDataPct: 1.0},
		{RecordCt: 100, GoodDataPct: 0.5},
	}
	assert.InDelta(t, 0.95, RunScore(cols), 1e-9)
}

func TestRunScore_NoRecords(t *testing.T) {
	assert.Equal(t, 0.0, RunScore(nil))
	assert.Equal(t, 0.0, RunScore([]ColumnScore{{RecordCt: 0, GoodDataPct: 1.0}}))
}

func TestRunScore_DismissedAnomalyRestoresScore(t *testing.T) {
	// A column whose only anomaly gets dismissed scores as clean.
	detections := []*models.ProfileAnomalyResult{
		{Disposition: models.DispositionDismissed, DQPrevalence: float64p(0.4)},
	}
	pct := GoodDataPct(ActivePrevalences(detections))
	assert.Equal(t, 1.0, pct)
}

func TestCombinedScore(t *testing.T) {
	assert.InDelta(t, 0.72, CombinedScore(float64p(0.9), float64p(0.8)), 1e-9)
	assert.Equal(t, 0.9, CombinedScore(float64p(0.9), nil))
	assert.Equal(t, 0.8, CombinedScore(nil, float64p(0.8)))
	assert.Equal(t, 0.0, CombinedScore(nil, nil))
}
