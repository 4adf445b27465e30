package contingency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

// buildCounts assembles a counts table from explicit row data: each entry
// is one distinct (a, b) combination with its frequency.
func buildCounts(colA, colB string, rows []struct {
	a, b string
	ct   int64
}) *counts {
	c := &counts{
		Singles: map[string]map[string]int64{colA: {}, colB: {}},
		Pairs:   map[[2]string]map[[2]string]int64{{colA, colB}: {}},
	}
	var total int64
	for _, r := range rows {
		c.Singles[colA][r.a] += r.ct
		c.Singles[colB][r.b] += r.ct
		c.Pairs[[2]string{colA, colB}][[2]string{r.a, r.b}] += r.ct
		total += r.ct
	}
	c.Total = total
	return c
}

func TestDeriveRules_PerfectDetermination(t *testing.T) {
	// region fully determines currency; 200 rows total, both sides well
	// above the support floor.
	c := buildCounts("region", "currency", []struct {
		a, b string
		ct   int64
	}{
		{"EU", "EUR", 120},
		{"US", "USD", 80},
	})

	rules := deriveRules(c, 0.95)
	require.Len(t, rules, 2)

	assert.Equal(t, "region", rules[0].CauseColumn)
	assert.Equal(t, "EU", rules[0].CauseValue)
	assert.Equal(t, "currency", rules[0].EffectColumn)
	assert.Equal(t, "EUR", rules[0].EffectValue)
	assert.Equal(t, 1.0, rules[0].Ratio)
	assert.Equal(t, int64(120), rules[0].PairCount)

	assert.Equal(t, "US", rules[1].CauseValue)
	assert.Equal(t, "USD", rules[1].EffectValue)
}

func TestDeriveRules_OneRulePerValuePair(t *testing.T) {
	// A dominant value drags the reverse direction over the threshold too:
	// status=open occurs 93 times, all with queue=q1; q1 also holds 5 rows
	// of status=hold. Forward ratio 1.0, reverse 93/98 ≈ 0.949. Only the
	// stronger direction may be emitted.
	c := buildCounts("queue", "status", []struct {
		a, b string
		ct   int64
	}{
		{"q1", "open", 93},
		{"q1", "hold", 5},
		{"q2", "hold", 2},
	})

	rules := deriveRules(c, 0.9)
	require.Len(t, rules, 1)
	assert.Equal(t, "status", rules[0].CauseColumn)
	assert.Equal(t, "open", rules[0].CauseValue)
	assert.Equal(t, "queue", rules[0].EffectColumn)
	assert.Equal(t, "q1", rules[0].EffectValue)
	assert.Equal(t, 1.0, rules[0].Ratio)
}

func TestDeriveRules_SupportFloor(t *testing.T) {
	// Both sides of the (a2, b2) association stay under the floor of 30,
	// so it is suppressed even at ratio 1.0.
	c := buildCounts("a", "b", []struct {
		a, b string
		ct   int64
	}{
		{"a1", "b1", 200},
		{"a2", "b2", 10},
	})

	rules := deriveRules(c, 0.95)
	require.Len(t, rules, 1)
	assert.Equal(t, "a1", rules[0].CauseValue)
}

func TestDeriveRules_ThresholdSuppressesWeakAssociations(t *testing.T) {
	// 60/40 split: no direction reaches 0.95.
	c := buildCounts("a", "b", []struct {
		a, b string
		ct   int64
	}{
		{"a1", "b1", 60},
		{"a1", "b2", 40},
	})

	assert.Empty(t, deriveRules(c, 0.95))
}

func TestDeriveRules_NearPerfectAssociation(t *testing.T) {
	// 99% of country=US rows carry currency=USD; one stray EUR row.
	// USD also appears under CA, so the reverse direction stays weak and
	// US -> USD is emitted at ratio 0.99.
	c := buildCounts("country", "currency", []struct {
		a, b string
		ct   int64
	}{
		{"US", "USD", 99},
		{"US", "EUR", 1},
		{"CA", "USD", 100},
	})

	rules := deriveRules(c, 0.95)

	var usRule *models.ProfilePairRule
	for _, r := range rules {
		if r.CauseValue == "US" {
			usRule = r
		}
	}
	require.NotNil(t, usRule)
	assert.Equal(t, "USD", usRule.EffectValue)
	assert.InDelta(t, 0.99, usRule.Ratio, 1e-9)
	assert.Equal(t, int64(100), usRule.CauseTotal)
	assert.Equal(t, int64(199), usRule.EffectTotal)
}

func TestDeriveRules_Deterministic(t *testing.T) {
	rows := []struct {
		a, b string
		ct   int64
	}{
		{"x1", "y1", 50},
		{"x2", "y2", 60},
		{"x3", "y3", 70},
	}

	first := deriveRules(buildCounts("a", "b", rows), 0.95)
	for i := 0; i < 20; i++ {
		again := deriveRules(buildCounts("a", "b", rows), 0.95)
		require.Equal(t, len(first), len(again))
		for j := range first {
			assert.Equal(t, *first[j], *again[j], "rule order must be stable")
		}
	}
}

func TestDeriveRules_EmptyCounts(t *testing.T) {
	c := &counts{
		Singles: map[string]map[string]int64{},
		Pairs:   map[[2]string]map[[2]string]int64{},
	}
	assert.Empty(t, deriveRules(c, 0.95))
}

func TestNewAnalyzer_DefaultThreshold(t *testing.T) {
	a := NewAnalyzer(nil, nil, zap.NewNop(), Options{})
	assert.Equal(t, defaultThreshold, a.opts.Threshold)

	a = NewAnalyzer(nil, nil, zap.NewNop(), Options{Threshold: 1.5})
	assert.Equal(t, defaultThreshold, a.opts.Threshold, "out-of-range thresholds fall back")

	a = NewAnalyzer(nil, nil, zap.NewNop(), Options{Threshold: 0.8})
	assert.Equal(t, 0.8, a.opts.Threshold)
}

func TestLookupAndCoercions(t *testing.T) {
	m := map[string]any{"FREQ_CT": int64(5), "value": []byte("x")}

	assert.Equal(t, int64(5), intValue(lookup(m, "freq_ct")))
	assert.Equal(t, "x", stringValue(lookup(m, "value")))
	assert.Nil(t, lookup(m, "missing"))
}
