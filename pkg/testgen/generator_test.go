package testgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

func int64p(v int64) *int64       { return &v }
func float64p(v float64) *float64 { return &v }
func stringp(v string) *string    { return &v }

func testsByType(defs []*models.TestDefinition) map[string]*models.TestDefinition {
	m := make(map[string]*models.TestDefinition, len(defs))
	for _, td := range defs {
		m[td.TestType] = td
	}
	return m
}

func TestDeriveColumnTests_NumericColumn(t *testing.T) {
	pr := &models.ProfileResult{
		SchemaName:      "demo",
		TableName:       "orders",
		ColumnName:      "order_total",
		GeneralType:     models.GeneralTypeNumeric,
		RecordCt:        1000,
		ValueCt:         990,
		NullValueCt:     10,
		DistinctValueCt: 800,
		MinValue:        float64p(1),
		MaxValue:        float64p(501),
		AvgValue:        float64p(120),
		StdevValue:      float64p(40),
	}

	defs := deriveColumnTests(pr)
	byType := testsByType(defs)
	require.Len(t, defs, 3)

	missing := byType[TestMissingPct]
	require.NotNil(t, missing)
	assert.Equal(t, int64(10), *missing.BaselineCt)
	assert.InDelta(t, 0.01, *missing.ThresholdValue, 1e-9)
	assert.Equal(t, "orders", missing.TableName)
	assert.Equal(t, "order_total", missing.ColumnName)

	minTest := byType[TestMinValue]
	require.NotNil(t, minTest)
	assert.Equal(t, "1", *minTest.BaselineValue)
	require.NotNil(t, minTest.LowerTolerance)
	assert.InDelta(t, 50.0, *minTest.LowerTolerance, 1e-9)
	assert.Equal(t, float64p(120), minTest.BaselineAvg)

	maxTest := byType[TestMaxValue]
	require.NotNil(t, maxTest)
	assert.Equal(t, "501", *maxTest.BaselineValue)
	require.NotNil(t, maxTest.UpperTolerance)
	assert.InDelta(t, 50.0, *maxTest.UpperTolerance, 1e-9)
}

func TestDeriveColumnTests_CategoricalColumn(t *testing.T) {
	pr := &models.ProfileResult{
		SchemaName:      "demo",
		TableName:       "orders",
		ColumnName:      "status",
		GeneralType:     models.GeneralTypeAlpha,
		RecordCt:        1000,
		ValueCt:         1000,
		DistinctValueCt: 4,
	}

	byType := testsByType(deriveColumnTests(pr))

	distinct := byType[TestDistinctCt]
	require.NotNil(t, distinct)
	assert.Equal(t, int64(4), *distinct.BaselineCt)
	assert.Equal(t, 4.0, *distinct.ThresholdValue)
}

func TestDeriveColumnTests_HighCardinalityGetsNoDistinctTest(t *testing.T) {
	pr := &models.ProfileResult{
		GeneralType:     models.GeneralTypeAlpha,
		RecordCt:        1000,
		ValueCt:         1000,
		DistinctValueCt: 950,
	}

	byType := testsByType(deriveColumnTests(pr))
	assert.Nil(t, byType[TestDistinctCt])
}

func TestDeriveColumnTests_PatternMatch(t *testing.T) {
	pr := &models.ProfileResult{
		GeneralType:     models.GeneralTypeAlpha,
		RecordCt:        1000,
		ValueCt:         1000,
		DistinctValueCt: 990,
		StdPatternMatch: stringp("SSN_USA"),
	}

	byType := testsByType(deriveColumnTests(pr))
	pattern := byType[TestPatternMatch]
	require.NotNil(t, pattern)
	assert.Equal(t, "SSN_USA", *pattern.BaselineValue)
}

func TestDeriveColumnTests_DateColumn(t *testing.T) {
	clean := &models.ProfileResult{
		GeneralType:  models.GeneralTypeDate,
		RecordCt:     1000,
		ValueCt:      1000,
		FutureDateCt: int64p(0),
	}
	byType := testsByType(deriveColumnTests(clean))
	assert.NotNil(t, byType[TestFutureDates],
		"clean date columns get a future-dates guard")

	dirty := &models.ProfileResult{
		GeneralType:  models.GeneralTypeDate,
		RecordCt:     1000,
		ValueCt:      1000,
		FutureDateCt: int64p(12),
	}
	byType = testsByType(deriveColumnTests(dirty))
	assert.Nil(t, byType[TestFutureDates],
		"columns already holding future dates get no guard")
}

func TestDeriveColumnTests_EmptyTable(t *testing.T) {
	pr := &models.ProfileResult{
		GeneralType: models.GeneralTypeAlpha,
		RecordCt:    0,
	}
	assert.Empty(t, deriveColumnTests(pr))
}

func TestDefKey_DistinguishesColumns(t *testing.T) {
	assert.NotEqual(t, defKey("t", "a", "x"), defKey("t", "a", "y"))
	assert.NotEqual(t, defKey("t", "ab", "x"), defKey("ta", "b", "x"))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 0.0123, roundTo(0.01234, 4))
	assert.Equal(t, 0.0124, roundTo(0.01236, 4))
	assert.Equal(t, 3.0, roundTo(3.0000001, 4))
}
