package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/dialect"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

func samplingGroup() *models.TableGroup {
	return &models.TableGroup{
		UseSampling:    true,
		SamplePercent:  30,
		SampleMinCount: 15000,
	}
}

func dialectFor(t *testing.T, flavor models.Flavor) dialect.Dialect {
	t.Helper()
	d, err := dialect.ForFlavor(flavor)
	require.NoError(t, err)
	return d
}

func TestPlanSampling_DisabledGroup(t *testing.T) {
	tg := samplingGroup()
	tg.UseSampling = false

	plan := planSampling(dialectFor(t, models.FlavorPostgresql), tg, 1000000, "id")
	assert.False(t, plan.Sampled)
	assert.Equal(t, int64(-1), plan.SampleSize)
	assert.Empty(t, plan.Suffix)
	assert.Empty(t, plan.Condition)
}

func TestPlanSampling_SmallTableProfiledInFull(t *testing.T) {
	plan := planSampling(dialectFor(t, models.FlavorPostgresql), samplingGroup(), 14999, "id")
	assert.False(t, plan.Sampled)
	assert.Equal(t, int64(-1), plan.SampleSize)
}

func TestPlanSampling_NativeSuffix(t *testing.T) {
	plan := planSampling(dialectFor(t, models.FlavorPostgresql), samplingGroup(), 100000, "id")
	assert.True(t, plan.Sampled)
	assert.Equal(t, int64(30000), plan.SampleSize)
	assert.Equal(t, 30.0, plan.Percent)
	assert.InDelta(t, 0.3, plan.Ratio, 1e-9)
	assert.Equal(t, " TABLESAMPLE BERNOULLI(30.0000)", plan.Suffix)
	assert.Empty(t, plan.Condition)
}

func TestPlanSampling_RedshiftHashFallback(t *testing.T) {
	plan := planSampling(dialectFor(t, models.FlavorRedshift), samplingGroup(), 100000, `"order_id"`)
	assert.True(t, plan.Sampled)
	assert.Empty(t, plan.Suffix)
	assert.Contains(t, plan.Condition, `MD5(CAST("order_id" AS VARCHAR))`)
	assert.Contains(t, plan.Condition, "< 30")
}

func TestPlanSampling_DefaultsApplied(t *testing.T) {
	tg := samplingGroup()
	tg.SamplePercent = 0
	tg.SampleMinCount = 0

	plan := planSampling(dialectFor(t, models.FlavorPostgresql), tg, 20000, "id")
	assert.True(t, plan.Sampled)
	assert.Equal(t, defaultSamplePercent, plan.Percent)
	assert.Equal(t, int64(6000), plan.SampleSize)

	// The default minimum still guards small tables.
	plan = planSampling(dialectFor(t, models.FlavorPostgresql), tg, 14000, "id")
	assert.False(t, plan.Sampled)
}

func TestPlanSampling_OutOfRangePercentFallsBack(t *testing.T) {
	tg := samplingGroup()
	tg.SamplePercent = 150

	plan := planSampling(dialectFor(t, models.FlavorPostgresql), tg, 100000, "id")
	assert.Equal(t, defaultSamplePercent, plan.Percent)
}
