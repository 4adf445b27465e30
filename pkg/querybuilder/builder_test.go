package querybuilder

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/dialect"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/templates"
)

func pgBuilder(t *testing.T) *Builder {
	t.Helper()
	d, err := dialect.ForFlavor(models.FlavorPostgresql)
	require.NoError(t, err)
	return New(d)
}

func alphaBinding() *Binding {
	return NewBinding().
		Set(TokenTargetSchema, "demo").
		Set(TokenTargetQCSchema, "qc").
		Set(TokenTableName, "customers").
		Set(TokenColumnName, "city").
		Set(TokenColumnNameNoQuotes, "city").
		Set(TokenColumnType, "varchar").
		SetInt(TokenOrdinalPosition, 3)
}

func TestBuild_Deterministic(t *testing.T) {
	b := pgBuilder(t)

	first, err := b.Build(templates.ProfileAlpha, alphaBinding())
	require.NoError(t, err)
	second, err := b.Build(templates.ProfileAlpha, alphaBinding())
	require.NoError(t, err)

	assert.Equal(t, first, second, "build must be a pure function")
}

func TestBuild_SubstitutesAllTokens(t *testing.T) {
	b := pgBuilder(t)

	sql, err := b.Build(templates.ProfileAlpha, alphaBinding())
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM demo.customers")
	assert.Contains(t, sql, "'city' AS column_name")
	assert.NotContains(t, sql, "{COLUMN_NAME}")
	assert.NotContains(t, sql, "{{DKFN_")
}

func TestBuild_DefaultSubsetCondition(t *testing.T) {
	b := pgBuilder(t)

	sql, err := b.Build(templates.ProfileAlpha, alphaBinding())
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE 1=1 AND 1=1", "sampling and subset conditions default to 1=1")
}

func TestBuild_ExplicitSubsetCondition(t *testing.T) {
	b := pgBuilder(t)

	binding := alphaBinding().Set(TokenSubsetCondition, "status = 'ACTIVE'")
	sql, err := b.Build(templates.ProfileAlpha, binding)
	require.NoError(t, err)
	assert.Contains(t, sql, "AND status = 'ACTIVE'")
}

func TestBuild_UnboundTokenFails(t *testing.T) {
	b := pgBuilder(t)

	binding := NewBinding().Set(TokenTargetSchema, "demo")
	_, err := b.Build(templates.ProfileAlpha, binding)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unbound template token")
}

func TestBuild_UnknownTemplate(t *testing.T) {
	b := pgBuilder(t)

	_, err := b.Build("no_such_template", NewBinding())
	require.Error(t, err)
}

func TestBuildRaw_HavingPrefix(t *testing.T) {
	b := pgBuilder(t)

	sql, err := b.BuildRaw("SELECT a FROM t GROUP BY a {HAVING_CONDITION}",
		NewBinding().Set(TokenHavingCondition, "COUNT(*) > 5"))
	require.NoError(t, err)
	assert.Contains(t, sql, "HAVING COUNT(*) > 5")
}

func TestBuildRaw_LimitDerivatives(t *testing.T) {
	b := pgBuilder(t)

	sql, err := b.BuildRaw("{LIMIT} {LIMIT_2} {LIMIT_4}",
		NewBinding().SetInt(TokenLimit, 40))
	require.NoError(t, err)
	assert.Equal(t, "40 20 10", sql)
}

func TestBuildChunked_SplitsAtUnionBoundaries(t *testing.T) {
	queries := make([]string, 6)
	for i := range queries {
		queries[i] = fmt.Sprintf("SELECT %d AS n FROM demo.t%d", i, i)
	}
	one := len(queries[0])

	// Room for two queries plus one separator per batch.
	maxChars := one*2 + len("\nUNION ALL\n")
	batches, err := BuildChunked(queries, maxChars)
	require.NoError(t, err)
	assert.Len(t, batches, 3)

	for _, batch := range batches {
		assert.LessOrEqual(t, len(batch), maxChars)
		assert.Equal(t, 1, strings.Count(batch, "UNION ALL"))
	}
}

func TestBuildChunked_SingleBatchWhenSmall(t *testing.T) {
	batches, err := BuildChunked([]string{"SELECT 1", "SELECT 2"}, 10000)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "SELECT 1\nUNION ALL\nSELECT 2", batches[0])
}

func TestBuildChunked_OversizeQueryFails(t *testing.T) {
	_, err := BuildChunked([]string{strings.Repeat("x", 100)}, 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be split")
}

func TestBuildChunked_Empty(t *testing.T) {
	batches, err := BuildChunked(nil, 1000)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestBuild_AllRound1TemplatesAllFlavors(t *testing.T) {
	for _, flavor := range []models.Flavor{
		models.FlavorPostgresql, models.FlavorSnowflake, models.FlavorMSSQL, models.FlavorRedshift,
	} {
		d, err := dialect.ForFlavor(flavor)
		require.NoError(t, err)
		b := New(d)

		for _, name := range []string{
			templates.ProfileAlpha, templates.ProfileNumeric,
			templates.ProfileDate, templates.ProfileBoolean,
		} {
			sql, err := b.Build(name, alphaBinding())
			require.NoError(t, err, "flavor %s template %s", flavor, name)
			assert.NotContains(t, sql, "{{DKFN_", "flavor %s template %s", flavor, name)
		}
	}
}
