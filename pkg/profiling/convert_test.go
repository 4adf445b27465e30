package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

func TestNewRowValues_LengthMismatch(t *testing.T) {
	_, err := newRowValues([]string{"a", "b"}, []any{1})
	assert.Error(t, err)
}

func TestRowValues_CaseInsensitiveLookup(t *testing.T) {
	// Snowflake uppercases result columns; lookups must not care.
	rv, err := newRowValues([]string{"SCHEMA_NAME", "RECORD_CT"}, []any{"demo", int64(42)})
	require.NoError(t, err)

	assert.Equal(t, "demo", rv.str("schema_name"))
	assert.Equal(t, int64(42), rv.int64("record_ct"))
}

func TestRowValues_DriverTypeCoercions(t *testing.T) {
	rv, err := newRowValues(
		[]string{"a", "b", "c", "d", "e"},
		[]any{[]byte("text"), "123", int32(7), float64(2.5), nil})
	require.NoError(t, err)

	assert.Equal(t, "text", rv.str("a"), "byte slices render as text")
	assert.Equal(t, int64(123), rv.int64("b"), "numeric strings parse")
	assert.Equal(t, int64(7), rv.int64("c"))

	f := rv.floatPtr("d")
	require.NotNil(t, f)
	assert.Equal(t, 2.5, *f)

	assert.Nil(t, rv.int64Ptr("e"), "NULL stays nil")
	assert.Nil(t, rv.floatPtr("e"))
	assert.Equal(t, "", rv.str("e"))
}

func TestRowValues_TimePtr(t *testing.T) {
	now := time.Now()
	rv, err := newRowValues([]string{"min_date", "max_date"}, []any{now, nil})
	require.NoError(t, err)

	got := rv.timePtr("min_date")
	require.NotNil(t, got)
	assert.True(t, got.Equal(now))
	assert.Nil(t, rv.timePtr("max_date"))
}

func round1Row() ([]string, []any) {
	columns := []string{
		"schema_name", "table_name", "column_name", "position",
		"column_type", "general_type",
		"record_ct", "value_ct", "distinct_value_ct", "null_value_ct",
		"min_length", "max_length", "avg_length",
	}
	row := []any{
		"demo", "customers", "city", int64(3),
		"varchar", "A",
		int64(1000), int64(990), int64(85), int64(10),
		int64(2), int64(28), float64(9.4),
	}
	return columns, row
}

func TestProfileResultFromRow(t *testing.T) {
	columns, row := round1Row()
	pr, err := profileResultFromRow(columns, row)
	require.NoError(t, err)

	assert.Equal(t, "demo", pr.SchemaName)
	assert.Equal(t, "customers", pr.TableName)
	assert.Equal(t, "city", pr.ColumnName)
	assert.Equal(t, 3, pr.Position)
	assert.Equal(t, models.GeneralTypeAlpha, pr.GeneralType)
	assert.Equal(t, int64(1000), pr.RecordCt)
	assert.Equal(t, int64(990), pr.ValueCt)

	require.NotNil(t, pr.MaxLength)
	assert.Equal(t, int64(28), *pr.MaxLength)
	require.NotNil(t, pr.AvgLength)
	assert.InDelta(t, 9.4, *pr.AvgLength, 1e-9)

	// Columns absent from the projection stay nil, not zero.
	assert.Nil(t, pr.MinValue)
	assert.Nil(t, pr.FutureDateCt)
	assert.Nil(t, pr.BooleanTrueCt)
}

func TestProfileResultFromRow_MissingIdentity(t *testing.T) {
	columns, row := round1Row()
	row[1] = "" // table_name

	_, err := profileResultFromRow(columns, row)
	assert.Error(t, err)
}
