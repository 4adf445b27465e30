package profiling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

// rowValues wraps one dispatched result row with case-insensitive access
// by column name. Drivers disagree on result-column casing (Snowflake
// uppercases), so lookups normalise to lower case.
type rowValues struct {
	values map[string]any
}

func newRowValues(columns []string, row []any) (*rowValues, error) {
	if len(columns) != len(row) {
		return nil, fmt.Errorf("row has %d values for %d columns", len(row), len(columns))
	}
	m := make(map[string]any, len(columns))
	for i, c := range columns {
		m[strings.ToLower(c)] = row[i]
	}
	return &rowValues{values: m}, nil
}

func (r *rowValues) str(name string) string {
	return asString(r.values[strings.ToLower(name)])
}

func (r *rowValues) int64(name string) int64 {
	v, _ := asInt64(r.values[strings.ToLower(name)])
	return v
}

func (r *rowValues) int64Ptr(name string) *int64 {
	v, ok := asInt64(r.values[strings.ToLower(name)])
	if !ok {
		return nil
	}
	return &v
}

func (r *rowValues) floatPtr(name string) *float64 {
	v, ok := asFloat64(r.values[strings.ToLower(name)])
	if !ok {
		return nil
	}
	return &v
}

func (r *rowValues) timePtr(name string) *time.Time {
	switch v := r.values[strings.ToLower(name)].(type) {
	case time.Time:
		return &v
	case *time.Time:
		return v
	default:
		return nil
	}
}

// asString renders any driver value as text. NULL becomes "".
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// asInt64 coerces the integer-ish types drivers return. The second return
// is false for NULL or non-numeric values.
func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case int64:
		return t, true
	case int32:
		return int64(t), true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case float32:
		return int64(t), true
	case []byte:
		n, err := strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// asFloat64 coerces the numeric types drivers return.
func asFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case int:
		return float64(t), true
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// profileResultFromRow maps one round-1 result row (the fixed projection
// shared by every branch template) into a ProfileResult.
func profileResultFromRow(columns []string, row []any) (*models.ProfileResult, error) {
	rv, err := newRowValues(columns, row)
	if err != nil {
		return nil, err
	}

	pos, _ := asInt64(rv.values["position"])
	pr := &models.ProfileResult{
		SchemaName:  rv.str("schema_name"),
		TableName:   rv.str("table_name"),
		ColumnName:  rv.str("column_name"),
		Position:    int(pos),
		ColumnType:  rv.str("column_type"),
		GeneralType: models.GeneralType(rv.str("general_type")),

		RecordCt:        rv.int64("record_ct"),
		ValueCt:         rv.int64("value_ct"),
		DistinctValueCt: rv.int64("distinct_value_ct"),
		NullValueCt:     rv.int64("null_value_ct"),

		MinLength: rv.int64Ptr("min_length"),
		MaxLength: rv.int64Ptr("max_length"),
		AvgLength: rv.floatPtr("avg_length"),

		ZeroLengthCt:       rv.int64Ptr("zero_length_ct"),
		LeadSpaceCt:        rv.int64Ptr("lead_space_ct"),
		EmbeddedSpaceCt:    rv.int64Ptr("embedded_space_ct"),
		AvgEmbeddedSpaces:  rv.floatPtr("avg_embedded_spaces"),
		QuotedValueCt:      rv.int64Ptr("quoted_value_ct"),
		NumericCt:          rv.int64Ptr("numeric_ct"),
		DateCt:             rv.int64Ptr("date_ct"),
		IncludesDigitCt:    rv.int64Ptr("includes_digit_ct"),
		FilledValueCt:      rv.int64Ptr("filled_value_ct"),
		DistinctStdValueCt: rv.int64Ptr("distinct_std_value_ct"),
		DistinctPatternCt:  rv.int64Ptr("distinct_pattern_ct"),

		MinValue:      rv.floatPtr("min_value"),
		MinValueOver0: rv.floatPtr("min_value_over_0"),
		MaxValue:      rv.floatPtr("max_value"),
		AvgValue:      rv.floatPtr("avg_value"),
		StdevValue:    rv.floatPtr("stdev_value"),
		Percentile25:  rv.floatPtr("percentile_25"),
		Percentile50:  rv.floatPtr("percentile_50"),
		Percentile75:  rv.floatPtr("percentile_75"),
		FractionalSum: rv.floatPtr("fractional_sum"),
		ZeroValueCt:   rv.int64Ptr("zero_value_ct"),

		MinDate:         rv.timePtr("min_date"),
		MaxDate:         rv.timePtr("max_date"),
		Before1YrDateCt: rv.int64Ptr("before_1yr_date_ct"),
		Before5YrDateCt: rv.int64Ptr("before_5yr_date_ct"),
		Within1YrDateCt: rv.int64Ptr("within_1yr_date_ct"),
		Within1MoDateCt: rv.int64Ptr("within_1mo_date_ct"),
		FutureDateCt:    rv.int64Ptr("future_date_ct"),
		DistinctDayCt:   rv.int64Ptr("date_days_present"),
		DistinctWeekCt:  rv.int64Ptr("date_weeks_present"),
		DistinctMonthCt: rv.int64Ptr("date_months_present"),

		BooleanTrueCt: rv.int64Ptr("boolean_true_ct"),
	}

	if pr.SchemaName == "" || pr.TableName == "" || pr.ColumnName == "" {
		return nil, fmt.Errorf("profile row missing identity columns")
	}
	return pr, nil
}
