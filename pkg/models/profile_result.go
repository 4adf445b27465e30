package models

import (
	"time"

	"github.com/google/uuid"
)

// GeneralType classifies a column's storage type into a profiling branch.
type GeneralType string

const (
	GeneralTypeAlpha   GeneralType = "A"
	GeneralTypeNumeric GeneralType = "N"
	GeneralTypeDate    GeneralType = "D"
	GeneralTypeTime    GeneralType = "T"
	GeneralTypeBoolean GeneralType = "B"
)

// ColumnIdent is the natural key shared by profile results and the
// column catalog: (schema, table, column) within a table group.
type ColumnIdent struct {
	SchemaName string `json:"schema_name"`
	TableName  string `json:"table_name"`
	ColumnName string `json:"column_name"`
}

// ProfileResult is one row per (profiling_run, schema, table, column).
// Created once per column per run; mutated only by secondary-enrichment
// updates.
type ProfileResult struct {
	ID            uuid.UUID   `json:"id"`
	ProfileRunID  uuid.UUID   `json:"profile_run_id"`
	TableGroupID  uuid.UUID   `json:"table_groups_id"`
	RunDate       time.Time   `json:"run_date"`
	SchemaName    string      `json:"schema_name"`
	TableName     string      `json:"table_name"`
	ColumnName    string      `json:"column_name"`
	Position      int         `json:"position"`
	ColumnType    string      `json:"column_type"`
	GeneralType   GeneralType `json:"general_type"`
	DatatypeSuggestion string `json:"datatype_suggestion"`
	// FunctionalDataType is the inferred semantic role (ID, Email, City...).
	FunctionalDataType  string `json:"functional_data_type"`
	FunctionalTableType string `json:"functional_table_type"`

	// Counts
	RecordCt        int64 `json:"record_ct"`
	ValueCt         int64 `json:"value_ct"`
	DistinctValueCt int64 `json:"distinct_value_ct"`
	NullValueCt     int64 `json:"null_value_ct"`

	// Length stats
	MinLength *int64   `json:"min_length"`
	MaxLength *int64   `json:"max_length"`
	AvgLength *float64 `json:"avg_length"`

	// Alpha-specific counters
	ZeroLengthCt        *int64   `json:"zero_length_ct"`
	LeadSpaceCt         *int64   `json:"lead_space_ct"`
	EmbeddedSpaceCt     *int64   `json:"embedded_space_ct"`
	AvgEmbeddedSpaces   *float64 `json:"avg_embedded_spaces"`
	QuotedValueCt       *int64   `json:"quoted_value_ct"`
	NumericCt           *int64   `json:"numeric_ct"`
	DateCt              *int64   `json:"date_ct"`
	IncludesDigitCt     *int64   `json:"includes_digit_ct"`
	FilledValueCt       *int64   `json:"filled_value_ct"`
	TopFreqValues       *string  `json:"top_freq_values"`
	TopPatterns         *string  `json:"top_patterns"`
	DistinctStdValueCt  *int64   `json:"distinct_std_value_ct"`
	DistinctPatternCt   *int64   `json:"distinct_pattern_ct"`
	StdPatternMatch     *string  `json:"std_pattern_match"`

	// Numeric stats
	MinValue      *float64 `json:"min_value"`
	MinValueOver0 *float64 `json:"min_value_over_0"`
	MaxValue      *float64 `json:"max_value"`
	AvgValue      *float64 `json:"avg_value"`
	StdevValue    *float64 `json:"stdev_value"`
	Percentile25  *float64 `json:"percentile_25"`
	Percentile50  *float64 `json:"percentile_50"`
	Percentile75  *float64 `json:"percentile_75"`
	FractionalSum *float64 `json:"fractional_sum"`
	ZeroValueCt   *int64   `json:"zero_value_ct"`

	// Date-range stats
	MinDate          *time.Time `json:"min_date"`
	MaxDate          *time.Time `json:"max_date"`
	Before1YrDateCt  *int64     `json:"before_1yr_date_ct"`
	Before5YrDateCt  *int64     `json:"before_5yr_date_ct"`
	Within1YrDateCt  *int64     `json:"within_1yr_date_ct"`
	Within1MoDateCt  *int64     `json:"within_1mo_date_ct"`
	FutureDateCt     *int64     `json:"future_date_ct"`
	DistinctDayCt    *int64     `json:"date_days_present"`
	DistinctWeekCt   *int64     `json:"date_weeks_present"`
	DistinctMonthCt  *int64     `json:"date_months_present"`

	// Boolean stats
	BooleanTrueCt *int64 `json:"boolean_true_ct"`

	// Sampling
	SampleRatio       *float64 `json:"sample_ratio"`
	SamplePercentCalc *float64 `json:"sample_percent_calc"`

	// PII / CDE flags set by enrichment
	PIIFlag    *string `json:"pii_flag"`
	CriticalDataElement *bool `json:"critical_data_element"`
}

// Ident returns the column's natural key.
func (pr *ProfileResult) Ident() ColumnIdent {
	return ColumnIdent{SchemaName: pr.SchemaName, TableName: pr.TableName, ColumnName: pr.ColumnName}
}
