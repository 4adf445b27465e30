package models

import (
	"time"

	"github.com/google/uuid"
)

// TestDefinition is one generated validation test over a column, derived
// from profile results by the test-generation command.
type TestDefinition struct {
	ID            uuid.UUID `json:"id"`
	TableGroupID  uuid.UUID `json:"table_groups_id"`
	TestSuiteKey  string    `json:"test_suite"`
	TestType      string    `json:"test_type"`
	SchemaName    string    `json:"schema_name"`
	TableName     string    `json:"table_name"`
	ColumnName    string    `json:"column_name"`
	// Baseline values captured from the generating profile.
	BaselineValue   *string  `json:"baseline_value"`
	BaselineCt      *int64   `json:"baseline_ct"`
	BaselineAvg     *float64 `json:"baseline_avg"`
	BaselineSD      *float64 `json:"baseline_sd"`
	ThresholdValue  *float64 `json:"threshold_value"`
	LowerTolerance  *float64 `json:"lower_tolerance"`
	UpperTolerance  *float64 `json:"upper_tolerance"`
	SubsetCondition *string  `json:"subset_condition"`
	// Locked definitions are preserved across regeneration.
	Locked           bool       `json:"lock_refresh"`
	TestActive       bool       `json:"test_active"`
	ProfilingAsOf    *time.Time `json:"profiling_as_of_date"`
	LastAutoGenDate  *time.Time `json:"last_auto_gen_date"`
}
