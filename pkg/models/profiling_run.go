package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of a profiling run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "Running"
	RunStatusComplete  RunStatus = "Complete"
	RunStatusError     RunStatus = "Error"
	RunStatusCancelled RunStatus = "Cancelled"
)

// ProfilingRun is one execution of the profiling pipeline over a table group.
// Created in status Running; ends in exactly one terminal status. After
// termination the row is immutable except for score backfills.
type ProfilingRun struct {
	ID           uuid.UUID  `json:"id"`
	TableGroupID uuid.UUID  `json:"table_groups_id"`
	ConnectionID uuid.UUID  `json:"connection_id"`
	StartTime    time.Time  `json:"profiling_starttime"`
	EndTime      *time.Time `json:"profiling_endtime"`
	Status       RunStatus  `json:"status"`
	LogMessage   string     `json:"log_message"`
	// ProcessID lets an external supervisor kill the run's OS process.
	ProcessID        int      `json:"process_id"`
	TableCt          int      `json:"table_ct"`
	ColumnCt         int      `json:"column_ct"`
	AnomalyCt        int      `json:"anomaly_ct"`
	AnomalyTableCt   int      `json:"anomaly_table_ct"`
	AnomalyColumnCt  int      `json:"anomaly_column_ct"`
	DQScoreProfiling *float64 `json:"dq_score_profiling"`
}

// RunSummary is the caller-facing digest of a finished run.
type RunSummary struct {
	RunID       uuid.UUID `json:"run_id"`
	Status      RunStatus `json:"status"`
	TableCt     int       `json:"table_ct"`
	ColumnCt    int       `json:"column_ct"`
	AnomalyCt   int       `json:"anomaly_ct"`
	ErrorCt     int       `json:"error_ct"`
	PairRuleCt  int       `json:"pair_rule_ct"`
	LogMessage  string    `json:"log_message"`
	ElapsedSecs float64   `json:"elapsed_secs"`
}
