package models

import (
	"time"

	"github.com/google/uuid"
)

// DataTableChars is the slowly-changing catalog of tables ever seen for a
// table group. AddDate is set on first appearance; DropDate when the table
// disappears from discovery.
type DataTableChars struct {
	TableID          uuid.UUID  `json:"table_id"`
	TableGroupID     uuid.UUID  `json:"table_groups_id"`
	SchemaName       string     `json:"schema_name"`
	TableName        string     `json:"table_name"`
	FunctionalTableType string  `json:"functional_table_type"`
	RecordCt         *int64     `json:"record_ct"`
	ColumnCt         *int64     `json:"column_ct"`
	AddDate          time.Time  `json:"add_date"`
	LastRefreshDate  time.Time  `json:"last_refresh_date"`
	DropDate         *time.Time `json:"drop_date"`
	LastProfileRunID *uuid.UUID `json:"last_complete_profile_run_id"`
	DQScoreProfiling *float64   `json:"dq_score_profiling"`
}

// DataColumnChars is the slowly-changing catalog of columns ever seen.
// Shares (table_group_id, schema, table, column) with ProfileResult as a
// natural key; not cyclic ownership.
type DataColumnChars struct {
	ColumnID         uuid.UUID  `json:"column_id"`
	TableID          uuid.UUID  `json:"table_id"`
	TableGroupID     uuid.UUID  `json:"table_groups_id"`
	SchemaName       string     `json:"schema_name"`
	TableName        string     `json:"table_name"`
	ColumnName       string     `json:"column_name"`
	ColumnType       string     `json:"column_type"`
	GeneralType      GeneralType `json:"general_type"`
	FunctionalDataType string   `json:"functional_data_type"`
	CriticalDataElement *bool   `json:"critical_data_element"`
	AddDate          time.Time  `json:"add_date"`
	LastModDate      time.Time  `json:"last_mod_date"`
	DropDate         *time.Time `json:"drop_date"`
	LastProfileRunID *uuid.UUID `json:"last_complete_profile_run_id"`
	DQScoreProfiling *float64   `json:"dq_score_profiling"`
}
