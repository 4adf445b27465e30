package models

import (
	"github.com/google/uuid"
)

// ProfilePairRule is one contingency rule discovered between two
// low-cardinality columns: IF cause_column=cause_value THEN
// effect_column=effect_value, holding for ratio of the cause rows.
type ProfilePairRule struct {
	ID           uuid.UUID `json:"id"`
	ProfileRunID uuid.UUID `json:"profile_run_id"`
	TableGroupID uuid.UUID `json:"table_groups_id"`
	SchemaName   string    `json:"schema_name"`
	TableName    string    `json:"table_name"`
	CauseColumn  string    `json:"cause_column"`
	CauseValue   string    `json:"cause_value"`
	EffectColumn string    `json:"effect_column"`
	EffectValue  string    `json:"effect_value"`
	PairCount    int64     `json:"pair_count"`
	CauseTotal   int64     `json:"cause_total"`
	EffectTotal  int64     `json:"effect_total"`
	Ratio        float64   `json:"ratio"`
}
