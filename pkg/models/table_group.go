package models

import (
	"time"

	"github.com/google/uuid"
)

// TableGroup scopes a set of tables within a connection that are profiled
// together.
type TableGroup struct {
	ID           uuid.UUID `json:"id"`
	ConnectionID uuid.UUID `json:"connection_id"`
	Name         string    `json:"name"`
	Schema       string    `json:"schema"`

	// Masks use SQL LIKE syntax (% wildcards). ExplicitTableList, when
	// non-empty, bypasses mask matching entirely.
	TablesToIncludeMask string   `json:"tables_to_include_mask"`
	TablesToExcludeMask string   `json:"tables_to_exclude_mask"`
	ExplicitTableList   []string `json:"explicit_table_list"`

	// Column-name masks used by the functional-type rules engine to spot
	// surrogate/natural key columns.
	ProfileIDColumnMask string `json:"profile_id_column_mask"`
	ProfileSKColumnMask string `json:"profile_sk_column_mask"`

	// Sampling policy
	UseSampling    bool    `json:"profile_use_sampling"`
	SamplePercent  float64 `json:"profile_sample_percent"`
	SampleMinCount int64   `json:"profile_sample_min_count"`

	// ProfileFlagCDEs enables critical-data-element flagging at end of run.
	ProfileFlagCDEs bool `json:"profile_flag_cdes"`
	// ProfileDoPairRules enables contingency-rule discovery.
	ProfileDoPairRules bool `json:"profile_do_pair_rules"`
	// ProfilePairRulePct is the association threshold as a percent (default 95).
	ProfilePairRulePct int `json:"profile_pair_rule_pct"`

	CreatedAt time.Time `json:"created_at"`
}

// PairRuleThreshold returns the contingency ratio threshold in [0,1].
func (tg *TableGroup) PairRuleThreshold() float64 {
	if tg.ProfilePairRulePct <= 0 || tg.ProfilePairRulePct > 100 {
		return 0.95
	}
	return float64(tg.ProfilePairRulePct) / 100.0
}
