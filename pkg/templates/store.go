// Package templates is the catalog of named SQL templates the query builder
// composes profiling, anomaly, scoring, and maintenance queries from.
// Templates carry {TOKEN} markers bound by the builder and neutral
// {{DKFN_*(...)}} calls rewritten per dialect.
package templates

import (
	"fmt"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/apperrors"
)

// Template names.
const (
	ColumnDiscovery    = "profile_ddf"
	TableRowCount      = "profile_row_count"
	ProfileAlpha       = "profile_round1_alpha"
	ProfileNumeric     = "profile_round1_numeric"
	ProfileDate        = "profile_round1_date"
	ProfileBoolean     = "profile_round1_boolean"
	FreqTopValues      = "profile_freq_top_values"
	FreqTopPatterns    = "profile_freq_top_patterns"
	AnomalyDetect      = "anomaly_detect"
	AnomalyPrevalence  = "anomaly_prevalence"
	AnomalyRunStats    = "anomaly_run_stats"
	ScoreColumnRollup  = "score_column_rollup"
	ScoreRunRollup     = "score_run_rollup"
	ScoreGroupRollup   = "score_table_group_rollup"
	ContingencySingle  = "contingency_single_freq"
	ContingencyPair    = "contingency_pair_freq"
)

var catalog = map[string]string{
	ColumnDiscovery:   columnDiscoverySQL,
	TableRowCount:     tableRowCountSQL,
	ProfileAlpha:      profileAlphaSQL,
	ProfileNumeric:    profileNumericSQL,
	ProfileDate:       profileDateSQL,
	ProfileBoolean:    profileBooleanSQL,
	FreqTopValues:     freqTopValuesSQL,
	FreqTopPatterns:   freqTopPatternsSQL,
	AnomalyDetect:     anomalyDetectSQL,
	AnomalyPrevalence: anomalyPrevalenceSQL,
	AnomalyRunStats:   anomalyRunStatsSQL,
	ScoreColumnRollup: scoreColumnRollupSQL,
	ScoreRunRollup:    scoreRunRollupSQL,
	ScoreGroupRollup:  scoreGroupRollupSQL,
	ContingencySingle: contingencySingleSQL,
	ContingencyPair:   contingencyPairSQL,
}

// Get returns the raw template text for a name.
func Get(name string) (string, error) {
	text, ok := catalog[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", apperrors.ErrTemplateNotFound, name)
	}
	return text, nil
}

// Names returns all registered template names.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	return names
}
