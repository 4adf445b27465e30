package querybuilder

import (
	"fmt"
	"sort"
	"strings"
)

// Recognised parameter tokens. The grammar is purely textual: {TOKEN}
// markers are replaced with SQL fragments. Substituents are trusted
// metadata - the metadata store is the trust boundary, not this layer.
const (
	TokenTargetSchema        = "TARGET_SCHEMA"
	TokenTargetQCSchema      = "TARGET_QC_SCHEMA"
	TokenTableName           = "TABLE_NAME"
	TokenTableCriteria       = "TABLE_CRITERIA"
	TokenColumnName          = "COLUMN_NAME"
	TokenColumnType          = "COLUMN_TYPE"
	TokenColumnNameNoQuotes  = "COLUMN_NAME_NO_QUOTES"
	TokenOrdinalPosition     = "ORDINAL_POSITION"
	TokenDetailExpression    = "DETAIL_EXPRESSION"
	TokenAnomalyCriteria     = "ANOMALY_CRITERIA"
	TokenAnomalyID           = "ANOMALY_ID"
	TokenPrevalenceFormula   = "PREVALENCE_FORMULA"
	TokenProfileRunID        = "PROFILE_RUN_ID"
	TokenProfileRunDate      = "PROFILE_RUN_DATE"
	TokenTestDate            = "TEST_DATE"
	TokenCustomQuery         = "CUSTOM_QUERY"
	TokenBaselineValue       = "BASELINE_VALUE"
	TokenBaselineCt          = "BASELINE_CT"
	TokenBaselineAvg         = "BASELINE_AVG"
	TokenBaselineSD          = "BASELINE_SD"
	TokenLowerTolerance      = "LOWER_TOLERANCE"
	TokenUpperTolerance      = "UPPER_TOLERANCE"
	TokenThresholdValue      = "THRESHOLD_VALUE"
	TokenSubsetCondition     = "SUBSET_CONDITION"
	TokenGroupByNames        = "GROUPBY_NAMES"
	TokenHavingCondition     = "HAVING_CONDITION"
	TokenMatchSchemaName     = "MATCH_SCHEMA_NAME"
	TokenMatchTableName      = "MATCH_TABLE_NAME"
	TokenMatchColumnNames    = "MATCH_COLUMN_NAMES"
	TokenMatchSubsetCond     = "MATCH_SUBSET_CONDITION"
	TokenMatchGroupByNames   = "MATCH_GROUPBY_NAMES"
	TokenMatchHavingCond     = "MATCH_HAVING_CONDITION"
	TokenWindowDateColumn    = "WINDOW_DATE_COLUMN"
	TokenWindowDays          = "WINDOW_DAYS"
	TokenConcatColumns       = "CONCAT_COLUMNS"
	TokenConcatMatchGroupBy  = "CONCAT_MATCH_GROUPBY"
	TokenLimit               = "LIMIT"
	TokenLimit2              = "LIMIT_2"
	TokenLimit4              = "LIMIT_4"
	TokenCauseColumn         = "CAUSE_COLUMN"
	TokenEffectColumn        = "EFFECT_COLUMN"
	TokenSamplingTableSuffix = "SAMPLING_TABLE_SUFFIX"
	TokenSamplingCondition   = "SAMPLING_CONDITION"
)

// Binding is the set of token values bound into one template expansion.
type Binding struct {
	tokens map[string]string
}

// NewBinding returns an empty binding.
func NewBinding() *Binding {
	return &Binding{tokens: make(map[string]string)}
}

// Set binds a token to a value. Returns the binding for chaining.
func (b *Binding) Set(token, value string) *Binding {
	b.tokens[token] = value
	return b
}

// SetInt binds a token to an integer value.
func (b *Binding) SetInt(token string, value int) *Binding {
	return b.Set(token, fmt.Sprintf("%d", value))
}

// Get returns a bound value and whether it was set.
func (b *Binding) Get(token string) (string, bool) {
	v, ok := b.tokens[token]
	return v, ok
}

// resolved returns the effective token map with contract defaults applied:
// SUBSET_CONDITION and SAMPLING_CONDITION default to "1=1",
// SAMPLING_TABLE_SUFFIX to "", HAVING_CONDITION is prefixed with "HAVING "
// when present, and LIMIT_2 / LIMIT_4 derive from LIMIT.
func (b *Binding) resolved() map[string]string {
	out := make(map[string]string, len(b.tokens)+4)
	for k, v := range b.tokens {
		out[k] = v
	}

	if v, ok := out[TokenSubsetCondition]; !ok || strings.TrimSpace(v) == "" {
		out[TokenSubsetCondition] = "1=1"
	}
	if v, ok := out[TokenSamplingCondition]; !ok || strings.TrimSpace(v) == "" {
		out[TokenSamplingCondition] = "1=1"
	}
	if _, ok := out[TokenSamplingTableSuffix]; !ok {
		out[TokenSamplingTableSuffix] = ""
	}

	if v, ok := out[TokenHavingCondition]; ok {
		if trimmed := strings.TrimSpace(v); trimmed != "" && !strings.HasPrefix(strings.ToUpper(trimmed), "HAVING") {
			out[TokenHavingCondition] = "HAVING " + trimmed
		}
	}

	if v, ok := out[TokenLimit]; ok {
		var limit int
		if _, err := fmt.Sscanf(v, "%d", &limit); err == nil {
			if _, set := out[TokenLimit2]; !set {
				out[TokenLimit2] = fmt.Sprintf("%d", limit/2)
			}
			if _, set := out[TokenLimit4]; !set {
				out[TokenLimit4] = fmt.Sprintf("%d", limit/4)
			}
		}
	}

	return out
}

// replacer returns a strings.Replacer over the resolved tokens, longest
// token first so COLUMN_NAME_NO_QUOTES wins over COLUMN_NAME.
func (b *Binding) replacer() *strings.Replacer {
	resolved := b.resolved()

	keys := make([]string, 0, len(resolved))
	for k := range resolved {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", resolved[k])
	}
	return strings.NewReplacer(pairs...)
}
