// Package contingency discovers association rules between low-cardinality
// columns of one table: IF cause_column=cause_value THEN
// effect_column=effect_value, holding for at least a threshold fraction of
// the cause rows. Analysis is per table; tables never share counts.
package contingency

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/dispatch"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/querybuilder"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/templates"
)

const defaultThreshold = 0.95

// Column is one candidate column: the raw name and its dialect-quoted form.
type Column struct {
	Name   string
	Quoted string
}

// TableInput is the per-table analysis request.
type TableInput struct {
	Schema  string
	Table   string
	Columns []Column
}

// Options tunes the analyzer.
type Options struct {
	// Threshold is the minimum conditional ratio for a rule, in (0,1].
	Threshold float64
	// MaxValues is the distinct-value ceiling candidates were screened by.
	MaxValues int
}

// Analyzer runs contingency analysis against a target database.
type Analyzer struct {
	builder    *querybuilder.Builder
	dispatcher *dispatch.Dispatcher
	opts       Options
	logger     *zap.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(builder *querybuilder.Builder, dispatcher *dispatch.Dispatcher, logger *zap.Logger, opts Options) *Analyzer {
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		opts.Threshold = defaultThreshold
	}
	return &Analyzer{
		builder:    builder,
		dispatcher: dispatcher,
		opts:       opts,
		logger:     logger.Named("contingency"),
	}
}

// counts holds one table's observed frequencies.
type counts struct {
	// Singles: column name → value → frequency.
	Singles map[string]map[string]int64
	// Pairs: ordered column pair → (v1, v2) → co-occurrence frequency.
	Pairs map[[2]string]map[[2]string]int64
	// Total is the table's row count, taken as the largest single-column
	// frequency sum (columns may differ through NULLs).
	Total int64
}

// AnalyzeTable gathers frequencies for one table and derives its rules.
// The returned error count reflects failed frequency queries; analysis
// proceeds on whatever counts arrived.
func (a *Analyzer) AnalyzeTable(ctx context.Context, in TableInput) ([]*models.ProfilePairRule, int, error) {
	if len(in.Columns) < 2 {
		return nil, 0, nil
	}

	sorted := make([]Column, len(in.Columns))
	copy(sorted, in.Columns)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	c, errorCt, err := a.gatherCounts(ctx, in, sorted)
	if err != nil {
		return nil, errorCt, err
	}

	rules := deriveRules(c, a.opts.Threshold)
	for _, r := range rules {
		r.SchemaName = in.Schema
		r.TableName = in.Table
	}
	a.logger.Debug("table analyzed",
		zap.String("table", in.Table),
		zap.Int("columns", len(sorted)),
		zap.Int("rules", len(rules)))
	return rules, errorCt, nil
}

func (a *Analyzer) gatherCounts(ctx context.Context, in TableInput, cols []Column) (*counts, int, error) {
	c := &counts{
		Singles: make(map[string]map[string]int64),
		Pairs:   make(map[[2]string]map[[2]string]int64),
	}

	singleQueries := make([]string, 0, len(cols))
	for _, col := range cols {
		binding := querybuilder.NewBinding().
			Set(querybuilder.TokenTargetSchema, in.Schema).
			Set(querybuilder.TokenTableName, in.Table).
			Set(querybuilder.TokenColumnName, col.Quoted).
			Set(querybuilder.TokenColumnNameNoQuotes, col.Name)
		q, err := a.builder.Build(templates.ContingencySingle, binding)
		if err != nil {
			return nil, 0, fmt.Errorf("single-frequency build for %s: %w", col.Name, err)
		}
		singleQueries = append(singleQueries, q)
	}

	singleBatch, err := a.dispatcher.Run(ctx, singleQueries, nil)
	if err != nil {
		return nil, 0, err
	}
	errorCt := singleBatch.ErrorCount
	for _, row := range singleBatch.Rows {
		m, err := dispatch.RowMap(singleBatch.Columns, row)
		if err != nil {
			continue
		}
		name := stringValue(lookup(m, "column_name"))
		value := stringValue(lookup(m, "col_value"))
		freq := intValue(lookup(m, "freq_ct"))
		if c.Singles[name] == nil {
			c.Singles[name] = make(map[string]int64)
		}
		c.Singles[name][value] += freq
	}
	for _, dist := range c.Singles {
		var sum int64
		for _, ct := range dist {
			sum += ct
		}
		if sum > c.Total {
			c.Total = sum
		}
	}

	// One pair query per unordered column pair; the per-query error policy
	// matches the singles.
	type pairRef struct{ first, second string }
	var refs []pairRef
	pairQueries := make([]string, 0, len(cols)*(len(cols)-1)/2)
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			binding := querybuilder.NewBinding().
				Set(querybuilder.TokenTargetSchema, in.Schema).
				Set(querybuilder.TokenTableName, in.Table).
				Set(querybuilder.TokenCauseColumn, cols[i].Quoted).
				Set(querybuilder.TokenEffectColumn, cols[j].Quoted)
			q, err := a.builder.Build(templates.ContingencyPair, binding)
			if err != nil {
				return nil, errorCt, fmt.Errorf("pair-frequency build for (%s, %s): %w", cols[i].Name, cols[j].Name, err)
			}
			pairQueries = append(pairQueries, q)
			refs = append(refs, pairRef{first: cols[i].Name, second: cols[j].Name})
		}
	}

	// Pair rows carry no column identity, so pair queries run one at a
	// time and are keyed by their position.
	for idx, q := range pairQueries {
		batch, err := a.dispatcher.Run(ctx, []string{q}, nil)
		if err != nil {
			return nil, errorCt, err
		}
		if batch.ErrorCount > 0 {
			errorCt += batch.ErrorCount
			continue
		}
		key := [2]string{refs[idx].first, refs[idx].second}
		if c.Pairs[key] == nil {
			c.Pairs[key] = make(map[[2]string]int64)
		}
		for _, row := range batch.Rows {
			m, err := dispatch.RowMap(batch.Columns, row)
			if err != nil {
				continue
			}
			vp := [2]string{
				stringValue(lookup(m, "cause_value")),
				stringValue(lookup(m, "effect_value")),
			}
			c.Pairs[key][vp] += intValue(lookup(m, "freq_ct"))
		}
	}

	return c, errorCt, nil
}

// deriveRules applies the support floor and ratio threshold to observed
// counts. Pure and deterministic: the same counts always produce the same
// rules in the same order. When both directions of a value pair qualify,
// only the stronger direction is emitted (ties go to column order).
func deriveRules(c *counts, threshold float64) []*models.ProfilePairRule {
	floor := math.Max(30, 0.05*float64(c.Total))

	pairKeys := make([][2]string, 0, len(c.Pairs))
	for k := range c.Pairs {
		pairKeys = append(pairKeys, k)
	}
	sort.Slice(pairKeys, func(i, j int) bool {
		if pairKeys[i][0] != pairKeys[j][0] {
			return pairKeys[i][0] < pairKeys[j][0]
		}
		return pairKeys[i][1] < pairKeys[j][1]
	})

	var rules []*models.ProfilePairRule
	for _, pk := range pairKeys {
		firstCol, secondCol := pk[0], pk[1]
		valuePairs := c.Pairs[pk]

		vpKeys := make([][2]string, 0, len(valuePairs))
		for vp := range valuePairs {
			vpKeys = append(vpKeys, vp)
		}
		sort.Slice(vpKeys, func(i, j int) bool {
			if vpKeys[i][0] != vpKeys[j][0] {
				return vpKeys[i][0] < vpKeys[j][0]
			}
			return vpKeys[i][1] < vpKeys[j][1]
		})

		for _, vp := range vpKeys {
			pairCt := valuePairs[vp]
			firstOverall := c.Singles[firstCol][vp[0]]
			secondOverall := c.Singles[secondCol][vp[1]]
			if firstOverall == 0 || secondOverall == 0 {
				continue
			}
			if float64(firstOverall) < floor && float64(secondOverall) < floor {
				continue
			}

			ratioFirst := float64(pairCt) / float64(firstOverall)
			ratioSecond := float64(pairCt) / float64(secondOverall)
			if ratioFirst < threshold && ratioSecond < threshold {
				continue
			}

			if ratioFirst >= threshold && ratioFirst >= ratioSecond {
				rules = append(rules, &models.ProfilePairRule{
					CauseColumn:  firstCol,
					CauseValue:   vp[0],
					EffectColumn: secondCol,
					EffectValue:  vp[1],
					PairCount:    pairCt,
					CauseTotal:   firstOverall,
					EffectTotal:  secondOverall,
					Ratio:        ratioFirst,
				})
				continue
			}
			rules = append(rules, &models.ProfilePairRule{
				CauseColumn:  secondCol,
				CauseValue:   vp[1],
				EffectColumn: firstCol,
				EffectValue:  vp[0],
				PairCount:    pairCt,
				CauseTotal:   secondOverall,
				EffectTotal:  firstOverall,
				Ratio:        ratioSecond,
			})
		}
	}
	return rules
}

func lookup(m map[string]any, name string) any {
	if v, ok := m[name]; ok {
		return v
	}
	// Some drivers uppercase result column names.
	for k, v := range m {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return nil
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func intValue(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case []byte:
		var n int64
		_, _ = fmt.Sscanf(string(t), "%d", &n)
		return n
	case string:
		var n int64
		_, _ = fmt.Sscanf(t, "%d", &n)
		return n
	default:
		return 0
	}
}
