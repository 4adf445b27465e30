package profiling

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/dispatch"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/querybuilder"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/repositories"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/targetdb"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/templates"
)

const (
	// freqMaxLength bounds which alpha columns get frequency analysis.
	freqMaxLength = 50
	topValueLimit = 10
	topPatternLimit = 5
)

// roundTwo runs top-value and top-pattern frequency queries for qualifying
// alpha columns and applies the digests as updates. Queries are batched per
// table so results can be keyed back by column name alone.
func (o *Orchestrator) roundTwo(ctx context.Context, logger *zap.Logger, run *models.ProfilingRun, conn *models.Connection, session *targetdb.Session, builder *querybuilder.Builder, dispatcher *dispatch.Dispatcher, results []*models.ProfileResult) int {
	byTable := make(map[tableKey][]*models.ProfileResult)
	for _, pr := range results {
		if !qualifiesForFrequency(pr) {
			continue
		}
		k := tableKey{Schema: pr.SchemaName, Table: pr.TableName}
		byTable[k] = append(byTable[k], pr)
	}

	keys := make([]tableKey, 0, len(byTable))
	for k := range byTable {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Schema != keys[j].Schema {
			return keys[i].Schema < keys[j].Schema
		}
		return keys[i].Table < keys[j].Table
	})

	errorCt := 0
	for _, k := range keys {
		errorCt += o.freqTableBatch(ctx, logger, run, conn, session, builder, dispatcher, k, byTable[k])
	}
	return errorCt
}

func qualifiesForFrequency(pr *models.ProfileResult) bool {
	if pr.GeneralType != models.GeneralTypeAlpha || pr.ValueCt == 0 {
		return false
	}
	return pr.MaxLength != nil && *pr.MaxLength <= freqMaxLength
}

func (o *Orchestrator) freqTableBatch(ctx context.Context, logger *zap.Logger, run *models.ProfilingRun, conn *models.Connection, session *targetdb.Session, builder *querybuilder.Builder, dispatcher *dispatch.Dispatcher, k tableKey, cols []*models.ProfileResult) int {
	errorCt := 0
	byName := make(map[string]*models.ProfileResult, len(cols))

	valueQueries := make([]string, 0, len(cols))
	patternQueries := make([]string, 0, len(cols))
	for _, pr := range cols {
		byName[strings.ToLower(pr.ColumnName)] = pr
		quoted := session.Dialect.QuoteIdentifier(pr.ColumnName)

		binding := querybuilder.NewBinding().
			Set(querybuilder.TokenTargetSchema, k.Schema).
			Set(querybuilder.TokenTargetQCSchema, conn.EffectiveQCSchema()).
			Set(querybuilder.TokenTableName, k.Table).
			Set(querybuilder.TokenColumnName, quoted).
			Set(querybuilder.TokenColumnNameNoQuotes, pr.ColumnName).
			SetInt(querybuilder.TokenLimit, topValueLimit)
		if q, err := builder.Build(templates.FreqTopValues, binding); err == nil {
			valueQueries = append(valueQueries, q)
		} else {
			logger.Warn("top-values build failed", zap.String("column", pr.ColumnName), zap.Error(err))
			errorCt++
		}

		if pr.DistinctPatternCt != nil && *pr.DistinctPatternCt > 0 {
			pb := querybuilder.NewBinding().
				Set(querybuilder.TokenTargetSchema, k.Schema).
				Set(querybuilder.TokenTargetQCSchema, conn.EffectiveQCSchema()).
				Set(querybuilder.TokenTableName, k.Table).
				Set(querybuilder.TokenColumnName, quoted).
				Set(querybuilder.TokenColumnNameNoQuotes, pr.ColumnName).
				SetInt(querybuilder.TokenLimit, topPatternLimit)
			if q, err := builder.Build(templates.FreqTopPatterns, pb); err == nil {
				patternQueries = append(patternQueries, q)
			} else {
				logger.Warn("top-patterns build failed", zap.String("column", pr.ColumnName), zap.Error(err))
				errorCt++
			}
		}
	}

	valueBatch, err := dispatcher.Run(ctx, valueQueries, nil)
	if err != nil {
		return errorCt + len(valueQueries) + len(patternQueries)
	}
	errorCt += valueBatch.ErrorCount
	for name, digest := range digestByColumn(valueBatch, "freq_value") {
		pr, ok := byName[name]
		if !ok {
			continue
		}
		var stdCt int64
		if pr.DistinctStdValueCt != nil {
			stdCt = *pr.DistinctStdValueCt
		}
		if err := o.results.ApplyTopFreqValues(ctx, run.ID, pr.Ident(), digest, stdCt); err != nil {
			logger.Warn("failed to store top values", zap.String("column", pr.ColumnName), zap.Error(err))
			errorCt++
		}
	}

	patternBatch, err := dispatcher.Run(ctx, patternQueries, nil)
	if err != nil {
		return errorCt + len(patternQueries)
	}
	errorCt += patternBatch.ErrorCount
	for name, digest := range digestByColumn(patternBatch, "pattern_value") {
		pr, ok := byName[name]
		if !ok {
			continue
		}
		var patternCt int64
		if pr.DistinctPatternCt != nil {
			patternCt = *pr.DistinctPatternCt
		}
		stdMatch := matchStdPattern(firstDigestValue(digest))
		if err := o.results.ApplyTopPatterns(ctx, run.ID, pr.Ident(), digest, patternCt, stdMatch); err != nil {
			logger.Warn("failed to store top patterns", zap.String("column", pr.ColumnName), zap.Error(err))
			errorCt++
		}
	}

	return errorCt
}

// digestByColumn renders each column's frequency rows as one digest string,
// one "| value | count" line per entry, preserving the query's descending
// frequency order.
func digestByColumn(batch *dispatch.BatchResult, valueColumn string) map[string]string {
	lines := make(map[string][]string)
	for _, row := range batch.Rows {
		rv, err := newRowValues(batch.Columns, row)
		if err != nil {
			continue
		}
		name := strings.ToLower(rv.str("column_name"))
		lines[name] = append(lines[name],
			fmt.Sprintf("| %s | %d", rv.str(valueColumn), rv.int64("freq_ct")))
	}

	digests := make(map[string]string, len(lines))
	for name, ls := range lines {
		digests[name] = strings.Join(ls, "\n")
	}
	return digests
}

// firstDigestValue extracts the value of the first digest line.
func firstDigestValue(digest string) string {
	line, _, _ := strings.Cut(digest, "\n")
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// enrich applies the secondary derivations: datatype suggestion, the
// functional-type rules engine, and the table-level classification.
func (o *Orchestrator) enrich(ctx context.Context, run *models.ProfilingRun, tg *models.TableGroup, stored []*models.ProfileResult) error {
	byTable := make(map[tableKey][]*models.ProfileResult)
	for _, pr := range stored {
		k := tableKey{Schema: pr.SchemaName, Table: pr.TableName}
		byTable[k] = append(byTable[k], pr)
	}

	for _, pr := range stored {
		funcType, piiRisk := classifyFunctionalType(pr, tg.ProfileIDColumnMask, tg.ProfileSKColumnMask)
		pr.FunctionalDataType = funcType
		e := repositories.Enrichment{
			DatatypeSuggestion: suggestDatatype(pr),
			FunctionalDataType: funcType,
			PIIFlag:            piiRisk,
		}
		if err := o.results.ApplyEnrichment(ctx, run.ID, pr.Ident(), e); err != nil {
			return err
		}
	}

	for k, cols := range byTable {
		tableType := classifyTableType(cols)
		if tableType == "" {
			continue
		}
		if err := o.results.ApplyFunctionalTableType(ctx, run.ID, k.Schema, k.Table, tableType); err != nil {
			return err
		}
	}
	return nil
}
