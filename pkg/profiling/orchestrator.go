// Package profiling runs the profiling lifecycle for a table group: column
// discovery, round-1 statistics, frequency analysis, enrichment, anomaly
// detection, catalog refresh, contingency rules, and score rollups.
package profiling

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/apperrors"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/config"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/contingency"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/database"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/dispatch"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/logging"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/querybuilder"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/repositories"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/targetdb"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/templates"
)

// Orchestrator coordinates one profiling run end to end. Phases run
// strictly in sequence; per-query failures are counted and surfaced in the
// run summary without aborting the run.
type Orchestrator struct {
	cfg         *config.Config
	connections repositories.ConnectionRepository
	tableGroups repositories.TableGroupRepository
	runs        repositories.ProfilingRunRepository
	results     repositories.ProfileResultRepository
	anomalies   repositories.AnomalyRepository
	pairRules   repositories.PairRuleRepository
	chars       repositories.CharsRepository
	logger      *zap.Logger
}

// NewOrchestrator creates an Orchestrator over the metadata store.
func NewOrchestrator(cfg *config.Config, db *database.DB, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		connections: repositories.NewConnectionRepository(db),
		tableGroups: repositories.NewTableGroupRepository(db),
		runs:        repositories.NewProfilingRunRepository(db),
		results:     repositories.NewProfileResultRepository(db),
		anomalies:   repositories.NewAnomalyRepository(db),
		pairRules:   repositories.NewPairRuleRepository(db),
		chars:       repositories.NewCharsRepository(db),
		logger:      logger.Named("profiling"),
	}
}

// columnMeta is one discovered column.
type columnMeta struct {
	Schema       string
	Table        string
	Column       string
	ColumnType   string
	Position     int
	NumericScale int
	General      models.GeneralType
}

// RunProfiling executes the full lifecycle for a table group and returns
// the run summary. The finalize block always runs: whatever happens in the
// body, the run row ends in a terminal status with a log message.
func (o *Orchestrator) RunProfiling(ctx context.Context, tableGroupID uuid.UUID) (*models.RunSummary, error) {
	start := time.Now()

	tg, err := o.tableGroups.GetByID(ctx, tableGroupID)
	if err != nil {
		return nil, err
	}
	conn, err := o.connections.GetByID(ctx, tg.ConnectionID)
	if err != nil {
		return nil, err
	}
	if conn.MaxThreads <= 0 {
		conn.MaxThreads = o.cfg.Profiling.MaxThreads
	}
	if conn.MaxQueryChars <= 0 {
		conn.MaxQueryChars = o.cfg.Profiling.MaxQueryChars
	}

	run := &models.ProfilingRun{
		ID:           uuid.New(),
		TableGroupID: tg.ID,
		ConnectionID: conn.ID,
		StartTime:    time.Now().UTC(),
		Status:       models.RunStatusRunning,
		ProcessID:    os.Getpid(),
	}
	if err := o.runs.Create(ctx, run); err != nil {
		return nil, err
	}

	logger := o.logger.With(
		zap.String("profile_run_id", run.ID.String()),
		zap.String("table_group", tg.Name),
		zap.String("flavor", string(conn.SQLFlavor)))
	logger.Info("profiling run started", zap.Int("process_id", run.ProcessID))

	summary := &models.RunSummary{RunID: run.ID}
	runErr := o.execute(ctx, logger, run, tg, conn, summary)

	if runErr == nil {
		runErr = o.rollupScores(ctx, run.ID)
	}

	status := models.RunStatusComplete
	var logMessage string
	switch {
	case runErr != nil:
		status = models.RunStatusError
		logMessage = logging.StripSQLTail(runErr.Error())
	case summary.ErrorCt > 0:
		logMessage = fmt.Sprintf("Completed with %d query errors", summary.ErrorCt)
	}

	if err := o.runs.Finalize(ctx, run.ID, status, logMessage); err != nil {
		logger.Error("failed to finalize profiling run", zap.Error(err))
		if runErr == nil {
			runErr = err
		}
	}

	summary.Status = status
	summary.LogMessage = logMessage
	summary.ElapsedSecs = time.Since(start).Seconds()

	logger.Info("profiling run finished",
		zap.String("status", string(status)),
		zap.Int("table_ct", summary.TableCt),
		zap.Int("column_ct", summary.ColumnCt),
		zap.Int("anomaly_ct", summary.AnomalyCt),
		zap.Int("error_ct", summary.ErrorCt),
		zap.Float64("elapsed_secs", summary.ElapsedSecs))

	if runErr != nil {
		return summary, runErr
	}
	return summary, nil
}

// execute is the run body. Returning an error marks the run Error; the
// caller's finalize still runs.
func (o *Orchestrator) execute(ctx context.Context, logger *zap.Logger, run *models.ProfilingRun, tg *models.TableGroup, conn *models.Connection, summary *models.RunSummary) error {
	session, err := targetdb.Connect(ctx, conn)
	if err != nil {
		return fmt.Errorf("connect to target database: %w", err)
	}
	defer session.Close()

	builder := querybuilder.New(session.Dialect)
	dispatcher := dispatch.New(session, session.MaxThreads, logger)

	cols, err := o.discoverColumns(ctx, session, builder, tg)
	if err != nil {
		return fmt.Errorf("column discovery: %w", err)
	}
	tables := groupByTable(cols)
	summary.TableCt = len(tables)
	summary.ColumnCt = len(cols)
	if err := o.runs.UpdateCounts(ctx, run.ID, len(tables), len(cols)); err != nil {
		return err
	}

	if len(cols) == 0 {
		// Nothing in scope is still a successful run.
		logger.Info("no columns matched the table group scope")
		return nil
	}
	logger.Info("columns discovered",
		zap.Int("tables", len(tables)), zap.Int("columns", len(cols)))

	plans, errCt := o.planTableSampling(ctx, logger, tg, session, builder, dispatcher, tables)
	summary.ErrorCt += errCt

	results, errCt, err := o.roundOne(ctx, logger, run, tg, conn, session, builder, dispatcher, cols, plans)
	summary.ErrorCt += errCt
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("%w: %d columns discovered, every profiling query failed",
			apperrors.ErrNoColumnsProfiled, len(cols))
	}
	if err := o.results.BulkInsert(ctx, results); err != nil {
		return err
	}

	if tg.UseSampling {
		scaled, err := o.results.ScaleSampledCounts(ctx, run.ID)
		if err != nil {
			return err
		}
		logger.Debug("sampled counts scaled", zap.Int64("rows", scaled))
	}

	errCt = o.roundTwo(ctx, logger, run, conn, session, builder, dispatcher, results)
	summary.ErrorCt += errCt

	stored, err := o.results.ListByRun(ctx, run.ID)
	if err != nil {
		return err
	}
	if err := o.enrich(ctx, run, tg, stored); err != nil {
		return err
	}

	anomalyCt, errCt, err := o.detectAnomalies(ctx, logger, run, tg)
	summary.AnomalyCt = anomalyCt
	summary.ErrorCt += errCt
	if err != nil {
		return err
	}

	if err := o.chars.RefreshFromRun(ctx, run.ID, tg.ID); err != nil {
		return fmt.Errorf("catalog refresh: %w", err)
	}

	if tg.ProfileFlagCDEs {
		flagged, err := o.results.MarkCriticalDataElements(ctx, run.ID, cdeFunctionalTypes)
		if err != nil {
			return err
		}
		logger.Debug("critical data elements flagged", zap.Int64("columns", flagged))
	}

	if tg.ProfileDoPairRules {
		ruleCt, errCt, err := o.runContingency(ctx, logger, run, tg, session, builder, dispatcher, stored)
		summary.PairRuleCt = ruleCt
		summary.ErrorCt += errCt
		if err != nil {
			return err
		}
	}

	return nil
}

// discoverColumns issues the DDF query and classifies each column's general
// type in Go.
func (o *Orchestrator) discoverColumns(ctx context.Context, session *targetdb.Session, builder *querybuilder.Builder, tg *models.TableGroup) ([]columnMeta, error) {
	binding := querybuilder.NewBinding().
		Set(querybuilder.TokenTargetSchema, tg.Schema).
		Set(querybuilder.TokenTableCriteria, tableCriteria(tg))

	query, err := builder.Build(templates.ColumnDiscovery, binding)
	if err != nil {
		return nil, err
	}

	rows, columns, err := session.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	cols := make([]columnMeta, 0, len(rows))
	for _, row := range rows {
		rv, err := newRowValues(columns, row)
		if err != nil {
			return nil, err
		}
		meta := columnMeta{
			Schema:       rv.str("schema_name"),
			Table:        rv.str("table_name"),
			Column:       rv.str("column_name"),
			ColumnType:   rv.str("column_type"),
			Position:     int(rv.int64("position")),
			NumericScale: int(rv.int64("numeric_scale")),
		}
		meta.General = classifyGeneralType(meta.ColumnType, meta.NumericScale)
		cols = append(cols, meta)
	}
	return cols, nil
}

// tableCriteria renders the table group's scope as a WHERE fragment over
// information_schema. Explicit table lists bypass mask matching.
func tableCriteria(tg *models.TableGroup) string {
	if len(tg.ExplicitTableList) > 0 {
		quoted := make([]string, len(tg.ExplicitTableList))
		for i, t := range tg.ExplicitTableList {
			quoted[i] = "'" + strings.ReplaceAll(t, "'", "''") + "'"
		}
		return "c.table_name IN (" + strings.Join(quoted, ", ") + ")"
	}

	var parts []string
	if tg.TablesToIncludeMask != "" {
		parts = append(parts, "c.table_name LIKE '"+strings.ReplaceAll(tg.TablesToIncludeMask, "'", "''")+"'")
	}
	if tg.TablesToExcludeMask != "" {
		parts = append(parts, "c.table_name NOT LIKE '"+strings.ReplaceAll(tg.TablesToExcludeMask, "'", "''")+"'")
	}
	if len(parts) == 0 {
		return "1=1"
	}
	return strings.Join(parts, " AND ")
}

type tableKey struct {
	Schema string
	Table  string
}

func groupByTable(cols []columnMeta) map[tableKey][]columnMeta {
	tables := make(map[tableKey][]columnMeta)
	for _, c := range cols {
		k := tableKey{Schema: c.Schema, Table: c.Table}
		tables[k] = append(tables[k], c)
	}
	return tables
}

func sortedTableKeys(tables map[tableKey][]columnMeta) []tableKey {
	keys := make([]tableKey, 0, len(tables))
	for k := range tables {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Schema != keys[j].Schema {
			return keys[i].Schema < keys[j].Schema
		}
		return keys[i].Table < keys[j].Table
	})
	return keys
}

// planTableSampling probes row counts and decides per-table sampling.
// Probe failures are counted, not fatal: the affected table is profiled
// without sampling.
func (o *Orchestrator) planTableSampling(ctx context.Context, logger *zap.Logger, tg *models.TableGroup, session *targetdb.Session, builder *querybuilder.Builder, dispatcher *dispatch.Dispatcher, tables map[tableKey][]columnMeta) (map[tableKey]samplingPlan, int) {
	plans := make(map[tableKey]samplingPlan, len(tables))
	for k := range tables {
		plans[k] = samplingPlan{SampleSize: -1}
	}
	if !tg.UseSampling {
		return plans, 0
	}

	keys := sortedTableKeys(tables)
	queries := make([]string, 0, len(keys))
	for _, k := range keys {
		binding := querybuilder.NewBinding().
			Set(querybuilder.TokenTargetSchema, k.Schema).
			Set(querybuilder.TokenTableName, k.Table)
		q, err := builder.Build(templates.TableRowCount, binding)
		if err != nil {
			logger.Warn("row-count probe build failed",
				zap.String("table", k.Table), zap.Error(err))
			continue
		}
		queries = append(queries, q)
	}

	batch, err := dispatcher.Run(ctx, queries, nil)
	if err != nil {
		return plans, len(queries)
	}

	for _, row := range batch.Rows {
		rv, err := newRowValues(batch.Columns, row)
		if err != nil {
			continue
		}
		k := tableKey{Schema: tg.Schema, Table: rv.str("table_name")}
		cols, ok := tables[k]
		if !ok || len(cols) == 0 {
			continue
		}
		probeColumn := session.Dialect.QuoteIdentifier(cols[0].Column)
		plan := planSampling(session.Dialect, tg, rv.int64("record_ct"), probeColumn)
		plans[k] = plan
		if plan.Sampled {
			logger.Debug("table will be sampled",
				zap.String("table", k.Table),
				zap.Float64("percent", plan.Percent))
		}
	}
	return plans, batch.ErrorCount
}

// roundOne builds one statistics query per column, composes them into
// UNION ALL batches bounded by max_query_chars, dispatches, and ingests
// the rows into ProfileResult values.
func (o *Orchestrator) roundOne(ctx context.Context, logger *zap.Logger, run *models.ProfilingRun, tg *models.TableGroup, conn *models.Connection, session *targetdb.Session, builder *querybuilder.Builder, dispatcher *dispatch.Dispatcher, cols []columnMeta, plans map[tableKey]samplingPlan) ([]*models.ProfileResult, int, error) {
	errorCt := 0
	queries := make([]string, 0, len(cols))
	for _, col := range cols {
		plan := plans[tableKey{Schema: col.Schema, Table: col.Table}]
		q, err := o.buildRoundOneQuery(builder, session, conn, col, plan)
		if err != nil {
			logger.Warn("round-1 query build failed",
				zap.String("table", col.Table),
				zap.String("column", col.Column),
				zap.Error(err))
			errorCt++
			continue
		}
		queries = append(queries, q)
	}

	chunks, err := querybuilder.BuildChunked(queries, session.MaxQueryChars)
	if err != nil {
		return nil, errorCt, err
	}
	logger.Info("round-1 profiling dispatched",
		zap.Int("columns", len(queries)), zap.Int("batches", len(chunks)))

	batch, err := dispatcher.Run(ctx, chunks, func(done, total int) {
		logger.Debug("round-1 progress", zap.Int("done", done), zap.Int("total", total))
	})
	if err != nil {
		return nil, errorCt, err
	}
	errorCt += batch.ErrorCount

	now := time.Now().UTC()
	results := make([]*models.ProfileResult, 0, len(batch.Rows))
	for _, row := range batch.Rows {
		pr, err := profileResultFromRow(batch.Columns, row)
		if err != nil {
			logger.Warn("unusable round-1 row", zap.Error(err))
			errorCt++
			continue
		}
		pr.ProfileRunID = run.ID
		pr.TableGroupID = tg.ID
		pr.RunDate = now

		plan := plans[tableKey{Schema: pr.SchemaName, Table: pr.TableName}]
		if plan.Sampled {
			ratio := plan.Ratio
			pct := plan.Percent
			pr.SampleRatio = &ratio
			pr.SamplePercentCalc = &pct
		}
		results = append(results, pr)
	}
	return results, errorCt, nil
}

func (o *Orchestrator) buildRoundOneQuery(builder *querybuilder.Builder, session *targetdb.Session, conn *models.Connection, col columnMeta, plan samplingPlan) (string, error) {
	quoted := session.Dialect.QuoteIdentifier(col.Column)

	templateName := ""
	columnExpr := quoted
	switch col.General {
	case models.GeneralTypeAlpha:
		templateName = templates.ProfileAlpha
	case models.GeneralTypeNumeric:
		templateName = templates.ProfileNumeric
	case models.GeneralTypeDate:
		templateName = templates.ProfileDate
	case models.GeneralTypeBoolean:
		templateName = templates.ProfileBoolean
	case models.GeneralTypeTime:
		// Time-of-day columns are profiled as text through a cast.
		templateName = templates.ProfileAlpha
		columnExpr = "{{DKFN_TO_CHAR(" + quoted + ")}}"
	default:
		return "", fmt.Errorf("no profiling branch for general type %q", col.General)
	}

	binding := querybuilder.NewBinding().
		Set(querybuilder.TokenTargetSchema, col.Schema).
		Set(querybuilder.TokenTargetQCSchema, conn.EffectiveQCSchema()).
		Set(querybuilder.TokenTableName, col.Table).
		Set(querybuilder.TokenColumnName, columnExpr).
		Set(querybuilder.TokenColumnNameNoQuotes, col.Column).
		SetInt(querybuilder.TokenOrdinalPosition, col.Position).
		Set(querybuilder.TokenColumnType, col.ColumnType).
		Set(querybuilder.TokenSamplingTableSuffix, plan.Suffix).
		Set(querybuilder.TokenSamplingCondition, plan.Condition)

	return builder.Build(templateName, binding)
}

// rollupScores refreshes dq_score_profiling on the run, its columns, and
// the table group. Runs only for successful runs, before finalize.
func (o *Orchestrator) rollupScores(ctx context.Context, runID uuid.UUID) error {
	builder, err := metadataBuilder()
	if err != nil {
		return err
	}
	binding := querybuilder.NewBinding().
		Set(querybuilder.TokenProfileRunID, runID.String())

	for _, name := range []string{
		templates.ScoreColumnRollup,
		templates.ScoreRunRollup,
		templates.ScoreGroupRollup,
	} {
		stmt, err := builder.Build(name, binding)
		if err != nil {
			return fmt.Errorf("score rollup %s: %w", name, err)
		}
		if err := o.runs.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("score rollup %s: %w", name, err)
		}
	}
	return nil
}

// runContingency discovers pair rules table by table. Target-DB failures
// are counted per table; rule persistence is one bulk write at the end.
func (o *Orchestrator) runContingency(ctx context.Context, logger *zap.Logger, run *models.ProfilingRun, tg *models.TableGroup, session *targetdb.Session, builder *querybuilder.Builder, dispatcher *dispatch.Dispatcher, stored []*models.ProfileResult) (int, int, error) {
	analyzer := contingency.NewAnalyzer(builder, dispatcher, logger, contingency.Options{
		Threshold: tg.PairRuleThreshold(),
		MaxValues: o.cfg.Profiling.ContingencyMaxValues,
	})

	byTable := make(map[tableKey][]*models.ProfileResult)
	for _, pr := range stored {
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
	var all []*models.ProfilePairRule
	for _, k := range keys {
		var candidates []contingency.Column
		for _, pr := range byTable[k] {
			if pr.GeneralType != models.GeneralTypeAlpha || pr.ValueCt == 0 {
				continue
			}
			if pr.DistinctValueCt < 2 || pr.DistinctValueCt > int64(o.cfg.Profiling.ContingencyMaxValues) {
				continue
			}
			candidates = append(candidates, contingency.Column{
				Name:   pr.ColumnName,
				Quoted: session.Dialect.QuoteIdentifier(pr.ColumnName),
			})
		}
		if len(candidates) < 2 {
			continue
		}

		rules, errCt, err := analyzer.AnalyzeTable(ctx, contingency.TableInput{
			Schema:  k.Schema,
			Table:   k.Table,
			Columns: candidates,
		})
		errorCt += errCt
		if err != nil {
			logger.Warn("contingency analysis failed",
				zap.String("table", k.Table), zap.Error(err))
			errorCt++
			continue
		}
		for _, rule := range rules {
			rule.ProfileRunID = run.ID
			rule.TableGroupID = tg.ID
		}
		all = append(all, rules...)
	}

	if err := o.pairRules.BulkInsert(ctx, all); err != nil {
		return 0, errorCt, err
	}
	logger.Info("contingency rules persisted", zap.Int("rules", len(all)))
	return len(all), errorCt, nil
}
