// Package testgen synthesises validation-test definitions from the latest
// profile of a table group. Regeneration replaces unlocked definitions;
// locked ones survive untouched.
package testgen

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/database"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/repositories"
)

// Test type names persisted to test_definitions.
const (
	TestMissingPct   = "Missing_Pct"
	TestMinValue     = "Min_Val"
	TestMaxValue     = "Max_Val"
	TestDistinctCt   = "Distinct_Value_Ct"
	TestPatternMatch = "Pattern_Match"
	TestFutureDates  = "Future_Dates"
)

// categoryMaxDistinct bounds which columns get a cardinality test.
const categoryMaxDistinct = 20

// Generator derives test definitions from profile results.
type Generator struct {
	runs    repositories.ProfilingRunRepository
	results repositories.ProfileResultRepository
	defs    repositories.TestDefinitionRepository
	logger  *zap.Logger
}

// NewGenerator creates a Generator over the metadata store.
func NewGenerator(db *database.DB, logger *zap.Logger) *Generator {
	return &Generator{
		runs:    repositories.NewProfilingRunRepository(db),
		results: repositories.NewProfileResultRepository(db),
		defs:    repositories.NewTestDefinitionRepository(db),
		logger:  logger.Named("testgen"),
	}
}

// Generate replaces the unlocked definitions of one suite with tests
// derived from the table group's latest complete profile. Returns the
// number of definitions written.
func (g *Generator) Generate(ctx context.Context, tableGroupID uuid.UUID, suiteKey string) (int, error) {
	if suiteKey == "" {
		return 0, fmt.Errorf("test suite key is required")
	}

	run, err := g.runs.LatestComplete(ctx, tableGroupID)
	if err != nil {
		return 0, err
	}

	results, err := g.results.ListByRun(ctx, run.ID)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("profiling run %s has no results to generate from", run.ID)
	}

	existing, err := g.defs.ListBySuite(ctx, tableGroupID, suiteKey)
	if err != nil {
		return 0, err
	}
	locked := make(map[string]bool)
	for _, td := range existing {
		if td.Locked {
			locked[defKey(td.TableName, td.ColumnName, td.TestType)] = true
		}
	}

	removed, err := g.defs.DeleteUnlocked(ctx, tableGroupID, suiteKey)
	if err != nil {
		return 0, err
	}

	asOf := run.StartTime
	now := time.Now().UTC()
	var defs []*models.TestDefinition
	for _, pr := range results {
		for _, td := range deriveColumnTests(pr) {
			if locked[defKey(td.TableName, td.ColumnName, td.TestType)] {
				continue
			}
			td.TableGroupID = tableGroupID
			td.TestSuiteKey = suiteKey
			td.TestActive = true
			td.ProfilingAsOf = &asOf
			td.LastAutoGenDate = &now
			defs = append(defs, td)
		}
	}

	if err := g.defs.BulkInsert(ctx, defs); err != nil {
		return 0, err
	}

	g.logger.Info("test definitions generated",
		zap.String("table_group_id", tableGroupID.String()),
		zap.String("test_suite", suiteKey),
		zap.Int64("replaced", removed),
		zap.Int("generated", len(defs)),
		zap.Int("locked_preserved", len(locked)))
	return len(defs), nil
}

func defKey(table, column, testType string) string {
	return table + "\x00" + column + "\x00" + testType
}

// deriveColumnTests maps one profiled column to its candidate tests.
// Baselines capture the generating profile so later runs compare against a
// known-good state.
func deriveColumnTests(pr *models.ProfileResult) []*models.TestDefinition {
	base := func(testType string) *models.TestDefinition {
		return &models.TestDefinition{
			TestType:   testType,
			SchemaName: pr.SchemaName,
			TableName:  pr.TableName,
			ColumnName: pr.ColumnName,
		}
	}

	var defs []*models.TestDefinition

	if pr.RecordCt > 0 {
		td := base(TestMissingPct)
		nullCt := pr.NullValueCt
		td.BaselineCt = &nullCt
		threshold := roundTo(float64(nullCt)/float64(pr.RecordCt), 4)
		td.ThresholdValue = &threshold
		defs = append(defs, td)
	}

	if pr.GeneralType == models.GeneralTypeNumeric && pr.MinValue != nil && pr.MaxValue != nil {
		spread := *pr.MaxValue - *pr.MinValue
		tolerance := roundTo(spread*0.1, 4)

		minTest := base(TestMinValue)
		minStr := strconv.FormatFloat(*pr.MinValue, 'f', -1, 64)
		minTest.BaselineValue = &minStr
		minTest.BaselineAvg = pr.AvgValue
		minTest.BaselineSD = pr.StdevValue
		lower := tolerance
		minTest.LowerTolerance = &lower
		defs = append(defs, minTest)

		maxTest := base(TestMaxValue)
		maxStr := strconv.FormatFloat(*pr.MaxValue, 'f', -1, 64)
		maxTest.BaselineValue = &maxStr
		maxTest.BaselineAvg = pr.AvgValue
		maxTest.BaselineSD = pr.StdevValue
		upper := tolerance
		maxTest.UpperTolerance = &upper
		defs = append(defs, maxTest)
	}

	if pr.GeneralType == models.GeneralTypeAlpha &&
		pr.DistinctValueCt >= 2 && pr.DistinctValueCt <= categoryMaxDistinct &&
		pr.ValueCt > 0 && pr.DistinctValueCt < pr.ValueCt {
		td := base(TestDistinctCt)
		distinct := pr.DistinctValueCt
		td.BaselineCt = &distinct
		threshold := float64(distinct)
		td.ThresholdValue = &threshold
		defs = append(defs, td)
	}

	if pr.StdPatternMatch != nil && *pr.StdPatternMatch != "" {
		td := base(TestPatternMatch)
		pattern := *pr.StdPatternMatch
		td.BaselineValue = &pattern
		defs = append(defs, td)
	}

	if pr.GeneralType == models.GeneralTypeDate &&
		(pr.FutureDateCt == nil || *pr.FutureDateCt == 0) {
		defs = append(defs, base(TestFutureDates))
	}

	return defs
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}
