package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/database"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

// TestDefinitionRepository provides data access for generated test
// definitions.
type TestDefinitionRepository interface {
	// ListBySuite returns all definitions in a suite for a table group.
	ListBySuite(ctx context.Context, tableGroupID uuid.UUID, suiteKey string) ([]*models.TestDefinition, error)

	// DeleteUnlocked removes every non-locked definition in a suite so
	// regeneration can replace them. Locked definitions survive.
	DeleteUnlocked(ctx context.Context, tableGroupID uuid.UUID, suiteKey string) (int64, error)

	// BulkInsert writes freshly generated definitions in one COPY.
	BulkInsert(ctx context.Context, defs []*models.TestDefinition) error
}

type testDefinitionRepository struct {
	db *database.DB
}

// NewTestDefinitionRepository creates a new TestDefinitionRepository.
func NewTestDefinitionRepository(db *database.DB) TestDefinitionRepository {
	return &testDefinitionRepository{db: db}
}

var _ TestDefinitionRepository = (*testDefinitionRepository)(nil)

func (r *testDefinitionRepository) ListBySuite(ctx context.Context, tableGroupID uuid.UUID, suiteKey string) ([]*models.TestDefinition, error) {
	query := `
		SELECT id, table_groups_id, test_suite, test_type,
		       schema_name, table_name, column_name,
		       baseline_value, baseline_ct, baseline_avg, baseline_sd,
		       threshold_value, lower_tolerance, upper_tolerance, subset_condition,
		       lock_refresh, test_active, profiling_as_of_date, last_auto_gen_date
		FROM test_definitions
		WHERE table_groups_id = $1 AND test_suite = $2
		ORDER BY schema_name, table_name, column_name, test_type`

	rows, err := r.db.Query(ctx, query, tableGroupID, suiteKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list test definitions: %w", err)
	}
	defer rows.Close()

	var defs []*models.TestDefinition
	for rows.Next() {
		var td models.TestDefinition
		err := rows.Scan(
			&td.ID, &td.TableGroupID, &td.TestSuiteKey, &td.TestType,
			&td.SchemaName, &td.TableName, &td.ColumnName,
			&td.BaselineValue, &td.BaselineCt, &td.BaselineAvg, &td.BaselineSD,
			&td.ThresholdValue, &td.LowerTolerance, &td.UpperTolerance, &td.SubsetCondition,
			&td.Locked, &td.TestActive, &td.ProfilingAsOf, &td.LastAutoGenDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan test definition: %w", err)
		}
		defs = append(defs, &td)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate test definitions: %w", err)
	}
	return defs, nil
}

func (r *testDefinitionRepository) DeleteUnlocked(ctx context.Context, tableGroupID uuid.UUID, suiteKey string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM test_definitions
		  WHERE table_groups_id = $1 AND test_suite = $2 AND NOT lock_refresh`,
		tableGroupID, suiteKey)
	if err != nil {
		return 0, fmt.Errorf("failed to delete unlocked test definitions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *testDefinitionRepository) BulkInsert(ctx context.Context, defs []*models.TestDefinition) error {
	if len(defs) == 0 {
		return nil
	}

	columns := []string{
		"id", "table_groups_id", "test_suite", "test_type",
		"schema_name", "table_name", "column_name",
		"baseline_value", "baseline_ct", "baseline_avg", "baseline_sd",
		"threshold_value", "lower_tolerance", "upper_tolerance", "subset_condition",
		"lock_refresh", "test_active", "profiling_as_of_date", "last_auto_gen_date",
	}

	rows := make([][]any, len(defs))
	for i, td := range defs {
		if td.ID == uuid.Nil {
			td.ID = uuid.New()
		}
		rows[i] = []any{
			td.ID, td.TableGroupID, td.TestSuiteKey, td.TestType,
			td.SchemaName, td.TableName, td.ColumnName,
			td.BaselineValue, td.BaselineCt, td.BaselineAvg, td.BaselineSD,
			td.ThresholdValue, td.LowerTolerance, td.UpperTolerance, td.SubsetCondition,
			td.Locked, td.TestActive, td.ProfilingAsOf, td.LastAutoGenDate,
		}
	}

	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"test_definitions"},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert test definitions: %w", err)
	}
	return nil
}
