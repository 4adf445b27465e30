package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/database"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

// AnomalyRepository provides data access for the hygiene-test catalog and
// detection results. Detection and prevalence statements are built from
// templates by the caller and executed here against the metadata store.
type AnomalyRepository interface {
	// ListTypes returns the anomaly-type catalog ordered by id.
	ListTypes(ctx context.Context) ([]*models.ProfileAnomalyType, error)

	// RunDetection executes a built detection query and returns the flagged
	// columns. The query's projection is fixed by the detect template.
	RunDetection(ctx context.Context, sql string) ([]*models.ProfileAnomalyResult, error)

	// InsertResults writes detections in one COPY.
	InsertResults(ctx context.Context, results []*models.ProfileAnomalyResult) error

	// Exec runs a built prevalence or run-stats statement.
	Exec(ctx context.Context, sql string) error

	// ListResultsByRun returns all detections for a run.
	ListResultsByRun(ctx context.Context, runID uuid.UUID) ([]*models.ProfileAnomalyResult, error)

	// UpsertTypes seeds or refreshes the anomaly-type catalog. Existing
	// entries are updated in place so catalog upgrades roll forward.
	UpsertTypes(ctx context.Context, types []*models.ProfileAnomalyType) error
}

type anomalyRepository struct {
	db *database.DB
}

// NewAnomalyRepository creates a new AnomalyRepository.
func NewAnomalyRepository(db *database.DB) AnomalyRepository {
	return &anomalyRepository{db: db}
}

var _ AnomalyRepository = (*anomalyRepository)(nil)

func (r *anomalyRepository) ListTypes(ctx context.Context) ([]*models.ProfileAnomalyType, error) {
	query := `
		SELECT id, anomaly_name, data_object, anomaly_description, issue_likelihood,
		       suggested_action, anomaly_criteria, detail_expression,
		       COALESCE(dq_score_prevalence_formula, ''),
		       COALESCE(dq_score_risk_factor, ''), COALESCE(dq_dimension, '')
		FROM profile_anomaly_types
		ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list anomaly types: %w", err)
	}
	defer rows.Close()

	var types []*models.ProfileAnomalyType
	for rows.Next() {
		var at models.ProfileAnomalyType
		err := rows.Scan(
			&at.ID, &at.AnomalyName, &at.DataObject, &at.AnomalyDescription, &at.IssueLikelihood,
			&at.SuggestedAction, &at.AnomalyCriteria, &at.DetailExpression,
			&at.DQScorePrevalenceFormula, &at.DQScoreRiskFactor, &at.DQDimension,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan anomaly type: %w", err)
		}
		types = append(types, &at)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate anomaly types: %w", err)
	}
	return types, nil
}

func (r *anomalyRepository) RunDetection(ctx context.Context, sql string) ([]*models.ProfileAnomalyResult, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("anomaly detection query failed: %w", err)
	}
	defer rows.Close()

	var results []*models.ProfileAnomalyResult
	for rows.Next() {
		var res models.ProfileAnomalyResult
		var detail *string
		err := rows.Scan(&res.SchemaName, &res.TableName, &res.ColumnName, &res.ColumnType, &detail)
		if err != nil {
			return nil, fmt.Errorf("failed to scan anomaly detection: %w", err)
		}
		if detail != nil {
			res.Detail = *detail
		}
		results = append(results, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate anomaly detections: %w", err)
	}
	return results, nil
}

func (r *anomalyRepository) InsertResults(ctx context.Context, results []*models.ProfileAnomalyResult) error {
	if len(results) == 0 {
		return nil
	}

	columns := []string{
		"id", "profile_run_id", "table_groups_id", "anomaly_id",
		"schema_name", "table_name", "column_name", "column_type", "detail",
	}

	rows := make([][]any, len(results))
	for i, res := range results {
		if res.ID == uuid.Nil {
			res.ID = uuid.New()
		}
		rows[i] = []any{
			res.ID, res.ProfileRunID, res.TableGroupID, res.AnomalyID,
			res.SchemaName, res.TableName, res.ColumnName, res.ColumnType, res.Detail,
		}
	}

	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"profile_anomaly_results"},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert anomaly results: %w", err)
	}
	return nil
}

func (r *anomalyRepository) Exec(ctx context.Context, sql string) error {
	if _, err := r.db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("anomaly statement failed: %w", err)
	}
	return nil
}

func (r *anomalyRepository) UpsertTypes(ctx context.Context, types []*models.ProfileAnomalyType) error {
	batch := &pgx.Batch{}
	for _, at := range types {
		batch.Queue(`
			INSERT INTO profile_anomaly_types
				(id, anomaly_name, data_object, anomaly_description, issue_likelihood,
				 suggested_action, anomaly_criteria, detail_expression,
				 dq_score_prevalence_formula, dq_score_risk_factor, dq_dimension)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''))
			ON CONFLICT (id) DO UPDATE
			   SET anomaly_name = EXCLUDED.anomaly_name,
			       data_object = EXCLUDED.data_object,
			       anomaly_description = EXCLUDED.anomaly_description,
			       issue_likelihood = EXCLUDED.issue_likelihood,
			       suggested_action = EXCLUDED.suggested_action,
			       anomaly_criteria = EXCLUDED.anomaly_criteria,
			       detail_expression = EXCLUDED.detail_expression,
			       dq_score_prevalence_formula = EXCLUDED.dq_score_prevalence_formula,
			       dq_score_risk_factor = EXCLUDED.dq_score_risk_factor,
			       dq_dimension = EXCLUDED.dq_dimension`,
			at.ID, at.AnomalyName, at.DataObject, at.AnomalyDescription, at.IssueLikelihood,
			at.SuggestedAction, at.AnomalyCriteria, at.DetailExpression,
			at.DQScorePrevalenceFormula, at.DQScoreRiskFactor, at.DQDimension)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for range types {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert anomaly type: %w", err)
		}
	}
	return nil
}

func (r *anomalyRepository) ListResultsByRun(ctx context.Context, runID uuid.UUID) ([]*models.ProfileAnomalyResult, error) {
	query := `
		SELECT id, profile_run_id, table_groups_id, anomaly_id,
		       schema_name, table_name, column_name, column_type,
		       COALESCE(detail, ''), COALESCE(disposition, ''), dq_prevalence
		FROM profile_anomaly_results
		WHERE profile_run_id = $1
		ORDER BY schema_name, table_name, column_name, anomaly_id`

	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list anomaly results: %w", err)
	}
	defer rows.Close()

	var results []*models.ProfileAnomalyResult
	for rows.Next() {
		var res models.ProfileAnomalyResult
		err := rows.Scan(
			&res.ID, &res.ProfileRunID, &res.TableGroupID, &res.AnomalyID,
			&res.SchemaName, &res.TableName, &res.ColumnName, &res.ColumnType,
			&res.Detail, &res.Disposition, &res.DQPrevalence,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan anomaly result: %w", err)
		}
		results = append(results, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate anomaly results: %w", err)
	}
	return results, nil
}
