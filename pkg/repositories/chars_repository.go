package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/database"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

// CharsRepository maintains the slowly-changing table and column catalogs
// (data_table_chars, data_column_chars) from completed profiling runs.
type CharsRepository interface {
	// RefreshFromRun reconciles both catalogs against the run's profile
	// results: upserts everything seen, reopens entries that reappeared, and
	// stamps drop_date on entries no longer present in the group.
	RefreshFromRun(ctx context.Context, runID, tableGroupID uuid.UUID) error

	// ListTables returns the live (non-dropped) table catalog for a group.
	ListTables(ctx context.Context, tableGroupID uuid.UUID) ([]*models.DataTableChars, error)

	// ListColumns returns the live column catalog for a group.
	ListColumns(ctx context.Context, tableGroupID uuid.UUID) ([]*models.DataColumnChars, error)
}

type charsRepository struct {
	db *database.DB
}

// NewCharsRepository creates a new CharsRepository.
func NewCharsRepository(db *database.DB) CharsRepository {
	return &charsRepository{db: db}
}

var _ CharsRepository = (*charsRepository)(nil)

func (r *charsRepository) RefreshFromRun(ctx context.Context, runID, tableGroupID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin catalog refresh: %w", err)
	}
	defer tx.Rollback(ctx)

	// Upsert table entries. Reappearing tables get drop_date cleared.
	_, err = tx.Exec(ctx, `
		INSERT INTO data_table_chars
			(table_id, table_groups_id, schema_name, table_name,
			 functional_table_type, record_ct, column_ct,
			 add_date, last_refresh_date, last_complete_profile_run_id)
		SELECT gen_random_uuid(), p.table_groups_id, p.schema_name, p.table_name,
		       MAX(COALESCE(p.functional_table_type, '')),
		       MAX(p.record_ct), COUNT(*),
		       NOW(), NOW(), p.profile_run_id
		  FROM profile_results p
		 WHERE p.profile_run_id = $1
		 GROUP BY p.table_groups_id, p.schema_name, p.table_name, p.profile_run_id
		ON CONFLICT (table_groups_id, schema_name, table_name) DO UPDATE
		   SET functional_table_type = EXCLUDED.functional_table_type,
		       record_ct = EXCLUDED.record_ct,
		       column_ct = EXCLUDED.column_ct,
		       last_refresh_date = EXCLUDED.last_refresh_date,
		       last_complete_profile_run_id = EXCLUDED.last_complete_profile_run_id,
		       drop_date = NULL`, runID)
	if err != nil {
		return fmt.Errorf("failed to upsert table catalog: %w", err)
	}

	// Upsert column entries under their table's catalog id.
	_, err = tx.Exec(ctx, `
		INSERT INTO data_column_chars
			(column_id, table_id, table_groups_id, schema_name, table_name, column_name,
			 column_type, general_type, functional_data_type,
			 add_date, last_mod_date, last_complete_profile_run_id)
		SELECT gen_random_uuid(), t.table_id, p.table_groups_id,
		       p.schema_name, p.table_name, p.column_name,
		       p.column_type, p.general_type, COALESCE(p.functional_data_type, ''),
		       NOW(), NOW(), p.profile_run_id
		  FROM profile_results p
		  JOIN data_table_chars t
		    ON t.table_groups_id = p.table_groups_id
		   AND t.schema_name = p.schema_name
		   AND t.table_name = p.table_name
		 WHERE p.profile_run_id = $1
		ON CONFLICT (table_groups_id, schema_name, table_name, column_name) DO UPDATE
		   SET column_type = EXCLUDED.column_type,
		       general_type = EXCLUDED.general_type,
		       functional_data_type = EXCLUDED.functional_data_type,
		       last_mod_date = EXCLUDED.last_mod_date,
		       last_complete_profile_run_id = EXCLUDED.last_complete_profile_run_id,
		       drop_date = NULL`, runID)
	if err != nil {
		return fmt.Errorf("failed to upsert column catalog: %w", err)
	}

	// Tables of this group no longer seen get a drop_date.
	_, err = tx.Exec(ctx, `
		UPDATE data_table_chars t
		   SET drop_date = NOW()
		 WHERE t.table_groups_id = $2
		   AND t.drop_date IS NULL
		   AND NOT EXISTS (
			SELECT 1 FROM profile_results p
			 WHERE p.profile_run_id = $1
			   AND p.schema_name = t.schema_name
			   AND p.table_name = t.table_name)`, runID, tableGroupID)
	if err != nil {
		return fmt.Errorf("failed to reconcile dropped tables: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE data_column_chars c
		   SET drop_date = NOW()
		 WHERE c.table_groups_id = $2
		   AND c.drop_date IS NULL
		   AND NOT EXISTS (
			SELECT 1 FROM profile_results p
			 WHERE p.profile_run_id = $1
			   AND p.schema_name = c.schema_name
			   AND p.table_name = c.table_name
			   AND p.column_name = c.column_name)`, runID, tableGroupID)
	if err != nil {
		return fmt.Errorf("failed to reconcile dropped columns: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit catalog refresh: %w", err)
	}
	return nil
}

func (r *charsRepository) ListTables(ctx context.Context, tableGroupID uuid.UUID) ([]*models.DataTableChars, error) {
	query := `
		SELECT table_id, table_groups_id, schema_name, table_name,
		       COALESCE(functional_table_type, ''), record_ct, column_ct,
		       add_date, last_refresh_date, drop_date,
		       last_complete_profile_run_id, dq_score_profiling
		FROM data_table_chars
		WHERE table_groups_id = $1 AND drop_date IS NULL
		ORDER BY schema_name, table_name`

	rows, err := r.db.Query(ctx, query, tableGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list table catalog: %w", err)
	}
	defer rows.Close()

	var tables []*models.DataTableChars
	for rows.Next() {
		var t models.DataTableChars
		err := rows.Scan(
			&t.TableID, &t.TableGroupID, &t.SchemaName, &t.TableName,
			&t.FunctionalTableType, &t.RecordCt, &t.ColumnCt,
			&t.AddDate, &t.LastRefreshDate, &t.DropDate,
			&t.LastProfileRunID, &t.DQScoreProfiling,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table catalog entry: %w", err)
		}
		tables = append(tables, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate table catalog: %w", err)
	}
	return tables, nil
}

func (r *charsRepository) ListColumns(ctx context.Context, tableGroupID uuid.UUID) ([]*models.DataColumnChars, error) {
	query := `
		SELECT column_id, table_id, table_groups_id, schema_name, table_name, column_name,
		       column_type, general_type, COALESCE(functional_data_type, ''),
		       critical_data_element, add_date, last_mod_date, drop_date,
		       last_complete_profile_run_id, dq_score_profiling
		FROM data_column_chars
		WHERE table_groups_id = $1 AND drop_date IS NULL
		ORDER BY schema_name, table_name, column_name`

	rows, err := r.db.Query(ctx, query, tableGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list column catalog: %w", err)
	}
	defer rows.Close()

	var cols []*models.DataColumnChars
	for rows.Next() {
		var c models.DataColumnChars
		err := rows.Scan(
			&c.ColumnID, &c.TableID, &c.TableGroupID, &c.SchemaName, &c.TableName, &c.ColumnName,
			&c.ColumnType, &c.GeneralType, &c.FunctionalDataType,
			&c.CriticalDataElement, &c.AddDate, &c.LastModDate, &c.DropDate,
			&c.LastProfileRunID, &c.DQScoreProfiling,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan column catalog entry: %w", err)
		}
		cols = append(cols, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate column catalog: %w", err)
	}
	return cols, nil
}
