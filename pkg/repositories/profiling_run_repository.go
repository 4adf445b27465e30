package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/apperrors"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/database"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

// ProfilingRunRepository provides data access for profiling run lifecycle
// records.
type ProfilingRunRepository interface {
	// Create inserts a new run in status Running. A duplicate run id fails
	// loudly with ErrRunAlreadyExists rather than double-inserting.
	Create(ctx context.Context, run *models.ProfilingRun) error

	// UpdateCounts sets table/column counters once discovery finishes.
	UpdateCounts(ctx context.Context, runID uuid.UUID, tableCt, columnCt int) error

	// Finalize writes the terminal status, end time, and log message.
	Finalize(ctx context.Context, runID uuid.UUID, status models.RunStatus, logMessage string) error

	// GetByID returns one run.
	GetByID(ctx context.Context, runID uuid.UUID) (*models.ProfilingRun, error)

	// LatestComplete returns the most recent Complete run for a table
	// group, or ErrNotFound when the group has never been profiled.
	LatestComplete(ctx context.Context, tableGroupID uuid.UUID) (*models.ProfilingRun, error)

	// CancelAllRunning marks every Running run as Cancelled. Used by the
	// maintenance command to reap runs whose process was killed.
	CancelAllRunning(ctx context.Context) (int64, error)

	// Exec runs a pre-built metadata-store statement (scoring and anomaly
	// rollup templates).
	Exec(ctx context.Context, sql string) error
}

type profilingRunRepository struct {
	db *database.DB
}

// NewProfilingRunRepository creates a new ProfilingRunRepository.
func NewProfilingRunRepository(db *database.DB) ProfilingRunRepository {
	return &profilingRunRepository{db: db}
}

var _ ProfilingRunRepository = (*profilingRunRepository)(nil)

func (r *profilingRunRepository) Create(ctx context.Context, run *models.ProfilingRun) error {
	query := `
		INSERT INTO profiling_runs
			(id, table_groups_id, connection_id, profiling_starttime, status, process_id, log_message)
		VALUES ($1, $2, $3, $4, $5, $6, '')`

	_, err := r.db.Exec(ctx, query,
		run.ID, run.TableGroupID, run.ConnectionID, run.StartTime, run.Status, run.ProcessID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: %s", apperrors.ErrRunAlreadyExists, run.ID)
		}
		return fmt.Errorf("failed to create profiling run: %w", err)
	}
	return nil
}

func (r *profilingRunRepository) UpdateCounts(ctx context.Context, runID uuid.UUID, tableCt, columnCt int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE profiling_runs SET table_ct = $2, column_ct = $3 WHERE id = $1`,
		runID, tableCt, columnCt)
	if err != nil {
		return fmt.Errorf("failed to update run counts: %w", err)
	}
	return nil
}

func (r *profilingRunRepository) Finalize(ctx context.Context, runID uuid.UUID, status models.RunStatus, logMessage string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE profiling_runs
		    SET status = $2, log_message = $3, profiling_endtime = $4
		  WHERE id = $1 AND status = 'Running'`,
		runID, status, logMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to finalize profiling run: %w", err)
	}
	return nil
}

func (r *profilingRunRepository) GetByID(ctx context.Context, runID uuid.UUID) (*models.ProfilingRun, error) {
	query := `
		SELECT id, table_groups_id, connection_id, profiling_starttime, profiling_endtime,
		       status, log_message, process_id, table_ct, column_ct,
		       anomaly_ct, anomaly_table_ct, anomaly_column_ct, dq_score_profiling
		FROM profiling_runs
		WHERE id = $1`

	var run models.ProfilingRun
	err := r.db.QueryRow(ctx, query, runID).Scan(
		&run.ID, &run.TableGroupID, &run.ConnectionID, &run.StartTime, &run.EndTime,
		&run.Status, &run.LogMessage, &run.ProcessID, &run.TableCt, &run.ColumnCt,
		&run.AnomalyCt, &run.AnomalyTableCt, &run.AnomalyColumnCt, &run.DQScoreProfiling,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiling run: %w", err)
	}
	return &run, nil
}

func (r *profilingRunRepository) LatestComplete(ctx context.Context, tableGroupID uuid.UUID) (*models.ProfilingRun, error) {
	query := `
		SELECT id, table_groups_id, connection_id, profiling_starttime, profiling_endtime,
		       status, log_message, process_id, table_ct, column_ct,
		       anomaly_ct, anomaly_table_ct, anomaly_column_ct, dq_score_profiling
		FROM profiling_runs
		WHERE table_groups_id = $1 AND status = 'Complete'
		ORDER BY profiling_starttime DESC
		LIMIT 1`

	var run models.ProfilingRun
	err := r.db.QueryRow(ctx, query, tableGroupID).Scan(
		&run.ID, &run.TableGroupID, &run.ConnectionID, &run.StartTime, &run.EndTime,
		&run.Status, &run.LogMessage, &run.ProcessID, &run.TableCt, &run.ColumnCt,
		&run.AnomalyCt, &run.AnomalyTableCt, &run.AnomalyColumnCt, &run.DQScoreProfiling,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: no complete profiling run for table group %s", apperrors.ErrNotFound, tableGroupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest complete run: %w", err)
	}
	return &run, nil
}

func (r *profilingRunRepository) CancelAllRunning(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiling_runs
		    SET status = 'Cancelled', profiling_endtime = $1,
		        log_message = 'Cancelled by maintenance command'
		  WHERE status = 'Running'`,
		time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to cancel running profiling runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *profilingRunRepository) Exec(ctx context.Context, sql string) error {
	if _, err := r.db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("metadata statement failed: %w", err)
	}
	return nil
}
