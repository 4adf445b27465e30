package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/database"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

// ProfileResultRepository provides data access for per-column profile rows.
type ProfileResultRepository interface {
	// BulkInsert writes the round-1 result set for a run in one COPY.
	BulkInsert(ctx context.Context, results []*models.ProfileResult) error

	// ApplyTopFreqValues stores the serialized top-values digest for one column.
	ApplyTopFreqValues(ctx context.Context, runID uuid.UUID, ident models.ColumnIdent, digest string, distinctStdValueCt int64) error

	// ApplyTopPatterns stores the serialized top-patterns digest for one column.
	ApplyTopPatterns(ctx context.Context, runID uuid.UUID, ident models.ColumnIdent, digest string, distinctPatternCt int64, stdPatternMatch string) error

	// ApplyEnrichment writes the secondary-derivation fields for one column.
	ApplyEnrichment(ctx context.Context, runID uuid.UUID, ident models.ColumnIdent, e Enrichment) error

	// ApplyFunctionalTableType stamps every column of a table with the
	// table-level classification.
	ApplyFunctionalTableType(ctx context.Context, runID uuid.UUID, schemaName, tableName, tableType string) error

	// ScaleSampledCounts extrapolates count columns for rows profiled from a
	// sample. Ratio columns stay as recorded so the scaling is auditable.
	ScaleSampledCounts(ctx context.Context, runID uuid.UUID) (int64, error)

	// ListByRun returns all result rows for a run ordered by table, position.
	ListByRun(ctx context.Context, runID uuid.UUID) ([]*models.ProfileResult, error)

	// MarkCriticalDataElements flags columns whose functional type matches the
	// CDE set. Returns the number of columns flagged.
	MarkCriticalDataElements(ctx context.Context, runID uuid.UUID, functionalTypes []string) (int64, error)
}

// Enrichment carries the secondary-derivation outputs for one column.
type Enrichment struct {
	DatatypeSuggestion string
	FunctionalDataType string
	PIIFlag            string
}

type profileResultRepository struct {
	db *database.DB
}

// NewProfileResultRepository creates a new ProfileResultRepository.
func NewProfileResultRepository(db *database.DB) ProfileResultRepository {
	return &profileResultRepository{db: db}
}

var _ ProfileResultRepository = (*profileResultRepository)(nil)

var profileResultColumns = []string{
	"id", "profile_run_id", "table_groups_id", "run_date",
	"schema_name", "table_name", "column_name", "position",
	"column_type", "general_type",
	"record_ct", "value_ct", "distinct_value_ct", "null_value_ct",
	"min_length", "max_length", "avg_length",
	"zero_length_ct", "lead_space_ct", "embedded_space_ct", "avg_embedded_spaces",
	"quoted_value_ct", "numeric_ct", "date_ct", "includes_digit_ct", "filled_value_ct",
	"min_value", "min_value_over_0", "max_value", "avg_value", "stdev_value",
	"percentile_25", "percentile_50", "percentile_75", "fractional_sum", "zero_value_ct",
	"min_date", "max_date",
	"before_1yr_date_ct", "before_5yr_date_ct", "within_1yr_date_ct", "within_1mo_date_ct",
	"future_date_ct", "date_days_present", "date_weeks_present", "date_months_present",
	"boolean_true_ct",
	"sample_ratio", "sample_percent_calc",
}

func (r *profileResultRepository) BulkInsert(ctx context.Context, results []*models.ProfileResult) error {
	if len(results) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([][]any, len(results))
	for i, pr := range results {
		if pr.ID == uuid.Nil {
			pr.ID = uuid.New()
		}
		if pr.RunDate.IsZero() {
			pr.RunDate = now
		}
		rows[i] = []any{
			pr.ID, pr.ProfileRunID, pr.TableGroupID, pr.RunDate,
			pr.SchemaName, pr.TableName, pr.ColumnName, pr.Position,
			pr.ColumnType, pr.GeneralType,
			pr.RecordCt, pr.ValueCt, pr.DistinctValueCt, pr.NullValueCt,
			pr.MinLength, pr.MaxLength, pr.AvgLength,
			pr.ZeroLengthCt, pr.LeadSpaceCt, pr.EmbeddedSpaceCt, pr.AvgEmbeddedSpaces,
			pr.QuotedValueCt, pr.NumericCt, pr.DateCt, pr.IncludesDigitCt, pr.FilledValueCt,
			pr.MinValue, pr.MinValueOver0, pr.MaxValue, pr.AvgValue, pr.StdevValue,
			pr.Percentile25, pr.Percentile50, pr.Percentile75, pr.FractionalSum, pr.ZeroValueCt,
			pr.MinDate, pr.MaxDate,
			pr.Before1YrDateCt, pr.Before5YrDateCt, pr.Within1YrDateCt, pr.Within1MoDateCt,
			pr.FutureDateCt, pr.DistinctDayCt, pr.DistinctWeekCt, pr.DistinctMonthCt,
			pr.BooleanTrueCt,
			pr.SampleRatio, pr.SamplePercentCalc,
		}
	}

	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"profile_results"},
		profileResultColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert profile results: %w", err)
	}
	return nil
}

func (r *profileResultRepository) ApplyTopFreqValues(ctx context.Context, runID uuid.UUID, ident models.ColumnIdent, digest string, distinctStdValueCt int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE profile_results
		    SET top_freq_values = $5, distinct_std_value_ct = $6
		  WHERE profile_run_id = $1 AND schema_name = $2 AND table_name = $3 AND column_name = $4`,
		runID, ident.SchemaName, ident.TableName, ident.ColumnName, digest, distinctStdValueCt)
	if err != nil {
		return fmt.Errorf("failed to apply top frequency values: %w", err)
	}
	return nil
}

func (r *profileResultRepository) ApplyTopPatterns(ctx context.Context, runID uuid.UUID, ident models.ColumnIdent, digest string, distinctPatternCt int64, stdPatternMatch string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE profile_results
		    SET top_patterns = $5, distinct_pattern_ct = $6, std_pattern_match = NULLIF($7, '')
		  WHERE profile_run_id = $1 AND schema_name = $2 AND table_name = $3 AND column_name = $4`,
		runID, ident.SchemaName, ident.TableName, ident.ColumnName, digest, distinctPatternCt, stdPatternMatch)
	if err != nil {
		return fmt.Errorf("failed to apply top patterns: %w", err)
	}
	return nil
}

func (r *profileResultRepository) ApplyEnrichment(ctx context.Context, runID uuid.UUID, ident models.ColumnIdent, e Enrichment) error {
	_, err := r.db.Exec(ctx,
		`UPDATE profile_results
		    SET datatype_suggestion = $5, functional_data_type = $6, pii_flag = NULLIF($7, '')
		  WHERE profile_run_id = $1 AND schema_name = $2 AND table_name = $3 AND column_name = $4`,
		runID, ident.SchemaName, ident.TableName, ident.ColumnName,
		e.DatatypeSuggestion, e.FunctionalDataType, e.PIIFlag)
	if err != nil {
		return fmt.Errorf("failed to apply enrichment: %w", err)
	}
	return nil
}

func (r *profileResultRepository) ApplyFunctionalTableType(ctx context.Context, runID uuid.UUID, schemaName, tableName, tableType string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE profile_results
		    SET functional_table_type = $4
		  WHERE profile_run_id = $1 AND schema_name = $2 AND table_name = $3`,
		runID, schemaName, tableName, tableType)
	if err != nil {
		return fmt.Errorf("failed to apply functional table type: %w", err)
	}
	return nil
}

func (r *profileResultRepository) ScaleSampledCounts(ctx context.Context, runID uuid.UUID) (int64, error) {
	// Counts are extrapolated by 1/sample_ratio and rounded; averages,
	// percentiles, min/max and distinct counts are left as measured since
	// extrapolating them would fabricate precision.
	tag, err := r.db.Exec(ctx,
		`UPDATE profile_results
		    SET record_ct          = ROUND(record_ct / sample_ratio),
		        value_ct           = ROUND(value_ct / sample_ratio),
		        null_value_ct      = ROUND(null_value_ct / sample_ratio),
		        zero_length_ct     = ROUND(zero_length_ct / sample_ratio),
		        lead_space_ct      = ROUND(lead_space_ct / sample_ratio),
		        embedded_space_ct  = ROUND(embedded_space_ct / sample_ratio),
		        quoted_value_ct    = ROUND(quoted_value_ct / sample_ratio),
		        numeric_ct         = ROUND(numeric_ct / sample_ratio),
		        date_ct            = ROUND(date_ct / sample_ratio),
		        includes_digit_ct  = ROUND(includes_digit_ct / sample_ratio),
		        filled_value_ct    = ROUND(filled_value_ct / sample_ratio),
		        zero_value_ct      = ROUND(zero_value_ct / sample_ratio),
		        before_1yr_date_ct = ROUND(before_1yr_date_ct / sample_ratio),
		        before_5yr_date_ct = ROUND(before_5yr_date_ct / sample_ratio),
		        within_1yr_date_ct = ROUND(within_1yr_date_ct / sample_ratio),
		        within_1mo_date_ct = ROUND(within_1mo_date_ct / sample_ratio),
		        future_date_ct     = ROUND(future_date_ct / sample_ratio),
		        boolean_true_ct    = ROUND(boolean_true_ct / sample_ratio)
		  WHERE profile_run_id = $1
		    AND sample_ratio IS NOT NULL AND sample_ratio > 0 AND sample_ratio < 1`,
		runID)
	if err != nil {
		return 0, fmt.Errorf("failed to scale sampled counts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *profileResultRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]*models.ProfileResult, error) {
	query := `
		SELECT id, profile_run_id, table_groups_id, run_date,
		       schema_name, table_name, column_name, position,
		       column_type, general_type,
		       COALESCE(datatype_suggestion, ''), COALESCE(functional_data_type, ''),
		       COALESCE(functional_table_type, ''),
		       record_ct, value_ct, distinct_value_ct, null_value_ct,
		       min_length, max_length, avg_length,
		       zero_length_ct, lead_space_ct, embedded_space_ct, avg_embedded_spaces,
		       quoted_value_ct, numeric_ct, date_ct, includes_digit_ct, filled_value_ct,
		       top_freq_values, top_patterns, distinct_std_value_ct, distinct_pattern_ct,
		       std_pattern_match,
		       min_value, min_value_over_0, max_value, avg_value, stdev_value,
		       percentile_25, percentile_50, percentile_75, fractional_sum, zero_value_ct,
		       min_date, max_date,
		       before_1yr_date_ct, before_5yr_date_ct, within_1yr_date_ct, within_1mo_date_ct,
		       future_date_ct, date_days_present, date_weeks_present, date_months_present,
		       boolean_true_ct,
		       sample_ratio, sample_percent_calc,
		       pii_flag, critical_data_element
		FROM profile_results
		WHERE profile_run_id = $1
		ORDER BY schema_name, table_name, position, column_name`

	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile results: %w", err)
	}
	defer rows.Close()

	var results []*models.ProfileResult
	for rows.Next() {
		var pr models.ProfileResult
		err := rows.Scan(
			&pr.ID, &pr.ProfileRunID, &pr.TableGroupID, &pr.RunDate,
			&pr.SchemaName, &pr.TableName, &pr.ColumnName, &pr.Position,
			&pr.ColumnType, &pr.GeneralType,
			&pr.DatatypeSuggestion, &pr.FunctionalDataType,
			&pr.FunctionalTableType,
			&pr.RecordCt, &pr.ValueCt, &pr.DistinctValueCt, &pr.NullValueCt,
			&pr.MinLength, &pr.MaxLength, &pr.AvgLength,
			&pr.ZeroLengthCt, &pr.LeadSpaceCt, &pr.EmbeddedSpaceCt, &pr.AvgEmbeddedSpaces,
			&pr.QuotedValueCt, &pr.NumericCt, &pr.DateCt, &pr.IncludesDigitCt, &pr.FilledValueCt,
			&pr.TopFreqValues, &pr.TopPatterns, &pr.DistinctStdValueCt, &pr.DistinctPatternCt,
			&pr.StdPatternMatch,
			&pr.MinValue, &pr.MinValueOver0, &pr.MaxValue, &pr.AvgValue, &pr.StdevValue,
			&pr.Percentile25, &pr.Percentile50, &pr.Percentile75, &pr.FractionalSum, &pr.ZeroValueCt,
			&pr.MinDate, &pr.MaxDate,
			&pr.Before1YrDateCt, &pr.Before5YrDateCt, &pr.Within1YrDateCt, &pr.Within1MoDateCt,
			&pr.FutureDateCt, &pr.DistinctDayCt, &pr.DistinctWeekCt, &pr.DistinctMonthCt,
			&pr.BooleanTrueCt,
			&pr.SampleRatio, &pr.SamplePercentCalc,
			&pr.PIIFlag, &pr.CriticalDataElement,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile result: %w", err)
		}
		results = append(results, &pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profile results: %w", err)
	}
	return results, nil
}

func (r *profileResultRepository) MarkCriticalDataElements(ctx context.Context, runID uuid.UUID, functionalTypes []string) (int64, error) {
	if len(functionalTypes) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE profile_results
		    SET critical_data_element = TRUE
		  WHERE profile_run_id = $1 AND functional_data_type = ANY($2)`,
		runID, functionalTypes)
	if err != nil {
		return 0, fmt.Errorf("failed to mark critical data elements: %w", err)
	}
	return tag.RowsAffected(), nil
}
