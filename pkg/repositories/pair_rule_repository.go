package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/database"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

// PairRuleRepository provides data access for discovered contingency rules.
type PairRuleRepository interface {
	// BulkInsert writes the rules discovered for a run in one COPY.
	BulkInsert(ctx context.Context, rules []*models.ProfilePairRule) error

	// ListByRun returns all rules for a run.
	ListByRun(ctx context.Context, runID uuid.UUID) ([]*models.ProfilePairRule, error)
}

type pairRuleRepository struct {
	db *database.DB
}

// NewPairRuleRepository creates a new PairRuleRepository.
func NewPairRuleRepository(db *database.DB) PairRuleRepository {
	return &pairRuleRepository{db: db}
}

var _ PairRuleRepository = (*pairRuleRepository)(nil)

func (r *pairRuleRepository) BulkInsert(ctx context.Context, rules []*models.ProfilePairRule) error {
	if len(rules) == 0 {
		return nil
	}

	columns := []string{
		"id", "profile_run_id", "table_groups_id",
		"schema_name", "table_name",
		"cause_column", "cause_value", "effect_column", "effect_value",
		"pair_count", "cause_total", "effect_total", "ratio",
	}

	rows := make([][]any, len(rules))
	for i, rule := range rules {
		if rule.ID == uuid.Nil {
			rule.ID = uuid.New()
		}
		rows[i] = []any{
			rule.ID, rule.ProfileRunID, rule.TableGroupID,
			rule.SchemaName, rule.TableName,
			rule.CauseColumn, rule.CauseValue, rule.EffectColumn, rule.EffectValue,
			rule.PairCount, rule.CauseTotal, rule.EffectTotal, rule.Ratio,
		}
	}

	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"profile_pair_rules"},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert pair rules: %w", err)
	}
	return nil
}

func (r *pairRuleRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]*models.ProfilePairRule, error) {
	query := `
		SELECT id, profile_run_id, table_groups_id,
		       schema_name, table_name,
		       cause_column, cause_value, effect_column, effect_value,
		       pair_count, cause_total, effect_total, ratio
		FROM profile_pair_rules
		WHERE profile_run_id = $1
		ORDER BY schema_name, table_name, cause_column, effect_column, cause_value`

	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pair rules: %w", err)
	}
	defer rows.Close()

	var rules []*models.ProfilePairRule
	for rows.Next() {
		var rule models.ProfilePairRule
		err := rows.Scan(
			&rule.ID, &rule.ProfileRunID, &rule.TableGroupID,
			&rule.SchemaName, &rule.TableName,
			&rule.CauseColumn, &rule.CauseValue, &rule.EffectColumn, &rule.EffectValue,
			&rule.PairCount, &rule.CauseTotal, &rule.EffectTotal, &rule.Ratio,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pair rule: %w", err)
		}
		rules = append(rules, &rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pair rules: %w", err)
	}
	return rules, nil
}
