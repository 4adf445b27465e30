package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/apperrors"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/database"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

// TableGroupRepository provides data access for table groups.
type TableGroupRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.TableGroup, error)
}

type tableGroupRepository struct {
	db *database.DB
}

// NewTableGroupRepository creates a new TableGroupRepository.
func NewTableGroupRepository(db *database.DB) TableGroupRepository {
	return &tableGroupRepository{db: db}
}

var _ TableGroupRepository = (*tableGroupRepository)(nil)

func (r *tableGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TableGroup, error) {
	query := `
		SELECT id, connection_id, table_groups_name, table_group_schema,
		       tables_to_include_mask, tables_to_exclude_mask, COALESCE(explicit_table_list, '{}'),
		       profile_id_column_mask, profile_sk_column_mask,
		       profile_use_sampling, profile_sample_percent, profile_sample_min_count,
		       profile_flag_cdes, profile_do_pair_rules, profile_pair_rule_pct, created_at
		FROM table_groups
		WHERE id = $1`

	var tg models.TableGroup
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tg.ID, &tg.ConnectionID, &tg.Name, &tg.Schema,
		&tg.TablesToIncludeMask, &tg.TablesToExcludeMask, &tg.ExplicitTableList,
		&tg.ProfileIDColumnMask, &tg.ProfileSKColumnMask,
		&tg.UseSampling, &tg.SamplePercent, &tg.SampleMinCount,
		&tg.ProfileFlagCDEs, &tg.ProfileDoPairRules, &tg.ProfilePairRulePct, &tg.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrTableGroupNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get table group: %w", err)
	}
	return &tg, nil
}
