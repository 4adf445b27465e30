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

// ConnectionRepository provides data access for target-DB connections.
type ConnectionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Connection, error)
}

type connectionRepository struct {
	db *database.DB
}

// NewConnectionRepository creates a new ConnectionRepository.
func NewConnectionRepository(db *database.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

var _ ConnectionRepository = (*connectionRepository)(nil)

func (r *connectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Connection, error) {
	query := `
		SELECT id, project_code, connection_name, sql_flavor, project_host, project_port,
		       project_db, project_user, project_pw_encrypted, private_key, private_key_passphrase,
		       url, connect_by_url, COALESCE(project_qc_schema, ''),
		       max_threads, max_query_chars, created_at
		FROM connections
		WHERE id = $1`

	var c models.Connection
	var flavor string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.ProjectCode, &c.Name, &flavor, &c.Host, &c.Port,
		&c.Database, &c.User, &c.Password, &c.PrivateKey, &c.PrivateKeyPassphrase,
		&c.URL, &c.ConnectByURL, &c.QCSchema,
		&c.MaxThreads, &c.MaxQueryChars, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConnectionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	c.SQLFlavor = models.Flavor(flavor)
	return &c, nil
}
