package models

import (
	"time"

	"github.com/google/uuid"
)

// Flavor identifies a supported target-database SQL dialect.
type Flavor string

const (
	FlavorPostgresql Flavor = "postgresql"
	FlavorSnowflake  Flavor = "snowflake"
	FlavorMSSQL      Flavor = "mssql"
	FlavorRedshift   Flavor = "redshift"
)

// Connection identifies a target database to profile.
// Owned by a project; secrets are stored encrypted by an external service
// and arrive here already decrypted.
type Connection struct {
	ID            uuid.UUID `json:"id"`
	ProjectCode   string    `json:"project_code"`
	Name          string    `json:"name"`
	SQLFlavor     Flavor    `json:"sql_flavor"`
	Host          string    `json:"host"`
	Port          int       `json:"port"`
	Database      string    `json:"database"`
	User          string    `json:"user"`
	Password      string    `json:"-"`
	PrivateKey    string    `json:"-"`
	PrivateKeyPassphrase string `json:"-"`
	// URL overrides the built connection string when ConnectByURL is set.
	URL          string `json:"url"`
	ConnectByURL bool   `json:"connect_by_url"`
	// QCSchema is the utility schema on the target DB holding helper
	// functions some dialect rewrites call. Installed out-of-band.
	QCSchema string `json:"project_qc_schema"`
	// MaxThreads bounds parallel query dispatch for this connection (1-8).
	MaxThreads int `json:"max_threads"`
	// MaxQueryChars bounds the length of any generated query.
	MaxQueryChars int       `json:"max_query_chars"`
	CreatedAt     time.Time `json:"created_at"`
}

// EffectiveQCSchema returns the utility schema, defaulting to "qc".
func (c *Connection) EffectiveQCSchema() string {
	if c.QCSchema == "" {
		return "qc"
	}
	return c.QCSchema
}

// EffectiveMaxThreads clamps MaxThreads into the supported range.
func (c *Connection) EffectiveMaxThreads() int {
	if c.MaxThreads < 1 {
		return 4
	}
	if c.MaxThreads > 8 {
		return 8
	}
	return c.MaxThreads
}
