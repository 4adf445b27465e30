// Package targetdb opens read-only sessions against the databases being
// profiled. One Session is created per profiling run and threaded
// explicitly through the dispatcher - there is no package-level state.
package targetdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Target-DB drivers, selected by dialect.DriverName.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	_ "github.com/snowflakedb/gosnowflake"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/dialect"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

// Session is an open connection pool to one target database, carrying the
// dialect and per-connection limits the dispatcher and builders need.
type Session struct {
	db            *sql.DB
	Dialect       dialect.Dialect
	MaxThreads    int
	MaxQueryChars int
}

// Connect resolves the connection's dialect, builds its DSN, and opens a
// pool sized for the connection's thread limit. The pool is verified with a
// ping so configuration errors surface before any query is dispatched.
func Connect(ctx context.Context, conn *models.Connection) (*Session, error) {
	d, err := dialect.ForFlavor(conn.SQLFlavor)
	if err != nil {
		return nil, err
	}

	dsn, err := d.ConnectionString(dialect.ConnParams{
		Host:                 conn.Host,
		Port:                 conn.Port,
		User:                 conn.User,
		Password:             conn.Password,
		Database:             conn.Database,
		URL:                  connURLOverride(conn),
		PrivateKey:           conn.PrivateKey,
		PrivateKeyPassphrase: conn.PrivateKeyPassphrase,
		ConnectTimeoutSecs:   30,
	})
	if err != nil {
		return nil, fmt.Errorf("build connection string: %w", err)
	}

	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open target database: %w", err)
	}

	maxThreads := conn.EffectiveMaxThreads()
	db.SetMaxOpenConns(maxThreads)
	db.SetMaxIdleConns(maxThreads)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping target database: %w", err)
	}

	return &Session{
		db:            db,
		Dialect:       d,
		MaxThreads:    maxThreads,
		MaxQueryChars: conn.MaxQueryChars,
	}, nil
}

func connURLOverride(conn *models.Connection) string {
	if conn.ConnectByURL {
		return conn.URL
	}
	return ""
}

// Query executes one SELECT and materialises all rows. Values come back as
// the driver's native types; callers convert by column name.
func (s *Session) Query(ctx context.Context, query string) ([][]any, []string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return out, columns, nil
}

// Close releases the pool.
func (s *Session) Close() error {
	return s.db.Close()
}
