package dialect

import (
	"fmt"
	"sync"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/apperrors"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

// ConnParams carries everything a dialect needs to build a DSN.
// Secrets arrive already decrypted; never log this struct directly.
type ConnParams struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	// URL overrides the built DSN entirely when set.
	URL string
	// PrivateKey is PEM key material for flavors that support key-pair auth.
	PrivateKey           string
	PrivateKeyPassphrase string
	ConnectTimeoutSecs   int
}

// Dialect abstracts the SQL differences between supported target flavors so
// query templates remain portable.
type Dialect interface {
	// Flavor returns the flavor this dialect serves.
	Flavor() models.Flavor

	// DriverName is the database/sql driver to open connections with.
	DriverName() string

	// QuoteChar is the identifier quote character.
	QuoteChar() string

	// ConnectionString builds a DSN from connection parameters.
	ConnectionString(p ConnParams) (string, error)

	// FunctionRewrites maps neutral {{DKFN_*(...)}} template calls to
	// flavor-specific SQL. Applied as a final pass to any generated query.
	FunctionRewrites() map[string]RewriteFunc

	// SampleExpression returns a table-suffix sampling clause for the given
	// percent, or "" when the flavor has no native support (callers fall
	// back to a deterministic WHERE filter).
	SampleExpression(percent float64) string

	// QuoteIdentifier quotes an identifier when it is a reserved word or
	// contains characters that require quoting. Used by frequency and
	// contingency queries that interpolate raw column names.
	QuoteIdentifier(name string) string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[models.Flavor]Dialect)
)

// Register is called by each dialect's init() function.
// Thread-safe for concurrent init() calls.
func Register(d Dialect) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Flavor()] = d
}

// ForFlavor returns the dialect for a flavor. An unknown flavor is a
// configuration error and aborts the run before any query is dispatched.
func ForFlavor(flavor models.Flavor) (Dialect, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	d, ok := registry[flavor]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownFlavor, flavor)
	}
	return d, nil
}

// SupportedFlavors returns the registered flavors.
func SupportedFlavors() []models.Flavor {
	registryMu.RLock()
	defer registryMu.RUnlock()

	flavors := make([]models.Flavor, 0, len(registry))
	for f := range registry {
		flavors = append(flavors, f)
	}
	return flavors
}
