package dialect

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"

	"github.com/snowflakedb/gosnowflake"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

func init() {
	Register(&snowflakeDialect{})
}

type snowflakeDialect struct{}

func (d *snowflakeDialect) Flavor() models.Flavor { return models.FlavorSnowflake }
func (d *snowflakeDialect) DriverName() string    { return "snowflake" }
func (d *snowflakeDialect) QuoteChar() string     { return `"` }

func (d *snowflakeDialect) ConnectionString(p ConnParams) (string, error) {
	if p.URL != "" {
		return p.URL, nil
	}
	if p.Host == "" || p.Database == "" {
		return "", fmt.Errorf("snowflake connection requires host and database")
	}

	cfg := &gosnowflake.Config{
		Account:  accountFromHost(p.Host),
		User:     p.User,
		Database: p.Database,
	}
	if p.Port != 0 {
		cfg.Port = p.Port
	}

	if p.PrivateKey != "" {
		key, err := parsePrivateKey(p.PrivateKey, p.PrivateKeyPassphrase)
		if err != nil {
			return "", fmt.Errorf("snowflake private key: %w", err)
		}
		cfg.Authenticator = gosnowflake.AuthTypeJwt
		cfg.PrivateKey = key
	} else {
		cfg.Password = p.Password
	}

	dsn, err := gosnowflake.DSN(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to build snowflake DSN: %w", err)
	}
	return dsn, nil
}

// accountFromHost accepts either a bare account identifier or a full
// <account>.snowflakecomputing.com host.
func accountFromHost(host string) string {
	return strings.TrimSuffix(host, ".snowflakecomputing.com")
}

func parsePrivateKey(pemText, passphrase string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in key material")
	}
	if passphrase != "" {
		// Encrypted PKCS#8 requires the key to be decrypted before it is
		// stored; the encryption service hands us plaintext key material.
		return nil, fmt.Errorf("encrypted private keys are not supported; store the decrypted key")
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PKCS#8 key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key is not RSA")
	}
	return key, nil
}

func (d *snowflakeDialect) FunctionRewrites() map[string]RewriteFunc {
	return map[string]RewriteFunc{
		"DATEDIFF_DAY": func(a []string) string {
			return fmt.Sprintf("DATEDIFF('day', %s, %s)", a[0], a[1])
		},
		"DATEDIFF_MONTH": func(a []string) string {
			return fmt.Sprintf("DATEDIFF('month', %s, %s)", a[0], a[1])
		},
		"DATEDIFF_YEAR": func(a []string) string {
			return fmt.Sprintf("DATEDIFF('year', %s, %s)", a[0], a[1])
		},
		"LENGTH": func(a []string) string { return fmt.Sprintf("LENGTH(%s)", a[0]) },
		"ISNUM": func(a []string) string {
			return fmt.Sprintf("CASE WHEN TRY_TO_NUMBER(%s) IS NOT NULL THEN 1 ELSE 0 END", a[0])
		},
		"ISDATE": func(a []string) string {
			return fmt.Sprintf("CASE WHEN TRY_TO_DATE(%s) IS NOT NULL THEN 1 ELSE 0 END", a[0])
		},
		"STDEV": func(a []string) string { return fmt.Sprintf("STDDEV(%s)", a[0]) },
		"PCTILE": func(a []string) string {
			return fmt.Sprintf("PERCENTILE_CONT(%s) WITHIN GROUP (ORDER BY %s)", a[1], a[0])
		},
		"TRUNC_DAY":   func(a []string) string { return fmt.Sprintf("DATE_TRUNC('day', %s)", a[0]) },
		"TRUNC_WEEK":  func(a []string) string { return fmt.Sprintf("DATE_TRUNC('week', %s)", a[0]) },
		"TRUNC_MONTH": func(a []string) string { return fmt.Sprintf("DATE_TRUNC('month', %s)", a[0]) },
		"TO_CHAR":     func(a []string) string { return fmt.Sprintf("TO_VARCHAR(%s)", a[0]) },
		"PATTERN": func(a []string) string {
			return fmt.Sprintf(
				`REGEXP_REPLACE(REGEXP_REPLACE(REGEXP_REPLACE(%s, '[a-z]', 'a'), '[A-Z]', 'A'), '[0-9]', 'N')`,
				a[0])
		},
		"CURRENT_TS": func(a []string) string { return "CURRENT_TIMESTAMP" },
		"NULL_DATE":  func(a []string) string { return "CAST(NULL AS TIMESTAMP)" },
		"HAS_DIGIT": func(a []string) string {
			return fmt.Sprintf("CASE WHEN REGEXP_COUNT(%s, '[0-9]') > 0 THEN 1 ELSE 0 END", a[0])
		},
	}
}

func (d *snowflakeDialect) SampleExpression(percent float64) string {
	return fmt.Sprintf("SAMPLE BERNOULLI (%.4f)", percent)
}

func (d *snowflakeDialect) QuoteIdentifier(name string) string {
	return quoteIfNeeded(name, `"`)
}
