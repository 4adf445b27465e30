package dialect

import (
	"fmt"
	"net/url"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

func init() {
	Register(&redshiftDialect{})
}

// redshiftDialect speaks the Postgres wire protocol through lib/pq.
// Redshift rejects pgx's extended-protocol prepared statements, so it gets
// its own driver and its own function surface (DATEDIFF exists, TABLESAMPLE
// does not).
type redshiftDialect struct{}

func (d *redshiftDialect) Flavor() models.Flavor { return models.FlavorRedshift }
func (d *redshiftDialect) DriverName() string    { return "postgres" }
func (d *redshiftDialect) QuoteChar() string     { return `"` }

func (d *redshiftDialect) ConnectionString(p ConnParams) (string, error) {
	if p.URL != "" {
		return p.URL, nil
	}
	if p.Host == "" || p.Database == "" {
		return "", fmt.Errorf("redshift connection requires host and database")
	}
	port := p.Port
	if port == 0 {
		port = 5439
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   fmt.Sprintf("%s:%d", p.Host, port),
		Path:   "/" + p.Database,
	}
	q := u.Query()
	q.Set("sslmode", "require")
	if p.ConnectTimeoutSecs > 0 {
		q.Set("connect_timeout", fmt.Sprintf("%d", p.ConnectTimeoutSecs))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (d *redshiftDialect) FunctionRewrites() map[string]RewriteFunc {
	return map[string]RewriteFunc{
		"DATEDIFF_DAY": func(a []string) string {
			return fmt.Sprintf("DATEDIFF(day, %s, %s)", a[0], a[1])
		},
		"DATEDIFF_MONTH": func(a []string) string {
			return fmt.Sprintf("DATEDIFF(month, %s, %s)", a[0], a[1])
		},
		"DATEDIFF_YEAR": func(a []string) string {
			return fmt.Sprintf("DATEDIFF(year, %s, %s)", a[0], a[1])
		},
		"LENGTH": func(a []string) string { return fmt.Sprintf("LENGTH(%s)", a[0]) },
		"ISNUM": func(a []string) string {
			return fmt.Sprintf(`CASE WHEN %s ~ '^\s*[+-]?(\d+\.?\d*|\.\d+)\s*$' THEN 1 ELSE 0 END`, a[0])
		},
		"ISDATE": func(a []string) string {
			return fmt.Sprintf("{TARGET_QC_SCHEMA}.fn_isdate(%s)", a[0])
		},
		"STDEV": func(a []string) string { return fmt.Sprintf("STDDEV(%s)", a[0]) },
		"PCTILE": func(a []string) string {
			return fmt.Sprintf("PERCENTILE_CONT(%s) WITHIN GROUP (ORDER BY %s)", a[1], a[0])
		},
		"TRUNC_DAY":   func(a []string) string { return fmt.Sprintf("DATE_TRUNC('day', %s)", a[0]) },
		"TRUNC_WEEK":  func(a []string) string { return fmt.Sprintf("DATE_TRUNC('week', %s)", a[0]) },
		"TRUNC_MONTH": func(a []string) string { return fmt.Sprintf("DATE_TRUNC('month', %s)", a[0]) },
		"TO_CHAR":     func(a []string) string { return fmt.Sprintf("CAST(%s AS VARCHAR)", a[0]) },
		"PATTERN": func(a []string) string {
			return fmt.Sprintf(
				`REGEXP_REPLACE(REGEXP_REPLACE(REGEXP_REPLACE(%s, '[a-z]', 'a'), '[A-Z]', 'A'), '[0-9]', 'N')`,
				a[0])
		},
		"CURRENT_TS": func(a []string) string { return "GETDATE()" },
		"NULL_DATE":  func(a []string) string { return "CAST(NULL AS TIMESTAMP)" },
		"HAS_DIGIT": func(a []string) string {
			return fmt.Sprintf("CASE WHEN %s ~ '[0-9]' THEN 1 ELSE 0 END", a[0])
		},
	}
}

// SampleExpression returns "" - Redshift has no TABLESAMPLE. The query
// builder substitutes a deterministic MOD(hash, N) = 0 filter instead,
// which preserves sample_ratio semantics for count scaling.
func (d *redshiftDialect) SampleExpression(percent float64) string {
	return ""
}

func (d *redshiftDialect) QuoteIdentifier(name string) string {
	return quoteIfNeeded(name, `"`)
}
