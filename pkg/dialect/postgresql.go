package dialect

import (
	"fmt"
	"net/url"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

func init() {
	Register(&postgresqlDialect{})
}

type postgresqlDialect struct{}

func (d *postgresqlDialect) Flavor() models.Flavor { return models.FlavorPostgresql }
func (d *postgresqlDialect) DriverName() string    { return "pgx" }
func (d *postgresqlDialect) QuoteChar() string     { return `"` }

func (d *postgresqlDialect) ConnectionString(p ConnParams) (string, error) {
	if p.URL != "" {
		return p.URL, nil
	}
	if p.Host == "" || p.Database == "" {
		return "", fmt.Errorf("postgresql connection requires host and database")
	}
	port := p.Port
	if port == 0 {
		port = 5432
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   fmt.Sprintf("%s:%d", p.Host, port),
		Path:   "/" + p.Database,
	}
	q := u.Query()
	if p.ConnectTimeoutSecs > 0 {
		q.Set("connect_timeout", fmt.Sprintf("%d", p.ConnectTimeoutSecs))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (d *postgresqlDialect) FunctionRewrites() map[string]RewriteFunc {
	return map[string]RewriteFunc{
		"DATEDIFF_DAY": func(a []string) string {
			return fmt.Sprintf("(CAST(%s AS DATE) - CAST(%s AS DATE))", a[1], a[0])
		},
		"DATEDIFF_MONTH": func(a []string) string {
			return fmt.Sprintf(
				"((EXTRACT(YEAR FROM %[2]s) - EXTRACT(YEAR FROM %[1]s)) * 12 + EXTRACT(MONTH FROM %[2]s) - EXTRACT(MONTH FROM %[1]s))",
				a[0], a[1])
		},
		"DATEDIFF_YEAR": func(a []string) string {
			return fmt.Sprintf("(EXTRACT(YEAR FROM %s) - EXTRACT(YEAR FROM %s))", a[1], a[0])
		},
		"LENGTH": func(a []string) string { return fmt.Sprintf("LENGTH(%s)", a[0]) },
		"ISNUM": func(a []string) string {
			return fmt.Sprintf(`CASE WHEN %s ~ '^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?\s*$' THEN 1 ELSE 0 END`, a[0])
		},
		"ISDATE": func(a []string) string {
			// QC utility function installed by the setup command.
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
				`REGEXP_REPLACE(REGEXP_REPLACE(REGEXP_REPLACE(%s, '[a-z]', 'a', 'g'), '[A-Z]', 'A', 'g'), '[0-9]', 'N', 'g')`,
				a[0])
		},
		"CURRENT_TS": func(a []string) string { return "CURRENT_TIMESTAMP" },
		"NULL_DATE":  func(a []string) string { return "CAST(NULL AS TIMESTAMP)" },
		"HAS_DIGIT": func(a []string) string {
			return fmt.Sprintf("CASE WHEN %s ~ '[0-9]' THEN 1 ELSE 0 END", a[0])
		},
	}
}

func (d *postgresqlDialect) SampleExpression(percent float64) string {
	return fmt.Sprintf("TABLESAMPLE BERNOULLI(%.4f)", percent)
}

func (d *postgresqlDialect) QuoteIdentifier(name string) string {
	return quoteIfNeeded(name, `"`)
}
