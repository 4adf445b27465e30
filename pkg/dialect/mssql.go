package dialect

import (
	"fmt"
	"net/url"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

func init() {
	Register(&mssqlDialect{})
}

type mssqlDialect struct{}

func (d *mssqlDialect) Flavor() models.Flavor { return models.FlavorMSSQL }
func (d *mssqlDialect) DriverName() string    { return "sqlserver" }
func (d *mssqlDialect) QuoteChar() string     { return `"` }

func (d *mssqlDialect) ConnectionString(p ConnParams) (string, error) {
	if p.URL != "" {
		return p.URL, nil
	}
	if p.Host == "" || p.Database == "" {
		return "", fmt.Errorf("mssql connection requires host and database")
	}
	port := p.Port
	if port == 0 {
		port = 1433
	}
	u := url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(p.User, p.Password),
		Host:   fmt.Sprintf("%s:%d", p.Host, port),
	}
	q := u.Query()
	q.Set("database", p.Database)
	if p.ConnectTimeoutSecs > 0 {
		q.Set("dial timeout", fmt.Sprintf("%d", p.ConnectTimeoutSecs))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (d *mssqlDialect) FunctionRewrites() map[string]RewriteFunc {
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
		"LENGTH": func(a []string) string { return fmt.Sprintf("LEN(%s)", a[0]) },
		"ISNUM":  func(a []string) string { return fmt.Sprintf("ISNUMERIC(%s)", a[0]) },
		"ISDATE": func(a []string) string { return fmt.Sprintf("ISDATE(%s)", a[0]) },
		"STDEV":  func(a []string) string { return fmt.Sprintf("STDEV(%s)", a[0]) },
		// SQL Server's PERCENTILE_CONT is a window function, unusable in a
		// grouped profiling SELECT. Percentiles come back NULL on this
		// flavor; downstream treats missing percentiles as not-computed.
		"PCTILE":    func(a []string) string { return "CAST(NULL AS FLOAT)" },
		"TRUNC_DAY": func(a []string) string { return fmt.Sprintf("CONVERT(DATE, %s)", a[0]) },
		"TRUNC_WEEK": func(a []string) string {
			return fmt.Sprintf("DATEADD(day, 1 - DATEPART(weekday, %[1]s), CONVERT(DATE, %[1]s))", a[0])
		},
		"TRUNC_MONTH": func(a []string) string {
			return fmt.Sprintf("DATEFROMPARTS(YEAR(%[1]s), MONTH(%[1]s), 1)", a[0])
		},
		"TO_CHAR": func(a []string) string { return fmt.Sprintf("CAST(%s AS VARCHAR(8000))", a[0]) },
		// No regexp support; the QC utility schema carries the pattern
		// normaliser, installed by the setup command.
		"PATTERN": func(a []string) string {
			return fmt.Sprintf("{TARGET_QC_SCHEMA}.fn_pattern(%s)", a[0])
		},
		"CURRENT_TS": func(a []string) string { return "GETDATE()" },
		"NULL_DATE":  func(a []string) string { return "CAST(NULL AS DATETIME)" },
		"HAS_DIGIT": func(a []string) string {
			return fmt.Sprintf("CASE WHEN %s LIKE '%%[0-9]%%' THEN 1 ELSE 0 END", a[0])
		},
	}
}

func (d *mssqlDialect) SampleExpression(percent float64) string {
	return fmt.Sprintf("TABLESAMPLE (%.4f PERCENT)", percent)
}

func (d *mssqlDialect) QuoteIdentifier(name string) string {
	return quoteIfNeeded(name, `"`)
}
