package templates

// Round-1 profiling templates. Every branch projects the same column set in
// the same order so branches for different general types can be composed
// into one UNION ALL batch and split at UNION ALL boundaries when the
// composition exceeds max_query_chars.

// Round1Columns is the shared projection, in order.
var Round1Columns = []string{
	"schema_name", "table_name", "column_name", "position", "column_type", "general_type",
	"record_ct", "value_ct", "distinct_value_ct", "null_value_ct",
	"min_length", "max_length", "avg_length",
	"zero_length_ct", "lead_space_ct", "embedded_space_ct", "avg_embedded_spaces",
	"quoted_value_ct", "numeric_ct", "date_ct", "includes_digit_ct", "filled_value_ct",
	"distinct_std_value_ct", "distinct_pattern_ct",
	"min_value", "min_value_over_0", "max_value", "avg_value", "stdev_value",
	"percentile_25", "percentile_50", "percentile_75", "fractional_sum", "zero_value_ct",
	"min_date", "max_date",
	"before_1yr_date_ct", "before_5yr_date_ct", "within_1yr_date_ct", "within_1mo_date_ct",
	"future_date_ct", "date_days_present", "date_weeks_present", "date_months_present",
	"boolean_true_ct",
}

const profileAlphaSQL = `
SELECT '{TARGET_SCHEMA}' AS schema_name,
       '{TABLE_NAME}' AS table_name,
       '{COLUMN_NAME_NO_QUOTES}' AS column_name,
       {ORDINAL_POSITION} AS position,
       '{COLUMN_TYPE}' AS column_type,
       'A' AS general_type,
       COUNT(*) AS record_ct,
       COUNT({COLUMN_NAME}) AS value_ct,
       COUNT(DISTINCT {COLUMN_NAME}) AS distinct_value_ct,
       SUM(CASE WHEN {COLUMN_NAME} IS NULL THEN 1 ELSE 0 END) AS null_value_ct,
       MIN({{DKFN_LENGTH({COLUMN_NAME})}}) AS min_length,
       MAX({{DKFN_LENGTH({COLUMN_NAME})}}) AS max_length,
       AVG(CAST({{DKFN_LENGTH({COLUMN_NAME})}} AS FLOAT)) AS avg_length,
       SUM(CASE WHEN {{DKFN_LENGTH({COLUMN_NAME})}} = 0 THEN 1 ELSE 0 END) AS zero_length_ct,
       SUM(CASE WHEN {COLUMN_NAME} LIKE ' %' THEN 1 ELSE 0 END) AS lead_space_ct,
       SUM(CASE WHEN TRIM({COLUMN_NAME}) LIKE '% %' THEN 1 ELSE 0 END) AS embedded_space_ct,
       AVG(CAST({{DKFN_LENGTH({COLUMN_NAME})}} - {{DKFN_LENGTH(REPLACE({COLUMN_NAME}, ' ', ''))}} AS FLOAT)) AS avg_embedded_spaces,
       SUM(CASE WHEN {COLUMN_NAME} LIKE '"%"' OR {COLUMN_NAME} LIKE '''%''' THEN 1 ELSE 0 END) AS quoted_value_ct,
       SUM({{DKFN_ISNUM({COLUMN_NAME})}}) AS numeric_ct,
       SUM({{DKFN_ISDATE({COLUMN_NAME})}}) AS date_ct,
       SUM({{DKFN_HAS_DIGIT({COLUMN_NAME})}}) AS includes_digit_ct,
       SUM(CASE WHEN UPPER(TRIM({COLUMN_NAME})) IN ('BLANK','EMPTY','MISSING','N/A','NA','NONE','NULL','TBD','UNKNOWN','?','-','.','0','9999999') THEN 1 ELSE 0 END) AS filled_value_ct,
       COUNT(DISTINCT UPPER(TRIM({COLUMN_NAME}))) AS distinct_std_value_ct,
       COUNT(DISTINCT {{DKFN_PATTERN({COLUMN_NAME})}}) AS distinct_pattern_ct,
       CAST(NULL AS FLOAT) AS min_value,
       CAST(NULL AS FLOAT) AS min_value_over_0,
       CAST(NULL AS FLOAT) AS max_value,
       CAST(NULL AS FLOAT) AS avg_value,
       CAST(NULL AS FLOAT) AS stdev_value,
       CAST(NULL AS FLOAT) AS percentile_25,
       CAST(NULL AS FLOAT) AS percentile_50,
       CAST(NULL AS FLOAT) AS percentile_75,
       CAST(NULL AS FLOAT) AS fractional_sum,
       CAST(NULL AS BIGINT) AS zero_value_ct,
       {{DKFN_NULL_DATE()}} AS min_date,
       {{DKFN_NULL_DATE()}} AS max_date,
       CAST(NULL AS BIGINT) AS before_1yr_date_ct,
       CAST(NULL AS BIGINT) AS before_5yr_date_ct,
       CAST(NULL AS BIGINT) AS within_1yr_date_ct,
       CAST(NULL AS BIGINT) AS within_1mo_date_ct,
       CAST(NULL AS BIGINT) AS future_date_ct,
       CAST(NULL AS BIGINT) AS date_days_present,
       CAST(NULL AS BIGINT) AS date_weeks_present,
       CAST(NULL AS BIGINT) AS date_months_present,
       CAST(NULL AS BIGINT) AS boolean_true_ct
  FROM {TARGET_SCHEMA}.{TABLE_NAME}{SAMPLING_TABLE_SUFFIX}
 WHERE {SAMPLING_CONDITION} AND {SUBSET_CONDITION}`

const profileNumericSQL = `
SELECT '{TARGET_SCHEMA}' AS schema_name,
       '{TABLE_NAME}' AS table_name,
       '{COLUMN_NAME_NO_QUOTES}' AS column_name,
       {ORDINAL_POSITION} AS position,
       '{COLUMN_TYPE}' AS column_type,
       'N' AS general_type,
       COUNT(*) AS record_ct,
       COUNT({COLUMN_NAME}) AS value_ct,
       COUNT(DISTINCT {COLUMN_NAME}) AS distinct_value_ct,
       SUM(CASE WHEN {COLUMN_NAME} IS NULL THEN 1 ELSE 0 END) AS null_value_ct,
       CAST(NULL AS BIGINT) AS min_length,
       CAST(NULL AS BIGINT) AS max_length,
       CAST(NULL AS FLOAT) AS avg_length,
       CAST(NULL AS BIGINT) AS zero_length_ct,
       CAST(NULL AS BIGINT) AS lead_space_ct,
       CAST(NULL AS BIGINT) AS embedded_space_ct,
       CAST(NULL AS FLOAT) AS avg_embedded_spaces,
       CAST(NULL AS BIGINT) AS quoted_value_ct,
       CAST(NULL AS BIGINT) AS numeric_ct,
       CAST(NULL AS BIGINT) AS date_ct,
       CAST(NULL AS BIGINT) AS includes_digit_ct,
       CAST(NULL AS BIGINT) AS filled_value_ct,
       CAST(NULL AS BIGINT) AS distinct_std_value_ct,
       CAST(NULL AS BIGINT) AS distinct_pattern_ct,
       MIN(CAST({COLUMN_NAME} AS FLOAT)) AS min_value,
       MIN(CASE WHEN {COLUMN_NAME} > 0 THEN CAST({COLUMN_NAME} AS FLOAT) END) AS min_value_over_0,
       MAX(CAST({COLUMN_NAME} AS FLOAT)) AS max_value,
       AVG(CAST({COLUMN_NAME} AS FLOAT)) AS avg_value,
       {{DKFN_STDEV(CAST({COLUMN_NAME} AS FLOAT))}} AS stdev_value,
       {{DKFN_PCTILE(CAST({COLUMN_NAME} AS FLOAT), 0.25)}} AS percentile_25,
       {{DKFN_PCTILE(CAST({COLUMN_NAME} AS FLOAT), 0.50)}} AS percentile_50,
       {{DKFN_PCTILE(CAST({COLUMN_NAME} AS FLOAT), 0.75)}} AS percentile_75,
       SUM(CAST(ABS({COLUMN_NAME} - ROUND({COLUMN_NAME}, 0)) AS FLOAT)) AS fractional_sum,
       SUM(CASE WHEN {COLUMN_NAME} = 0 THEN 1 ELSE 0 END) AS zero_value_ct,
       {{DKFN_NULL_DATE()}} AS min_date,
       {{DKFN_NULL_DATE()}} AS max_date,
       CAST(NULL AS BIGINT) AS before_1yr_date_ct,
       CAST(NULL AS BIGINT) AS before_5yr_date_ct,
       CAST(NULL AS BIGINT) AS within_1yr_date_ct,
       CAST(NULL AS BIGINT) AS within_1mo_date_ct,
       CAST(NULL AS BIGINT) AS future_date_ct,
       CAST(NULL AS BIGINT) AS date_days_present,
       CAST(NULL AS BIGINT) AS date_weeks_present,
       CAST(NULL AS BIGINT) AS date_months_present,
       CAST(NULL AS BIGINT) AS boolean_true_ct
  FROM {TARGET_SCHEMA}.{TABLE_NAME}{SAMPLING_TABLE_SUFFIX}
 WHERE {SAMPLING_CONDITION} AND {SUBSET_CONDITION}`

const profileDateSQL = `
SELECT '{TARGET_SCHEMA}' AS schema_name,
       '{TABLE_NAME}' AS table_name,
       '{COLUMN_NAME_NO_QUOTES}' AS column_name,
       {ORDINAL_POSITION} AS position,
       '{COLUMN_TYPE}' AS column_type,
       'D' AS general_type,
       COUNT(*) AS record_ct,
       COUNT({COLUMN_NAME}) AS value_ct,
       COUNT(DISTINCT {COLUMN_NAME}) AS distinct_value_ct,
       SUM(CASE WHEN {COLUMN_NAME} IS NULL THEN 1 ELSE 0 END) AS null_value_ct,
       CAST(NULL AS BIGINT) AS min_length,
       CAST(NULL AS BIGINT) AS max_length,
       CAST(NULL AS FLOAT) AS avg_length,
       CAST(NULL AS BIGINT) AS zero_length_ct,
       CAST(NULL AS BIGINT) AS lead_space_ct,
       CAST(NULL AS BIGINT) AS embedded_space_ct,
       CAST(NULL AS FLOAT) AS avg_embedded_spaces,
       CAST(NULL AS BIGINT) AS quoted_value_ct,
       CAST(NULL AS BIGINT) AS numeric_ct,
       CAST(NULL AS BIGINT) AS date_ct,
       CAST(NULL AS BIGINT) AS includes_digit_ct,
       CAST(NULL AS BIGINT) AS filled_value_ct,
       CAST(NULL AS BIGINT) AS distinct_std_value_ct,
       CAST(NULL AS BIGINT) AS distinct_pattern_ct,
       CAST(NULL AS FLOAT) AS min_value,
       CAST(NULL AS FLOAT) AS min_value_over_0,
       CAST(NULL AS FLOAT) AS max_value,
       CAST(NULL AS FLOAT) AS avg_value,
       CAST(NULL AS FLOAT) AS stdev_value,
       CAST(NULL AS FLOAT) AS percentile_25,
       CAST(NULL AS FLOAT) AS percentile_50,
       CAST(NULL AS FLOAT) AS percentile_75,
       CAST(NULL AS FLOAT) AS fractional_sum,
       CAST(NULL AS BIGINT) AS zero_value_ct,
       MIN({COLUMN_NAME}) AS min_date,
       MAX({COLUMN_NAME}) AS max_date,
       SUM(CASE WHEN {{DKFN_DATEDIFF_DAY({COLUMN_NAME}, {{DKFN_CURRENT_TS()}})}} > 365 THEN 1 ELSE 0 END) AS before_1yr_date_ct,
       SUM(CASE WHEN {{DKFN_DATEDIFF_DAY({COLUMN_NAME}, {{DKFN_CURRENT_TS()}})}} > 1825 THEN 1 ELSE 0 END) AS before_5yr_date_ct,
       SUM(CASE WHEN {{DKFN_DATEDIFF_DAY({COLUMN_NAME}, {{DKFN_CURRENT_TS()}})}} BETWEEN 0 AND 365 THEN 1 ELSE 0 END) AS within_1yr_date_ct,
       SUM(CASE WHEN {{DKFN_DATEDIFF_DAY({COLUMN_NAME}, {{DKFN_CURRENT_TS()}})}} BETWEEN 0 AND 30 THEN 1 ELSE 0 END) AS within_1mo_date_ct,
       SUM(CASE WHEN {COLUMN_NAME} > {{DKFN_CURRENT_TS()}} THEN 1 ELSE 0 END) AS future_date_ct,
       COUNT(DISTINCT {{DKFN_TRUNC_DAY({COLUMN_NAME})}}) AS date_days_present,
       COUNT(DISTINCT {{DKFN_TRUNC_WEEK({COLUMN_NAME})}}) AS date_weeks_present,
       COUNT(DISTINCT {{DKFN_TRUNC_MONTH({COLUMN_NAME})}}) AS date_months_present,
       CAST(NULL AS BIGINT) AS boolean_true_ct
  FROM {TARGET_SCHEMA}.{TABLE_NAME}{SAMPLING_TABLE_SUFFIX}
 WHERE {SAMPLING_CONDITION} AND {SUBSET_CONDITION}`

const profileBooleanSQL = `
SELECT '{TARGET_SCHEMA}' AS schema_name,
       '{TABLE_NAME}' AS table_name,
       '{COLUMN_NAME_NO_QUOTES}' AS column_name,
       {ORDINAL_POSITION} AS position,
       '{COLUMN_TYPE}' AS column_type,
       'B' AS general_type,
       COUNT(*) AS record_ct,
       COUNT({COLUMN_NAME}) AS value_ct,
       COUNT(DISTINCT {COLUMN_NAME}) AS distinct_value_ct,
       SUM(CASE WHEN {COLUMN_NAME} IS NULL THEN 1 ELSE 0 END) AS null_value_ct,
       CAST(NULL AS BIGINT) AS min_length,
       CAST(NULL AS BIGINT) AS max_length,
       CAST(NULL AS FLOAT) AS avg_length,
       CAST(NULL AS BIGINT) AS zero_length_ct,
       CAST(NULL AS BIGINT) AS lead_space_ct,
       CAST(NULL AS BIGINT) AS embedded_space_ct,
       CAST(NULL AS FLOAT) AS avg_embedded_spaces,
       CAST(NULL AS BIGINT) AS quoted_value_ct,
       CAST(NULL AS BIGINT) AS numeric_ct,
       CAST(NULL AS BIGINT) AS date_ct,
       CAST(NULL AS BIGINT) AS includes_digit_ct,
       CAST(NULL AS BIGINT) AS filled_value_ct,
       CAST(NULL AS BIGINT) AS distinct_std_value_ct,
       CAST(NULL AS BIGINT) AS distinct_pattern_ct,
       CAST(NULL AS FLOAT) AS min_value,
       CAST(NULL AS FLOAT) AS min_value_over_0,
       CAST(NULL AS FLOAT) AS max_value,
       CAST(NULL AS FLOAT) AS avg_value,
       CAST(NULL AS FLOAT) AS stdev_value,
       CAST(NULL AS FLOAT) AS percentile_25,
       CAST(NULL AS FLOAT) AS percentile_50,
       CAST(NULL AS FLOAT) AS percentile_75,
       CAST(NULL AS FLOAT) AS fractional_sum,
       CAST(NULL AS BIGINT) AS zero_value_ct,
       {{DKFN_NULL_DATE()}} AS min_date,
       {{DKFN_NULL_DATE()}} AS max_date,
       CAST(NULL AS BIGINT) AS before_1yr_date_ct,
       CAST(NULL AS BIGINT) AS before_5yr_date_ct,
       CAST(NULL AS BIGINT) AS within_1yr_date_ct,
       CAST(NULL AS BIGINT) AS within_1mo_date_ct,
       CAST(NULL AS BIGINT) AS future_date_ct,
       CAST(NULL AS BIGINT) AS date_days_present,
       CAST(NULL AS BIGINT) AS date_weeks_present,
       CAST(NULL AS BIGINT) AS date_months_present,
       SUM(CASE WHEN {{DKFN_TO_CHAR({COLUMN_NAME})}} IN ('1', 't', 'true', 'TRUE', 'Y', 'yes') THEN 1 ELSE 0 END) AS boolean_true_ct
  FROM {TARGET_SCHEMA}.{TABLE_NAME}{SAMPLING_TABLE_SUFFIX}
 WHERE {SAMPLING_CONDITION} AND {SUBSET_CONDITION}`
