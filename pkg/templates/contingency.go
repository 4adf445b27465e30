package templates

// Contingency frequency templates run against the target database.
// Column names arrive pre-quoted by the dialect's reserved-word pass.

const contingencySingleSQL = `
SELECT '{COLUMN_NAME_NO_QUOTES}' AS column_name,
       {{DKFN_TO_CHAR({COLUMN_NAME})}} AS col_value,
       COUNT(*) AS freq_ct
  FROM {TARGET_SCHEMA}.{TABLE_NAME}
 WHERE {COLUMN_NAME} IS NOT NULL AND {SUBSET_CONDITION}
 GROUP BY {COLUMN_NAME}`

const contingencyPairSQL = `
SELECT {{DKFN_TO_CHAR({CAUSE_COLUMN})}} AS cause_value,
       {{DKFN_TO_CHAR({EFFECT_COLUMN})}} AS effect_value,
       COUNT(*) AS freq_ct
  FROM {TARGET_SCHEMA}.{TABLE_NAME}
 WHERE {CAUSE_COLUMN} IS NOT NULL
   AND {EFFECT_COLUMN} IS NOT NULL
   AND {SUBSET_CONDITION}
 GROUP BY {CAUSE_COLUMN}, {EFFECT_COLUMN}`
