package templates

// Round-2 frequency templates. ROW_NUMBER keeps the top-N filter portable
// across flavors that disagree on LIMIT vs TOP.

const freqTopValuesSQL = `
SELECT column_name, freq_value, freq_ct
  FROM (SELECT '{COLUMN_NAME_NO_QUOTES}' AS column_name,
               {{DKFN_TO_CHAR({COLUMN_NAME})}} AS freq_value,
               COUNT(*) AS freq_ct,
               ROW_NUMBER() OVER (ORDER BY COUNT(*) DESC, {{DKFN_TO_CHAR({COLUMN_NAME})}}) AS rn
          FROM {TARGET_SCHEMA}.{TABLE_NAME}
         WHERE {COLUMN_NAME} IS NOT NULL AND {SUBSET_CONDITION}
         GROUP BY {COLUMN_NAME}) ranked
 WHERE rn <= {LIMIT}
 ORDER BY freq_ct DESC, freq_value`

const freqTopPatternsSQL = `
SELECT column_name, pattern_value, freq_ct
  FROM (SELECT '{COLUMN_NAME_NO_QUOTES}' AS column_name,
               {{DKFN_PATTERN({COLUMN_NAME})}} AS pattern_value,
               COUNT(*) AS freq_ct,
               ROW_NUMBER() OVER (ORDER BY COUNT(*) DESC) AS rn
          FROM {TARGET_SCHEMA}.{TABLE_NAME}
         WHERE {COLUMN_NAME} IS NOT NULL AND {SUBSET_CONDITION}
         GROUP BY {{DKFN_PATTERN({COLUMN_NAME})}}) ranked
 WHERE rn <= {LIMIT}
 ORDER BY freq_ct DESC, pattern_value`
