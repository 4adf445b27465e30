package templates

// columnDiscoverySQL is the DDF query: one row per column in the table
// group's scope. information_schema is common to all supported flavors.
// General-type classification from data_type happens in Go.
const columnDiscoverySQL = `
SELECT c.table_schema  AS schema_name,
       c.table_name    AS table_name,
       c.column_name   AS column_name,
       c.data_type     AS column_type,
       c.ordinal_position AS position,
       COALESCE(c.numeric_scale, 0) AS numeric_scale
  FROM information_schema.columns c
  JOIN information_schema.tables t
    ON c.table_schema = t.table_schema
   AND c.table_name = t.table_name
 WHERE t.table_type = 'BASE TABLE'
   AND c.table_schema = '{TARGET_SCHEMA}'
   AND ({TABLE_CRITERIA})
 ORDER BY c.table_name, c.ordinal_position`

// tableRowCountSQL probes one table for its row count. Used by the sampling
// decision step.
const tableRowCountSQL = `
SELECT '{TABLE_NAME}' AS table_name, COUNT(*) AS record_ct
  FROM {TARGET_SCHEMA}.{TABLE_NAME}`
