package templates

// Anomaly templates run against the metadata store (PostgreSQL), selecting
// from the run's profile_results. {ANOMALY_CRITERIA} and
// {DETAIL_EXPRESSION} come from the anomaly-type catalog.

const anomalyDetectSQL = `
SELECT p.schema_name,
       p.table_name,
       p.column_name,
       p.column_type,
       {DETAIL_EXPRESSION} AS detail
  FROM profile_results p
 WHERE p.profile_run_id = '{PROFILE_RUN_ID}'
   AND ({ANOMALY_CRITERIA})`

// anomalyPrevalenceSQL backfills dq_prevalence on each detection from the
// anomaly type's prevalence formula, evaluated over the matching profile row.
const anomalyPrevalenceSQL = `
UPDATE profile_anomaly_results r
   SET dq_prevalence = LEAST(1.0, GREATEST(0.0, {PREVALENCE_FORMULA}))
  FROM profile_results p
 WHERE r.profile_run_id = '{PROFILE_RUN_ID}'
   AND r.anomaly_id = '{ANOMALY_ID}'
   AND p.profile_run_id = r.profile_run_id
   AND p.schema_name = r.schema_name
   AND p.table_name = r.table_name
   AND p.column_name = r.column_name`

// anomalyRunStatsSQL refreshes the aggregate anomaly counters on the run row.
const anomalyRunStatsSQL = `
UPDATE profiling_runs
   SET anomaly_ct = stats.anomaly_ct,
       anomaly_table_ct = stats.table_ct,
       anomaly_column_ct = stats.column_ct
  FROM (SELECT COUNT(*) AS anomaly_ct,
               COUNT(DISTINCT table_name) AS table_ct,
               COUNT(DISTINCT table_name || '.' || column_name) AS column_ct
          FROM profile_anomaly_results
         WHERE profile_run_id = '{PROFILE_RUN_ID}') stats
 WHERE id = '{PROFILE_RUN_ID}'`
