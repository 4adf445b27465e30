package templates

// Scoring rollup templates run against the metadata store. Only anomalies
// with disposition NULL or Confirmed participate; Dismissed and Inactive
// detections are excluded at the join.

const scoreColumnRollupSQL = `
UPDATE data_column_chars dcc
   SET dq_score_profiling = col.good_data_pct,
       last_complete_profile_run_id = '{PROFILE_RUN_ID}'
  FROM (SELECT p.table_groups_id, p.schema_name, p.table_name, p.column_name,
               GREATEST(0.0, 1.0 - LEAST(1.0, COALESCE(SUM(a.dq_prevalence), 0.0))) AS good_data_pct
          FROM profile_results p
          LEFT JOIN profile_anomaly_results a
            ON a.profile_run_id = p.profile_run_id
           AND a.schema_name = p.schema_name
           AND a.table_name = p.table_name
           AND a.column_name = p.column_name
           AND COALESCE(a.disposition, '') IN ('', 'Confirmed')
         WHERE p.profile_run_id = '{PROFILE_RUN_ID}'
         GROUP BY p.table_groups_id, p.schema_name, p.table_name, p.column_name) col
 WHERE dcc.table_groups_id = col.table_groups_id
   AND dcc.schema_name = col.schema_name
   AND dcc.table_name = col.table_name
   AND dcc.column_name = col.column_name`

const scoreRunRollupSQL = `
UPDATE profiling_runs pr
   SET dq_score_profiling = scored.score
  FROM (SELECT CAST(SUM(p.record_ct * col.good_data_pct) AS FLOAT)
               / NULLIF(SUM(p.record_ct), 0) AS score
          FROM profile_results p
          JOIN (SELECT p2.id,
                       GREATEST(0.0, 1.0 - LEAST(1.0, COALESCE(SUM(a.dq_prevalence), 0.0))) AS good_data_pct
                  FROM profile_results p2
                  LEFT JOIN profile_anomaly_results a
                    ON a.profile_run_id = p2.profile_run_id
                   AND a.schema_name = p2.schema_name
                   AND a.table_name = p2.table_name
                   AND a.column_name = p2.column_name
                   AND COALESCE(a.disposition, '') IN ('', 'Confirmed')
                 WHERE p2.profile_run_id = '{PROFILE_RUN_ID}'
                 GROUP BY p2.id) col ON col.id = p.id
         WHERE p.profile_run_id = '{PROFILE_RUN_ID}') scored
 WHERE pr.id = '{PROFILE_RUN_ID}'`

const scoreGroupRollupSQL = `
UPDATE table_groups tg
   SET dq_score_profiling = pr.dq_score_profiling,
       last_complete_profile_run_id = pr.id
  FROM profiling_runs pr
 WHERE pr.id = '{PROFILE_RUN_ID}'
   AND tg.id = pr.table_groups_id`
