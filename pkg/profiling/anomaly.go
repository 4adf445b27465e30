package profiling

import (
	"context"

	"go.uber.org/zap"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/dialect"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/querybuilder"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/templates"
)

// metadataBuilder returns a query builder for the metadata store, which is
// always PostgreSQL regardless of the target flavor.
func metadataBuilder() (*querybuilder.Builder, error) {
	d, err := dialect.ForFlavor(models.FlavorPostgresql)
	if err != nil {
		return nil, err
	}
	return querybuilder.New(d), nil
}

// detectAnomalies runs the catalog-driven hygiene tests over this run's
// profile results. A defective catalog entry is counted and skipped;
// persistence and stats-refresh failures are fatal. Returns the detection
// count and the error count.
func (o *Orchestrator) detectAnomalies(ctx context.Context, logger *zap.Logger, run *models.ProfilingRun, tg *models.TableGroup) (int, int, error) {
	types, err := o.anomalies.ListTypes(ctx)
	if err != nil {
		return 0, 0, err
	}

	builder, err := metadataBuilder()
	if err != nil {
		return 0, 0, err
	}

	errorCt := 0
	var all []*models.ProfileAnomalyResult
	for _, at := range types {
		binding := querybuilder.NewBinding().
			Set(querybuilder.TokenProfileRunID, run.ID.String()).
			Set(querybuilder.TokenAnomalyCriteria, at.AnomalyCriteria).
			Set(querybuilder.TokenDetailExpression, at.DetailExpression)

		query, err := builder.Build(templates.AnomalyDetect, binding)
		if err != nil {
			logger.Warn("anomaly detection build failed",
				zap.String("anomaly", at.AnomalyName), zap.Error(err))
			errorCt++
			continue
		}

		detections, err := o.anomalies.RunDetection(ctx, query)
		if err != nil {
			logger.Warn("anomaly detection query failed",
				zap.String("anomaly", at.AnomalyName), zap.Error(err))
			errorCt++
			continue
		}

		for _, det := range detections {
			det.ProfileRunID = run.ID
			det.TableGroupID = tg.ID
			det.AnomalyID = at.ID
		}
		all = append(all, detections...)

		if len(detections) > 0 {
			logger.Debug("anomalies detected",
				zap.String("anomaly", at.AnomalyName),
				zap.Int("count", len(detections)))
		}
	}

	if err := o.anomalies.InsertResults(ctx, all); err != nil {
		return 0, errorCt, err
	}

	// Prevalence backfill, only for types declaring a formula.
	for _, at := range types {
		if at.DQScorePrevalenceFormula == "" {
			continue
		}
		binding := querybuilder.NewBinding().
			Set(querybuilder.TokenProfileRunID, run.ID.String()).
			Set(querybuilder.TokenAnomalyID, at.ID).
			Set(querybuilder.TokenPrevalenceFormula, at.DQScorePrevalenceFormula)

		stmt, err := builder.Build(templates.AnomalyPrevalence, binding)
		if err != nil {
			logger.Warn("prevalence build failed",
				zap.String("anomaly", at.AnomalyName), zap.Error(err))
			errorCt++
			continue
		}
		if err := o.anomalies.Exec(ctx, stmt); err != nil {
			return len(all), errorCt, err
		}
	}

	statsBinding := querybuilder.NewBinding().
		Set(querybuilder.TokenProfileRunID, run.ID.String())
	stats, err := builder.Build(templates.AnomalyRunStats, statsBinding)
	if err != nil {
		return len(all), errorCt, err
	}
	if err := o.anomalies.Exec(ctx, stats); err != nil {
		return len(all), errorCt, err
	}

	return len(all), errorCt, nil
}
