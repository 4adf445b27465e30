package cmd

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/database"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/profiling"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/repositories"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply metadata-store migrations and seed the anomaly catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, logger, db, err := setup(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		defer logger.Sync()

		// golang-migrate drives a database/sql connection, not the pool.
		sqlDB, err := sql.Open("postgres", cfg.Database.ConnectionString())
		if err != nil {
			return fmt.Errorf("failed to open migration connection: %w", err)
		}
		defer sqlDB.Close()

		if err := database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger); err != nil {
			return err
		}

		catalog, err := profiling.LoadAnomalyCatalog()
		if err != nil {
			return fmt.Errorf("failed to load anomaly catalog: %w", err)
		}
		anomalies := repositories.NewAnomalyRepository(db)
		if err := anomalies.UpsertTypes(ctx, catalog); err != nil {
			return fmt.Errorf("failed to seed anomaly types: %w", err)
		}

		logger.Info("Migrations applied and anomaly catalog seeded",
			zap.Int("anomaly_types", len(catalog)))
		return nil
	},
}
