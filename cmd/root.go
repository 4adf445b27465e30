// Package cmd wires the testgen commands: schema migration, profiling runs,
// test generation, and run maintenance.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/config"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/database"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/logging"
)

var version string

var rootCmd = &cobra.Command{
	Use:           "testgen",
	Short:         "Data profiling and test generation engine",
	Long:          "testgen profiles tables in a target database, detects data quality anomalies, and generates validation tests from the profiles.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. The build version is injected from main.
func Execute(buildVersion string) error {
	version = buildVersion
	rootCmd.Version = buildVersion
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(runProfileCmd)
	rootCmd.AddCommand(runTestGenerationCmd)
	rootCmd.AddCommand(cancelRunsCmd)
}

// loadConfig reads config.yaml when present, falling back to environment
// variables so the CLI works outside a deployment directory.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat("config.yaml"); err == nil {
		return config.Load(version)
	}
	return config.LoadFromEnv(version)
}

// setup builds the shared command context: configuration, logger, and a
// metadata-store pool. Callers own closing the pool and syncing the logger.
func setup(ctx context.Context) (*config.Config, *zap.Logger, *database.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, fmt.Errorf("failed to connect to metadata store: %w", err)
	}

	return cfg, logger, db, nil
}
