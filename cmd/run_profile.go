package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/profiling"
)

var profileTableGroupID string

var runProfileCmd = &cobra.Command{
	Use:   "run-profile",
	Short: "Profile all tables in a table group",
	Long:  "Runs the full profiling pipeline against a table group: column discovery, per-column statistics, anomaly detection, scoring, and pair-rule analysis.",
	RunE: func(cmd *cobra.Command, args []string) error {
		tableGroupID, err := uuid.Parse(profileTableGroupID)
		if err != nil {
			return fmt.Errorf("invalid --table-group id %q: %w", profileTableGroupID, err)
		}

		ctx := cmd.Context()
		cfg, logger, db, err := setup(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		defer logger.Sync()

		orchestrator := profiling.NewOrchestrator(cfg, db, logger)
		summary, err := orchestrator.RunProfiling(ctx, tableGroupID)
		if err != nil {
			logger.Error("Profiling run failed", zap.Error(err))
			return err
		}

		fmt.Printf("Profiling run %s finished: %s\n", summary.RunID, summary.Status)
		fmt.Printf("  Tables:     %d\n", summary.TableCt)
		fmt.Printf("  Columns:    %d\n", summary.ColumnCt)
		fmt.Printf("  Anomalies:  %d\n", summary.AnomalyCt)
		fmt.Printf("  Pair rules: %d\n", summary.PairRuleCt)
		fmt.Printf("  Errors:     %d\n", summary.ErrorCt)
		fmt.Printf("  Elapsed:    %.1fs\n", summary.ElapsedSecs)
		return nil
	},
}

func init() {
	runProfileCmd.Flags().StringVar(&profileTableGroupID, "table-group", "", "table group id to profile (required)")
	_ = runProfileCmd.MarkFlagRequired("table-group")
}
