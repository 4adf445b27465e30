package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/repositories"
)

var cancelRunsCmd = &cobra.Command{
	Use:   "cancel-runs",
	Short: "Cancel all profiling runs stuck in Running status",
	Long:  "Marks every profiling run still in Running status as Cancelled. Use after a crashed or killed engine process left runs dangling.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, logger, db, err := setup(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		defer logger.Sync()

		runs := repositories.NewProfilingRunRepository(db)
		cancelled, err := runs.CancelAllRunning(ctx)
		if err != nil {
			logger.Error("Failed to cancel runs", zap.Error(err))
			return err
		}

		fmt.Printf("Cancelled %d profiling run(s)\n", cancelled)
		return nil
	},
}
