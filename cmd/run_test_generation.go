package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/testgen"
)

var (
	testGenTableGroupID string
	testGenSuiteKey     string
)

var runTestGenerationCmd = &cobra.Command{
	Use:   "run-test-generation",
	Short: "Generate validation tests from the latest profile",
	Long:  "Derives test definitions from the table group's most recent complete profiling run. Unlocked definitions in the suite are replaced; locked ones are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		tableGroupID, err := uuid.Parse(testGenTableGroupID)
		if err != nil {
			return fmt.Errorf("invalid --table-group id %q: %w", testGenTableGroupID, err)
		}

		ctx := cmd.Context()
		_, logger, db, err := setup(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		defer logger.Sync()

		generator := testgen.NewGenerator(db, logger)
		count, err := generator.Generate(ctx, tableGroupID, testGenSuiteKey)
		if err != nil {
			logger.Error("Test generation failed", zap.Error(err))
			return err
		}

		fmt.Printf("Generated %d test definitions for suite %q\n", count, testGenSuiteKey)
		return nil
	},
}

func init() {
	runTestGenerationCmd.Flags().StringVar(&testGenTableGroupID, "table-group", "", "table group id to generate tests for (required)")
	runTestGenerationCmd.Flags().StringVar(&testGenSuiteKey, "test-suite", "", "test suite key to write definitions into (required)")
	_ = runTestGenerationCmd.MarkFlagRequired("table-group")
	_ = runTestGenerationCmd.MarkFlagRequired("test-suite")
}
