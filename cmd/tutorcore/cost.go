package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var costCmd = &cobra.Command{
	Use:   "cost [question]",
	Short: "Estimate the USD cost of answering a question",
	Args:  cobra.ExactArgs(1),
	RunE:  runCost,
}

func init() {
	costCmd.Flags().String("user", "cli", "learner user id")
	costCmd.Flags().String("type", "", "query type override")
	rootCmd.AddCommand(costCmd)
}

func runCost(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close(ctx)

	req, err := requestFromFlags(cmd, args[0])
	if err != nil {
		return err
	}
	usd, err := st.coordinator.EstimateCost(req)
	if err != nil {
		return fmt.Errorf("estimating cost: %w", err)
	}
	fmt.Printf("estimated cost: $%.6f\n", usd)
	return nil
}
