package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured provider adapters and check credentials",
	RunE:  runProviders,
}

func init() {
	providersCmd.Flags().Bool("check", false, "validate credentials against each provider")
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	check, _ := cmd.Flags().GetBool("check")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		return err
	}

	for _, adapter := range registry.Adapters() {
		caps := adapter.Capabilities()
		fmt.Printf("%-12s default=%s models=%d max_input=%d guardrails=%t\n",
			adapter.Name(), caps.DefaultModel, len(caps.Models), caps.MaxInputTokens, caps.Guardrails)
		if check {
			if adapter.ValidateCredentials(ctx) {
				fmt.Println("  credentials: ok")
			} else {
				fmt.Println("  credentials: FAILED")
			}
		}
	}
	return nil
}
