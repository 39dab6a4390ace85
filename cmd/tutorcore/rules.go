package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studymesh/tutorcore/config"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Work with escalation rule tables",
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate an escalation rule table",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesCheck,
}

func init() {
	rulesCmd.AddCommand(rulesCheckCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesCheck(cmd *cobra.Command, args []string) error {
	rules, err := config.LoadRules(args[0])
	if err != nil {
		return err
	}
	enabled := 0
	for _, rule := range rules {
		if rule.Enabled {
			enabled++
		}
	}
	fmt.Printf("%s: %d rules (%d enabled)\n", args[0], len(rules), enabled)
	for _, rule := range rules {
		state := "enabled"
		if !rule.Enabled {
			state = "disabled"
		}
		fmt.Printf("  %-24s %-8s %d condition(s) -> %s\n", rule.ID, state, len(rule.Conditions), rule.Action)
	}
	return nil
}
