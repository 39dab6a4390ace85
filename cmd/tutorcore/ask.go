package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studymesh/tutorcore/core"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Run a question through the full decision pipeline",
	Long: `Runs one learner question through moderation, provider selection,
generation with failover, output moderation, and escalation, printing
the vetted answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("user", "cli", "learner user id")
	askCmd.Flags().String("session", "", "session id (defaults to the user id)")
	askCmd.Flags().Int("age", 0, "learner age, 0 for unknown")
	askCmd.Flags().Int("grade", 0, "learner grade, 0 for unknown")
	askCmd.Flags().String("subject", "", "course subject")
	askCmd.Flags().String("type", "", "query type override (e.g. homework_help)")
	askCmd.Flags().Bool("json", false, "print the full response as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	resp, err := st.coordinator.Process(ctx, req)
	if err != nil {
		return fmt.Errorf("processing request: %w", err)
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Println(resp.Text)
	if resp.Safety != core.SafetyLow {
		fmt.Fprintf(os.Stderr, "\n[safety: %s]\n", resp.Safety)
	}
	if resp.Metadata != nil && resp.Metadata.EscalationRecommended {
		fmt.Fprintln(os.Stderr, "[a supervisor has been notified]")
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "[provider=%s model=%s tokens=%d cached=%t]\n",
			resp.Provider, resp.Model, resp.Usage.TotalTokens, resp.Cached)
	}
	return nil
}

func requestFromFlags(cmd *cobra.Command, query string) (core.Request, error) {
	user, _ := cmd.Flags().GetString("user")
	session, _ := cmd.Flags().GetString("session")
	age, _ := cmd.Flags().GetInt("age")
	grade, _ := cmd.Flags().GetInt("grade")
	subject, _ := cmd.Flags().GetString("subject")
	qt, _ := cmd.Flags().GetString("type")

	if session == "" {
		session = user
	}
	if qt != "" && !core.ValidQueryType(core.QueryType(qt)) {
		return core.Request{}, fmt.Errorf("unknown query type %q", qt)
	}

	req := core.Request{
		UserID:    user,
		SessionID: session,
		Query:     query,
		Type:      core.QueryType(qt),
	}
	if age > 0 || grade > 0 {
		req.Learner = &core.LearnerProfile{Age: age, Grade: grade}
	}
	if subject != "" {
		req.Course = &core.CourseContext{Subject: subject}
	}
	return req, nil
}
