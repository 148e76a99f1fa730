package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/gridassist/internal/assistant"
)

var copilotCmd = &cobra.Command{
	Use:   "copilot <customer|agent> <query>",
	Short: "Self-service help for customers or guidance for support agents",
	Long: `Answers a question in one of two roles. As "customer" it explains bills, tariffs
and outages in plain language; as "agent" it gives support staff step-by-step
diagnostic guidance. No customer data files are needed.

Example:
  gridassist copilot agent "Customer reports a bill twice the usual amount"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCopilot,
}

func init() {
	rootCmd.AddCommand(copilotCmd)
}

func runCopilot(cmd *cobra.Command, args []string) error {
	role := args[0]
	if _, err := assistant.SystemPromptFor(role); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	opts := assistantOptions(cfg)
	if !noHistory {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		opts.Store = db
	}

	ctx := context.Background()
	a := assistant.New(nil, newProvider(ctx, cfg), nil, opts)
	zap.L().Debug("copilot request", zap.String("role", role), zap.String("run_id", a.RunID()))

	fmt.Println("Generating response...")
	res := a.Copilot(ctx, role, strings.Join(args[1:], " "))
	if !res.Available() {
		warnf("%s", res.Reason)
		return nil
	}

	printHeading("Copilot Response")
	printText(res.Value.Text)
	return nil
}
