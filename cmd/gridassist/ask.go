package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask anything about the customer's energy data",
	Long: `Answers a free-form question using the last week of usage, recent bills and
payments, and recent temperature readings as context.

Example:
  gridassist ask "Why was my usage high last week?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	s, err := newSession(context.Background(), true)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Println("Thinking...")
	res := s.assistant.Ask(context.Background(), strings.Join(args, " "))
	if !res.Available() {
		warnf("%s", res.Reason)
		return nil
	}

	printHeading("Assistant's Response")
	printText(res.Value.Text)
	return nil
}
