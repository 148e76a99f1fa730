package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var tipsShowPrompt bool

var tipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Get personalized suggestions to reduce the bill",
	Long: `Sends the last week of usage, recent area weather, payment status and tariff slab
to the language model and prints three energy-saving suggestions.`,
	RunE: runTips,
}

func init() {
	tipsCmd.Flags().BoolVar(&tipsShowPrompt, "show-prompt", false, "Print the prompt sent to the model")
	rootCmd.AddCommand(tipsCmd)
}

func runTips(cmd *cobra.Command, args []string) error {
	s, err := newSession(context.Background(), true)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Println("Generating personalized tips...")
	res := s.assistant.Tips(context.Background())
	answer := res.Value

	if tipsShowPrompt && answer.Prompt != "" {
		printHeading("Prompt")
		printText(answer.Prompt)
	}

	if answer.Fallback {
		warnf("Could not generate AI tips. Showing default tip.")
	}
	printHeading("Cost Saving Tips")
	printText(answer.Text)
	return nil
}
