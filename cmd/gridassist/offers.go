package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var offersCmd = &cobra.Command{
	Use:   "offers",
	Short: "Get personalized plan and bill relief recommendations",
	Long: `Uses the average of the last three bills, payment history and the available
tariff plans to suggest offers or tariff changes. Requires a bill amount column in
the billing file.`,
	RunE: runOffers,
}

func init() {
	rootCmd.AddCommand(offersCmd)
}

func runOffers(cmd *cobra.Command, args []string) error {
	s, err := newSession(context.Background(), true)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Println("Generating plan recommendations...")
	res := s.assistant.Offers(context.Background())
	if !res.Available() {
		warnf("%s", res.Reason)
		return nil
	}

	offers := res.Value
	fmt.Printf("Average of recent bills: £%.2f\n", offers.AverageBill)
	if offers.MissedPayments {
		fmt.Println("Missed or failed payments on record")
	}
	printHeading("Plan Suggestions & Offers")
	printText(offers.Text)
	return nil
}
