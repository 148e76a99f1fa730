package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Show billing history and payment activity",
	Long:  `Displays the customer's billing records (without the amount paid column) and their payments.`,
	RunE:  runBilling,
}

func init() {
	rootCmd.AddCommand(billingCmd)
}

func runBilling(cmd *cobra.Command, args []string) error {
	s, err := newSession(context.Background(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	if !s.view.BillAmountResolved {
		warnf("No bill amount column found (tried Bill_Amount and its aliases)")
	}

	printHeading("Billing History")
	if res := s.assistant.BillingHistory(); res.Available() {
		printTable(res.Value)
	} else {
		fmt.Println(res.Reason)
	}

	printHeading("Payment Activity")
	if res := s.assistant.PaymentActivity(); res.Available() {
		printTable(res.Value)
	} else {
		fmt.Println(res.Reason)
	}
	return nil
}
