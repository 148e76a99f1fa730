package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/gridassist/internal/customer"
)

var usageHourly bool

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show the customer's energy usage",
	Long:  `Displays daily consumption totals for the customer, with the highest and lowest days of the last week.`,
	RunE:  runUsage,
}

func init() {
	usageCmd.Flags().BoolVar(&usageHourly, "hourly", false, "Show every reading instead of daily totals")
	rootCmd.AddCommand(usageCmd)
}

func runUsage(cmd *cobra.Command, args []string) error {
	s, err := newSession(context.Background(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	res := s.assistant.Usage()
	if !res.Available() {
		warnf("%s", res.Reason)
		return nil
	}
	chart := res.Value

	if usageHourly {
		printHeading("Hourly Consumption")
		fmt.Printf("%-20s  %10s\n", "Timestamp", "kWh")
		for _, r := range chart.Readings {
			fmt.Printf("%-20s  %10.2f\n", r.Timestamp.Format("2006-01-02 15:04:05"), r.ConsumptionKWh)
		}
		fmt.Println(rule)
		fmt.Printf("%d readings\n", len(chart.Readings))
		return nil
	}

	printHeading("Daily Consumption")
	fmt.Printf("%-12s  %10s\n", "Date", "kWh")
	var total float64
	for _, p := range chart.Daily {
		fmt.Printf("%-12s  %10.2f\n", p.Date.Format("2006-01-02"), p.Value)
		total += p.Value
	}
	fmt.Println(rule)
	fmt.Printf("Total: %.2f kWh (%d days)\n", total, len(chart.Daily))

	if high, low, ok := customer.HighLow(customer.Recent(chart.Daily, customer.RecentDays)); ok {
		fmt.Printf("\nLast %d days: highest %s (%.2f kWh), lowest %s (%.2f kWh)\n",
			customer.RecentDays,
			high.Date.Format("2006-01-02"), high.Value,
			low.Date.Format("2006-01-02"), low.Value)
	}
	return nil
}
