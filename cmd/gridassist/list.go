package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/gridassist/internal/database"
)

var (
	listCustomer string
	listInsights bool
	listLimit    int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored forecasts and insights",
	Long:  `Displays the forecast rows, or with --insights the model responses, stored in the database.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listCustomer, "customer", "", "Filter by customer ID")
	listCmd.Flags().BoolVar(&listInsights, "insights", false, "List stored model responses instead of forecasts")
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of insights to show")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if listInsights {
		return listStoredInsights(db)
	}

	data, err := db.ListForecasts(listCustomer)
	if err != nil {
		return fmt.Errorf("listing forecasts: %w", err)
	}
	if len(data) == 0 {
		fmt.Println("No forecasts found")
		return nil
	}

	// Rows arrive ordered by customer, then date
	var (
		current string
		total   float64
		count   int
	)
	flush := func() {
		if count == 0 {
			return
		}
		fmt.Println(rule)
		fmt.Printf("Total: %.2f kWh (%d records)\n", total, count)
	}

	for _, record := range data {
		if record.CustomerID != current || count == 0 {
			flush()
			current, total, count = record.CustomerID, 0, 0
			fmt.Printf("\n%s Forecast:\n", current)
			fmt.Println(rule)
			fmt.Printf("%-12s  %-20s  %10s  %s\n", "Date", "Weather", "kWh", "Published")
			fmt.Println(rule)
		}
		published := ""
		if record.Published {
			published = "✓"
		}
		fmt.Printf("%-12s  %-20s  %10.2f  %s\n", record.Date.Format("2006-01-02"), record.Condition, record.PredictedKWh, published)
		total += record.PredictedKWh
		count++
	}
	flush()

	return nil
}

// listStoredInsights prints the newest model responses with a short preview
func listStoredInsights(db *database.DB) error {
	insights, err := db.ListInsights(listCustomer, listLimit)
	if err != nil {
		return fmt.Errorf("listing insights: %w", err)
	}
	if len(insights) == 0 {
		fmt.Println("No insights found")
		return nil
	}

	fmt.Printf("%-14s  %-10s  %-16s  %s\n", "When", "Customer", "Feature", "Response")
	fmt.Println(rule)
	for _, in := range insights {
		fmt.Printf("%-14s  %-10s  %-16s  %s\n", humanize.Time(in.CreatedAt), in.CustomerID, in.Feature, preview(in.Response, 60))
	}
	fmt.Println(rule)
	fmt.Printf("%d insights\n", len(insights))
	return nil
}

// preview flattens s to one line of at most n runes
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
