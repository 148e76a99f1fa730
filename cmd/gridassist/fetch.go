package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a usage forecast into the database",
	Long: `Runs the weather-aware usage forecast and stores the predicted rows in the local
SQLite database, replacing earlier predictions for the same days. Stored rows can be
sent to Home Assistant with the publish command.`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Fetch started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	if noHistory {
		return fmt.Errorf("fetch stores forecasts in the database and cannot run with --no-history")
	}

	s, err := newSession(context.Background(), true)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("Fetching forecast for %s (%d days)...\n", s.cfg.GetWeatherLocation(), s.cfg.GetForecastDays())
	res := s.assistant.Forecast(context.Background())
	if !res.Available() {
		return fmt.Errorf("forecasting: %s", res.Reason)
	}

	f := res.Value
	if f.Synthetic {
		warnf("Weather service unavailable, forecast is based on a synthetic outlook")
	}
	if len(f.Rows) == 0 {
		fmt.Println("No forecast rows found in the model response")
		return nil
	}

	fmt.Printf("✓ Stored %d forecast rows for %s (%.2f kWh total)\n", len(f.Rows), s.view.CustomerID, f.TotalKWh)
	return nil
}
