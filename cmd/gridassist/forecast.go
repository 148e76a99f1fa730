package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/gridassist/internal/assistant"
)

var forecastShowText bool

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast upcoming usage from the weather outlook",
	Long: `Combines the last 30 days of usage with the weather forecast for the configured
location and asks the language model to predict daily consumption. When the weather
service is unreachable a synthetic 15-day outlook is used instead.`,
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().BoolVar(&forecastShowText, "text", false, "Also print the model's raw response")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, args []string) error {
	s, err := newSession(context.Background(), true)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("Requesting forecast for %s...\n", s.cfg.GetWeatherLocation())
	res := s.assistant.Forecast(context.Background())
	if !res.Available() {
		warnf("%s", res.Reason)
		return nil
	}

	printForecast(res.Value, forecastShowText)
	return nil
}

func printForecast(f assistant.Forecast, showText bool) {
	if f.Synthetic {
		warnf("Weather service unavailable, using a synthetic %d-day outlook", len(f.Weather))
	}

	if showText || len(f.Rows) == 0 {
		printHeading("Energy Usage Forecast")
		printText(f.Text)
	}

	if len(f.Rows) == 0 {
		warnf("No forecast rows could be read from the response")
		return
	}

	printHeading("Forecasted Daily Consumption")
	fmt.Printf("%-12s  %-20s  %10s\n", "Date", "Weather", "kWh")
	for _, r := range f.Rows {
		fmt.Printf("%-12s  %-20s  %10.2f\n", r.Date.Format("2006-01-02"), r.Condition, r.PredictedKWh)
	}
	fmt.Println(rule)
	fmt.Printf("Total: %.2f kWh (%d days)\n", f.TotalKWh, len(f.Rows))
}
