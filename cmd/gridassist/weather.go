package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var weatherInsight bool

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show how weather affects usage",
	Long: `Joins daily consumption with daily average temperature and humidity and, with
--insight, asks the language model how the weather drives the customer's usage.`,
	RunE: runWeather,
}

func init() {
	weatherCmd.Flags().BoolVar(&weatherInsight, "insight", true, "Ask the model for weather insights")
	rootCmd.AddCommand(weatherCmd)
}

func runWeather(cmd *cobra.Command, args []string) error {
	s, err := newSession(context.Background(), weatherInsight)
	if err != nil {
		return err
	}
	defer s.Close()

	res := s.assistant.WeatherImpact(context.Background(), weatherInsight)
	if !res.Available() {
		warnf("%s", res.Reason)
		return nil
	}
	impact := res.Value

	printHeading("Daily Energy Consumption vs Temperature")
	fmt.Printf("%-12s  %10s  %8s  %10s\n", "Date", "kWh", "Temp °C", "Humidity %")
	for _, m := range impact.Merged {
		fmt.Printf("%-12s  %10.2f  %8.1f  %10.1f\n",
			m.Date.Format("2006-01-02"), m.ConsumptionKWh, m.TemperatureC, m.HumidityPct)
	}
	fmt.Println(rule)
	fmt.Printf("%d days with both usage and weather data\n", len(impact.Merged))

	if !weatherInsight {
		return nil
	}
	if impact.InsightError != "" {
		warnf("%s", impact.InsightError)
		return nil
	}
	printHeading("AI Insight on Weather vs Usage")
	printText(impact.Insight)
	return nil
}
