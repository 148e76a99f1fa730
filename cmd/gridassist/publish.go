package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/gridassist/internal/publisher"
	"github.com/jgoulah/gridassist/pkg/models"
)

var (
	publishCustomer string
	publishSince    string
	publishUntil    string
	publishAll      bool
	publishLimit    int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish stored forecasts to Home Assistant and MQTT",
	Long: `Reads stored usage forecasts from the database and publishes them to Home Assistant
via its HTTP API and/or to an MQTT broker as retained messages.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishCustomer, "customer", "", "Customer to publish (default: all customers)")
	publishCmd.Flags().StringVar(&publishSince, "since", "", "Only publish forecasts from this date (YYYY-MM-DD or relative like 7d)")
	publishCmd.Flags().StringVar(&publishUntil, "until", "", "Only publish forecasts until this date (YYYY-MM-DD)")
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Force republish all records (ignore published flag)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of records to publish (0 = no limit)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cfg.HomeAssistant.Enabled && !cfg.MQTT.Enabled {
		return fmt.Errorf("neither Home Assistant nor MQTT is enabled in config")
	}

	pub, err := publisher.New(cfg.MQTT, cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var sinceDate, untilDate *time.Time
	if publishSince != "" {
		since, err := parseDate(publishSince)
		if err != nil {
			return fmt.Errorf("parsing --since date: %w", err)
		}
		sinceDate = &since
	}
	if publishUntil != "" {
		until, err := parseDate(publishUntil)
		if err != nil {
			return fmt.Errorf("parsing --until date: %w", err)
		}
		untilDate = &until
	}

	var data []models.ForecastRow
	if publishAll {
		data, err = db.ListForecasts(publishCustomer)
	} else {
		data, err = db.ListUnpublishedForecasts(publishCustomer)
	}
	if err != nil {
		return fmt.Errorf("listing forecasts: %w", err)
	}

	if len(data) == 0 {
		if publishAll {
			fmt.Println("No forecasts found")
		} else {
			fmt.Println("No unpublished forecasts found")
		}
		return nil
	}

	filtered := filterByDate(data, sinceDate, untilDate)
	if len(filtered) == 0 {
		fmt.Println("No forecasts in date range")
		return nil
	}

	if publishLimit > 0 && len(filtered) > publishLimit {
		filtered = filtered[:publishLimit]
		fmt.Printf("Limiting to %d records (--limit flag)\n", publishLimit)
	}

	ctx := context.Background()
	fmt.Printf("Publishing %d records...\n", len(filtered))
	published := 0
	for i, record := range filtered {
		fmt.Printf("[%d/%d] Publishing %s %s (%.2f kWh)... ", i+1, len(filtered),
			record.CustomerID, record.Date.Format("2006-01-02"), record.PredictedKWh)
		if err := pub.Publish(ctx, record); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}

		if err := db.MarkPublished(record.ID); err != nil {
			fmt.Printf("✓ (warning: failed to mark as published: %v)\n", err)
		} else {
			fmt.Printf("✓\n")
		}
		published++
	}

	fmt.Printf("\nSuccessfully published %d/%d records\n", published, len(filtered))
	return nil
}

// filterByDate keeps rows inside the optional [since, until] range
func filterByDate(rows []models.ForecastRow, since, until *time.Time) []models.ForecastRow {
	if since == nil && until == nil {
		return rows
	}
	var out []models.ForecastRow
	for _, r := range rows {
		if since != nil && r.Date.Before(*since) {
			continue
		}
		if until != nil && r.Date.After(*until) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// parseDate parses a date string in either YYYY-MM-DD format or relative format (e.g., "7d")
func parseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err == nil {
		return t, nil
	}

	// "7d" is 7 days ago
	if len(dateStr) > 1 && dateStr[len(dateStr)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(dateStr[:len(dateStr)-1], "%d", &days); err == nil {
			return time.Now().AddDate(0, 0, -days), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD or Nd for N days ago)", dateStr)
}
