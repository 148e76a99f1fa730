package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgoulah/gridassist/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Writes a config file with the default model, weather and server settings filled
in. API keys are left empty; put them in .env as OPENAI_API_KEY, GEMINI_API_KEY and
WEATHER_API_KEY.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := starterConfig()
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("✓ Wrote %s\n", path)
	fmt.Println("Set the data file paths under 'data:' before running other commands.")
	return nil
}

// starterConfig fills every setting that has a default
func starterConfig() *config.Config {
	var defaults config.Config
	cfg := &config.Config{
		Data: config.DataConfig{
			Energy:   "data/energy.csv",
			Billing:  "data/billing.csv",
			Payments: "data/payments.csv",
			Weather:  "data/weather.csv",
			Tariffs:  "data/tariffs.csv",
		},
	}
	cfg.LLM.Provider = defaults.GetProvider()
	cfg.LLM.Model = defaults.GetModel()
	cfg.LLM.CopilotModel = defaults.GetCopilotModel()
	cfg.LLM.CopilotTemperature = defaults.GetCopilotTemperature()
	cfg.Weather.Location = defaults.GetWeatherLocation()
	cfg.Weather.Days = defaults.GetForecastDays()
	cfg.Server.Addr = defaults.GetServerAddr()
	return cfg
}
