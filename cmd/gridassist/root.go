package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/gridassist/internal/assistant"
	"github.com/jgoulah/gridassist/internal/config"
	"github.com/jgoulah/gridassist/internal/customer"
	"github.com/jgoulah/gridassist/internal/database"
	"github.com/jgoulah/gridassist/internal/llm"
	"github.com/jgoulah/gridassist/internal/loader"
	"github.com/jgoulah/gridassist/internal/weather"
)

var (
	cfgFile   string
	dbPath    string
	envFile   string
	verbose   bool
	noHistory bool

	energyFile   string
	billingFile  string
	paymentsFile string
	weatherFile  string
	tariffsFile  string
)

var rootCmd = &cobra.Command{
	Use:   "gridassist",
	Short: "AI energy assistant for utility customers",
	Long: `GridAssist loads a customer's energy, billing, payment, weather and tariff files
and turns them into usage charts, saving tips, weather-aware forecasts and plan
recommendations using a hosted language model. Model responses and forecasts are
kept in a local SQLite database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(envFile); err != nil {
			return err
		}
		return setupLogger()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with OPENAI_API_KEY, GEMINI_API_KEY, WEATHER_API_KEY")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostic logging")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record model responses in the database")

	rootCmd.PersistentFlags().StringVar(&energyFile, "energy", "", "energy consumption file (.csv or .xlsx)")
	rootCmd.PersistentFlags().StringVar(&billingFile, "billing", "", "billing history file")
	rootCmd.PersistentFlags().StringVar(&paymentsFile, "payments", "", "payments file")
	rootCmd.PersistentFlags().StringVar(&weatherFile, "weather", "", "weather observations file")
	rootCmd.PersistentFlags().StringVar(&tariffsFile, "tariffs", "", "tariff plans file")
}

// setupLogger replaces the global zap logger. Diagnostics go to stderr;
// user-facing output stays on stdout.
func setupLogger() error {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.Encoding = "console"
	}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "data.db"
}

// loadConfig loads the configuration file and fills API keys from the environment
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// dataPaths merges the file flags over the config's data section
func dataPaths(cfg *config.Config) loader.Paths {
	pick := func(flag, fromConfig string) string {
		if flag != "" {
			return flag
		}
		return fromConfig
	}
	return loader.Paths{
		Energy:   pick(energyFile, cfg.Data.Energy),
		Billing:  pick(billingFile, cfg.Data.Billing),
		Payments: pick(paymentsFile, cfg.Data.Payments),
		Weather:  pick(weatherFile, cfg.Data.Weather),
		Tariffs:  pick(tariffsFile, cfg.Data.Tariffs),
	}
}

// loadView loads all five files and builds the customer view
func loadView(cfg *config.Config) (*customer.View, error) {
	ds, err := loader.Load(dataPaths(cfg))
	if err != nil {
		return nil, err
	}

	if ds.BillAmountSource != "" && ds.BillAmountSource != loader.ColBillAmount {
		zap.L().Info("resolved bill amount column", zap.String("source", ds.BillAmountSource))
	}

	view, err := customer.Build(ds)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// newProvider creates the configured model provider. A misconfigured provider
// is replaced by one that fails every call, so features degrade instead of
// the command aborting.
func newProvider(ctx context.Context, cfg *config.Config) llm.Provider {
	provider, err := llm.New(ctx, cfg)
	if err != nil {
		fmt.Printf("⚠ Language model unavailable: %v\n", err)
		return llm.Disabled(err)
	}
	return provider
}

// newWeatherClient creates the forecast client from config
func newWeatherClient(cfg *config.Config) *weather.Client {
	return weather.NewClient(cfg.Weather.URL, cfg.Weather.APIKey, cfg.GetWeatherTimeout())
}

// assistantOptions maps the config onto assistant options
func assistantOptions(cfg *config.Config) assistant.Options {
	return assistant.Options{
		Model:              cfg.GetModel(),
		CopilotModel:       cfg.GetCopilotModel(),
		CopilotTemperature: cfg.GetCopilotTemperature(),
		Location:           cfg.GetWeatherLocation(),
		ForecastDays:       cfg.GetForecastDays(),
		Logger:             zap.L(),
	}
}

// session is one interaction: a config, a customer view and an assistant
type session struct {
	cfg       *config.Config
	view      *customer.View
	assistant *assistant.Assistant
	db        *database.DB
}

// Close releases the history database, if open
func (s *session) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// newSession loads config and data and builds the assistant. withHistory
// opens the database so model responses are recorded.
func newSession(ctx context.Context, withHistory bool) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	view, err := loadView(cfg)
	if err != nil {
		return nil, fmt.Errorf("loading data: %w", err)
	}

	s := &session{cfg: cfg, view: view}
	opts := assistantOptions(cfg)

	if withHistory && !noHistory {
		db, err := openDB()
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		s.db = db
		opts.Store = db
	}

	s.assistant = assistant.New(view, newProvider(ctx, cfg), newWeatherClient(cfg), opts)
	fmt.Printf("Viewing insights for customer %s\n\n", view.CustomerID)
	return s, nil
}
