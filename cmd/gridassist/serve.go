package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/gridassist/internal/customer"
	"github.com/jgoulah/gridassist/internal/metrics"
	"github.com/jgoulah/gridassist/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assistant as a JSON API",
	Long: `Starts an HTTP server exposing every assistant feature under /api/v1, Prometheus
metrics on /metrics and a health check on /healthz. Data files are reloaded on
every request, so edits show up without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, or :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	metrics.Init()

	opts := assistantOptions(cfg)
	if !noHistory {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		opts.Store = db
	}

	srv := server.New(server.Deps{
		LoadView: func() (*customer.View, error) {
			return loadView(cfg)
		},
		Provider: newProvider(context.Background(), cfg),
		Weather:  newWeatherClient(cfg),
		Options:  opts,
		Logger:   zap.L(),
	})

	fmt.Printf("Serving on %s\n", cfg.GetServerAddr())
	return srv.ListenAndServe(cfg.GetServerAddr())
}
