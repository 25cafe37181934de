package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	adapthttp "flowform/internal/adapter/http"
	"flowform/internal/adapter/postgres"
	"flowform/internal/adapter/sqlite"
	"flowform/internal/app"
	"flowform/internal/bootport"
	"flowform/internal/config"
	"flowform/internal/domain"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and dashboard",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config and PORTS.json)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	cfgPath := os.Getenv("FLOWFORM_CONFIG")
	if cfgPath == "" {
		cfgPath = "flowform.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	switch {
	case servePort > 0:
		cfg.Port = servePort
	case os.Getenv("PORT") == "":
		port, err := bootport.ResolvePort("PORTS.json", cfg.Host)
		if err != nil {
			return err
		}
		cfg.Port = port
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	userID, err := store.EnsureDefaultUser(context.Background())
	if err != nil {
		return fmt.Errorf("ensure default user: %w", err)
	}

	sessions := app.NewSessionService(store, store, nil)
	stats := app.NewStatsService(store, nil)

	srv := adapthttp.New(sessions, stats, store, userID, cfg.WebDir, adapthttp.Info{
		Version:  version,
		Port:     cfg.Port,
		LogLevel: cfg.LogLevel,
	})

	if err := bootport.WriteActivePorts("ACTIVE_PORTS.json", cfg.Port); err != nil {
		log.Printf("write ACTIVE_PORTS.json: %v", err)
	}

	color.Green("FlowForm %s", version)
	color.New(color.Faint).Printf("http://%s\n", cfg.Addr())
	log.Printf("listening on %s", cfg.Addr())

	if err := http.ListenAndServe(cfg.Addr(), srv.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openStore picks the storage backend: Postgres when DATABASE_URL is set,
// a local SQLite file otherwise.
func openStore(cfg config.Config) (domain.Store, error) {
	if cfg.DatabaseURL != "" {
		return postgres.Open(cfg.DatabaseURL)
	}
	return sqlite.Open(cfg.DBPath)
}
