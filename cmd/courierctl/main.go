// Command courierctl is the interactive Hunter Xpress client: log in, place
// delivery orders, and review deliveries from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hunterxpress/courier-cli/internal/cli"
	"github.com/hunterxpress/courier-cli/internal/core/service"
	"github.com/hunterxpress/courier-cli/internal/infrastructure/api"
	"github.com/hunterxpress/courier-cli/internal/infrastructure/config"
	"github.com/hunterxpress/courier-cli/internal/infrastructure/store"
	"github.com/hunterxpress/courier-cli/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "courierctl:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	credStore, err := store.NewFileStore(cfg.StateDir)
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.BaseURL, credStore, log, api.WithTimeout(cfg.HTTPTimeout))
	sessions := service.NewSessionService(client, credStore, log)
	deliveries := service.NewDeliveryService(client, sessions, log)

	log.Debug().Str("base_url", cfg.BaseURL).Str("state_dir", cfg.StateDir).Msg("client configured")

	app := cli.NewApp(sessions, deliveries, credStore, log)
	return app.Run(ctx)
}
