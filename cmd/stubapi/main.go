// Command stubapi runs a local stand-in for the Hunter Xpress backend. It
// speaks the same wire contract as the hosted API so courierctl can be pointed
// at it with COURIER_API_BASE_URL=http://localhost:8080.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hunterxpress/courier-cli/internal/infrastructure/config"
	"github.com/hunterxpress/courier-cli/internal/stubapi"
	"github.com/hunterxpress/courier-cli/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "stubapi:", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	e := stubapi.NewRouter(stubapi.Options{
		JWTSecret: cfg.Stub.JWTSecret,
		TokenTTL:  cfg.Stub.TokenTTL,
		Log:       log,
	})

	go func() {
		log.Info().Str("addr", cfg.Stub.Addr).Msg("stub backend listening")
		if err := e.Start(cfg.Stub.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
