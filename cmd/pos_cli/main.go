// Package main runs the interactive point-of-sale menu on the terminal.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/abgdnv/butcherpos/internal/app"
	"github.com/abgdnv/butcherpos/internal/cli"
	"github.com/abgdnv/butcherpos/internal/config"
	"github.com/abgdnv/butcherpos/internal/platform/logger"
	"github.com/abgdnv/butcherpos/internal/scale"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("pos cli failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load[*config.Config](config.Defaults())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// stdout belongs to the menu
	appLogger := logger.NewWithWriter(os.Stderr, cfg.Log.Level)

	deps, err := app.SetupDependencies(ctx, cfg, nil, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up dependencies: %w", err)
	}
	defer func() {
		if err := deps.Close(context.Background()); err != nil {
			appLogger.Error("Failed to release dependencies", slog.String("error", err.Error()))
		}
	}()

	var reader scale.Reader = scale.Manual{}
	if cfg.Scale.Device != "" {
		reader = scale.NewDeviceReader(cfg.Scale.Device, cfg.Scale.Timeout)
	}
	return cli.New(deps.Engine, reader, os.Stdin, os.Stdout, appLogger).Run(ctx)
}
