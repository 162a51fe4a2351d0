package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rkonweb/pre-school-sub006/internal/app/invoiceworker"
	"github.com/rkonweb/pre-school-sub006/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting invoice worker", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := invoiceworker.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize invoice worker", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("invoice worker stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("invoice worker stopped gracefully")
}
