package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brewbox/internal/config"
	"brewbox/internal/console"
	"brewbox/internal/machine"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Logs go to stderr so they do not interleave with the prompts
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Logger.Level = "warn"
	}
	if os.Getenv("LOG_FORMAT") == "" {
		cfg.Logger.Format = "console"
	}
	logger := config.NewLoggerTo(cfg.Logger, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := machine.Open(ctx, cfg, nil, logger)
	if err != nil {
		return fmt.Errorf("failed to start machine: %w", err)
	}
	defer m.Close()

	shell := console.New(m.Service, os.Stdin, os.Stdout, console.Options{
		BrewDelay: time.Duration(cfg.Machine.BrewDelayMs) * time.Millisecond,
	}, logger)

	if err := shell.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("console error: %w", err)
	}

	return nil
}
