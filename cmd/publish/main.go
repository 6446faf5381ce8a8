// Command publish commits the status page and pushes it to the remote branch.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"traceroute-monitor/internal/config"
	"traceroute-monitor/internal/logging"
	"traceroute-monitor/internal/publish"
)

func main() {
	cfg, err := config.Load("publish", os.Args[1:], config.Default(), config.PublishFlags)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Publish.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := publish.New(cfg.Publish, logger).Publish(ctx); err != nil {
		logger.Fatal("Publish failed", zap.Error(err))
	}
}
