package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"traceroute-monitor/internal/config"
	"traceroute-monitor/internal/database"
	"traceroute-monitor/internal/logging"
	"traceroute-monitor/internal/monitor"
	"traceroute-monitor/internal/mtr"
	"traceroute-monitor/internal/report"
	"traceroute-monitor/internal/web"
)

func main() {
	defaults := config.Default()
	defaults.Log.Level = "debug"
	defaults.Log.File = "traceroute_monitor.log"

	// Parse configuration
	cfg, err := config.Load("monitor", os.Args[1:], defaults, config.MonitorFlags)
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
	logger = logger.With(zap.String("session", uuid.NewString()))

	for _, v := range []interface{ Validate() error }{&cfg.Database, &cfg.Monitor, &cfg.Web} {
		if err := v.Validate(); err != nil {
			logger.Fatal("Invalid configuration", zap.Error(err))
		}
	}

	// Initialize database
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize components
	gen := report.NewGenerator(db, logger)
	page := &report.StaticPage{
		Generator: gen,
		Names:     cfg.Monitor.ConnectionNames,
		Path:      cfg.Monitor.PagePath,
	}
	mon := monitor.New(cfg.Monitor, db, mtr.New(cfg.Monitor.UseSudo), page, logger)

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := mon.Start(); err != nil {
		logger.Fatal("Failed to start monitor", zap.Error(err))
	}

	var webServer *web.Server
	if cfg.Web.Port > 0 {
		webServer = web.New(db, gen, cfg.Monitor.ConnectionNames, cfg.Web.Port, logger)
		go func() {
			if err := webServer.Start(); err != nil {
				logger.Fatal("Failed to start web server", zap.Error(err))
			}
		}()
		logger.Info("Web interface available", zap.String("url", fmt.Sprintf("http://localhost:%d", cfg.Web.Port)))
	}

	<-sigChan
	logger.Info("Shutting down...")
	mon.Stop()
	mon.Wait()

	if webServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := webServer.Stop(ctx); err != nil {
			logger.Error("Web server shutdown failed", zap.Error(err))
		}
	}
}
