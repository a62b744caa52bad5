// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

// inkwelld is the Inkwell paste service daemon: a JSON HTTP API over
// the paste service and markdown renderer, backed by a single SQLite
// database.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/inkwell-sh/inkwell/lib/clock"
	"github.com/inkwell-sh/inkwell/lib/document"
	"github.com/inkwell-sh/inkwell/lib/paste"
	"github.com/inkwell-sh/inkwell/lib/render"
	"github.com/inkwell-sh/inkwell/lib/slugdir"
	"github.com/inkwell-sh/inkwell/lib/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "inkwelld:", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var listenOverride string
	flagSet := pflag.NewFlagSet("inkwelld", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", os.Getenv("INKWELL_CONFIG"), "path to YAML config file")
	flagSet.StringVar(&listenOverride, "listen", "", "listen address (overrides config)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	config, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if listenOverride != "" {
		config.Listen = listenOverride
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	store, err := storage.Open(storage.Config{
		Path:       config.DatabasePath,
		Namespaces: []string{document.Namespace, slugdir.Namespace},
		PoolSize:   config.PoolSize,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	renderer, err := render.New(render.Config{Theme: config.HighlightTheme})
	if err != nil {
		return err
	}

	service := paste.NewService(paste.Config{
		Documents:      document.NewStore(store, clock.Real()),
		Slugs:          slugdir.NewDirectory(store),
		MaxContentSize: config.MaxContentSize,
		Logger:         logger,
	})

	gin.SetMode(gin.ReleaseMode)
	router := newRouter(&server{
		pastes:   service,
		renderer: renderer,
		logger:   logger,
	})

	httpServer := &http.Server{
		Addr:         config.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		logger.Info("listening", "address", config.Listen)
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
