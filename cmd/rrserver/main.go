/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpmurphy2/pickleball-round-robin/internal"
	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
	"github.com/rpmurphy2/pickleball-round-robin/server"
	"github.com/rpmurphy2/pickleball-round-robin/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := internal.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("err", err))
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Error("RR_JWT_SECRET must be set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.StoreURL)
	if err != nil {
		logger.Error("failed to open store", slog.String("url", cfg.StoreURL),
			slog.Any("err", err))
		os.Exit(1)
	}
	defer store.Close(st)

	srv, err := server.New(server.Options{
		JWTSecret:      []byte(cfg.JWTSecret),
		TokenTTL:       cfg.TokenTTL,
		SessionIdle:    cfg.SessionIdle,
		SweepSchedule:  cfg.SweepSchedule,
		AllowedOrigins: cfg.AllowedOrigins,
		Budget: roundrobin.Budget{MaxNodes: cfg.SolverNodes,
			Timeout: cfg.SolverTimeout},
		Courts: cfg.Courts,
		Prefix: cfg.Prefix,
	}, st, logger)
	if err != nil {
		logger.Error("failed to create server", slog.Any("err", err))
		os.Exit(1)
	}
	srv.Start()

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", cfg.ListenAddr),
			slog.String("version", internal.Version))
		if err := httpServer.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", slog.Any("err", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("err", err))
	}
	srv.Stop(shutdownCtx)
}
