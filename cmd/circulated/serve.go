package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/shelfwise/circulate/circulation/shell/config"
	"github.com/shelfwise/circulate/holdexpiry"
	"github.com/shelfwise/circulate/httpapi"
	"github.com/shelfwise/circulate/ledgerstore/oteladapters"
	"github.com/shelfwise/circulate/ledgerstore/postgresengine"
	"github.com/shelfwise/circulate/publisher"
	"github.com/shelfwise/circulate/sweep"
)

const shutdownGracePeriod = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API, the availability publisher and the overdue sweep",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.ParseEnv()
	if err != nil {
		return err
	}

	logger := newLogger()

	logStore, closeStore, err := openLogStore(ctx, cfg, logger,
		postgresengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("circulate")),
		postgresengine.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("circulate"))),
	)
	if err != nil {
		return err
	}
	defer closeStore()

	policies, err := loadPolicies(cfg)
	if err != nil {
		return err
	}

	hub := publisher.NewHub()
	defer hub.Close()

	tailer := publisher.NewTailer(logStore, hub,
		publisher.WithPollInterval(cfg.PublisherPollInterval),
		publisher.WithLogger(logger),
	)

	sweeper := sweep.NewSweeper(logStore, policies, policies.LibraryIDs(),
		sweep.WithInterval(cfg.SweepInterval),
		sweep.WithLogger(logger),
	)

	expiry := holdexpiry.NewScheduler(logStore, policies, policies.LibraryIDs(),
		holdexpiry.WithInterval(cfg.HoldExpiryInterval),
		holdexpiry.WithLogger(logger),
	)

	api := httpapi.NewServer(logStore, policies, sweeper, hub,
		httpapi.WithLogger(logger),
		httpapi.WithRateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
	)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if runErr := tailer.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
			logger.Error("availability publisher stopped", "error", runErr)
		}
	}()

	go func() {
		if runErr := sweeper.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
			logger.Error("overdue sweep stopped", "error", runErr)
		}
	}()

	go func() {
		if runErr := expiry.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
			logger.Error("hold expiry stopped", "error", runErr)
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		return err

	case <-ctx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()

		return httpServer.Shutdown(shutdownCtx)
	}
}
