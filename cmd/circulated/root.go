package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/shelfwise/circulate/circulation/shell/config"
	"github.com/shelfwise/circulate/ledgerstore/postgresengine"
	"github.com/shelfwise/circulate/policy"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "circulated",
		Short:         "Library circulation service over a Postgres transaction log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(serveCmd(), sweepCmd(), backfillCmd())

	return cmd
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

// openLogStore connects the configured primary (and replica, if set) and
// builds the transaction-log store on top.
func openLogStore(
	ctx context.Context,
	cfg config.Config,
	logger *slog.Logger,
	extraOptions ...postgresengine.Option,
) (*postgresengine.LogStore, func(), error) {

	pool, err := config.OpenPGXPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}

	var replica *pgxpool.Pool
	if cfg.PostgresReplicaDSN != "" {
		replica, err = config.OpenPGXPool(ctx, cfg.PostgresReplicaDSN)
		if err != nil {
			pool.Close()

			return nil, nil, err
		}
	}

	closePools := func() {
		pool.Close()
		if replica != nil {
			replica.Close()
		}
	}

	options := append([]postgresengine.Option{postgresengine.WithLogger(logger)}, extraOptions...)

	var logStore *postgresengine.LogStore
	if replica != nil {
		logStore, err = postgresengine.NewLogStoreFromPGXPoolWithReplica(pool, replica, options...)
	} else {
		logStore, err = postgresengine.NewLogStoreFromPGXPool(pool, options...)
	}

	if err != nil {
		closePools()

		return nil, nil, err
	}

	return logStore, closePools, nil
}

func loadPolicies(cfg config.Config) (*policy.StaticStore, error) {
	return policy.LoadStoreFromFile(cfg.PolicyFile)
}
