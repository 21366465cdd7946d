package main

import (
	"context"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/shelfwise/circulate/circulation/shell/config"
	"github.com/shelfwise/circulate/sweep"
)

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Recompute overdue loans for every configured library once and print the reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd.Context())
		},
	}
}

func runSweep(ctx context.Context) error {
	cfg, err := config.ParseEnv()
	if err != nil {
		return err
	}

	logger := newLogger()

	logStore, closeStore, err := openLogStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	policies, err := loadPolicies(cfg)
	if err != nil {
		return err
	}

	sweeper := sweep.NewSweeper(logStore, policies, policies.LibraryIDs(), sweep.WithLogger(logger))

	reports, err := sweeper.RunOnce(ctx)
	if err != nil {
		return err
	}

	encoder := jsoniter.ConfigFastest.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(reports)
}
