package main

import (
	"context"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/shelfwise/circulate/circulation/shell/config"
	"github.com/shelfwise/circulate/publisher"
)

func backfillCmd() *cobra.Command {
	var (
		libraryID    string
		fromSequence uint64
	)

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Replay a library's availability feed from a log sequence number",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBackfill(cmd.Context(), libraryID, fromSequence)
		},
	}

	cmd.Flags().StringVar(&libraryID, "library", "", "library id to replay (required)")
	cmd.Flags().Uint64Var(&fromSequence, "from", 0, "replay records with a log sequence number above this")
	_ = cmd.MarkFlagRequired("library")

	return cmd
}

func runBackfill(ctx context.Context, libraryID string, fromSequence uint64) error {
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

	records, err := publisher.Backfill(ctx, logStore, libraryID, fromSequence)
	if err != nil {
		return err
	}

	encoder := jsoniter.ConfigFastest.NewEncoder(os.Stdout)
	for _, record := range records {
		if encodeErr := encoder.Encode(record); encodeErr != nil {
			return encodeErr
		}
	}

	return nil
}
