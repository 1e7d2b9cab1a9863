package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	coremetrics "github.com/kilianp07/rakeplan/core/metrics"
	"github.com/kilianp07/rakeplan/core/rosterlog"
	_ "github.com/kilianp07/rakeplan/infra/metrics" // registers metrics sinks
	"github.com/kilianp07/rakeplan/jobs/backfill"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Replay the roster log into the configured metrics sinks",
	RunE:  runBackfill,
}

func init() {
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	s, err := rosterlog.Open(cfg.RosterLog)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if c, ok := sink.(interface{ Close() }); ok {
		defer c.Close()
	}
	n, err := backfill.Backfill(ctx, s, sink)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "replayed %d days\n", n)
	return nil
}
