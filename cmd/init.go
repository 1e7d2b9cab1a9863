package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rakeplan/core/fleet"
	"github.com/kilianp07/rakeplan/core/model"
	"github.com/kilianp07/rakeplan/infra/store"
)

var basePath string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Reset the fleet store for a new month from the base fleet data",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&basePath, "base", "base_fleet_data.csv", "base fleet data in the fleet CSV layout")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	base, err := store.NewCSVStore(basePath)
	if err != nil {
		return err
	}
	records, err := base.Load(ctx)
	if err != nil {
		return fmt.Errorf("load base fleet: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("base fleet %s is empty", basePath)
	}
	dst, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	if c, ok := dst.(fleet.Closer); ok {
		defer func() { _ = c.Close() }()
	}
	if err := dst.Save(ctx, model.InitializeMonth(records)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "initialized %d vehicles into %s store\n", len(records), cfg.Store.Backend)
	return err
}
