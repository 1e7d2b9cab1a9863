package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/rakeplan/app"
	coremon "github.com/kilianp07/rakeplan/core/monitoring"
	"github.com/kilianp07/rakeplan/infra/logger"
)

var simulateFirst bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the roster log API and prometheus metrics",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&simulateFirst, "simulate", false, "run the month in the background while serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	if simulateFirst {
		go func() {
			defer coremon.Recover()
			if _, err := svc.Run(ctx); err != nil {
				logger.New("main").Errorf("simulation: %v", err)
			}
		}()
	}
	return svc.Serve(ctx)
}
