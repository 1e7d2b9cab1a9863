package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rakeplan/config"
	coremon "github.com/kilianp07/rakeplan/core/monitoring"
	"github.com/kilianp07/rakeplan/infra/logger"
	"github.com/kilianp07/rakeplan/infra/monitoring"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:               "rakeplan",
	Short:             "Daily rake duty assignment and month simulation",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { coremon.Flush(2 * time.Second) },
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// setup loads the configuration when present and initialises logging and
// error monitoring. A missing default config file falls back to defaults.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if _, statErr := os.Stat(cfgPath); statErr != nil && !cmd.Flags().Changed("config") {
		cfg = config.Default()
	} else if cfg, err = config.Load(cfgPath); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.ConfigureBackend(cfg.Logging.Backend, cfg.Logging.Level, cfg.Logging.Writer()); err != nil {
		return err
	}
	monitoring.Setup(cfg.Sentry, logger.New("monitoring"))
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
