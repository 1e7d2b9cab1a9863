package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rakeplan/app"
	"github.com/kilianp07/rakeplan/core/simulation"
	"github.com/kilianp07/rakeplan/infra/logger"
	"github.com/kilianp07/rakeplan/pkg/export"
)

var (
	startDay   int
	exportPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate the configured month day by day",
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().IntVar(&startDay, "start-day", 0, "resume the month at this day")
	runCmd.Flags().StringVar(&exportPath, "export", "", "write the daily plans to this .csv or .json file")
	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	if cmd.Flags().Changed("start-day") {
		cfg.Simulation.StartDay = startDay
	}
	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	rep, err := svc.Run(ctx)
	out := cmd.OutOrStdout()
	for _, d := range rep.Days {
		_, _ = fmt.Fprintf(out, "day %2d %s %-14s service=%d maintenance=%d standby=%d objective=%d\n",
			d.Day, d.Date.Format("2006-01-02"), d.Scenario, len(d.Service), len(d.Maintenance), len(d.Standby), d.Objective)
	}
	if exportPath != "" && len(rep.Days) > 0 {
		if xerr := writeExport(exportPath, rep.Days); xerr != nil {
			return errors.Join(err, xerr)
		}
	}
	var runErr *simulation.RunError
	if errors.As(err, &runErr) {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "halted on day %d (%s); last completed day %d\n", runErr.Day, runErr.Kind, runErr.LastCompletedDay)
	}
	return err
}

func writeExport(path string, days []simulation.DayResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	entries := export.Entries(days)
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return export.WriteJSON(f, entries)
	}
	return export.WriteCSV(f, entries)
}
