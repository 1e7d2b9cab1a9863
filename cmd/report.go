package cmd

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rakeplan/core/rosterlog"
)

var reportVehicle string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the final fleet status or the journey of one vehicle",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportVehicle, "vehicle", "", "print the day by day journey of this vehicle")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	s, err := rosterlog.Open(cfg.RosterLog)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if reportVehicle != "" {
		recs, err := rosterlog.Journey(ctx, s, reportVehicle)
		if err != nil {
			return err
		}
		return writeJourney(cmd.OutOrStdout(), recs)
	}
	sum, err := rosterlog.FinalStatus(ctx, s)
	if err != nil {
		return err
	}
	return writeSummary(cmd.OutOrStdout(), sum)
}

func writeSummary(out io.Writer, sum rosterlog.Summary) error {
	if sum.LastDay == 0 {
		_, err := fmt.Fprintln(out, "roster log is empty")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "final status after day %d\n", sum.LastDay)
	_, _ = fmt.Fprintln(tw, "VEHICLE\tDUTY\tHEALTH\tKM\tHOURS\tSERVICE\tMAINT\tSTANDBY")
	for _, r := range sum.Final {
		d := sum.Duties[r.VehicleID]
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%.1f\t%d\t%.0f\t%d\t%d\t%d\n", r.VehicleID, r.Duty, r.HealthScore,
			r.CurrentKM, r.CurrentHours, d["SERVICE"], d["MAINTENANCE"], d["STANDBY"])
	}
	return tw.Flush()
}

func writeJourney(out io.Writer, recs []rosterlog.Record) error {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Day < recs[j].Day })
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DAY\tDATE\tSCENARIO\tDUTY\tHEALTH\tKM\tCONSECUTIVE")
	for _, r := range recs {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.1f\t%d\t%d\n", r.Day, r.Date, r.Scenario, r.Duty,
			r.HealthScore, r.CurrentKM, r.ConsecutiveServiceDays)
	}
	return tw.Flush()
}
