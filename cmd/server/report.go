package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/turyasin/collections/books"
	"github.com/turyasin/collections/factory"
	"github.com/turyasin/collections/generic"
	"github.com/turyasin/collections/logger"
	"github.com/turyasin/collections/store/sqlite"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print statistics, the calendar or the weekly schedule",
	Long: `Print a report computed from a snapshot file or from the database.

Records come from --snapshot when given, else from DB_PATH. Filters use the
same keys as the API, e.g. --filter status=unpaid --filter bank=bank-1.`,
}

var reportStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Dashboard statistics",
	RunE:  runReportStats,
}

var reportCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Month calendar",
	RunE:  runReportCalendar,
}

var reportWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Weekly payment schedule",
	RunE:  runReportWeekly,
}

func init() {
	reportCmd.PersistentFlags().StringP("snapshot", "s", "", "Snapshot JSON file (default: the database)")
	reportCmd.PersistentFlags().String("as-of", "", "Reference date YYYY-MM-DD (default: today)")
	reportCmd.PersistentFlags().StringToString("filter", nil, "Filter key=value, repeatable")

	reportCalendarCmd.Flags().Int("year", 0, "Year (default: year of --as-of)")
	reportCalendarCmd.Flags().Int("month", 0, "Month 1-12 (default: month of --as-of)")
	reportWeeklyCmd.Flags().Int("weeks", 0, "Number of weeks, at most 52 (default: WEEK_COUNT)")

	reportCmd.AddCommand(reportStatsCmd, reportCalendarCmd, reportWeeklyCmd)
	rootCmd.AddCommand(reportCmd)
}

// reportInput is what every report needs: filtered records and a date.
type reportInput struct {
	asOf    generic.Date
	records books.Records
}

func loadReportInput(cmd *cobra.Command) (reportInput, error) {
	log := logger.WithComponent("report")
	flags := cmd.Flags()

	asOf := generic.Clock(nil).Today()
	if v, _ := flags.GetString("as-of"); v != "" {
		d, err := generic.ParseDate(v)
		if err != nil {
			return reportInput{}, err
		}
		asOf = d
	}

	// a bad filter key or value is ignored, not fatal
	params, _ := flags.GetStringToString("filter")
	f, errs := books.ParseFilter(params)
	for _, e := range errs {
		log.Warn().Str("filter", e.Key).Str("value", e.Value).Msg(e.Reason)
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s (ignored)\n", e)
	}

	n, err := loadRecords(cmd)
	if err != nil {
		return reportInput{}, err
	}
	for _, rej := range n.Rejected {
		log.Warn().Str("kind", string(rej.Kind)).Str("id", rej.ID).Msg(rej.Reason())
	}

	return reportInput{asOf: asOf, records: n.Filter(f)}, nil
}

func loadRecords(cmd *cobra.Command) (books.Normalized, error) {
	if path, _ := cmd.Flags().GetString("snapshot"); path != "" {
		snap, err := factory.LoadSnapshotFile(path)
		if err != nil {
			return books.Normalized{}, err
		}
		return snap.Normalize(), nil
	}

	store, err := sqlite.New(cfg.DBPath, sqlite.WithLogger(logger.WithComponent("sqlite")))
	if err != nil {
		return books.Normalized{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()
	return books.Load(context.Background(), store)
}

// =============================================================================
// STATS
// =============================================================================

func runReportStats(cmd *cobra.Command, args []string) error {
	in, err := loadReportInput(cmd)
	if err != nil {
		return err
	}

	s, err := books.ComputeStats(in.records.Invoices, in.records.Checks, in.records.Payments, books.StatsOptions{
		AsOf:        in.asOf,
		RecentLimit: cfg.RecentPayments,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "As of\t%s\n", in.asOf)
	fmt.Fprintf(w, "Invoices\t%d\t(paid %d, partial %d, unpaid %d, overdue %d)\n",
		s.TotalInvoices, s.PaidCount, s.PartialCount, s.UnpaidCount, s.OverdueCount)
	fmt.Fprintf(w, "Total amount\t%s\n", generic.FormatMoney(s.TotalAmount))
	fmt.Fprintf(w, "Outstanding\t%s\n", generic.FormatMoney(s.OutstandingAmount))
	fmt.Fprintf(w, "Collected\t%s\n", generic.FormatMoney(s.PaidAmount))
	fmt.Fprintf(w, "Received checks\t%d\t%s\t(%d pending)\n",
		s.TotalReceivedChecks, generic.FormatMoney(s.TotalReceivedAmount), s.PendingReceivedChecks)
	fmt.Fprintf(w, "Issued checks\t%d\t%s\t(%d pending)\n",
		s.TotalIssuedChecks, generic.FormatMoney(s.TotalIssuedAmount), s.PendingIssuedChecks)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(s.RecentPayments) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nRecent payments")
		printPayments(cmd.OutOrStdout(), s.RecentPayments)
	}
	return nil
}

func printPayments(out io.Writer, payments []books.Payment) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, p := range payments {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", p.PaymentDate, p.ID, p.InvoiceID, generic.FormatMoney(p.Amount))
	}
	w.Flush()
}

// =============================================================================
// CALENDAR
// =============================================================================

func runReportCalendar(cmd *cobra.Command, args []string) error {
	in, err := loadReportInput(cmd)
	if err != nil {
		return err
	}
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	if year == 0 {
		year = in.asOf.Year()
	}
	if month == 0 {
		month = int(in.asOf.Month())
	}

	grid, err := books.BuildMonthGrid(year, time.Month(month), in.asOf,
		in.records.Invoices, in.records.Checks, in.records.Payments)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d\n", grid.Month, grid.Year)
	fmt.Fprintln(out, " Su  Mo  Tu  We  Th  Fr  Sa")
	for i, cell := range grid.Cells {
		switch {
		case cell.Blank:
			fmt.Fprint(out, "    ")
		case cell.IsToday:
			fmt.Fprintf(out, "[%2d]", cell.Date.Day())
		case cell.EventCount() > 0:
			fmt.Fprintf(out, " %2d*", cell.Date.Day())
		default:
			fmt.Fprintf(out, " %2d ", cell.Date.Day())
		}
		if i%7 == 6 || i == len(grid.Cells)-1 {
			fmt.Fprintln(out)
		}
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, cell := range grid.Cells {
		if cell.Blank || cell.EventCount() == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\tinvoices %d\treceived %d\tissued %d\tpayments %d\n",
			cell.Date, cell.InvoiceCount(), len(cell.ReceivedChecks), len(cell.IssuedChecks), cell.PaymentCount())
	}
	return w.Flush()
}

// =============================================================================
// WEEKLY
// =============================================================================

func runReportWeekly(cmd *cobra.Command, args []string) error {
	in, err := loadReportInput(cmd)
	if err != nil {
		return err
	}
	weeks, _ := cmd.Flags().GetInt("weeks")
	if weeks == 0 {
		weeks = cfg.WeekCount
	}
	if err := books.CheckWeekCount(weeks); err != nil {
		return err
	}

	schedule, err := books.BuildWeeklySchedule(in.asOf, weeks, in.records.Invoices, in.records.Checks)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Week\tDates\tReceivable\tPayable\tNet\t")
	for _, wk := range schedule {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", wk.Label, wk.DateRange,
			generic.FormatMoney(wk.TotalReceivable), generic.FormatMoney(wk.TotalPayable), generic.FormatMoney(wk.Net()))
	}
	return w.Flush()
}
