package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/turyasin/collections/factory"
	"github.com/turyasin/collections/logger"
	"github.com/turyasin/collections/store/sqlite"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a JSON snapshot into the database",
	Long: `Load a JSON snapshot into the database at DB_PATH.

Invalid records are skipped and listed; existing ids are left untouched.
With --reset the database is emptied first.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringP("snapshot", "s", "", "Path to the snapshot JSON file (required)")
	seedCmd.Flags().Bool("reset", false, "Drop every record before seeding")
	seedCmd.MarkFlagRequired("snapshot")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("seed")
	path, _ := cmd.Flags().GetString("snapshot")
	reset, _ := cmd.Flags().GetBool("reset")

	snap, err := factory.LoadSnapshotFile(path)
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.DBPath, sqlite.WithLogger(logger.WithComponent("sqlite")))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if reset {
		if err := store.Reset(ctx); err != nil {
			return err
		}
		log.Warn().Str("db", cfg.DBPath).Msg("Database reset")
	}

	report, err := factory.Seed(ctx, store, snap)
	if err != nil {
		return err
	}

	for _, rej := range report.Rejected {
		log.Warn().Str("kind", string(rej.Kind)).Int("index", rej.Index).Str("id", rej.ID).Msg(rej.Reason())
	}
	for _, s := range report.Skipped {
		log.Warn().Msg(s)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Seeded %s\n", path)
	fmt.Fprintf(out, "  bank accounts: %d\n", report.BankAccounts)
	fmt.Fprintf(out, "  invoices:      %d\n", report.Invoices)
	fmt.Fprintf(out, "  checks:        %d\n", report.Checks)
	fmt.Fprintf(out, "  payments:      %d\n", report.Payments)
	fmt.Fprintf(out, "  rejected:      %d\n", len(report.Rejected))
	fmt.Fprintf(out, "  skipped:       %d\n", len(report.Skipped))
	return nil
}
