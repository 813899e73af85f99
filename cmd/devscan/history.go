package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devscan/devscan/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent scan runs",
	Long: `List recent scans of this root from the local history database,
or show the stored records of one run.

Examples:
  devscan history
  devscan history --limit 5
  devscan history --run 2f1c...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		runID, _ := cmd.Flags().GetString("run")

		root, err := filepath.Abs(scanPath)
		if err != nil {
			return fmt.Errorf("resolving scan path: %w", err)
		}

		dbPath := historyPath(root)
		if _, err := os.Stat(dbPath); err != nil {
			fmt.Println("No scan history yet. Run `devscan scan` first.")
			return nil
		}

		store, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		if runID != "" {
			return showRun(ctx, store, runID)
		}

		runs, err := store.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No scan history yet.")
			return nil
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		for _, run := range runs {
			summary := green("clean")
			if run.Violations > 0 {
				summary = red(fmt.Sprintf("%d violations", run.Violations))
			}
			fmt.Printf("%s  %s  %d components, %d practicing, %s\n",
				run.StartedAt.Format("2006-01-02 15:04"),
				run.ID[:8], run.Components, run.Practicing, summary)
		}
		return nil
	},
}

func showRun(ctx context.Context, store *storage.Store, runID string) error {
	records, err := store.RunRecords(ctx, runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records for run %q", runID)
	}

	for _, rec := range records {
		fmt.Printf("%-30s %-15s %s\n", rec.PracticeID, rec.Result, rec.Component)
	}
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", 10, "Number of runs to show")
	historyCmd.Flags().String("run", "", "Show stored records for one run ID")
	rootCmd.AddCommand(historyCmd)
}
