package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/devscan/devscan/internal/component"
	"github.com/devscan/devscan/internal/engine"
	"github.com/devscan/devscan/internal/overrides"
	"github.com/devscan/devscan/internal/practice"
	"github.com/devscan/devscan/internal/practices"
	"github.com/devscan/devscan/internal/report"
	"github.com/devscan/devscan/internal/storage"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Detect components and evaluate practices against them",
	Long: `Detect project components under the scan root and evaluate the
practice catalog against each of them.

Examples:
  # Scan the current directory
  devscan scan

  # Scan a monorepo in parallel and emit JSON
  devscan scan --path ~/src/mono --parallel --json

  # Apply automatic fixes for violated practices
  devscan scan --fix

  # Run a single practice (its dependencies are included automatically)
  devscan scan --practice gitignore-patterns

Exit codes:
  0 - every evaluated practice is being followed
  1 - violations found
  2 - the scan itself failed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyFixes, _ := cmd.Flags().GetBool("fix")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		parallel, _ := cmd.Flags().GetBool("parallel")
		verbose, _ := cmd.Flags().GetBool("verbose")
		noSave, _ := cmd.Flags().GetBool("no-save")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		only, _ := cmd.Flags().GetStringSlice("practice")
		excludes, _ := cmd.Flags().GetStringSlice("exclude")

		ctx := context.Background()

		logLevel := slog.LevelError
		if verbose {
			logLevel = slog.LevelWarn
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

		root, err := filepath.Abs(scanPath)
		if err != nil {
			return fmt.Errorf("resolving scan path: %w", err)
		}

		catalog, err := buildCatalog(only)
		if err != nil {
			return err
		}

		store, err := loadOverrides(root)
		if err != nil {
			return err
		}

		detector, err := component.NewDetector(root, excludes)
		if err != nil {
			return err
		}
		components, err := detector.Detect(ctx)
		if err != nil {
			return fmt.Errorf("detecting components: %w", err)
		}
		if len(components) == 0 {
			fmt.Fprintf(os.Stderr, "No project components found under %s\n", root)
			return nil
		}

		eng := engine.New(catalog, store, &engine.Config{
			Parallel:        parallel,
			PracticeTimeout: timeout,
			Logger:          logger,
		})

		result, err := eng.Run(ctx, components)
		if err != nil {
			return fmt.Errorf("evaluating practices: %w", err)
		}

		var fixes []engine.FixOutcome
		if applyFixes {
			fixes = eng.FixRecords(ctx, fixableRecords(result))
		}

		reporter := &report.Reporter{Out: os.Stdout, Verbose: verbose}
		if jsonOutput {
			if err := reporter.RenderJSON(result, fixes); err != nil {
				return fmt.Errorf("writing JSON report: %w", err)
			}
		} else {
			reporter.Render(result, fixes)
		}

		if !noSave {
			if err := saveHistory(ctx, root, result); err != nil {
				// History is best-effort; the scan already succeeded.
				logger.Warn("saving scan history failed", "error", err)
			}
		}

		if hasViolations(result) {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().Bool("fix", false, "Apply automatic fixes for violated practices")
	scanCmd.Flags().Bool("json", false, "Emit the report as JSON")
	scanCmd.Flags().Bool("parallel", false, "Evaluate components concurrently")
	scanCmd.Flags().BoolP("verbose", "v", false, "Include suggestions, docs links, and diagnostics")
	scanCmd.Flags().Bool("no-save", false, "Skip recording this run in scan history")
	scanCmd.Flags().Duration("timeout", 0, "Per-practice evaluation timeout (0 = none)")
	scanCmd.Flags().StringSlice("practice", nil, "Run only the named practices (plus their dependencies)")
	scanCmd.Flags().StringSlice("exclude", nil, "Glob patterns to exclude from detection")
	rootCmd.AddCommand(scanCmd)
}

// buildCatalog registers the built-in practices, optionally narrowed
// to a requested subset. Requested practices pull in their transitive
// dependencies so their preconditions stay decidable.
func buildCatalog(only []string) (*practice.Catalog, error) {
	catalog := practice.NewCatalog()
	if err := practices.RegisterAll(catalog); err != nil {
		return nil, err
	}
	if len(only) == 0 {
		return catalog, nil
	}

	keep := make(map[string]bool)
	var include func(id string) error
	include = func(id string) error {
		if keep[id] {
			return nil
		}
		p, ok := catalog.Get(id)
		if !ok {
			return fmt.Errorf("unknown practice %q", id)
		}
		keep[id] = true
		for _, dep := range p.Metadata().Requires.All() {
			if err := include(dep); err != nil {
				return err
			}
		}
		return nil
	}
	for _, id := range only {
		if err := include(id); err != nil {
			return nil, err
		}
	}

	narrowed := practice.NewCatalog()
	for _, p := range catalog.List() {
		if keep[p.Metadata().ID] {
			if err := narrowed.Register(p); err != nil {
				return nil, err
			}
		}
	}
	return narrowed, nil
}

func loadOverrides(root string) (overrides.Store, error) {
	path := configPath
	if path == "" {
		path = filepath.Join(root, overrides.ConfigFileName)
	}
	store, err := overrides.Load(path, root)
	if err != nil {
		return nil, fmt.Errorf("loading overrides: %w", err)
	}
	return store, nil
}

// fixableRecords selects records worth fixing: violations only. The
// invoker additionally requires isOn and the fix capability; fixing a
// practicing component would be a no-op by idempotency anyway.
func fixableRecords(result *engine.RunResult) []practice.Record {
	var out []practice.Record
	for _, cr := range result.Components {
		for _, rec := range cr.Records {
			if rec.Result == practice.ResultNotPracticing {
				out = append(out, rec)
			}
		}
	}
	return out
}

func hasViolations(result *engine.RunResult) bool {
	for _, rec := range result.Aggregate() {
		if rec.Result == practice.ResultNotPracticing {
			return true
		}
	}
	return false
}

// saveHistory records the run in the local history database.
func saveHistory(ctx context.Context, root string, result *engine.RunResult) error {
	store, err := storage.Open(historyPath(root))
	if err != nil {
		return err
	}
	defer store.Close()

	saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return store.SaveRun(saveCtx, root, result)
}

// historyPath is where scan history lives for a given root.
func historyPath(root string) string {
	return filepath.Join(root, ".devscan", "history.db")
}
