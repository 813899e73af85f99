package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// scanPath is the root directory to scan (--path).
	scanPath string

	// configPath is the override file location (--config). Empty means
	// <path>/.devscan.yml.
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "devscan",
	Short: "Scan a codebase for dev best practices",
	Long: `devscan evaluates a codebase against a catalog of best-practice
checks ("practices"), producing a per-component report of which
practices are followed, violated, or undeterminable, with optional
automatic remediation.

Practices can depend on each other's outcomes; devscan schedules them
in dependency order, skips practices whose preconditions are unmet,
and isolates individual practice failures so a misbehaving check never
aborts the scan.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&scanPath, "path", "p", ".", "Root directory to scan")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Override config file (default <path>/.devscan.yml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
