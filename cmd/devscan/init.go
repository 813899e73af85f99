package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devscan/devscan/internal/overrides"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter .devscan.yml override file",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(scanPath)
		if err != nil {
			return fmt.Errorf("resolving scan path: %w", err)
		}

		path := filepath.Join(root, overrides.ConfigFileName)
		if err := overrides.SaveDefaultConfig(path); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Wrote %s\n", green("✓"), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
