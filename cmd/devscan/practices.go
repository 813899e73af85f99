package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devscan/devscan/internal/practice"
	"github.com/devscan/devscan/internal/practices"
)

var practicesCmd = &cobra.Command{
	Use:   "practices",
	Short: "List the practice catalog",
	Long: `List every registered practice with its impact, dependency
constraints, and whether it can auto-fix violations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := practice.NewCatalog()
		if err := practices.RegisterAll(catalog); err != nil {
			return err
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		dim := color.New(color.Faint).SprintFunc()

		for _, p := range catalog.List() {
			meta := p.Metadata()

			var caps []string
			if practice.CanFix(p) {
				caps = append(caps, "fixable")
			}
			if meta.ReportOnlyOnce {
				caps = append(caps, "report-once")
			}

			line := fmt.Sprintf("%s %s [%s]", cyan(meta.ID), meta.Name, meta.Impact)
			if len(caps) > 0 {
				line += " " + dim("("+strings.Join(caps, ", ")+")")
			}
			fmt.Println(line)

			if deps := meta.Requires.Practicing; len(deps) > 0 {
				fmt.Printf("    requires practicing: %s\n", strings.Join(deps, ", "))
			}
			if deps := meta.Requires.NotPracticing; len(deps) > 0 {
				fmt.Printf("    requires not practicing: %s\n", strings.Join(deps, ", "))
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(practicesCmd)
}
