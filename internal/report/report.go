// Package report renders the engine's evaluation record stream for
// humans (colored terminal output) and machines (JSON). It consumes
// the engine's output contract only.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/devscan/devscan/internal/engine"
	"github.com/devscan/devscan/internal/practice"
)

// Reporter renders run results.
type Reporter struct {
	Out io.Writer

	// Verbose includes suggestions and docs links for every finding.
	Verbose bool
}

// Render writes a colored per-component report. Records the engine
// skipped for unfulfilled dependencies are absent by design and never
// shown.
func (r *Reporter) Render(result *engine.RunResult, fixes []engine.FixOutcome) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	dedupedByComponent := groupRecords(result)

	for _, cr := range result.Components {
		comp := cr.Component
		fmt.Fprintf(r.Out, "%s %s (%s)\n", cyan("▶"), comp.Name(), comp.Language)

		if cr.Err != nil {
			fmt.Fprintf(r.Out, "  %s %v\n", red("✗"), cr.Err)
			continue
		}

		records := dedupedByComponent[comp.ID()]
		if len(records) == 0 {
			fmt.Fprintf(r.Out, "  %s no applicable practices\n", yellow("⚠"))
			continue
		}

		for _, rec := range records {
			switch {
			case !rec.IsOn:
				fmt.Fprintf(r.Out, "  %s %s (disabled)\n", yellow("○"), rec.Practice.Name)
			case rec.Result == practice.ResultPracticing:
				fmt.Fprintf(r.Out, "  %s %s\n", green("✓"), rec.Practice.Name)
			case rec.Result == practice.ResultNotPracticing:
				fmt.Fprintf(r.Out, "  %s %s [%s]\n", red("✗"), rec.Practice.Name, impactLabel(rec.Impact))
				if r.Verbose || rec.Impact == practice.ImpactHigh {
					fmt.Fprintf(r.Out, "      %s\n", rec.Practice.Suggestion)
					if r.Verbose && rec.Practice.DocsURL != "" {
						fmt.Fprintf(r.Out, "      %s\n", rec.Practice.DocsURL)
					}
				}
			default:
				fmt.Fprintf(r.Out, "  %s %s (unknown)\n", yellow("?"), rec.Practice.Name)
				if r.Verbose && rec.Details != "" {
					fmt.Fprintf(r.Out, "      %s\n", rec.Details)
				}
			}
		}
	}

	if len(fixes) > 0 {
		fmt.Fprintf(r.Out, "\n%s Fixes\n", cyan("▶"))
		for _, fix := range fixes {
			if fix.Fixed {
				fmt.Fprintf(r.Out, "  %s %s\n", green("✓"), fix.PracticeID)
			} else {
				fmt.Fprintf(r.Out, "  %s %s: %s\n", yellow("⚠"), fix.PracticeID, fix.Warning)
			}
		}
	}

	r.renderSummary(result)
}

func (r *Reporter) renderSummary(result *engine.RunResult) {
	var practicing, violations, unknown int
	for _, rec := range result.Aggregate() {
		switch rec.Result {
		case practice.ResultPracticing:
			practicing++
		case practice.ResultNotPracticing:
			violations++
		default:
			unknown++
		}
	}

	fmt.Fprintf(r.Out, "\n%d practicing, %d violations, %d unknown (%s)\n",
		practicing, violations, unknown,
		result.CompletedAt.Sub(result.StartedAt).Round(time.Millisecond))
}

// groupRecords applies the run-level reportOnlyOnce dedup and indexes
// the surviving records by component.
func groupRecords(result *engine.RunResult) map[string][]practice.Record {
	grouped := make(map[string][]practice.Record)
	for _, rec := range result.Aggregate() {
		id := rec.Component.ID()
		grouped[id] = append(grouped[id], rec)
	}
	return grouped
}

func impactLabel(i practice.Impact) string {
	switch i {
	case practice.ImpactHigh:
		return color.New(color.FgRed).Sprint("high")
	case practice.ImpactMedium:
		return color.New(color.FgYellow).Sprint("medium")
	default:
		return "low"
	}
}

// jsonRecord is the machine-readable shape of one evaluation record.
type jsonRecord struct {
	Practice   string `json:"practice"`
	Name       string `json:"name"`
	Component  string `json:"component"`
	Language   string `json:"language"`
	Result     string `json:"result"`
	IsOn       bool   `json:"isOn"`
	Impact     string `json:"impact"`
	Suggestion string `json:"suggestion,omitempty"`
	Details    string `json:"details,omitempty"`
}

// jsonReport is the machine-readable shape of a whole run.
type jsonReport struct {
	RunID     string       `json:"runId"`
	StartedAt time.Time    `json:"startedAt"`
	Records   []jsonRecord `json:"records"`
	Errors    []string     `json:"errors,omitempty"`
	Fixes     []jsonFix    `json:"fixes,omitempty"`
}

type jsonFix struct {
	Practice  string `json:"practice"`
	Component string `json:"component"`
	Fixed     bool   `json:"fixed"`
	Warning   string `json:"warning,omitempty"`
}

// RenderJSON writes the aggregated run as indented JSON.
func (r *Reporter) RenderJSON(result *engine.RunResult, fixes []engine.FixOutcome) error {
	out := jsonReport{
		RunID:     result.ID,
		StartedAt: result.StartedAt,
	}

	for _, rec := range result.Aggregate() {
		out.Records = append(out.Records, jsonRecord{
			Practice:   rec.Practice.ID,
			Name:       rec.Practice.Name,
			Component:  rec.Component.ID(),
			Language:   string(rec.Component.Language),
			Result:     string(rec.Result),
			IsOn:       rec.IsOn,
			Impact:     rec.Impact.String(),
			Suggestion: rec.Practice.Suggestion,
			Details:    rec.Details,
		})
	}

	for _, cr := range result.Components {
		if cr.Err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", cr.Component.Name(), cr.Err))
		}
	}

	for _, fix := range fixes {
		out.Fixes = append(out.Fixes, jsonFix{
			Practice:  fix.PracticeID,
			Component: fix.ComponentID,
			Fixed:     fix.Fixed,
			Warning:   fix.Warning,
		})
	}

	enc := json.NewEncoder(r.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
