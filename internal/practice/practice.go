// Package practice defines the practice plugin contract and the data
// model shared by the evaluation engine: metadata with dependency
// constraints, the tri-state evaluation result, the immutable
// evaluation record, and the process-wide catalog.
package practice

import (
	"context"
	"fmt"

	"github.com/devscan/devscan/internal/component"
)

// Practice defines the interface for pluggable best-practice checks.
// Each practice embodies one independently authored check and declares,
// through its metadata, which other practices' outcomes it depends on.
//
// Practices collect facts about a component and decide whether the
// practice is followed. The engine never looks inside a practice; it
// only schedules it and records its outcome.
type Practice interface {
	// Metadata returns the immutable descriptor for this practice.
	Metadata() Metadata

	// IsApplicable reports whether this practice makes sense for the
	// given component (e.g., a go.mod check only applies to Go).
	IsApplicable(c *component.Component) bool

	// Evaluate examines the component and returns the outcome.
	// Returning an error (or panicking) is recorded as ResultUnknown;
	// it never aborts the surrounding run.
	Evaluate(ctx context.Context, ectx *Context) (Result, error)
}

// Fixer is the optional remediation capability of a practice.
// Fix must be idempotent: fixing an already-compliant component must
// not change its state or error.
type Fixer interface {
	Fix(ctx context.Context, ectx *Context) error
}

// Context carries everything a practice may examine during evaluation.
type Context struct {
	// Component is the unit of code being evaluated.
	Component *component.Component
}

// Impact is the severity of not following a practice.
type Impact int

const (
	ImpactLow Impact = iota
	ImpactMedium
	ImpactHigh
)

// String returns the lowercase name used in config files and reports.
func (i Impact) String() string {
	switch i {
	case ImpactLow:
		return "low"
	case ImpactMedium:
		return "medium"
	case ImpactHigh:
		return "high"
	default:
		return fmt.Sprintf("impact(%d)", int(i))
	}
}

// ParseImpact converts a config-file string to an Impact.
func ParseImpact(s string) (Impact, error) {
	switch s {
	case "low":
		return ImpactLow, nil
	case "medium":
		return ImpactMedium, nil
	case "high":
		return ImpactHigh, nil
	default:
		return ImpactLow, fmt.Errorf("unknown impact %q", s)
	}
}

// Result is the tri-state outcome of evaluating a practice.
type Result string

const (
	// ResultPracticing means the component follows the practice.
	ResultPracticing Result = "practicing"

	// ResultNotPracticing means the component violates the practice.
	ResultNotPracticing Result = "notPracticing"

	// ResultUnknown means the outcome could not be determined
	// (missing prerequisite data, plugin failure, timeout, or the
	// practice is toggled off). Unknown is never a pass or a fail.
	ResultUnknown Result = "unknown"
)

// Valid reports whether r is one of the three defined outcomes.
// Practices are opaque plugins; a value outside the enum is treated
// the same as an evaluation failure.
func (r Result) Valid() bool {
	switch r {
	case ResultPracticing, ResultNotPracticing, ResultUnknown:
		return true
	}
	return false
}

// Requires names other practices whose outcome must match before a
// practice may run. IDs that are absent from the applicable set are
// permanently unsatisfied, which silently skips the dependent.
type Requires struct {
	// Practicing lists practice IDs that must have evaluated to
	// ResultPracticing earlier in the same component's run.
	Practicing []string

	// NotPracticing lists practice IDs that must have evaluated to
	// ResultNotPracticing earlier in the same component's run.
	NotPracticing []string
}

// All returns every referenced practice ID, practicing first.
func (r Requires) All() []string {
	out := make([]string, 0, len(r.Practicing)+len(r.NotPracticing))
	out = append(out, r.Practicing...)
	out = append(out, r.NotPracticing...)
	return out
}

// Metadata is the immutable descriptor of a practice. It is created
// at registration and never mutated afterwards.
type Metadata struct {
	// ID uniquely identifies the practice, stable across versions.
	ID string

	// Name is the human-readable practice name.
	Name string

	// Impact is the declared severity of violating the practice.
	// An override store may substitute it per component.
	Impact Impact

	// Suggestion is shown to the user when the practice is violated.
	Suggestion string

	// DocsURL links to documentation for the practice.
	DocsURL string

	// ReportOnlyOnce deduplicates identical findings across components:
	// when set, only the first component's record (in processing order)
	// is retained for reporting.
	ReportOnlyOnce bool

	// Requires declares the dependency constraints gating this practice.
	Requires Requires
}

// Record is the immutable outcome of running (or explicitly not
// running) a practice against a component. At most one Record exists
// per (practice, component) per run.
type Record struct {
	// Practice is the evaluated practice's metadata.
	Practice Metadata

	// Component is the unit the practice was evaluated against.
	Component *component.Component

	// Result is the evaluation outcome.
	Result Result

	// IsOn is false when the practice was disabled via override; such
	// records always carry ResultUnknown and the practice never ran.
	IsOn bool

	// Impact is the effective severity: the override store's value if
	// one is configured, otherwise the declared metadata impact.
	Impact Impact

	// Details is an optional diagnostic message (e.g., the evaluation
	// failure that produced ResultUnknown).
	Details string
}

// CanFix reports whether the practice exposes the remediation capability.
func CanFix(p Practice) bool {
	_, ok := p.(Fixer)
	return ok
}
