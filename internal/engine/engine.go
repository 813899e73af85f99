// Package engine implements the practice evaluation engine: it decides
// which practices run against a detected component, in what order,
// whether each practice's preconditions are satisfied, and how the
// results are aggregated for reporting and fixing.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/devscan/devscan/internal/component"
	"github.com/devscan/devscan/internal/overrides"
	"github.com/devscan/devscan/internal/practice"
)

// Engine evaluates the practice catalog against a stream of detected
// components. The catalog and override store are treated as immutable
// snapshots for the duration of a run.
type Engine struct {
	catalog   *practice.Catalog
	overrides overrides.Store
	config    *Config
}

// Config holds engine options.
type Config struct {
	// Parallel evaluates components concurrently. Practices within a
	// component always run strictly sequentially regardless.
	Parallel bool

	// PracticeTimeout bounds a single evaluate call; zero disables the
	// bound. Expiry is treated identically to an evaluation failure.
	PracticeTimeout time.Duration

	// Logger receives per-practice diagnostics. Defaults to slog.Default.
	Logger *slog.Logger
}

// ComponentResult is one component's outcome: its accumulated records,
// or the fatal per-component error (a dependency cycle) that prevented
// evaluation.
type ComponentResult struct {
	Component *component.Component
	Records   []practice.Record
	Err       error
}

// RunResult is the full outcome of evaluating every component.
type RunResult struct {
	// ID uniquely identifies this run.
	ID string

	StartedAt   time.Time
	CompletedAt time.Time

	// Components holds per-component results in component stream order,
	// independent of execution interleaving.
	Components []ComponentResult
}

// New creates an engine over a populated catalog and override store.
func New(catalog *practice.Catalog, store overrides.Store, config *Config) *Engine {
	if config == nil {
		config = &Config{}
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Engine{
		catalog:   catalog,
		overrides: store,
		config:    config,
	}
}

// Run evaluates all components and returns the joined results. The run
// always completes: individual practice misbehavior degrades to
// ResultUnknown and a dependency cycle is fatal only for its own
// component.
func (e *Engine) Run(ctx context.Context, components []*component.Component) (*RunResult, error) {
	result := &RunResult{
		ID:         uuid.New().String(),
		StartedAt:  time.Now(),
		Components: make([]ComponentResult, len(components)),
	}

	if e.config.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, comp := range components {
			g.Go(func() error {
				result.Components[i] = e.runComponent(gctx, comp)
				return nil
			})
		}
		// Pipelines report their own faults through ComponentResult.
		_ = g.Wait()
	} else {
		for i, comp := range components {
			result.Components[i] = e.runComponent(ctx, comp)
		}
	}

	result.CompletedAt = time.Now()
	return result, nil
}

func (e *Engine) runComponent(ctx context.Context, comp *component.Component) ComponentResult {
	pl := &pipeline{
		catalog:   e.catalog,
		overrides: e.overrides,
		timeout:   e.config.PracticeTimeout,
		logger:    e.config.Logger,
	}

	records, err := pl.evaluateComponent(ctx, comp)
	if err != nil {
		e.config.Logger.Error("component evaluation failed",
			"component", comp.Name(),
			"error", err)
		return ComponentResult{Component: comp, Err: err}
	}

	return ComponentResult{Component: comp, Records: records}
}

// Aggregate flattens a run's records into reporting order and applies
// the reportOnlyOnce rule: when several components produced a record
// for the same reportOnlyOnce practice, only the first component's
// record (by processing order) is retained. This is a post-pass over
// the whole run, not a per-component rule.
func (r *RunResult) Aggregate() []practice.Record {
	seen := make(map[string]bool)
	var out []practice.Record

	for _, cr := range r.Components {
		for _, rec := range cr.Records {
			if rec.Practice.ReportOnlyOnce {
				if seen[rec.Practice.ID] {
					continue
				}
				seen[rec.Practice.ID] = true
			}
			out = append(out, rec)
		}
	}

	return out
}
