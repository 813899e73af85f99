package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devscan/devscan/internal/component"
	"github.com/devscan/devscan/internal/overrides"
	"github.com/devscan/devscan/internal/practice"
)

// pipeline drives evaluation of one component's applicable practices
// in dependency order, enforcing fulfillment and isolating failures.
// A pipeline instance owns its accumulated record list exclusively;
// nothing is shared with other components until aggregation.
type pipeline struct {
	catalog   *practice.Catalog
	overrides overrides.Store
	timeout   time.Duration // per-practice; 0 means none
	logger    *slog.Logger
}

// evaluateComponent runs every applicable practice for one component
// and returns the accumulated records. A dependency cycle among the
// applicable practices is fatal for this component only: the returned
// error is a *DependencyCycleError and no records are produced.
func (pl *pipeline) evaluateComponent(ctx context.Context, comp *component.Component) ([]practice.Record, error) {
	var applicable []practice.Practice
	for _, p := range pl.catalog.List() {
		if p.IsApplicable(comp) {
			applicable = append(applicable, p)
		}
	}

	ordered, err := resolveOrder(applicable, pl.catalog)
	if err != nil {
		return nil, err
	}

	ectx := &practice.Context{Component: comp}
	var records []practice.Record

	for _, p := range ordered {
		meta := p.Metadata()

		override := pl.overrides.Get(meta.ID, comp.ID())
		if !override.Enabled {
			// Toggled-off practices are never executed but always
			// produce exactly one record.
			records = append(records, practice.Record{
				Practice:  meta,
				Component: comp,
				Result:    practice.ResultUnknown,
				IsOn:      false,
				Impact:    effectiveImpact(meta, override),
			})
			continue
		}

		if !fulfilled(meta.Requires, records) {
			// Unmet preconditions skip the practice entirely; the
			// record's absence is intentional and load-bearing for
			// downstream reporting.
			continue
		}

		result, details := pl.evaluate(ctx, p, ectx)

		records = append(records, practice.Record{
			Practice:  meta,
			Component: comp,
			Result:    result,
			IsOn:      true,
			Impact:    effectiveImpact(meta, override),
			Details:   details,
		})
	}

	return records, nil
}

// fulfilled checks a practice's dependency constraints against the
// records already produced earlier in this component's walk. A missing
// or mismatched record means the constraint can never be satisfied
// this run.
func fulfilled(req practice.Requires, records []practice.Record) bool {
	for _, id := range req.Practicing {
		if !hasResult(records, id, practice.ResultPracticing) {
			return false
		}
	}
	for _, id := range req.NotPracticing {
		if !hasResult(records, id, practice.ResultNotPracticing) {
			return false
		}
	}
	return true
}

func hasResult(records []practice.Record, id string, want practice.Result) bool {
	for _, r := range records {
		if r.Practice.ID == id {
			return r.Result == want
		}
	}
	return false
}

// evaluate invokes a practice with full fault isolation: errors,
// panics, invalid results, and timeouts all map to ResultUnknown and
// never disturb sibling practices.
func (pl *pipeline) evaluate(ctx context.Context, p practice.Practice, ectx *practice.Context) (practice.Result, string) {
	meta := p.Metadata()

	evalCtx := ctx
	if pl.timeout > 0 {
		var cancel context.CancelFunc
		evalCtx, cancel = context.WithTimeout(ctx, pl.timeout)
		defer cancel()
	}

	type outcome struct {
		result practice.Result
		err    error
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("practice panicked: %v", r)}
			}
		}()
		result, err := p.Evaluate(evalCtx, ectx)
		done <- outcome{result: result, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-evalCtx.Done():
		out = outcome{err: fmt.Errorf("evaluation timed out: %w", evalCtx.Err())}
	}

	if out.err != nil {
		pl.logger.Warn("practice evaluation failed",
			"practice", meta.ID,
			"component", ectx.Component.Name(),
			"error", out.err)
		return practice.ResultUnknown, out.err.Error()
	}

	if !out.result.Valid() {
		pl.logger.Warn("practice returned invalid result",
			"practice", meta.ID,
			"component", ectx.Component.Name(),
			"result", string(out.result))
		return practice.ResultUnknown, fmt.Sprintf("invalid evaluation result %q", out.result)
	}

	return out.result, ""
}

func effectiveImpact(meta practice.Metadata, o overrides.Override) practice.Impact {
	if o.Impact != nil {
		return *o.Impact
	}
	return meta.Impact
}
