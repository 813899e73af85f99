package engine

import (
	"context"
	"fmt"

	"github.com/devscan/devscan/internal/practice"
)

// FixOutcome is the result of one attempted fix.
type FixOutcome struct {
	PracticeID  string
	ComponentID string

	// Fixed is true when the fix capability ran without error.
	Fixed bool

	// Warning carries the failure message when the fix call failed.
	// Fix faults are non-fatal and never roll back other fixes.
	Warning string
}

// FixRecords invokes the remediation capability for each eligible
// record. Eligible means isOn and the practice exposes a Fixer; the
// invoker trusts the records produced by the pipeline in the same run
// and does not re-evaluate or re-check dependency fulfillment. Fixes
// are independent, best-effort, and non-transactional; practices are
// expected to implement Fix idempotently.
func (e *Engine) FixRecords(ctx context.Context, records []practice.Record) []FixOutcome {
	var outcomes []FixOutcome

	for _, rec := range records {
		if !rec.IsOn {
			continue
		}

		p, ok := e.catalog.Get(rec.Practice.ID)
		if !ok {
			continue
		}
		fixer, ok := p.(practice.Fixer)
		if !ok {
			continue
		}

		ectx := &practice.Context{Component: rec.Component}
		err := invokeFix(ctx, fixer, ectx)

		outcome := FixOutcome{
			PracticeID:  rec.Practice.ID,
			ComponentID: rec.Component.ID(),
			Fixed:       err == nil,
		}
		if err != nil {
			outcome.Warning = err.Error()
			e.config.Logger.Warn("practice fix failed",
				"practice", rec.Practice.ID,
				"component", rec.Component.Name(),
				"error", err)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// invokeFix isolates a single fix call, converting panics to errors.
func invokeFix(ctx context.Context, fixer practice.Fixer, ectx *practice.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fix panicked: %v", r)
		}
	}()
	return fixer.Fix(ctx, ectx)
}
