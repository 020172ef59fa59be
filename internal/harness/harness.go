package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/reldir/internal/pipeline"
	"github.com/roach88/reldir/internal/schema"
	"github.com/roach88/reldir/internal/schemafile"
	"github.com/roach88/reldir/internal/store"
	"github.com/roach88/reldir/internal/testutil"
)

// Harness is the scenario execution context.
type Harness struct {
	registry *schema.Registry
	recorder *store.Recorder
	opts     pipeline.Options
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory run log for isolation.
//
// Execution flow:
//  1. Build the registry from the scenario's relationships and schema files
//  2. Normalize the query and record the run
//  3. Check expect / expect_empty and the fixed point property
//  4. Evaluate assertions
//
// An error is returned only when the scenario cannot be executed at all
// (bad schema, blank query, internal fault). Failed expectations are
// reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	reg, err := schemafile.LoadRegistry(scenario.Relationships, scenario.SchemaFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	rec, err := store.NewRecorder(ctx, st, testutil.NewSequenceIDGenerator(""), testutil.NewSequenceClock(0))
	if err != nil {
		return nil, err
	}

	h := &Harness{
		registry: reg,
		recorder: rec,
		opts: pipeline.Options{
			EscapeAlways: scenario.Options.AlwaysEscape,
			PrettyPrint:  scenario.Options.PrettyPrint,
			Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
		},
	}

	result, err := h.normalize(ctx, scenario)
	if err != nil {
		return nil, err
	}

	h.checkExpect(scenario, result)
	if err := h.checkFixedPoint(ctx, result); err != nil {
		return nil, err
	}

	actx := &AssertionContext{Store: st, Ctx: ctx}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) normalize(ctx context.Context, scenario *Scenario) (*Result, error) {
	res, err := pipeline.Normalize(ctx, scenario.Query, h.registry, h.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize: %w", err)
	}

	result := NewResult()
	result.Output = res.Output
	result.Outcome = res.Outcome
	result.Reason = res.Reason
	if res.Report != nil {
		result.Changes = res.Report.Changes
	}

	run, err := h.recorder.Record(ctx, store.Run{
		SchemaHash: h.registry.Hash(),
		Query:      scenario.Query,
		Output:     res.Output,
		Outcome:    string(res.Outcome),
		Reason:     res.Reason,
		Options: store.RunOptions{
			AlwaysEscape: h.opts.EscapeAlways,
			PrettyPrint:  h.opts.PrettyPrint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	result.RunID = run.ID

	return result, nil
}

func (h *Harness) checkExpect(scenario *Scenario, result *Result) {
	switch {
	case scenario.ExpectEmpty:
		if result.Outcome != pipeline.OutcomeNoFix {
			result.AddError(fmt.Sprintf("expected no fix, got output %q", result.Output))
		}
	case scenario.Expect != nil:
		want := strings.TrimSuffix(*scenario.Expect, "\n")
		if result.Outcome != pipeline.OutcomeNormalized {
			result.AddError(fmt.Sprintf("expected output %q, got no fix: %s", want, result.Reason))
			return
		}
		if result.Output != want {
			result.AddError(fmt.Sprintf("output mismatch:\n  want: %q\n  got:  %q", want, result.Output))
		}
	}
}

// checkFixedPoint normalizes a normalized output again and requires the
// same text back.
func (h *Harness) checkFixedPoint(ctx context.Context, result *Result) error {
	if result.Outcome != pipeline.OutcomeNormalized {
		return nil
	}
	again, err := pipeline.Normalize(ctx, result.Output, h.registry, h.opts)
	if err != nil {
		return fmt.Errorf("failed to re-normalize output: %w", err)
	}
	if again.Outcome != pipeline.OutcomeNormalized || again.Output != result.Output {
		result.AddError(fmt.Sprintf("output is not a fixed point: %q became %q", result.Output, again.Output))
	}
	return nil
}
