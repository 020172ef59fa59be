package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/reldir/internal/store"
)

// AssertionError describes a failed assertion.
type AssertionError struct {
	Index   int
	Type    string
	Message string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion %d (%s) failed: %s", e.Index, e.Type, e.Message)
}

// AssertionContext provides the run log for the recorded assertion.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

func assertOutcome(result *Result, a Assertion) error {
	if string(result.Outcome) != a.Value {
		return fmt.Errorf("expected outcome %s, got %s", a.Value, result.Outcome)
	}
	return nil
}

func assertOutputContains(result *Result, a Assertion) error {
	if !strings.Contains(result.Output, a.Value) {
		return fmt.Errorf("output %q does not contain %q", result.Output, a.Value)
	}
	return nil
}

func assertReasonContains(result *Result, a Assertion) error {
	if !strings.Contains(result.Reason, a.Value) {
		return fmt.Errorf("reason %q does not contain %q", result.Reason, a.Value)
	}
	return nil
}

func assertChanged(result *Result, a Assertion) error {
	if got := result.Modified(); got != a.Count {
		return fmt.Errorf("expected %d changed relationships, got %d", a.Count, got)
	}
	return nil
}

func assertChange(result *Result, a Assertion) error {
	if a.Index >= len(result.Changes) {
		return fmt.Errorf("no relationship at index %d (have %d)", a.Index, len(result.Changes))
	}
	c := result.Changes[a.Index]
	if string(c.Kind) != a.Kind {
		return fmt.Errorf("relationship %d: expected %s, got %s", a.Index, a.Kind, c.Kind)
	}
	if a.To != "" && c.To.String() != a.To {
		return fmt.Errorf("relationship %d: expected direction %s, got %s", a.Index, a.To, c.To)
	}
	return nil
}

func assertRecorded(actx *AssertionContext, a Assertion) error {
	if actx == nil || actx.Store == nil {
		return fmt.Errorf("no run log available")
	}
	runs, err := actx.Store.ReadRuns(actx.Ctx, store.RunFilter{Outcome: a.Value})
	if err != nil {
		return fmt.Errorf("reading runs: %w", err)
	}
	if len(runs) != 1 {
		return fmt.Errorf("expected 1 recorded %s run, found %d", a.Value, len(runs))
	}
	return nil
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertOutcome:
			err = assertOutcome(result, a)
		case AssertOutputContains:
			err = assertOutputContains(result, a)
		case AssertReasonContains:
			err = assertReasonContains(result, a)
		case AssertChanged:
			err = assertChanged(result, a)
		case AssertChange:
			err = assertChange(result, a)
		case AssertRecorded:
			err = assertRecorded(actx, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, (&AssertionError{Index: i, Type: a.Type, Message: err.Error()}).Error())
		}
	}
	return errs
}
