package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/reldir/internal/ir"
)

// Unsatisfiable reports a relationship pattern that no schema entry
// accepts in any direction.
type Unsatisfiable struct {
	// Index is the position of the relationship in statement order.
	Index int

	// Pattern is the relationship as written, with effective labels.
	Pattern string

	// Reason is a human-readable description.
	Reason string
}

func (e *Unsatisfiable) Error() string {
	return fmt.Sprintf("relationship %d %s: %s", e.Index, e.Pattern, e.Reason)
}

// InternalFault reports a broken invariant in the statement model.
type InternalFault struct {
	Message  string
	Problems []string
}

func (e *InternalFault) Error() string {
	if len(e.Problems) == 0 {
		return "internal fault: " + e.Message
	}
	return fmt.Sprintf("internal fault: %s: %s", e.Message, strings.Join(e.Problems, "; "))
}

// IsUnsatisfiable returns true if the error is an unsatisfiable pattern.
// Uses errors.As to handle wrapped errors.
func IsUnsatisfiable(err error) bool {
	var u *Unsatisfiable
	return errors.As(err, &u)
}

// IsInternalFault returns true if the error is an internal fault.
func IsInternalFault(err error) bool {
	var f *InternalFault
	return errors.As(err, &f)
}

// describe renders rel with the effective labels of its endpoints.
func describe(rel *ir.RelationshipPattern, left, right ir.LabelSet) string {
	shadow := *rel
	shadow.Left = &ir.NodePattern{Variable: rel.Left.Variable, Labels: left}
	shadow.Right = &ir.NodePattern{Variable: rel.Right.Variable, Labels: right}
	return shadow.String()
}
