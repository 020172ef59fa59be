package resolver

import (
	"github.com/roach88/reldir/internal/ir"
	"github.com/roach88/reldir/internal/schema"
)

// ChangeKind classifies what resolution did to one relationship.
type ChangeKind string

const (
	// Kept means the written direction was already valid.
	Kept ChangeKind = "kept"

	// Assigned means an undirected pattern was given a direction.
	Assigned ChangeKind = "assigned"

	// Flipped means a directed pattern was reversed.
	Flipped ChangeKind = "flipped"
)

// Change records the outcome for one relationship pattern.
type Change struct {
	Index   int          `json:"index"`
	Kind    ChangeKind   `json:"kind"`
	From    ir.Direction `json:"from"`
	To      ir.Direction `json:"to"`
	Pattern string       `json:"pattern"`
}

// Report summarises a successful resolution.
type Report struct {
	// Relationships is the number of relationship patterns visited.
	Relationships int `json:"relationships"`

	// Changes has one entry per relationship, in statement order.
	Changes []Change `json:"changes"`
}

// Modified returns the number of relationships whose direction changed.
func (r *Report) Modified() int {
	n := 0
	for _, c := range r.Changes {
		if c.Kind != Kept {
			n++
		}
	}
	return n
}

// Resolve sets the direction of every relationship pattern in stmt to one
// the registry accepts, mutating stmt in place.
//
// Rules per relationship, in statement order:
//   - Undirected: assign the only valid direction; when both are valid
//     assign LeftToRight
//   - Directed: keep the direction if valid, otherwise flip it if the
//     opposite is valid
//   - Otherwise fail with *Unsatisfiable
//
// A relationship with no type is checked against every registered type.
// Types are never rewritten.
//
// On error stmt may be partially rewritten and must be discarded.
func Resolve(stmt *ir.Statement, reg *schema.Registry) (*Report, error) {
	if reg == nil {
		return nil, &InternalFault{Message: "nil schema registry"}
	}
	if result := ir.Validate(stmt); !result.Valid {
		return nil, &InternalFault{Message: "invalid statement", Problems: result.Problems}
	}

	labels := unifyLabels(stmt)
	report := &Report{}

	for i, rel := range stmt.Relationships() {
		left, right := labels.of(rel.Left), labels.of(rel.Right)

		types := rel.Types
		if len(types) == 0 {
			types = reg.Types()
		}
		candidates := reg.CandidateDirections(left, types, right)

		change := Change{Index: i, From: rel.Direction}
		to, kind, ok := decide(rel.Direction, candidates)
		if !ok {
			return nil, &Unsatisfiable{
				Index:   i,
				Pattern: describe(rel, left, right),
				Reason:  "no schema entry for pattern",
			}
		}

		rel.Direction = to
		change.To = to
		change.Kind = kind
		change.Pattern = rel.String()
		report.Changes = append(report.Changes, change)
		report.Relationships++
	}
	return report, nil
}

// decide picks the direction for a relationship written as current given
// the schema-valid candidates.
func decide(current ir.Direction, candidates ir.DirectionSet) (ir.Direction, ChangeKind, bool) {
	if current == ir.Undirected {
		if only, ok := candidates.Only(); ok {
			return only, Assigned, true
		}
		if candidates.Len() == 2 {
			return ir.LeftToRight, Assigned, true
		}
		return ir.Undirected, "", false
	}

	switch {
	case candidates.Has(current):
		return current, Kept, true
	case candidates.Has(current.Opposite()):
		return current.Opposite(), Flipped, true
	default:
		return current, "", false
	}
}
