package ir

import (
	"fmt"
	"strings"
)

// Direction is the orientation of a relationship pattern relative to the
// order its endpoints are written in the query text.
type Direction int

const (
	// Undirected means the query did not commit to an arrow: (a)-[:T]-(b).
	Undirected Direction = iota
	// LeftToRight is (a)-[:T]->(b): the left node is the source.
	LeftToRight
	// RightToLeft is (a)<-[:T]-(b): the right node is the source.
	RightToLeft
)

// String returns the snake_case name used in logs and JSON output.
func (d Direction) String() string {
	switch d {
	case Undirected:
		return "undirected"
	case LeftToRight:
		return "left_to_right"
	case RightToLeft:
		return "right_to_left"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Opposite returns the reversed direction. Undirected is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case LeftToRight:
		return RightToLeft
	case RightToLeft:
		return LeftToRight
	default:
		return d
	}
}

// DirectionSet is a small set of directed orientations.
// Only LeftToRight and RightToLeft are ever members.
type DirectionSet uint8

const (
	setLeftToRight DirectionSet = 1 << iota
	setRightToLeft
)

// NewDirectionSet builds a set from the given directions, ignoring Undirected.
func NewDirectionSet(dirs ...Direction) DirectionSet {
	var s DirectionSet
	for _, d := range dirs {
		s = s.With(d)
	}
	return s
}

// With returns the set with d added.
func (s DirectionSet) With(d Direction) DirectionSet {
	switch d {
	case LeftToRight:
		return s | setLeftToRight
	case RightToLeft:
		return s | setRightToLeft
	default:
		return s
	}
}

// Has reports whether d is a member.
func (s DirectionSet) Has(d Direction) bool {
	switch d {
	case LeftToRight:
		return s&setLeftToRight != 0
	case RightToLeft:
		return s&setRightToLeft != 0
	default:
		return false
	}
}

// Len returns the number of members.
func (s DirectionSet) Len() int {
	n := 0
	if s.Has(LeftToRight) {
		n++
	}
	if s.Has(RightToLeft) {
		n++
	}
	return n
}

// Only returns the single member when the set has exactly one.
func (s DirectionSet) Only() (Direction, bool) {
	switch s {
	case setLeftToRight:
		return LeftToRight, true
	case setRightToLeft:
		return RightToLeft, true
	default:
		return Undirected, false
	}
}

func (s DirectionSet) String() string {
	var parts []string
	if s.Has(LeftToRight) {
		parts = append(parts, LeftToRight.String())
	}
	if s.Has(RightToLeft) {
		parts = append(parts, RightToLeft.String())
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// LabelSet is the ordered, duplicate-free set of labels on a node pattern.
// An empty LabelSet is a wildcard.
type LabelSet []string

// Contains reports whether label is a member.
func (s LabelSet) Contains(label string) bool {
	for _, l := range s {
		if l == label {
			return true
		}
	}
	return false
}

// Union returns s followed by the members of other not already in s.
// Neither input is modified.
func (s LabelSet) Union(other LabelSet) LabelSet {
	out := make(LabelSet, 0, len(s)+len(other))
	out = append(out, s...)
	for _, l := range other {
		if !out.Contains(l) {
			out = append(out, l)
		}
	}
	return out
}

// TypeSet is the ordered, duplicate-free set of relationship types on a
// relationship pattern, as in [:ACTED_IN|DIRECTED]. Empty means any type.
type TypeSet []string

// Contains reports whether typ is a member.
func (s TypeSet) Contains(typ string) bool {
	for _, t := range s {
		if t == typ {
			return true
		}
	}
	return false
}

// RelationshipDefinition is one accepted (source, type, target) triple.
// It is a comparable value and can be used as a map key.
type RelationshipDefinition struct {
	Source string `json:"source" yaml:"source"`
	Type   string `json:"type" yaml:"type"`
	Target string `json:"target" yaml:"target"`
}

// String renders the definition in its textual form: (Source, TYPE, Target).
func (d RelationshipDefinition) String() string {
	return fmt.Sprintf("(%s, %s, %s)", d.Source, d.Type, d.Target)
}
