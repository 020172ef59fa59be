package schema

import (
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/reldir/internal/ir"
)

// Registry is a set of relationship definitions indexed by type.
type Registry struct {
	defs   map[ir.RelationshipDefinition]struct{}
	byType map[string][]ir.RelationshipDefinition
}

// NewRegistry returns a registry holding defs. Duplicates collapse.
func NewRegistry(defs ...ir.RelationshipDefinition) *Registry {
	r := &Registry{
		defs:   make(map[ir.RelationshipDefinition]struct{}),
		byType: make(map[string][]ir.RelationshipDefinition),
	}
	for _, d := range defs {
		r.Add(d)
	}
	return r
}

// Add inserts def. Adding a definition that is already present is a no-op.
// It reports whether the definition was new.
func (r *Registry) Add(def ir.RelationshipDefinition) bool {
	def = canonical(def)
	if _, ok := r.defs[def]; ok {
		return false
	}
	r.defs[def] = struct{}{}
	r.byType[def.Type] = append(r.byType[def.Type], def)
	return true
}

// Lookup reports whether (source, typ, target) is a registered definition.
func (r *Registry) Lookup(source, typ, target string) bool {
	_, ok := r.defs[canonical(ir.RelationshipDefinition{Source: source, Type: typ, Target: target})]
	return ok
}

// CandidateDirections returns the orientations in which a relationship of
// one of types between nodes labelled left and right matches at least one
// definition.
//
// LeftToRight is tested with the left node as source and the right node as
// target; RightToLeft the other way round. An empty label set matches any
// label in its slot. An empty type set matches nothing; callers that mean
// "any type" pass Types().
func (r *Registry) CandidateDirections(left ir.LabelSet, types ir.TypeSet, right ir.LabelSet) ir.DirectionSet {
	left = canonicalLabels(left)
	right = canonicalLabels(right)

	var dirs ir.DirectionSet
	for _, t := range types {
		for _, d := range r.byType[norm.NFC.String(t)] {
			if matches(left, d.Source) && matches(right, d.Target) {
				dirs = dirs.With(ir.LeftToRight)
			}
			if matches(right, d.Source) && matches(left, d.Target) {
				dirs = dirs.With(ir.RightToLeft)
			}
			if dirs.Len() == 2 {
				return dirs
			}
		}
	}
	return dirs
}

// matches reports whether a node with the given labels may occupy a slot
// requiring label. Any one label of a conjunction is enough.
func matches(labels ir.LabelSet, label string) bool {
	return len(labels) == 0 || labels.Contains(label)
}

// Types returns every registered relationship type, sorted.
func (r *Registry) Types() ir.TypeSet {
	types := make(ir.TypeSet, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Definitions returns every registered definition sorted by type, source
// and target.
func (r *Registry) Definitions() []ir.RelationshipDefinition {
	defs := make([]ir.RelationshipDefinition, 0, len(r.defs))
	for d := range r.defs {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool {
		a, b := defs[i], defs[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Target < b.Target
	})
	return defs
}

// Len returns the number of distinct definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Hash returns the content-addressed identity of the definition set.
func (r *Registry) Hash() string {
	return ir.SchemaHash(r.Definitions())
}

func canonical(d ir.RelationshipDefinition) ir.RelationshipDefinition {
	return ir.RelationshipDefinition{
		Source: norm.NFC.String(d.Source),
		Type:   norm.NFC.String(d.Type),
		Target: norm.NFC.String(d.Target),
	}
}

func canonicalLabels(labels ir.LabelSet) ir.LabelSet {
	if len(labels) == 0 {
		return labels
	}
	out := make(ir.LabelSet, len(labels))
	for i, l := range labels {
		out[i] = norm.NFC.String(l)
	}
	return out
}
