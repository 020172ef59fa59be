package ir

import "fmt"

// Walk calls fn for every chain in the statement in text order, descending
// into subqueries. Walking stops at the first error fn returns.
func (s *Statement) Walk(fn func(*Chain) error) error {
	return walkClauses(s.Clauses, fn)
}

func walkClauses(clauses []*Clause, fn func(*Chain) error) error {
	for _, c := range clauses {
		for _, frag := range c.Body {
			switch f := frag.(type) {
			case *Chain:
				if err := fn(f); err != nil {
					return err
				}
			case *Subquery:
				if err := walkClauses(f.Clauses, fn); err != nil {
					return err
				}
			case *Opaque:
				// nothing to visit
			}
		}
	}
	return nil
}

// Relationships returns every relationship pattern in statement order.
func (s *Statement) Relationships() []*RelationshipPattern {
	var rels []*RelationshipPattern
	_ = s.Walk(func(c *Chain) error {
		rels = append(rels, c.Relationships()...)
		return nil
	})
	return rels
}

// ValidationResult lists structural problems found in a statement.
type ValidationResult struct {
	// Valid is true when Problems is empty.
	Valid bool

	// Problems describes each broken invariant.
	Problems []string
}

// Validate checks the structural invariants of a statement:
//  1. Every chain alternates node, relationship, node and ends on a node
//  2. Every relationship points at the nodes written on either side of it
//  3. Every clause has a keyword
//
// Validate is a pure function with no side effects.
func Validate(stmt *Statement) ValidationResult {
	v := &validator{}
	if stmt == nil {
		v.addProblem("nil statement")
	} else {
		v.validateClauses(stmt.Clauses)
	}
	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateClauses(clauses []*Clause) {
	for i, c := range clauses {
		if c == nil {
			v.addProblem("clause %d is nil", i)
			continue
		}
		if c.Keyword == "" {
			v.addProblem("clause %d has no keyword", i)
		}
		for _, frag := range c.Body {
			switch f := frag.(type) {
			case *Chain:
				v.validateChain(f)
			case *Subquery:
				v.validateClauses(f.Clauses)
			case *Opaque:
			default:
				v.addProblem("unknown fragment type: %T", frag)
			}
		}
	}
}

func (v *validator) validateChain(c *Chain) {
	if len(c.Elements) == 0 {
		v.addProblem("empty chain")
		return
	}
	if len(c.Elements)%2 == 0 {
		v.addProblem("chain of %d elements does not end on a node", len(c.Elements))
	}
	for i, el := range c.Elements {
		switch e := el.(type) {
		case *NodePattern:
			if i%2 != 0 {
				v.addProblem("node pattern at relationship position %d", i)
			}
		case *RelationshipPattern:
			if i%2 != 1 {
				v.addProblem("relationship pattern at node position %d", i)
				continue
			}
			if i+1 >= len(c.Elements) {
				continue
			}
			if e.Left != c.Elements[i-1] || e.Right != c.Elements[i+1] {
				v.addProblem("relationship %d is not wired to its neighbouring nodes", i/2)
			}
		default:
			v.addProblem("unknown path element type: %T", el)
		}
	}
}
