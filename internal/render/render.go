// Package render turns an ir.Statement back into Cypher text.
package render

import (
	"fmt"
	"strings"

	"github.com/roach88/reldir/internal/ir"
)

const indentUnit = "  "

// Config controls the output form.
type Config struct {
	// EscapeAlways wraps every label and relationship type in backticks,
	// not only those that need it.
	EscapeAlways bool

	// PrettyPrint puts every clause on its own line and indents the
	// clauses of subqueries.
	PrettyPrint bool
}

// Renderer renders statements. It holds no state besides its Config and
// is safe for concurrent use.
type Renderer struct {
	cfg Config
}

// New creates a Renderer.
func New(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render converts stmt to query text.
//
// Opaque tokens are written as they appeared in the source, separated by a
// single space wherever the source had whitespace or a comment between
// them. Comments themselves are dropped. Patterns are written without
// internal whitespace.
func (r *Renderer) Render(stmt *ir.Statement) (string, error) {
	if stmt == nil {
		return "", fmt.Errorf("cannot render nil statement")
	}
	var b strings.Builder
	if err := r.renderClauses(&b, stmt.Clauses, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *Renderer) renderClauses(b *strings.Builder, clauses []*ir.Clause, depth int) error {
	for i, c := range clauses {
		if c == nil {
			return fmt.Errorf("clause %d is nil", i)
		}
		if i > 0 {
			r.clauseBreak(b, depth)
		}
		b.WriteString(c.Keyword)
		if err := r.renderBody(b, c.Body, depth); err != nil {
			return fmt.Errorf("render %s: %w", c.Keyword, err)
		}
	}
	return nil
}

// clauseBreak separates two clauses: a newline plus indentation when
// pretty printing, a single space otherwise.
func (r *Renderer) clauseBreak(b *strings.Builder, depth int) {
	if !r.cfg.PrettyPrint {
		b.WriteByte(' ')
		return
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(indentUnit, depth))
}

func (r *Renderer) renderBody(b *strings.Builder, body []ir.Fragment, depth int) error {
	first := true
	for _, frag := range body {
		switch f := frag.(type) {
		case *ir.Opaque:
			for _, t := range f.Tokens {
				if first || t.SpaceBefore {
					b.WriteByte(' ')
				}
				b.WriteString(t.Text)
				first = false
			}
		case *ir.Chain:
			if first || f.SpaceBefore {
				b.WriteByte(' ')
			}
			if err := r.renderChain(b, f); err != nil {
				return err
			}
			first = false
		case *ir.Subquery:
			b.WriteString(" {")
			if len(f.Clauses) > 0 {
				r.clauseBreak(b, depth+1)
				if err := r.renderClauses(b, f.Clauses, depth+1); err != nil {
					return err
				}
			}
			r.clauseBreak(b, depth)
			b.WriteByte('}')
			first = false
		default:
			return fmt.Errorf("unsupported fragment type: %T", frag)
		}
	}
	return nil
}

func (r *Renderer) renderChain(b *strings.Builder, c *ir.Chain) error {
	if len(c.Elements)%2 == 0 {
		return fmt.Errorf("chain of %d elements does not end on a node", len(c.Elements))
	}
	for i, el := range c.Elements {
		switch e := el.(type) {
		case *ir.NodePattern:
			if i%2 != 0 {
				return fmt.Errorf("node pattern at relationship position %d", i)
			}
			r.renderNode(b, e)
		case *ir.RelationshipPattern:
			if i%2 != 1 {
				return fmt.Errorf("relationship pattern at node position %d", i)
			}
			r.renderRelationship(b, e)
		default:
			return fmt.Errorf("unsupported path element type: %T", el)
		}
	}
	return nil
}

// renderNode writes (var:L1:L2 {props} WHERE expr).
func (r *Renderer) renderNode(b *strings.Builder, n *ir.NodePattern) {
	var d strings.Builder
	d.WriteString(r.variable(n.Variable))
	for _, l := range n.Labels {
		d.WriteByte(':')
		d.WriteString(r.name(l))
	}
	r.renderDetailTail(&d, n.Properties, n.Where)

	b.WriteByte('(')
	b.WriteString(d.String())
	b.WriteByte(')')
}

// renderRelationship writes the arrow for rel. A relationship with no
// variable, type, length, properties or predicate uses the short form.
func (r *Renderer) renderRelationship(b *strings.Builder, rel *ir.RelationshipPattern) {
	var d strings.Builder
	d.WriteString(r.variable(rel.Variable))
	for i, t := range rel.Types {
		if i == 0 {
			d.WriteByte(':')
		} else {
			d.WriteByte('|')
		}
		d.WriteString(r.name(t))
	}
	d.WriteString(rel.Length)
	r.renderDetailTail(&d, rel.Properties, rel.Where)

	if rel.Direction == ir.RightToLeft {
		b.WriteByte('<')
	}
	b.WriteByte('-')
	if d.Len() > 0 {
		b.WriteByte('[')
		b.WriteString(d.String())
		b.WriteByte(']')
	}
	b.WriteByte('-')
	if rel.Direction == ir.LeftToRight {
		b.WriteByte('>')
	}
}

// renderDetailTail appends properties and an inline predicate, each
// separated from what precedes it by one space.
func (r *Renderer) renderDetailTail(d *strings.Builder, props, where *ir.Opaque) {
	if props != nil && len(props.Tokens) > 0 {
		if d.Len() > 0 {
			d.WriteByte(' ')
		}
		writeTokens(d, props.Tokens)
	}
	if where != nil && len(where.Tokens) > 0 {
		if d.Len() > 0 {
			d.WriteByte(' ')
		}
		d.WriteString("WHERE ")
		writeTokens(d, where.Tokens)
	}
}

// writeTokens writes tokens, ignoring the spacing flag of the first.
func writeTokens(b *strings.Builder, tokens []ir.Token) {
	for i, t := range tokens {
		if i > 0 && t.SpaceBefore {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
}

// name renders a label or relationship type.
func (r *Renderer) name(s string) string {
	if r.cfg.EscapeAlways {
		return Quote(s)
	}
	return Escape(s)
}

// variable renders a variable. Variables are only escaped when needed.
func (r *Renderer) variable(s string) string {
	if s == "" {
		return ""
	}
	return Escape(s)
}
