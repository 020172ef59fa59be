package parser

import "github.com/roach88/reldir/internal/ir"

// body accumulates the fragments of a clause body. Consecutive opaque
// tokens share one *ir.Opaque.
type body struct {
	frags  []ir.Fragment
	chains int
}

func (b *body) token(t token) {
	if n := len(b.frags); n > 0 {
		if o, ok := b.frags[n-1].(*ir.Opaque); ok {
			o.Append(t.Value, t.space)
			return
		}
	}
	o := &ir.Opaque{}
	o.Append(t.Value, t.space)
	b.frags = append(b.frags, o)
}

func (b *body) chain(c *ir.Chain, space bool) {
	c.SpaceBefore = space
	b.frags = append(b.frags, c)
	b.chains++
}

func (b *body) subquery(s *ir.Subquery) {
	b.frags = append(b.frags, s)
}
