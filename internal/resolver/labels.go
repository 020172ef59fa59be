package resolver

import "github.com/roach88/reldir/internal/ir"

// labelIndex maps a variable to the union of labels written on every node
// pattern bound to it.
type labelIndex map[string]ir.LabelSet

// unifyLabels walks every node pattern in stmt, including those outside
// relationships, and builds the variable label index.
func unifyLabels(stmt *ir.Statement) labelIndex {
	idx := labelIndex{}
	_ = stmt.Walk(func(c *ir.Chain) error {
		for _, n := range c.Nodes() {
			if n.Variable == "" {
				continue
			}
			idx[n.Variable] = idx[n.Variable].Union(n.Labels)
		}
		return nil
	})
	return idx
}

// of returns the effective labels of n. Anonymous nodes keep their own.
func (idx labelIndex) of(n *ir.NodePattern) ir.LabelSet {
	if n.Variable == "" {
		return n.Labels
	}
	return idx[n.Variable]
}
