package ir

import "strings"

// PathElement is one element of a Chain.
//
// This is a sealed interface - only types in this package implement it.
//
// PathElement types:
//   - *NodePattern: (n:Label {props})
//   - *RelationshipPattern: -[r:TYPE*1..3]->
type PathElement interface {
	pathElement() // Marker method - seals interface to this package
}

// NodePattern is a node in a pattern: (variable:Label1:Label2 {props}).
type NodePattern struct {
	Variable   string   // empty for anonymous nodes
	Labels     LabelSet // empty = wildcard
	Properties *Opaque  // property map or $param, nil when absent
	Where      *Opaque  // inline predicate without the WHERE keyword, nil when absent
}

func (*NodePattern) pathElement() {}

// RelationshipPattern is a relationship between two node patterns.
//
// Left and Right are the node patterns written before and after the
// relationship in the query text. Direction is interpreted against that
// order and never swaps which node is written on which side.
type RelationshipPattern struct {
	Variable   string
	Types      TypeSet   // empty = any type
	Direction  Direction
	Length     string    // variable-length marker such as "*1..3"; empty when fixed
	Properties *Opaque
	Where      *Opaque

	Left  *NodePattern
	Right *NodePattern
}

func (*RelationshipPattern) pathElement() {}

// Chain is a path pattern: node, relationship, node, ... in text order.
// Elements always alternates starting and ending with a *NodePattern.
type Chain struct {
	Elements    []PathElement
	SpaceBefore bool // whitespace preceded the chain in the source
}

func (*Chain) fragment() {}

// NewChain starts a chain at the given node.
func NewChain(start *NodePattern) *Chain {
	return &Chain{Elements: []PathElement{start}}
}

// Extend appends rel and the node it leads to, wiring rel.Left and rel.Right.
func (c *Chain) Extend(rel *RelationshipPattern, next *NodePattern) {
	rel.Left = c.Last()
	rel.Right = next
	c.Elements = append(c.Elements, rel, next)
}

// Last returns the final node of the chain, or nil for an empty chain.
func (c *Chain) Last() *NodePattern {
	if len(c.Elements) == 0 {
		return nil
	}
	n, _ := c.Elements[len(c.Elements)-1].(*NodePattern)
	return n
}

// Nodes returns the node patterns in text order.
func (c *Chain) Nodes() []*NodePattern {
	var nodes []*NodePattern
	for _, el := range c.Elements {
		if n, ok := el.(*NodePattern); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Relationships returns the relationship patterns in text order.
func (c *Chain) Relationships() []*RelationshipPattern {
	var rels []*RelationshipPattern
	for _, el := range c.Elements {
		if r, ok := el.(*RelationshipPattern); ok {
			rels = append(rels, r)
		}
	}
	return rels
}

// String renders the node in a plain diagnostic form with no escaping.
func (n *NodePattern) String() string {
	if n == nil {
		return "(?)"
	}
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(n.Variable)
	for _, l := range n.Labels {
		b.WriteByte(':')
		b.WriteString(l)
	}
	b.WriteByte(')')
	return b.String()
}

// String renders the relationship with its endpoints in a plain diagnostic
// form, e.g. (n:Person)<-[:ACTED_IN]-(m:Movie).
func (r *RelationshipPattern) String() string {
	var b strings.Builder
	b.WriteString(r.Left.String())
	if r.Direction == RightToLeft {
		b.WriteByte('<')
	}
	b.WriteString("-[")
	b.WriteString(r.Variable)
	if len(r.Types) > 0 {
		b.WriteByte(':')
		b.WriteString(strings.Join(r.Types, "|"))
	}
	b.WriteString(r.Length)
	b.WriteString("]-")
	if r.Direction == LeftToRight {
		b.WriteByte('>')
	}
	b.WriteString(r.Right.String())
	return b.String()
}
