package ir

// Statement is a complete parsed query: a sequence of clauses.
type Statement struct {
	Clauses []*Clause
}

// Clause is one clause of a statement, e.g. MATCH or RETURN.
//
// Keyword holds the normalised upper-case keyword ("OPTIONAL MATCH",
// "ORDER BY"). Body is everything up to the next clause keyword at the same
// nesting level.
type Clause struct {
	Keyword string
	Body    []Fragment
}

// IsPattern reports whether the clause body is a pattern list, i.e. every
// parenthesis at the top level starts a node pattern.
func (c *Clause) IsPattern() bool {
	return IsPatternKeyword(c.Keyword)
}

// IsPatternKeyword reports whether keyword introduces a pattern clause.
func IsPatternKeyword(keyword string) bool {
	switch keyword {
	case "MATCH", "OPTIONAL MATCH", "CREATE", "MERGE":
		return true
	default:
		return false
	}
}

// Fragment is a piece of a clause body.
//
// This is a sealed interface - only types in this package implement it.
//
// Fragment types:
//   - *Opaque: tokens carried through verbatim
//   - *Chain: a path pattern of nodes and relationships
//   - *Subquery: a braced block of clauses
type Fragment interface {
	fragment() // Marker method - seals interface to this package
}

// Token is one verbatim source token inside an opaque fragment.
type Token struct {
	Text        string // exact source text, quotes and escapes included
	SpaceBefore bool   // whitespace or a comment preceded it in the source
}

// Opaque is a run of tokens the rewrite never inspects: expressions,
// literals, function calls, property maps.
type Opaque struct {
	Tokens []Token
}

func (*Opaque) fragment() {}

// Append adds a token.
func (o *Opaque) Append(text string, spaceBefore bool) {
	o.Tokens = append(o.Tokens, Token{Text: text, SpaceBefore: spaceBefore})
}

// Subquery is a braced block whose body is itself a clause sequence, as in
// CALL { ... } or EXISTS { MATCH ... }.
type Subquery struct {
	Clauses []*Clause
}

func (*Subquery) fragment() {}
