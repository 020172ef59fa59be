package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/reldir/internal/ir"
	"github.com/roach88/reldir/internal/lexer"
)

// token is a significant lexeme plus whether trivia preceded it.
type token struct {
	lexer.Lexeme
	space bool
}

type parser struct {
	input       string
	toks        []token // significant tokens, always ending with EOF
	pos         int
	clauseStart int // index of the first token of the current clause body
}

// Parse parses query into a Statement. Any failure is a *SyntaxError and
// no partial statement is returned.
func Parse(query string) (*ir.Statement, error) {
	lexemes, err := lexer.Lex(query)
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			return nil, newSyntaxError(query, lexErr.Position, lexErr.Message)
		}
		return nil, err
	}

	p := &parser{input: query, toks: significant(lexemes)}
	if p.peek().Kind == lexer.TokenTypeEOF {
		return nil, newSyntaxError(query, 0, "empty query")
	}

	clauses, err := p.parseClauses(lexer.TokenTypeEOF)
	if err != nil {
		return nil, err
	}
	return &ir.Statement{Clauses: clauses}, nil
}

// significant drops trivia, recording on each remaining token whether
// trivia preceded it.
func significant(lexemes []lexer.Lexeme) []token {
	toks := make([]token, 0, len(lexemes))
	space := false
	for _, l := range lexemes {
		if l.Kind.IsTrivia() {
			space = true
			continue
		}
		toks = append(toks, token{Lexeme: l, space: space})
		space = false
	}
	return toks
}

func newSyntaxError(input string, offset int, format string, args ...any) *SyntaxError {
	line, col := lexer.Position(input, offset)
	return &SyntaxError{Offset: offset, Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) errorf(t token, format string, args ...any) *SyntaxError {
	return newSyntaxError(p.input, t.Position, format, args...)
}

// tok returns the token at index i, or the trailing EOF past the end.
func (p *parser) tok(i int) token {
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *parser) peek() token {
	return p.tok(p.pos)
}

func (p *parser) peekN(n int) token {
	return p.tok(p.pos + n)
}

func (p *parser) next() token {
	t := p.tok(p.pos)
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind lexer.TokenType, context string) (token, error) {
	t := p.peek()
	if t.Kind != kind {
		return t, p.errorf(t, "expected %s %s, found %s", kind, context, describe(t))
	}
	return p.next(), nil
}

func describe(t token) string {
	if t.Kind == lexer.TokenTypeEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Value)
}

// parseClauses parses clauses until closer, which is left unconsumed.
func (p *parser) parseClauses(closer lexer.TokenType) ([]*ir.Clause, error) {
	saved := p.clauseStart
	defer func() { p.clauseStart = saved }()

	var clauses []*ir.Clause
	for p.peek().Kind != closer {
		t := p.peek()
		keyword, n := p.keywordAt(p.pos)
		if n == 0 {
			if t.Kind == lexer.TokenTypeEOF {
				return nil, p.errorf(t, "unexpected end of input, expected %s", closer)
			}
			return nil, p.errorf(t, "expected a clause keyword, found %s", describe(t))
		}
		p.pos += n
		p.clauseStart = p.pos

		clause := &ir.Clause{Keyword: keyword}
		var b body
		if err := p.parseGroup(&b, clause.IsPattern(), closer, true); err != nil {
			return nil, err
		}
		if clause.IsPattern() && b.chains == 0 {
			return nil, p.errorf(t, "expected a pattern after %s", keyword)
		}
		clause.Body = b.frags
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

// parseGroup consumes tokens into b until closer. At the top level of a
// clause it also stops before the next clause keyword and leaves closer
// unconsumed; nested groups consume their closer.
func (p *parser) parseGroup(b *body, pattern bool, closer lexer.TokenType, top bool) error {
	for {
		t := p.peek()
		switch {
		case t.Kind == lexer.TokenTypeEOF:
			if top && closer == lexer.TokenTypeEOF {
				return nil
			}
			return p.errorf(t, "unexpected end of input, expected %s", closer)

		case t.Kind == closer:
			if !top {
				b.token(p.next())
			}
			return nil

		case top && p.keywordStarts():
			return nil

		case t.Kind == lexer.TokenTypeRightParen,
			t.Kind == lexer.TokenTypeRightBracket,
			t.Kind == lexer.TokenTypeRightBrace:
			return p.errorf(t, "unexpected %s", describe(t))

		case t.Kind == lexer.TokenTypeLeftParen:
			if err := p.parseParen(b, pattern); err != nil {
				return err
			}

		case t.Kind == lexer.TokenTypeLeftBracket:
			b.token(p.next())
			if err := p.parseGroup(b, false, lexer.TokenTypeRightBracket, false); err != nil {
				return err
			}

		case t.Kind == lexer.TokenTypeLeftBrace:
			if err := p.parseBrace(b); err != nil {
				return err
			}

		default:
			b.token(p.next())
		}
	}
}

func (p *parser) keywordStarts() bool {
	_, n := p.keywordAt(p.pos)
	return n > 0
}

// parseParen handles a '(' inside a clause body.
func (p *parser) parseParen(b *body, pattern bool) error {
	open := p.peek()

	if pattern {
		if p.isGrouping() {
			b.token(p.next())
			return p.parseGroup(b, true, lexer.TokenTypeRightParen, false)
		}
		chain, err := p.parseChain()
		if err != nil {
			return err
		}
		b.chain(chain, open.space)
		return nil
	}

	chain, err := p.tryChain()
	if err != nil {
		return err
	}
	if chain != nil {
		b.chain(chain, open.space)
		return nil
	}
	b.token(p.next())
	return p.parseGroup(b, false, lexer.TokenTypeRightParen, false)
}

// isGrouping reports whether the '(' at the current position groups a
// pattern, as in ((a)-->(b)){1,3}, or opens the argument list of a call
// such as shortestPath((a)-[*]-(b)).
func (p *parser) isGrouping() bool {
	if p.peekN(1).Kind == lexer.TokenTypeLeftParen {
		return true
	}
	if p.pos-1 < p.clauseStart {
		return false
	}
	prev := p.tok(p.pos - 1)
	return prev.Kind.IsName() && !p.peek().space
}

// parseBrace handles a '{' inside a clause body. A brace whose content
// starts with a clause keyword is a subquery.
func (p *parser) parseBrace(b *body) error {
	open := p.next()
	if !p.keywordStarts() {
		b.token(open)
		return p.parseGroup(b, false, lexer.TokenTypeRightBrace, false)
	}

	clauses, err := p.parseClauses(lexer.TokenTypeRightBrace)
	if err != nil {
		return err
	}
	p.next() // '}'
	b.subquery(&ir.Subquery{Clauses: clauses})
	return nil
}

// tryChain parses a chain at the current '(' if it is a node pattern
// followed by a relationship. Otherwise it restores the position and
// returns nil. Once a relationship follows the node, errors are final.
func (p *parser) tryChain() (*ir.Chain, error) {
	start := p.pos
	node, err := p.parseNode()
	if err != nil || !p.atRelationship() {
		p.pos = start
		return nil, nil
	}
	chain := ir.NewChain(node)
	if err := p.parseChainRest(chain); err != nil {
		return nil, err
	}
	return chain, nil
}

// parseChain parses node (relationship node)*.
func (p *parser) parseChain() (*ir.Chain, error) {
	node, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	chain := ir.NewChain(node)
	if err := p.parseChainRest(chain); err != nil {
		return nil, err
	}
	return chain, nil
}

func (p *parser) parseChainRest(chain *ir.Chain) error {
	for p.atRelationship() {
		rel, err := p.parseRelationship()
		if err != nil {
			return err
		}
		if p.peek().Kind != lexer.TokenTypeLeftParen {
			return p.errorf(p.peek(), "expected a node pattern after relationship, found %s", describe(p.peek()))
		}
		node, err := p.parseNode()
		if err != nil {
			return err
		}
		chain.Extend(rel, node)
	}
	return nil
}

// atRelationship reports whether a relationship pattern starts here:
// <-, -[ or --.
func (p *parser) atRelationship() bool {
	t0, t1 := p.peek().Kind, p.peekN(1).Kind
	switch t0 {
	case lexer.TokenTypeLessThan:
		return t1 == lexer.TokenTypeMinus
	case lexer.TokenTypeMinus:
		return t1 == lexer.TokenTypeLeftBracket || t1 == lexer.TokenTypeMinus
	default:
		return false
	}
}

// parseNode parses ( [var] [:L1[:L2|&L2...]] [{props}|$param] [WHERE expr] ).
func (p *parser) parseNode() (*ir.NodePattern, error) {
	if _, err := p.expect(lexer.TokenTypeLeftParen, "to start a node pattern"); err != nil {
		return nil, err
	}
	node := &ir.NodePattern{}

	if t := p.peek(); t.Kind.IsName() && !p.atInlineWhere() {
		node.Variable = p.next().Name()
	}

	if p.peek().Kind == lexer.TokenTypeColon {
		for {
			sep := p.next()
			t := p.peek()
			if !t.Kind.IsName() {
				return nil, p.errorf(t, "expected a label after %q, found %s", sep.Value, describe(t))
			}
			label := p.next().Name()
			if !node.Labels.Contains(label) {
				node.Labels = append(node.Labels, label)
			}
			k := p.peek().Kind
			if k == lexer.TokenTypePipe {
				return nil, p.errorf(p.peek(), "label alternatives are not supported in node patterns")
			}
			if k != lexer.TokenTypeColon && k != lexer.TokenTypeAmpersand {
				break
			}
		}
	}

	props, err := p.parseProperties()
	if err != nil {
		return nil, err
	}
	node.Properties = props

	if p.atInlineWhere() {
		where, err := p.parseInlineWhere(lexer.TokenTypeRightParen)
		if err != nil {
			return nil, err
		}
		node.Where = where
	}

	if _, err := p.expect(lexer.TokenTypeRightParen, "to close node pattern"); err != nil {
		return nil, err
	}
	return node, nil
}

// atInlineWhere reports whether an inline WHERE predicate starts here. A
// variable called "where" is still a variable when nothing but a label,
// property map or the closing parenthesis follows it.
func (p *parser) atInlineWhere() bool {
	if !isWord(p.peek(), "WHERE") {
		return false
	}
	switch p.peekN(1).Kind {
	case lexer.TokenTypeRightParen, lexer.TokenTypeRightBracket,
		lexer.TokenTypeColon, lexer.TokenTypeLeftBrace, lexer.TokenTypeParameter, lexer.TokenTypeStar:
		return false
	default:
		return true
	}
}

// parseRelationship parses <?-[detail]->? with optional whitespace between
// the parts.
func (p *parser) parseRelationship() (*ir.RelationshipPattern, error) {
	rel := &ir.RelationshipPattern{}

	left := false
	if p.peek().Kind == lexer.TokenTypeLessThan {
		p.next()
		left = true
	}
	if _, err := p.expect(lexer.TokenTypeMinus, "in relationship"); err != nil {
		return nil, err
	}

	if p.peek().Kind == lexer.TokenTypeLeftBracket {
		p.next()
		if err := p.parseRelationshipDetail(rel); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenTypeRightBracket, "to close relationship detail"); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.TokenTypeMinus, "to close relationship"); err != nil {
		return nil, err
	}
	right := false
	if p.peek().Kind == lexer.TokenTypeGreaterThan {
		p.next()
		right = true
	}

	switch {
	case left && !right:
		rel.Direction = ir.RightToLeft
	case right && !left:
		rel.Direction = ir.LeftToRight
	default:
		rel.Direction = ir.Undirected
	}
	return rel, nil
}

// parseRelationshipDetail parses the inside of [var:T1|T2*1..3 {props} WHERE expr].
func (p *parser) parseRelationshipDetail(rel *ir.RelationshipPattern) error {
	if p.peek().Kind.IsName() && !p.atInlineWhere() {
		rel.Variable = p.next().Name()
	}

	if p.peek().Kind == lexer.TokenTypeColon {
		p.next()
		for {
			t := p.peek()
			if !t.Kind.IsName() {
				return p.errorf(t, "expected a relationship type, found %s", describe(t))
			}
			typ := p.next().Name()
			if !rel.Types.Contains(typ) {
				rel.Types = append(rel.Types, typ)
			}
			if p.peek().Kind != lexer.TokenTypePipe {
				break
			}
			p.next()
			if p.peek().Kind == lexer.TokenTypeColon {
				p.next()
			}
		}
	}

	if p.peek().Kind == lexer.TokenTypeStar {
		var length strings.Builder
		length.WriteString(p.next().Value)
		for {
			k := p.peek().Kind
			if k != lexer.TokenTypeNumber && k != lexer.TokenTypeRange {
				break
			}
			length.WriteString(p.next().Value)
		}
		rel.Length = length.String()
	}

	props, err := p.parseProperties()
	if err != nil {
		return err
	}
	rel.Properties = props

	if p.atInlineWhere() {
		where, err := p.parseInlineWhere(lexer.TokenTypeRightBracket)
		if err != nil {
			return err
		}
		rel.Where = where
	}
	return nil
}

// parseProperties parses an optional {map} or $param.
func (p *parser) parseProperties() (*ir.Opaque, error) {
	switch p.peek().Kind {
	case lexer.TokenTypeParameter:
		o := &ir.Opaque{}
		t := p.next()
		o.Append(t.Value, t.space)
		return o, nil
	case lexer.TokenTypeLeftBrace:
		o := &ir.Opaque{}
		t := p.next()
		o.Append(t.Value, t.space)
		if err := p.collect(o, lexer.TokenTypeRightBrace); err != nil {
			return nil, err
		}
		t = p.next()
		o.Append(t.Value, t.space)
		return o, nil
	default:
		return nil, nil
	}
}

// parseInlineWhere consumes WHERE and the predicate up to closer.
func (p *parser) parseInlineWhere(closer lexer.TokenType) (*ir.Opaque, error) {
	p.next() // WHERE
	o := &ir.Opaque{}
	if err := p.collect(o, closer); err != nil {
		return nil, err
	}
	if len(o.Tokens) == 0 {
		return nil, p.errorf(p.peek(), "expected a predicate after WHERE")
	}
	return o, nil
}

// collect appends tokens to o until closer at nesting depth zero, leaving
// closer unconsumed.
func (p *parser) collect(o *ir.Opaque, closer lexer.TokenType) error {
	var stack []lexer.TokenType
	for {
		t := p.peek()
		switch t.Kind {
		case lexer.TokenTypeEOF:
			return p.errorf(t, "unexpected end of input, expected %s", closer)
		case lexer.TokenTypeLeftParen:
			stack = append(stack, lexer.TokenTypeRightParen)
		case lexer.TokenTypeLeftBracket:
			stack = append(stack, lexer.TokenTypeRightBracket)
		case lexer.TokenTypeLeftBrace:
			stack = append(stack, lexer.TokenTypeRightBrace)
		case lexer.TokenTypeRightParen, lexer.TokenTypeRightBracket, lexer.TokenTypeRightBrace:
			if len(stack) == 0 {
				if t.Kind == closer {
					return nil
				}
				return p.errorf(t, "unexpected %s, expected %s", describe(t), closer)
			}
			if stack[len(stack)-1] != t.Kind {
				return p.errorf(t, "unexpected %s, expected %s", describe(t), stack[len(stack)-1])
			}
			stack = stack[:len(stack)-1]
		}
		p.next()
		o.Append(t.Value, t.space)
	}
}
