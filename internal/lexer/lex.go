// Package lexer splits Cypher query text into lexemes.
//
// The scanner is a state machine in the style of text/template/parse: each
// state function consumes input and returns the next state. Unlike the
// template lexer it runs synchronously and returns every lexeme at once,
// since the parser needs arbitrary lookahead for backtracking.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const eofRune = -1

// Lexeme is one token of the input.
type Lexeme struct {
	Kind     TokenType // the type of this lexeme
	Position int       // byte offset of the first character in the input
	Value    string    // exact source text
}

// Error reports input the lexer cannot tokenize.
type Error struct {
	Position int // byte offset where the offending token starts
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Position, e.Message)
}

// Lex tokenizes input. The returned slice always ends with a TokenTypeEOF
// lexeme unless an error is returned, in which case it is nil.
func Lex(input string) ([]Lexeme, error) {
	l := &lexer{input: input}
	for state := lexToken; state != nil; {
		state = state(l)
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.lexemes, nil
}

// stateFn represents the state of the scanner as a function that returns
// the next state.
type stateFn func(*lexer) stateFn

// lexer holds the state of the scanner.
type lexer struct {
	input   string   // the string being scanned
	pos     int      // current position in the input
	start   int      // start position of this lexeme
	width   int      // width of last rune read from input
	lexemes []Lexeme // scanned lexemes
	err     *Error
}

// next returns the next rune in the input.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eofRune
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	return r
}

// peek returns but does not consume the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune. Can only be called once per call of next.
func (l *lexer) backup() {
	l.pos -= l.width
}

// accept consumes the next rune if it's from the valid set.
func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

// acceptWhile consumes runes as long as fn reports true.
func (l *lexer) acceptWhile(fn func(rune) bool) {
	for fn(l.peek()) {
		l.next()
	}
}

// emit records the pending input as a lexeme of type t.
func (l *lexer) emit(t TokenType) {
	l.lexemes = append(l.lexemes, Lexeme{Kind: t, Position: l.start, Value: l.input[l.start:l.pos]})
	l.start = l.pos
}

// errorf records an error and terminates the scan by returning a nil state.
func (l *lexer) errorf(format string, args ...any) stateFn {
	l.err = &Error{Position: l.start, Message: fmt.Sprintf(format, args...)}
	return nil
}

// lexToken scans one lexeme and dispatches on its first rune.
func lexToken(l *lexer) stateFn {
	switch r := l.next(); {
	case r == eofRune:
		l.emit(TokenTypeEOF)
		return nil

	case unicode.IsSpace(r):
		l.acceptWhile(unicode.IsSpace)
		l.emit(TokenTypeWhitespace)

	case r == '/':
		switch l.peek() {
		case '/':
			return lexSinglelineComment
		case '*':
			return lexMultilineComment
		}
		l.emit(TokenTypeOperator)

	case r == '\'' || r == '"':
		return lexString(r)

	case r == '`':
		return lexQuotedIdentifier

	case r == '$':
		switch {
		case l.accept("`"):
			if !scanQuoted(l) {
				return l.errorf("unterminated quoted parameter name")
			}
		case isIdentifierPart(l.peek()):
			l.acceptWhile(isIdentifierPart)
		default:
			return l.errorf("expected parameter name after $")
		}
		l.emit(TokenTypeParameter)

	case isDigit(r):
		return lexNumber

	case isIdentifierStart(r):
		l.acceptWhile(isIdentifierPart)
		l.emit(TokenTypeIdentifier)

	case r == '.':
		if l.accept(".") {
			l.emit(TokenTypeRange)
		} else {
			l.emit(TokenTypeDot)
		}

	default:
		t, ok := punctuation[r]
		if !ok {
			return l.errorf("unrecognized character at this location: %#U", r)
		}
		l.emit(t)
	}
	return lexToken
}

var punctuation = map[rune]TokenType{
	'(': TokenTypeLeftParen,
	')': TokenTypeRightParen,
	'[': TokenTypeLeftBracket,
	']': TokenTypeRightBracket,
	'{': TokenTypeLeftBrace,
	'}': TokenTypeRightBrace,
	':': TokenTypeColon,
	',': TokenTypeComma,
	'|': TokenTypePipe,
	'&': TokenTypeAmpersand,
	'-': TokenTypeMinus,
	'<': TokenTypeLessThan,
	'>': TokenTypeGreaterThan,
	'*': TokenTypeStar,
	'=': TokenTypeOperator,
	'+': TokenTypeOperator,
	'%': TokenTypeOperator,
	'^': TokenTypeOperator,
	'!': TokenTypeOperator,
	'~': TokenTypeOperator,
	'?': TokenTypeOperator,
	';': TokenTypeOperator,
}

// lexSinglelineComment scans until newline or EOF.
func lexSinglelineComment(l *lexer) stateFn {
	l.acceptWhile(func(r rune) bool { return r != eofRune && r != '\n' && r != '\r' })
	l.emit(TokenTypeSinglelineComment)
	return lexToken
}

// lexMultilineComment scans until the closing */.
func lexMultilineComment(l *lexer) stateFn {
	l.next() // '*'
	for {
		switch l.next() {
		case eofRune:
			return l.errorf("unterminated multiline comment")
		case '*':
			if l.accept("/") {
				l.emit(TokenTypeMultilineComment)
				return lexToken
			}
		}
	}
}

// lexString returns a state that scans a string literal closed by quote.
// A backslash escapes the next rune.
func lexString(quote rune) stateFn {
	return func(l *lexer) stateFn {
		for {
			switch l.next() {
			case eofRune:
				return l.errorf("unterminated string literal")
			case '\\':
				if l.next() == eofRune {
					return l.errorf("unterminated string literal")
				}
			case quote:
				l.emit(TokenTypeString)
				return lexToken
			}
		}
	}
}

// lexQuotedIdentifier scans a backtick-quoted name. A doubled backtick is a
// literal backtick.
func lexQuotedIdentifier(l *lexer) stateFn {
	if !scanQuoted(l) {
		return l.errorf("unterminated quoted identifier")
	}
	l.emit(TokenTypeQuotedIdentifier)
	return lexToken
}

// scanQuoted consumes the rest of a backtick-quoted name after the opening
// backtick. It reports false when the input ends first.
func scanQuoted(l *lexer) bool {
	for {
		switch l.next() {
		case eofRune:
			return false
		case '`':
			if !l.accept("`") {
				return true
			}
		}
	}
}

// lexNumber scans an integer, decimal, hexadecimal or exponent literal.
// A dot is part of the number only when a digit follows, so 1..3 lexes as
// a number, a range and a number.
func lexNumber(l *lexer) stateFn {
	l.acceptWhile(isIdentifierPart)
	if l.peek() == '.' {
		l.next()
		if isDigit(l.peek()) {
			l.acceptWhile(isIdentifierPart)
		} else {
			l.backup()
		}
	}
	l.emit(TokenTypeNumber)
	return lexToken
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
