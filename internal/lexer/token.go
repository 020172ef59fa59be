package lexer

import "strings"

// TokenType identifies the type of lexemes.
type TokenType int

const (
	TokenTypeEOF TokenType = iota
	TokenTypeWhitespace
	TokenTypeSinglelineComment
	TokenTypeMultilineComment

	TokenTypeIdentifier       // person
	TokenTypeQuotedIdentifier // `movie star`
	TokenTypeString           // 'Keanu' or "Keanu"
	TokenTypeNumber           // 42, 3.14, 0x1F
	TokenTypeParameter        // $name

	TokenTypeLeftParen    // (
	TokenTypeRightParen   // )
	TokenTypeLeftBracket  // [
	TokenTypeRightBracket // ]
	TokenTypeLeftBrace    // {
	TokenTypeRightBrace   // }

	TokenTypeColon       // :
	TokenTypeComma       // ,
	TokenTypePipe        // |
	TokenTypeAmpersand   // &
	TokenTypeMinus       // -
	TokenTypeLessThan    // <
	TokenTypeGreaterThan // >
	TokenTypeStar        // *
	TokenTypeDot         // .
	TokenTypeRange       // ..
	TokenTypeOperator    // = + / % ^ ! ~ ? ;
)

var tokenNames = map[TokenType]string{
	TokenTypeEOF:               "end of input",
	TokenTypeWhitespace:        "whitespace",
	TokenTypeSinglelineComment: "comment",
	TokenTypeMultilineComment:  "comment",
	TokenTypeIdentifier:        "identifier",
	TokenTypeQuotedIdentifier:  "quoted identifier",
	TokenTypeString:            "string",
	TokenTypeNumber:            "number",
	TokenTypeParameter:         "parameter",
	TokenTypeLeftParen:         "'('",
	TokenTypeRightParen:        "')'",
	TokenTypeLeftBracket:       "'['",
	TokenTypeRightBracket:      "']'",
	TokenTypeLeftBrace:         "'{'",
	TokenTypeRightBrace:        "'}'",
	TokenTypeColon:             "':'",
	TokenTypeComma:             "','",
	TokenTypePipe:              "'|'",
	TokenTypeAmpersand:         "'&'",
	TokenTypeMinus:             "'-'",
	TokenTypeLessThan:          "'<'",
	TokenTypeGreaterThan:       "'>'",
	TokenTypeStar:              "'*'",
	TokenTypeDot:               "'.'",
	TokenTypeRange:             "'..'",
	TokenTypeOperator:          "operator",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsTrivia reports whether lexemes of this type carry no meaning for the
// parser.
func (t TokenType) IsTrivia() bool {
	return t == TokenTypeWhitespace || t == TokenTypeSinglelineComment || t == TokenTypeMultilineComment
}

// IsName reports whether the lexeme can name a variable, label or type.
func (t TokenType) IsName() bool {
	return t == TokenTypeIdentifier || t == TokenTypeQuotedIdentifier
}

// Name returns the unescaped name of an identifier lexeme: the value itself
// for a bare identifier, or the content between backticks with doubled
// backticks collapsed for a quoted one.
func (l Lexeme) Name() string {
	if l.Kind != TokenTypeQuotedIdentifier {
		return l.Value
	}
	return Unquote(l.Value)
}

// Unquote strips the surrounding backticks from a quoted identifier and
// collapses doubled backticks. Values that are not backtick-quoted are
// returned unchanged.
func Unquote(s string) string {
	if len(s) < 2 || s[0] != '`' || s[len(s)-1] != '`' {
		return s
	}
	return strings.ReplaceAll(s[1:len(s)-1], "``", "`")
}

// Position converts a byte offset into 1-based line and column numbers.
// Columns count runes.
func Position(input string, offset int) (line, column int) {
	if offset > len(input) {
		offset = len(input)
	}
	line, column = 1, 1
	for _, r := range input[:offset] {
		if r == '\n' {
			line++
			column = 1
			continue
		}
		column++
	}
	return line, column
}
