package parser

import "fmt"

// SyntaxError reports query text that does not conform to the pattern
// grammar. Line and Column are 1-based; Column counts runes.
type SyntaxError struct {
	Offset  int
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}
