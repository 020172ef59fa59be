package schema

import (
	"fmt"
	"strings"

	"github.com/roach88/reldir/internal/ir"
)

// DefinitionError reports a relationship definition that is not of the
// form (Source, TYPE, Target).
type DefinitionError struct {
	Input   string
	Message string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("invalid relationship definition %q: %s", e.Input, e.Message)
}

// ParseDefinition parses the textual triple form "(Person, ACTED_IN, Movie)".
//
// The surrounding parentheses are optional. Names are trimmed and may be
// wrapped in backticks, in which case they may contain commas, parentheses
// and spaces; a doubled backtick inside a quoted name is a literal backtick.
func ParseDefinition(s string) (ir.RelationshipDefinition, error) {
	body := strings.TrimSpace(s)
	if strings.HasPrefix(body, "(") {
		if !strings.HasSuffix(body, ")") {
			return ir.RelationshipDefinition{}, &DefinitionError{Input: s, Message: "missing closing parenthesis"}
		}
		body = body[1 : len(body)-1]
	} else if strings.HasSuffix(body, ")") {
		return ir.RelationshipDefinition{}, &DefinitionError{Input: s, Message: "missing opening parenthesis"}
	}

	parts, err := splitNames(body)
	if err != nil {
		return ir.RelationshipDefinition{}, &DefinitionError{Input: s, Message: err.Error()}
	}
	if len(parts) != 3 {
		return ir.RelationshipDefinition{}, &DefinitionError{
			Input:   s,
			Message: fmt.Sprintf("expected 3 comma separated names, got %d", len(parts)),
		}
	}
	for i, p := range parts {
		if p == "" {
			return ir.RelationshipDefinition{}, &DefinitionError{
				Input:   s,
				Message: fmt.Sprintf("%s is empty", [...]string{"source label", "type", "target label"}[i]),
			}
		}
	}
	return ir.RelationshipDefinition{Source: parts[0], Type: parts[1], Target: parts[2]}, nil
}

// ParseDefinitionList parses one or more definitions joined by commas, as in
// "(A, R, B),(C, S, D)". The list is split after every ")," so single
// definitions pass through unchanged.
func ParseDefinitionList(s string) ([]ir.RelationshipDefinition, error) {
	var defs []ir.RelationshipDefinition
	for _, item := range SplitDefinitionList(s) {
		d, err := ParseDefinition(item)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// SplitDefinitionList splits s after every ")," outside backticks. Blank
// items are dropped.
func SplitDefinitionList(s string) []string {
	var (
		items  []string
		start  int
		quoted bool
	)
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '`':
			quoted = !quoted
		case !quoted && s[i] == ')' && i+1 < len(s) && s[i+1] == ',':
			items = append(items, s[start:i+1])
			start = i + 2
			i++
		}
	}
	items = append(items, s[start:])

	out := items[:0]
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, strings.TrimSpace(item))
		}
	}
	return out
}

// splitNames splits body on commas outside backticks and unquotes each name.
func splitNames(body string) ([]string, error) {
	var (
		names  []string
		cur    strings.Builder
		quoted bool
		wasQ   bool
	)
	flush := func() {
		name := cur.String()
		if !wasQ {
			name = strings.TrimSpace(name)
		}
		names = append(names, name)
		cur.Reset()
		wasQ = false
	}

	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case quoted && c == '`':
			if i+1 < len(body) && body[i+1] == '`' {
				cur.WriteByte('`')
				i++
				continue
			}
			quoted = false
		case quoted:
			cur.WriteByte(c)
		case c == '`':
			if strings.TrimSpace(cur.String()) != "" {
				return nil, fmt.Errorf("unexpected backtick at offset %d", i)
			}
			cur.Reset()
			quoted, wasQ = true, true
		case c == ',':
			flush()
		case wasQ && c != ' ' && c != '\t':
			return nil, fmt.Errorf("unexpected %q after quoted name", c)
		case wasQ:
			// trailing space after a quoted name
		default:
			cur.WriteByte(c)
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated backtick")
	}
	flush()
	return names, nil
}
