package schemafile

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/reldir/internal/ir"
	"github.com/roach88/reldir/internal/schema"
)

// group matches one parenthesised definition. Backtick-quoted names may
// contain parentheses.
var group = regexp.MustCompile("\\((?:[^()`]|`[^`]*`)*\\)")

// decodeText reads the line-oriented form: every (...) group on every line
// is one definition. Text outside the groups is ignored, and lines whose
// first non-blank character is # are comments.
func decodeText(path string, data []byte) ([]ir.RelationshipDefinition, error) {
	var defs []ir.RelationshipDefinition
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(text), "#") {
			continue
		}
		for _, m := range group.FindAllString(text, -1) {
			d, err := schema.ParseDefinition(m)
			if err != nil {
				return nil, invalid(path, line, err)
			}
			defs = append(defs, d)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Path: path, Message: fmt.Sprintf("scanning schema file: %v", err)}
	}
	return defs, nil
}
