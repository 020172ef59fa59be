package parser

import (
	"strings"

	"github.com/roach88/reldir/internal/lexer"
)

// clauseKeywords lists the words that start a clause. Longer sequences are
// listed before their prefixes so the longest match wins.
var clauseKeywords = [][]string{
	{"OPTIONAL", "MATCH"},
	{"MATCH"},
	{"CREATE"},
	{"MERGE"},
	{"ON", "CREATE", "SET"},
	{"ON", "MATCH", "SET"},
	{"DETACH", "DELETE"},
	{"NODETACH", "DELETE"},
	{"DELETE"},
	{"SET"},
	{"REMOVE"},
	{"WHERE"},
	{"WITH"},
	{"RETURN"},
	{"UNWIND"},
	{"CALL"},
	{"YIELD"},
	{"ORDER", "BY"},
	{"SKIP"},
	{"LIMIT"},
	{"FOREACH"},
	{"UNION", "ALL"},
	{"UNION"},
	{"LOAD", "CSV", "WITH", "HEADERS"},
	{"LOAD", "CSV"},
	{"USE"},
	{"EXPLAIN"},
	{"PROFILE"},
	{"FINISH"},
}

// keywordAt reports the clause keyword starting at token index i and the
// number of tokens it spans, or 0 if no clause starts there.
//
// A keyword word used as a property name (n.limit), a map key ({set: 1})
// or the second half of STARTS WITH / ENDS WITH does not start a clause.
func (p *parser) keywordAt(i int) (string, int) {
	if i > 0 {
		prev := p.toks[i-1]
		if prev.Kind == lexer.TokenTypeDot {
			return "", 0
		}
		if isWord(prev, "STARTS") || isWord(prev, "ENDS") {
			if isWord(p.toks[i], "WITH") {
				return "", 0
			}
		}
	}

	for _, seq := range clauseKeywords {
		if !p.wordsAt(i, seq) {
			continue
		}
		if p.tok(i+len(seq)).Kind == lexer.TokenTypeColon {
			return "", 0
		}
		return strings.Join(seq, " "), len(seq)
	}
	return "", 0
}

func (p *parser) wordsAt(i int, words []string) bool {
	for j, w := range words {
		if !isWord(p.tok(i+j), w) {
			return false
		}
	}
	return true
}

// isWord reports whether t is the bare identifier word, ignoring case.
func isWord(t token, word string) bool {
	return t.Kind == lexer.TokenTypeIdentifier && strings.EqualFold(t.Value, word)
}
