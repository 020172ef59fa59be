package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainSchema = "reldir/schema/v1"
	DomainQuery  = "reldir/query/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SchemaHash computes a content-addressed identity for a set of
// relationship definitions. Order and duplicates do not affect the result.
func SchemaHash(defs []RelationshipDefinition) string {
	lines := make([]string, 0, len(defs))
	seen := make(map[RelationshipDefinition]bool, len(defs))
	for _, d := range defs {
		if seen[d] {
			continue
		}
		seen[d] = true
		// 0x1f (unit separator) cannot appear in a sensible label or type
		lines = append(lines, d.Source+"\x1f"+d.Type+"\x1f"+d.Target)
	}
	sort.Strings(lines)
	return hashWithDomain(DomainSchema, []byte(strings.Join(lines, "\n")))
}

// QueryHash computes a content-addressed identity for query text.
func QueryHash(query string) string {
	return hashWithDomain(DomainQuery, []byte(query))
}
