// Package ir provides the structural model of a parsed Cypher statement.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the model the
// foundational layer with no circular dependencies.
//
// STRUCTURE:
//
//	Statement
//	  └─ Clause (MATCH, WHERE, RETURN, ...)
//	       └─ Fragment
//	            ├─ *Opaque    verbatim tokens the rewrite never touches
//	            ├─ *Chain     node, rel, node, rel, node ...
//	            │    └─ PathElement
//	            │         ├─ *NodePattern
//	            │         └─ *RelationshipPattern
//	            └─ *Subquery  { clause ... }
//
// SEALED INTERFACES:
//
// Fragment and PathElement are sealed interfaces using the marker method
// pattern. Only types in this package implement them, so a type switch in
// the resolver or renderer covers every case and adding a new kind breaks
// every consumer that does not handle it:
//
//	switch f := frag.(type) {
//	case *ir.Opaque:
//	case *ir.Chain:
//	case *ir.Subquery:
//	}
//
// Key design constraints:
//   - Names (labels, types, variables) are stored unescaped
//   - A RelationshipPattern always points at the node patterns written on
//     either side of it (Left, Right); direction is relative to that text order
//   - Opaque tokens keep their source text byte-for-byte
package ir
