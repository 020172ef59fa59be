// Package resolver rewrites relationship directions so that every pattern
// in a statement agrees with a schema.Registry.
//
// Resolution is all-or-nothing. The first relationship with no
// direction-consistent schema entry aborts the pass with *Unsatisfiable and
// the statement must not be rendered. A structurally broken statement is an
// *InternalFault; it indicates a bug in the parser, never bad input.
//
// Node labels are unified across the statement before any relationship is
// looked at: (n:Person) in one clause constrains (n) in every other clause.
package resolver
