// Package parser builds an ir.Statement from Cypher query text.
//
// The parser understands the clause structure of a statement and the full
// node and relationship pattern grammar. Everything else (expressions,
// literals, function calls, projections) is kept as opaque tokens in the
// position it appeared, so rendering the statement reproduces it.
//
// Inside MATCH, OPTIONAL MATCH, CREATE and MERGE every parenthesis that does
// not group or call starts a node pattern and must parse as one. In other
// clauses a parenthesis starts a pattern only when it reads as a node
// pattern followed by a relationship, as in WHERE (a)-[:KNOWS]->(b);
// anything else is opaque.
package parser
