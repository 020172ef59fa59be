// Package schemafile reads relationship definitions from schema source files.
//
// The format is chosen by extension:
//
//	.cue          relationships: [...] as {source, type, target} structs or "(S, T, T)" strings
//	.yaml, .yml   the same shape, as a top-level list or under a relationships key
//	anything else text, where every (...) group on every line is one definition
//
// All failures are *LoadError values carrying a code and, where one is
// known, the position of the offending entry.
package schemafile
