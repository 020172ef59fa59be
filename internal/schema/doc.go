// Package schema holds the set of accepted relationship definitions and
// answers direction queries against it.
//
// A Registry is built once per run from every schema source (flags, files,
// config) and is read-only afterwards. All query methods are safe for
// concurrent use; Add is not and must complete before the registry is
// shared.
//
// Names are compared after Unicode NFC normalisation so that canonically
// equivalent spellings of a label or type refer to the same entry.
package schema
