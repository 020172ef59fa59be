// Package pipeline runs the parse, resolve and render passes in sequence
// and owns the external contract for a statement that cannot be fixed.
//
// A syntax error or an unsatisfiable pattern is an expected outcome, not a
// failure: Normalize returns a Result with empty Output and OutcomeNoFix
// and a nil error. Only configuration problems (*ConfigError) and bugs
// (*resolver.InternalFault) are returned as errors.
package pipeline
