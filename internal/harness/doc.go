// Package harness runs conformance scenarios against the normalization
// pipeline.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: flip_acted_in
//	description: "A reversed arrow is flipped to match the schema"
//	relationships:
//	  - "(Person, ACTED_IN, Movie)"
//	schema_files:
//	  - movies.txt
//	options:
//	  always_escape: false
//	  pretty_print: false
//	query: MATCH (n:Person)<-[:ACTED_IN]-(m:Movie) RETURN n
//	expect: MATCH (n:Person)-[:ACTED_IN]->(m:Movie) RETURN n
//	assertions:
//	  - type: change
//	    index: 0
//	    kind: flipped
//	    to: left_to_right
//
// Schema file paths are relative to the scenario file. A scenario names
// either expect (the exact output) or expect_empty: true (no fix), and
// may add assertions.
//
// # Assertion Types
//
//   - outcome: the outcome equals value (normalized | no_fix)
//   - output_contains: the output contains value
//   - reason_contains: the no-fix reason contains value
//   - changed: exactly count relationships changed direction
//   - change: relationship index was kept, assigned or flipped, ending in to
//   - recorded: the run log holds one run with outcome value
//
// # Deterministic Testing
//
// Each scenario runs against a fresh in-memory run log with sequential run
// ids and a logical clock starting at zero, and every normalized output is
// normalized a second time to check that it is a fixed point. Results are
// therefore identical across runs and suitable for golden comparison.
package harness
