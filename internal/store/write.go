package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored. A second run with an existing seq is an error.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	if run.Outcome != OutcomeNormalized && run.Outcome != OutcomeNoFix {
		return fmt.Errorf("write run: invalid outcome %q", run.Outcome)
	}

	optsJSON, err := marshalOptions(run.Options)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, schema_hash, query_hash, query, output, outcome, reason, options, tool_version, model_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Seq,
		run.SchemaHash,
		run.QueryHash,
		run.Query,
		run.Output,
		run.Outcome,
		run.Reason,
		optsJSON,
		run.ToolVersion,
		run.ModelVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}
