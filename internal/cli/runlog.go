package cli

import (
	"context"
	"os"

	"github.com/roach88/reldir/internal/pipeline"
	"github.com/roach88/reldir/internal/schemafile"
	"github.com/roach88/reldir/internal/store"
)

// openRunLog opens the SQLite run log. With mustExist set a missing file is
// reported as not found instead of being created.
func openRunLog(path string, mustExist bool) (*store.Store, error) {
	if mustExist {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, &schemafile.LoadError{
				Code:    ErrCodeNotFound,
				Path:    path,
				Message: "database not found",
			}
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, &storeError{op: "open run log", err: err}
	}
	return st, nil
}

// recordRun appends one normalization to the run log at path.
func recordRun(ctx context.Context, path, schemaHash, query string, opts pipeline.Options, res pipeline.Result) (store.Run, error) {
	st, err := openRunLog(path, false)
	if err != nil {
		return store.Run{}, err
	}
	defer st.Close()

	rec, err := store.NewRecorder(ctx, st, nil, nil)
	if err != nil {
		return store.Run{}, &storeError{op: "record run", err: err}
	}
	run, err := rec.Record(ctx, store.Run{
		SchemaHash: schemaHash,
		Query:      query,
		Output:     res.Output,
		Outcome:    string(res.Outcome),
		Reason:     res.Reason,
		Options: store.RunOptions{
			AlwaysEscape: opts.EscapeAlways,
			PrettyPrint:  opts.PrettyPrint,
		},
	})
	if err != nil {
		return store.Run{}, &storeError{op: "record run", err: err}
	}
	return run, nil
}

// closeRunLog closes st, logging rather than returning a failure.
func closeRunLog(f *OutputFormatter, st *store.Store) {
	if err := st.Close(); err != nil {
		f.VerboseLog("error closing database: %v", err)
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
