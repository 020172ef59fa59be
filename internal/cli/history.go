package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/reldir/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database   string
	SchemaHash string
	Outcome    string
	Limit      int
}

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Runs  []store.Run `json:"runs"`
	Total int         `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded normalization runs",
		Long: `List the runs recorded by normalize --db, oldest first.

Examples:
  reldir history --db ./runs.db
  reldir history --db ./runs.db --outcome no_fix --limit 20
  reldir history --db ./runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.SchemaHash, "schema-hash", "", "only runs made against this schema hash")
	cmd.Flags().StringVar(&opts.Outcome, "outcome", "", "only runs with this outcome (normalized|no_fix)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of runs (0 = all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	f := newFormatter(cmd, opts.RootOptions)

	switch opts.Outcome {
	case "", store.OutcomeNormalized, store.OutcomeNoFix:
	default:
		msg := fmt.Sprintf("invalid outcome %q: must be %s or %s", opts.Outcome, store.OutcomeNormalized, store.OutcomeNoFix)
		_ = f.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	st, err := openRunLog(opts.Database, true)
	if err != nil {
		return fail(f, "failed to open database", err)
	}
	defer closeRunLog(f, st)

	runs, err := st.ReadRuns(cmd.Context(), store.RunFilter{
		SchemaHash: opts.SchemaHash,
		Outcome:    opts.Outcome,
		Limit:      opts.Limit,
	})
	if err != nil {
		return fail(f, "failed to read runs", &storeError{op: "read runs", err: err})
	}

	if f.IsJSON() {
		return f.Success(HistoryResult{Runs: runs, Total: len(runs)})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.Seq, r.ID, shortHash(r.SchemaHash), r.Outcome, oneLine(r.Query))
	}
	return nil
}

// oneLine collapses whitespace so a query fits on one line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
