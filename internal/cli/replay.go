package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/reldir/internal/pipeline"
	"github.com/roach88/reldir/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Schema      SchemaOptions
	Database    string
	Concurrency int
}

// ReplayRunResult holds the replay result for a single recorded run.
type ReplayRunResult struct {
	ID              string           `json:"id"`
	Seq             int64            `json:"seq"`
	Query           string           `json:"query"`
	RecordedOutcome string           `json:"recorded_outcome"`
	RecordedOutput  string           `json:"recorded_output"`
	Outcome         pipeline.Outcome `json:"outcome"`
	Output          string           `json:"output"`
	SchemaChanged   bool             `json:"schema_changed"`
	Drift           bool             `json:"drift"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs       []ReplayRunResult `json:"runs"`
	Total      int               `json:"total"`
	Drifted    int               `json:"drifted"`
	SchemaHash string            `json:"schema_hash"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-normalize recorded runs against the current schema",
		Long: `Re-normalize every query in the run log against the current schema,
using the rendering options each run was recorded with, and report the runs
whose outcome or output changed.

Exit codes:
  0 - No run drifted
  1 - At least one run produced a different result
  2 - Command error (database not found, bad schema, etc.)
  3 - Internal fault

Examples:
  reldir replay --db ./runs.db --schema schema.cue
  reldir replay --db ./runs.db --config reldir.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, opts)
		},
	}

	opts.Schema.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 4, "queries normalized in parallel")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(cmd *cobra.Command, opts *ReplayOptions) error {
	f := newFormatter(cmd, opts.RootOptions)
	logger := newLogger(cmd, opts.RootOptions)
	ctx := cmd.Context()

	cfg, err := loadSettings(cmd, &opts.Schema, nil)
	if err != nil {
		return fail(f, "invalid configuration", err)
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return fail(f, "failed to load schema", err)
	}

	st, err := openRunLog(opts.Database, true)
	if err != nil {
		return fail(f, "failed to open database", err)
	}
	defer closeRunLog(f, st)

	runs, err := st.ReadRuns(ctx, store.RunFilter{})
	if err != nil {
		return fail(f, "failed to read runs", &storeError{op: "read runs", err: err})
	}

	// One normalizer per distinct option set, each fanning out over its runs.
	groups := make(map[store.RunOptions][]int)
	var order []store.RunOptions
	for i, r := range runs {
		if _, ok := groups[r.Options]; !ok {
			order = append(order, r.Options)
		}
		groups[r.Options] = append(groups[r.Options], i)
	}

	results := make([]ReplayRunResult, len(runs))
	for _, ro := range order {
		idx := groups[ro]
		n, err := pipeline.NewNormalizer(reg, pipeline.Options{
			EscapeAlways: ro.AlwaysEscape,
			PrettyPrint:  ro.PrettyPrint,
			Logger:       logger,
		}, cfg.CacheSize)
		if err != nil {
			return fail(f, "invalid configuration", err)
		}

		queries := make([]string, len(idx))
		for j, i := range idx {
			queries[j] = runs[i].Query
		}
		replayed, err := n.NormalizeAll(ctx, queries, opts.Concurrency)
		if err != nil {
			return fail(f, "replay failed", err)
		}
		for j, i := range idx {
			results[i] = compareRun(runs[i], replayed[j], reg.Hash())
		}
	}

	result := ReplayResult{
		Runs:       results,
		Total:      len(results),
		SchemaHash: reg.Hash(),
	}
	for _, r := range results {
		if r.Drift {
			result.Drifted++
			logger.Debug("run drifted", "id", r.ID, "seq", r.Seq, "schema_changed", r.SchemaChanged)
		}
	}

	if f.IsJSON() {
		return outputReplayJSON(f, result)
	}
	return outputReplayText(cmd, result)
}

// compareRun checks a replayed result against the recorded run.
func compareRun(run store.Run, res pipeline.Result, schemaHash string) ReplayRunResult {
	return ReplayRunResult{
		ID:              run.ID,
		Seq:             run.Seq,
		Query:           run.Query,
		RecordedOutcome: run.Outcome,
		RecordedOutput:  run.Output,
		Outcome:         res.Outcome,
		Output:          res.Output,
		SchemaChanged:   run.SchemaHash != schemaHash,
		Drift:           run.Outcome != string(res.Outcome) || run.Output != res.Output,
	}
}

func outputReplayJSON(f *OutputFormatter, result ReplayResult) error {
	if result.Runs == nil {
		result.Runs = []ReplayRunResult{}
	}
	if result.Drifted > 0 {
		if err := f.encode(CLIResponse{Status: "error", Data: result}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d run(s) drifted", result.Drifted))
	}
	return f.Success(result)
}

func outputReplayText(cmd *cobra.Command, result ReplayResult) error {
	w := cmd.OutOrStdout()
	if result.Total == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	for _, r := range result.Runs {
		if !r.Drift {
			continue
		}
		fmt.Fprintf(w, "✗ run %d (%s)\n", r.Seq, r.ID)
		fmt.Fprintf(w, "  query:    %s\n", oneLine(r.Query))
		fmt.Fprintf(w, "  recorded: %s %q\n", r.RecordedOutcome, r.RecordedOutput)
		fmt.Fprintf(w, "  replayed: %s %q\n", r.Outcome, r.Output)
		if r.SchemaChanged {
			fmt.Fprintln(w, "  schema changed since the run was recorded")
		}
	}
	fmt.Fprintf(w, "%d runs replayed, %d drifted\n", result.Total, result.Drifted)

	if result.Drifted > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d run(s) drifted", result.Drifted))
	}
	return nil
}
