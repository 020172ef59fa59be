package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/reldir/internal/pipeline"
	"github.com/roach88/reldir/internal/resolver"
)

// NormalizeOptions holds flags for the normalize command.
type NormalizeOptions struct {
	*RootOptions
	Schema   SchemaOptions
	Render   RenderOptions
	Database string
}

// NormalizeResult is the JSON payload of the normalize command.
type NormalizeResult struct {
	Output     string            `json:"output"`
	Outcome    pipeline.Outcome  `json:"outcome"`
	Reason     string            `json:"reason,omitempty"`
	Code       string            `json:"code,omitempty"`
	Changes    []resolver.Change `json:"changes,omitempty"`
	SchemaHash string            `json:"schema_hash"`
	RunID      string            `json:"run_id,omitempty"`
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NormalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalize [query]",
		Short: "Rewrite relationship directions to match the schema",
		Long: `Rewrite every relationship pattern of a Cypher query so its direction
agrees with the schema.

The query is taken from the argument, or read from stdin until EOF. The
rewritten query is printed on stdout. When no direction assignment can satisfy
the schema, or the query cannot be parsed, an empty line is printed and the
reason is logged on stderr.

Exit codes:
  0 - Query normalized, or no fix exists
  2 - Configuration error (blank query, bad schema, missing file, etc.)
  3 - Internal fault

Examples:
  reldir normalize -r "(Person, ACTED_IN, Movie)" "MATCH (m:Movie)-[:ACTED_IN]->(p:Person) RETURN p"
  reldir normalize --schema schema.cue --pretty-print < query.cypher
  reldir normalize --config reldir.yaml --db runs.db "MATCH (a)-[:KNOWS]-(b) RETURN a"`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, opts, args)
		},
	}

	opts.Schema.addFlags(cmd)
	opts.Render.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")

	return cmd
}

func runNormalize(cmd *cobra.Command, opts *NormalizeOptions, args []string) error {
	f := newFormatter(cmd, opts.RootOptions)
	logger := newLogger(cmd, opts.RootOptions)
	ctx := cmd.Context()

	cfg, err := loadSettings(cmd, &opts.Schema, &opts.Render)
	if err != nil {
		return fail(f, "invalid configuration", err)
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return fail(f, "failed to load schema", err)
	}
	logger.Debug("schema loaded", "definitions", reg.Len(), "schema_hash", shortHash(reg.Hash()))

	query, err := readQuery(cmd, args)
	if err != nil {
		return fail(f, "failed to read query", err)
	}

	popts := pipelineOptions(cfg, logger)
	n, err := pipeline.NewNormalizer(reg, popts, cfg.CacheSize)
	if err != nil {
		return fail(f, "invalid configuration", err)
	}
	res, err := n.Normalize(ctx, query)
	if err != nil {
		return fail(f, "normalization failed", err)
	}

	out := NormalizeResult{
		Output:     res.Output,
		Outcome:    res.Outcome,
		Reason:     res.Reason,
		SchemaHash: n.SchemaHash(),
	}
	if res.Cause != nil {
		out.Code, _ = classifyError(res.Cause)
	}
	if res.Report != nil {
		out.Changes = res.Report.Changes
	}

	if cfg.DB != "" {
		run, err := recordRun(ctx, cfg.DB, n.SchemaHash(), query, popts, res)
		if err != nil {
			return fail(f, "failed to record run", err)
		}
		out.RunID = run.ID
		logger.Debug("run recorded", "id", run.ID, "seq", run.Seq)
	}

	if f.IsJSON() {
		return f.Success(out)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.Output)
	return nil
}
