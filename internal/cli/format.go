package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/reldir/internal/parser"
	"github.com/roach88/reldir/internal/pipeline"
)

// FormatOptions holds flags for the format command.
type FormatOptions struct {
	*RootOptions
	Render RenderOptions
}

// FormatResult is the JSON payload of the format command.
type FormatResult struct {
	Output string `json:"output"`
	Reason string `json:"reason,omitempty"`
	Code   string `json:"code,omitempty"`
}

// NewFormatCommand creates the format command.
func NewFormatCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FormatOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "format [query]",
		Short: "Print a query in canonical form without a schema",
		Long: `Parse a Cypher query and print it in canonical form. No schema is
consulted: every relationship keeps the direction it was written with.

A query that cannot be parsed prints an empty line and logs the syntax error.

Examples:
  reldir format "match (a)<-[:KNOWS]-(b) return a"
  reldir format --pretty-print < query.cypher`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, opts, args)
		},
	}

	opts.Render.addFlags(cmd)

	return cmd
}

func runFormat(cmd *cobra.Command, opts *FormatOptions, args []string) error {
	f := newFormatter(cmd, opts.RootOptions)
	logger := newLogger(cmd, opts.RootOptions)

	query, err := readQuery(cmd, args)
	if err != nil {
		return fail(f, "failed to read query", err)
	}

	out, err := pipeline.Format(query, pipeline.Options{
		EscapeAlways: opts.Render.AlwaysEscape,
		PrettyPrint:  opts.Render.PrettyPrint,
	})
	result := FormatResult{Output: out}

	var syntaxErr *parser.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		logger.Warn("query cannot be formatted", "error", err)
		result.Reason = err.Error()
		result.Code = ErrCodeSyntax
	case err != nil:
		return fail(f, "format failed", err)
	}

	if f.IsJSON() {
		return f.Success(result)
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Output)
	return nil
}
