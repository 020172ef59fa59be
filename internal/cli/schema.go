package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/reldir/internal/ir"
)

// SchemaCommandOptions holds flags for the schema command.
type SchemaCommandOptions struct {
	*RootOptions
	Schema SchemaOptions
}

// SchemaResult is the JSON payload of the schema command.
type SchemaResult struct {
	Definitions []ir.RelationshipDefinition `json:"definitions"`
	Types       []string                    `json:"types"`
	Count       int                         `json:"count"`
	Hash        string                      `json:"hash"`
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemaCommandOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Load schema sources and print the merged definitions",
		Long: `Load every relationship definition from flags, schema files and the
config file, and print the deduplicated definitions with the schema hash.

The hash identifies the schema in the run log; replay uses it to tell
whether a recorded run was made against a different schema.

Examples:
  reldir schema -r "(Person, ACTED_IN, Movie)" --schema extra.yaml
  reldir schema --config reldir.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, opts)
		},
	}

	opts.Schema.addFlags(cmd)

	return cmd
}

func runSchema(cmd *cobra.Command, opts *SchemaCommandOptions) error {
	f := newFormatter(cmd, opts.RootOptions)

	cfg, err := loadSettings(cmd, &opts.Schema, nil)
	if err != nil {
		return fail(f, "invalid configuration", err)
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return fail(f, "failed to load schema", err)
	}

	result := SchemaResult{
		Definitions: reg.Definitions(),
		Types:       reg.Types(),
		Count:       reg.Len(),
		Hash:        reg.Hash(),
	}
	if result.Definitions == nil {
		result.Definitions = []ir.RelationshipDefinition{}
	}
	if result.Types == nil {
		result.Types = []string{}
	}

	if f.IsJSON() {
		return f.Success(result)
	}

	w := cmd.OutOrStdout()
	for _, d := range result.Definitions {
		fmt.Fprintln(w, d)
	}
	fmt.Fprintf(w, "%d definitions, hash %s\n", result.Count, result.Hash)
	return nil
}
