package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/reldir/internal/config"
	"github.com/roach88/reldir/internal/pipeline"
	"github.com/roach88/reldir/internal/schema"
	"github.com/roach88/reldir/internal/schemafile"
)

const stdinHint = "Reading from stdin, end with EOF (most likely CTRL+D)."

// SchemaOptions holds the flags that select schema sources and settings.
type SchemaOptions struct {
	Relationships []string
	SchemaFiles   []string
	ConfigFile    string
	EnvFile       string
}

func (o *SchemaOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&o.Relationships, "relationship", "r", nil,
		`relationship definitions, e.g. "(Person, ACTED_IN, Movie)" (repeatable)`)
	cmd.Flags().StringArrayVarP(&o.SchemaFiles, "schema", "s", nil,
		"schema file (.cue, .yaml, .yml or text) (repeatable)")
	cmd.Flags().StringVar(&o.ConfigFile, "config", "", "YAML config file")
	cmd.Flags().StringVar(&o.EnvFile, "env-file", "", "dotenv file with RELDIR_* settings")
}

// RenderOptions holds the flags that shape rendered output.
type RenderOptions struct {
	AlwaysEscape bool
	PrettyPrint  bool
}

func (o *RenderOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.AlwaysEscape, "always-escape", false, "quote every label and relationship type")
	cmd.Flags().BoolVar(&o.PrettyPrint, "pretty-print", false, "start each clause on its own line")
}

// loadSettings merges the config file, env file, environment and flags.
// Flags win; relationship and schema flags add to the configured sources.
func loadSettings(cmd *cobra.Command, so *SchemaOptions, ro *RenderOptions) (*config.Config, error) {
	cfg, err := config.Load(so.ConfigFile, so.EnvFile)
	if err != nil {
		return nil, err
	}
	cfg.Relationships = append(cfg.Relationships, so.Relationships...)
	cfg.SchemaFiles = append(cfg.SchemaFiles, so.SchemaFiles...)

	if ro != nil {
		if cmd.Flags().Changed("always-escape") {
			cfg.AlwaysEscape = ro.AlwaysEscape
		}
		if cmd.Flags().Changed("pretty-print") {
			cfg.PrettyPrint = ro.PrettyPrint
		}
	}
	if f := cmd.Flags().Lookup("db"); f != nil && f.Changed {
		cfg.DB = f.Value.String()
	}
	return cfg, nil
}

// loadRegistry builds the registry from every configured source.
func loadRegistry(cfg *config.Config) (*schema.Registry, error) {
	return schemafile.LoadRegistry(cfg.Relationships, cfg.SchemaFiles)
}

// pipelineOptions converts settings into pipeline options.
func pipelineOptions(cfg *config.Config, logger *slog.Logger) pipeline.Options {
	return pipeline.Options{
		EscapeAlways: cfg.AlwaysEscape,
		PrettyPrint:  cfg.PrettyPrint,
		Logger:       logger,
	}
}

// readQuery returns the positional query or reads stdin until EOF.
func readQuery(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), stdinHint)
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// newLogger returns a text logger on the command's stderr.
func newLogger(cmd *cobra.Command, opts *RootOptions) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
}

// newFormatter builds the formatter for a command.
func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
