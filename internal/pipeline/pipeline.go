package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/reldir/internal/ir"
	"github.com/roach88/reldir/internal/parser"
	"github.com/roach88/reldir/internal/render"
	"github.com/roach88/reldir/internal/resolver"
	"github.com/roach88/reldir/internal/schema"
)

// Outcome classifies a completed normalization.
type Outcome string

const (
	// OutcomeNormalized means Output holds the rewritten statement.
	OutcomeNormalized Outcome = "normalized"

	// OutcomeNoFix means the statement could not be parsed or reconciled
	// with the schema. Output is empty.
	OutcomeNoFix Outcome = "no_fix"
)

// Options configures a normalization.
type Options struct {
	EscapeAlways bool
	PrettyPrint  bool

	// Logger receives debug and warning records. Nil discards them.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

func (o Options) renderer() *render.Renderer {
	return render.New(render.Config{EscapeAlways: o.EscapeAlways, PrettyPrint: o.PrettyPrint})
}

// Result is the outcome of normalizing one statement.
type Result struct {
	Output  string           `json:"output"`
	Outcome Outcome          `json:"outcome"`
	Reason  string           `json:"reason,omitempty"`
	Report  *resolver.Report `json:"report,omitempty"`

	// Cause is the *parser.SyntaxError or *resolver.Unsatisfiable behind
	// an OutcomeNoFix result.
	Cause error `json:"-"`
}

// ConfigError reports invalid input detected before parsing.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// Normalize parses query, resolves every relationship direction against
// reg and renders the result.
func Normalize(ctx context.Context, query string, reg *schema.Registry, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(query) == "" {
		return Result{}, &ConfigError{Message: "query is blank"}
	}
	if reg == nil {
		return Result{}, &ConfigError{Message: "no schema registry"}
	}
	log := opts.logger()

	stmt, err := parser.Parse(query)
	if err != nil {
		return noFix(log, err)
	}

	report, err := resolver.Resolve(stmt, reg)
	if err != nil {
		if resolver.IsUnsatisfiable(err) {
			return noFix(log, err)
		}
		return Result{}, err
	}

	out, err := opts.renderer().Render(stmt)
	if err != nil {
		return Result{}, &resolver.InternalFault{Message: "render: " + err.Error()}
	}

	for _, c := range report.Changes {
		if c.Kind != resolver.Kept {
			log.Debug("direction changed",
				"index", c.Index,
				"kind", c.Kind,
				"from", c.From,
				"to", c.To,
				"pattern", c.Pattern)
		}
	}
	log.Debug("statement normalized",
		"relationships", report.Relationships,
		"modified", report.Modified(),
		"query_hash", ir.QueryHash(query))

	return Result{Output: out, Outcome: OutcomeNormalized, Report: report}, nil
}

// noFix converts an expected failure into an empty result.
func noFix(log *slog.Logger, err error) (Result, error) {
	var syntaxErr *parser.SyntaxError
	var unsat *resolver.Unsatisfiable
	switch {
	case errors.As(err, &syntaxErr):
		log.Warn("statement has no fix", "reason", "syntax", "error", err)
	case errors.As(err, &unsat):
		log.Warn("statement has no fix", "reason", "unsatisfiable", "error", err)
	default:
		return Result{}, err
	}
	return Result{Outcome: OutcomeNoFix, Reason: err.Error(), Cause: err}, nil
}

// Format parses and renders query without consulting a schema. Directions
// are reproduced as written. A syntax error is returned as *parser.SyntaxError.
func Format(query string, opts Options) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", &ConfigError{Message: "query is blank"}
	}
	stmt, err := parser.Parse(query)
	if err != nil {
		return "", err
	}
	out, err := opts.renderer().Render(stmt)
	if err != nil {
		return "", &resolver.InternalFault{Message: "render: " + err.Error()}
	}
	return out, nil
}
