package cli

import (
	"errors"

	"github.com/roach88/reldir/internal/config"
	"github.com/roach88/reldir/internal/parser"
	"github.com/roach88/reldir/internal/pipeline"
	"github.com/roach88/reldir/internal/resolver"
	"github.com/roach88/reldir/internal/schema"
	"github.com/roach88/reldir/internal/schemafile"
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric           = "E001"
	ErrCodeNotFound          = "E005"
	ErrCodeBlankQuery        = "E010"
	ErrCodeInvalidDefinition = "E011"
	ErrCodeSchemaLoad        = "E012"
	ErrCodeConfig            = "E013"
	ErrCodeSyntax            = "E020"
	ErrCodeUnsatisfiable     = "E021"
	ErrCodeInternal          = "E030"
	ErrCodeStore             = "E040"
)

// storeError marks a run log failure.
type storeError struct {
	op  string
	err error
}

func (e *storeError) Error() string { return e.op + ": " + e.err.Error() }

func (e *storeError) Unwrap() error { return e.err }

// classifyError maps an error to its CLI code and exit status.
func classifyError(err error) (string, int) {
	var (
		loadErr   *schemafile.LoadError
		defErr    *schema.DefinitionError
		cfgErr    *config.Error
		blankErr  *pipeline.ConfigError
		syntaxErr *parser.SyntaxError
		unsat     *resolver.Unsatisfiable
		fault     *resolver.InternalFault
		stErr     *storeError
	)
	switch {
	case errors.As(err, &loadErr):
		return loadErr.Code, ExitCommandError
	case errors.As(err, &defErr):
		return ErrCodeInvalidDefinition, ExitCommandError
	case errors.As(err, &cfgErr):
		return ErrCodeConfig, ExitCommandError
	case errors.As(err, &blankErr):
		return ErrCodeBlankQuery, ExitCommandError
	case errors.As(err, &syntaxErr):
		return ErrCodeSyntax, ExitSuccess
	case errors.As(err, &unsat):
		return ErrCodeUnsatisfiable, ExitSuccess
	case errors.As(err, &fault):
		return ErrCodeInternal, ExitInternalFault
	case errors.As(err, &stErr):
		return ErrCodeStore, ExitCommandError
	default:
		return ErrCodeGeneric, ExitFailure
	}
}

// errorDetails returns position details for errors that carry them.
func errorDetails(err error) any {
	var loadErr *schemafile.LoadError
	if errors.As(err, &loadErr) {
		d := map[string]any{"path": loadErr.Path}
		switch {
		case loadErr.Pos.IsValid():
			d["line"] = loadErr.Pos.Line()
			d["column"] = loadErr.Pos.Column()
		case loadErr.Line > 0:
			d["line"] = loadErr.Line
		}
		return d
	}
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return map[string]any{"line": syntaxErr.Line, "column": syntaxErr.Column}
	}
	var fault *resolver.InternalFault
	if errors.As(err, &fault) && len(fault.Problems) > 0 {
		return map[string]any{"problems": fault.Problems}
	}
	return nil
}

// fail reports err through the formatter and returns the ExitError the
// command should return.
func fail(f *OutputFormatter, message string, err error) error {
	code, exit := classifyError(err)
	_ = f.Error(code, err.Error(), errorDetails(err))
	return WrapExitError(exit, message, err)
}
