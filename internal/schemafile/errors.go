package schemafile

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// Error codes for schema loading failures.
const (
	ErrCodeNotFound          = "E005" // file missing or unreadable
	ErrCodeInvalidDefinition = "E011" // entry is not a (source, type, target) triple
	ErrCodeLoadFailed        = "E012" // file could not be decoded
)

// LoadError reports a schema source that could not be loaded.
type LoadError struct {
	Code    string
	Path    string
	Line    int       // 1-based line for text and YAML sources, 0 when unknown
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	switch {
	case e.Pos.IsValid():
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s: %s", e.Path, e.Line, e.Code, e.Message)
	case e.Path != "":
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsLoadError reports whether err is or wraps a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
