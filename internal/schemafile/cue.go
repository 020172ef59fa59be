package schemafile

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/reldir/internal/ir"
	"github.com/roach88/reldir/internal/schema"
)

// decodeCUE evaluates a CUE file and reads its relationships list.
func decodeCUE(path string, data []byte) ([]ir.RelationshipDefinition, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(path, err)
	}

	list := v.LookupPath(cue.ParsePath("relationships"))
	if !list.Exists() {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Path: path, Message: "relationships field is required"}
	}
	if err := list.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(path, err)
	}
	if list.Kind() != cue.ListKind {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Path: path, Message: "relationships must be a list", Pos: list.Pos()}
	}

	iter, err := list.List()
	if err != nil {
		return nil, formatCUEError(path, err)
	}

	var defs []ir.RelationshipDefinition
	for iter.Next() {
		d, err := cueDefinition(path, iter.Value())
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// cueDefinition accepts either the textual triple or a struct with
// source, type and target fields.
func cueDefinition(path string, v cue.Value) (ir.RelationshipDefinition, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, _ := v.String()
		d, err := schema.ParseDefinition(s)
		if err != nil {
			return ir.RelationshipDefinition{}, &LoadError{Code: ErrCodeInvalidDefinition, Path: path, Message: err.Error(), Pos: v.Pos()}
		}
		return d, nil

	case cue.StructKind:
		var names [3]string
		for i, field := range [...]string{"source", "type", "target"} {
			f := v.LookupPath(cue.ParsePath(field))
			if !f.Exists() {
				return ir.RelationshipDefinition{}, &LoadError{
					Code:    ErrCodeInvalidDefinition,
					Path:    path,
					Message: fmt.Sprintf("%s is required", field),
					Pos:     v.Pos(),
				}
			}
			s, err := f.String()
			if err != nil || s == "" {
				return ir.RelationshipDefinition{}, &LoadError{
					Code:    ErrCodeInvalidDefinition,
					Path:    path,
					Message: fmt.Sprintf("%s must be a non-empty string", field),
					Pos:     f.Pos(),
				}
			}
			names[i] = s
		}
		return ir.RelationshipDefinition{Source: names[0], Type: names[1], Target: names[2]}, nil

	default:
		return ir.RelationshipDefinition{}, &LoadError{
			Code:    ErrCodeInvalidDefinition,
			Path:    path,
			Message: fmt.Sprintf("unsupported entry kind: %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(path string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: ErrCodeLoadFailed, Path: path, Message: err.Error()}
	}

	first := errs[0]
	le := &LoadError{Code: ErrCodeLoadFailed, Path: path, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
