package schemafile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/reldir/internal/ir"
	"github.com/roach88/reldir/internal/schema"
)

// Load reads the definitions in one schema file, in file order.
// Duplicates are kept; the registry collapses them.
func Load(path string) ([]ir.RelationshipDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "schema file not found"}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("reading schema file: %v", err)}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return decodeCUE(path, data)
	case ".yaml", ".yml":
		return decodeYAML(path, data)
	default:
		return decodeText(path, data)
	}
}

// LoadAll loads every file in order and concatenates the definitions.
// It stops at the first file that fails.
func LoadAll(paths []string) ([]ir.RelationshipDefinition, error) {
	var defs []ir.RelationshipDefinition
	for _, p := range paths {
		d, err := Load(p)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d...)
	}
	return defs, nil
}

// LoadRegistry builds a registry from inline definition lists (the
// --relationship form) followed by schema files.
func LoadRegistry(inline []string, paths []string) (*schema.Registry, error) {
	reg := schema.NewRegistry()
	for _, s := range inline {
		defs, err := schema.ParseDefinitionList(s)
		if err != nil {
			return nil, err
		}
		for _, d := range defs {
			reg.Add(d)
		}
	}

	defs, err := LoadAll(paths)
	if err != nil {
		return nil, err
	}
	for _, d := range defs {
		reg.Add(d)
	}
	return reg, nil
}

// invalid wraps a definition parse failure with its location.
func invalid(path string, line int, err error) *LoadError {
	return &LoadError{Code: ErrCodeInvalidDefinition, Path: path, Line: line, Message: err.Error()}
}
