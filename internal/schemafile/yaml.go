package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/reldir/internal/ir"
	"github.com/roach88/reldir/internal/schema"
)

// entry is one list item: a "(S, T, T)" scalar or a source/type/target mapping.
type entry struct {
	def  ir.RelationshipDefinition
	line int
}

func (e *entry) UnmarshalYAML(node *yaml.Node) error {
	e.line = node.Line
	switch node.Kind {
	case yaml.ScalarNode:
		d, err := schema.ParseDefinition(node.Value)
		if err != nil {
			return &entryError{line: node.Line, err: err}
		}
		e.def = d
		return nil

	case yaml.MappingNode:
		var raw struct {
			Source string `yaml:"source"`
			Type   string `yaml:"type"`
			Target string `yaml:"target"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		d := ir.RelationshipDefinition{Source: raw.Source, Type: raw.Type, Target: raw.Target}
		if d.Source == "" || d.Type == "" || d.Target == "" {
			return &entryError{line: node.Line, err: fmt.Errorf("source, type and target are required, got %s", d)}
		}
		e.def = d
		return nil

	default:
		return &entryError{line: node.Line, err: errors.New("entry must be a string or a mapping")}
	}
}

type entryError struct {
	line int
	err  error
}

func (e *entryError) Error() string { return e.err.Error() }

// document accepts the relationships list either bare or under a key.
type document struct {
	entries []entry
}

func (d *document) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		return node.Decode(&d.entries)
	case yaml.MappingNode:
		var wrapped struct {
			Relationships []entry `yaml:"relationships"`
		}
		if err := node.Decode(&wrapped); err != nil {
			return err
		}
		d.entries = wrapped.Relationships
		return nil
	default:
		return &entryError{line: node.Line, err: errors.New("expected a list of relationships")}
	}
}

func decodeYAML(path string, data []byte) ([]ir.RelationshipDefinition, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		var ee *entryError
		if errors.As(err, &ee) {
			return nil, invalid(path, ee.line, ee.err)
		}
		return nil, &LoadError{Code: ErrCodeLoadFailed, Path: path, Message: fmt.Sprintf("parsing YAML: %v", err)}
	}

	defs := make([]ir.RelationshipDefinition, 0, len(doc.entries))
	for _, e := range doc.entries {
		defs = append(defs, e.def)
	}
	return defs, nil
}
