package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Relationships are inline definition lists, as given to --relationship.
	Relationships []string `yaml:"relationships,omitempty"`

	// SchemaFiles lists schema sources, relative to the scenario file.
	SchemaFiles []string `yaml:"schema_files,omitempty"`

	Options Options `yaml:"options,omitempty"`

	// Query is the statement to normalize.
	Query string `yaml:"query"`

	// Expect is the exact expected output. A single trailing newline left
	// by a YAML block scalar is ignored.
	Expect *string `yaml:"expect,omitempty"`

	// ExpectEmpty asserts that the statement has no fix.
	ExpectEmpty bool `yaml:"expect_empty,omitempty"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Options mirrors the normalize command's rendering flags.
type Options struct {
	AlwaysEscape bool `yaml:"always_escape"`
	PrettyPrint  bool `yaml:"pretty_print"`
}

// Assertion checks one property of the result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Value is the expected outcome or substring.
	Value string `yaml:"value,omitempty"`

	// Count is the expected number of changed relationships (changed).
	Count int `yaml:"count,omitempty"`

	// Index, Kind and To describe one relationship (change).
	Index int    `yaml:"index,omitempty"`
	Kind  string `yaml:"kind,omitempty"`
	To    string `yaml:"to,omitempty"`
}

// Assertion type constants.
const (
	AssertOutcome        = "outcome"
	AssertOutputContains = "output_contains"
	AssertReasonContains = "reason_contains"
	AssertChanged        = "changed"
	AssertChange         = "change"
	AssertRecorded       = "recorded"
)

// LoadScenario reads and parses a scenario YAML file, resolving schema
// file paths against the scenario's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	for i, p := range scenario.SchemaFiles {
		if !filepath.IsAbs(p) {
			scenario.SchemaFiles[i] = filepath.Join(base, p)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if strings.TrimSpace(s.Query) == "" {
		return fmt.Errorf("query is required")
	}

	if s.Expect != nil && s.ExpectEmpty {
		return fmt.Errorf("expect and expect_empty are mutually exclusive")
	}

	if s.Expect == nil && !s.ExpectEmpty && len(s.Assertions) == 0 {
		return fmt.Errorf("one of expect, expect_empty or assertions is required")
	}

	for _, p := range s.SchemaFiles {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("schema file not found: %s", p)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOutcome, AssertRecorded:
		if a.Value != "normalized" && a.Value != "no_fix" {
			return fmt.Errorf("assertions[%d]: value must be normalized or no_fix for %s", index, a.Type)
		}
	case AssertOutputContains, AssertReasonContains:
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertChanged:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for changed", index)
		}
	case AssertChange:
		if a.Index < 0 {
			return fmt.Errorf("assertions[%d]: index must be non-negative for change", index)
		}
		switch a.Kind {
		case "kept", "assigned", "flipped":
		default:
			return fmt.Errorf("assertions[%d]: kind must be kept, assigned or flipped", index)
		}
		switch a.To {
		case "", "left_to_right", "right_to_left":
		default:
			return fmt.Errorf("assertions[%d]: to must be left_to_right or right_to_left", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// FindScenarios returns the YAML files under dir, sorted. When filter is
// set, only files whose base name without extension matches the glob are
// returned.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	sort.Strings(files)
	return files, err
}
