package schemafile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/reldir/internal/ir"
)

var (
	actedIn  = ir.RelationshipDefinition{Source: "Person", Type: "ACTED_IN", Target: "Movie"}
	reviewed = ir.RelationshipDefinition{Source: "Person", Type: "REVIEWED", Target: "Movie"}
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireLoadError(t *testing.T, err error) *LoadError {
	t.Helper()
	require.Error(t, err)
	le, ok := err.(*LoadError)
	require.True(t, ok, "expected *LoadError, got %T", err)
	return le
}

func TestLoad_Text(t *testing.T) {
	path := writeFile(t, "schema.txt", `
# movies
(Person, ACTED_IN, Movie) (Person, REVIEWED, Movie)
trailing text is ignored (Person, ACTED_IN, Movie)
`)

	defs, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []ir.RelationshipDefinition{actedIn, reviewed, actedIn}, defs)
}

func TestLoad_TextQuotedParens(t *testing.T) {
	path := writeFile(t, "schema", "(`Person (old)`, KNOWS, `Person (new)`)\n")

	defs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "Person (old)", defs[0].Source)
	assert.Equal(t, "Person (new)", defs[0].Target)
}

func TestLoad_TextInvalidDefinition(t *testing.T) {
	path := writeFile(t, "schema.txt", "(Person, ACTED_IN, Movie)\n(Person, Movie)\n")

	_, err := Load(path)
	le := requireLoadError(t, err)
	assert.Equal(t, ErrCodeInvalidDefinition, le.Code)
	assert.Equal(t, 2, le.Line)
	assert.Contains(t, le.Error(), "schema.txt:2: E011")
	assert.Contains(t, le.Message, "expected 3 comma separated names, got 2")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	le := requireLoadError(t, err)
	assert.Equal(t, ErrCodeNotFound, le.Code)
	assert.True(t, IsLoadError(err))
}

func TestLoad_YAML(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "wrapped",
			content: `relationships:
  - "(Person, ACTED_IN, Movie)"
  - source: Person
    type: REVIEWED
    target: Movie
`,
		},
		{
			name: "bare list",
			content: `- (Person, ACTED_IN, Movie)
- {source: Person, type: REVIEWED, target: Movie}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs, err := Load(writeFile(t, "schema.yaml", tt.content))
			require.NoError(t, err)
			assert.Equal(t, []ir.RelationshipDefinition{actedIn, reviewed}, defs)
		})
	}
}

func TestLoad_YAMLEmpty(t *testing.T) {
	defs, err := Load(writeFile(t, "schema.yml", ""))
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestLoad_YAMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    string
		line    int
		message string
	}{
		{
			name:    "bad triple",
			content: "relationships:\n  - (Person, ACTED_IN)\n",
			code:    ErrCodeInvalidDefinition,
			line:    2,
			message: "expected 3 comma separated names",
		},
		{
			name:    "missing field",
			content: "- source: Person\n  type: ACTED_IN\n",
			code:    ErrCodeInvalidDefinition,
			line:    1,
			message: "source, type and target are required",
		},
		{
			name:    "nested list",
			content: "- [Person, ACTED_IN, Movie]\n",
			code:    ErrCodeInvalidDefinition,
			line:    1,
			message: "entry must be a string or a mapping",
		},
		{
			name:    "malformed",
			content: "relationships: [\n",
			code:    ErrCodeLoadFailed,
			message: "parsing YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "schema.yaml", tt.content))
			le := requireLoadError(t, err)
			assert.Equal(t, tt.code, le.Code)
			assert.Equal(t, tt.line, le.Line)
			assert.Contains(t, le.Message, tt.message)
		})
	}
}

func TestLoad_CUE(t *testing.T) {
	path := writeFile(t, "schema.cue", `
#Rel: {source: string, type: string, target: string}

relationships: [
	#Rel & {source: "Person", type: "ACTED_IN", target: "Movie"},
	"(Person, REVIEWED, Movie)",
]
`)

	defs, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []ir.RelationshipDefinition{actedIn, reviewed}, defs)
}

func TestLoad_CUEErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    string
		message string
		hasPos  bool
	}{
		{
			name:    "missing relationships",
			content: `other: 1`,
			code:    ErrCodeLoadFailed,
			message: "relationships field is required",
		},
		{
			name:    "not a list",
			content: `relationships: "(Person, ACTED_IN, Movie)"`,
			code:    ErrCodeLoadFailed,
			message: "relationships must be a list",
			hasPos:  true,
		},
		{
			name:    "bad entry kind",
			content: `relationships: [1]`,
			code:    ErrCodeInvalidDefinition,
			message: "unsupported entry kind",
			hasPos:  true,
		},
		{
			name:    "missing target",
			content: `relationships: [{source: "Person", type: "ACTED_IN"}]`,
			code:    ErrCodeInvalidDefinition,
			message: "target is required",
			hasPos:  true,
		},
		{
			name:    "bad string",
			content: `relationships: ["(Person, , Movie)"]`,
			code:    ErrCodeInvalidDefinition,
			message: "type is empty",
			hasPos:  true,
		},
		{
			name:    "syntax error",
			content: `relationships: [`,
			code:    ErrCodeLoadFailed,
			hasPos:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "schema.cue", tt.content))
			le := requireLoadError(t, err)
			assert.Equal(t, tt.code, le.Code)
			assert.Contains(t, le.Message, tt.message)
			assert.Equal(t, tt.hasPos, le.Pos.IsValid())
		})
	}
}

func TestLoadRegistry_Deduplicates(t *testing.T) {
	text := writeFile(t, "schema.txt", "(Person, ACTED_IN, Movie)\n")
	yml := writeFile(t, "schema.yaml", "- (Person, REVIEWED, Movie)\n- (Person, ACTED_IN, Movie)\n")

	reg, err := LoadRegistry([]string{"(Person, ACTED_IN, Movie),(Person, FOLLOWS, Person)"}, []string{text, yml})
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())
	assert.True(t, reg.Lookup("Person", "FOLLOWS", "Person"))
	assert.True(t, reg.Lookup("Person", "REVIEWED", "Movie"))
}

func TestLoadRegistry_InlineError(t *testing.T) {
	_, err := LoadRegistry([]string{"(Person, ACTED_IN)"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 3 comma separated names")
}

func TestLoadError_Format(t *testing.T) {
	assert.Equal(t, "E012: boom", (&LoadError{Code: ErrCodeLoadFailed, Message: "boom"}).Error())
	assert.Equal(t, "a.txt: E005: gone", (&LoadError{Code: ErrCodeNotFound, Path: "a.txt", Message: "gone"}).Error())
	assert.Equal(t, "a.txt:3: E011: bad", (&LoadError{Code: ErrCodeInvalidDefinition, Path: "a.txt", Line: 3, Message: "bad"}).Error())
}
