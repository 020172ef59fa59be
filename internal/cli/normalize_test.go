package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/reldir/internal/pipeline"
	"github.com/roach88/reldir/internal/resolver"
	"github.com/roach88/reldir/internal/store"
)

const actedIn = "(Person, ACTED_IN, Movie)"

func TestNormalizeCommand_Flip(t *testing.T) {
	cmd := NewNormalizeCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, "", "-r", actedIn,
		"MATCH (n:Person)<-[:ACTED_IN]-(m:Movie) RETURN n")

	require.NoError(t, err)
	assert.Equal(t, "MATCH (n:Person)-[:ACTED_IN]->(m:Movie) RETURN n\n", out)
}

func TestNormalizeCommand_Options(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
		want  string
	}{
		{
			name:  "always escape",
			flags: []string{"--always-escape"},
			want:  "MATCH (n:`Person`)-[:`ACTED_IN`]->(m:`Movie`) RETURN n\n",
		},
		{
			name:  "pretty print",
			flags: []string{"--pretty-print"},
			want:  "MATCH (n:Person)-[:ACTED_IN]->(m:Movie)\nRETURN n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewNormalizeCommand(&RootOptions{Format: "text"})
			args := append([]string{"-r", actedIn}, tt.flags...)
			args = append(args, "MATCH (n:Person)-[:ACTED_IN]-(m:Movie) RETURN n")

			out, _, err := execute(cmd, "", args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestNormalizeCommand_NoFixPrintsEmptyLine(t *testing.T) {
	tests := []struct {
		name  string
		query string
		log   string
	}{
		{"unsatisfiable", "MATCH (p:Person)-[:REVIEWED]->(m:Movie) RETURN p", "unsatisfiable"},
		{"syntax error", "MATCH (n:Person RETURN n", "syntax"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewNormalizeCommand(&RootOptions{Format: "text"})
			out, errOut, err := execute(cmd, "", "-r", actedIn, tt.query)

			require.NoError(t, err)
			assert.Equal(t, "\n", out)
			assert.Contains(t, errOut, "statement has no fix")
			assert.Contains(t, errOut, "reason="+tt.log)
		})
	}
}

func TestNormalizeCommand_Stdin(t *testing.T) {
	cmd := NewNormalizeCommand(&RootOptions{Format: "text"})
	out, errOut, err := execute(cmd, "MATCH (m:Movie)-[:ACTED_IN]-(p:Person)\nRETURN p\n", "-r", actedIn)

	require.NoError(t, err)
	assert.Equal(t, "MATCH (m:Movie)<-[:ACTED_IN]-(p:Person) RETURN p\n", out)
	assert.Contains(t, errOut, stdinHint)
}

func TestNormalizeCommand_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"blank query", []string{"-r", actedIn, "   "}, ErrCodeBlankQuery},
		{"bad relationship", []string{"-r", "(Person, ACTED_IN)", "MATCH (a) RETURN a"}, ErrCodeInvalidDefinition},
		{"missing schema file", []string{"--schema", "/nonexistent/schema.txt", "MATCH (a) RETURN a"}, ErrCodeNotFound},
		{"missing config file", []string{"--config", "/nonexistent/reldir.yaml", "MATCH (a) RETURN a"}, ErrCodeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewNormalizeCommand(&RootOptions{Format: "text"})
			out, errOut, err := execute(cmd, "", tt.args...)

			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, errOut, "Error ["+tt.code+"]")
			assert.Empty(t, out, "nothing but query text goes to stdout")
		})
	}
}

func TestNormalizeCommand_JSON(t *testing.T) {
	cmd := NewNormalizeCommand(&RootOptions{Format: "json"})
	out, _, err := execute(cmd, "", "-r", actedIn,
		"MATCH (n:Person)<-[:ACTED_IN]-(m:Movie) RETURN n")
	require.NoError(t, err)

	var result NormalizeResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, pipeline.OutcomeNormalized, result.Outcome)
	assert.Equal(t, "MATCH (n:Person)-[:ACTED_IN]->(m:Movie) RETURN n", result.Output)
	assert.NotEmpty(t, result.SchemaHash)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, resolver.Flipped, result.Changes[0].Kind)
	assert.Empty(t, result.RunID)
}

func TestNormalizeCommand_JSONNoFix(t *testing.T) {
	cmd := NewNormalizeCommand(&RootOptions{Format: "json"})
	out, _, err := execute(cmd, "", "-r", actedIn,
		"MATCH (p:Person)-[:REVIEWED]->(m:Movie) RETURN p")
	require.NoError(t, err)

	var result NormalizeResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, pipeline.OutcomeNoFix, result.Outcome)
	assert.Empty(t, result.Output)
	assert.Equal(t, ErrCodeUnsatisfiable, result.Code)
	assert.Contains(t, result.Reason, "REVIEWED")
}

func TestNormalizeCommand_JSONError(t *testing.T) {
	cmd := NewNormalizeCommand(&RootOptions{Format: "json"})
	out, _, err := execute(cmd, "", "-r", actedIn, "")
	require.Error(t, err)

	resp := decodeResponse(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeBlankQuery, resp.Error.Code)
}

func TestNormalizeCommand_SchemaFileAndConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "schema/movies.txt", "(Person, DIRECTED, Movie)\n")
	cfgPath := writeFile(t, dir, "reldir.yaml", `relationships:
  - "(Person, ACTED_IN, Movie)"
schema_files:
  - schema/movies.txt
pretty_print: true
`)

	cmd := NewNormalizeCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, "", "--config", cfgPath,
		"MATCH (m:Movie)-[:DIRECTED]-(p:Person) MATCH (p)-[:ACTED_IN]-(x:Movie) RETURN p")
	require.NoError(t, err)
	assert.Equal(t, "MATCH (m:Movie)<-[:DIRECTED]-(p:Person)\nMATCH (p)-[:ACTED_IN]->(x:Movie)\nRETURN p\n", out)

	cmd = NewNormalizeCommand(&RootOptions{Format: "text"})
	out, _, err = execute(cmd, "", "--config", cfgPath, "--pretty-print=false",
		"MATCH (m:Movie)-[:DIRECTED]-(p:Person) RETURN p")
	require.NoError(t, err)
	assert.Equal(t, "MATCH (m:Movie)<-[:DIRECTED]-(p:Person) RETURN p\n", out, "flags override the config file")
}

func TestNormalizeCommand_RecordsRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	cmd := NewNormalizeCommand(&RootOptions{Format: "json"})
	out, _, err := execute(cmd, "", "-r", actedIn, "--db", dbPath,
		"MATCH (n:Person)<-[:ACTED_IN]-(m:Movie) RETURN n")
	require.NoError(t, err)

	var result NormalizeResult
	decodeResponse(t, out, &result)
	require.NotEmpty(t, result.RunID)

	cmd = NewNormalizeCommand(&RootOptions{Format: "text"})
	_, _, err = execute(cmd, "", "-r", actedIn, "--db", dbPath, "--always-escape",
		"MATCH (p:Person)-[:REVIEWED]->(m:Movie) RETURN p")
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ReadRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, result.RunID, runs[0].ID)
	assert.Equal(t, int64(1), runs[0].Seq)
	assert.Equal(t, store.OutcomeNormalized, runs[0].Outcome)
	assert.Equal(t, result.SchemaHash, runs[0].SchemaHash)
	assert.Equal(t, "MATCH (n:Person)-[:ACTED_IN]->(m:Movie) RETURN n", runs[0].Output)

	assert.Equal(t, int64(2), runs[1].Seq)
	assert.Equal(t, store.OutcomeNoFix, runs[1].Outcome)
	assert.True(t, runs[1].Options.AlwaysEscape)
	assert.NotEmpty(t, runs[1].Reason)
}
