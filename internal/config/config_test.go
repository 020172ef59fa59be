package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "reldir.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `relationships:
  - "(Person, ACTED_IN, Movie),(Person, DIRECTED, Movie)"
schema_files:
  - schema.txt
  - /abs/schema.cue
always_escape: true
pretty_print: true
db: runs.db
cache_size: 64
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"(Person, ACTED_IN, Movie),(Person, DIRECTED, Movie)"}, cfg.Relationships)
	assert.Equal(t, []string{filepath.Join(dir, "schema.txt"), "/abs/schema.cue"}, cfg.SchemaFiles)
	assert.True(t, cfg.AlwaysEscape)
	assert.True(t, cfg.PrettyPrint)
	assert.Equal(t, filepath.Join(dir, "runs.db"), cfg.DB)
	assert.Equal(t, 64, cfg.CacheSize)
}

func TestLoadFile_MemoryDBNotResolved(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, t.TempDir(), "db: \":memory:\"\n"))
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DB)
}

func TestLoadFile_Empty(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, t.TempDir(), ""))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{name: "unknown key", content: "pretty: true\n", message: "parsing YAML"},
		{name: "wrong type", content: "always_escape: [1]\n", message: "parsing YAML"},
		{name: "negative cache", content: "cache_size: -1\n", message: "cache_size must not be negative"},
		{name: "blank schema path", content: "schema_files: [\"\"]\n", message: "schema_files[0] is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, t.TempDir(), tt.content))
			require.Error(t, err)

			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, cfgErr.Message, tt.message)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "always_escape: false\ndb: runs.db\n")

	t.Setenv("RELDIR_ALWAYS_ESCAPE", "true")
	t.Setenv("RELDIR_DB", "/tmp/other.db")
	t.Setenv("RELDIR_RELATIONSHIPS", "(A, R, B),(C, S, D);(E, T, F)")
	t.Setenv("RELDIR_SCHEMA", "one.txt:two.yaml")

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.True(t, cfg.AlwaysEscape)
	assert.Equal(t, "/tmp/other.db", cfg.DB)
	assert.Equal(t, []string{"(A, R, B),(C, S, D)", "(E, T, F)"}, cfg.Relationships)
	assert.Equal(t, []string{"one.txt", "two.yaml"}, cfg.SchemaFiles)
}

func TestLoad_UnsetEnvKeepsFileValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "pretty_print: true\ncache_size: 8\n")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.True(t, cfg.PrettyPrint)
	assert.Equal(t, 8, cfg.CacheSize)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("RELDIR_PRETTY_PRINT", "sometimes")

	_, err := Load("", "")
	require.Error(t, err)
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "parsing environment")
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("RELDIR_CACHE_SIZE=32\n"), 0o644))
	// godotenv sets process variables; register cleanup through t.Setenv.
	t.Setenv("RELDIR_CACHE_SIZE", "")
	require.NoError(t, os.Unsetenv("RELDIR_CACHE_SIZE"))

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.CacheSize)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading env file")
}
