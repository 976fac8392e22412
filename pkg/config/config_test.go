package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, LevelSymbolTable, cfg.Analysis.Level)
	assert.False(t, cfg.Analysis.Eager)
	assert.Equal(t, "java", cfg.Backend.Java)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Exclude.Gitignore)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codescope.toml")
	content := `
[analysis]
level = "call_graph"
eager = true

[backend]
path = "/opt/engine"

[output]
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, LevelCallGraph, cfg.Analysis.Level)
	assert.True(t, cfg.Analysis.Eager)
	assert.Equal(t, "/opt/engine", cfg.Backend.Path)
	assert.Equal(t, "json", cfg.Output.Format)
	// untouched sections keep their defaults
	assert.Equal(t, "java", cfg.Backend.Java)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codescope.yaml")
	content := `
analysis:
  level: call_graph
cache:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, LevelCallGraph, cfg.Analysis.Level)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.ShouldExclude(filepath.Join("vendor", "lib", "a.java")))
	assert.True(t, cfg.ShouldExclude(filepath.Join("src", "node_modules", "x", "y.py")))
	assert.True(t, cfg.ShouldExclude("OrdersTest.java"))
	assert.True(t, cfg.ShouldExclude("go.sum"))
	assert.False(t, cfg.ShouldExclude(filepath.Join("src", "Orders.java")))
}
