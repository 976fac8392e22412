package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmehta/codescope/pkg/symtab"
)

const persistedDB = `{
  "symbol_table": {
    "src/App.java": {
      "file_path": "src/App.java",
      "type_declarations": {
        "com.acme.App": {
          "callable_declarations": {
            "run()": {"signature": "run()", "declaration": "void run()", "code": "{}"}
          }
        }
      }
    }
  }
}`

func writeAnalysisFile(t *testing.T, dir, content string) string {
	t.Helper()
	file := filepath.Join(dir, AnalysisFileName)
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestCheckExistingAnalysisLevel(t *testing.T) {
	dir := t.TempDir()
	file := writeAnalysisFile(t, dir, persistedDB)

	assert.True(t, CheckExistingAnalysisLevel(file, symtab.LevelSymbolTable))
	assert.False(t, CheckExistingAnalysisLevel(file, symtab.LevelCallGraph))
	assert.False(t, CheckExistingAnalysisLevel(filepath.Join(dir, "missing.json"), symtab.LevelSymbolTable))
}

func TestAnalyzeUsesPersistedDatabase(t *testing.T) {
	dir := t.TempDir()
	writeAnalysisFile(t, dir, persistedDB)

	// no backend jar anywhere, but the persisted database satisfies the
	// requested level so analysis succeeds
	r := NewJavaRunner(t.TempDir(), WithAnalysisDir(dir))
	app, err := r.Analyze(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, app.Class("com.acme.App"))
}

func TestAnalyzeWithoutBackendFails(t *testing.T) {
	r := NewJavaRunner(t.TempDir())
	_, err := r.Analyze(context.Background())

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestEagerAnalysisIgnoresPersistedDatabase(t *testing.T) {
	dir := t.TempDir()
	writeAnalysisFile(t, dir, persistedDB)

	r := NewJavaRunner(t.TempDir(), WithAnalysisDir(dir), WithEagerAnalysis())
	_, err := r.Analyze(context.Background())

	// eager mode must reach for the engine even though a database exists
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestPersistedDatabaseTooShallowForCallGraph(t *testing.T) {
	dir := t.TempDir()
	writeAnalysisFile(t, dir, persistedDB)

	r := NewJavaRunner(t.TempDir(), WithAnalysisDir(dir), WithLevel(symtab.LevelCallGraph))
	_, err := r.Analyze(context.Background())

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestLocateJar(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "build", "libs")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	jar := filepath.Join(nested, "codeanalyzer-2.3.1.jar")
	require.NoError(t, os.WriteFile(jar, []byte("pk"), 0o644))

	r := NewJavaRunner(t.TempDir(), WithBackendPath(dir))
	found, err := r.locateJar()
	require.NoError(t, err)
	assert.Equal(t, jar, found)

	r = NewJavaRunner(t.TempDir(), WithBackendPath(t.TempDir()))
	_, err = r.locateJar()
	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestMalformedPersistedDatabase(t *testing.T) {
	dir := t.TempDir()
	writeAnalysisFile(t, dir, `{"symbol_table": "garbage"}`)

	r := NewJavaRunner(t.TempDir(), WithAnalysisDir(dir))
	_, err := r.Analyze(context.Background())

	var malformed *symtab.MalformedDatabaseError
	require.ErrorAs(t, err, &malformed)
}
