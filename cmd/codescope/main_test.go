package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmehta/codescope/pkg/config"
	"github.com/kmehta/codescope/pkg/models"
	"github.com/kmehta/codescope/pkg/symtab"
)

func TestJoinInts(t *testing.T) {
	assert.Equal(t, "", joinInts(nil))
	assert.Equal(t, "3", joinInts([]int{3}))
	assert.Equal(t, "3, 7, 12", joinInts([]int{3, 7, 12}))
}

func TestSignatureOf(t *testing.T) {
	d := models.MethodDetail{
		MethodDeclaration: "void run()",
		Method:            &models.Callable{Signature: "run()"},
	}
	assert.Equal(t, "run()", signatureOf(d))

	d.Method = nil
	assert.Equal(t, "void run()", signatureOf(d))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, config.LevelSymbolTable, levelName(symtab.LevelSymbolTable))
	assert.Equal(t, config.LevelCallGraph, levelName(symtab.LevelCallGraph))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "// top", firstLine("  // top\n// rest"))
	long := strings.Repeat("x", 100)
	assert.Len(t, firstLine(long), 72)
	assert.True(t, strings.HasSuffix(firstLine(long), "..."))
}

func TestSummarize(t *testing.T) {
	run := &models.Callable{Signature: "run()", Declaration: "void run()"}
	stop := &models.Callable{Signature: "stop()", Declaration: "void stop()"}
	d := func(c *models.Callable) models.MethodDetail {
		return models.MethodDetail{MethodDeclaration: c.Declaration, Klass: "com.acme.App", Method: c}
	}
	app := &models.Application{
		SymbolTable: map[string]*models.CompilationUnit{
			"src/App.java": {TypeDeclarations: map[string]*models.Type{
				"com.acme.App": {CallableDeclarations: map[string]*models.Callable{
					"run()": run, "stop()": stop,
				}},
			}},
		},
		CallGraph: []models.CallEdge{
			{Source: d(run), Target: d(stop), Kind: models.EdgeCallDep, Weight: "3"},
			{Source: d(stop), Target: d(run), Kind: models.EdgeCallDep, Weight: "bogus"},
		},
	}

	s := summarize(app)
	assert.Equal(t, config.LevelCallGraph, s.Level)
	assert.Equal(t, 1, s.CompilationUnits)
	assert.Equal(t, 1, s.Classes)
	assert.Equal(t, 2, s.Methods)
	assert.Equal(t, 2, s.GraphEdges)
	// unparsable weights count as one call
	assert.Equal(t, 4, s.GraphCallWeight)
}

func TestDefaultConfigTOML(t *testing.T) {
	content, err := defaultConfigTOML()
	require.NoError(t, err)
	assert.Contains(t, content, "# codescope configuration")
	assert.Contains(t, content, "Analysis")
	assert.Contains(t, content, "symbol_table")
}
