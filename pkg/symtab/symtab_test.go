package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalDB = `{
  "symbol_table": {
    "src/com/acme/App.java": {
      "file_path": "src/com/acme/App.java",
      "package_name": "com.acme",
      "imports": ["java.util.List"],
      "type_declarations": {
        "com.acme.App": {
          "is_class_or_interface_declaration": true,
          "callable_declarations": {
            "main(String[])": {
              "signature": "main(String[])",
              "declaration": "public static void main(String[] args)",
              "code": "{ new App().run(); }"
            },
            "run()": {
              "signature": "run()",
              "declaration": "public void run()",
              "code": "{}"
            }
          }
        }
      }
    }
  }
}`

const dbWithGraph = `{
  "symbol_table": {
    "src/com/acme/App.java": {
      "file_path": "src/com/acme/App.java",
      "type_declarations": {
        "com.acme.App": {
          "callable_declarations": {
            "run()": {
              "signature": "run()",
              "declaration": "public void run()",
              "code": "{ list.add(1); }"
            }
          }
        }
      }
    }
  },
  "call_graph": [
    {
      "type": "CALL_DEP",
      "weight": 2,
      "source": {
        "file_path": "src/com/acme/App.java",
        "type_declaration": "com.acme.App",
        "signature": "run()",
        "callable_declaration": "public void run()"
      },
      "target": {
        "file_path": "",
        "type_declaration": "java.util.List",
        "signature": "add(Object)",
        "callable_declaration": "boolean add(Object e)"
      }
    }
  ]
}`

func TestBuildSymbolTableOnly(t *testing.T) {
	app, err := Build([]byte(minimalDB))
	require.NoError(t, err)

	assert.Equal(t, LevelSymbolTable, Level(app))
	assert.False(t, app.HasCallGraph())
	require.Contains(t, app.SymbolTable, "src/com/acme/App.java")

	m := app.Method("com.acme.App", "run()")
	require.NotNil(t, m)
	assert.False(t, m.IsImplicit)
}

func TestBuildResolvesEdgeEndpoints(t *testing.T) {
	app, err := Build([]byte(dbWithGraph))
	require.NoError(t, err)

	assert.Equal(t, LevelCallGraph, Level(app))
	require.Len(t, app.CallGraph, 1)

	edge := app.CallGraph[0]
	assert.Equal(t, "CALL_DEP", edge.Kind)
	assert.Equal(t, "2", edge.Weight)

	// source resolves to the declared callable
	require.NotNil(t, edge.Source.Method)
	assert.False(t, edge.Source.Method.IsImplicit)
	assert.Equal(t, "com.acme.App", edge.Source.Klass)

	// target is outside the analyzed sources: implicit placeholder
	require.NotNil(t, edge.Target.Method)
	assert.True(t, edge.Target.Method.IsImplicit)
	assert.Equal(t, "add(Object)", edge.Target.Method.Signature)
}

func TestBuildRejectsInvalidJSON(t *testing.T) {
	_, err := Build([]byte("{not json"))
	var malformed *MalformedDatabaseError
	require.ErrorAs(t, err, &malformed)
}

func TestBuildRejectsMissingSymbolTable(t *testing.T) {
	_, err := Build([]byte(`{"call_graph": []}`))
	var malformed *MalformedDatabaseError
	require.ErrorAs(t, err, &malformed)
}

func TestBuildRejectsWrongShape(t *testing.T) {
	_, err := Build([]byte(`{"symbol_table": "not an object"}`))
	var malformed *MalformedDatabaseError
	require.ErrorAs(t, err, &malformed)
}

func TestWeightToleratesStringAndNumber(t *testing.T) {
	assert.Equal(t, 2, EdgeWeightCount("2"))
	assert.Equal(t, 1, EdgeWeightCount(""))
	assert.Equal(t, 1, EdgeWeightCount("lots"))
}
