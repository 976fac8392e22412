// Package symtab decodes the raw analysis database produced by a language
// front-end into the in-memory application model. Decoding validates the
// database shape, then resolves every graph edge endpoint against the symbol
// table, synthesizing implicit placeholders for callables outside the
// analyzed sources.
package symtab

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/kmehta/codescope/pkg/models"
)

//go:embed schema.json
var schemaJSON []byte

// MalformedDatabaseError reports an analysis database that failed schema
// validation or decoding. It is fatal to construction; nothing useful can be
// recovered from a database that does not decode.
type MalformedDatabaseError struct {
	Reason string
	Err    error
}

func (e *MalformedDatabaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed analysis database: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed analysis database: %s", e.Reason)
}

func (e *MalformedDatabaseError) Unwrap() error { return e.Err }

// rawEndpoint is a graph edge endpoint as the front-end emits it, before
// resolution against the symbol table.
type rawEndpoint struct {
	FilePath            string `json:"file_path"`
	TypeDeclaration     string `json:"type_declaration"`
	Signature           string `json:"signature"`
	CallableDeclaration string `json:"callable_declaration"`
}

type rawEdge struct {
	Source          rawEndpoint `json:"source"`
	Target          rawEndpoint `json:"target"`
	Kind            string      `json:"type"`
	Weight          weight      `json:"weight"`
	SourceKind      string      `json:"source_kind"`
	DestinationKind string      `json:"destination_kind"`
}

// weight tolerates both string and numeric encodings.
type weight string

func (w *weight) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*w = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = weight(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*w = weight(n.String())
	return nil
}

type rawApplication struct {
	SymbolTable           map[string]*models.CompilationUnit `json:"symbol_table"`
	CallGraph             []rawEdge                          `json:"call_graph"`
	SystemDependencyGraph []rawEdge                          `json:"system_dependency_graph"`
}

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("symtab: embedded schema does not parse: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("database.json", doc); err != nil {
		panic(fmt.Sprintf("symtab: registering embedded schema: %v", err))
	}
	sch, err := c.Compile("database.json")
	if err != nil {
		panic(fmt.Sprintf("symtab: compiling embedded schema: %v", err))
	}
	return sch
}

// Build decodes a raw analysis database into an application model. The
// returned application has every edge endpoint resolved to a callable, with
// implicit placeholders for endpoints the symbol table does not declare.
func Build(raw []byte) (*models.Application, error) {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, &MalformedDatabaseError{Reason: "not valid JSON", Err: err}
	}
	if err := compiledSchema.Validate(instance); err != nil {
		return nil, &MalformedDatabaseError{Reason: "schema validation failed", Err: err}
	}

	var decoded rawApplication
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &MalformedDatabaseError{Reason: "decoding symbol table", Err: err}
	}
	if decoded.SymbolTable == nil {
		return nil, &MalformedDatabaseError{Reason: "symbol_table is missing"}
	}

	app := &models.Application{SymbolTable: decoded.SymbolTable}
	resolver := app.Resolver()

	if decoded.CallGraph != nil {
		app.CallGraph = resolveEdges(resolver, decoded.CallGraph)
	}
	if decoded.SystemDependencyGraph != nil {
		app.SystemDependencyGraph = resolveEdges(resolver, decoded.SystemDependencyGraph)
	}
	return app, nil
}

func resolveEdges(r *models.Resolver, raw []rawEdge) []models.CallEdge {
	edges := make([]models.CallEdge, 0, len(raw))
	for _, e := range raw {
		edges = append(edges, models.CallEdge{
			Source:          resolveEndpoint(r, e.Source),
			Target:          resolveEndpoint(r, e.Target),
			Kind:            e.Kind,
			Weight:          string(e.Weight),
			SourceKind:      e.SourceKind,
			DestinationKind: e.DestinationKind,
		})
	}
	return edges
}

func resolveEndpoint(r *models.Resolver, ep rawEndpoint) models.MethodDetail {
	callable := r.Resolve(ep.TypeDeclaration, ep.Signature, ep.CallableDeclaration)
	return models.MethodDetail{
		MethodDeclaration: ep.CallableDeclaration,
		Klass:             ep.TypeDeclaration,
		Method:            callable,
	}
}

// Analysis depth levels recorded in persisted databases.
const (
	LevelSymbolTable = 1
	LevelCallGraph   = 2
)

// Level reports the analysis depth a database was produced at.
func Level(app *models.Application) int {
	if app.HasCallGraph() {
		return LevelCallGraph
	}
	return LevelSymbolTable
}

// EdgeWeightCount parses an edge weight into an integer count, defaulting to
// one when the weight is absent or unparsable.
func EdgeWeightCount(w string) int {
	if n, err := strconv.Atoi(w); err == nil && n > 0 {
		return n
	}
	return 1
}
