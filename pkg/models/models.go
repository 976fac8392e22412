// Package models defines the structural program model codescope builds for
// an analyzed project: compilation units, types, callables, call sites, and
// call graph edges, held together by the Application aggregate.
//
// Field names and JSON tags follow the raw analysis database emitted by the
// language front-ends, so a persisted database decodes directly into these
// types.
package models

// CRUDOperationType classifies a data operation.
type CRUDOperationType string

const (
	CRUDCreate CRUDOperationType = "CREATE"
	CRUDRead   CRUDOperationType = "READ"
	CRUDUpdate CRUDOperationType = "UPDATE"
	CRUDDelete CRUDOperationType = "DELETE"
)

// CRUDQueryType classifies a persistence query.
type CRUDQueryType string

const (
	QueryRead  CRUDQueryType = "READ"
	QueryWrite CRUDQueryType = "WRITE"
	QueryNamed CRUDQueryType = "NAMED"
)

// Comment is a source comment with its span.
type Comment struct {
	Content     string `json:"content"`
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`
	StartColumn int    `json:"start_column"`
	EndColumn   int    `json:"end_column"`
	IsJavadoc   bool   `json:"is_javadoc"`
}

// CRUDOperation is one CRUD operation found in a callable body.
type CRUDOperation struct {
	LineNumber    int               `json:"line_number"`
	OperationType CRUDOperationType `json:"operation_type"`
}

// CRUDQuery is one persistence query found in a callable body.
type CRUDQuery struct {
	LineNumber     int           `json:"line_number"`
	QueryArguments []string      `json:"query_arguments"`
	QueryType      CRUDQueryType `json:"query_type"`
}

// Field is a field declared on a type. One declaration may introduce
// several variables.
type Field struct {
	Comment     *Comment `json:"comment"`
	Type        string   `json:"type"`
	StartLine   int      `json:"start_line"`
	EndLine     int      `json:"end_line"`
	Variables   []string `json:"variables"`
	Modifiers   []string `json:"modifiers"`
	Annotations []string `json:"annotations"`
}

// Parameter is a formal parameter of a callable.
type Parameter struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Annotations []string `json:"annotations"`
	Modifiers   []string `json:"modifiers"`
	StartLine   int      `json:"start_line"`
	EndLine     int      `json:"end_line"`
	StartColumn int      `json:"start_column"`
	EndColumn   int      `json:"end_column"`
}

// EnumConstant is one constant of an enum type.
type EnumConstant struct {
	Name      string   `json:"name"`
	Arguments []string `json:"arguments"`
}

// RecordComponent is one component of a record type.
type RecordComponent struct {
	Comment      *Comment `json:"comment"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Modifiers    []string `json:"modifiers"`
	Annotations  []string `json:"annotations"`
	DefaultValue any      `json:"default_value"`
	IsVarArgs    bool     `json:"is_var_args"`
}

// CallSite is one call expression inside a callable body.
//
// Exactly one of the call-kind flags (static/private/public/protected/
// unspecified) is set; IsConstructorCall is orthogonal to them. ReturnType
// and CalleeSignature are empty when the front-end could not resolve the
// call.
type CallSite struct {
	Comment           *Comment       `json:"comment"`
	MethodName        string         `json:"method_name"`
	ReceiverExpr      string         `json:"receiver_expr"`
	ReceiverType      string         `json:"receiver_type"`
	ArgumentTypes     []string       `json:"argument_types"`
	ArgumentExpr      []string       `json:"argument_expr"`
	ReturnType        string         `json:"return_type"`
	CalleeSignature   string         `json:"callee_signature"`
	IsStaticCall      bool           `json:"is_static_call"`
	IsPrivate         bool           `json:"is_private"`
	IsPublic          bool           `json:"is_public"`
	IsProtected       bool           `json:"is_protected"`
	IsUnspecified     bool           `json:"is_unspecified"`
	IsConstructorCall bool           `json:"is_constructor_call"`
	CRUDOperation     *CRUDOperation `json:"crud_operation"`
	CRUDQuery         *CRUDQuery     `json:"crud_query"`
	StartLine         int            `json:"start_line"`
	StartColumn       int            `json:"start_column"`
	EndLine           int            `json:"end_line"`
	EndColumn         int            `json:"end_column"`
}

// VariableDeclaration is a local variable declared in a callable body.
type VariableDeclaration struct {
	Comment     *Comment `json:"comment"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Initializer string   `json:"initializer"`
	StartLine   int      `json:"start_line"`
	StartColumn int      `json:"start_column"`
	EndLine     int      `json:"end_line"`
	EndColumn   int      `json:"end_column"`
}

// Callable is a method, constructor, or function. Its Signature is the
// unique key within the declaring type, in name(paramType1,paramType2,...)
// textual form.
type Callable struct {
	Signature            string                `json:"signature"`
	IsImplicit           bool                  `json:"is_implicit"`
	IsConstructor        bool                  `json:"is_constructor"`
	Comments             []Comment             `json:"comments"`
	Annotations          []string              `json:"annotations"`
	Modifiers            []string              `json:"modifiers"`
	ThrownExceptions     []string              `json:"thrown_exceptions"`
	Declaration          string                `json:"declaration"`
	Parameters           []Parameter           `json:"parameters"`
	ReturnType           string                `json:"return_type"`
	Code                 string                `json:"code"`
	StartLine            int                   `json:"start_line"`
	EndLine              int                   `json:"end_line"`
	CodeStartLine        int                   `json:"code_start_line"`
	ReferencedTypes      []string              `json:"referenced_types"`
	AccessedFields       []string              `json:"accessed_fields"`
	CallSites            []CallSite            `json:"call_sites"`
	IsEntrypoint         bool                  `json:"is_entrypoint"`
	VariableDeclarations []VariableDeclaration `json:"variable_declarations"`
	CRUDOperations       []CRUDOperation       `json:"crud_operations"`
	CRUDQueries          []CRUDQuery           `json:"crud_queries"`
	CyclomaticComplexity int                   `json:"cyclomatic_complexity"`
}

// Equal reports whether two callables denote the same declaration.
// Callables are identified by their declaration text.
func (c *Callable) Equal(other *Callable) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Declaration == other.Declaration
}

// Type is a class, interface, enum, record, or annotation declaration.
//
// Parent and nested types are referenced by qualified name only; the owning
// Application's symbol table is the arena that resolves those names.
type Type struct {
	IsInterface                   bool                 `json:"is_interface"`
	IsInnerClass                  bool                 `json:"is_inner_class"`
	IsLocalClass                  bool                 `json:"is_local_class"`
	IsNestedType                  bool                 `json:"is_nested_type"`
	IsClassOrInterfaceDeclaration bool                 `json:"is_class_or_interface_declaration"`
	IsEnumDeclaration             bool                 `json:"is_enum_declaration"`
	IsAnnotationDeclaration       bool                 `json:"is_annotation_declaration"`
	IsRecordDeclaration           bool                 `json:"is_record_declaration"`
	IsConcreteClass               bool                 `json:"is_concrete_class"`
	IsEntrypointClass             bool                 `json:"is_entrypoint_class"`
	Comments                      []Comment            `json:"comments"`
	ExtendsList                   []string             `json:"extends_list"`
	ImplementsList                []string             `json:"implements_list"`
	Modifiers                     []string             `json:"modifiers"`
	Annotations                   []string             `json:"annotations"`
	ParentType                    string               `json:"parent_type"`
	NestedTypeDeclarations        []string             `json:"nested_type_declarations"`
	CallableDeclarations          map[string]*Callable `json:"callable_declarations"`
	FieldDeclarations             []Field              `json:"field_declarations"`
	EnumConstants                 []EnumConstant       `json:"enum_constants"`
	RecordComponents              []RecordComponent    `json:"record_components"`
}

// CompilationUnit is one parsed source file.
type CompilationUnit struct {
	FilePath         string           `json:"file_path"`
	PackageName      string           `json:"package_name"`
	Comments         []Comment        `json:"comments"`
	Imports          []string         `json:"imports"`
	TypeDeclarations map[string]*Type `json:"type_declarations"`
	IsModified       bool             `json:"is_modified"`
}

// MethodDetail names a callable together with its declaring class.
type MethodDetail struct {
	MethodDeclaration string    `json:"method_declaration"`
	Klass             string    `json:"klass"`
	Method            *Callable `json:"method"`
}

// Edge kinds carried on call graph edges.
const (
	EdgeCallDep    = "CALL_DEP"
	EdgeControlDep = "CONTROL_DEP"
	EdgeDataDep    = "DATA_DEP"
)

// CallEdge is a directed source→target edge between two (class, signature)
// pairs. Weight is the textual count of call sites realizing the edge, as
// the front-end emits it.
type CallEdge struct {
	Source          MethodDetail `json:"source"`
	Target          MethodDetail `json:"target"`
	Kind            string       `json:"type"`
	Weight          string       `json:"weight"`
	SourceKind      string       `json:"source_kind,omitempty"`
	DestinationKind string       `json:"destination_kind,omitempty"`
}

// Application is the root aggregate for one analyzed project. SymbolTable
// maps source file path to its compilation unit; CallGraph and
// SystemDependencyGraph are present only when the analysis was run at
// call-graph level.
type Application struct {
	SymbolTable           map[string]*CompilationUnit `json:"symbol_table"`
	CallGraph             []CallEdge                  `json:"call_graph,omitempty"`
	SystemDependencyGraph []CallEdge                  `json:"system_dependency_graph,omitempty"`

	resolver *Resolver
}

// HasCallGraph reports whether the application was analyzed at call-graph
// level.
func (a *Application) HasCallGraph() bool {
	return a.CallGraph != nil || a.SystemDependencyGraph != nil
}

// GraphEdges returns the richest edge list available: the system dependency
// graph when present, otherwise the call graph.
func (a *Application) GraphEdges() []CallEdge {
	if a.SystemDependencyGraph != nil {
		return a.SystemDependencyGraph
	}
	return a.CallGraph
}
