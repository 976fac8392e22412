package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureApp() *Application {
	return &Application{
		SymbolTable: map[string]*CompilationUnit{
			"src/com/acme/Orders.java": {
				FilePath:    "src/com/acme/Orders.java",
				PackageName: "com.acme",
				Comments: []Comment{
					{Content: "file header", StartLine: 1, EndLine: 1},
				},
				TypeDeclarations: map[string]*Type{
					"com.acme.Orders": {
						IsClassOrInterfaceDeclaration: true,
						IsEntrypointClass:             true,
						ExtendsList:                   []string{"com.acme.Base"},
						ImplementsList:                []string{"com.acme.Persistable"},
						NestedTypeDeclarations:        []string{"com.acme.Orders.Line"},
						Comments: []Comment{
							{Content: "/** Orders service. */", IsJavadoc: true},
						},
						FieldDeclarations: []Field{
							{Type: "Repo", Variables: []string{"repo"}},
						},
						CallableDeclarations: map[string]*Callable{
							"place(Order)": {
								Signature:    "place(Order)",
								Declaration:  "public void place(Order o)",
								IsEntrypoint: true,
								CRUDOperations: []CRUDOperation{
									{LineNumber: 12, OperationType: CRUDCreate},
									{LineNumber: 14, OperationType: CRUDRead},
								},
							},
							"<init>()": {
								Signature:     "<init>()",
								Declaration:   "public Orders()",
								IsConstructor: true,
							},
						},
					},
					"com.acme.Orders.Line": {
						IsNestedType: true,
						ParentType:   "com.acme.Orders",
						CallableDeclarations: map[string]*Callable{
							"total()": {Signature: "total()", Declaration: "int total()"},
						},
					},
				},
			},
			"src/com/acme/Base.java": {
				FilePath:    "src/com/acme/Base.java",
				PackageName: "com.acme",
				TypeDeclarations: map[string]*Type{
					"com.acme.Base": {
						IsClassOrInterfaceDeclaration: true,
						CallableDeclarations:          map[string]*Callable{},
					},
				},
			},
		},
	}
}

func TestClassLookup(t *testing.T) {
	app := fixtureApp()

	require.NotNil(t, app.Class("com.acme.Orders"))
	assert.Nil(t, app.Class("com.acme.Missing"))
	assert.Equal(t, "src/com/acme/Orders.java", app.SourceFileOf("com.acme.Orders"))
	assert.Equal(t, "", app.SourceFileOf("com.acme.Missing"))
	assert.Len(t, app.AllClasses(), 3)
}

func TestMethodsAndConstructorsSplit(t *testing.T) {
	app := fixtureApp()

	methods := app.MethodsInClass("com.acme.Orders")
	require.Len(t, methods, 1)
	assert.Contains(t, methods, "place(Order)")

	ctors := app.ConstructorsOfClass("com.acme.Orders")
	require.Len(t, ctors, 1)
	assert.Contains(t, ctors, "<init>()")

	// unknown class yields empty, not nil panic
	assert.Empty(t, app.MethodsInClass("com.acme.Missing"))
}

func TestSubClassesAndHierarchy(t *testing.T) {
	app := fixtureApp()

	assert.Equal(t, []string{"com.acme.Orders"}, app.SubClasses("com.acme.Base"))
	assert.Equal(t, []string{"com.acme.Orders"}, app.SubClasses("com.acme.Persistable"))
	assert.Empty(t, app.SubClasses("com.acme.Orders"))
	assert.Equal(t, []string{"com.acme.Base"}, app.ExtendedClasses("com.acme.Orders"))
	assert.Equal(t, []string{"com.acme.Persistable"}, app.ImplementedInterfaces("com.acme.Orders"))
}

func TestNestedClasses(t *testing.T) {
	app := fixtureApp()

	nested := app.NestedClasses("com.acme.Orders")
	require.Len(t, nested, 1)
	assert.True(t, nested["com.acme.Orders.Line"].IsNestedType)
}

func TestEntryPoints(t *testing.T) {
	app := fixtureApp()

	classes := app.EntryPointClasses()
	require.Len(t, classes, 1)
	assert.Contains(t, classes, "com.acme.Orders")

	methods := app.EntryPointMethods()
	require.Contains(t, methods, "com.acme.Orders")
	assert.Contains(t, methods["com.acme.Orders"], "place(Order)")
}

func TestCRUDOperationFilter(t *testing.T) {
	app := fixtureApp()

	all := app.CRUDOperations()
	require.Contains(t, all, "com.acme.Orders")
	assert.Len(t, all["com.acme.Orders"]["place(Order)"], 2)

	creates := app.CRUDOperations(CRUDCreate)
	require.Len(t, creates["com.acme.Orders"]["place(Order)"], 1)
	assert.Equal(t, 12, creates["com.acme.Orders"]["place(Order)"][0].LineNumber)

	assert.Empty(t, app.CRUDOperations(CRUDDelete))
}

func TestCommentsAndDocstrings(t *testing.T) {
	app := fixtureApp()

	fileComments := app.CommentsInFile("src/com/acme/Orders.java")
	require.Len(t, fileComments, 1)
	assert.Equal(t, "file header", fileComments[0].Content)

	all := app.AllComments()
	assert.Len(t, all["src/com/acme/Orders.java"], 2)

	docs := app.AllDocstrings()
	require.Contains(t, docs, "src/com/acme/Orders.java")
	require.Len(t, docs["src/com/acme/Orders.java"], 1)
	assert.True(t, docs["src/com/acme/Orders.java"][0].IsJavadoc)
}

func TestResolverLookupAndPlaceholder(t *testing.T) {
	app := fixtureApp()
	r := app.Resolver()

	known := r.Lookup("com.acme.Orders", "place(Order)")
	require.NotNil(t, known)
	assert.False(t, known.IsImplicit)

	// miss synthesizes an implicit placeholder and caches it
	ph := r.Resolve("java.util.List", "add(Object)", "boolean add(Object e)")
	require.NotNil(t, ph)
	assert.True(t, ph.IsImplicit)
	assert.False(t, ph.IsConstructor)
	require.Len(t, ph.Parameters, 1)
	assert.Equal(t, "Object e", ph.Parameters[0].Type)

	again := r.Resolve("java.util.List", "add(Object)", "boolean add(Object e)")
	assert.Same(t, ph, again)
}

func TestResolverConstructorPlaceholder(t *testing.T) {
	app := fixtureApp()
	r := app.Resolver()

	ctor := r.Resolve("java.util.ArrayList", "<init>()", "public void <init>()")
	require.NotNil(t, ctor)
	assert.True(t, ctor.IsImplicit)
	assert.True(t, ctor.IsConstructor)
	assert.Empty(t, ctor.Parameters)
}

func TestCallableEquality(t *testing.T) {
	a := &Callable{Signature: "run()", Declaration: "public void run()"}
	b := &Callable{Signature: "run()", Declaration: "public void run()", Code: "different body"}
	c := &Callable{Signature: "run()", Declaration: "void run()"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestShortName(t *testing.T) {
	assert.Equal(t, "List", ShortName("java.util.List<String>"))
	assert.Equal(t, "Orders", ShortName("com.acme.Orders"))
	assert.Equal(t, "int", ShortName("int"))
}
