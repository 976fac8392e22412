package models

import (
	"sort"
	"strings"
)

// AllClasses returns every type declaration in the application, keyed by
// qualified name.
func (a *Application) AllClasses() map[string]*Type {
	classes := make(map[string]*Type)
	for _, unit := range a.SymbolTable {
		for name, decl := range unit.TypeDeclarations {
			classes[name] = decl
		}
	}
	return classes
}

// Class returns the type declared with the given qualified name, or nil.
func (a *Application) Class(qualifiedName string) *Type {
	for _, unit := range a.SymbolTable {
		if decl, ok := unit.TypeDeclarations[qualifiedName]; ok {
			return decl
		}
	}
	return nil
}

// SourceFileOf returns the path of the compilation unit declaring the given
// type, or "" when the type is unknown.
func (a *Application) SourceFileOf(qualifiedName string) string {
	for path, unit := range a.SymbolTable {
		if _, ok := unit.TypeDeclarations[qualifiedName]; ok {
			return path
		}
	}
	return ""
}

// Method returns the callable with the given signature declared on the given
// type, or nil.
func (a *Application) Method(qualifiedClass, signature string) *Callable {
	decl := a.Class(qualifiedClass)
	if decl == nil {
		return nil
	}
	return decl.CallableDeclarations[signature]
}

// MethodsInClass returns the non-constructor callables of a class, keyed by
// signature.
func (a *Application) MethodsInClass(qualifiedClass string) map[string]*Callable {
	methods := make(map[string]*Callable)
	decl := a.Class(qualifiedClass)
	if decl == nil {
		return methods
	}
	for sig, c := range decl.CallableDeclarations {
		if !c.IsConstructor {
			methods[sig] = c
		}
	}
	return methods
}

// ConstructorsOfClass returns the constructors of a class, keyed by
// signature.
func (a *Application) ConstructorsOfClass(qualifiedClass string) map[string]*Callable {
	ctors := make(map[string]*Callable)
	decl := a.Class(qualifiedClass)
	if decl == nil {
		return ctors
	}
	for sig, c := range decl.CallableDeclarations {
		if c.IsConstructor {
			ctors[sig] = c
		}
	}
	return ctors
}

// AllMethods returns every callable in the application grouped by declaring
// class, keyed class → signature → callable.
func (a *Application) AllMethods() map[string]map[string]*Callable {
	out := make(map[string]map[string]*Callable)
	for name, decl := range a.AllClasses() {
		out[name] = decl.CallableDeclarations
	}
	return out
}

// FieldsOfClass returns the field declarations of a class.
func (a *Application) FieldsOfClass(qualifiedClass string) []Field {
	decl := a.Class(qualifiedClass)
	if decl == nil {
		return nil
	}
	return decl.FieldDeclarations
}

// NestedClasses returns the type declarations directly nested in a class.
func (a *Application) NestedClasses(qualifiedClass string) map[string]*Type {
	nested := make(map[string]*Type)
	decl := a.Class(qualifiedClass)
	if decl == nil {
		return nested
	}
	all := a.AllClasses()
	for _, name := range decl.NestedTypeDeclarations {
		if t, ok := all[name]; ok {
			nested[name] = t
		}
	}
	return nested
}

// ExtendedClasses returns the superclasses a class extends.
func (a *Application) ExtendedClasses(qualifiedClass string) []string {
	decl := a.Class(qualifiedClass)
	if decl == nil {
		return nil
	}
	return decl.ExtendsList
}

// ImplementedInterfaces returns the interfaces a class implements.
func (a *Application) ImplementedInterfaces(qualifiedClass string) []string {
	decl := a.Class(qualifiedClass)
	if decl == nil {
		return nil
	}
	return decl.ImplementsList
}

// SubClasses returns the qualified names of every type that extends or
// implements the given type, sorted.
func (a *Application) SubClasses(qualifiedClass string) []string {
	var subs []string
	for name, decl := range a.AllClasses() {
		if contains(decl.ExtendsList, qualifiedClass) || contains(decl.ImplementsList, qualifiedClass) {
			subs = append(subs, name)
		}
	}
	sort.Strings(subs)
	return subs
}

// EntryPointClasses returns the application's entry point types, keyed by
// qualified name.
func (a *Application) EntryPointClasses() map[string]*Type {
	out := make(map[string]*Type)
	for name, decl := range a.AllClasses() {
		if decl.IsEntrypointClass {
			out[name] = decl
		}
	}
	return out
}

// EntryPointMethods returns the application's entry point callables grouped
// by declaring class.
func (a *Application) EntryPointMethods() map[string]map[string]*Callable {
	out := make(map[string]map[string]*Callable)
	for name, decl := range a.AllClasses() {
		for sig, c := range decl.CallableDeclarations {
			if !c.IsEntrypoint {
				continue
			}
			if out[name] == nil {
				out[name] = make(map[string]*Callable)
			}
			out[name][sig] = c
		}
	}
	return out
}

// CRUDOperations returns every CRUD operation in the application, grouped by
// class and signature, optionally filtered to one operation type.
func (a *Application) CRUDOperations(filter ...CRUDOperationType) map[string]map[string][]CRUDOperation {
	out := make(map[string]map[string][]CRUDOperation)
	for name, decl := range a.AllClasses() {
		for sig, c := range decl.CallableDeclarations {
			ops := c.CRUDOperations
			if len(filter) > 0 {
				ops = filterOps(ops, filter[0])
			}
			if len(ops) == 0 {
				continue
			}
			if out[name] == nil {
				out[name] = make(map[string][]CRUDOperation)
			}
			out[name][sig] = ops
		}
	}
	return out
}

// CRUDQueries returns every persistence query in the application, grouped by
// class and signature, optionally filtered to one query type.
func (a *Application) CRUDQueries(filter ...CRUDQueryType) map[string]map[string][]CRUDQuery {
	out := make(map[string]map[string][]CRUDQuery)
	for name, decl := range a.AllClasses() {
		for sig, c := range decl.CallableDeclarations {
			qs := c.CRUDQueries
			if len(filter) > 0 {
				qs = filterQueries(qs, filter[0])
			}
			if len(qs) == 0 {
				continue
			}
			if out[name] == nil {
				out[name] = make(map[string][]CRUDQuery)
			}
			out[name][sig] = qs
		}
	}
	return out
}

// CommentsInMethod returns the comments attached to one callable.
func (a *Application) CommentsInMethod(qualifiedClass, signature string) []Comment {
	c := a.Method(qualifiedClass, signature)
	if c == nil {
		return nil
	}
	return c.Comments
}

// CommentsInClass returns the comments attached to one type declaration.
func (a *Application) CommentsInClass(qualifiedClass string) []Comment {
	decl := a.Class(qualifiedClass)
	if decl == nil {
		return nil
	}
	return decl.Comments
}

// CommentsInFile returns the file-level comments of one compilation unit.
func (a *Application) CommentsInFile(path string) []Comment {
	unit, ok := a.SymbolTable[path]
	if !ok {
		return nil
	}
	return unit.Comments
}

// AllComments returns every comment in the application keyed by file path,
// including type-level and callable-level comments.
func (a *Application) AllComments() map[string][]Comment {
	out := make(map[string][]Comment)
	for path, unit := range a.SymbolTable {
		comments := append([]Comment{}, unit.Comments...)
		for _, decl := range unit.TypeDeclarations {
			comments = append(comments, decl.Comments...)
			for _, c := range decl.CallableDeclarations {
				comments = append(comments, c.Comments...)
			}
		}
		out[path] = comments
	}
	return out
}

// AllDocstrings returns every documentation comment in the application keyed
// by file path.
func (a *Application) AllDocstrings() map[string][]Comment {
	out := make(map[string][]Comment)
	for path, comments := range a.AllComments() {
		var docs []Comment
		for _, c := range comments {
			if c.IsJavadoc {
				docs = append(docs, c)
			}
		}
		if len(docs) > 0 {
			out[path] = docs
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func filterOps(ops []CRUDOperation, t CRUDOperationType) []CRUDOperation {
	var out []CRUDOperation
	for _, op := range ops {
		if op.OperationType == t {
			out = append(out, op)
		}
	}
	return out
}

func filterQueries(qs []CRUDQuery, t CRUDQueryType) []CRUDQuery {
	var out []CRUDQuery
	for _, q := range qs {
		if q.QueryType == t {
			out = append(out, q)
		}
	}
	return out
}

// ShortName returns the simple name of a qualified type, with any generic
// suffix removed.
func ShortName(qualified string) string {
	name := qualified
	if i := strings.Index(name, "<"); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
