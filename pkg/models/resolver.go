package models

import "strings"

// callableKey identifies a callable by declaring type and signature.
type callableKey struct {
	typeName  string
	signature string
}

// Resolver answers (type, signature) lookups against one application's
// symbol table. Lookups that miss synthesize an implicit placeholder
// callable, so graph edges referring to library code outside the analyzed
// sources still resolve to a usable record.
type Resolver struct {
	table map[callableKey]*Callable
}

// Resolver returns the application's lazily built callable resolver.
func (a *Application) Resolver() *Resolver {
	if a.resolver == nil {
		a.resolver = newResolver(a)
	}
	return a.resolver
}

func newResolver(a *Application) *Resolver {
	r := &Resolver{table: make(map[callableKey]*Callable)}
	for _, unit := range a.SymbolTable {
		for typeName, decl := range unit.TypeDeclarations {
			for sig, callable := range decl.CallableDeclarations {
				r.table[callableKey{typeName, sig}] = callable
			}
		}
	}
	return r
}

// Lookup returns the callable declared as (typeName, signature), or nil when
// the symbol table has no such declaration.
func (r *Resolver) Lookup(typeName, signature string) *Callable {
	return r.table[callableKey{typeName, signature}]
}

// Resolve returns the callable for (typeName, signature). On a miss it
// synthesizes an implicit placeholder from the declaration text and caches
// it, so repeated queries for the same unknown callable share one record.
func (r *Resolver) Resolve(typeName, signature, declaration string) *Callable {
	key := callableKey{typeName, signature}
	if c, ok := r.table[key]; ok {
		return c
	}
	c := &Callable{
		Signature:       signature,
		Declaration:     declaration,
		IsImplicit:      true,
		IsConstructor:   strings.Contains(declaration, "<init>"),
		Parameters:      placeholderParameters(declaration),
		Comments:        []Comment{},
		Annotations:     []string{},
		Modifiers:       []string{},
		Code:            "",
		StartLine:       -1,
		EndLine:         -1,
		ReferencedTypes: []string{},
		AccessedFields:  []string{},
		CallSites:       []CallSite{},
	}
	r.table[key] = c
	return c
}

// placeholderParameters derives parameter records from the parenthesized
// type list of a declaration such as "foo(int, java.lang.String)".
func placeholderParameters(declaration string) []Parameter {
	open := strings.Index(declaration, "(")
	close_ := strings.LastIndex(declaration, ")")
	if open < 0 || close_ <= open {
		return nil
	}
	inner := strings.TrimSpace(declaration[open+1 : close_])
	if inner == "" {
		return nil
	}
	parts := strings.Split(inner, ",")
	params := make([]Parameter, 0, len(parts))
	for _, p := range parts {
		params = append(params, Parameter{Type: strings.TrimSpace(p)})
	}
	return params
}
