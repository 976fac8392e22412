// Package sanitizer prunes a Java class around a focal method: only the
// focal method and its transitive in-class callees survive, and fields,
// imports, and nested classes nothing reachable still uses are removed.
//
// The pipeline is textual: members selected for removal are deleted from the
// source by exact-text replacement, then the result is re-flowed. Each stage
// feeds the next, so the output of one prune is what the following stage
// inspects.
package sanitizer

import (
	"fmt"
	"strings"

	"github.com/kmehta/codescope/pkg/query"
)

// FocalMethodNotFoundError reports a focal method the class does not
// declare.
type FocalMethodNotFoundError struct {
	Method string
}

func (e *FocalMethodNotFoundError) Error() string {
	return fmt.Sprintf("focal method %q is not declared in the class", e.Method)
}

// Sanitizer prunes one Java source file around a focal method.
type Sanitizer struct {
	source string
	jq     *query.Java
}

// New creates a sanitizer over the given Java source.
func New(source string) (*Sanitizer, error) {
	jq, err := query.NewJava()
	if err != nil {
		return nil, fmt.Errorf("initializing structural queries: %w", err)
	}
	return &Sanitizer{source: source, jq: jq}, nil
}

// Close releases the sanitizer's parser resources.
func (s *Sanitizer) Close() {
	s.jq.Close()
}

// SanitizeFocalClass runs the full pruning pipeline. The focal method may be
// given as a declaration or as a bare method name.
func (s *Sanitizer) SanitizeFocalClass(focalMethod string) (string, error) {
	name := s.jq.MethodName(focalMethod)
	if name == "" {
		name = focalMethod
	}

	code := s.jq.RemoveComments(s.source)
	code, err := s.KeepOnlyFocalMethodAndCallees(code, name)
	if err != nil {
		return "", err
	}
	code = s.RemoveUnusedFields(code)
	code = s.RemoveUnusedImports(code)
	code = s.RemoveUnusedClasses(code)
	return code, nil
}

// KeepOnlyFocalMethodAndCallees removes every method the focal method does
// not transitively reach through in-class calls.
func (s *Sanitizer) KeepOnlyFocalMethodAndCallees(code, focalMethodName string) (string, error) {
	declared := s.jq.DeclaredMethods(code)
	unused, err := s.unusedMethods(focalMethodName, declared)
	if err != nil {
		return "", err
	}
	pruned := code
	for _, body := range unused {
		pruned = replaceAll(pruned, body)
	}
	return query.Tidy(pruned), nil
}

// unusedMethods walks the in-class call graph from the focal method and
// returns the declared methods it never reaches, keyed by name.
func (s *Sanitizer) unusedMethods(focalMethod string, declared map[string]string) (map[string]string, error) {
	if _, ok := declared[focalMethod]; !ok {
		return nil, &FocalMethodNotFoundError{Method: focalMethod}
	}
	unused := make(map[string]string, len(declared))
	for name, body := range declared {
		unused[name] = body
	}

	toProcess := []string{focalMethod}
	processed := make(map[string]bool)
	for len(toProcess) > 0 {
		current := toProcess[len(toProcess)-1]
		toProcess = toProcess[:len(toProcess)-1]
		if processed[current] {
			continue
		}
		body := unused[current]
		delete(unused, current)
		processed[current] = true
		for invoked := range s.jq.CallTargets(body, declared) {
			if !processed[invoked] {
				toProcess = append(toProcess, invoked)
			}
		}
	}
	return unused, nil
}

// RemoveUnusedFields drops field declarations whose variables no surviving
// method or constructor references.
func (s *Sanitizer) RemoveUnusedFields(code string) string {
	used := make(map[string]struct{})
	for _, decl := range s.jq.MethodDeclarations(code) {
		mergeSet(used, s.jq.Identifiers(decl))
	}
	for _, decl := range s.jq.ConstructorDeclarations(code) {
		mergeSet(used, s.jq.Identifiers(decl))
	}

	pruned := code
	for _, field := range s.jq.FieldDeclarations(code) {
		if intersects(s.jq.Identifiers(field), used) {
			continue
		}
		pruned = replaceAll(pruned, field)
	}
	return query.Tidy(pruned)
}

// RemoveUnusedImports drops imports whose simple name no identifier or type
// reference in the pruned class bodies mentions. Wildcard imports always
// survive.
func (s *Sanitizer) RemoveUnusedImports(code string) string {
	used := make(map[string]struct{})
	for _, class := range s.jq.ClassDeclarations(code) {
		mergeSet(used, s.jq.Identifiers(class))
		mergeSet(used, s.jq.TypeInvocations(class))
	}

	pruned := code
	for _, imp := range s.jq.ImportDeclarations(code) {
		if s.jq.IsWildcardImport(imp) {
			continue
		}
		name := s.jq.ImportedSimpleName(imp)
		if name == "" {
			continue
		}
		if _, ok := used[name]; ok {
			continue
		}
		pruned = replaceAll(pruned, imp)
	}
	return query.Tidy(pruned)
}

// RemoveUnusedClasses drops nested classes the outermost class never
// references. Reachability is computed over type references, with inner
// class bodies stripped first so a nested class does not keep itself alive.
func (s *Sanitizer) RemoveUnusedClasses(code string) string {
	classes := s.jq.ClassDeclarations(code)
	if len(classes) == 0 {
		return ""
	}
	focalClass := s.outermostClassName(code)
	if focalClass == "" {
		return ""
	}

	unused := make(map[string]string, len(classes))
	for name, body := range classes {
		unused[name] = body
	}

	toProcess := []string{focalClass}
	processed := make(map[string]bool)
	for len(toProcess) > 0 {
		current := toProcess[len(toProcess)-1]
		toProcess = toProcess[:len(toProcess)-1]
		if processed[current] {
			continue
		}
		body := unused[current]
		delete(unused, current)
		processed[current] = true

		withoutInner := body
		for _, inner := range s.jq.InnerClassDeclarations(body) {
			withoutInner = replaceAll(withoutInner, inner)
		}
		for ref := range s.jq.TypeInvocations(withoutInner) {
			if _, declared := classes[ref]; declared && !processed[ref] {
				toProcess = append(toProcess, ref)
			}
		}
	}

	pruned := code
	for _, body := range unused {
		pruned = replaceAll(pruned, body)
	}
	return query.Tidy(pruned)
}

// outermostClassName returns the name of the first class declared in the
// original source.
func (s *Sanitizer) outermostClassName(code string) string {
	if name := s.jq.ClassName(code); name != "" {
		return name
	}
	return s.jq.ClassName(s.source)
}

// replaceAll deletes every occurrence of a member's exact text.
func replaceAll(code, member string) string {
	return strings.ReplaceAll(code, member, "")
}

func mergeSet(dst map[string]struct{}, src map[string]struct{}) {
	for k := range src {
		dst[k] = struct{}{}
	}
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
