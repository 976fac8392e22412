package query

import (
	"sort"
	"strings"
)

// Java provides the Java-specific structural queries the call graph engine
// and the sanitizer are built on.
type Java struct {
	eng *Engine
}

// NewJava creates a Java query helper.
func NewJava() (*Java, error) {
	eng, err := NewEngine("java")
	if err != nil {
		return nil, err
	}
	return &Java{eng: eng}, nil
}

// Engine exposes the underlying query engine.
func (j *Java) Engine() *Engine { return j.eng }

// Close releases parser resources.
func (j *Java) Close() { j.eng.Close() }

// MethodName extracts the method name from a method declaration.
// Returns "" when the text does not contain a method declaration.
func (j *Java) MethodName(declaration string) string {
	return j.eng.FirstText(declaration, "(method_declaration name: (identifier) @name)")
}

// ClassName returns the name of the first (outermost) class declared in
// source, or "" when there is none.
func (j *Java) ClassName(source string) string {
	return j.eng.FirstText(source, "(class_declaration name: (identifier) @name)")
}

// PackageName returns the declared package, or "".
func (j *Java) PackageName(source string) string {
	text := j.eng.FirstText(source, "((package_declaration) @name)")
	if text == "" {
		return ""
	}
	text = strings.TrimPrefix(text, "package")
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ";"))
}

// Superclass returns the extended class name, or "".
func (j *Java) Superclass(source string) string {
	name := j.eng.FirstText(source, "(class_declaration (superclass (type_identifier) @superclass))")
	if name == "" {
		// class A extends B<C> puts the superclass behind a generic type.
		name = j.eng.FirstText(source, "(class_declaration (superclass (generic_type (type_identifier) @superclass)))")
	}
	return name
}

// Interfaces returns the set of interfaces a class implements.
func (j *Java) Interfaces(source string) map[string]struct{} {
	captures, err := j.eng.Capture(source, "(class_declaration (super_interfaces (type_list (type_identifier) @interface)))")
	if err != nil {
		return nil
	}
	set := make(map[string]struct{}, len(captures))
	for _, c := range captures {
		set[c.Text] = struct{}{}
	}
	return set
}

// DeclaredMethods maps each method name declared in source to the full
// declaration text of its last occurrence.
func (j *Java) DeclaredMethods(source string) map[string]string {
	captures, err := j.eng.Capture(source, "((method_declaration) @method_declaration)")
	if err != nil {
		return nil
	}
	declared := make(map[string]string, len(captures))
	for _, c := range captures {
		if name := j.MethodName(c.Text); name != "" {
			declared[name] = c.Text
		}
	}
	return declared
}

// CallTargets returns the names of declared methods invoked inside body.
func (j *Java) CallTargets(body string, declared map[string]string) map[string]struct{} {
	captures, err := j.eng.Capture(body, "(method_invocation name: (identifier) @method)")
	if err != nil {
		return nil
	}
	targets := make(map[string]struct{})
	for _, c := range captures {
		if _, ok := declared[c.Text]; ok {
			targets[c.Text] = struct{}{}
		}
	}
	return targets
}

// CallingLines returns the 1-based line numbers within sourceMethod at
// which target is called. The target may be a bare name or a signature;
// anything from the first parenthesis on is ignored. When isConstructor is
// true the match is against object-creation expressions instead of method
// invocations.
func (j *Java) CallingLines(sourceMethod, target string, isConstructor bool) []int {
	if sourceMethod == "" {
		return nil
	}
	name := strings.SplitN(target, "(", 2)[0]

	pattern := "(method_invocation name: (identifier) @method_name)"
	if isConstructor {
		pattern = "(object_creation_expression type: (type_identifier) @object_name) " +
			"(object_creation_expression type: (scoped_type_identifier (type_identifier) @type_name))"
	}

	captures, err := j.eng.Capture(sourceMethod, pattern)
	if err != nil {
		return nil
	}
	var lines []int
	for _, c := range captures {
		if c.Text == name {
			lines = append(lines, c.StartLine)
		}
	}
	return lines
}

// Identifiers returns every identifier appearing in source.
func (j *Java) Identifiers(source string) map[string]struct{} {
	return j.captureSet(source, "((identifier) @id)")
}

// TypeInvocations returns every type identifier referenced in source.
func (j *Java) TypeInvocations(source string) map[string]struct{} {
	return j.captureSet(source, "((type_identifier) @type_id)")
}

func (j *Java) captureSet(source, pattern string) map[string]struct{} {
	captures, err := j.eng.Capture(source, pattern)
	if err != nil {
		return nil
	}
	set := make(map[string]struct{}, len(captures))
	for _, c := range captures {
		set[c.Text] = struct{}{}
	}
	return set
}

// RemoveComments strips block and line comments from source and re-flows
// the remaining text.
func (j *Java) RemoveComments(source string) string {
	pruned := source
	for _, pattern := range []string{"((block_comment) @comment)", "((line_comment) @comment)"} {
		captures, err := j.eng.Capture(source, pattern)
		if err != nil {
			continue
		}
		for _, c := range captures {
			pruned = strings.ReplaceAll(pruned, c.Text, "")
		}
	}
	return Tidy(pruned)
}

// Tidy normalizes pruned source: trailing whitespace is trimmed from each
// line, lines left over from comment removal (starting with "/" or "*")
// are dropped, and runs of blank lines collapse to one.
func Tidy(source string) string {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "*") {
			continue
		}
		if trimmed == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// SortedLines sorts and de-duplicates line numbers.
func SortedLines(lines []int) []int {
	if len(lines) == 0 {
		return []int{}
	}
	seen := make(map[int]struct{}, len(lines))
	out := make([]int, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}
