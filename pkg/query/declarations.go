package query

import "strings"

// DeclarationTexts returns the full text of every capture of pattern, in
// document order.
func (j *Java) declarationTexts(source, pattern string) []string {
	captures, err := j.eng.Capture(source, pattern)
	if err != nil {
		return nil
	}
	texts := make([]string, 0, len(captures))
	for _, c := range captures {
		texts = append(texts, c.Text)
	}
	return texts
}

// FieldDeclarations returns every field declaration in source.
func (j *Java) FieldDeclarations(source string) []string {
	return j.declarationTexts(source, "((field_declaration) @field)")
}

// ConstructorDeclarations returns every constructor declaration in source.
func (j *Java) ConstructorDeclarations(source string) []string {
	return j.declarationTexts(source, "((constructor_declaration) @constructor)")
}

// MethodDeclarations returns every method declaration in source.
func (j *Java) MethodDeclarations(source string) []string {
	return j.declarationTexts(source, "((method_declaration) @method)")
}

// ImportDeclarations returns every import declaration in source.
func (j *Java) ImportDeclarations(source string) []string {
	return j.declarationTexts(source, "((import_declaration) @import)")
}

// IsWildcardImport reports whether an import declaration ends in an
// asterisk.
func (j *Java) IsWildcardImport(importDecl string) bool {
	captures, err := j.eng.Capture(importDecl, "((asterisk) @wildcard)")
	return err == nil && len(captures) > 0
}

// ImportedPath returns the scoped identifier of an import declaration, or
// "" when none parses.
func (j *Java) ImportedPath(importDecl string) string {
	return j.eng.FirstText(importDecl, "((scoped_identifier) @path)")
}

// ImportedSimpleName returns the last dotted segment of an import
// declaration's path.
func (j *Java) ImportedSimpleName(importDecl string) string {
	path := j.ImportedPath(importDecl)
	if path == "" {
		return ""
	}
	parts := strings.Split(path, ".")
	return parts[len(parts)-1]
}

// ClassDeclarations maps each class declared in source, at any nesting
// depth, to its full declaration text.
func (j *Java) ClassDeclarations(source string) map[string]string {
	classes := make(map[string]string)
	for _, text := range j.declarationTexts(source, "((class_declaration) @class)") {
		if name := j.ClassName(text); name != "" {
			classes[name] = text
		}
	}
	return classes
}

// InnerClassDeclarations returns the class declarations nested directly in
// a class body.
func (j *Java) InnerClassDeclarations(source string) []string {
	return j.declarationTexts(source, "(class_body (class_declaration) @class)")
}
