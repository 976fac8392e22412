// Package pythonfe builds a symbol-table-level application model for Python
// projects using tree-sitter. It has no external engine: call-graph-level
// analysis is out of its reach, so graph queries against its output run in
// symbol table mode.
package pythonfe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kmehta/codescope/internal/cache"
	"github.com/kmehta/codescope/internal/fileproc"
	"github.com/kmehta/codescope/internal/scanner"
	"github.com/kmehta/codescope/pkg/config"
	"github.com/kmehta/codescope/pkg/models"
	"github.com/kmehta/codescope/pkg/parser"
)

// Frontend extracts Python compilation units.
type Frontend struct {
	cfg   *config.Config
	cache *cache.Cache
	sc    *scanner.Scanner
}

// New creates a Python frontend.
func New(cfg *config.Config) (*Frontend, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return &Frontend{cfg: cfg, cache: c, sc: scanner.NewScanner(cfg)}, nil
}

// Analyze builds the application model for every Python file under
// projectDir.
func (f *Frontend) Analyze(ctx context.Context, projectDir string) (*models.Application, error) {
	files, err := f.sc.ScanDir(projectDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", projectDir, err)
	}
	files = f.sc.FilterByLanguage(files, parser.LangPython)

	type unitResult struct {
		path string
		unit *models.CompilationUnit
	}
	results, errs := fileproc.MapFilesWithContext(ctx, files, func(p *parser.Parser, path string) (unitResult, error) {
		rel, err := filepath.Rel(projectDir, path)
		if err != nil {
			rel = path
		}
		unit, err := f.extractUnit(p, path, rel)
		if err != nil {
			return unitResult{}, err
		}
		return unitResult{path: rel, unit: unit}, nil
	}, nil)
	if errs.HasErrors() {
		return nil, errs
	}

	app := &models.Application{SymbolTable: make(map[string]*models.CompilationUnit, len(results))}
	for _, r := range results {
		app.SymbolTable[r.path] = r.unit
	}
	return app, nil
}

// AnalyzeSource builds a single-unit application from source text.
func (f *Frontend) AnalyzeSource(source string, path string) (*models.Application, error) {
	p := parser.New()
	defer p.Close()
	unit, err := extract(p, []byte(source), path, moduleName(path))
	if err != nil {
		return nil, err
	}
	return &models.Application{
		SymbolTable: map[string]*models.CompilationUnit{path: unit},
	}, nil
}

// extractUnit parses one file, consulting the cache first.
func (f *Frontend) extractUnit(p *parser.Parser, path, rel string) (*models.CompilationUnit, error) {
	hash, err := cache.HashFile(path)
	if err != nil {
		return nil, err
	}
	if data, ok := f.cache.Get(rel, hash); ok {
		var unit models.CompilationUnit
		if err := json.Unmarshal(data, &unit); err == nil {
			return &unit, nil
		}
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	unit, err := extract(p, source, rel, moduleName(rel))
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(unit); err == nil {
		_ = f.cache.Set(rel, hash, data)
	}
	return unit, nil
}

// moduleName converts a relative file path to a dotted module name.
func moduleName(rel string) string {
	name := strings.TrimSuffix(rel, filepath.Ext(rel))
	name = strings.ReplaceAll(name, string(filepath.Separator), ".")
	return strings.TrimSuffix(name, ".__init__")
}

func extract(p *parser.Parser, source []byte, rel, module string) (*models.CompilationUnit, error) {
	res, err := p.Parse(source, parser.LangPython, rel)
	if err != nil {
		return nil, err
	}
	defer res.Tree.Close()
	root := res.Tree.RootNode()

	unit := &models.CompilationUnit{
		FilePath:         rel,
		PackageName:      module,
		Comments:         topLevelComments(root, source),
		Imports:          imports(root, source),
		TypeDeclarations: make(map[string]*models.Type),
	}

	// module-level functions live on a pseudo-type named after the module
	moduleType := &models.Type{
		CallableDeclarations: make(map[string]*models.Callable),
	}

	for i := range int(root.ChildCount()) {
		child := root.Child(i)
		switch child.Type() {
		case "function_definition":
			c := callableFrom(child, source)
			moduleType.CallableDeclarations[c.Signature] = c
		case "decorated_definition":
			if def := child.ChildByFieldName("definition"); def != nil && def.Type() == "function_definition" {
				c := callableFrom(def, source)
				c.Annotations = decorators(child, source)
				moduleType.CallableDeclarations[c.Signature] = c
			} else if def != nil && def.Type() == "class_definition" {
				name, t := classFrom(def, source, module)
				unit.TypeDeclarations[name] = t
			}
		case "class_definition":
			name, t := classFrom(child, source, module)
			unit.TypeDeclarations[name] = t
		}
	}
	if len(moduleType.CallableDeclarations) > 0 {
		unit.TypeDeclarations[module] = moduleType
	}
	return unit, nil
}

func imports(root *sitter.Node, source []byte) []string {
	out := []string{}
	for i := range int(root.ChildCount()) {
		child := root.Child(i)
		if child.Type() == "import_statement" || child.Type() == "import_from_statement" {
			out = append(out, parser.NodeText(child, source))
		}
	}
	return out
}

func topLevelComments(root *sitter.Node, source []byte) []models.Comment {
	comments := []models.Comment{}
	for i := range int(root.ChildCount()) {
		child := root.Child(i)
		if child.Type() == "comment" {
			comments = append(comments, commentFrom(child, source, false))
		}
	}
	return comments
}

func commentFrom(node *sitter.Node, source []byte, docstring bool) models.Comment {
	return models.Comment{
		Content:     parser.NodeText(node, source),
		StartLine:   int(node.StartPoint().Row) + 1,
		EndLine:     int(node.EndPoint().Row) + 1,
		StartColumn: int(node.StartPoint().Column) + 1,
		EndColumn:   int(node.EndPoint().Column) + 1,
		IsJavadoc:   docstring,
	}
}

func classFrom(node *sitter.Node, source []byte, module string) (string, *models.Type) {
	name := parser.NodeText(node.ChildByFieldName("name"), source)
	qualified := module + "." + name

	t := &models.Type{
		IsClassOrInterfaceDeclaration: true,
		CallableDeclarations:          make(map[string]*models.Callable),
	}
	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := range int(supers.NamedChildCount()) {
			t.ExtendsList = append(t.ExtendsList, parser.NodeText(supers.NamedChild(i), source))
		}
	}
	if body := node.ChildByFieldName("body"); body != nil {
		if doc := docstringOf(body, source); doc != nil {
			t.Comments = append(t.Comments, *doc)
		}
		for i := range int(body.ChildCount()) {
			member := body.Child(i)
			switch member.Type() {
			case "function_definition":
				c := callableFrom(member, source)
				c.IsConstructor = strings.HasPrefix(c.Signature, "__init__")
				t.CallableDeclarations[c.Signature] = c
			case "decorated_definition":
				if def := member.ChildByFieldName("definition"); def != nil && def.Type() == "function_definition" {
					c := callableFrom(def, source)
					c.IsConstructor = strings.HasPrefix(c.Signature, "__init__")
					c.Annotations = decorators(member, source)
					t.CallableDeclarations[c.Signature] = c
				}
			}
		}
	}
	return qualified, t
}

func decorators(node *sitter.Node, source []byte) []string {
	var out []string
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if child.Type() == "decorator" {
			out = append(out, parser.NodeText(child, source))
		}
	}
	return out
}

// docstringOf returns a block's leading string expression, if any.
func docstringOf(body *sitter.Node, source []byte) *models.Comment {
	if body.NamedChildCount() == 0 {
		return nil
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return nil
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return nil
	}
	c := commentFrom(str, source, true)
	return &c
}

// callableFrom builds a callable for a function definition. Signatures are
// bare function names; Python arity is not part of the key.
func callableFrom(node *sitter.Node, source []byte) *models.Callable {
	name := parser.NodeText(node.ChildByFieldName("name"), source)
	body := node.ChildByFieldName("body")

	c := &models.Callable{
		Signature:   name,
		Declaration: declarationLine(node, source),
		Code:        parser.NodeText(node, source),
		StartLine:   int(node.StartPoint().Row) + 1,
		EndLine:     int(node.EndPoint().Row) + 1,
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := range int(params.NamedChildCount()) {
			p := params.NamedChild(i)
			c.Parameters = append(c.Parameters, parameterFrom(p, source))
		}
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		c.ReturnType = parser.NodeText(ret, source)
	}
	if body != nil {
		c.CodeStartLine = int(body.StartPoint().Row) + 1
		if doc := docstringOf(body, source); doc != nil {
			c.Comments = append(c.Comments, *doc)
		}
		c.CallSites = callSites(body, source)
	}
	return c
}

func parameterFrom(node *sitter.Node, source []byte) models.Parameter {
	p := models.Parameter{
		StartLine:   int(node.StartPoint().Row) + 1,
		EndLine:     int(node.EndPoint().Row) + 1,
		StartColumn: int(node.StartPoint().Column) + 1,
		EndColumn:   int(node.EndPoint().Column) + 1,
	}
	switch node.Type() {
	case "identifier":
		p.Name = parser.NodeText(node, source)
	case "typed_parameter", "typed_default_parameter":
		if node.NamedChildCount() > 0 {
			p.Name = parser.NodeText(node.NamedChild(0), source)
		}
		if typ := node.ChildByFieldName("type"); typ != nil {
			p.Type = parser.NodeText(typ, source)
		}
	case "default_parameter":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			p.Name = parser.NodeText(nameNode, source)
		}
	default:
		p.Name = parser.NodeText(node, source)
	}
	return p
}

// callSites records every call expression in a function body. The receiver
// expression is kept for attribute calls; receiver types are unknown without
// an engine, so they stay blank and resolution happens within the module.
func callSites(body *sitter.Node, source []byte) []models.CallSite {
	sites := []models.CallSite{}
	parser.Walk(body, source, func(node *sitter.Node, src []byte) bool {
		if node.Type() != "call" {
			return true
		}
		fn := node.ChildByFieldName("function")
		if fn == nil {
			return true
		}
		site := models.CallSite{
			StartLine:   int(node.StartPoint().Row) + 1,
			EndLine:     int(node.EndPoint().Row) + 1,
			StartColumn: int(node.StartPoint().Column) + 1,
			EndColumn:   int(node.EndPoint().Column) + 1,
		}
		switch fn.Type() {
		case "identifier":
			site.MethodName = parser.NodeText(fn, src)
		case "attribute":
			site.MethodName = parser.NodeText(fn.ChildByFieldName("attribute"), src)
			site.ReceiverExpr = parser.NodeText(fn.ChildByFieldName("object"), src)
		default:
			return true
		}
		site.CalleeSignature = site.MethodName
		if args := node.ChildByFieldName("arguments"); args != nil {
			for i := range int(args.NamedChildCount()) {
				site.ArgumentExpr = append(site.ArgumentExpr, parser.NodeText(args.NamedChild(i), src))
			}
		}
		sites = append(sites, site)
		return true
	})
	return sites
}

// declarationLine reconstructs the def header without the body.
func declarationLine(node *sitter.Node, source []byte) string {
	name := parser.NodeText(node.ChildByFieldName("name"), source)
	params := ""
	if p := node.ChildByFieldName("parameters"); p != nil {
		params = parser.NodeText(p, source)
	}
	decl := "def " + name + params
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		decl += " -> " + parser.NodeText(ret, source)
	}
	return decl
}
