// Package cfe builds a symbol-table-level application model for C sources
// using tree-sitter. Each translation unit becomes one compilation unit
// whose functions hang off a pseudo-type named after the file, since C has
// no class structure to key on.
package cfe

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

// Frontend extracts C compilation units.
type Frontend struct {
	cfg   *config.Config
	cache *cache.Cache
	sc    *scanner.Scanner
}

// New creates a C frontend.
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

// Analyze builds the application model for every C file under projectDir.
func (f *Frontend) Analyze(ctx context.Context, projectDir string) (*models.Application, error) {
	files, err := f.sc.ScanDir(projectDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", projectDir, err)
	}
	files = f.sc.FilterByLanguage(files, parser.LangC)

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
	unit, err := extract(p, []byte(source), path)
	if err != nil {
		return nil, err
	}
	return &models.Application{
		SymbolTable: map[string]*models.CompilationUnit{path: unit},
	}, nil
}

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
	unit, err := extract(p, source, rel)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(unit); err == nil {
		_ = f.cache.Set(rel, hash, data)
	}
	return unit, nil
}

// unitName normalizes path separators so keys are stable across platforms.
func unitName(rel string) string {
	return strings.ReplaceAll(rel, string(filepath.Separator), "/")
}

func extract(p *parser.Parser, source []byte, rel string) (*models.CompilationUnit, error) {
	res, err := p.Parse(source, parser.LangC, rel)
	if err != nil {
		return nil, err
	}
	defer res.Tree.Close()
	root := res.Tree.RootNode()

	unit := &models.CompilationUnit{
		FilePath:         rel,
		Comments:         comments(root, source),
		Imports:          includes(root, source),
		TypeDeclarations: make(map[string]*models.Type),
	}

	fileType := &models.Type{
		CallableDeclarations: make(map[string]*models.Callable),
	}
	for _, node := range parser.FindNodesByType(root, source, "function_definition") {
		c := callableFrom(node, source)
		if c.Signature == "" {
			continue
		}
		c.IsEntrypoint = c.Signature == "main"
		fileType.CallableDeclarations[c.Signature] = c
	}
	for _, node := range parser.FindNodesByType(root, source, "struct_specifier") {
		name := parser.NodeText(node.ChildByFieldName("name"), source)
		if name == "" || node.ChildByFieldName("body") == nil {
			continue
		}
		unit.TypeDeclarations["struct "+name] = &models.Type{
			IsConcreteClass:      true,
			CallableDeclarations: map[string]*models.Callable{},
			FieldDeclarations:    structFields(node, source),
		}
	}

	fileType.IsEntrypointClass = fileType.CallableDeclarations["main"] != nil
	unit.TypeDeclarations[unitName(rel)] = fileType
	return unit, nil
}

func includes(root *sitter.Node, source []byte) []string {
	out := []string{}
	for _, node := range parser.FindNodesByType(root, source, "preproc_include") {
		if path := node.ChildByFieldName("path"); path != nil {
			out = append(out, parser.NodeText(path, source))
		}
	}
	return out
}

func comments(root *sitter.Node, source []byte) []models.Comment {
	out := []models.Comment{}
	for _, node := range parser.FindNodesByType(root, source, "comment") {
		text := parser.NodeText(node, source)
		out = append(out, models.Comment{
			Content:     text,
			StartLine:   int(node.StartPoint().Row) + 1,
			EndLine:     int(node.EndPoint().Row) + 1,
			StartColumn: int(node.StartPoint().Column) + 1,
			EndColumn:   int(node.EndPoint().Column) + 1,
			IsJavadoc:   strings.HasPrefix(text, "/**"),
		})
	}
	return out
}

func structFields(node *sitter.Node, source []byte) []models.Field {
	fields := []models.Field{}
	body := node.ChildByFieldName("body")
	if body == nil {
		return fields
	}
	for i := range int(body.NamedChildCount()) {
		decl := body.NamedChild(i)
		if decl.Type() != "field_declaration" {
			continue
		}
		field := models.Field{
			Type:      parser.NodeText(decl.ChildByFieldName("type"), source),
			StartLine: int(decl.StartPoint().Row) + 1,
			EndLine:   int(decl.EndPoint().Row) + 1,
		}
		if d := decl.ChildByFieldName("declarator"); d != nil {
			field.Variables = []string{parser.NodeText(d, source)}
		}
		fields = append(fields, field)
	}
	return fields
}

// callableFrom builds a callable for a function definition. Signatures are
// bare function names, matching how call expressions name their targets.
func callableFrom(node *sitter.Node, source []byte) *models.Callable {
	declarator := node.ChildByFieldName("declarator")
	name := functionName(declarator, source)

	c := &models.Callable{
		Signature:   name,
		Declaration: declarationOf(node, source),
		ReturnType:  parser.NodeText(node.ChildByFieldName("type"), source),
		Code:        parser.NodeText(node, source),
		StartLine:   int(node.StartPoint().Row) + 1,
		EndLine:     int(node.EndPoint().Row) + 1,
	}
	if declarator != nil {
		if params := findParameterList(declarator); params != nil {
			for i := range int(params.NamedChildCount()) {
				p := params.NamedChild(i)
				if p.Type() != "parameter_declaration" {
					continue
				}
				c.Parameters = append(c.Parameters, models.Parameter{
					Name:      parser.NodeText(p.ChildByFieldName("declarator"), source),
					Type:      parser.NodeText(p.ChildByFieldName("type"), source),
					StartLine: int(p.StartPoint().Row) + 1,
					EndLine:   int(p.EndPoint().Row) + 1,
				})
			}
		}
	}
	if body := node.ChildByFieldName("body"); body != nil {
		c.CodeStartLine = int(body.StartPoint().Row) + 1
		c.CallSites = callSites(body, source)
	}
	return c
}

// functionName digs through pointer and parenthesized declarators to the
// identifier.
func functionName(declarator *sitter.Node, source []byte) string {
	for declarator != nil {
		switch declarator.Type() {
		case "function_declarator":
			declarator = declarator.ChildByFieldName("declarator")
		case "pointer_declarator", "parenthesized_declarator":
			declarator = declarator.ChildByFieldName("declarator")
		case "identifier":
			return parser.NodeText(declarator, source)
		default:
			return ""
		}
	}
	return ""
}

func findParameterList(declarator *sitter.Node) *sitter.Node {
	for declarator != nil {
		if declarator.Type() == "function_declarator" {
			return declarator.ChildByFieldName("parameters")
		}
		declarator = declarator.ChildByFieldName("declarator")
	}
	return nil
}

func callSites(body *sitter.Node, source []byte) []models.CallSite {
	sites := []models.CallSite{}
	parser.Walk(body, source, func(node *sitter.Node, src []byte) bool {
		if node.Type() != "call_expression" {
			return true
		}
		fn := node.ChildByFieldName("function")
		if fn == nil || fn.Type() != "identifier" {
			return true
		}
		site := models.CallSite{
			MethodName:  parser.NodeText(fn, src),
			StartLine:   int(node.StartPoint().Row) + 1,
			EndLine:     int(node.EndPoint().Row) + 1,
			StartColumn: int(node.StartPoint().Column) + 1,
			EndColumn:   int(node.EndPoint().Column) + 1,
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

// declarationOf is the function header without its body.
func declarationOf(node *sitter.Node, source []byte) string {
	text := parser.NodeText(node, source)
	if body := node.ChildByFieldName("body"); body != nil {
		offset := body.StartByte() - node.StartByte()
		if int(offset) <= len(text) {
			return strings.TrimSpace(text[:offset])
		}
	}
	return text
}
