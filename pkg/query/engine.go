// Package query answers declarative pattern queries over source text.
//
// It is the only place codescope touches tree-sitter query machinery; the
// rest of the toolkit consumes captures (matched nodes with text spans)
// without parsing source itself.
package query

import (
	"fmt"

	"github.com/kmehta/codescope/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Capture is one named match produced by a pattern query.
type Capture struct {
	Name        string
	Text        string
	StartLine   int // 1-based
	EndLine     int
	StartColumn int // 1-based
	EndColumn   int

	node *sitter.Node
}

// Node returns the underlying syntax node for callers that need to walk
// from the capture.
func (c Capture) Node() *sitter.Node { return c.node }

// Engine runs pattern queries against source text in one language.
type Engine struct {
	lang   parser.Language
	tsLang *sitter.Language
	parser *parser.Parser
}

// NewEngine creates a query engine for the given language.
func NewEngine(lang parser.Language) (*Engine, error) {
	tsLang, err := parser.TreeSitterLanguage(lang)
	if err != nil {
		return nil, err
	}
	return &Engine{
		lang:   lang,
		tsLang: tsLang,
		parser: parser.New(),
	}, nil
}

// Language returns the engine's language.
func (e *Engine) Language() parser.Language { return e.lang }

// Capture parses source and returns all captures matching pattern, in
// match order. An empty result is not an error.
func (e *Engine) Capture(source, pattern string) ([]Capture, error) {
	result, err := e.parser.Parse([]byte(source), e.lang, "")
	if err != nil {
		return nil, err
	}

	q, err := sitter.NewQuery([]byte(pattern), e.tsLang)
	if err != nil {
		return nil, fmt.Errorf("invalid query pattern %q: %w", pattern, err)
	}
	defer q.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q, result.Tree.RootNode())

	var captures []Capture
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		for _, c := range match.Captures {
			captures = append(captures, Capture{
				Name:        q.CaptureNameForId(c.Index),
				Text:        parser.NodeText(c.Node, result.Source),
				StartLine:   int(c.Node.StartPoint().Row) + 1,
				EndLine:     int(c.Node.EndPoint().Row) + 1,
				StartColumn: int(c.Node.StartPoint().Column) + 1,
				EndColumn:   int(c.Node.EndPoint().Column) + 1,
				node:        c.Node,
			})
		}
	}
	return captures, nil
}

// FirstText returns the text of the first capture for pattern, or "" when
// nothing matches.
func (e *Engine) FirstText(source, pattern string) string {
	captures, err := e.Capture(source, pattern)
	if err != nil || len(captures) == 0 {
		return ""
	}
	return captures[0].Text
}

// IsParsable reports whether source parses without syntax errors.
func (e *Engine) IsParsable(source string) bool {
	result, err := e.parser.Parse([]byte(source), e.lang, "")
	if err != nil {
		return false
	}
	return !parser.HasSyntaxError(result.Tree.RootNode())
}

// Close releases parser resources.
func (e *Engine) Close() {
	e.parser.Close()
}
