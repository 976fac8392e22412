// Package callgraph builds and queries method-level call graphs from an
// analyzed application. Two modes are supported: graph mode, which consumes
// the edges a call-graph-level analysis produced, and symbol table mode,
// which derives edges on demand from the call sites recorded on each
// callable.
package callgraph

import (
	"fmt"

	"github.com/kmehta/codescope/pkg/models"
	"github.com/kmehta/codescope/pkg/query"
)

// UnsupportedModeError reports a graph-mode operation against an application
// analyzed only at symbol table level.
type UnsupportedModeError struct {
	Operation string
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("%s requires a call-graph-level analysis; this application was analyzed at symbol table level", e.Operation)
}

// Analyzer answers call graph queries against one application.
type Analyzer struct {
	app   *models.Application
	jq    *query.Java
	graph *Graph

	includeControlDeps bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithControlDependencies includes CONTROL_DEP edges alongside CALL_DEP
// edges when building the graph.
func WithControlDependencies() Option {
	return func(a *Analyzer) {
		a.includeControlDeps = true
	}
}

// New creates a call graph analyzer for the given application.
func New(app *models.Application, opts ...Option) (*Analyzer, error) {
	jq, err := query.NewJava()
	if err != nil {
		return nil, fmt.Errorf("initializing structural queries: %w", err)
	}
	a := &Analyzer{app: app, jq: jq}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Close releases the analyzer's parser resources.
func (a *Analyzer) Close() {
	a.jq.Close()
}

// Graph returns the application's call graph, building it on first use.
func (a *Analyzer) Graph() (*Graph, error) {
	if a.graph != nil {
		return a.graph, nil
	}
	if !a.app.HasCallGraph() {
		return nil, &UnsupportedModeError{Operation: "call graph construction"}
	}
	g := newGraph()
	for _, raw := range a.app.GraphEdges() {
		if !a.keepKind(raw.Kind) {
			continue
		}
		source := NodeKey{Signature: raw.Source.Method.Signature, Klass: raw.Source.Klass}
		target := NodeKey{Signature: raw.Target.Method.Signature, Klass: raw.Target.Klass}
		g.addNode(source, raw.Source)
		g.addNode(target, raw.Target)

		// Lines are discoverable only when at least one endpoint has
		// analyzed source behind it.
		var lines []int
		linesKnown := false
		if !raw.Source.Method.IsImplicit || !raw.Target.Method.IsImplicit {
			lines = a.callingLines(raw.Source.Method, raw.Target)
			linesKnown = true
		}
		g.addEdge(source, target, raw.Kind, lines, linesKnown)
	}
	a.graph = g
	return g, nil
}

func (a *Analyzer) keepKind(kind string) bool {
	if kind == models.EdgeCallDep {
		return true
	}
	return a.includeControlDeps && kind == models.EdgeControlDep
}

// callingLines locates the lines in the source body that realize a call to
// the target. Constructor calls are matched by the target's class name in
// object-creation expressions rather than by the <init> signature.
func (a *Analyzer) callingLines(source *models.Callable, target models.MethodDetail) []int {
	if source == nil || target.Method == nil || source.Code == "" {
		return nil
	}
	name := target.Method.Signature
	if target.Method.IsConstructor {
		name = models.ShortName(target.Klass)
	}
	return a.jq.CallingLines(source.Code, name, target.Method.IsConstructor)
}

// Callers returns the callers of (class, signature). With useSymbolTable the
// edges are derived from recorded call sites instead of the analysis graph.
func (a *Analyzer) Callers(qualifiedClass, signature string, useSymbolTable bool) (*CallersResult, error) {
	var g *Graph
	var err error
	if useSymbolTable {
		g = a.symbolTableGraph(qualifiedClass, signature, true)
	} else {
		g, err = a.Graph()
		if err != nil {
			return nil, err
		}
	}
	return g.Callers(NodeKey{Signature: signature, Klass: qualifiedClass}), nil
}

// Callees returns the callees of (class, signature). With useSymbolTable the
// edges are derived from recorded call sites instead of the analysis graph.
func (a *Analyzer) Callees(qualifiedClass, signature string, useSymbolTable bool) (*CalleesResult, error) {
	var g *Graph
	var err error
	if useSymbolTable {
		g = a.symbolTableGraph(qualifiedClass, signature, false)
	} else {
		g, err = a.Graph()
		if err != nil {
			return nil, err
		}
	}
	return g.Callees(NodeKey{Signature: signature, Klass: qualifiedClass}), nil
}

// ClassGraph returns the outbound edges of every method of a class, or of
// one method when signature is non-empty.
func (a *Analyzer) ClassGraph(qualifiedClass, signature string) ([]EdgePair, error) {
	g, err := a.Graph()
	if err != nil {
		return nil, err
	}
	return g.ClassEdges(qualifiedClass, signature), nil
}

// ClassGraphUsingSymbolTable is ClassGraph derived from recorded call sites.
// Type resolution is bounded by what the symbol table can see, so the result
// may be incomplete compared to graph mode.
func (a *Analyzer) ClassGraphUsingSymbolTable(qualifiedClass, signature string) []EdgePair {
	if signature != "" {
		g := a.symbolTableGraph(qualifiedClass, signature, false)
		return g.ClassEdges(qualifiedClass, signature)
	}
	g := newGraph()
	for sig := range a.app.MethodsInClass(qualifiedClass) {
		a.deriveSourceRooted(g, qualifiedClass, sig)
	}
	return g.ClassEdges(qualifiedClass, "")
}

// SerializeGraph exports the call graph as JSON.
func (a *Analyzer) SerializeGraph() ([]byte, error) {
	g, err := a.Graph()
	if err != nil {
		return nil, err
	}
	return g.Serialize()
}

// Cycles returns the call graph's cyclic strongly connected components.
func (a *Analyzer) Cycles() ([][]NodeKey, error) {
	g, err := a.Graph()
	if err != nil {
		return nil, err
	}
	return g.Cycles(), nil
}

// symbolTableGraph derives a graph from call sites. When isTargetMethod is
// set, (class, signature) is the callee and the whole application is scanned
// for matching call sites; otherwise it is the caller and only its own call
// sites are scanned.
func (a *Analyzer) symbolTableGraph(qualifiedClass, signature string, isTargetMethod bool) *Graph {
	g := newGraph()
	if isTargetMethod {
		a.deriveTargetRooted(g, qualifiedClass, signature)
	} else {
		a.deriveSourceRooted(g, qualifiedClass, signature)
	}
	return g
}

// deriveSourceRooted adds one edge per resolvable call site of the given
// method. A call site resolves when its receiver type is a known class
// declaring the callee signature, or, with a blank receiver, when the
// caller's own class declares it.
func (a *Analyzer) deriveSourceRooted(g *Graph, qualifiedClass, signature string) {
	source := a.app.Method(qualifiedClass, signature)
	if source == nil {
		return
	}
	sourceDetail := models.MethodDetail{
		MethodDeclaration: source.Declaration,
		Klass:             qualifiedClass,
		Method:            source,
	}
	for _, site := range source.CallSites {
		var target *models.Callable
		targetClass := ""
		if site.ReceiverType != "" {
			if a.app.Class(site.ReceiverType) != nil {
				if m := a.app.Method(site.ReceiverType, site.CalleeSignature); m != nil {
					target = m
					targetClass = site.ReceiverType
				}
			}
		} else if m := a.app.Method(qualifiedClass, site.CalleeSignature); m != nil {
			target = m
			targetClass = qualifiedClass
		}
		if target == nil {
			continue
		}
		a.addDerivedEdge(g, sourceDetail, models.MethodDetail{
			MethodDeclaration: target.Declaration,
			Klass:             targetClass,
			Method:            target,
		})
	}
}

// deriveTargetRooted scans every method in the application for call sites
// resolving to (qualifiedClass, signature) and adds one edge per caller
// match.
func (a *Analyzer) deriveTargetRooted(g *Graph, qualifiedClass, signature string) {
	target := a.app.Method(qualifiedClass, signature)
	if target == nil {
		return
	}
	targetDetail := models.MethodDetail{
		MethodDeclaration: target.Declaration,
		Klass:             qualifiedClass,
		Method:            target,
	}
	for className := range a.app.AllClasses() {
		for _, method := range a.app.MethodsInClass(className) {
			for _, site := range method.CallSites {
				matched := false
				if site.ReceiverType != "" {
					matched = a.app.Class(site.ReceiverType) != nil &&
						site.CalleeSignature == signature &&
						site.ReceiverType == qualifiedClass
				} else {
					matched = site.CalleeSignature == signature && className == qualifiedClass
				}
				if !matched {
					continue
				}
				a.addDerivedEdge(g, models.MethodDetail{
					MethodDeclaration: method.Declaration,
					Klass:             className,
					Method:            method,
				}, targetDetail)
			}
		}
	}
}

func (a *Analyzer) addDerivedEdge(g *Graph, source, target models.MethodDetail) {
	sourceKey := NodeKey{Signature: source.Method.Signature, Klass: source.Klass}
	targetKey := NodeKey{Signature: target.Method.Signature, Klass: target.Klass}
	g.addNode(sourceKey, source)
	g.addNode(targetKey, target)
	lines := a.callingLines(source.Method, target)
	g.addEdge(sourceKey, targetKey, models.EdgeCallDep, lines, true)
}
