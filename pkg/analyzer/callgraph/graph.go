package callgraph

import (
	"encoding/json"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/kmehta/codescope/pkg/models"
	"github.com/kmehta/codescope/pkg/query"
)

// Graph is a directed call graph over (signature, class) nodes. Parallel
// edges of the same kind between the same pair of nodes are merged; nodes
// and edges keep insertion order so traversals are deterministic.
type Graph struct {
	details map[NodeKey]models.MethodDetail
	order   []NodeKey

	edges     []*mergedEdge
	edgeIndex map[edgeKey]*mergedEdge
	out       map[NodeKey][]*mergedEdge
	in        map[NodeKey][]*mergedEdge
}

// edgeKey identifies a merged edge. Kind is part of the key so a CALL_DEP
// and a CONTROL_DEP edge between the same endpoints stay distinct.
type edgeKey struct {
	source, target NodeKey
	kind           string
}

type mergedEdge struct {
	source, target NodeKey
	kind           string
	rawCount       int
	lines          []int
	linesKnown     bool
}

func newGraph() *Graph {
	return &Graph{
		details:   make(map[NodeKey]models.MethodDetail),
		edgeIndex: make(map[edgeKey]*mergedEdge),
		out:       make(map[NodeKey][]*mergedEdge),
		in:        make(map[NodeKey][]*mergedEdge),
	}
}

func (g *Graph) addNode(key NodeKey, detail models.MethodDetail) {
	if _, ok := g.details[key]; ok {
		return
	}
	g.details[key] = detail
	g.order = append(g.order, key)
}

// addEdge records one raw edge, merging it into any existing edge of the
// same kind between the same endpoints. Calling lines accumulate as a
// deduplicated union.
func (g *Graph) addEdge(source, target NodeKey, kind string, lines []int, linesKnown bool) {
	key := edgeKey{source: source, target: target, kind: kind}
	e, ok := g.edgeIndex[key]
	if !ok {
		e = &mergedEdge{source: source, target: target, kind: kind}
		g.edgeIndex[key] = e
		g.edges = append(g.edges, e)
		g.out[source] = append(g.out[source], e)
		g.in[target] = append(g.in[target], e)
	}
	e.rawCount++
	if linesKnown {
		e.linesKnown = true
		e.lines = query.SortedLines(append(e.lines, lines...))
	}
}

func (e *mergedEdge) weight() int {
	if e.linesKnown && len(e.lines) > 0 {
		return len(e.lines)
	}
	return e.rawCount
}

func (e *mergedEdge) callingLines() []int {
	if e.lines == nil {
		return []int{}
	}
	return e.lines
}

// HasNode reports whether (signature, class) is a node of the graph.
func (g *Graph) HasNode(key NodeKey) bool {
	_, ok := g.details[key]
	return ok
}

// Detail returns the method detail attached to a node.
func (g *Graph) Detail(key NodeKey) (models.MethodDetail, bool) {
	d, ok := g.details[key]
	return d, ok
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.order))
	for _, key := range g.order {
		nodes = append(nodes, Node{Key: key, Detail: g.details[key]})
	}
	return nodes
}

// Edges returns every merged edge in insertion order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, Edge{
			Source:       e.source,
			Target:       e.target,
			Kind:         e.kind,
			Weight:       e.weight(),
			CallingLines: e.callingLines(),
		})
	}
	return edges
}

// Callers returns every inbound edge of the given node. A node absent from
// the graph yields an empty result.
func (g *Graph) Callers(key NodeKey) *CallersResult {
	result := &CallersResult{CallerDetails: []CallerInfo{}}
	detail, ok := g.details[key]
	if !ok {
		return result
	}
	result.TargetMethod = &detail
	for _, e := range g.in[key] {
		result.CallerDetails = append(result.CallerDetails, CallerInfo{
			CallerMethod: g.details[e.source],
			CallingLines: e.callingLines(),
		})
	}
	return result
}

// Callees returns every outbound edge of the given node. A node absent from
// the graph yields an empty result.
func (g *Graph) Callees(key NodeKey) *CalleesResult {
	result := &CalleesResult{CalleeDetails: []CalleeInfo{}}
	detail, ok := g.details[key]
	if !ok {
		return result
	}
	result.SourceMethod = &detail
	for _, e := range g.out[key] {
		result.CalleeDetails = append(result.CalleeDetails, CalleeInfo{
			CalleeMethod: g.details[e.target],
			CallingLines: e.callingLines(),
		})
	}
	return result
}

// ClassEdges returns the outbound edges of every node declared on the given
// class, or of a single (signature, class) node when signature is non-empty.
func (g *Graph) ClassEdges(qualifiedClass, signature string) []EdgePair {
	pairs := []EdgePair{}
	for _, key := range g.order {
		if key.Klass != qualifiedClass {
			continue
		}
		if signature != "" && key.Signature != signature {
			continue
		}
		for _, e := range g.out[key] {
			pairs = append(pairs, EdgePair{
				Source: g.details[e.source],
				Target: g.details[e.target],
			})
		}
	}
	return pairs
}

// Serialize exports the graph as a JSON array of edges with method bodies
// and calling lines.
func (g *Graph) Serialize() ([]byte, error) {
	out := make([]SerializedEdge, 0, len(g.edges))
	for _, e := range g.edges {
		src := g.details[e.source]
		tgt := g.details[e.target]
		out = append(out, SerializedEdge{
			SourceMethodSignature: e.source.Signature,
			SourceMethodBody:      methodBody(src),
			SourceClass:           e.source.Klass,
			TargetMethodSignature: e.target.Signature,
			TargetMethodBody:      methodBody(tgt),
			TargetClass:           e.target.Klass,
			CallingLines:          e.callingLines(),
		})
	}
	return json.Marshal(out)
}

func methodBody(d models.MethodDetail) string {
	if d.Method == nil {
		return ""
	}
	return d.Method.Code
}

// Cycles returns the strongly connected components of the graph that form
// cycles: components with more than one node, plus single nodes carrying a
// self-loop. Each component's nodes are sorted for stable output.
func (g *Graph) Cycles() [][]NodeKey {
	directed := simple.NewDirectedGraph()
	toID := make(map[NodeKey]int64, len(g.order))
	fromID := make(map[int64]NodeKey, len(g.order))
	for i, key := range g.order {
		id := int64(i + 1)
		toID[key] = id
		fromID[id] = key
		directed.AddNode(simple.Node(id))
	}
	selfLoops := make(map[NodeKey]bool)
	for _, e := range g.edges {
		if e.source == e.target {
			selfLoops[e.source] = true
			continue
		}
		directed.SetEdge(simple.Edge{F: simple.Node(toID[e.source]), T: simple.Node(toID[e.target])})
	}

	var cycles [][]NodeKey
	for _, scc := range topo.TarjanSCC(directed) {
		if len(scc) < 2 {
			key := fromID[scc[0].ID()]
			if !selfLoops[key] {
				continue
			}
			cycles = append(cycles, []NodeKey{key})
			continue
		}
		keys := make([]NodeKey, 0, len(scc))
		for _, n := range scc {
			keys = append(keys, fromID[n.ID()])
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Klass != keys[j].Klass {
				return keys[i].Klass < keys[j].Klass
			}
			return keys[i].Signature < keys[j].Signature
		})
		cycles = append(cycles, keys)
	}
	sort.Slice(cycles, func(i, j int) bool {
		if cycles[i][0].Klass != cycles[j][0].Klass {
			return cycles[i][0].Klass < cycles[j][0].Klass
		}
		return cycles[i][0].Signature < cycles[j][0].Signature
	})
	return cycles
}
