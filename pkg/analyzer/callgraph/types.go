package callgraph

import "github.com/kmehta/codescope/pkg/models"

// NodeKey identifies a call graph node by method signature and declaring
// class.
type NodeKey struct {
	Signature string `json:"signature"`
	Klass     string `json:"klass"`
}

// Node is a call graph node together with its resolved method detail.
type Node struct {
	Key    NodeKey             `json:"key"`
	Detail models.MethodDetail `json:"detail"`
}

// Edge is a merged call graph edge. Weight counts the distinct call sites
// realizing the edge; CallingLines holds their 1-based line numbers within
// the source method body when known.
type Edge struct {
	Source       NodeKey `json:"source"`
	Target       NodeKey `json:"target"`
	Kind         string  `json:"type"`
	Weight       int     `json:"weight"`
	CallingLines []int   `json:"calling_lines"`
}

// EdgePair is one directed edge expressed as resolved method details, used
// by class-scoped graph views.
type EdgePair struct {
	Source models.MethodDetail `json:"source"`
	Target models.MethodDetail `json:"target"`
}

// CallerInfo is one inbound edge of a target method.
type CallerInfo struct {
	CallerMethod models.MethodDetail `json:"caller_method"`
	CallingLines []int               `json:"calling_lines"`
}

// CallersResult lists every caller of a target method. TargetMethod is nil
// when the method is not a node of the graph.
type CallersResult struct {
	CallerDetails []CallerInfo         `json:"caller_details"`
	TargetMethod  *models.MethodDetail `json:"target_method,omitempty"`
}

// CalleeInfo is one outbound edge of a source method.
type CalleeInfo struct {
	CalleeMethod models.MethodDetail `json:"callee_method"`
	CallingLines []int               `json:"calling_lines"`
}

// CalleesResult lists every callee of a source method. SourceMethod is nil
// when the method is not a node of the graph.
type CalleesResult struct {
	CalleeDetails []CalleeInfo         `json:"callee_details"`
	SourceMethod  *models.MethodDetail `json:"source_method,omitempty"`
}

// SerializedEdge is the JSON export shape of one call graph edge.
type SerializedEdge struct {
	SourceMethodSignature string `json:"source_method_signature"`
	SourceMethodBody      string `json:"source_method_body"`
	SourceClass           string `json:"source_class"`
	TargetMethodSignature string `json:"target_method_signature"`
	TargetMethodBody      string `json:"target_method_body"`
	TargetClass           string `json:"target_class"`
	CallingLines          []int  `json:"calling_lines"`
}
