// Package workflow defines the in-memory model of an automation workflow:
// a directed graph of typed nodes connected by ported data-flow edges, in
// the same shape as the on-disk JSON records it is loaded from.
package workflow

import (
	"encoding/json"
	"strings"
)

// TypePrefix is the namespace prefix carried by built-in node type tags.
const TypePrefix = "n8n-nodes-base."

// ConnTarget is one downstream endpoint of an output port.
type ConnTarget struct {
	Node  string `json:"node"`
	Type  string `json:"type,omitempty"`
	Index int    `json:"index"`
}

// Port is the ordered list of targets wired to a single output port.
type Port []ConnTarget

// ConnectionSet holds all "main" output ports of one source node.
type ConnectionSet struct {
	Main []Port `json:"main"`
}

// Meta is the workflow metadata bag.
type Meta struct {
	SemanticLabel   string `json:"semanticLabel,omitempty"`
	Complexity      string `json:"complexity,omitempty"`
	Generated       bool   `json:"generated,omitempty"`
	SourceArchetype string `json:"sourceArchetype,omitempty"`
}

// Node is a single typed unit of work within a workflow. Parameters are
// opaque to the curator and carried through untouched.
type Node struct {
	ID         string          `json:"id,omitempty"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

// Workflow is one automation definition. Connections are keyed by the
// identifier of the source node.
type Workflow struct {
	ID          string                   `json:"id,omitempty"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Nodes       []Node                   `json:"nodes"`
	Connections map[string]ConnectionSet `json:"connections"`
	Meta        *Meta                    `json:"meta,omitempty"`
}

// TouchedNodes returns the set of node identifiers referenced by at least one
// edge, unioning every connection source with every target reachable by
// walking each source's output ports. Dangling targets (references to nodes
// not present in the workflow) are still counted as touched; the caller
// compares against the node list to decide how disconnected the graph is.
func (w *Workflow) TouchedNodes() map[string]bool {
	touched := make(map[string]bool)
	for source, set := range w.Connections {
		touched[source] = true
		for _, port := range set.Main {
			for _, target := range port {
				if target.Node != "" {
					touched[target.Node] = true
				}
			}
		}
	}
	return touched
}

// ConnectionCount returns the total number of wired output ports across all
// source nodes.
func (w *Workflow) ConnectionCount() int {
	n := 0
	for _, set := range w.Connections {
		n += len(set.Main)
	}
	return n
}

// HasTrigger reports whether any node's type tag reads as a trigger
// (case-insensitive substring match).
func (w *Workflow) HasTrigger() bool {
	for _, n := range w.Nodes {
		if strings.Contains(strings.ToLower(n.Type), "trigger") {
			return true
		}
	}
	return false
}

// NodeTypes returns the distinct node type tags in first-seen order, with the
// built-in namespace prefix stripped.
func (w *Workflow) NodeTypes() []string {
	seen := make(map[string]bool)
	var types []string
	for _, n := range w.Nodes {
		t := strings.TrimPrefix(n.Type, TypePrefix)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		types = append(types, t)
	}
	return types
}

// Category returns the workflow's embedded semantic category label, if any.
func (w *Workflow) Category() string {
	if w.Meta == nil {
		return ""
	}
	return w.Meta.SemanticLabel
}
