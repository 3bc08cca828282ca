// Package curation implements structural validation, heuristic quality
// scoring and top-K archetype selection over a corpus of workflows.
package curation

import (
	"github.com/ravi-parthasarathy/curator/pkg/workflow"
)

// Reason classifies why a workflow failed structural validation.
type Reason string

const (
	ReasonValid         Reason = "valid"
	ReasonTooFewNodes   Reason = "too_few_nodes"
	ReasonNoConnections Reason = "no_connections"
	ReasonOrphanNodes   Reason = "orphan_nodes"
	ReasonNoTrigger     Reason = "no_trigger"
)

// Profile is one named set of structural acceptance thresholds. The corpus
// scripts historically disagreed on which thresholds are authoritative, so
// both live here as named profiles and every call site picks one explicitly.
type Profile struct {
	// MinNodes is the minimum total node count.
	MinNodes int
	// MinSources is the minimum number of distinct connection source nodes.
	MinSources int
	// ConnectivityRatio is the lower bound on touched-nodes / total-nodes.
	ConnectivityRatio float64
	// RequireTrigger demands at least one trigger-type node.
	RequireTrigger bool
}

var (
	// ArchetypeProfile is the looser skeleton check used during archetype
	// extraction: half the nodes must be wired, no trigger required.
	ArchetypeProfile = Profile{MinNodes: 3, MinSources: 1, ConnectivityRatio: 0.5}

	// QualityProfile is the stricter filter used when building the training
	// dataset: 60% connectivity and an entry-point trigger node.
	QualityProfile = Profile{MinNodes: 3, MinSources: 2, ConnectivityRatio: 0.6, RequireTrigger: true}
)

// Validate checks a workflow's structural connectivity against a profile.
// It is total over the input shape: missing nodes or connections are treated
// as empty collections, never as an error. The returned Reason is
// ReasonValid exactly when ok is true.
func Validate(w *workflow.Workflow, p Profile) (bool, Reason) {
	if len(w.Nodes) < p.MinNodes {
		return false, ReasonTooFewNodes
	}
	if len(w.Connections) < p.MinSources || len(w.Connections) == 0 {
		return false, ReasonNoConnections
	}

	touched := w.TouchedNodes()
	if float64(len(touched)) < float64(len(w.Nodes))*p.ConnectivityRatio {
		return false, ReasonOrphanNodes
	}

	if p.RequireTrigger && !w.HasTrigger() {
		return false, ReasonNoTrigger
	}
	return true, ReasonValid
}
