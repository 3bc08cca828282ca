package curation

import (
	"strings"

	"github.com/ravi-parthasarathy/curator/pkg/workflow"
)

// Band awards Score when the node count falls within [Low, High].
// High == 0 means no upper bound. Bands are evaluated in order; the first
// match wins.
type Band struct {
	Low, High int
	Score     int
}

// Weights is one named scoring profile. Every heuristic is individually
// capped so no single factor can dominate the total.
type Weights struct {
	Base  int
	Bands []Band

	// Connection density: ConnWeight per wired port, capped at ConnCap.
	ConnWeight, ConnCap int

	// Type diversity: TypeWeight per distinct node type, capped at TypeCap.
	// NamespacedOnly restricts the count to types carrying the built-in
	// namespace prefix (which is stripped before counting).
	TypeWeight, TypeCap int
	NamespacedOnly      bool

	TriggerBonus int
	NameBonus    int
	DescBonus    int

	// Max caps the final score; 0 means uncapped.
	Max int
}

var (
	// ArchetypeWeights biases archetype selection toward moderate, readable
	// workflows: a 4-10 node sweet spot, wiring richness, integration breadth
	// and an entry-point trigger.
	ArchetypeWeights = Weights{
		Bands: []Band{
			{Low: 4, High: 10, Score: 30},
			{Low: 11, High: 20, Score: 20},
			{Low: 21, High: 0, Score: 10},
			{Low: 0, High: 3, Score: 5},
		},
		ConnWeight: 5, ConnCap: 30,
		TypeWeight: 5, TypeCap: 25,
		NamespacedOnly: true,
		TriggerBonus:   15,
		NameBonus:      5,
		DescBonus:      5,
	}

	// QualityWeights is the dataset-filter variant: a 50-point base with
	// smaller per-heuristic increments, clamped to 100.
	QualityWeights = Weights{
		Base: 50,
		Bands: []Band{
			{Low: 5, High: 12, Score: 10},
		},
		ConnWeight: 2, ConnCap: 15,
		TypeWeight: 3, TypeCap: 15,
		NameBonus:  5,
		DescBonus:  5,
		Max:        100,
	}
)

// Score computes the heuristic quality score of a workflow under the given
// weights. Pure and deterministic: identical input always yields the same
// integer, bounded by the sum of the profile's caps (or Weights.Max).
func Score(w *workflow.Workflow, weights Weights) int {
	score := weights.Base

	nodeCount := len(w.Nodes)
	for _, b := range weights.Bands {
		if nodeCount >= b.Low && (b.High == 0 || nodeCount <= b.High) {
			score += b.Score
			break
		}
	}

	score += capped(w.ConnectionCount()*weights.ConnWeight, weights.ConnCap)
	score += capped(typeDiversity(w, weights.NamespacedOnly)*weights.TypeWeight, weights.TypeCap)

	if weights.TriggerBonus > 0 && w.HasTrigger() {
		score += weights.TriggerBonus
	}
	if weights.NameBonus > 0 && w.Name != "" {
		score += weights.NameBonus
	}
	if weights.DescBonus > 0 && w.Description != "" {
		score += weights.DescBonus
	}

	if weights.Max > 0 && score > weights.Max {
		score = weights.Max
	}
	return score
}

// typeDiversity counts distinct node type tags. With namespacedOnly set,
// only tags carrying the built-in prefix are counted (prefix stripped).
func typeDiversity(w *workflow.Workflow, namespacedOnly bool) int {
	seen := make(map[string]bool)
	for _, n := range w.Nodes {
		t := n.Type
		if namespacedOnly {
			if !strings.Contains(t, workflow.TypePrefix) {
				continue
			}
			t = strings.TrimPrefix(t, workflow.TypePrefix)
		}
		if t != "" {
			seen[t] = true
		}
	}
	return len(seen)
}

func capped(v, limit int) int {
	if limit > 0 && v > limit {
		return limit
	}
	return v
}
