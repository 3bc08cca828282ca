package synth

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"

	"github.com/ravi-parthasarathy/curator/pkg/workflow"
)

// defaultMaxSwaps bounds how many nodes a single variant may replace.
const defaultMaxSwaps = 3

// Generator derives synthetic variants from an archetype by substituting
// compatible node types. Substitution changes node identity only (type tag
// and display name). Edges, port structure and node identifiers are preserved
// bit-for-bit across every variant.
type Generator struct {
	Table Table
	// MaxSwaps bounds substitutions per variant; <= 0 uses the default of 3.
	MaxSwaps int
}

// swappable records one replaceable node position and its candidate keys.
type swappable struct {
	index      int
	candidates []string
}

// Generate produces up to count variants of the archetype, drawing all random
// choices from rng. The archetype is never mutated; each variant is built
// from a deep copy with a sparse set of node replacements applied. An
// archetype with no swappable node yields zero variants, which is a
// legitimate outcome rather than an error.
//
// Determinism: the same archetype, table, count and rng seed always produce
// an identical variant list.
func (g *Generator) Generate(arch *workflow.Workflow, count int, rng *rand.Rand) []*workflow.Workflow {
	var swaps []swappable
	for i, n := range arch.Nodes {
		if cands := g.Table.Candidates(n.Type); len(cands) > 0 {
			swaps = append(swaps, swappable{index: i, candidates: cands})
		}
	}
	if len(swaps) == 0 {
		return nil
	}

	maxSwaps := g.MaxSwaps
	if maxSwaps <= 0 {
		maxSwaps = defaultMaxSwaps
	}

	baseName := arch.Name
	if baseName == "" {
		baseName = "Workflow"
	}
	sourceName := arch.Name
	if sourceName == "" {
		sourceName = "unknown"
	}

	variants := make([]*workflow.Workflow, 0, count)
	for v := 0; v < count; v++ {
		next := arch.Clone()

		limit := maxSwaps
		if len(swaps) < limit {
			limit = len(swaps)
		}
		numSwaps := 1 + rng.Intn(limit)
		for _, pick := range rng.Perm(len(swaps))[:numSwaps] {
			s := swaps[pick]
			swapTo := s.candidates[rng.Intn(len(s.candidates))]
			next.Nodes[s.index] = swapNode(arch.Nodes[s.index], swapTo)
		}

		next.Name = fmt.Sprintf("%s_v%d", baseName, v+1)
		if next.Meta == nil {
			next.Meta = &workflow.Meta{}
		}
		next.Meta.Generated = true
		next.Meta.SourceArchetype = sourceName

		variants = append(variants, next)
	}
	return variants
}

// swapNode returns a copy of the node rewritten to the replacement key. If
// the original was a trigger and the replacement key does not already read as
// one, a Trigger suffix is re-appended so the node keeps its entry-point role.
// The display name has the old type token replaced textually.
func swapNode(n workflow.Node, swapTo string) workflow.Node {
	oldType := n.Type
	isTrigger := strings.Contains(strings.ToLower(oldType), "trigger")

	newType := workflow.TypePrefix + swapTo
	if isTrigger && !strings.Contains(strings.ToLower(swapTo), "trigger") {
		newType = workflow.TypePrefix + swapTo + "Trigger"
	}

	out := n
	if n.Parameters != nil {
		out.Parameters = append([]byte(nil), n.Parameters...)
	}
	out.Type = newType

	oldToken := oldType
	if i := strings.LastIndex(oldType, "."); i >= 0 {
		oldToken = oldType[i+1:]
	}
	if oldToken != "" {
		out.Name = strings.ReplaceAll(n.Name, oldToken, swapTo)
	}
	return out
}

// SubSeed derives an independent per-archetype seed from a base seed and a
// stable identifier. Parallel generation runs seed one rand.Rand per
// archetype with SubSeed, so the output is reproducible regardless of how
// archetypes are scheduled across workers.
func SubSeed(base int64, id string) int64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return base ^ int64(h.Sum64())
}
