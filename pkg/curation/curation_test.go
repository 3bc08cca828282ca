package curation_test

import (
	"fmt"
	"testing"

	"github.com/ravi-parthasarathy/curator/pkg/curation"
	"github.com/ravi-parthasarathy/curator/pkg/workflow"
)

// chain builds a linear workflow of n nodes with the given types, wiring
// node i to node i+1 on port 0.
func chain(types ...string) *workflow.Workflow {
	w := &workflow.Workflow{
		Name:        "test",
		Connections: map[string]workflow.ConnectionSet{},
	}
	for i, t := range types {
		name := fmt.Sprintf("n%d", i)
		w.Nodes = append(w.Nodes, workflow.Node{Name: name, Type: t})
	}
	for i := 0; i < len(types)-1; i++ {
		from := fmt.Sprintf("n%d", i)
		to := fmt.Sprintf("n%d", i+1)
		w.Connections[from] = workflow.ConnectionSet{
			Main: []workflow.Port{{{Node: to, Type: "main", Index: 0}}},
		}
	}
	return w
}

// ─── Validator ────────────────────────────────────────────────────────────────

func TestValidate_TooFewNodes(t *testing.T) {
	w := chain("n8n-nodes-base.webhook", "n8n-nodes-base.slack")
	ok, reason := curation.Validate(w, curation.ArchetypeProfile)
	if ok || reason != curation.ReasonTooFewNodes {
		t.Errorf("got (%v, %q), want (false, too_few_nodes)", ok, reason)
	}
}

func TestValidate_NoConnections(t *testing.T) {
	w := &workflow.Workflow{
		Nodes: []workflow.Node{
			{Name: "a", Type: "n8n-nodes-base.manualTrigger"},
			{Name: "b", Type: "n8n-nodes-base.set"},
			{Name: "c", Type: "n8n-nodes-base.slack"},
		},
	}
	ok, reason := curation.Validate(w, curation.ArchetypeProfile)
	if ok || reason != curation.ReasonNoConnections {
		t.Errorf("got (%v, %q), want (false, no_connections)", ok, reason)
	}
}

func TestValidate_Totality(t *testing.T) {
	// Structurally incomplete inputs must report, never panic.
	inputs := []*workflow.Workflow{
		{},
		{Nodes: []workflow.Node{{Name: "only"}}},
		{Connections: map[string]workflow.ConnectionSet{"ghost": {}}},
		{Connections: map[string]workflow.ConnectionSet{"x": {Main: []workflow.Port{nil, {}}}}},
	}
	for i, w := range inputs {
		ok, reason := curation.Validate(w, curation.QualityProfile)
		if ok {
			t.Errorf("input %d: structurally empty workflow validated as %q", i, reason)
		}
	}
}

func TestValidate_ProfilesDisagree(t *testing.T) {
	// 5 nodes, 4 mutually connected, one isolated, no trigger: valid under
	// the looser skeleton profile (4/5 >= 0.5), rejected for no_trigger
	// under the stricter one (4/5 >= 0.6 passes connectivity).
	w := chain(
		"n8n-nodes-base.webhook",
		"n8n-nodes-base.set",
		"n8n-nodes-base.slack",
		"n8n-nodes-base.googleSheets",
	)
	w.Nodes = append(w.Nodes, workflow.Node{Name: "orphan", Type: "n8n-nodes-base.noOp"})

	if ok, reason := curation.Validate(w, curation.ArchetypeProfile); !ok {
		t.Errorf("archetype profile rejected with %q, want valid", reason)
	}
	ok, reason := curation.Validate(w, curation.QualityProfile)
	if ok || reason != curation.ReasonNoTrigger {
		t.Errorf("quality profile got (%v, %q), want (false, no_trigger)", ok, reason)
	}
}

func TestValidate_OrphanNodes(t *testing.T) {
	w := chain("n8n-nodes-base.manualTrigger", "n8n-nodes-base.set", "n8n-nodes-base.slack")
	for i := 0; i < 4; i++ {
		w.Nodes = append(w.Nodes, workflow.Node{Name: fmt.Sprintf("loose%d", i), Type: "n8n-nodes-base.noOp"})
	}
	// 3 of 7 touched: below both thresholds.
	ok, reason := curation.Validate(w, curation.QualityProfile)
	if ok || reason != curation.ReasonOrphanNodes {
		t.Errorf("got (%v, %q), want (false, orphan_nodes)", ok, reason)
	}
}

func TestValidate_Monotonicity(t *testing.T) {
	// Wiring a previously-disconnected node can only move invalid -> valid.
	w := chain("n8n-nodes-base.webhook", "n8n-nodes-base.set")
	w.Nodes = append(w.Nodes,
		workflow.Node{Name: "loose0", Type: "n8n-nodes-base.noOp"},
		workflow.Node{Name: "loose1", Type: "n8n-nodes-base.noOp"},
	)
	if ok, _ := curation.Validate(w, curation.ArchetypeProfile); !ok {
		// 2 of 4 touched: exactly at the 0.5 bound, already valid.
		t.Fatal("baseline unexpectedly invalid")
	}

	w.Connections["n1"] = workflow.ConnectionSet{
		Main: []workflow.Port{{{Node: "loose0", Index: 0}}},
	}
	if ok, reason := curation.Validate(w, curation.ArchetypeProfile); !ok {
		t.Errorf("adding an edge flipped valid -> invalid (%q)", reason)
	}
}

// ─── Scorer ───────────────────────────────────────────────────────────────────

func TestScore_Deterministic(t *testing.T) {
	w := chain(
		"n8n-nodes-base.manualTrigger",
		"n8n-nodes-base.hubspot",
		"n8n-nodes-base.slack",
		"n8n-nodes-base.googleSheets",
		"n8n-nodes-base.set",
	)
	first := curation.Score(w, curation.ArchetypeWeights)
	for i := 0; i < 3; i++ {
		if got := curation.Score(w, curation.ArchetypeWeights); got != first {
			t.Fatalf("score changed between calls: %d then %d", first, got)
		}
	}
}

func TestScore_ArchetypeFixedValue(t *testing.T) {
	// 3 connected nodes incl. a manualTrigger:
	//   band(<4)=5 + conns(2*5)=10 + diversity(3*5)=15 + trigger=15 + name=5
	w := chain("n8n-nodes-base.manualTrigger", "n8n-nodes-base.set", "n8n-nodes-base.slack")
	if got := curation.Score(w, curation.ArchetypeWeights); got != 50 {
		t.Errorf("score = %d, want 50", got)
	}
}

func TestScore_SweetSpotBeatsSprawl(t *testing.T) {
	types := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		types = append(types, "n8n-nodes-base.set")
	}
	sprawl := chain(types...)
	moderate := chain(
		"n8n-nodes-base.webhook",
		"n8n-nodes-base.set",
		"n8n-nodes-base.slack",
		"n8n-nodes-base.googleSheets",
		"n8n-nodes-base.hubspot",
	)
	if curation.Score(moderate, curation.ArchetypeWeights) <= curation.Score(sprawl, curation.ArchetypeWeights) {
		t.Error("25-node single-type sprawl outscored a moderate diverse workflow")
	}
}

func TestScore_QualityBounded(t *testing.T) {
	types := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		types = append(types, fmt.Sprintf("n8n-nodes-base.type%d", i))
	}
	w := chain(types...)
	w.Description = "rich"
	if got := curation.Score(w, curation.QualityWeights); got > 100 {
		t.Errorf("quality score %d exceeds cap 100", got)
	}
}

// ─── Selector ─────────────────────────────────────────────────────────────────

func scoredNames(scored []curation.Scored) []string {
	var out []string
	for _, s := range scored {
		out = append(out, s.SourceID)
	}
	return out
}

func TestSelect_RankingAndTruncation(t *testing.T) {
	// Distinct scores: the 6-node diverse workflow must outrank the rest.
	big := chain(
		"n8n-nodes-base.webhook",
		"n8n-nodes-base.hubspot",
		"n8n-nodes-base.slack",
		"n8n-nodes-base.googleSheets",
		"n8n-nodes-base.set",
		"n8n-nodes-base.gmail",
	)
	small := chain("n8n-nodes-base.webhook", "n8n-nodes-base.set", "n8n-nodes-base.slack")
	tiny := chain("n8n-nodes-base.webhook", "n8n-nodes-base.set", "n8n-nodes-base.set")

	sel := &curation.Selector{K: 2, Profile: curation.ArchetypeProfile, Weights: curation.ArchetypeWeights}
	got, stats := sel.Select([]curation.Candidate{
		{Category: "ops", SourceID: "tiny", Workflow: tiny},
		{Category: "ops", SourceID: "big", Workflow: big},
		{Category: "ops", SourceID: "small", Workflow: small},
	})

	if stats.Valid != 3 {
		t.Fatalf("valid = %d, want 3", stats.Valid)
	}
	ops := got["ops"]
	if len(ops) != 2 {
		t.Fatalf("selected %d, want 2 (k truncation)", len(ops))
	}
	if ops[0].SourceID != "big" {
		t.Errorf("top pick = %q, want big (order: %v)", ops[0].SourceID, scoredNames(ops))
	}
	if ops[0].Score < ops[1].Score {
		t.Errorf("not sorted descending: %d then %d", ops[0].Score, ops[1].Score)
	}
}

func TestSelect_StableOnTies(t *testing.T) {
	mk := func() *workflow.Workflow {
		return chain("n8n-nodes-base.webhook", "n8n-nodes-base.set", "n8n-nodes-base.slack")
	}
	sel := &curation.Selector{K: 3, Profile: curation.ArchetypeProfile, Weights: curation.ArchetypeWeights, Parallelism: 4}
	got, _ := sel.Select([]curation.Candidate{
		{Category: "c", SourceID: "first", Workflow: mk()},
		{Category: "c", SourceID: "second", Workflow: mk()},
		{Category: "c", SourceID: "third", Workflow: mk()},
	})
	want := []string{"first", "second", "third"}
	names := scoredNames(got["c"])
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("tie order = %v, want %v", names, want)
		}
	}
}

func TestSelect_EmptyCategory(t *testing.T) {
	// All candidates rejected: the category yields no entry, not an error.
	bad := &workflow.Workflow{Nodes: []workflow.Node{{Name: "a"}, {Name: "b"}}}
	sel := &curation.Selector{K: 4, Profile: curation.QualityProfile, Weights: curation.QualityWeights}
	got, stats := sel.Select([]curation.Candidate{
		{Category: "empty", SourceID: "bad", Workflow: bad},
	})
	if len(got) != 0 {
		t.Errorf("expected no categories, got %v", got)
	}
	if stats.Rejected[curation.ReasonTooFewNodes] != 1 {
		t.Errorf("rejection tally = %v, want one too_few_nodes", stats.Rejected)
	}
	if stats.TotalRejected() != 1 {
		t.Errorf("TotalRejected = %d, want 1", stats.TotalRejected())
	}
}

// ─── Naming ──────────────────────────────────────────────────────────────────

func TestSafeLabel(t *testing.T) {
	cases := map[string]string{
		"CRM & Sales":   "CRM_and_Sales",
		"Data/ETL Jobs": "Data_ETL_Jobs",
		"already_safe":  "already_safe",
	}
	for in, want := range cases {
		if got := curation.SafeLabel(in); got != want {
			t.Errorf("SafeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestArchetypeName_TruncatesSourceID(t *testing.T) {
	long := "a_very_long_file_stem_that_keeps_going_and_going"
	got := curation.ArchetypeName(2, long)
	want := "archetype_2_" + long[:25]
	if got != want {
		t.Errorf("ArchetypeName = %q, want %q", got, want)
	}
}
