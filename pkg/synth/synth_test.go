package synth_test

import (
	"encoding/json"
	"math/rand"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/ravi-parthasarathy/curator/pkg/synth"
	"github.com/ravi-parthasarathy/curator/pkg/workflow"
)

func archetype() *workflow.Workflow {
	return &workflow.Workflow{
		Name: "Slack Lead Alert",
		Nodes: []workflow.Node{
			{Name: "Webhook", Type: "n8n-nodes-base.webhook"},
			{Name: "Hubspot", Type: "n8n-nodes-base.hubspot", Parameters: json.RawMessage(`{"op":"create"}`)},
			{Name: "Slack", Type: "n8n-nodes-base.slack"},
		},
		Connections: map[string]workflow.ConnectionSet{
			"Webhook": {Main: []workflow.Port{{{Node: "Hubspot", Type: "main", Index: 0}}}},
			"Hubspot": {Main: []workflow.Port{{{Node: "Slack", Type: "main", Index: 0}}}},
		},
	}
}

// ─── Table ────────────────────────────────────────────────────────────────────

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"n8n-nodes-base.gmailTrigger": "gmail",
		"n8n-nodes-base.postgres":     "postgres",
		"slack":                       "slack",
		"":                            "",
	}
	for in, want := range cases {
		if got := synth.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCandidates_ExactBeforeSubstring(t *testing.T) {
	table := synth.Table{
		{Key: "mail", Swaps: []string{"fuzzy"}},
		{Key: "gmail", Swaps: []string{"exact"}},
	}
	got := table.Candidates("n8n-nodes-base.gmail")
	if len(got) != 1 || got[0] != "exact" {
		t.Errorf("Candidates = %v, want the exact-match rule", got)
	}
}

func TestCandidates_SubstringFirstMatchWins(t *testing.T) {
	got := synth.DefaultTable.Candidates("n8n-nodes-base.slackBot")
	want := synth.DefaultTable.Candidates("n8n-nodes-base.slack")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slackBot = %v, want slack's rule %v", got, want)
	}
}

func TestCandidates_Unswappable(t *testing.T) {
	if got := synth.DefaultTable.Candidates("n8n-nodes-base.noOp"); got != nil {
		t.Errorf("noOp should have no candidates, got %v", got)
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/table.yaml"
	src := `
- key: slack
  swaps: [discord, telegram]
- key: postgres
  swaps: [mysql]
`
	if err := writeFile(path, src); err != nil {
		t.Fatal(err)
	}
	table, err := synth.LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if len(table) != 2 || table[0].Key != "slack" || len(table[0].Swaps) != 2 {
		t.Errorf("table = %+v", table)
	}
}

func TestLoadTable_RejectsEmptySwaps(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bad.yaml"
	if err := writeFile(path, "- key: slack\n  swaps: []\n"); err != nil {
		t.Fatal(err)
	}
	if _, err := synth.LoadTable(path); err == nil {
		t.Error("expected error for rule with no swaps")
	}
}

// ─── Generator ────────────────────────────────────────────────────────────────

func TestGenerate_TopologyInvariant(t *testing.T) {
	arch := archetype()
	gen := &synth.Generator{Table: synth.DefaultTable}
	variants := gen.Generate(arch, 20, rand.New(rand.NewSource(7)))
	if len(variants) != 20 {
		t.Fatalf("got %d variants, want 20", len(variants))
	}
	for i, v := range variants {
		if !reflect.DeepEqual(v.Connections, arch.Connections) {
			t.Fatalf("variant %d changed edges:\n got %+v\nwant %+v", i, v.Connections, arch.Connections)
		}
		if len(v.Nodes) != len(arch.Nodes) {
			t.Fatalf("variant %d has %d nodes, want %d", i, len(v.Nodes), len(arch.Nodes))
		}
	}
}

func TestGenerate_OriginalUntouched(t *testing.T) {
	arch := archetype()
	before, _ := json.Marshal(arch)
	gen := &synth.Generator{Table: synth.DefaultTable}
	gen.Generate(arch, 10, rand.New(rand.NewSource(1)))
	after, _ := json.Marshal(arch)
	if string(before) != string(after) {
		t.Error("archetype mutated by generation")
	}
}

func TestGenerate_Reproducible(t *testing.T) {
	gen := &synth.Generator{Table: synth.DefaultTable}
	a := gen.Generate(archetype(), 50, rand.New(rand.NewSource(42)))
	b := gen.Generate(archetype(), 50, rand.New(rand.NewSource(42)))

	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	if string(aj) != string(bj) {
		t.Error("same seed produced different variant sets")
	}
}

func TestGenerate_NoSwappableNodes(t *testing.T) {
	arch := &workflow.Workflow{
		Name: "opaque",
		Nodes: []workflow.Node{
			{Name: "A", Type: "n8n-nodes-base.noOp"},
			{Name: "B", Type: "n8n-nodes-base.code"},
		},
	}
	gen := &synth.Generator{Table: synth.DefaultTable}
	if got := gen.Generate(arch, 5, rand.New(rand.NewSource(3))); len(got) != 0 {
		t.Errorf("expected zero variants, got %d", len(got))
	}
}

func TestGenerate_TriggerRolePreserved(t *testing.T) {
	arch := &workflow.Workflow{
		Name: "scheduled sync",
		Nodes: []workflow.Node{
			{Name: "Gmail Trigger", Type: "n8n-nodes-base.gmailTrigger"},
			{Name: "Sheets", Type: "n8n-nodes-base.googleSheets"},
			{Name: "Slack", Type: "n8n-nodes-base.slack"},
		},
		Connections: map[string]workflow.ConnectionSet{
			"Gmail Trigger": {Main: []workflow.Port{{{Node: "Sheets", Index: 0}}}},
			"Sheets":        {Main: []workflow.Port{{{Node: "Slack", Index: 0}}}},
		},
	}
	gen := &synth.Generator{Table: synth.DefaultTable}
	for _, v := range gen.Generate(arch, 30, rand.New(rand.NewSource(11))) {
		if !strings.Contains(strings.ToLower(v.Nodes[0].Type), "trigger") {
			t.Fatalf("variant lost its trigger entry point: %q", v.Nodes[0].Type)
		}
	}
}

func TestGenerate_ProvenanceAndNaming(t *testing.T) {
	gen := &synth.Generator{Table: synth.DefaultTable}
	variants := gen.Generate(archetype(), 3, rand.New(rand.NewSource(5)))
	for i, v := range variants {
		wantName := "Slack Lead Alert_v" + string(rune('1'+i))
		if v.Name != wantName {
			t.Errorf("variant %d name = %q, want %q", i, v.Name, wantName)
		}
		if v.Meta == nil || !v.Meta.Generated {
			t.Errorf("variant %d missing generated flag", i)
		}
		if v.Meta.SourceArchetype != "Slack Lead Alert" {
			t.Errorf("variant %d sourceArchetype = %q", i, v.Meta.SourceArchetype)
		}
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestSubSeed_StableAndDistinct(t *testing.T) {
	a := synth.SubSeed(42, "archetype_1_lead_sync")
	b := synth.SubSeed(42, "archetype_1_lead_sync")
	c := synth.SubSeed(42, "archetype_2_daily_report")
	if a != b {
		t.Error("SubSeed not stable for identical input")
	}
	if a == c {
		t.Error("distinct archetype ids produced the same sub-seed")
	}
}
