package main

import (
	"fmt"
	"strconv"
	"strings"

	gographviz "github.com/awalterschulze/gographviz"
	"github.com/spf13/cobra"

	"github.com/ravi-parthasarathy/curator/pkg/corpus"
	"github.com/ravi-parthasarathy/curator/pkg/workflow"
)

func graphCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph <workflow.json>",
		Short: "Print a workflow's connectivity as text or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			w, err := corpus.Load(args[0])
			if err != nil {
				return err
			}
			switch strings.ToLower(format) {
			case "dot":
				out, err := renderDOT(w)
				if err != nil {
					return err
				}
				fmt.Print(out)
			case "text", "":
				fmt.Print(renderText(w))
			default:
				return fmt.Errorf("unknown format %q: use text or dot", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or dot")
	return cmd
}

// edgeList flattens a workflow's ported connections into (from, to, port)
// triples, ordered by source identifier and port for determinism.
func edgeList(w *workflow.Workflow) [][3]string {
	var edges [][3]string
	for _, from := range sortedKeys(w.Connections) {
		for port, targets := range w.Connections[from].Main {
			for _, t := range targets {
				edges = append(edges, [3]string{from, t.Node, strconv.Itoa(port)})
			}
		}
	}
	return edges
}

// renderText produces the human-readable summary.
func renderText(w *workflow.Workflow) string {
	var sb strings.Builder

	edges := edgeList(w)
	fmt.Fprintf(&sb, "Workflow: %s  (%d nodes, %d edges)\n", w.Name, len(w.Nodes), len(edges))

	maxNameLen := 4
	for _, n := range w.Nodes {
		if len(n.Name) > maxNameLen {
			maxNameLen = len(n.Name)
		}
	}

	fmt.Fprintf(&sb, "\nNodes:\n")
	for _, n := range w.Nodes {
		marker := ""
		if strings.Contains(strings.ToLower(n.Type), "trigger") {
			marker = "  [trigger]"
		}
		fmt.Fprintf(&sb, "  %-*s  %s%s\n", maxNameLen, n.Name, n.Type, marker)
	}

	fmt.Fprintf(&sb, "\nEdges:\n")
	maxFromLen := 4
	for _, e := range edges {
		if len(e[0]) > maxFromLen {
			maxFromLen = len(e[0])
		}
	}
	for _, e := range edges {
		if e[2] != "0" {
			fmt.Fprintf(&sb, "  %-*s  →  %s  [port %s]\n", maxFromLen, e[0], e[1], e[2])
		} else {
			fmt.Fprintf(&sb, "  %-*s  →  %s\n", maxFromLen, e[0], e[1])
		}
	}

	return sb.String()
}

// renderDOT produces a DOT digraph of the workflow's node connectivity.
func renderDOT(w *workflow.Workflow) (string, error) {
	g := gographviz.NewGraph()
	name := w.Name
	if name == "" {
		name = "workflow"
	}
	if err := g.SetName(strconv.Quote(name)); err != nil {
		return "", fmt.Errorf("set graph name: %w", err)
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}

	for _, n := range w.Nodes {
		attrs := map[string]string{
			"label": strconv.Quote(n.Name + " / " + strings.TrimPrefix(n.Type, workflow.TypePrefix)),
			"shape": "box",
		}
		if strings.Contains(strings.ToLower(n.Type), "trigger") {
			attrs["style"] = "bold"
		}
		if err := g.AddNode(strconv.Quote(name), strconv.Quote(n.Name), attrs); err != nil {
			return "", fmt.Errorf("add node %q: %w", n.Name, err)
		}
	}

	for _, e := range edgeList(w) {
		attrs := map[string]string{}
		if e[2] != "0" {
			attrs["label"] = strconv.Quote("port " + e[2])
		}
		if err := g.AddEdge(strconv.Quote(e[0]), strconv.Quote(e[1]), true, attrs); err != nil {
			return "", fmt.Errorf("add edge %s→%s: %w", e[0], e[1], err)
		}
	}

	return g.String(), nil
}
