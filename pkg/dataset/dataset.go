// Package dataset turns curated workflows into training-ready records:
// instruction/output pairs, JSONL streams and a dataset metadata document.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ravi-parthasarathy/curator/pkg/workflow"
)

// maxInstructionTypes bounds how many node types are listed in an
// instruction; long tails add noise, not signal.
const maxInstructionTypes = 6

// Example is one instruction/output training record.
type Example struct {
	Instruction string `json:"instruction"`
	Input       string `json:"input"`
	Output      string `json:"output"`
	Category    string `json:"category"`
	Complexity  string `json:"complexity"`
	NodeCount   int    `json:"node_count"`
	Source      string `json:"source"`
	IsGenerated bool   `json:"is_generated"`
}

// NewExample builds a training example from a workflow. Source names where
// the record came from (typically its parent directory).
func NewExample(w *workflow.Workflow, source string) (Example, error) {
	out, err := json.Marshal(w)
	if err != nil {
		return Example{}, fmt.Errorf("marshal workflow: %w", err)
	}

	category := "general"
	complexity := "intermediate"
	generated := false
	if w.Meta != nil {
		if w.Meta.SemanticLabel != "" {
			category = w.Meta.SemanticLabel
		}
		if w.Meta.Complexity != "" {
			complexity = w.Meta.Complexity
		}
		generated = w.Meta.Generated
	}

	return Example{
		Instruction: Instruction(w),
		Output:      string(out),
		Category:    category,
		Complexity:  complexity,
		NodeCount:   len(w.Nodes),
		Source:      source,
		IsGenerated: generated,
	}, nil
}

// Instruction builds the natural-language instruction for a workflow from its
// name, category and leading node types.
func Instruction(w *workflow.Workflow) string {
	name := w.Name
	if name == "" {
		name = "Workflow"
	}
	parts := []string{fmt.Sprintf("Create an n8n workflow to: %s", name)}
	if label := w.Category(); label != "" {
		parts = append(parts, fmt.Sprintf("Category: %s", label))
	}
	if types := w.NodeTypes(); len(types) > 0 {
		if len(types) > maxInstructionTypes {
			types = types[:maxInstructionTypes]
		}
		parts = append(parts, fmt.Sprintf("Using: %s", strings.Join(types, ", ")))
	}
	return strings.Join(parts, " | ")
}

// Writer emits newline-delimited JSON records.
type Writer struct {
	enc *json.Encoder
}

// NewWriter wraps w in a JSONL record writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Write appends one record as a single JSON line.
func (w *Writer) Write(v any) error {
	return w.enc.Encode(v)
}

// Metadata describes an exported dataset.
type Metadata struct {
	Name           string         `json:"dataset_name"`
	Version        string         `json:"version"`
	CreatedAt      time.Time      `json:"created_at"`
	TotalExamples  int            `json:"total_examples"`
	InvalidSkipped int            `json:"invalid_skipped"`
	Categories     map[string]int `json:"categories"`
	Description    string         `json:"description"`
	License        string         `json:"license"`
}
