package namegen

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ravi-parthasarathy/curator/pkg/workflow"
)

// maxNameLen bounds generated names so they stay usable as file stems.
const maxNameLen = 45

const promptTemplate = `You are naming n8n automation workflows. Generate a short, descriptive filename for each.

Rules:
- snake_case (lowercase with underscores)
- Max 45 characters
- Focus on ACTION + CONTEXT (what it does, not just tools)
- Include the semantic category naturally
- No file extension

Examples:
- ai_agent_slack_ticket_triage
- daily_crm_sync_hubspot_to_sheets
- email_lead_followup_automation
- weekly_sales_report_generator

Workflows:
%s

New names (one per line, no numbers):`

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9_]`)
	repeatedSep  = regexp.MustCompile(`_+`)
	lineNumber   = regexp.MustCompile(`^\d+[.)]\s*`)
)

// Sanitize normalizes a generated name into a valid snake_case file stem.
func Sanitize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = invalidChars.ReplaceAllString(name, "_")
	name = repeatedSep.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	if name == "" {
		return "unnamed_workflow"
	}
	return name
}

// Summarize builds the one-line description of a workflow that goes into the
// naming prompt: category, complexity, name and leading integrations.
func Summarize(w *workflow.Workflow, fallbackName string) string {
	var parts []string
	if w.Meta != nil {
		if w.Meta.SemanticLabel != "" {
			parts = append(parts, fmt.Sprintf("Category: %s", w.Meta.SemanticLabel))
		}
		if w.Meta.Complexity != "" {
			parts = append(parts, fmt.Sprintf("Complexity: %s", w.Meta.Complexity))
		}
	}
	name := w.Name
	if name == "" {
		name = fallbackName
	}
	if len(name) > 60 {
		name = name[:60]
	}
	parts = append(parts, fmt.Sprintf("Name: %s", name))

	types := w.NodeTypes()
	sort.Strings(types)
	if len(types) > 5 {
		types = types[:5]
	}
	if len(types) > 0 {
		parts = append(parts, fmt.Sprintf("Tools: %s", strings.Join(types, ", ")))
	}
	return strings.Join(parts, " | ")
}

// BuildPrompt assembles the batch naming prompt from numbered summaries.
func BuildPrompt(summaries []string) string {
	var sb strings.Builder
	for i, s := range summaries {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, s)
	}
	return fmt.Sprintf(promptTemplate, strings.TrimRight(sb.String(), "\n"))
}

// ParseNames extracts one sanitized name per response line, dropping list
// numbering and bullet noise. If the model returned fewer lines than want,
// the result is padded with sanitized fallbacks.
func ParseNames(response string, want int, fallbacks []string) []string {
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = lineNumber.ReplaceAllString(strings.TrimSpace(line), "")
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		names = append(names, Sanitize(line))
		if len(names) == want {
			break
		}
	}
	for len(names) < want && len(names) < len(fallbacks) {
		names = append(names, Sanitize(fallbacks[len(names)]))
	}
	return names
}

// NameSet resolves exact-name collisions within one renaming pass by
// appending a numeric suffix. It is an explicit per-pass context object: each
// concurrent pass owns its own NameSet, so no global mutable state is shared.
type NameSet struct {
	used map[string]bool
}

// NewNameSet creates an empty collision-resolution context.
func NewNameSet() *NameSet {
	return &NameSet{used: make(map[string]bool)}
}

// Claim returns name, or the first name_<n> suffix form not yet claimed, and
// records the result as used.
func (s *NameSet) Claim(name string) string {
	out := name
	for n := 1; s.used[out]; n++ {
		out = fmt.Sprintf("%s_%d", name, n)
	}
	s.used[out] = true
	return out
}

// Renamer names workflows in batches through a Completer.
type Renamer struct {
	Client    Completer
	BatchSize int // <= 0 uses 15
}

// RenameBatch generates unique names for a batch of workflows. Fallbacks are
// per-workflow stand-in names (typically file stems) used when the model
// response comes up short or the call fails entirely; a failed call degrades
// to fallback names rather than failing the batch.
func (r *Renamer) RenameBatch(ctx context.Context, workflows []*workflow.Workflow, fallbacks []string, set *NameSet) ([]string, error) {
	if len(workflows) != len(fallbacks) {
		return nil, fmt.Errorf("got %d workflows but %d fallbacks", len(workflows), len(fallbacks))
	}
	summaries := make([]string, len(workflows))
	for i, w := range workflows {
		summaries[i] = Summarize(w, fallbacks[i])
	}

	response, err := r.Client.Complete(ctx, BuildPrompt(summaries))
	var names []string
	if err != nil {
		names = make([]string, 0, len(fallbacks))
		for _, f := range fallbacks {
			names = append(names, Sanitize(f))
		}
	} else {
		names = ParseNames(response, len(workflows), fallbacks)
	}

	out := make([]string, len(names))
	for i, n := range names {
		out[i] = set.Claim(n)
	}
	return out, err
}

// Batches splits n items into batch index ranges of the configured size.
func (r *Renamer) Batches(n int) [][2]int {
	size := r.BatchSize
	if size <= 0 {
		size = 15
	}
	var out [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
