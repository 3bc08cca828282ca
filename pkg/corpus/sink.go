package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ravi-parthasarathy/curator/pkg/curation"
	"github.com/ravi-parthasarathy/curator/pkg/workflow"
)

// DirSink persists workflows under a root directory, one subdirectory per
// category (sanitized label) or archetype batch.
type DirSink struct {
	Root string
}

// WriteArchetype stores one selected archetype under its category directory
// as archetype_<rank>_<shortid>.json. Rank is 1-based.
func (s *DirSink) WriteArchetype(category string, rank int, sourceID string, w *workflow.Workflow) (string, error) {
	dir := filepath.Join(s.Root, curation.SafeLabel(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create category dir: %w", err)
	}
	path := filepath.Join(dir, curation.ArchetypeName(rank, sourceID)+".json")
	return path, writeJSON(path, w)
}

// WriteVariants stores a variant batch under the category directory as
// <base>_var<i>.json, numbering from 1.
func (s *DirSink) WriteVariants(category, base string, variants []*workflow.Workflow) error {
	dir := filepath.Join(s.Root, curation.SafeLabel(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create category dir: %w", err)
	}
	for i, v := range variants {
		path := filepath.Join(dir, fmt.Sprintf("%s_var%d.json", base, i+1))
		if err := writeJSON(path, v); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
