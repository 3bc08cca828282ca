// Package corpus handles the on-disk side of curation: walking workflow
// directories, loading records, resolving categories from cluster
// assignments, and persisting selected archetypes and generated variants.
package corpus

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ravi-parthasarathy/curator/pkg/workflow"
)

// WalkJSON returns every .json file under root, recursively, in lexical
// order. Lexical order keeps downstream selection deterministic across runs.
func WalkJSON(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// Load reads and parses one workflow record. A failure here is a
// ParseFailure in batch terms: callers skip the record and tally it.
func Load(path string) (*workflow.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var w workflow.Workflow
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &w, nil
}

// Stem returns the lowercased file stem used as the corpus record identifier
// (the key into cluster assignments and the source of archetype names).
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
