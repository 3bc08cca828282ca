package curation

import (
	"fmt"
	"strings"
)

// maxSourceIDLen bounds the file-derived identifier appended to an archetype
// name, keeping output paths short regardless of corpus filenames.
const maxSourceIDLen = 25

// SafeLabel converts a category label into a filesystem-safe directory token.
func SafeLabel(label string) string {
	r := strings.NewReplacer(" ", "_", "&", "and", "/", "_")
	return r.Replace(label)
}

// ArchetypeName builds the output stem for a ranked selection. Rank is
// 1-based and unique within a category, so names cannot collide by
// construction.
func ArchetypeName(rank int, sourceID string) string {
	id := sourceID
	if len(id) > maxSourceIDLen {
		id = id[:maxSourceIDLen]
	}
	return fmt.Sprintf("archetype_%d_%s", rank, id)
}
