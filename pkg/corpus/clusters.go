package corpus

import (
	"encoding/json"
	"fmt"
	"os"
)

// Assignment places one corpus record in a cluster.
type Assignment struct {
	Cluster int `json:"cluster"`
}

// ClusterInfo describes one cluster.
type ClusterInfo struct {
	Label string `json:"label"`
}

// Clusters is an external cluster-assignment file: record identifiers mapped
// to cluster ids, plus per-cluster labels. It is the category source for
// corpora whose workflows carry no embedded semantic label.
type Clusters struct {
	Assignments map[string]Assignment  `json:"assignments"`
	Info        map[string]ClusterInfo `json:"cluster_info"`
}

// LoadClusters reads a cluster-assignment JSON file.
func LoadClusters(path string) (*Clusters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clusters: %w", err)
	}
	var c Clusters
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse clusters: %w", err)
	}
	return &c, nil
}

// Label resolves a record identifier to its cluster's label. The second
// return is false when the record has no assignment or the cluster no label.
func (c *Clusters) Label(id string) (string, bool) {
	a, ok := c.Assignments[id]
	if !ok {
		return "", false
	}
	info, ok := c.Info[fmt.Sprint(a.Cluster)]
	if !ok {
		return "", false
	}
	return info.Label, true
}
