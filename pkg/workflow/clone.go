package workflow

// Clone returns a deep copy of the workflow. The copy shares no mutable state
// with the original: node slices, parameter bytes, connection maps and the
// metadata bag are all duplicated, so edits to the clone never leak back.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}
	out := &Workflow{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
	}

	if w.Nodes != nil {
		out.Nodes = make([]Node, len(w.Nodes))
		for i, n := range w.Nodes {
			cp := n
			if n.Parameters != nil {
				cp.Parameters = append([]byte(nil), n.Parameters...)
			}
			out.Nodes[i] = cp
		}
	}

	if w.Connections != nil {
		out.Connections = make(map[string]ConnectionSet, len(w.Connections))
		for source, set := range w.Connections {
			cpSet := ConnectionSet{}
			if set.Main != nil {
				cpSet.Main = make([]Port, len(set.Main))
				for i, port := range set.Main {
					cpSet.Main[i] = append(Port(nil), port...)
				}
			}
			out.Connections[source] = cpSet
		}
	}

	if w.Meta != nil {
		m := *w.Meta
		out.Meta = &m
	}
	return out
}
