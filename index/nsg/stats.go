package nsg

import "time"

// Stats summarizes the last built or decoded graph.
type Stats struct {
	// Nodes is the number of graph nodes.
	Nodes int

	// AvgDegree is the mean out-degree.
	AvgDegree float64

	// MaxObservedDegree is the largest out-degree actually present.
	MaxObservedDegree int

	// RepairedEdges is the number of edges added by the connectivity phase.
	// Zero for decoded graphs.
	RepairedEdges int

	// BuildDuration is the wall time of the last Train call. Zero for
	// decoded graphs.
	BuildDuration time.Duration
}

// Stats returns construction statistics for the current graph.
func (n *NSG) Stats() Stats { return n.stats }

func (s *Stats) fillDegrees(g *Graph) {
	if g.Count() == 0 {
		return
	}

	total := 0
	for _, nbrs := range g.adjacency {
		total += len(nbrs)
		if len(nbrs) > s.MaxObservedDegree {
			s.MaxObservedDegree = len(nbrs)
		}
	}
	s.AvgDegree = float64(total) / float64(g.Count())
}
