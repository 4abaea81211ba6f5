// Package metrics computes graph-level statistics over a DepGraph:
// fan-in/fan-out, strongly connected components, condensation-DAG depth,
// Shannon entropy, and their roll-up into a Summary — grounded on
// original_source/src/metrics/{fanout,scc,depth,entropy,summary}.rs.
package metrics

import "untangle/internal/graph"

// FanOut returns the out-degree of the node at idx.
func FanOut(g *graph.DepGraph, idx int) int {
	return len(g.Out(idx))
}

// FanIn returns the in-degree of the node at idx.
func FanIn(g *graph.DepGraph, idx int) int {
	return len(g.In(idx))
}
