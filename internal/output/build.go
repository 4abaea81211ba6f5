package output

import (
	"sort"

	"untangle/internal/graph"
	"untangle/internal/metrics"
)

// BuildHotspots computes one Hotspot per node in g, sorted by fan-out
// descending (ties broken by fan-in descending), truncated to topN if
// topN > 0, matching output/json.rs's write_analyze_json.
func BuildHotspots(g *graph.DepGraph, sccs []metrics.SCC, topN int) []Hotspot {
	sccMap := metrics.NodeSCCMap(g, sccs)
	sccByID := make(map[int]metrics.SCC, len(sccs))
	for _, s := range sccs {
		sccByID[s.ID] = s
	}

	hotspots := make([]Hotspot, 0, g.NodeCount())
	for _, idx := range g.NodeIndices() {
		node := g.Node(idx)
		fanout := metrics.FanOut(g, idx)
		fanin := metrics.FanIn(g, idx)

		out := g.Out(idx)
		weights := make([]int, len(out))
		for i := range out {
			weights[i] = 1
		}
		entropy := metrics.ShannonEntropy(weights)

		var sccID *int
		sccSize := 1
		if id, ok := sccMap[idx]; ok {
			sccIDCopy := id
			sccID = &sccIDCopy
			sccSize = sccByID[id].Size
		}
		adjusted := metrics.SCCAdjustedEntropy(entropy, sccSize)

		edges := make([]FanoutEdge, 0, len(out))
		for _, w := range out {
			if e, ok := g.EdgeBetween(idx, w); ok {
				edges = append(edges, FanoutEdge{To: g.Node(w).Name, SourceLocations: e.SourceLocations})
			}
		}

		hotspots = append(hotspots, Hotspot{
			Node:               node.Name,
			Fanout:             fanout,
			Fanin:              fanin,
			Entropy:            metrics.Round2Exported(entropy),
			SccID:              sccID,
			SccAdjustedEntropy: metrics.Round2Exported(adjusted),
			FanoutEdges:        edges,
		})
	}

	sort.SliceStable(hotspots, func(i, j int) bool {
		if hotspots[i].Fanout != hotspots[j].Fanout {
			return hotspots[i].Fanout > hotspots[j].Fanout
		}
		return hotspots[i].Fanin > hotspots[j].Fanin
	})

	if topN > 0 && topN < len(hotspots) {
		hotspots = hotspots[:topN]
	}
	return hotspots
}
