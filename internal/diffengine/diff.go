// Package diffengine compares a project's dependency graph between two
// git revisions, computing node/edge deltas, per-node fan-out and
// entropy changes, SCC matching by Jaccard similarity, and fail-on
// policy evaluation — grounded on original_source/src/cli/diff.rs (the
// stub in src/graph/diff.rs was never completed upstream; cli/diff.rs
// carries the real compute_graph_diff logic).
package diffengine

import (
	"math"

	"untangle/internal/graph"
	"untangle/internal/importscan"
	"untangle/internal/metrics"
)

// Verdict is the outcome of evaluating fail-on policies against a Diff.
type Verdict int

const (
	Pass Verdict = iota
	Fail
)

func (v Verdict) String() string {
	if v == Fail {
		return "fail"
	}
	return "pass"
}

// SummaryDelta aggregates repo-wide changes between base and head.
type SummaryDelta struct {
	NodesAdded           int     `json:"nodes_added"`
	NodesRemoved         int     `json:"nodes_removed"`
	EdgesAdded           int     `json:"edges_added"`
	EdgesRemoved         int     `json:"edges_removed"`
	NetEdgeChange        int     `json:"net_edge_change"`
	SccCountDelta        int     `json:"scc_count_delta"`
	LargestSccSizeDelta  int     `json:"largest_scc_size_delta"`
	MeanFanoutDelta      float64 `json:"mean_fanout_delta"`
	MaxDepthDelta        int     `json:"max_depth_delta"`
	TotalComplexityDelta int     `json:"total_complexity_delta"`
}

// EdgeChange describes a single added or removed import edge.
type EdgeChange struct {
	From            string                      `json:"from"`
	To              string                      `json:"to"`
	SourceLocations []importscan.SourceLocation `json:"source_locations"`
}

// FanoutChange describes a node whose out-degree changed between refs.
type FanoutChange struct {
	Node           string       `json:"node"`
	FanoutBefore   int          `json:"fanout_before"`
	FanoutAfter    int          `json:"fanout_after"`
	Delta          int          `json:"delta"`
	EntropyBefore  float64      `json:"entropy_before"`
	EntropyAfter   float64      `json:"entropy_after"`
	NewTargets     []EdgeChange `json:"new_targets"`
}

// SccChange describes a single strongly connected component as it
// appears in either a "new", "enlarged", or "resolved" bucket.
type SccChange struct {
	Members []string `json:"members"`
	Size    int      `json:"size"`
}

// SccChanges buckets every SCC that changed between refs.
type SccChanges struct {
	NewSccs      []SccChange `json:"new_sccs"`
	EnlargedSccs []SccChange `json:"enlarged_sccs"`
	ResolvedSccs []SccChange `json:"resolved_sccs"`
}

// Diff is the full computed delta between a base and head graph, before
// policy evaluation.
type Diff struct {
	SummaryDelta  SummaryDelta
	NewEdges      []EdgeChange
	RemovedEdges  []EdgeChange
	FanoutChanges []FanoutChange
	SccChanges    SccChanges
}

// Compute computes the diff between base and head, matching cli/diff.rs's
// compute_graph_diff.
func Compute(base, head *graph.DepGraph) Diff {
	baseNodes := nodeNameSet(base)
	headNodes := nodeNameSet(head)

	nodesAdded := len(setDifference(headNodes, baseNodes))
	nodesRemoved := len(setDifference(baseNodes, headNodes))

	baseEdges := edgeSet(base)
	headEdges := edgeSet(head)

	newEdgePairs := edgeSetDifference(headEdges, baseEdges)
	removedEdgePairs := edgeSetDifference(baseEdges, headEdges)

	newEdges := make([]EdgeChange, 0, len(newEdgePairs))
	for _, p := range newEdgePairs {
		newEdges = append(newEdges, EdgeChange{
			From:            p[0],
			To:              p[1],
			SourceLocations: locationsFor(head, p[0], p[1]),
		})
	}

	removedEdges := make([]EdgeChange, 0, len(removedEdgePairs))
	for _, p := range removedEdgePairs {
		removedEdges = append(removedEdges, EdgeChange{From: p[0], To: p[1]})
	}

	fanoutChanges := computeFanoutChanges(base, head, baseNodes, headNodes)

	baseSccs := metrics.FindNonTrivialSCCs(base)
	headSccs := metrics.FindNonTrivialSCCs(head)
	baseDepth := metrics.ComputeDepth(base)
	headDepth := metrics.ComputeDepth(head)
	baseSummary := metrics.ComputeSummary(base, baseSccs, baseDepth)
	headSummary := metrics.ComputeSummary(head, headSccs, headDepth)

	sccChanges := matchSccs(baseSccs, headSccs)

	return Diff{
		SummaryDelta: SummaryDelta{
			NodesAdded:           nodesAdded,
			NodesRemoved:         nodesRemoved,
			EdgesAdded:           len(newEdgePairs),
			EdgesRemoved:         len(removedEdgePairs),
			NetEdgeChange:        len(newEdgePairs) - len(removedEdgePairs),
			SccCountDelta:        len(headSccs) - len(baseSccs),
			LargestSccSizeDelta:  headSummary.LargestSccSize - baseSummary.LargestSccSize,
			MeanFanoutDelta:      round2(headSummary.MeanFanout - baseSummary.MeanFanout),
			MaxDepthDelta:        headSummary.MaxDepth - baseSummary.MaxDepth,
			TotalComplexityDelta: headSummary.TotalComplexity - baseSummary.TotalComplexity,
		},
		NewEdges:      newEdges,
		RemovedEdges:  removedEdges,
		FanoutChanges: fanoutChanges,
		SccChanges:    sccChanges,
	}
}

// round2 rounds to 2 decimal places, matching the original's
// `(x * 100.0).round() / 100.0` convention.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func nodeNameSet(g *graph.DepGraph) map[string]bool {
	set := make(map[string]bool, g.NodeCount())
	for _, idx := range g.NodeIndices() {
		set[g.Node(idx).Name] = true
	}
	return set
}

func setDifference(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	return out
}

func edgeSet(g *graph.DepGraph) map[[2]string]bool {
	set := make(map[[2]string]bool)
	for _, e := range g.AllEdges() {
		set[[2]string{g.Node(e.Src).Name, g.Node(e.Dst).Name}] = true
	}
	return set
}

func edgeSetDifference(a, b map[[2]string]bool) [][2]string {
	var out [][2]string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	return out
}

func locationsFor(g *graph.DepGraph, fromName, toName string) []importscan.SourceLocation {
	fromIdx, ok1 := findNode(g, fromName)
	toIdx, ok2 := findNode(g, toName)
	if !ok1 || !ok2 {
		return nil
	}
	if e, ok := g.EdgeBetween(fromIdx, toIdx); ok {
		return e.SourceLocations
	}
	return nil
}

func findNode(g *graph.DepGraph, name string) (int, bool) {
	return g.IndexOf(name)
}

func computeFanoutChanges(base, head *graph.DepGraph, baseNodes, headNodes map[string]bool) []FanoutChange {
	var out []FanoutChange
	for name := range baseNodes {
		if !headNodes[name] {
			continue
		}
		baseIdx, _ := findNode(base, name)
		headIdx, _ := findNode(head, name)

		fanoutBefore := metrics.FanOut(base, baseIdx)
		fanoutAfter := metrics.FanOut(head, headIdx)
		if fanoutBefore == fanoutAfter {
			continue
		}

		baseWeights := weightsFor(base, baseIdx)
		headWeights := weightsFor(head, headIdx)
		entropyBefore := round2(metrics.ShannonEntropy(baseWeights))
		entropyAfter := round2(metrics.ShannonEntropy(headWeights))

		baseTargets := targetSet(base, baseIdx)
		headTargets := targetSet(head, headIdx)

		var newTargets []EdgeChange
		for t := range headTargets {
			if baseTargets[t] {
				continue
			}
			newTargets = append(newTargets, EdgeChange{
				From:            name,
				To:              t,
				SourceLocations: locationsFor(head, name, t),
			})
		}

		out = append(out, FanoutChange{
			Node:          name,
			FanoutBefore:  fanoutBefore,
			FanoutAfter:   fanoutAfter,
			Delta:         fanoutAfter - fanoutBefore,
			EntropyBefore: entropyBefore,
			EntropyAfter:  entropyAfter,
			NewTargets:    newTargets,
		})
	}
	return out
}

func weightsFor(g *graph.DepGraph, idx int) []int {
	out := g.Out(idx)
	weights := make([]int, len(out))
	for i := range out {
		weights[i] = 1
	}
	return weights
}

func targetSet(g *graph.DepGraph, idx int) map[string]bool {
	set := make(map[string]bool)
	for _, w := range g.Out(idx) {
		set[g.Node(w).Name] = true
	}
	return set
}

func memberSet(members []string) map[string]bool {
	set := make(map[string]bool, len(members))
	for _, m := range members {
		set[m] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	inter, union := 0, 0
	seen := make(map[string]bool, len(a)+len(b))
	for m := range a {
		seen[m] = true
		if b[m] {
			inter++
		}
	}
	for m := range b {
		seen[m] = true
	}
	union = len(seen)
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// matchSccs matches each head SCC to the best-overlapping unmatched base
// SCC by Jaccard similarity (threshold > 0.5), classifying every SCC as
// new, enlarged, or resolved, matching cli/diff.rs's matching loop.
func matchSccs(baseSccs, headSccs []metrics.SCC) SccChanges {
	matchedBase := make(map[int]bool)
	matchedHead := make(map[int]bool)
	var enlarged []SccChange

	for hi, h := range headSccs {
		hMembers := memberSet(h.Members)
		bestJaccard := 0.0
		bestIdx := -1
		for bi, b := range baseSccs {
			if matchedBase[bi] {
				continue
			}
			j := jaccard(hMembers, memberSet(b.Members))
			if j > bestJaccard {
				bestJaccard = j
				bestIdx = bi
			}
		}
		if bestJaccard > 0.5 && bestIdx >= 0 {
			matchedBase[bestIdx] = true
			matchedHead[hi] = true
			if h.Size > baseSccs[bestIdx].Size {
				enlarged = append(enlarged, SccChange{Members: h.Members, Size: h.Size})
			}
		}
	}

	var newSccs []SccChange
	for hi, h := range headSccs {
		if !matchedHead[hi] {
			newSccs = append(newSccs, SccChange{Members: h.Members, Size: h.Size})
		}
	}

	var resolvedSccs []SccChange
	for bi, b := range baseSccs {
		if !matchedBase[bi] {
			resolvedSccs = append(resolvedSccs, SccChange{Members: b.Members, Size: b.Size})
		}
	}

	return SccChanges{NewSccs: newSccs, EnlargedSccs: enlarged, ResolvedSccs: resolvedSccs}
}
