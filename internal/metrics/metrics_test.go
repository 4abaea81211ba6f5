package metrics

import (
	"math"
	"testing"

	"untangle/internal/graph"
	"untangle/internal/importscan"
)

func addEdge(b *graph.Builder, src, dst string) {
	b.AddImport(importscan.ResolvedImport{
		SourceModule: src,
		TargetModule: dst,
		Location:     importscan.SourceLocation{File: src, Line: 1},
	}, "go")
}

func TestFanOutFanIn(t *testing.T) {
	b := graph.NewBuilder()
	addEdge(b, "a", "b")
	addEdge(b, "a", "c")
	addEdge(b, "c", "a")
	g := b.Build()

	a, _ := g.IndexOf("a")
	c, _ := g.IndexOf("c")

	if got := FanOut(g, a); got != 2 {
		t.Fatalf("expected fanout 2 for a, got %d", got)
	}
	if got := FanIn(g, a); got != 1 {
		t.Fatalf("expected fanin 1 for a, got %d", got)
	}
	if got := FanOut(g, c); got != 1 {
		t.Fatalf("expected fanout 1 for c, got %d", got)
	}
}

func TestFindNonTrivialSCCsSkipsSingletons(t *testing.T) {
	b := graph.NewBuilder()
	b.EnsureNode("a", "go")
	b.EnsureNode("b", "go")
	g := b.Build()
	sccs := FindNonTrivialSCCs(g)
	if len(sccs) != 0 {
		t.Fatalf("expected no SCCs for disconnected nodes, got %d", len(sccs))
	}
}

func TestFindNonTrivialSCCsSelfLoop(t *testing.T) {
	b := graph.NewBuilder()
	addEdge(b, "a", "a")
	g := b.Build()
	sccs := FindNonTrivialSCCs(g)
	if len(sccs) != 1 {
		t.Fatalf("expected one self-loop SCC, got %d", len(sccs))
	}
	if sccs[0].Size != 1 {
		t.Fatalf("expected size 1, got %d", sccs[0].Size)
	}
}

func TestFindNonTrivialSCCsCycle(t *testing.T) {
	b := graph.NewBuilder()
	addEdge(b, "a", "b")
	addEdge(b, "b", "c")
	addEdge(b, "c", "a")
	g := b.Build()
	sccs := FindNonTrivialSCCs(g)
	if len(sccs) != 1 {
		t.Fatalf("expected one SCC, got %d", len(sccs))
	}
	if sccs[0].Size != 3 {
		t.Fatalf("expected size 3, got %d", sccs[0].Size)
	}
	if sccs[0].InternalEdges != 3 {
		t.Fatalf("expected 3 internal edges, got %d", sccs[0].InternalEdges)
	}
}

func TestShannonEntropyUniformDistribution(t *testing.T) {
	got := ShannonEntropy([]int{1, 1, 1, 1})
	if math.Abs(got-2.0) > 1e-9 {
		t.Fatalf("expected entropy 2.0, got %v", got)
	}
}

func TestShannonEntropyTwoEqual(t *testing.T) {
	got := ShannonEntropy([]int{1, 1})
	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("expected entropy 1.0, got %v", got)
	}
}

func TestShannonEntropyEmpty(t *testing.T) {
	if got := ShannonEntropy(nil); got != 0 {
		t.Fatalf("expected entropy 0 for no weights, got %v", got)
	}
}

func TestSCCAdjustedEntropySingleton(t *testing.T) {
	got := SCCAdjustedEntropy(1.5, 1)
	if got != 1.5 {
		t.Fatalf("expected unchanged entropy for size-1 scc, got %v", got)
	}
}

func TestSCCAdjustedEntropyAmplifies(t *testing.T) {
	got := SCCAdjustedEntropy(1.0, 3)
	want := 1.0 * (1 + math.Log(3))
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPercentile90(t *testing.T) {
	vals := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	got := percentile90(vals)
	if got != 9 {
		t.Fatalf("expected p90 of 1..10 to be 9, got %d", got)
	}
}

func TestPercentile90Empty(t *testing.T) {
	if got := percentile90(nil); got != 0 {
		t.Fatalf("expected 0 for empty slice, got %d", got)
	}
}

func TestComputeDepthLinearChain(t *testing.T) {
	b := graph.NewBuilder()
	addEdge(b, "a", "b")
	addEdge(b, "b", "c")
	g := b.Build()

	d := ComputeDepth(g)
	if d.MaxDepth != 2 {
		t.Fatalf("expected max depth 2 for a->b->c, got %d", d.MaxDepth)
	}
}

func TestComputeSummary(t *testing.T) {
	b := graph.NewBuilder()
	addEdge(b, "a", "b")
	addEdge(b, "b", "c")
	addEdge(b, "c", "a")
	g := b.Build()

	sccs := FindNonTrivialSCCs(g)
	depth := ComputeDepth(g)
	summary := ComputeSummary(g, sccs, depth)

	if summary.SccCount != 1 {
		t.Fatalf("expected 1 scc, got %d", summary.SccCount)
	}
	if summary.LargestSccSize != 3 {
		t.Fatalf("expected largest scc size 3, got %d", summary.LargestSccSize)
	}
	if summary.TotalNodesInSccs != 3 {
		t.Fatalf("expected 3 nodes in sccs, got %d", summary.TotalNodesInSccs)
	}
	wantComplexity := g.NodeCount() + g.EdgeCount() + depth.MaxDepth
	if summary.TotalComplexity != wantComplexity {
		t.Fatalf("expected total complexity %d, got %d", wantComplexity, summary.TotalComplexity)
	}
}

func TestRound2(t *testing.T) {
	got := round2(2.345)
	if got != 2.35 && got != 2.34 {
		t.Fatalf("round2(2.345) = %v", got)
	}
}
