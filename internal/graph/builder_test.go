package graph

import (
	"testing"

	"untangle/internal/importscan"
)

func TestBuilderDeduplicatesNodes(t *testing.T) {
	b := NewBuilder()
	a1 := b.EnsureNode("a", "go")
	a2 := b.EnsureNode("a", "go")
	if a1 != a2 {
		t.Fatalf("expected same index for repeated EnsureNode, got %d and %d", a1, a2)
	}
	g := b.Build()
	if g.NodeCount() != 1 {
		t.Fatalf("expected 1 node, got %d", g.NodeCount())
	}
}

func TestBuilderDeduplicatesEdgesAccumulatesLocations(t *testing.T) {
	b := NewBuilder()
	b.AddImport(importscan.ResolvedImport{
		SourceModule: "a",
		TargetModule: "b",
		Location:     importscan.SourceLocation{File: "a", Line: 1},
	}, "go")
	b.AddImport(importscan.ResolvedImport{
		SourceModule: "a",
		TargetModule: "b",
		Location:     importscan.SourceLocation{File: "a", Line: 5},
	}, "go")

	g := b.Build()
	if g.EdgeCount() != 1 {
		t.Fatalf("expected 1 deduplicated edge, got %d", g.EdgeCount())
	}
	srcIdx, _ := g.IndexOf("a")
	dstIdx, _ := g.IndexOf("b")
	edge, ok := g.EdgeBetween(srcIdx, dstIdx)
	if !ok {
		t.Fatal("expected edge a->b to exist")
	}
	if len(edge.SourceLocations) != 2 {
		t.Fatalf("expected 2 accumulated source locations, got %d", len(edge.SourceLocations))
	}
}

func TestBuilderKeepsSelfEdges(t *testing.T) {
	b := NewBuilder()
	b.AddImport(importscan.ResolvedImport{
		SourceModule: "a",
		TargetModule: "a",
		Location:     importscan.SourceLocation{File: "a", Line: 1},
	}, "go")
	g := b.Build()
	if g.EdgeCount() != 1 {
		t.Fatalf("expected self-edge to be kept as a size-1 SCC candidate, got %d edges", g.EdgeCount())
	}
}
