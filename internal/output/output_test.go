package output

import (
	"bytes"
	"strings"
	"testing"

	"untangle/internal/graph"
	"untangle/internal/importscan"
	"untangle/internal/metrics"
)

func buildGraph(t *testing.T) *graph.DepGraph {
	t.Helper()
	b := graph.NewBuilder()
	b.AddImport(importscan.ResolvedImport{
		SourceModule: "a",
		TargetModule: "b",
		Location:     importscan.SourceLocation{File: "a", Line: 1},
	}, "go")
	return b.Build()
}

func TestWriteDOTContainsDigraphAndEdge(t *testing.T) {
	g := buildGraph(t)
	var buf bytes.Buffer
	if err := WriteDOT(&buf, g); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "digraph dependencies") {
		t.Fatalf("expected digraph header, got: %s", out)
	}
	if !strings.Contains(out, `"a" -> "b"`) {
		t.Fatalf("expected a->b edge, got: %s", out)
	}
}

func TestWriteAnalyzeJSONRoundTrips(t *testing.T) {
	g := buildGraph(t)
	sccs := metrics.FindNonTrivialSCCs(g)
	hotspots := BuildHotspots(g, sccs, 0)

	out := AnalyzeOutput{
		Metadata: Metadata{Language: "go", NodeCount: g.NodeCount(), EdgeCount: g.EdgeCount()},
		Hotspots: hotspots,
		Sccs:     sccs,
	}
	var buf bytes.Buffer
	if err := WriteAnalyzeJSON(&buf, out); err != nil {
		t.Fatalf("WriteAnalyzeJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"node_count": 2`) {
		t.Fatalf("expected node_count 2 in output, got: %s", buf.String())
	}
}

func TestWriteSARIFContainsHighFanoutRule(t *testing.T) {
	b := graph.NewBuilder()
	for i := 0; i < 11; i++ {
		b.AddImport(importscan.ResolvedImport{
			SourceModule: "hub",
			TargetModule: leafName(i),
			Location:     importscan.SourceLocation{File: "hub", Line: 1},
		}, "go")
	}
	g := b.Build()
	sccs := metrics.FindNonTrivialSCCs(g)

	var buf bytes.Buffer
	if err := WriteSARIF(&buf, g, sccs, 10); err != nil {
		t.Fatalf("WriteSARIF: %v", err)
	}
	if !strings.Contains(buf.String(), "untangle/high-fanout") {
		t.Fatalf("expected high-fanout rule in SARIF output, got: %s", buf.String())
	}
}

func leafName(i int) string { return "leaf" + string(rune('a'+i)) }

func TestBuildHotspotsSortedByFanoutDesc(t *testing.T) {
	b := graph.NewBuilder()
	b.AddImport(importscan.ResolvedImport{SourceModule: "a", TargetModule: "x", Location: importscan.SourceLocation{File: "a", Line: 1}}, "go")
	b.AddImport(importscan.ResolvedImport{SourceModule: "a", TargetModule: "y", Location: importscan.SourceLocation{File: "a", Line: 2}}, "go")
	b.AddImport(importscan.ResolvedImport{SourceModule: "b", TargetModule: "x", Location: importscan.SourceLocation{File: "b", Line: 1}}, "go")
	g := b.Build()

	hotspots := BuildHotspots(g, nil, 0)
	if hotspots[0].Node != "a" {
		t.Fatalf("expected 'a' (fanout 2) first, got %s", hotspots[0].Node)
	}
}
