package diffengine

import (
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

func TestComputeDiffDetectsNewEdge(t *testing.T) {
	baseB := graph.NewBuilder()
	baseB.EnsureNode("a", "go")
	baseB.EnsureNode("b", "go")
	base := baseB.Build()

	headB := graph.NewBuilder()
	addEdge(headB, "a", "b")
	head := headB.Build()

	diff := Compute(base, head)
	if diff.SummaryDelta.EdgesAdded != 1 {
		t.Fatalf("expected 1 edge added, got %d", diff.SummaryDelta.EdgesAdded)
	}
	if len(diff.NewEdges) != 1 || diff.NewEdges[0].From != "a" || diff.NewEdges[0].To != "b" {
		t.Fatalf("unexpected new edges: %+v", diff.NewEdges)
	}
}

func TestComputeDiffDetectsNewScc(t *testing.T) {
	baseB := graph.NewBuilder()
	addEdge(baseB, "a", "b")
	base := baseB.Build()

	headB := graph.NewBuilder()
	addEdge(headB, "a", "b")
	addEdge(headB, "b", "a")
	head := headB.Build()

	diff := Compute(base, head)
	if len(diff.SccChanges.NewSccs) != 1 {
		t.Fatalf("expected 1 new scc, got %d", len(diff.SccChanges.NewSccs))
	}
}

func TestEvaluatePoliciesNewEdgeFails(t *testing.T) {
	baseB := graph.NewBuilder()
	baseB.EnsureNode("a", "go")
	base := baseB.Build()

	headB := graph.NewBuilder()
	addEdge(headB, "a", "b")
	head := headB.Build()

	diff := Compute(base, head)
	conditions := ParseConditions([]string{"new-edge"})
	verdict, reasons := EvaluatePolicies(diff, conditions)
	if verdict != Fail {
		t.Fatalf("expected Fail verdict, got %v", verdict)
	}
	if len(reasons) != 1 || reasons[0] != "new-edge" {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestEvaluatePoliciesPassWhenNoConditionsMatch(t *testing.T) {
	b := graph.NewBuilder()
	addEdge(b, "a", "b")
	g := b.Build()

	diff := Compute(g, g)
	conditions := ParseConditions([]string{"new-edge", "new-scc"})
	verdict, reasons := EvaluatePolicies(diff, conditions)
	if verdict != Pass {
		t.Fatalf("expected Pass verdict, got %v", verdict)
	}
	if len(reasons) != 0 {
		t.Fatalf("expected no reasons, got %v", reasons)
	}
}

func TestParseConditionFanoutThreshold(t *testing.T) {
	c, ok := ParseCondition("fanout-threshold=20")
	if !ok {
		t.Fatalf("expected to parse fanout-threshold=20")
	}
	if c.Kind != FanoutThreshold || c.Threshold != 20 {
		t.Fatalf("unexpected condition: %+v", c)
	}
}

func TestParseConditionRejectsBareThreshold(t *testing.T) {
	_, ok := ParseCondition("fanout-threshold")
	if ok {
		t.Fatalf("expected bare fanout-threshold to fail parsing")
	}
}

func TestMatchSccsEnlarged(t *testing.T) {
	baseB := graph.NewBuilder()
	addEdge(baseB, "a", "b")
	addEdge(baseB, "b", "a")
	base := baseB.Build()

	headB := graph.NewBuilder()
	addEdge(headB, "a", "b")
	addEdge(headB, "b", "c")
	addEdge(headB, "c", "a")
	head := headB.Build()

	diff := Compute(base, head)
	if len(diff.SccChanges.EnlargedSccs) != 1 {
		t.Fatalf("expected 1 enlarged scc, got %d: %+v", len(diff.SccChanges.EnlargedSccs), diff.SccChanges)
	}
}
