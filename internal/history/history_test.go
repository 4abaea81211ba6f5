package history

import (
	"testing"
	"time"

	"untangle/internal/metrics"
)

func TestRecordAndRecent(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	run := Run{
		RunID:     "run-1",
		RanAt:     time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		Root:      "/repo",
		Language:  "go",
		NodeCount: 10,
		EdgeCount: 15,
		Summary:   metrics.Summary{MeanFanout: 1.5, MaxFanout: 5, SccCount: 1, LargestSccSize: 2, MaxDepth: 3, TotalComplexity: 28},
		ElapsedMs: 120,
	}
	if err := store.Record(run); err != nil {
		t.Fatalf("Record: %v", err)
	}

	runs, err := store.Recent("/repo", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].RunID != "run-1" {
		t.Fatalf("expected run-1, got %s", runs[0].RunID)
	}
	if runs[0].Summary.MaxFanout != 5 {
		t.Fatalf("expected max fanout 5, got %d", runs[0].Summary.MaxFanout)
	}
}

func TestRecentFiltersByRoot(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	store.Record(Run{RunID: "a", RanAt: time.Now().UTC(), Root: "/repo-a", Language: "go"})
	store.Record(Run{RunID: "b", RanAt: time.Now().UTC(), Root: "/repo-b", Language: "go"})

	runs, err := store.Recent("/repo-a", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "a" {
		t.Fatalf("expected only run 'a', got %+v", runs)
	}
}
