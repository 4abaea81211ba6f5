package output

import (
	"fmt"
	"io"

	"untangle/internal/diffengine"
)

// WriteDiffText writes a human-readable diff report, matching
// output/text.rs's write_diff_text.
func WriteDiffText(w io.Writer, result *diffengine.Result, elapsedMs int64, modulesPerSecond float64) error {
	fmt.Fprintln(w, "Untangle Diff Report")
	fmt.Fprintln(w, "====================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Base: %s\n", result.BaseRef)
	fmt.Fprintf(w, "Head: %s\n", result.HeadRef)
	fmt.Fprintf(w, "Verdict: %s\n", result.Verdict)
	if len(result.Reasons) > 0 {
		fmt.Fprintf(w, "Reasons: %v\n", result.Reasons)
	}
	fmt.Fprintln(w)

	d := result.Diff.SummaryDelta
	fmt.Fprintln(w, "Summary Delta")
	fmt.Fprintln(w, dashes(60))
	fmt.Fprintf(w, "Nodes:      +%d / -%d\n", d.NodesAdded, d.NodesRemoved)
	fmt.Fprintf(w, "Edges:      +%d / -%d (net %+d)\n", d.EdgesAdded, d.EdgesRemoved, d.NetEdgeChange)
	fmt.Fprintf(w, "SCC count:  %+d\n", d.SccCountDelta)
	fmt.Fprintf(w, "Max depth:  %+d\n", d.MaxDepthDelta)
	fmt.Fprintln(w)

	if len(result.Diff.NewEdges) > 0 {
		fmt.Fprintln(w, "New Edges")
		fmt.Fprintln(w, dashes(60))
		for _, e := range result.Diff.NewEdges {
			fmt.Fprintf(w, "  %s -> %s\n", e.From, e.To)
		}
		fmt.Fprintln(w)
	}

	if len(result.Diff.SccChanges.NewSccs) > 0 {
		fmt.Fprintln(w, "New SCCs")
		fmt.Fprintln(w, dashes(60))
		for _, s := range result.Diff.SccChanges.NewSccs {
			fmt.Fprintf(w, "  size=%d members=%v\n", s.Size, s.Members)
		}
		fmt.Fprintln(w)
	}

	if len(result.ChangedFiles) > 0 {
		fmt.Fprintln(w, "Changed Files")
		fmt.Fprintln(w, dashes(60))
		for _, f := range result.ChangedFiles {
			status := "modified"
			switch {
			case f.IsNew:
				status = "added"
			case f.IsDeleted:
				status = "deleted"
			}
			fmt.Fprintf(w, "  %-10s %s\n", status, f.Path)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Completed in %.2fs (%.0f modules/sec)\n",
		float64(elapsedMs)/1000.0, modulesPerSecond)
	return nil
}
