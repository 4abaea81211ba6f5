package output

import (
	"fmt"
	"io"

	"untangle/internal/insights"
	"untangle/internal/metrics"
)

// WriteAnalyzeText writes a human-readable analyze report, matching
// output/text.rs's write_analyze_text. insightList is nil when the run
// was invoked with --no-insights, in which case the section is omitted
// entirely.
func WriteAnalyzeText(w io.Writer, meta Metadata, summary metrics.Summary, hotspots []Hotspot, sccs []metrics.SCC, insightList []insights.Insight, topN int) error {
	fmt.Fprintln(w, "Untangle Analysis Report")
	fmt.Fprintln(w, "========================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Language:   %s\n", meta.Language)
	fmt.Fprintf(w, "Root:       %s\n", meta.Root)
	fmt.Fprintf(w, "Nodes:      %d\n", meta.NodeCount)
	fmt.Fprintf(w, "Edges:      %d\n", meta.EdgeCount)
	fmt.Fprintf(w, "Density:    %.4f\n", meta.EdgeDensity)
	fmt.Fprintf(w, "Parsed:     %d files\n", meta.FilesParsed)
	fmt.Fprintf(w, "Skipped:    %d files\n", meta.FilesSkipped)
	fmt.Fprintf(w, "Unresolved: %d imports\n", meta.UnresolvedImports)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, "-------")
	fmt.Fprintf(w, "Fan-out:  mean=%.2f  p90=%d  max=%d\n", summary.MeanFanout, summary.P90Fanout, summary.MaxFanout)
	fmt.Fprintf(w, "Fan-in:   mean=%.2f  p90=%d  max=%d\n", summary.MeanFanin, summary.P90Fanin, summary.MaxFanin)
	fmt.Fprintf(w, "SCCs:     %d (largest: %d, total nodes: %d)\n", summary.SccCount, summary.LargestSccSize, summary.TotalNodesInSccs)
	fmt.Fprintf(w, "Depth:    max=%d  avg=%.2f\n", summary.MaxDepth, summary.AvgDepth)
	fmt.Fprintf(w, "Complexity: %d (nodes + edges + max_depth)\n", summary.TotalComplexity)
	fmt.Fprintln(w)

	limit := topN
	if limit <= 0 {
		limit = 20
	}
	if limit > len(hotspots) {
		limit = len(hotspots)
	}
	if limit > 0 {
		fmt.Fprintf(w, "Top %d Hotspots\n", limit)
		fmt.Fprintln(w, dashes(60))
		fmt.Fprintf(w, "%-40s %8s %8s %5s\n", "Module", "Fan-out", "Fan-in", "SCC")
		for _, h := range hotspots[:limit] {
			sccLabel := "-"
			if h.SccID != nil {
				sccLabel = fmt.Sprintf("#%d", *h.SccID)
			}
			fmt.Fprintf(w, "%-40s %8d %8d %5s\n", h.Node, h.Fanout, h.Fanin, sccLabel)
		}
		fmt.Fprintln(w)
	}

	if len(sccs) > 0 {
		fmt.Fprintln(w, "Strongly Connected Components")
		fmt.Fprintln(w, dashes(60))
		for _, scc := range sccs {
			fmt.Fprintf(w, "SCC #%d (size=%d, internal_edges=%d)\n", scc.ID, scc.Size, scc.InternalEdges)
			for _, member := range scc.Members {
				fmt.Fprintf(w, "  - %s\n", member)
			}
			fmt.Fprintln(w)
		}
	}

	if len(insightList) > 0 {
		fmt.Fprintln(w, "Insights")
		fmt.Fprintln(w, dashes(60))
		for _, ins := range insightList {
			fmt.Fprintf(w, "[%s] %s: %s\n", ins.Severity, ins.Category, ins.Message)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Completed in %.2fs (%.0f modules/sec)\n",
		float64(meta.ElapsedMs)/1000.0, meta.ModulesPerSecond)

	return nil
}

func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}
