package output

import (
	"untangle/internal/importscan"
	"untangle/internal/insights"
	"untangle/internal/metrics"
)

// Metadata describes the run that produced an AnalyzeOutput.
type Metadata struct {
	Language           string  `json:"language"`
	Granularity        string  `json:"granularity"`
	Root               string  `json:"root"`
	NodeCount          int     `json:"node_count"`
	EdgeCount          int     `json:"edge_count"`
	EdgeDensity        float64 `json:"edge_density"`
	FilesParsed        int     `json:"files_parsed"`
	FilesSkipped       int     `json:"files_skipped"`
	UnresolvedImports  int     `json:"unresolved_imports"`
	Timestamp          string  `json:"timestamp"`
	ElapsedMs          int64   `json:"elapsed_ms"`
	ModulesPerSecond   float64 `json:"modules_per_second"`
}

// FanoutEdge is a single outgoing edge from a hotspot node.
type FanoutEdge struct {
	To              string                      `json:"to"`
	SourceLocations []importscan.SourceLocation `json:"source_locations"`
}

// Hotspot is a single node's metrics, ready for display.
type Hotspot struct {
	Node               string       `json:"node"`
	Fanout             int          `json:"fanout"`
	Fanin              int          `json:"fanin"`
	Entropy            float64      `json:"entropy"`
	SccID              *int         `json:"scc_id,omitempty"`
	SccAdjustedEntropy float64      `json:"scc_adjusted_entropy"`
	FanoutEdges        []FanoutEdge `json:"fanout_edges"`
}

// AnalyzeOutput is the full result of an `analyze` run. Insights is
// omitted entirely (not just empty) when the run was invoked with
// --no-insights, matching cli/analyze.rs's AnalyzeArgs.no_insights.
type AnalyzeOutput struct {
	Metadata Metadata           `json:"metadata"`
	Summary  metrics.Summary    `json:"summary"`
	Hotspots []Hotspot          `json:"hotspots"`
	Sccs     []metrics.SCC      `json:"sccs"`
	Insights []insights.Insight `json:"insights,omitempty"`
}
