package output

import (
	"encoding/json"
	"io"

	"untangle/internal/diffengine"
)

// WriteAnalyzeJSON writes out as pretty-printed JSON, matching
// output/json.rs's write_analyze_json (the Go stdlib's encoding/json
// stands in for serde_json).
func WriteAnalyzeJSON(w io.Writer, out AnalyzeOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// diffResultJSON mirrors cli/diff.rs's DiffResult, the shape actually
// serialized for `untangle diff --format json`.
type diffResultJSON struct {
	BaseRef          string                    `json:"base_ref"`
	HeadRef          string                    `json:"head_ref"`
	Verdict          string                    `json:"verdict"`
	Reasons          []string                  `json:"reasons"`
	ElapsedMs        int64                     `json:"elapsed_ms"`
	ModulesPerSecond float64                   `json:"modules_per_second"`
	SummaryDelta     diffengine.SummaryDelta   `json:"summary_delta"`
	NewEdges         []diffengine.EdgeChange   `json:"new_edges"`
	RemovedEdges     []diffengine.EdgeChange   `json:"removed_edges"`
	FanoutChanges    []diffengine.FanoutChange `json:"fanout_changes"`
	SccChanges       diffengine.SccChanges     `json:"scc_changes"`
	ChangedFiles     []diffengine.ChangedFile  `json:"changed_files,omitempty"`
}

// WriteDiffJSON writes a diffengine.Result as pretty-printed JSON,
// matching output/json.rs's write_diff_json.
func WriteDiffJSON(w io.Writer, result *diffengine.Result, elapsedMs int64, modulesPerSecond float64) error {
	if result.Reasons == nil {
		result.Reasons = []string{}
	}
	out := diffResultJSON{
		BaseRef:          result.BaseRef,
		HeadRef:          result.HeadRef,
		Verdict:          result.Verdict.String(),
		Reasons:          result.Reasons,
		ElapsedMs:        elapsedMs,
		ModulesPerSecond: modulesPerSecond,
		SummaryDelta:     result.Diff.SummaryDelta,
		NewEdges:         result.Diff.NewEdges,
		RemovedEdges:     result.Diff.RemovedEdges,
		FanoutChanges:    result.Diff.FanoutChanges,
		SccChanges:       result.Diff.SccChanges,
		ChangedFiles:     result.ChangedFiles,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
