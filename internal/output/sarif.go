package output

import (
	"encoding/json"
	"fmt"
	"io"

	"untangle/internal/graph"
	"untangle/internal/metrics"
	"untangle/internal/version"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version"`
	InformationURI  string      `json:"informationUri"`
	Rules           []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	ShortDescription sarifMessage  `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string           `json:"ruleId"`
	Level     string           `json:"level"`
	Message   sarifMessage     `json:"message"`
	Locations []sarifLocation  `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int  `json:"startLine"`
	StartColumn *int `json:"startColumn,omitempty"`
}

// WriteSARIF writes g's high-fan-out and circular-dependency findings as
// SARIF 2.1.0, matching output/sarif.rs's write_sarif.
func WriteSARIF(w io.Writer, g *graph.DepGraph, sccs []metrics.SCC, thresholdFanout int) error {
	var results []sarifResult
	sccMap := metrics.NodeSCCMap(g, sccs)

	threshold := thresholdFanout
	if threshold <= 0 {
		threshold = 10
	}

	for _, idx := range g.NodeIndices() {
		fanout := metrics.FanOut(g, idx)
		if fanout >= threshold {
			n := g.Node(idx)
			results = append(results, sarifResult{
				RuleID: "untangle/high-fanout",
				Level:  "warning",
				Message: sarifMessage{
					Text: fmt.Sprintf("Module '%s' has fan-out of %d (threshold: %d)", n.Name, fanout, threshold),
				},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: n.Path},
					},
				}},
			})
		}
	}

	for _, idx := range g.NodeIndices() {
		id, ok := sccMap[idx]
		if !ok {
			continue
		}
		n := g.Node(idx)
		var scc metrics.SCC
		for _, s := range sccs {
			if s.ID == id {
				scc = s
				break
			}
		}
		results = append(results, sarifResult{
			RuleID: "untangle/circular-dependency",
			Level:  "warning",
			Message: sarifMessage{
				Text: fmt.Sprintf("Module '%s' is part of a circular dependency (SCC #%d, %d members)", n.Name, id, scc.Size),
			},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: n.Path},
				},
			}},
		})
	}

	log := sarifLog{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:           "untangle",
					Version:        version.Version,
					InformationURI: "https://github.com/user/untangle",
					Rules: []sarifRule{
						{ID: "untangle/high-fanout", Name: "HighFanOut", ShortDescription: sarifMessage{Text: "Module has excessive fan-out (too many dependencies)"}},
						{ID: "untangle/circular-dependency", Name: "CircularDependency", ShortDescription: sarifMessage{Text: "Module is part of a circular dependency"}},
					},
				},
			},
			Results: results,
		}},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}
