// Package insights implements the rule-based InsightEngine: it scans a
// graph's per-node metrics against a resolved rule set and emits
// suggestive, human-readable findings — grounded on
// original_source/src/insights.rs.
package insights

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"untangle/internal/config"
	"untangle/internal/graph"
	"untangle/internal/metrics"
)

// Severity ranks an Insight's urgency.
type Severity int

const (
	Info Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalJSON renders Severity as its lowercase name rather than its
// underlying int, matching output/json.rs's serde rename.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Category identifies the rule that produced an Insight. Order here is
// also priority order for sorting and for subsumption.
type Category int

const (
	GodModule Category = iota
	HighFanout
	CircularDependency
	DeepChain
	HighEntropy
)

func (c Category) String() string {
	switch c {
	case GodModule:
		return "god_module"
	case HighFanout:
		return "high_fanout"
	case CircularDependency:
		return "circular_dependency"
	case DeepChain:
		return "deep_chain"
	case HighEntropy:
		return "high_entropy"
	default:
		return "unknown"
	}
}

// MarshalJSON renders Category as its snake_case name rather than its
// underlying int, matching output/json.rs's serde rename.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Metrics carries the subset of per-node metrics relevant to the
// Insight that triggered, each optional since not every category uses
// every metric.
type Metrics struct {
	Fanout  *int     `json:"fanout,omitempty"`
	Fanin   *int     `json:"fanin,omitempty"`
	Entropy *float64 `json:"entropy,omitempty"`
	SccID   *int     `json:"scc_id,omitempty"`
	SccSize *int     `json:"scc_size,omitempty"`
	Depth   *int     `json:"depth,omitempty"`
}

// Insight is a single finding surfaced to the user.
type Insight struct {
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Module   string   `json:"module"`
	Message  string   `json:"message"`
	Metrics  Metrics  `json:"metrics"`
}

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

// Generate evaluates every rule in rules against g's computed metrics
// and non-trivial SCCs, returning a deterministically sorted slice of
// Insights. When overrides is non-empty, each module's effective rules
// are first resolved via config.ResolveOverrides before evaluation,
// matching the per-path-glob override semantics in config/overrides.rs.
func Generate(g *graph.DepGraph, sccs []metrics.SCC, summary metrics.Summary, rules config.RulesConfig, overrides []config.OverrideConfig) []Insight {
	var out []Insight
	for _, idx := range g.NodeIndices() {
		n := g.Node(idx)
		effective := rules
		if len(overrides) > 0 {
			effective = config.ResolveOverrides(overrides, n.Path, rules)
		}

		fanout := metrics.FanOut(g, idx)
		fanin := metrics.FanIn(g, idx)

		weights := make([]int, 0, fanout)
		for range g.Out(idx) {
			weights = append(weights, 1)
		}
		entropy := metrics.ShannonEntropy(weights)

		isGodModule := false
		if effective.GodModule.Enabled {
			r := effective.GodModule
			fanoutOK := crossesThreshold(fanout, summary.P90Fanout, r.MinFanout, r.RelativeToP90)
			faninOK := crossesThreshold(fanin, summary.P90Fanin, r.MinFanin, r.RelativeToP90)
			if fanoutOK && faninOK {
				isGodModule = true
				out = append(out, Insight{
					Category: GodModule,
					Severity: Warning,
					Module:   n.Path,
					Message: fmt.Sprintf(
						"%s has both high fan-in (%d) and high fan-out (%d); consider splitting its responsibilities",
						n.Path, fanin, fanout,
					),
					Metrics: Metrics{Fanout: intPtr(fanout), Fanin: intPtr(fanin)},
				})
			}
		}

		if !isGodModule && effective.HighFanout.Enabled {
			r := effective.HighFanout
			if crossesThreshold(fanout, summary.P90Fanout, r.MinFanout, r.RelativeToP90) {
				severity := Info
				if fanout >= r.WarningMultiplier*summary.P90Fanout {
					severity = Warning
				}
				out = append(out, Insight{
					Category: HighFanout,
					Severity: severity,
					Module:   n.Path,
					Message: fmt.Sprintf(
						"%s imports %d other modules; consider whether some of these dependencies may be narrowed",
						n.Path, fanout,
					),
					Metrics: Metrics{Fanout: intPtr(fanout)},
				})
			}
		}

		if !isGodModule && effective.HighEntropy.Enabled {
			r := effective.HighEntropy
			if entropy > r.MinEntropy && fanout >= r.MinFanout {
				out = append(out, Insight{
					Category: HighEntropy,
					Severity: Info,
					Module:   n.Path,
					Message: fmt.Sprintf(
						"%s has high dependency entropy (%.2f); its imports may be worth grouping by concern",
						n.Path, entropy,
					),
					Metrics: Metrics{Entropy: floatPtr(entropy)},
				})
			}
		}
	}

	if rules.CircularDependency.Enabled {
		for _, s := range sccs {
			severity := Info
			if s.Size >= rules.CircularDependency.WarningMinSize {
				severity = Warning
			}
			out = append(out, Insight{
				Category: CircularDependency,
				Severity: severity,
				Module:   "(graph-level)",
				Message: fmt.Sprintf(
					"modules %s form a circular dependency (scc #%d, size %d); consider introducing an interface to break the cycle",
					strings.Join(s.Members, ", "), s.ID, s.Size,
				),
				Metrics: Metrics{SccID: intPtr(s.ID), SccSize: intPtr(s.Size)},
			})
		}
	}

	if rules.DeepChain.Enabled {
		dc := rules.DeepChain
		triggers := summary.MaxDepth >= dc.AbsoluteDepth ||
			(float64(summary.MaxDepth) > dc.RelativeMultiplier*summary.AvgDepth && summary.MaxDepth >= dc.RelativeMinDepth)
		if triggers {
			out = append(out, Insight{
				Category: DeepChain,
				Severity: Info,
				Module:   "(graph-level)",
				Message: fmt.Sprintf(
					"the longest dependency chain is %d levels deep (avg: %.1f); consider consolidating intermediate modules",
					summary.MaxDepth, summary.AvgDepth,
				),
				Metrics: Metrics{Depth: intPtr(summary.MaxDepth)},
			})
		}
	}

	sortInsights(out)
	return out
}

// crossesThreshold implements the shared "either >= absolute OR > p90 AND
// >= min when relative_to_p90" disjunct used by GodModule and HighFanout,
// matching config/mod.rs's fo_check/fi_check pattern in
// generate_insights_with_config.
func crossesThreshold(value, p90, min int, relativeToP90 bool) bool {
	if relativeToP90 {
		return value > p90 && value >= min
	}
	return value >= min
}

func sortInsights(in []Insight) {
	sort.SliceStable(in, func(i, j int) bool {
		if in[i].Severity != in[j].Severity {
			return in[i].Severity > in[j].Severity
		}
		if in[i].Category != in[j].Category {
			return in[i].Category < in[j].Category
		}
		return in[i].Module < in[j].Module
	})
}
