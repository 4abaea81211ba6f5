package diffengine

import (
	"fmt"
	"strconv"
	"strings"
)

// ConditionKind is a single fail-on policy condition.
type ConditionKind int

const (
	FanoutIncrease ConditionKind = iota
	FanoutThreshold
	NewScc
	SccGrowth
	EntropyIncrease
	NewEdge
)

// Condition is a parsed fail-on entry; Threshold is only meaningful for
// FanoutThreshold.
type Condition struct {
	Kind      ConditionKind
	Threshold int
}

// ParseCondition parses a single `--fail-on` entry, matching
// cli/diff.rs's FailCondition::parse. "fanout-threshold" with no "=N"
// suffix fails to parse and is dropped, matching the original.
func ParseCondition(s string) (Condition, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "fanout-increase":
		return Condition{Kind: FanoutIncrease}, true
	case "new-scc":
		return Condition{Kind: NewScc}, true
	case "scc-growth":
		return Condition{Kind: SccGrowth}, true
	case "entropy-increase":
		return Condition{Kind: EntropyIncrease}, true
	case "new-edge":
		return Condition{Kind: NewEdge}, true
	}
	if strings.HasPrefix(s, "fanout-threshold") {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			if n, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
				return Condition{Kind: FanoutThreshold, Threshold: n}, true
			}
		}
	}
	return Condition{}, false
}

// ParseConditions parses every entry in raw, silently dropping any that
// fail to parse (matching the original's filter_map).
func ParseConditions(raw []string) []Condition {
	var out []Condition
	for _, s := range raw {
		if c, ok := ParseCondition(s); ok {
			out = append(out, c)
		}
	}
	return out
}

// EvaluatePolicies checks every condition against diff, returning Fail if
// any condition is triggered, along with the list of triggered reason
// strings (in condition order), matching cli/diff.rs's evaluate_policies.
//
// EntropyIncrease deliberately checks mean_fanout_delta > 0, not an
// actual entropy comparison — preserved as-is from the original, which
// never wired it to the per-node entropy deltas it computes elsewhere.
func EvaluatePolicies(diff Diff, conditions []Condition) (Verdict, []string) {
	var reasons []string

	for _, c := range conditions {
		switch c.Kind {
		case FanoutIncrease:
			for _, fc := range diff.FanoutChanges {
				if fc.Delta > 0 {
					reasons = append(reasons, "fanout-increase")
					break
				}
			}
		case FanoutThreshold:
			for _, fc := range diff.FanoutChanges {
				if fc.FanoutAfter > c.Threshold {
					reasons = append(reasons, fmt.Sprintf("fanout-threshold=%d", c.Threshold))
					break
				}
			}
		case NewScc:
			if len(diff.SccChanges.NewSccs) > 0 {
				reasons = append(reasons, "new-scc")
			}
		case SccGrowth:
			if len(diff.SccChanges.EnlargedSccs) > 0 {
				reasons = append(reasons, "scc-growth")
			}
		case EntropyIncrease:
			if diff.SummaryDelta.MeanFanoutDelta > 0.0 {
				reasons = append(reasons, "entropy-increase")
			}
		case NewEdge:
			if len(diff.NewEdges) > 0 {
				reasons = append(reasons, "new-edge")
			}
		}
	}

	if len(reasons) == 0 {
		return Pass, reasons
	}
	return Fail, reasons
}
