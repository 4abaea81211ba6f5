package diffengine

import (
	"untangle/internal/config"
	"untangle/internal/walk"
)

// Result is the full output of a diff run, ready for an output writer.
type Result struct {
	BaseRef      string
	HeadRef      string
	Verdict      Verdict
	Reasons      []string
	Diff         Diff
	ChangedFiles []ChangedFile
}

// Run builds the import graph at baseRef and headRef, computes their
// diff, and evaluates failOn policy conditions against it — the
// top-level entry point cmd/untangle's diff subcommand calls.
func Run(repoRoot, baseRef, headRef string, lang walk.Language, cfg *config.Resolved, failOn []string) (*Result, error) {
	rs := newRevStore(repoRoot)

	if _, err := rs.ResolveRef(baseRef); err != nil {
		return nil, err
	}
	if _, err := rs.ResolveRef(headRef); err != nil {
		return nil, err
	}

	baseGraph, err := buildGraphAtRef(rs, baseRef, lang, cfg)
	if err != nil {
		return nil, err
	}
	headGraph, err := buildGraphAtRef(rs, headRef, lang, cfg)
	if err != nil {
		return nil, err
	}

	diff := Compute(baseGraph, headGraph)
	conditions := ParseConditions(failOn)
	verdict, reasons := EvaluatePolicies(diff, conditions)

	// Changed-files listing is a best-effort supplementary report; a
	// failure here never fails the diff run itself.
	files, _ := changedFiles(rs, baseRef, headRef, lang.Extensions())

	return &Result{
		BaseRef:      baseRef,
		HeadRef:      headRef,
		Verdict:      verdict,
		Reasons:      reasons,
		Diff:         diff,
		ChangedFiles: files,
	}, nil
}
