package diffengine

import (
	godiff "github.com/sourcegraph/go-diff/diff"
)

// ChangedFile is a single file touched between base and head, parsed from
// the raw unified diff via sourcegraph/go-diff — supplementary to the
// node/edge graph diff, shown in the diff text report's "Changed Files"
// section and in the diff JSON output's changed_files list.
type ChangedFile struct {
	Path      string
	IsNew     bool
	IsDeleted bool
}

// changedFiles parses the unified diff between base and head (restricted
// to exts) into a list of touched files, matching the teacher's
// internal/diff/gitdiff.go's use of github.com/sourcegraph/go-diff to
// parse a raw unified diff into structured per-file records.
func changedFiles(rs *revStore, base, head string, exts []string) ([]ChangedFile, error) {
	raw, err := rs.UnifiedDiff(base, head, exts)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	fileDiffs, err := godiff.ParseMultiFileDiff([]byte(raw))
	if err != nil {
		return nil, nil // a diff report aside is never fatal to the run
	}

	out := make([]ChangedFile, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		cf := ChangedFile{Path: cleanDiffPath(fd.NewName)}
		if fd.OrigName == "/dev/null" || fd.OrigName == "" {
			cf.IsNew = true
		}
		if fd.NewName == "/dev/null" || fd.NewName == "" {
			cf.IsDeleted = true
			cf.Path = cleanDiffPath(fd.OrigName)
		}
		out = append(out, cf)
	}
	return out, nil
}

func cleanDiffPath(p string) string {
	const prefixA = "a/"
	const prefixB = "b/"
	if len(p) > len(prefixA) && p[:2] == prefixA {
		return p[2:]
	}
	if len(p) > len(prefixB) && p[:2] == prefixB {
		return p[2:]
	}
	return p
}
