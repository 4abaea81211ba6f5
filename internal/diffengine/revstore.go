package diffengine

import (
	"os/exec"
	"strings"

	"untangle/internal/uerrors"
)

// revStore reads file content and file listings at an arbitrary git
// revision by shelling out to the git CLI, matching the teacher's
// internal/repostate/repostate.go os/exec idiom (chosen over adding a
// go-git dependency so the codebase has a single git-access style).
type revStore struct {
	repoRoot string
}

func newRevStore(repoRoot string) *revStore {
	return &revStore{repoRoot: repoRoot}
}

// ResolveRef validates that ref names a real commit, returning its full
// hash, mapping failure to uerrors.BadRef.
func (r *revStore) ResolveRef(ref string) (string, error) {
	out, err := r.git("rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", uerrors.New(uerrors.BadRef, "unknown git ref: "+ref).WithPath(ref)
	}
	return strings.TrimSpace(out), nil
}

// ListFiles lists every file tracked at ref whose extension is in exts.
func (r *revStore) ListFiles(ref string, exts []string) ([]string, error) {
	out, err := r.git("ls-tree", "-r", "--name-only", ref)
	if err != nil {
		return nil, uerrors.New(uerrors.BadRef, "failed to list files at ref: "+ref).WithPath(ref)
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, ext := range exts {
			if strings.HasSuffix(line, ext) {
				files = append(files, line)
				break
			}
		}
	}
	return files, nil
}

// UnifiedDiff returns the raw unified diff text between base and head,
// restricted to files matching exts, for parsing with go-diff into a
// changed-files listing (supplementary to the node/edge graph diff).
func (r *revStore) UnifiedDiff(base, head string, exts []string) (string, error) {
	args := []string{"diff", base, head}
	if len(exts) > 0 {
		args = append(args, "--")
		for _, ext := range exts {
			args = append(args, "*"+ext)
		}
	}
	out, err := r.git(args...)
	if err != nil {
		return "", uerrors.New(uerrors.BadRef, "failed to diff refs").WithPath(base + ".." + head)
	}
	return out, nil
}

// ReadFile returns the content of path as it existed at ref. A missing
// file (not present at that ref) is reported as an error the caller is
// expected to treat as "skip this file", mirroring cli/diff.rs's
// `.ok()` handling of read_file_at_ref.
func (r *revStore) ReadFile(ref, path string) ([]byte, error) {
	out, err := r.gitBytes("show", ref+":"+path)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *revStore) git(args ...string) (string, error) {
	out, err := r.gitBytes(args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (r *revStore) gitBytes(args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.repoRoot
	return cmd.Output()
}
