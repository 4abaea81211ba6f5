package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestDiffCommand_Setup(t *testing.T) {
	if diffCmd.Use != "diff <base> <head>" {
		t.Errorf("diffCmd.Use = %q, want %q", diffCmd.Use, "diff <base> <head>")
	}
	if diffCmd.Flags().Lookup("fail-on") == nil {
		t.Error("diffCmd should have --fail-on flag")
	}
	if diffCmd.Flags().Lookup("repo") == nil {
		t.Error("diffCmd should have --repo flag")
	}
}

// initDiffRepo creates a tiny git repo with two commits: the first has an
// isolated module, the second adds an import edge between two modules —
// matching spec.md §8's diff scenario.
func initDiffRepo(t *testing.T) (dir, base, head string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available in this environment")
	}

	dir = t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	run("init", "-q")
	writeGoProject(t, dir)
	// Remove the import edge for the base commit.
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644); err != nil {
		t.Fatalf("write main.go: %v", err)
	}
	run("add", ".")
	run("commit", "-q", "-m", "base")
	baseRef := "HEAD"

	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte(
		"package main\n\nimport \"example.com/sample/pkg/a\"\n\nfunc main() { a.Hello() }\n",
	), 0o644); err != nil {
		t.Fatalf("write main.go: %v", err)
	}
	run("add", ".")
	run("commit", "-q", "-m", "head")
	headRef := "HEAD"

	return dir, baseRef, headRef
}

func TestRunDiff_JSONNoFailOn(t *testing.T) {
	dir, base, head := initDiffRepo(t)

	diffRepoDir = dir
	diffLang = "go"
	diffFormat = "json"
	diffFailOn = nil

	r, w, _ := os.Pipe()
	oldStdout := os.Stdout
	os.Stdout = w

	err := runDiff(diffCmd, []string{base + "~1", head})

	w.Close()
	os.Stdout = oldStdout
	if err != nil {
		t.Fatalf("runDiff: %v", err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)

	var decoded struct {
		Verdict  string `json:"verdict"`
		NewEdges []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"new_edges"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("diff --format json output is not valid JSON: %v", err)
	}
	if decoded.Verdict != "pass" {
		t.Fatalf("expected pass verdict with no --fail-on conditions, got %q", decoded.Verdict)
	}
	if len(decoded.NewEdges) != 1 {
		t.Fatalf("expected 1 new edge between the two commits, got %d", len(decoded.NewEdges))
	}
}
