package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"untangle/internal/walk"
)

func TestGraphCommand_Setup(t *testing.T) {
	if graphCmd.Use != "graph [root]" {
		t.Errorf("graphCmd.Use = %q, want %q", graphCmd.Use, "graph [root]")
	}
	if graphCmd.Flags().Lookup("format") == nil {
		t.Error("graphCmd should have --format flag")
	}
	if graphCmd.Flags().Lookup("lang") == nil {
		t.Error("graphCmd should have --lang flag")
	}
}

func writeGoProject(t *testing.T, dir string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/sample\n\ngo 1.21\n"), 0o644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "pkg", "a"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte(
		"package main\n\nimport \"example.com/sample/pkg/a\"\n\nfunc main() { a.Hello() }\n",
	), 0o644); err != nil {
		t.Fatalf("write main.go: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pkg", "a", "a.go"), []byte(
		"package a\n\nimport \"fmt\"\n\nfunc Hello() { fmt.Println(\"hi\") }\n",
	), 0o644); err != nil {
		t.Fatalf("write a.go: %v", err)
	}
}

func TestRunGraph_JSON(t *testing.T) {
	dir := t.TempDir()
	writeGoProject(t, dir)

	graphLang = "go"
	graphFormat = "json"
	graphIncludeTests = false

	r, w, _ := os.Pipe()
	oldStdout := os.Stdout
	os.Stdout = w

	err := runGraph(graphCmd, []string{dir})

	w.Close()
	os.Stdout = oldStdout
	if err != nil {
		t.Fatalf("runGraph: %v", err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)

	var decoded struct {
		Nodes []graphNodeJSON `json:"nodes"`
		Edges []graphEdgeJSON `json:"edges"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("graph --format json output is not valid JSON: %v", err)
	}
	if len(decoded.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d (%v)", len(decoded.Nodes), decoded.Nodes)
	}
	if len(decoded.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d (%v)", len(decoded.Edges), decoded.Edges)
	}
}

func TestRunGraph_NoFiles(t *testing.T) {
	dir := t.TempDir()
	graphLang = "go"
	graphFormat = "json"
	if err := runGraph(graphCmd, []string{dir}); err == nil {
		t.Error("expected an error when no eligible source files are found")
	}
}

func TestResolveLanguageFallsBackToAutoDetect(t *testing.T) {
	dir := t.TempDir()
	writeGoProject(t, dir)
	lang, ok := resolveLanguage("", dir)
	if !ok || lang != walk.Go {
		t.Fatalf("expected go auto-detected, got %v ok=%v", lang, ok)
	}
}
