package pipeline

import (
	"testing"

	"untangle/internal/config"
	"untangle/internal/walk"
)

func TestRunGoSimpleModule(t *testing.T) {
	files := []string{"go.mod", "main.go", "pkg/a/a.go"}
	sources := map[string][]byte{
		"go.mod": []byte("module github.com/example/web\n\ngo 1.24\n"),
		"main.go": []byte(`package main

import "github.com/example/web/pkg/a"

func main() { _ = a.X }
`),
		"pkg/a/a.go": []byte(`package a

import "fmt"

var X = fmt.Sprintf("x")
`),
	}
	read := func(path string) ([]byte, error) {
		return sources[path], nil
	}

	cfg := config.Defaults()
	result, err := Run([]string{"main.go", "pkg/a/a.go"}, walk.Go, &cfg, "github.com/example/web", "", read, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Graph.NodeCount() != 2 {
		t.Fatalf("expected 2 nodes, got %d", result.Graph.NodeCount())
	}
	if result.Graph.EdgeCount() != 1 {
		t.Fatalf("expected 1 edge, got %d", result.Graph.EdgeCount())
	}
	if result.UnresolvedImports != 1 {
		t.Fatalf("expected 1 unresolved import (fmt), got %d", result.UnresolvedImports)
	}
	if result.FilesParsed != 2 {
		t.Fatalf("expected 2 files parsed, got %d", result.FilesParsed)
	}
}

func TestRunSkipsUnreadableFile(t *testing.T) {
	files := []string{"a.go"}
	read := func(path string) ([]byte, error) {
		return nil, errNotFound{}
	}
	cfg := config.Defaults()
	result, err := Run(files, walk.Go, &cfg, "example.com/m", "", read, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.FilesSkipped != 1 {
		t.Fatalf("expected 1 skipped file, got %d", result.FilesSkipped)
	}
	if result.FilesParsed != 0 {
		t.Fatalf("expected 0 files parsed, got %d", result.FilesParsed)
	}
}

type errNotFound struct{}

func (errNotFound) Error() string { return "not found" }
