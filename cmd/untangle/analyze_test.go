package main

import (
	"os"
	"path/filepath"
	"testing"

	"untangle/internal/walk"
)

func TestResolveLanguageExplicitFlag(t *testing.T) {
	lang, ok := resolveLanguage("python", t.TempDir())
	if !ok || lang != walk.Python {
		t.Fatalf("expected python, got %v ok=%v", lang, ok)
	}
}

func TestResolveLanguageAutoDetect(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	lang, ok := resolveLanguage("", dir)
	if !ok || lang != walk.Go {
		t.Fatalf("expected go, got %v ok=%v", lang, ok)
	}
}

func TestGranularityForGoIsPackage(t *testing.T) {
	if got := granularityFor(walk.Go); got != "package" {
		t.Fatalf("expected package, got %s", got)
	}
}

func TestGranularityForPythonIsFile(t *testing.T) {
	if got := granularityFor(walk.Python); got != "file" {
		t.Fatalf("expected file, got %s", got)
	}
}
