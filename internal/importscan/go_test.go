package importscan

import "testing"

func TestIsGoStdlib(t *testing.T) {
	cases := map[string]bool{
		"fmt":                 true,
		"encoding/json":       true,
		"github.com/x/y":      false,
		"untangle/internal/x": false,
	}
	for path, want := range cases {
		if got := IsGoStdlib(path); got != want {
			t.Errorf("IsGoStdlib(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestGoExtractImportsExcludesStdlibByDefault(t *testing.T) {
	f := NewGoFrontend("example.com/m", true)
	src := []byte(`package main

import (
	"fmt"
	"example.com/m/pkg/a"
)

func main() {}
`)
	raws := f.ExtractImports(src, "main.go")
	byPath := map[string]RawImport{}
	for _, r := range raws {
		byPath[r.RawPath] = r
	}
	if byPath["fmt"].Confidence != External {
		t.Fatalf("expected fmt to be External when exclude_stdlib is true, got %v", byPath["fmt"].Confidence)
	}
	if byPath["example.com/m/pkg/a"].Confidence != Resolved {
		t.Fatalf("expected module-path import to be Resolved, got %v", byPath["example.com/m/pkg/a"].Confidence)
	}
}

func TestGoExtractImportsResolvesStdlibWhenIncluded(t *testing.T) {
	f := NewGoFrontend("example.com/m", false)
	src := []byte(`package main

import "fmt"

func main() {}
`)
	raws := f.ExtractImports(src, "main.go")
	if len(raws) != 1 {
		t.Fatalf("expected 1 import, got %d", len(raws))
	}
	if raws[0].Confidence != Resolved {
		t.Fatalf("expected fmt to be Resolved when exclude_stdlib is false, got %v", raws[0].Confidence)
	}
	target, ok := f.Resolve(raws[0], "", nil)
	if !ok {
		t.Fatalf("expected stdlib import to resolve as a leaf-only target")
	}
	if target != "fmt" {
		t.Fatalf("expected leaf target %q, got %q", "fmt", target)
	}
}
