package importscan

import "testing"

func TestResolvePyDirPrefersPackageOverModule(t *testing.T) {
	files := []string{"pkg/a/__init__.py", "pkg/a.py"}
	target, ok := resolvePyDir("pkg/a", "", files)
	if !ok {
		t.Fatalf("expected a resolution")
	}
	if target != "pkg/a/__init__.py" {
		t.Fatalf("expected package form to take precedence, got %q", target)
	}
}

func TestResolvePyDirFallsBackToModule(t *testing.T) {
	files := []string{"pkg/a.py"}
	target, ok := resolvePyDir("pkg/a", "", files)
	if !ok {
		t.Fatalf("expected a resolution")
	}
	if target != "pkg/a.py" {
		t.Fatalf("expected module file, got %q", target)
	}
}

func TestPythonResolveRelativeImportPrefersSubmodule(t *testing.T) {
	f := NewPythonFrontend()
	raw := RawImport{
		RawPath:     "b",
		SourceFile:  "pkg/a.py",
		Kind:        RelativeImport,
		Confidence:  Resolved,
		Names:       []string{"b"},
		RelativeLvl: 1,
	}
	files := []string{"pkg/__init__.py", "pkg/a.py", "pkg/b.py"}
	target, ok := f.Resolve(raw, "", files)
	if !ok {
		t.Fatalf("expected a resolution")
	}
	if target != "pkg/b.py" {
		t.Fatalf("expected submodule pkg/b.py, got %q", target)
	}
}

func TestPythonResolveRelativeImportFallsBackToPackage(t *testing.T) {
	f := NewPythonFrontend()
	raw := RawImport{
		RawPath:     "helper",
		SourceFile:  "pkg/a.py",
		Kind:        RelativeImport,
		Confidence:  Resolved,
		Names:       []string{"helper"},
		RelativeLvl: 1,
	}
	files := []string{"pkg/__init__.py", "pkg/a.py"}
	target, ok := f.Resolve(raw, "", files)
	if !ok {
		t.Fatalf("expected a resolution")
	}
	if target != "pkg/__init__.py" {
		t.Fatalf("expected fallback to package __init__.py, got %q", target)
	}
}
