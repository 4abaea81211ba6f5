package importscan

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"untangle/internal/walk"
)

// GoFrontend extracts and resolves Go import declarations. Go's module
// granularity is the containing directory, not the file — see
// GoModuleDir, applied by the pipeline orchestrator to compute each source
// file's module identity.
type GoFrontend struct {
	modulePath    string
	excludeStdlib bool
}

// NewGoFrontend creates a GoFrontend. modulePath is the module path read
// from go.mod (empty if none found, in which case every import is treated
// as external since there is no module context to resolve against).
func NewGoFrontend(modulePath string, excludeStdlib bool) *GoFrontend {
	return &GoFrontend{modulePath: modulePath, excludeStdlib: excludeStdlib}
}

// ReadGoMod reads the module path from root/go.mod, returning "" if none.
func ReadGoMod(root string) string {
	f, err := os.Open(filepath.Join(root, "go.mod"))
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module"))
		}
	}
	return ""
}

// IsGoStdlib reports whether a Go import path looks like a standard
// library package: any path with no dot anywhere in it counts as stdlib,
// so a dotless project module path (e.g. "untangle/...") also matches.
func IsGoStdlib(importPath string) bool {
	return !strings.Contains(importPath, ".")
}

// IsGoTestFile reports whether path is a Go test file.
func IsGoTestFile(path string) bool {
	return strings.HasSuffix(path, "_test.go")
}

// GoModuleDir returns the module (directory) identity of a Go source file,
// relative to root — Go's dependency-graph granularity is the package
// directory, not the individual file.
func GoModuleDir(filePath, root string) string {
	rel, err := filepath.Rel(root, filePath)
	if err != nil {
		rel = filePath
	}
	rel = filepath.ToSlash(rel)
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." {
		return ""
	}
	return dir
}

func (f *GoFrontend) ExtractImports(source []byte, filePath string) []RawImport {
	root := parseRoot(source, walk.Go)
	if root == nil {
		return nil
	}

	var imports []RawImport
	walkTree(root, func(n *sitter.Node) {
		if n.Type() != "import_spec" {
			return
		}
		var path string
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			switch child.Type() {
			case "interpreted_string_literal", "raw_string_literal":
				path = stripQuotes(nodeText(child, source))
			}
		}
		if path == "" {
			return
		}

		// Classification per spec: (a) starts with the module path ->
		// Resolved; (b) no dot in the path -> stdlib, External unless
		// exclude_stdlib is false (then Resolved, a leaf-only target);
		// (c) otherwise -> External.
		confidence := External
		switch {
		case f.modulePath != "" && (path == f.modulePath || strings.HasPrefix(path, f.modulePath+"/")):
			confidence = Resolved
		case IsGoStdlib(path):
			if !f.excludeStdlib {
				confidence = Resolved
			}
		}

		line := int(n.StartPoint().Row) + 1
		col := int(n.StartPoint().Column)
		imports = append(imports, RawImport{
			RawPath:    path,
			SourceFile: filePath,
			Line:       line,
			Column:     &col,
			Kind:       Direct,
			Confidence: confidence,
		})
	})
	return imports
}

func (f *GoFrontend) Resolve(raw RawImport, projectRoot string, projectFiles []string) (string, bool) {
	if raw.Confidence != Resolved {
		return "", false
	}
	if IsGoStdlib(raw.RawPath) {
		// exclude_stdlib=false: stdlib packages are leaf-only targets,
		// resolved directly without a project-file lookup.
		return raw.RawPath, true
	}
	if f.modulePath == "" {
		return "", false
	}
	rel := strings.TrimPrefix(raw.RawPath, f.modulePath)
	rel = strings.TrimPrefix(rel, "/")
	targetDir := filepath.Join(projectRoot, filepath.FromSlash(rel))

	for _, pf := range projectFiles {
		if filepath.Dir(pf) == targetDir {
			return filepath.ToSlash(rel), true
		}
	}
	return "", false
}
