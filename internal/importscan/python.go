package importscan

import (
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"untangle/internal/walk"
)

// PythonFrontend extracts and resolves Python import/from-import statements.
type PythonFrontend struct{}

func NewPythonFrontend() *PythonFrontend { return &PythonFrontend{} }

// pythonStdlib is a curated, non-exhaustive set of standard-library
// top-level module names, used purely as exclusion data (not logic) when
// classifying a dotted import as external (stdlib exclusion kept as data,
// not logic).
var pythonStdlib = map[string]bool{
	"os": true, "sys": true, "re": true, "json": true, "typing": true,
	"collections": true, "itertools": true, "functools": true, "math": true,
	"pathlib": true, "subprocess": true, "threading": true, "asyncio": true,
	"logging": true, "unittest": true, "datetime": true, "time": true,
	"abc": true, "enum": true, "io": true, "socket": true, "http": true,
	"urllib": true, "argparse": true, "dataclasses": true, "copy": true,
	"contextlib": true, "warnings": true, "traceback": true, "random": true,
	"string": true, "struct": true, "pickle": true, "hashlib": true,
	"shutil": true, "glob": true, "csv": true, "sqlite3": true, "xml": true,
	"multiprocessing": true, "queue": true, "inspect": true, "importlib": true,
	"dis": true, "ast": true, "platform": true, "tempfile": true,
}

func isPythonStdlib(dotted string) bool {
	first := dotted
	if i := strings.IndexByte(dotted, '.'); i >= 0 {
		first = dotted[:i]
	}
	return pythonStdlib[first]
}

func (f *PythonFrontend) ExtractImports(source []byte, filePath string) []RawImport {
	root := parseRoot(source, walk.Python)
	if root == nil {
		return nil
	}

	var imports []RawImport
	walkTree(root, func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			imports = append(imports, extractPyImportStatement(n, source, filePath)...)
		case "import_from_statement":
			if ri, ok := extractPyFromStatement(n, source, filePath); ok {
				imports = append(imports, ri)
			}
		}
	})
	return imports
}

func extractPyImportStatement(n *sitter.Node, source []byte, filePath string) []RawImport {
	var out []RawImport
	line := int(n.StartPoint().Row) + 1
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		var dotted string
		switch child.Type() {
		case "dotted_name":
			dotted = nodeText(child, source)
		case "aliased_import":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				dotted = nodeText(nameNode, source)
			} else if child.ChildCount() > 0 {
				dotted = nodeText(child.Child(0), source)
			}
		default:
			continue
		}
		if dotted == "" {
			continue
		}
		confidence := Resolved
		if isPythonStdlib(dotted) {
			confidence = External
		}
		out = append(out, RawImport{
			RawPath:    dotted,
			SourceFile: filePath,
			Line:       line,
			Kind:       Direct,
			Confidence: confidence,
		})
	}
	return out
}

func extractPyFromStatement(n *sitter.Node, source []byte, filePath string) (RawImport, bool) {
	line := int(n.StartPoint().Row) + 1

	var moduleNode *sitter.Node
	var names []string
	wildcard := false

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "dotted_name":
			if moduleNode == nil {
				moduleNode = child
			} else {
				names = append(names, nodeText(child, source))
			}
		case "relative_import":
			moduleNode = child
		case "aliased_import":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				names = append(names, nodeText(nameNode, source))
			}
		case "wildcard_import":
			wildcard = true
		}
	}

	if moduleNode == nil {
		return RawImport{}, false
	}

	if moduleNode.Type() == "relative_import" {
		level := 0
		var module string
		for i := 0; i < int(moduleNode.ChildCount()); i++ {
			c := moduleNode.Child(i)
			if c.Type() == "import_prefix" {
				level = len([]rune(nodeText(c, source)))
			}
			if c.Type() == "dotted_name" {
				module = nodeText(c, source)
			}
		}
		confidence := Resolved
		if wildcard {
			confidence = Dynamic
		}
		return RawImport{
			RawPath:     module,
			SourceFile:  filePath,
			Line:        line,
			Kind:        RelativeImport,
			Confidence:  confidence,
			FromModule:  module,
			Names:       names,
			RelativeLvl: level,
		}, true
	}

	dotted := nodeText(moduleNode, source)
	confidence := Resolved
	if isPythonStdlib(dotted) {
		confidence = External
	}
	if wildcard {
		confidence = Dynamic
	}
	return RawImport{
		RawPath:    dotted,
		SourceFile: filePath,
		Line:       line,
		Kind:       FromImport,
		Confidence: confidence,
		FromModule: dotted,
		Names:      names,
	}, true
}

func (f *PythonFrontend) Resolve(raw RawImport, projectRoot string, projectFiles []string) (string, bool) {
	switch raw.Kind {
	case Direct:
		return resolvePyDotted(raw.RawPath, projectRoot, projectFiles)
	case FromImport:
		return resolvePyDotted(raw.FromModule, projectRoot, projectFiles)
	case RelativeImport:
		baseDir := filepath.Dir(raw.SourceFile)
		for i := 0; i < raw.RelativeLvl-1; i++ {
			baseDir = filepath.Dir(baseDir)
		}
		if raw.FromModule != "" {
			segs := strings.Split(raw.FromModule, ".")
			baseDir = filepath.Join(append([]string{baseDir}, segs...)...)
		}
		// `from . import name` may name a submodule of the package rather
		// than an attribute of its __init__.py; try each imported name as
		// a submodule of baseDir before falling back to the package itself.
		for _, name := range raw.Names {
			if target, ok := resolvePyDir(filepath.Join(baseDir, name), projectRoot, projectFiles); ok {
				return target, true
			}
		}
		return resolvePyDir(baseDir, projectRoot, projectFiles)
	default:
		return "", false
	}
}

func resolvePyDotted(dotted, projectRoot string, projectFiles []string) (string, bool) {
	if dotted == "" {
		return "", false
	}
	segs := strings.Split(dotted, ".")
	dir := filepath.Join(append([]string{projectRoot}, segs...)...)
	return resolvePyDir(dir, projectRoot, projectFiles)
}

func resolvePyDir(dir, projectRoot string, projectFiles []string) (string, bool) {
	// Prefer the package form: a directory's __init__.py takes precedence
	// over a same-named module file when both exist.
	candidates := []string{filepath.Join(dir, "__init__.py"), dir + ".py"}
	for _, c := range candidates {
		if fileIn(c, projectFiles) {
			rel, err := filepath.Rel(projectRoot, c)
			if err != nil {
				continue
			}
			return filepath.ToSlash(rel), true
		}
	}
	return "", false
}

func fileIn(path string, files []string) bool {
	for _, f := range files {
		if f == path {
			return true
		}
	}
	if _, err := os.Stat(path); err == nil {
		return true
	}
	return false
}
