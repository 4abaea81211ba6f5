package importscan

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"untangle/internal/config"
	"untangle/internal/langs"
	"untangle/internal/walk"
)

// Frontend is implemented once per supported language: it extracts raw
// imports from a file's source bytes, then resolves a raw import to a
// canonical project-internal module path.
type Frontend interface {
	// ExtractImports walks the parsed AST of source, collecting every
	// import-like statement as a RawImport.
	ExtractImports(source []byte, filePath string) []RawImport

	// Resolve maps a RawImport to a canonical project-internal module
	// path, or returns ("", false) if the import is external/unresolvable.
	Resolve(raw RawImport, projectRoot string, projectFiles []string) (string, bool)
}

// NewFrontend constructs the Frontend for lang, wiring in project-specific
// context (Go module path, Rust crate name, Ruby load paths) discovered
// once up front by the pipeline orchestrator.
func NewFrontend(lang walk.Language, cfg *config.Resolved, goModulePath, rustCrateName string) Frontend {
	switch lang {
	case walk.Go:
		return NewGoFrontend(goModulePath, cfg.Go.ExcludeStdlib)
	case walk.Python:
		return NewPythonFrontend()
	case walk.Ruby:
		mode := ZeitwerkOff
		if cfg.Ruby.Zeitwerk {
			mode = ZeitwerkOn
		}
		return NewRubyFrontend(cfg.Ruby.LoadPaths, mode)
	case walk.Rust:
		return NewRustFrontend(rustCrateName)
	default:
		return nil
	}
}

// parseRoot parses source with lang's grammar and returns the tree's root
// node, or nil if the language is unsupported or parsing failed.
func parseRoot(source []byte, lang walk.Language) *sitter.Node {
	p := langs.NewParser()
	root, err := p.Parse(context.Background(), source, lang)
	if err != nil {
		return nil
	}
	return root
}

// walkTree calls visit for every node in the tree rooted at n, depth-first,
// pre-order.
func walkTree(n *sitter.Node, visit func(*sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		walkTree(n.Child(i), visit)
	}
}

func nodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(source)
}

// stripQuotes removes a single leading/trailing matching quote character.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
