package importscan

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"untangle/internal/walk"
)

// ZeitwerkMode toggles Ruby's optional Zeitwerk-convention constant
// resolution alongside explicit require/require_relative/autoload.
type ZeitwerkMode int

const (
	ZeitwerkOff ZeitwerkMode = iota
	ZeitwerkOn
)

// RubyFrontend extracts and resolves Ruby require/require_relative/autoload
// calls, and — in ZeitwerkOn mode — bare constant references resolved via
// the Zeitwerk CamelCase-to-snake_case file convention.
//
// Open question (preserved, not resolved): a bare `constant` AST node is
// ambiguous between a class/module *definition* and a *reference*. This
// frontend does not attempt to disambiguate — every bare constant node is
// treated as a ZeitwerkConstant candidate and left to the snake_case
// file-existence check in Resolve to decide resolvability. Broadening this
// to filter out definition occurrences would change behavior the spec
// asks to be preserved as-is.
type RubyFrontend struct {
	loadPaths []string
	zeitwerk  ZeitwerkMode
}

func NewRubyFrontend(loadPaths []string, mode ZeitwerkMode) *RubyFrontend {
	return &RubyFrontend{loadPaths: loadPaths, zeitwerk: mode}
}

// CamelToSnake converts a CamelCase constant name to the snake_case file
// name Zeitwerk expects, handling runs of consecutive capitals
// (e.g. HTMLParser -> html_parser).
func CamelToSnake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, c := range runes {
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
				nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
				if prevLower || (i > 1 && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(c - 'A' + 'a')
		} else {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func (f *RubyFrontend) ExtractImports(source []byte, filePath string) []RawImport {
	root := parseRoot(source, walk.Ruby)
	if root == nil {
		return nil
	}

	var imports []RawImport
	walkTree(root, func(n *sitter.Node) {
		switch n.Type() {
		case "call":
			if ri, ok := extractRubyCall(n, source, filePath); ok {
				imports = append(imports, ri)
			}
		case "constant":
			if f.zeitwerk == ZeitwerkOn {
				name := nodeText(n, source)
				if name != "" {
					imports = append(imports, RawImport{
						RawPath:    name,
						SourceFile: filePath,
						Line:       int(n.StartPoint().Row) + 1,
						Kind:       ZeitwerkConstant,
						Confidence: Resolved,
						Constant:   name,
					})
				}
			}
		}
	})
	return imports
}

func extractRubyCall(n *sitter.Node, source []byte, filePath string) (RawImport, bool) {
	method := n.ChildByFieldName("method")
	if method == nil {
		return RawImport{}, false
	}
	name := nodeText(method, source)
	line := int(n.StartPoint().Row) + 1

	args := n.ChildByFieldName("arguments")

	switch name {
	case "require", "require_relative":
		arg := firstStringArg(args, source)
		if arg == "" {
			return RawImport{}, false
		}
		kind := Direct
		if name == "require_relative" {
			kind = RequireRelative
		}
		confidence := Resolved
		if strings.ContainsAny(arg, "#\\") {
			confidence = Dynamic
		}
		return RawImport{
			RawPath:    arg,
			SourceFile: filePath,
			Line:       line,
			Kind:       kind,
			Confidence: confidence,
		}, true
	case "autoload":
		constant, path := autoloadArgs(args, source)
		if path == "" {
			return RawImport{}, false
		}
		return RawImport{
			RawPath:    path,
			SourceFile: filePath,
			Line:       line,
			Kind:       Autoload,
			Confidence: Resolved,
			Constant:   constant,
		}, true
	default:
		return RawImport{}, false
	}
}

func firstStringArg(args *sitter.Node, source []byte) string {
	if args == nil {
		return ""
	}
	for i := 0; i < int(args.ChildCount()); i++ {
		c := args.Child(i)
		if c.Type() == "string" {
			return extractRubyStringContent(c, source)
		}
	}
	return ""
}

func autoloadArgs(args *sitter.Node, source []byte) (constant, path string) {
	if args == nil {
		return "", ""
	}
	for i := 0; i < int(args.ChildCount()); i++ {
		c := args.Child(i)
		switch c.Type() {
		case "simple_symbol":
			constant = strings.TrimPrefix(nodeText(c, source), ":")
		case "string":
			path = extractRubyStringContent(c, source)
		}
	}
	return constant, path
}

func extractRubyStringContent(n *sitter.Node, source []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "string_content" {
			return nodeText(c, source)
		}
	}
	return stripQuotes(nodeText(n, source))
}

func (f *RubyFrontend) Resolve(raw RawImport, projectRoot string, projectFiles []string) (string, bool) {
	switch raw.Kind {
	case RequireRelative:
		base := filepath.Dir(raw.SourceFile)
		candidate := filepath.Join(base, raw.RawPath)
		if !strings.HasSuffix(candidate, ".rb") {
			candidate += ".rb"
		}
		return relIfExists(candidate, projectRoot, projectFiles)

	case Autoload, Direct:
		// "foo/bar" require resolved against load paths (including project
		// root itself, Ruby's default $LOAD_PATH entry for app code).
		roots := append([]string{projectRoot}, f.loadPaths...)
		for _, lp := range roots {
			candidate := filepath.Join(lp, raw.RawPath)
			if !strings.HasSuffix(candidate, ".rb") {
				candidate += ".rb"
			}
			if path, ok := relIfExists(candidate, projectRoot, projectFiles); ok {
				return path, true
			}
		}
		return "", false

	case ZeitwerkConstant:
		snake := CamelToSnake(raw.Constant)
		roots := append([]string{projectRoot}, f.loadPaths...)
		for _, lp := range roots {
			candidate := filepath.Join(lp, snake+".rb")
			if path, ok := relIfExists(candidate, projectRoot, projectFiles); ok {
				return path, true
			}
		}
		return "", false

	default:
		return "", false
	}
}

func relIfExists(candidate, projectRoot string, projectFiles []string) (string, bool) {
	if !fileIn(candidate, projectFiles) {
		return "", false
	}
	rel, err := filepath.Rel(projectRoot, candidate)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
