package importscan

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"untangle/internal/walk"
)

// RustFrontend extracts and resolves Rust `use` declarations. Module-file
// resolution progressively trims trailing path segments when searching for
// a matching `.rs`/`mod.rs` file — a known, intentionally lossy
// approximation carried over from the original implementation: it can
// match a shorter-than-intended module when an exact deep path doesn't
// exist on disk. This is preserved as-is, not corrected.
type RustFrontend struct {
	crateName string
}

func NewRustFrontend(crateName string) *RustFrontend {
	return &RustFrontend{crateName: normalizeCrateName(crateName)}
}

func normalizeCrateName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// ReadCargoToml extracts the crate's package name from root/Cargo.toml.
func ReadCargoToml(root string) string {
	f, err := os.Open(filepath.Join(root, "Cargo.toml"))
	if err != nil {
		return ""
	}
	defer f.Close()

	inPackage := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			inPackage = line == "[package]"
			continue
		}
		if !inPackage {
			continue
		}
		if strings.HasPrefix(line, "name") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				return strings.Trim(strings.TrimSpace(parts[1]), `"`)
			}
		}
	}
	return ""
}

func (f *RustFrontend) ExtractImports(source []byte, filePath string) []RawImport {
	root := parseRoot(source, walk.Rust)
	if root == nil {
		return nil
	}

	var imports []RawImport
	walkTree(root, func(n *sitter.Node) {
		if n.Type() != "use_declaration" {
			return
		}
		line := int(n.StartPoint().Row) + 1
		text := nodeText(n, source)
		text = strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "use")), ";")
		text = strings.TrimSpace(text)

		for _, path := range flattenUseTree(text) {
			path = strings.TrimSpace(path)
			if path == "" || path == "self" {
				continue
			}
			wildcard := strings.HasSuffix(path, "::*")
			path = strings.TrimSuffix(path, "::*")

			first := strings.SplitN(path, "::", 2)[0]
			confidence := External
			switch {
			case first == "crate" || (f.crateName != "" && first == f.crateName):
				confidence = Resolved
			case first == "self" || first == "super":
				confidence = Resolved
			}
			if wildcard && confidence == Resolved {
				confidence = Dynamic
			}

			imports = append(imports, RawImport{
				RawPath:    path,
				SourceFile: filePath,
				Line:       line,
				Kind:       Direct,
				Confidence: confidence,
			})
		}
	})
	return imports
}

// flattenUseTree expands a single `use` declaration's body (sans leading
// "use "/trailing ";") into one fully-qualified path per leaf, handling a
// single level of `{a, b, c}` grouping. Nested groups are flattened
// textually rather than structurally — part of the same deliberate
// approximation as the trailing-segment-trimming resolver below.
func flattenUseTree(text string) []string {
	if asIdx := strings.Index(text, " as "); asIdx >= 0 && !strings.Contains(text, "{") {
		text = text[:asIdx]
	}

	open := strings.Index(text, "{")
	if open < 0 {
		return []string{text}
	}
	close := strings.LastIndex(text, "}")
	if close < 0 || close < open {
		return []string{text}
	}
	prefix := strings.TrimSuffix(text[:open], "::")
	inner := text[open+1 : close]

	var out []string
	for _, item := range strings.Split(inner, ",") {
		item = strings.TrimSpace(item)
		if asIdx := strings.Index(item, " as "); asIdx >= 0 {
			item = item[:asIdx]
		}
		if item == "" {
			continue
		}
		if item == "self" {
			out = append(out, prefix)
			continue
		}
		if prefix == "" {
			out = append(out, item)
		} else {
			out = append(out, prefix+"::"+item)
		}
	}
	return out
}

func (f *RustFrontend) Resolve(raw RawImport, projectRoot string, projectFiles []string) (string, bool) {
	segs := strings.Split(raw.RawPath, "::")
	if len(segs) == 0 {
		return "", false
	}

	var baseDir string
	switch segs[0] {
	case "crate":
		baseDir = filepath.Join(projectRoot, "src")
		segs = segs[1:]
	case "self":
		baseDir = filepath.Dir(raw.SourceFile)
		segs = segs[1:]
	case "super":
		baseDir = filepath.Dir(filepath.Dir(raw.SourceFile))
		segs = segs[1:]
	default:
		if f.crateName != "" && segs[0] == f.crateName {
			baseDir = filepath.Join(projectRoot, "src")
			segs = segs[1:]
		} else {
			return "", false
		}
	}

	for len(segs) > 0 {
		candidateFile := filepath.Join(append([]string{baseDir}, segs...)...) + ".rs"
		if fileIn(candidateFile, projectFiles) {
			rel, _ := filepath.Rel(projectRoot, candidateFile)
			return filepath.ToSlash(rel), true
		}
		candidateMod := filepath.Join(append(append([]string{baseDir}, segs...), "mod.rs")...)
		if fileIn(candidateMod, projectFiles) {
			rel, _ := filepath.Rel(projectRoot, candidateMod)
			return filepath.ToSlash(rel), true
		}
		segs = segs[:len(segs)-1]
	}
	return "", false
}
