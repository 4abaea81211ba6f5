package diffengine

import (
	"strings"

	"untangle/internal/config"
	"untangle/internal/graph"
	"untangle/internal/importscan"
	"untangle/internal/walk"
)

// buildGraphAtRef checks out the project's import graph as it existed at
// ref by reading every matching file's content via git-show rather than
// the working tree, matching cli/diff.rs's build_graph_at_ref.
func buildGraphAtRef(rs *revStore, ref string, lang walk.Language, cfg *config.Resolved) (*graph.DepGraph, error) {
	files, err := rs.ListFiles(ref, lang.Extensions())
	if err != nil {
		return nil, err
	}

	goModulePath := ""
	rustCrateName := ""
	if lang == walk.Go {
		if content, err := rs.ReadFile(ref, "go.mod"); err == nil {
			goModulePath = parseGoModulePath(string(content))
		}
	}
	if lang == walk.Rust {
		if content, err := rs.ReadFile(ref, "Cargo.toml"); err == nil {
			rustCrateName = parseCargoCrateName(string(content))
		}
	}

	frontend := importscan.NewFrontend(lang, cfg, goModulePath, rustCrateName)

	b := graph.NewBuilder()
	for _, filePath := range files {
		source, err := rs.ReadFile(ref, filePath)
		if err != nil {
			continue
		}

		raws := frontend.ExtractImports(source, filePath)
		for _, raw := range raws {
			if raw.Confidence == importscan.External || raw.Confidence == importscan.Dynamic || raw.Confidence == importscan.Unresolvable {
				continue
			}
			target, ok := frontend.Resolve(raw, "", files)
			if !ok {
				continue
			}
			sourceModule := filePath
			if lang == walk.Go {
				sourceModule = importscan.GoModuleDir(filePath, "")
			}
			b.AddImport(importscan.ResolvedImport{
				SourceModule: sourceModule,
				TargetModule: target,
				Location:     importscan.SourceLocation{File: filePath, Line: raw.Line, Column: raw.Column},
			}, string(lang))
		}
	}
	return b.Build(), nil
}

func parseGoModulePath(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module "))
		}
	}
	return ""
}

func parseCargoCrateName(content string) string {
	inPackage := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") {
			inPackage = line == "[package]"
			continue
		}
		if inPackage && strings.HasPrefix(line, "name") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				return strings.Trim(strings.TrimSpace(parts[1]), "\"")
			}
		}
	}
	return ""
}
