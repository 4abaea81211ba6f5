package config

import (
	"os"
	"path/filepath"
	"strings"
)

// LoadUntangleIgnore reads <root>/.untangleignore (gitignore syntax) and
// returns its patterns as-is for the caller to append to the effective
// exclude set. Loaded independently of the layered config — it is not
// itself a config source and carries no provenance entry.
func LoadUntangleIgnore(root string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(root, ".untangleignore"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return parseIgnorePatterns(string(data)), nil
}

func parseIgnorePatterns(content string) []string {
	var patterns []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}
