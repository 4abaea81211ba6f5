// Package walk discovers source files under a project root and detects
// the dominant source language, mirroring the original walk.rs module.
package walk

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"untangle/internal/uerrors"
)

// Language is one of the four languages untangle understands.
type Language string

const (
	Go     Language = "go"
	Python Language = "python"
	Ruby   Language = "ruby"
	Rust   Language = "rust"
)

// ParseLanguage parses a CLI/config string into a Language.
func ParseLanguage(s string) (Language, bool) {
	switch strings.ToLower(s) {
	case "go":
		return Go, true
	case "python", "py":
		return Python, true
	case "ruby", "rb":
		return Ruby, true
	case "rust", "rs":
		return Rust, true
	default:
		return "", false
	}
}

// Extensions returns the file extensions recognized for this language.
func (l Language) Extensions() []string {
	switch l {
	case Go:
		return []string{".go"}
	case Python:
		return []string{".py"}
	case Ruby:
		return []string{".rb"}
	case Rust:
		return []string{".rs"}
	default:
		return nil
	}
}

// DefaultExcludes returns language-specific default exclude globs applied
// unless IncludeTests is set.
func (l Language) DefaultExcludes() []string {
	switch l {
	case Go:
		return []string{"*_test.go"}
	default:
		return nil
	}
}

func (l Language) String() string { return string(l) }

// commonExcludes are always applied regardless of language.
var commonExcludes = []string{
	"**/.git/**",
	"**/vendor/**",
	"**/node_modules/**",
	"**/.venv/**",
	"**/venv/**",
	"**/target/**",
	"**/dist/**",
	"**/build/**",
}

// DiscoverFiles walks root, collecting files matching lang's extensions,
// applying excludeGlobs (plus lang's default excludes unless includeTests)
// and includeGlobs (if non-empty, only matching files are kept), then
// sorts the result for deterministic downstream processing.
func DiscoverFiles(root string, lang Language, includeGlobs, excludeGlobs []string, includeTests bool) ([]string, error) {
	excludes := append([]string{}, commonExcludes...)
	if !includeTests {
		excludes = append(excludes, lang.DefaultExcludes()...)
	}
	excludes = append(excludes, excludeGlobs...)

	excludeMatcher, err := ignore.CompileIgnoreLines(excludes...)
	if err != nil {
		return nil, uerrors.Wrap(uerrors.GlobError, "failed to compile exclude patterns", err)
	}
	var includeMatcher *ignore.GitIgnore
	if len(includeGlobs) > 0 {
		includeMatcher, err = ignore.CompileIgnoreLines(includeGlobs...)
		if err != nil {
			return nil, uerrors.Wrap(uerrors.GlobError, "failed to compile include patterns", err)
		}
	}

	extSet := make(map[string]bool)
	for _, ext := range lang.Extensions() {
		extSet[ext] = true
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil // recoverable: skip unreadable entries
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if rel == "." {
			return nil
		}
		if info.IsDir() {
			if excludeMatcher.MatchesPath(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !extSet[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if excludeMatcher.MatchesPath(rel) {
			return nil
		}
		if includeMatcher != nil && !includeMatcher.MatchesPath(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, uerrors.Wrap(uerrors.ReadFailure, "failed to walk project root", err).WithPath(root)
	}

	sort.Strings(files)
	return files, nil
}

// DetectLanguage counts file extensions under root and returns the
// dominant language, with ties broken Python > Go > Rust > Ruby to match
// the reference walker's priority order.
func DetectLanguage(root string) (Language, bool) {
	counts := map[Language]int{}
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".py":
			counts[Python]++
		case ".go":
			counts[Go]++
		case ".rs":
			counts[Rust]++
		case ".rb":
			counts[Ruby]++
		}
		return nil
	})

	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	if max == 0 {
		return "", false
	}
	switch {
	case counts[Python] == max:
		return Python, true
	case counts[Go] == max:
		return Go, true
	case counts[Rust] == max:
		return Rust, true
	default:
		return Ruby, true
	}
}
