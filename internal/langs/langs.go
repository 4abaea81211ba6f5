// Package langs wraps smacker/go-tree-sitter, dispatching to the
// per-language grammar the way internal/complexity/treesitter.go dispatches
// for complexity analysis — here used to parse source for import extraction
// instead of cyclomatic-complexity counting.
package langs

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"

	"untangle/internal/walk"
)

// Parser parses source bytes into a tree-sitter syntax tree for one of the
// four supported languages. Not safe for concurrent use; callers parsing
// in parallel must create one Parser per worker, since the underlying
// tree-sitter parser is not thread-safe.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a fresh, language-less Parser. Call Parse to bind a
// grammar for a given parse.
func NewParser() *Parser {
	return &Parser{parser: sitter.NewParser()}
}

// Parse parses source using lang's grammar, returning the tree's root node.
func (p *Parser) Parse(ctx context.Context, source []byte, lang walk.Language) (*sitter.Node, error) {
	tsLang, err := grammarFor(lang)
	if err != nil {
		return nil, err
	}
	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	return tree.RootNode(), nil
}

func grammarFor(lang walk.Language) (*sitter.Language, error) {
	switch lang {
	case walk.Go:
		return golang.GetLanguage(), nil
	case walk.Python:
		return python.GetLanguage(), nil
	case walk.Ruby:
		return ruby.GetLanguage(), nil
	case walk.Rust:
		return rust.GetLanguage(), nil
	default:
		return nil, &unsupportedLanguageError{lang: string(lang)}
	}
}

type unsupportedLanguageError struct{ lang string }

func (e *unsupportedLanguageError) Error() string {
	return "langs: unsupported language: " + e.lang
}
