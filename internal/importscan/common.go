// Package importscan extracts and resolves source-level import statements
// for each of the four supported languages, grounded on original_source's
// parse/{common,mod,factory,resolver,go,python,ruby,rust}.rs.
package importscan

// ImportKind classifies how an import was written in source.
type ImportKind int

const (
	// Direct covers `import foo`, `require "foo"`, `import "foo"`.
	Direct ImportKind = iota
	// FromImport covers Python's `from foo import bar`.
	FromImport
	// RelativeImport covers Python's `from . import foo`.
	RelativeImport
	// RequireRelative covers Ruby's `require_relative "./foo"`.
	RequireRelative
	// Autoload covers Ruby's `autoload :Foo, "path"`.
	Autoload
	// ZeitwerkConstant covers a bare CamelCase constant reference resolved
	// via the Zeitwerk convention rather than an explicit require.
	ZeitwerkConstant
)

// ImportConfidence records how resolvable a raw import is expected to be.
type ImportConfidence int

const (
	// Resolved means the import is (or is expected to be) fully resolvable
	// to a project-internal target.
	Resolved ImportConfidence = iota
	// External means the import is likely third-party or stdlib.
	External
	// Dynamic means the import path has a dynamic component.
	Dynamic
	// Unresolvable means the import used string interpolation or
	// metaprogramming beyond static analysis.
	Unresolvable
)

// SourceLocation pinpoints a single import statement for edge provenance.
type SourceLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column *int   `json:"column,omitempty"`
}

// RawImport is an import statement extracted from a single source file,
// not yet resolved against the rest of the project.
type RawImport struct {
	RawPath     string
	SourceFile  string
	Line        int
	Column      *int
	Kind        ImportKind
	Confidence  ImportConfidence
	FromModule  string   // FromImport/RelativeImport: the "from" module
	Names       []string // FromImport/RelativeImport: imported names
	RelativeLvl int      // RelativeImport: number of leading dots
	Constant    string   // Autoload: the constant being bound
}

// ResolvedImport is a RawImport that has been matched to a project-internal
// target module, ready to become a graph edge.
type ResolvedImport struct {
	SourceModule string
	TargetModule string
	Location     SourceLocation
}
