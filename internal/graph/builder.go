package graph

import "untangle/internal/importscan"

// Builder accumulates resolved imports into a DepGraph, interning nodes by
// canonical path and de-duplicating edges by accumulating their source
// locations — mirrors graph/builder.rs's GraphBuilder/ensure_node/add_import.
//
// Not safe for concurrent use: the pipeline's build phase is deliberately
// sequential (spec.md §5) so that node-insertion order, and therefore SCC
// ids, are deterministic.
type Builder struct {
	g *DepGraph
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{g: NewDepGraph()}
}

// EnsureNode interns path as a node, returning its index. Calling it
// again with the same path is a no-op that returns the existing index.
func (b *Builder) EnsureNode(path, language string) int {
	if idx, ok := b.g.indexOf[path]; ok {
		return idx
	}
	idx := len(b.g.nodes)
	b.g.nodes = append(b.g.nodes, Node{
		Kind:           ModuleNode,
		Path:           path,
		Name:           path,
		SourceLanguage: language,
	})
	b.g.indexOf[path] = idx
	return idx
}

// AddImport adds (or accumulates onto) an edge for a single resolved
// import, interning both endpoints first.
// A self-import (src == dst) is kept rather than dropped: it produces a
// self-loop, which metrics.FindNonTrivialSCCs treats as a non-trivial
// (size-1) strongly connected component — see spec.md's SCC edge cases.
func (b *Builder) AddImport(ri importscan.ResolvedImport, language string) {
	src := b.EnsureNode(ri.SourceModule, language)
	dst := b.EnsureNode(ri.TargetModule, language)

	key := edgeKey{src, dst}
	if e, ok := b.g.edges[key]; ok {
		e.SourceLocations = append(e.SourceLocations, ri.Location)
		return
	}

	b.g.edges[key] = &Edge{
		Kind:            ImportEdge,
		SourceLocations: []importscan.SourceLocation{ri.Location},
		Weight:          1,
	}
	b.g.out[src] = append(b.g.out[src], dst)
	b.g.in[dst] = append(b.g.in[dst], src)
}

// Build finalizes and returns the graph.
func (b *Builder) Build() *DepGraph {
	return b.g
}
