// Package graph holds the dependency graph's in-memory representation and
// the builder that interns nodes and de-duplicates edges while
// accumulating source-location provenance, grounded on
// original_source/src/graph/{ir,builder}.rs and the adjacency-list shape
// of internal/graph/ppr.go's Graph type.
package graph

import "untangle/internal/importscan"

// NodeKind classifies a graph node. v1 only produces Module nodes; the
// type exists so future node kinds (e.g. external packages) can be added
// without reshaping the graph.
type NodeKind int

const (
	ModuleNode NodeKind = iota
)

// EdgeKind classifies a graph edge.
type EdgeKind int

const (
	ImportEdge EdgeKind = iota
	GraphqlQueryEdge
	RestCallEdge
)

func (k EdgeKind) String() string {
	switch k {
	case GraphqlQueryEdge:
		return "graphql_query"
	case RestCallEdge:
		return "rest_call"
	default:
		return "import"
	}
}

// Node is a single module in the dependency graph.
type Node struct {
	Kind           NodeKind
	Path           string
	Name           string
	SourceLanguage string
}

// Edge is a directed dependency between two nodes, carrying every source
// location that contributed to it.
type Edge struct {
	Kind            EdgeKind
	SourceLocations []importscan.SourceLocation
	Weight          int
}

// DepGraph is an adjacency-list directed graph keyed by interned node
// index, matching the shape of internal/graph/ppr.go's Graph but carrying
// untangle's richer Node/Edge payloads instead of SCIP symbol data.
type DepGraph struct {
	nodes   []Node
	indexOf map[string]int // node Path -> index

	// adjacency by source node index; edge payload for (src,dst) pair
	// lives in edges, keyed by the (src, dst) index pair.
	out   map[int][]int
	in    map[int][]int
	edges map[edgeKey]*Edge
}

type edgeKey struct{ src, dst int }

// NewDepGraph creates an empty graph.
func NewDepGraph() *DepGraph {
	return &DepGraph{
		indexOf: make(map[string]int),
		out:     make(map[int][]int),
		in:      make(map[int][]int),
		edges:   make(map[edgeKey]*Edge),
	}
}

// NodeCount returns the number of interned nodes.
func (g *DepGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct (deduplicated) edges.
func (g *DepGraph) EdgeCount() int { return len(g.edges) }

// Node returns the node at idx.
func (g *DepGraph) Node(idx int) Node { return g.nodes[idx] }

// NodeIndices returns every valid node index, in insertion order —
// insertion order is deterministic because the builder processes files in
// sorted order (see the concurrency model in spec.md §5).
func (g *DepGraph) NodeIndices() []int {
	idx := make([]int, len(g.nodes))
	for i := range g.nodes {
		idx[i] = i
	}
	return idx
}

// IndexOf returns the index of the node with the given path, if present.
func (g *DepGraph) IndexOf(path string) (int, bool) {
	i, ok := g.indexOf[path]
	return i, ok
}

// Out returns the indices of nodes targeted by outgoing edges from idx.
func (g *DepGraph) Out(idx int) []int { return g.out[idx] }

// In returns the indices of nodes with an outgoing edge into idx.
func (g *DepGraph) In(idx int) []int { return g.in[idx] }

// EdgeBetween returns the edge payload from src to dst, if one exists.
func (g *DepGraph) EdgeBetween(src, dst int) (*Edge, bool) {
	e, ok := g.edges[edgeKey{src, dst}]
	return e, ok
}

// AllEdges returns every (src, dst, edge) triple. Iteration order is not
// guaranteed; callers needing determinism should sort by node name.
func (g *DepGraph) AllEdges() []struct {
	Src, Dst int
	Edge     *Edge
} {
	out := make([]struct {
		Src, Dst int
		Edge     *Edge
	}, 0, len(g.edges))
	for k, e := range g.edges {
		out = append(out, struct {
			Src, Dst int
			Edge     *Edge
		}{k.src, k.dst, e})
	}
	return out
}
