package output

import (
	"fmt"
	"io"

	"untangle/internal/graph"
)

// WriteDOT writes g as a Graphviz DOT digraph, matching output/dot.rs's
// write_dot.
func WriteDOT(w io.Writer, g *graph.DepGraph) error {
	fmt.Fprintln(w, "digraph dependencies {")
	fmt.Fprintln(w, "    rankdir=LR;")
	fmt.Fprintln(w, "    node [shape=box, style=filled, fillcolor=lightblue];")
	fmt.Fprintln(w)

	for _, idx := range g.NodeIndices() {
		n := g.Node(idx)
		fmt.Fprintf(w, "    \"%s\" [label=\"%s\"];\n", n.Name, n.Name)
	}
	fmt.Fprintln(w)

	for _, e := range g.AllEdges() {
		sourceName := g.Node(e.Src).Name
		targetName := g.Node(e.Dst).Name
		locCount := len(e.Edge.SourceLocations)
		if locCount > 1 {
			fmt.Fprintf(w, "    \"%s\" -> \"%s\" [label=\"%d refs\"];\n", sourceName, targetName, locCount)
		} else {
			fmt.Fprintf(w, "    \"%s\" -> \"%s\";\n", sourceName, targetName)
		}
	}

	fmt.Fprintln(w, "}")
	return nil
}
