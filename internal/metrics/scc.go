package metrics

import "untangle/internal/graph"

// SCC is a single strongly connected component.
type SCC struct {
	ID            int      `json:"id"`
	Size          int      `json:"size"`
	Members       []string `json:"members"`
	InternalEdges int      `json:"internal_edges"`
}

// tarjan runs Tarjan's strongly connected components algorithm over g,
// returning every SCC (including trivial, size-1, no-self-loop ones) as
// slices of node indices, in the order Tarjan discovers them.
func tarjan(g *graph.DepGraph) [][]int {
	n := g.NodeCount()
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	visited := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	var stack []int
	var result [][]int
	counter := 0

	var strongConnect func(v int)
	strongConnect = func(v int) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true
		visited[v] = true

		for _, w := range g.Out(v) {
			if index[w] == -1 {
				strongConnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var component []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			result = append(result, component)
		}
	}

	for v := 0; v < n; v++ {
		if !visited[v] {
			strongConnect(v)
		}
	}
	return result
}

// hasSelfLoop reports whether idx has an edge to itself.
func hasSelfLoop(g *graph.DepGraph, idx int) bool {
	for _, w := range g.Out(idx) {
		if w == idx {
			return true
		}
	}
	return false
}

func countInternalEdges(g *graph.DepGraph, members []int) int {
	set := make(map[int]bool, len(members))
	for _, m := range members {
		set[m] = true
	}
	count := 0
	for _, m := range members {
		for _, w := range g.Out(m) {
			if set[w] {
				count++
			}
		}
	}
	return count
}

// FindNonTrivialSCCs returns every SCC whose size is greater than one, or
// whose single member has a self-loop — a size-1 self-loop is still a
// cycle and therefore non-trivial, matching metrics/scc.rs.
func FindNonTrivialSCCs(g *graph.DepGraph) []SCC {
	components := tarjan(g)
	var out []SCC
	id := 0
	for _, comp := range components {
		if len(comp) == 1 && !hasSelfLoop(g, comp[0]) {
			continue
		}
		members := make([]string, len(comp))
		for i, idx := range comp {
			members[i] = g.Node(idx).Name
		}
		out = append(out, SCC{
			ID:            id,
			Size:          len(comp),
			Members:       members,
			InternalEdges: countInternalEdges(g, comp),
		})
		id++
	}
	return out
}

// NodeSCCMap maps each node index that belongs to a non-trivial SCC to
// that SCC's id.
func NodeSCCMap(g *graph.DepGraph, sccs []SCC) map[int]int {
	nameToIdx := make(map[string]int)
	for _, idx := range g.NodeIndices() {
		nameToIdx[g.Node(idx).Name] = idx
	}
	out := make(map[int]int)
	for _, scc := range sccs {
		for _, name := range scc.Members {
			if idx, ok := nameToIdx[name]; ok {
				out[idx] = scc.ID
			}
		}
	}
	return out
}
