// Package maxflow solves the s-t minimum cut on a directed capacitated
// graph. It exposes exactly the shape pkg/graphcut needs: build a graph
// of correspondence nodes plus a source and sink, run Solve, and read
// back which side of the cut each node landed on.
package maxflow

import "math"

// Inf is a capacity effectively infinite for any graph this package will
// see. It is kept well below the int64 overflow margin so that summing a
// handful of Inf-capacity edges during residual bookkeeping never wraps.
const Inf int64 = math.MaxInt64 / 4

type edge struct {
	to       int
	cap      int64
	flow     int64
	reverse  int // index, in the same edges slice, of the paired reverse edge
}

// Graph is a directed capacitated graph with a distinguished source and
// sink, built fresh for each alpha-expansion move and discarded
// afterward.
type Graph struct {
	numNodes     int
	edges        []edge
	adj          [][]int // adj[node] = indices into edges of its out-edges
	source, sink int
}

// New creates a graph with numNodes ordinary nodes, plus a source and sink
// appended as nodes numNodes and numNodes+1 respectively.
func New(numNodes int) *Graph {
	g := &Graph{
		numNodes: numNodes + 2,
		adj:      make([][]int, numNodes+2),
	}
	g.source = numNodes
	g.sink = numNodes + 1
	return g
}

// NewDynamic creates a graph with only a source and sink; ordinary nodes
// are appended one at a time with AddNode. pkg/graphcut uses this instead
// of New because the node count of a single alpha-expansion graph isn't
// known until the correspondences that will appear in it are enumerated.
func NewDynamic() *Graph {
	g := &Graph{
		numNodes: 2,
		adj:      make([][]int, 2),
	}
	g.source = 0
	g.sink = 1
	return g
}

// AddNode appends a new ordinary node and returns its index.
func (g *Graph) AddNode() int {
	id := len(g.adj)
	g.adj = append(g.adj, nil)
	g.numNodes++
	return id
}

// Source returns the source node's index.
func (g *Graph) Source() int { return g.source }

// Sink returns the sink node's index.
func (g *Graph) Sink() int { return g.sink }

// AddEdge adds a directed edge u->v with capacity capUV, and its paired
// reverse edge v->u with capacity capVU (0 if the edge is meant to be
// directed only). A reverse edge is always installed for the
// residual-capacity bookkeeping max-flow needs.
func (g *Graph) AddEdge(u, v int, capUV, capVU int64) {
	i := len(g.edges)
	g.edges = append(g.edges, edge{to: v, cap: capUV, reverse: i + 1})
	g.edges = append(g.edges, edge{to: u, cap: capVU, reverse: i})
	g.adj[u] = append(g.adj[u], i)
	g.adj[v] = append(g.adj[v], i+1)
}

// AddSourceEdge adds a source->v edge of capacity w (data or occlusion
// cost, depending on which side of the α-expansion v sits on).
func (g *Graph) AddSourceEdge(v int, w int64) {
	g.AddEdge(g.source, v, w, 0)
}

// AddSinkEdge adds a v->sink edge of capacity w.
func (g *Graph) AddSinkEdge(v int, w int64) {
	g.AddEdge(v, g.sink, w, 0)
}

// Solve computes the maximum flow from source to sink via repeated BFS
// augmenting paths (Edmonds-Karp). It returns the flow value and an
// onSourceSide predicate: true for nodes reachable from the source in the
// residual graph after saturation, false for nodes on the sink side. The
// partition is an exact minimum s-t cut.
func (g *Graph) Solve() (flow int64, onSourceSide func(node int) bool) {
	parent := make([]int, g.numNodes)
	parentEdge := make([]int, g.numNodes)

	for {
		for i := range parent {
			parent[i] = -1
		}
		parent[g.source] = g.source
		queue := []int{g.source}
		for len(queue) > 0 && parent[g.sink] == -1 {
			u := queue[0]
			queue = queue[1:]
			for _, ei := range g.adj[u] {
				e := g.edges[ei]
				if e.cap-e.flow <= 0 {
					continue
				}
				if parent[e.to] != -1 {
					continue
				}
				parent[e.to] = u
				parentEdge[e.to] = ei
				queue = append(queue, e.to)
			}
		}
		if parent[g.sink] == -1 {
			break
		}

		// Find the bottleneck along the discovered path.
		bottleneck := Inf
		for v := g.sink; v != g.source; v = parent[v] {
			ei := parentEdge[v]
			if avail := g.edges[ei].cap - g.edges[ei].flow; avail < bottleneck {
				bottleneck = avail
			}
		}

		for v := g.sink; v != g.source; v = parent[v] {
			ei := parentEdge[v]
			g.edges[ei].flow += bottleneck
			g.edges[g.edges[ei].reverse].flow -= bottleneck
		}
		flow += bottleneck
	}

	reachable := make([]bool, g.numNodes)
	reachable[g.source] = true
	queue := []int{g.source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, ei := range g.adj[u] {
			e := g.edges[ei]
			if e.cap-e.flow > 0 && !reachable[e.to] {
				reachable[e.to] = true
				queue = append(queue, e.to)
			}
		}
	}

	return flow, func(node int) bool { return reachable[node] }
}
