// Package graph builds and ranks the file dependency graph.
package graph

// Edge represents a directed edge between two files.
type Edge struct {
	From   string
	To     string
	Weight float64
	// Kind is "reference" for name-match edges and "precise" for
	// edges loaded from an index.
	Kind string
}

// Graph is a sparse directed graph over file paths. Isolated files are
// still nodes; ranking needs the complete node set.
type Graph struct {
	nodes   []string
	nodeIdx map[string]int

	outEdges [][]edgeEntry
}

type edgeEntry struct {
	target int
	weight float64
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodeIdx: make(map[string]int),
	}
}

// AddNode adds a node if it doesn't exist and returns its index.
func (g *Graph) AddNode(path string) int {
	if idx, ok := g.nodeIdx[path]; ok {
		return idx
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, path)
	g.nodeIdx[path] = idx
	g.outEdges = append(g.outEdges, nil)
	return idx
}

// AddEdge adds a directed weighted edge from src to dst, creating the
// nodes as needed. Self-loops are allowed; the ranking algorithm
// tolerates them.
func (g *Graph) AddEdge(src, dst string, weight float64) {
	srcIdx := g.AddNode(src)
	dstIdx := g.AddNode(dst)
	g.outEdges[srcIdx] = append(g.outEdges[srcIdx], edgeEntry{target: dstIdx, weight: weight})
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// NumEdges returns the total number of edges.
func (g *Graph) NumEdges() int {
	total := 0
	for _, edges := range g.outEdges {
		total += len(edges)
	}
	return total
}

// Nodes returns all node paths in insertion order.
func (g *Graph) Nodes() []string {
	return g.nodes
}

// HasNode reports whether a path is a node.
func (g *Graph) HasNode(path string) bool {
	_, ok := g.nodeIdx[path]
	return ok
}
