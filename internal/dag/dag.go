// Package dag holds the directed lineage graph built from assembled
// documents: kinded nodes for models, datasets, libraries, and produced
// artifacts, with labeled edges for dependency, lineage, and dataset-usage
// relations. All traversals return deterministically ordered results.
package dag

import (
	"fmt"
	"sort"
)

// NodeKind classifies a graph node.
type NodeKind string

const (
	NodeModel    NodeKind = "model"
	NodeDataset  NodeKind = "dataset"
	NodeLibrary  NodeKind = "library"
	NodeProduced NodeKind = "produced"
)

// EdgeKind classifies a graph edge.
type EdgeKind string

const (
	// EdgeDependency points from a dependency to the entity built from it.
	EdgeDependency EdgeKind = "dependency"
	// EdgeLineage points from an older version to its successor.
	EdgeLineage EdgeKind = "lineage"
	// EdgeDataset points from a dataset to an entity that consumed it.
	EdgeDataset EdgeKind = "uses-dataset"
)

// Node is one graph vertex, identified by a stable reference token.
type Node struct {
	ID      string
	Label   string
	Version string
	Kind    NodeKind
}

// Edge is a directed, kind-labeled edge between two node IDs.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
}

// Graph is a directed graph over provenance nodes. Edges are deduplicated
// on (from, to, kind).
type Graph struct {
	nodes map[string]*Node
	out   map[string][]Edge
	in    map[string][]Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: map[string]*Node{},
		out:   map[string][]Edge{},
		in:    map[string][]Edge{},
	}
}

// AddNode registers a node. Re-adding an existing ID fills in label,
// version, and kind fields that were previously empty; a node first seen
// as a lightweight dependency can be upgraded once its document arrives.
func (g *Graph) AddNode(n Node) {
	existing, ok := g.nodes[n.ID]
	if !ok {
		node := n
		g.nodes[n.ID] = &node
		return
	}
	if existing.Label == "" {
		existing.Label = n.Label
	}
	if existing.Version == "" {
		existing.Version = n.Version
	}
	if existing.Kind == "" || (existing.Kind == NodeLibrary && n.Kind == NodeModel) {
		existing.Kind = n.Kind
	}
}

// AddEdge adds a directed edge. Both endpoints must exist and self-loops
// are rejected.
func (g *Graph) AddEdge(from, to string, kind EdgeKind) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("edge source %q does not exist", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("edge target %q does not exist", to)
	}
	if from == to {
		return fmt.Errorf("self-loop on %q", from)
	}
	e := Edge{From: from, To: to, Kind: kind}
	for _, have := range g.out[from] {
		if have == e {
			return nil
		}
	}
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes ordered by ID.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all edges ordered by (from, to, kind).
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, es := range g.out {
		out = append(out, es...)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Kind < b.Kind
	})
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, es := range g.out {
		count += len(es)
	}
	return count
}

// Upstream returns the IDs of all transitive predecessors of id, sorted.
func (g *Graph) Upstream(id string) []string {
	return g.walk(id, func(n string) []Edge { return g.in[n] }, func(e Edge) string { return e.From })
}

// Downstream returns the IDs of all transitive successors of id, sorted.
func (g *Graph) Downstream(id string) []string {
	return g.walk(id, func(n string) []Edge { return g.out[n] }, func(e Edge) string { return e.To })
}

func (g *Graph) walk(id string, edges func(string) []Edge, next func(Edge) string) []string {
	seen := map[string]bool{}
	var visit func(string)
	visit = func(n string) {
		for _, e := range edges(n) {
			m := next(e)
			if !seen[m] {
				seen[m] = true
				visit(m)
			}
		}
	}
	visit(id)
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Roots returns the IDs of nodes with no incoming edges, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for id := range g.nodes {
		if len(g.in[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns the IDs of nodes with no outgoing edges, sorted.
func (g *Graph) Leaves() []string {
	var leaves []string
	for id := range g.nodes {
		if len(g.out[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// WithEdgeKind returns a copy of the graph keeping only edges of the
// given kind and the nodes they touch.
func (g *Graph) WithEdgeKind(kind EdgeKind) *Graph {
	sub := New()
	for _, e := range g.Edges() {
		if e.Kind != kind {
			continue
		}
		sub.AddNode(*g.nodes[e.From])
		sub.AddNode(*g.nodes[e.To])
		_ = sub.AddEdge(e.From, e.To, e.Kind)
	}
	return sub
}

// HasCycle reports whether the graph contains a directed cycle and, when
// it does, one witness path.
func (g *Graph) HasCycle() (bool, []string) {
	visited := map[string]bool{}
	onStack := map[string]bool{}
	cameFrom := map[string]string{}
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		onStack[id] = true
		for _, e := range g.out[id] {
			child := e.To
			if !visited[child] {
				cameFrom[child] = id
				if dfs(child) {
					return true
				}
			} else if onStack[child] {
				cycle = []string{child}
				for cur := id; cur != child; cur = cameFrom[cur] {
					cycle = append([]string{cur}, cycle...)
				}
				cycle = append([]string{child}, cycle...)
				return true
			}
		}
		onStack[id] = false
		return false
	}

	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if !visited[id] && dfs(id) {
			return true, cycle
		}
	}
	return false, nil
}

// TopoSort returns the nodes ordered so every edge points forward.
// Ordering is deterministic: ties break on node ID.
func (g *Graph) TopoSort() ([]*Node, error) {
	if cyclic, path := g.HasCycle(); cyclic {
		return nil, fmt.Errorf("cycle detected: %v", path)
	}

	visited := map[string]bool{}
	var result []*Node
	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		preds := make([]string, 0, len(g.in[id]))
		for _, e := range g.in[id] {
			preds = append(preds, e.From)
		}
		sort.Strings(preds)
		for _, p := range preds {
			visit(p)
		}
		result = append(result, g.nodes[id])
	}

	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		visit(id)
	}
	return result, nil
}
