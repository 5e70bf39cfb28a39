package dag

import (
	"reflect"
	"testing"
)

// modelGraph builds the small provenance story used across tests:
// library A and dataset D feed model m1, m1 has successor m2, and m2 was
// consumed to produce an evaluation report.
func modelGraph(t *testing.T) *Graph {
	t.Helper()
	g := New()
	g.AddNode(Node{ID: "m1", Label: "M", Version: "1.0.0", Kind: NodeModel})
	g.AddNode(Node{ID: "m2", Label: "M", Version: "1.1.0", Kind: NodeModel})
	g.AddNode(Node{ID: "libA", Label: "A", Version: "1.0", Kind: NodeLibrary})
	g.AddNode(Node{ID: "dsD", Label: "D", Version: "2024-01-01", Kind: NodeDataset})
	g.AddNode(Node{ID: "report", Label: "eval-report", Kind: NodeProduced})

	edges := []Edge{
		{From: "libA", To: "m1", Kind: EdgeDependency},
		{From: "dsD", To: "m1", Kind: EdgeDataset},
		{From: "m1", To: "m2", Kind: EdgeLineage},
		{From: "m2", To: "report", Kind: EdgeDependency},
	}
	for _, e := range edges {
		if err := g.AddEdge(e.From, e.To, e.Kind); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}
	return g
}

func TestAddNode_UpgradesSparseEntries(t *testing.T) {
	g := New()
	// A dependency reference arrives first, with no version.
	g.AddNode(Node{ID: "x", Label: "X", Kind: NodeLibrary})
	// The document for the same entity fills in the rest.
	g.AddNode(Node{ID: "x", Label: "X", Version: "2.0", Kind: NodeModel})

	n, ok := g.Node("x")
	if !ok {
		t.Fatal("node x missing")
	}
	if n.Version != "2.0" || n.Kind != NodeModel {
		t.Errorf("node not upgraded: %+v", n)
	}
	if g.NodeCount() != 1 {
		t.Errorf("expected 1 node, got %d", g.NodeCount())
	}
}

func TestAddEdge_Validation(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	if err := g.AddEdge("a", "missing", EdgeDependency); err == nil {
		t.Error("edge to missing node must fail")
	}
	if err := g.AddEdge("a", "a", EdgeDependency); err == nil {
		t.Error("self-loop must fail")
	}
}

func TestAddEdge_DeduplicatesOnKind(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})
	for i := 0; i < 3; i++ {
		if err := g.AddEdge("a", "b", EdgeDependency); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge("a", "b", EdgeDataset); err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("expected 2 edges (one per kind), got %d", g.EdgeCount())
	}
}

func TestUpstreamDownstream(t *testing.T) {
	g := modelGraph(t)

	up := g.Upstream("m2")
	want := []string{"dsD", "libA", "m1"}
	if !reflect.DeepEqual(up, want) {
		t.Errorf("Upstream(m2) = %v, want %v", up, want)
	}

	down := g.Downstream("dsD")
	want = []string{"m1", "m2", "report"}
	if !reflect.DeepEqual(down, want) {
		t.Errorf("Downstream(dsD) = %v, want %v", down, want)
	}
}

func TestRootsAndLeaves(t *testing.T) {
	g := modelGraph(t)
	if got, want := g.Roots(), []string{"dsD", "libA"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Roots() = %v, want %v", got, want)
	}
	if got, want := g.Leaves(), []string{"report"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Leaves() = %v, want %v", got, want)
	}
}

func TestWithEdgeKind(t *testing.T) {
	sub := modelGraph(t).WithEdgeKind(EdgeLineage)
	if sub.NodeCount() != 2 || sub.EdgeCount() != 1 {
		t.Fatalf("lineage subgraph = %d nodes / %d edges, want 2/1",
			sub.NodeCount(), sub.EdgeCount())
	}
	if _, ok := sub.Node("libA"); ok {
		t.Error("dependency-only node leaked into lineage subgraph")
	}
}

func TestHasCycle(t *testing.T) {
	g := modelGraph(t)
	if cyclic, _ := g.HasCycle(); cyclic {
		t.Fatal("acyclic graph reported cyclic")
	}

	if err := g.AddEdge("m2", "m1", EdgeLineage); err != nil {
		t.Fatal(err)
	}
	cyclic, path := g.HasCycle()
	if !cyclic {
		t.Fatal("cycle not detected")
	}
	if len(path) < 3 || path[0] != path[len(path)-1] {
		t.Errorf("cycle path malformed: %v", path)
	}
}

func TestTopoSort(t *testing.T) {
	g := modelGraph(t)
	nodes, err := g.TopoSort()
	if err != nil {
		t.Fatal(err)
	}
	pos := map[string]int{}
	for i, n := range nodes {
		pos[n.ID] = i
	}
	for _, e := range g.Edges() {
		if pos[e.From] >= pos[e.To] {
			t.Errorf("edge %s -> %s violates topological order", e.From, e.To)
		}
	}

	// Determinism across runs.
	again, err := g.TopoSort()
	if err != nil {
		t.Fatal(err)
	}
	for i := range nodes {
		if nodes[i].ID != again[i].ID {
			t.Fatalf("order not deterministic at %d: %s vs %s", i, nodes[i].ID, again[i].ID)
		}
	}
}

func TestTopoSort_CycleFails(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})
	_ = g.AddEdge("a", "b", EdgeLineage)
	_ = g.AddEdge("b", "a", EdgeLineage)
	if _, err := g.TopoSort(); err == nil {
		t.Error("topological sort of a cyclic graph must fail")
	}
}
