package graph

import (
	"strings"
	"testing"

	"github.com/idlab-discover/AIBOM/internal/assemble"
	"github.com/idlab-discover/AIBOM/internal/dag"
	"github.com/idlab-discover/AIBOM/pkg/core"
)

// linkedDocs builds two linked model versions plus the dataset document
// each one consumed.
func linkedDocs() []*core.Document {
	models := assemble.Assemble([]core.ProvenanceRecord{
		{
			Kind: "Model", Name: "M", Version: "1.0.0", URI: "models://m/1.0.0",
			Dependencies: []core.DependencyRef{{Name: "A", Version: "1.0", Locator: "pkg:pypi/A@1.0"}},
			DatasetURIs:  []string{"data://D/2024-01-01"},
			Produced:     []core.ProducedRef{{Name: "eval-report", URI: "reports://eval/1"}},
		},
		{
			Kind: "Model", Name: "M", Version: "1.1.0", URI: "models://m/1.1.0",
			DatasetURIs: []string{"data://D/2024-02-01"},
		},
	})
	assemble.Link(models[0], models[1])

	datasets := assemble.Assemble([]core.ProvenanceRecord{
		{Kind: "Dataset", Name: "D", Version: "2024-01-01", URI: "data://D/2024-01-01"},
		{Kind: "Dataset", Name: "D", Version: "2024-02-01", URI: "data://D/2024-02-01"},
	})
	assemble.Link(datasets[0], datasets[1])
	assemble.CrossReference(models[0], datasets[0])
	assemble.CrossReference(models[1], datasets[1])

	return append(models, datasets...)
}

func TestBuild_NodesAndKinds(t *testing.T) {
	g := Build(linkedDocs(), "Dataset")

	// 2 models, 2 datasets, 1 library, 1 produced artifact.
	if g.NodeCount() != 6 {
		t.Fatalf("NodeCount = %d, want 6", g.NodeCount())
	}

	n, ok := g.Node("models://m/1.0.0")
	if !ok || n.Kind != dag.NodeModel || n.Label != "M" {
		t.Errorf("model node wrong: %+v", n)
	}
	n, ok = g.Node("data://D/2024-01-01")
	if !ok || n.Kind != dag.NodeDataset {
		t.Errorf("dataset node wrong: %+v", n)
	}
	// The dataset node carries its document's label, not a bare URI.
	if n.Label != "D" {
		t.Errorf("dataset node label = %q, want D", n.Label)
	}
	n, ok = g.Node("pkg:pypi/A@1.0")
	if !ok || n.Kind != dag.NodeLibrary {
		t.Errorf("library node wrong: %+v", n)
	}
}

func TestBuild_Edges(t *testing.T) {
	g := Build(linkedDocs(), "Dataset")

	want := map[dag.Edge]bool{
		{From: "pkg:pypi/A@1.0", To: "models://m/1.0.0", Kind: dag.EdgeDependency}:      true,
		{From: "data://D/2024-01-01", To: "models://m/1.0.0", Kind: dag.EdgeDataset}:    true,
		{From: "data://D/2024-02-01", To: "models://m/1.1.0", Kind: dag.EdgeDataset}:    true,
		{From: "models://m/1.0.0", To: "models://m/1.1.0", Kind: dag.EdgeLineage}:       true,
		{From: "data://D/2024-01-01", To: "data://D/2024-02-01", Kind: dag.EdgeLineage}: true,
		{From: "models://m/1.0.0", To: "reports://eval/1", Kind: dag.EdgeDependency}:    true,
	}
	edges := g.Edges()
	if len(edges) != len(want) {
		t.Fatalf("EdgeCount = %d, want %d: %v", len(edges), len(want), edges)
	}
	for _, e := range edges {
		if !want[e] {
			t.Errorf("unexpected edge %v", e)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a := ToJSON(Build(linkedDocs(), "Dataset"))
	b := ToJSON(Build(linkedDocs(), "Dataset"))
	if len(a.Nodes) != len(b.Nodes) || len(a.Edges) != len(b.Edges) {
		t.Fatal("graph size differs between runs")
	}
	for i := range a.Nodes {
		if a.Nodes[i] != b.Nodes[i] {
			t.Fatalf("node %d differs: %v vs %v", i, a.Nodes[i], b.Nodes[i])
		}
	}
	for i := range a.Edges {
		if a.Edges[i] != b.Edges[i] {
			t.Fatalf("edge %d differs: %v vs %v", i, a.Edges[i], b.Edges[i])
		}
	}
}

func TestToJSON_FallbackLabel(t *testing.T) {
	g := dag.New()
	g.AddNode(dag.Node{ID: "data://x", Kind: dag.NodeDataset})
	j := ToJSON(g)
	if j.Nodes[0].Label != "data://x" {
		t.Errorf("label fallback = %q, want node ID", j.Nodes[0].Label)
	}
}

func TestDOT(t *testing.T) {
	out := DOT(Build(linkedDocs(), "Dataset"))
	for _, frag := range []string{
		"digraph provenance {",
		`"models://m/1.0.0" -> "models://m/1.1.0" [style=bold, label="lineage"]`,
		`shape=cylinder`,
	} {
		if !strings.Contains(out, frag) {
			t.Errorf("DOT output missing %q:\n%s", frag, out)
		}
	}
}

func TestKindCounts(t *testing.T) {
	counts := KindCounts(Build(linkedDocs(), "Dataset"))
	want := []KindCount{
		{Kind: "model", Count: 2},
		{Kind: "dataset", Count: 2},
		{Kind: "library", Count: 1},
		{Kind: "produced", Count: 1},
	}
	if len(counts) != len(want) {
		t.Fatalf("KindCounts = %v, want %v", counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("KindCounts[%d] = %v, want %v", i, counts[i], want[i])
		}
	}
}
