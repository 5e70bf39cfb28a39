// Package graph projects finalized documents onto the lineage graph and
// renders it as viewer JSON or Graphviz DOT.
package graph

import (
	"fmt"
	"strings"

	"github.com/idlab-discover/AIBOM/internal/dag"
	"github.com/idlab-discover/AIBOM/pkg/core"
)

// Build projects documents onto a dag.Graph. Node IDs are the documents'
// stable reference tokens, so the same store snapshot always yields the
// same graph. datasetKind tells dataset documents apart from model ones.
func Build(docs []*core.Document, datasetKind string) *dag.Graph {
	if datasetKind == "" {
		datasetKind = "Dataset"
	}
	g := dag.New()

	// Resolve lineage tokens back to sibling documents.
	byLink := make(map[string]*core.Document, len(docs))
	for _, d := range docs {
		byLink[d.Link()] = d
	}

	for _, d := range docs {
		g.AddNode(dag.Node{
			ID:      d.Ref(),
			Label:   d.Name,
			Version: d.Version,
			Kind:    docKind(d, datasetKind),
		})
	}

	for _, d := range docs {
		id := d.Ref()

		for _, dep := range d.Dependencies {
			depID := dependencyID(dep)
			g.AddNode(dag.Node{ID: depID, Label: dep.Name, Version: dep.Version, Kind: dag.NodeLibrary})
			_ = g.AddEdge(depID, id, dag.EdgeDependency)
		}

		for _, uri := range d.DatasetURIs {
			// A dataset document with this locator shares the same ID, so
			// the node upgrades in place when both exist.
			g.AddNode(dag.Node{ID: uri, Kind: dag.NodeDataset})
			_ = g.AddEdge(uri, id, dag.EdgeDataset)
		}

		for _, p := range d.Produced {
			pid := core.EntityRef("produced", p.Name, p.Version, p.URI)
			g.AddNode(dag.Node{ID: pid, Label: p.Name, Version: p.Version, Kind: dag.NodeProduced})
			_ = g.AddEdge(id, pid, dag.EdgeDependency)
		}

		for _, ref := range d.ReferencesOf(core.RefDescendant) {
			child, ok := byLink[ref.Token]
			if !ok {
				continue
			}
			_ = g.AddEdge(id, child.Ref(), dag.EdgeLineage)
		}
	}
	return g
}

func docKind(d *core.Document, datasetKind string) dag.NodeKind {
	if strings.EqualFold(d.Kind, datasetKind) {
		return dag.NodeDataset
	}
	return dag.NodeModel
}

// dependencyID mirrors the bom-ref choice for dependency components.
func dependencyID(dep core.DependencyRef) string {
	if dep.Locator != "" {
		return dep.Locator
	}
	return core.EntityRef("library", dep.Name, dep.Version, dep.URI)
}

// JSONNode and JSONEdge are the wire shape served to the viewer.
type JSONNode struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Version string `json:"version,omitempty"`
	Kind    string `json:"kind"`
}

type JSONEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}

type JSONGraph struct {
	Nodes []JSONNode `json:"nodes"`
	Edges []JSONEdge `json:"edges"`
}

// ToJSON flattens a graph into the deterministic wire shape.
func ToJSON(g *dag.Graph) JSONGraph {
	out := JSONGraph{
		Nodes: make([]JSONNode, 0, g.NodeCount()),
		Edges: make([]JSONEdge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		out.Nodes = append(out.Nodes, JSONNode{
			ID: n.ID, Label: label, Version: n.Version, Kind: string(n.Kind),
		})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, JSONEdge{From: e.From, To: e.To, Kind: string(e.Kind)})
	}
	return out
}

// DOT renders the graph in Graphviz dot syntax, nodes and edges in
// deterministic order.
func DOT(g *dag.Graph) string {
	var b strings.Builder
	b.WriteString("digraph provenance {\n")
	b.WriteString("  rankdir=LR;\n")
	for _, n := range g.Nodes() {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		if n.Version != "" {
			label += "\\n" + n.Version
		}
		fmt.Fprintf(&b, "  %q [label=%q, shape=%s];\n", n.ID, label, dotShape(n.Kind))
	}
	for _, e := range g.Edges() {
		attrs := ""
		switch e.Kind {
		case dag.EdgeLineage:
			attrs = " [style=bold, label=\"lineage\"]"
		case dag.EdgeDataset:
			attrs = " [style=dashed, label=\"dataset\"]"
		}
		fmt.Fprintf(&b, "  %q -> %q%s;\n", e.From, e.To, attrs)
	}
	b.WriteString("}\n")
	return b.String()
}

func dotShape(k dag.NodeKind) string {
	switch k {
	case dag.NodeDataset:
		return "cylinder"
	case dag.NodeLibrary:
		return "component"
	case dag.NodeProduced:
		return "note"
	default:
		return "box"
	}
}

// KindCount is one row of the per-kind node tally.
type KindCount struct {
	Kind  string
	Count int
}

// kindOrder keeps summary output stable.
var kindOrder = []dag.NodeKind{dag.NodeModel, dag.NodeDataset, dag.NodeLibrary, dag.NodeProduced}

// KindCounts tallies nodes per kind, models first.
func KindCounts(g *dag.Graph) []KindCount {
	counts := map[dag.NodeKind]int{}
	for _, n := range g.Nodes() {
		counts[n.Kind]++
	}
	var out []KindCount
	for _, k := range kindOrder {
		if counts[k] > 0 {
			out = append(out, KindCount{Kind: string(k), Count: counts[k]})
		}
	}
	return out
}
