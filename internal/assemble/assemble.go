// Package assemble turns version chains of provenance records into
// cross-referencing BOM documents. Lineage links are adjacent-only and
// bidirectional: each document, read independently, discloses its
// neighbors by stable reference token.
package assemble

import (
	"github.com/idlab-discover/AIBOM/pkg/core"
)

// Assemble builds one Document per record in a chain. Dependency artifacts
// become lightweight nodes inside the document; no cross-document
// references are added yet.
func Assemble(chain []core.ProvenanceRecord) []*core.Document {
	docs := make([]*core.Document, 0, len(chain))
	for _, rec := range chain {
		doc := &core.Document{
			Kind:         rec.Kind,
			Name:         rec.Name,
			Version:      rec.Version,
			URI:          rec.URI,
			Properties:   rec.Properties,
			Dependencies: rec.Dependencies,
			DatasetURIs:  rec.DatasetURIs,
			Produced:     rec.Produced,
			DocVersion:   1,
		}
		doc.SerialNumber = core.SerialFor(doc.Ref())
		docs = append(docs, doc)
	}
	return docs
}

// Link establishes the bidirectional lineage pair between two adjacent
// versions: the child gains a reference to the parent's token and the
// parent gains one to the child's. Called exactly once per adjacent pair.
func Link(parent, child *core.Document) {
	child.AddReference(core.RefAncestor, parent.Link(), "Parent/ancestor version via BOM-Link")
	parent.AddReference(core.RefDescendant, child.Link(), "Child/descendant version via BOM-Link")
}

// CrossReference establishes the bidirectional model↔dataset pair: the
// model discloses the dataset it used, the dataset discloses its consumer.
func CrossReference(model, dataset *core.Document) {
	model.AddReference(core.RefDataset, dataset.Link(), "Uses dataset via BOM-Link")
	dataset.AddReference(core.RefConsumer, model.Link(), "Used by model via BOM-Link")
}
