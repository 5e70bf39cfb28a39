package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idlab-discover/AIBOM/pkg/core"
)

func record(name, version, uri string) core.ProvenanceRecord {
	return core.ProvenanceRecord{Kind: "Model", Name: name, Version: version, URI: uri}
}

func TestAssemble_OneDocumentPerRecord(t *testing.T) {
	chain := []core.ProvenanceRecord{
		record("M", "1.0.0", "models://m/1.0.0"),
		record("M", "1.1.0", "models://m/1.1.0"),
	}

	docs := Assemble(chain)
	require.Len(t, docs, 2)
	for i, d := range docs {
		assert.Equal(t, chain[i].Version, d.Version)
		assert.Equal(t, 1, d.DocVersion)
		assert.Equal(t, core.SerialFor(d.Ref()), d.SerialNumber)
		assert.Empty(t, d.References, "assembly must not link")
	}
	assert.NotEqual(t, docs[0].SerialNumber, docs[1].SerialNumber)
}

func TestLink_AdjacentOnlyAndBidirectional(t *testing.T) {
	docs := Assemble([]core.ProvenanceRecord{
		record("M", "1", ""), record("M", "2", ""), record("M", "3", ""),
	})
	for i := 1; i < len(docs); i++ {
		Link(docs[i-1], docs[i])
	}

	// Three versions, two pairs, four directed references total.
	assert.Empty(t, docs[0].ReferencesOf(core.RefAncestor))
	require.Len(t, docs[0].ReferencesOf(core.RefDescendant), 1)
	assert.Equal(t, docs[1].Link(), docs[0].ReferencesOf(core.RefDescendant)[0].Token)

	require.Len(t, docs[1].ReferencesOf(core.RefAncestor), 1)
	assert.Equal(t, docs[0].Link(), docs[1].ReferencesOf(core.RefAncestor)[0].Token)
	require.Len(t, docs[1].ReferencesOf(core.RefDescendant), 1)
	assert.Equal(t, docs[2].Link(), docs[1].ReferencesOf(core.RefDescendant)[0].Token)

	// No shortcut from the oldest to the newest.
	for _, r := range docs[0].References {
		assert.NotEqual(t, docs[2].Link(), r.Token)
	}
	assert.Empty(t, docs[2].ReferencesOf(core.RefDescendant))
}

func TestCrossReference_Bidirectional(t *testing.T) {
	model := Assemble([]core.ProvenanceRecord{record("M", "1", "")})[0]
	dataset := Assemble([]core.ProvenanceRecord{{Kind: "Dataset", Name: "D", URI: "data://d/1"}})[0]

	CrossReference(model, dataset)

	require.Len(t, model.ReferencesOf(core.RefDataset), 1)
	assert.Equal(t, dataset.Link(), model.ReferencesOf(core.RefDataset)[0].Token)
	require.Len(t, dataset.ReferencesOf(core.RefConsumer), 1)
	assert.Equal(t, model.Link(), dataset.ReferencesOf(core.RefConsumer)[0].Token)
}
