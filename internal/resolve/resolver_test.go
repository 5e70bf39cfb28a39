package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idlab-discover/AIBOM/pkg/core"
)

func TestCandidates_ExactFirst(t *testing.T) {
	got := Candidates("Model", []string{"system.Model", "Model", "Dataset"})
	require.NotEmpty(t, got)
	assert.Equal(t, "Model", got[0], "exact match must come first")
	assert.Contains(t, got, "system.Model")
	assert.NotContains(t, got, "Dataset")
}

func TestCandidates_CaseInsensitive(t *testing.T) {
	got := Candidates("Model", []string{"model"})
	assert.Equal(t, []string{"model"}, got)
}

func TestCandidates_SuffixHeuristic(t *testing.T) {
	got := Candidates("Dataset", []string{"kubeflow.pipelines.Dataset", "TrainingDataset"})
	assert.Contains(t, got, "kubeflow.pipelines.Dataset")
	assert.Contains(t, got, "TrainingDataset")
}

func TestCandidates_NoMatchIsEmptyNotError(t *testing.T) {
	got := Candidates("Model", []string{"Report", "Image"})
	assert.Empty(t, got)
}

func TestCandidates_Dedup(t *testing.T) {
	// "Model" matches exactly and again via the substring heuristic; it
	// must appear once.
	got := Candidates("Model", []string{"Model"})
	assert.Equal(t, []string{"Model"}, got)
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("Model", "Model"))
	assert.True(t, Matches("system.Model", "Model"))
	assert.True(t, Matches("model", "Model"))
	assert.False(t, Matches("", "Model"))
	assert.False(t, Matches("Modeling", "Model"))
}

// fakeStore implements core.MetadataStore over in-memory slices.
type fakeStore struct {
	types     []core.ArtifactType
	typeCalls int
}

func (f *fakeStore) GetArtifactTypes() ([]core.ArtifactType, error) {
	f.typeCalls++
	return f.types, nil
}
func (f *fakeStore) GetArtifactsByType(string) ([]core.Artifact, error)      { return nil, nil }
func (f *fakeStore) GetArtifactsByID([]int64) ([]core.Artifact, error)       { return nil, nil }
func (f *fakeStore) GetEventsByArtifactIDs([]int64) ([]core.Event, error)    { return nil, nil }
func (f *fakeStore) GetEventsByExecutionIDs([]int64) ([]core.Event, error)   { return nil, nil }
func (f *fakeStore) GetContexts() ([]core.Context, error)                    { return nil, nil }
func (f *fakeStore) GetArtifactsByContext(int64) ([]core.Artifact, error)    { return nil, nil }
func (f *fakeStore) GetExecutionsByContext(int64) ([]core.Execution, error)  { return nil, nil }

func TestResolver_TypeNameCaching(t *testing.T) {
	store := &fakeStore{types: []core.ArtifactType{
		{ID: 1, Name: "Model"},
		{ID: 2, Name: "Dataset"},
	}}
	r := New(store, nil)

	name, err := r.TypeName(1)
	require.NoError(t, err)
	assert.Equal(t, "Model", name)

	// Second lookup is served from the cache.
	name, err = r.TypeName(2)
	require.NoError(t, err)
	assert.Equal(t, "Dataset", name)
	assert.Equal(t, 1, store.typeCalls)

	// Unknown ids resolve to "" and the miss is cached.
	name, err = r.TypeName(99)
	require.NoError(t, err)
	assert.Equal(t, "", name)
	assert.Equal(t, 1, store.typeCalls)
}

func TestResolver_Resolve(t *testing.T) {
	store := &fakeStore{types: []core.ArtifactType{
		{ID: 1, Name: "system.Model"},
		{ID: 2, Name: "Dataset"},
	}}
	r := New(store, nil)

	got, err := r.Resolve("Model")
	require.NoError(t, err)
	assert.Equal(t, []string{"system.Model"}, got)
}
