package metastore

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idlab-discover/AIBOM/pkg/core"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore(nil)
	require.NoError(t, s.Open(":memory:"))
	require.NoError(t, s.InitSchema())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_TypesRoundTrip(t *testing.T) {
	s := openTestStore(t)

	id, err := s.PutArtifactType(core.ArtifactType{
		Name: "Model",
		Properties: map[string]core.PropertyKind{
			"name":    core.PropertyString,
			"version": core.PropertyString,
			"epochs":  core.PropertyInt,
		},
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	// Upsert by name returns the same id.
	id2, err := s.PutArtifactType(core.ArtifactType{Name: "Model"})
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	types, err := s.GetArtifactTypes()
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Model", types[0].Name)
	assert.Equal(t, core.PropertyInt, types[0].Properties["epochs"])
}

func TestSQLiteStore_ArtifactsAndProperties(t *testing.T) {
	s := openTestStore(t)

	typeID, err := s.PutArtifactType(core.ArtifactType{Name: "Model"})
	require.NoError(t, err)

	ids, err := s.PutArtifacts([]core.Artifact{{
		TypeID: typeID,
		URI:    "models://fakenet/1.0.0",
		Properties: map[string]core.PropertyValue{
			"name":    core.StringProperty("FakeNet"),
			"version": core.StringProperty("1.0.0"),
			"epochs":  core.IntProperty(20),
		},
		CustomProperties: map[string]core.PropertyValue{
			"owner": core.StringProperty("ml-team"),
		},
	}})
	require.NoError(t, err)
	require.Len(t, ids, 1)

	arts, err := s.GetArtifactsByType("Model")
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, "models://fakenet/1.0.0", arts[0].URI)
	assert.Equal(t, "FakeNet", arts[0].Properties["name"].Str)
	assert.Equal(t, int64(20), arts[0].Properties["epochs"].Int)
	assert.Equal(t, "ml-team", arts[0].CustomProperties["owner"].Str)

	byID, err := s.GetArtifactsByID(ids)
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, arts[0].ID, byID[0].ID)
}

func TestSQLiteStore_UnknownTypeYieldsEmpty(t *testing.T) {
	s := openTestStore(t)

	arts, err := s.GetArtifactsByType("NoSuchType")
	require.NoError(t, err)
	assert.Empty(t, arts)
}

func TestSQLiteStore_EventsAndContexts(t *testing.T) {
	s := openTestStore(t)

	modelType, err := s.PutArtifactType(core.ArtifactType{Name: "Model"})
	require.NoError(t, err)
	runType, err := s.PutExecutionType(core.ExecutionType{Name: "TrainingRun"})
	require.NoError(t, err)
	ctxType, err := s.PutContextType(core.ContextType{Name: "Experiment"})
	require.NoError(t, err)

	artIDs, err := s.PutArtifacts([]core.Artifact{{TypeID: modelType}})
	require.NoError(t, err)
	execIDs, err := s.PutExecutions([]core.Execution{{TypeID: runType}})
	require.NoError(t, err)
	ctxIDs, err := s.PutContexts([]core.Context{{TypeID: ctxType, Name: "exp1"}})
	require.NoError(t, err)

	require.NoError(t, s.PutEvents([]core.Event{{
		ArtifactID:  artIDs[0],
		ExecutionID: execIDs[0],
		Type:        core.EventOutput,
	}}))
	require.NoError(t, s.PutAttribution(ctxIDs[0], artIDs[0]))
	require.NoError(t, s.PutAssociation(ctxIDs[0], execIDs[0]))

	events, err := s.GetEventsByArtifactIDs(artIDs)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, core.EventOutput, events[0].Type)

	events, err = s.GetEventsByExecutionIDs(execIDs)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ctxs, err := s.GetContexts()
	require.NoError(t, err)
	require.Len(t, ctxs, 1)
	assert.Equal(t, "exp1", ctxs[0].Name)

	inCtx, err := s.GetArtifactsByContext(ctxIDs[0])
	require.NoError(t, err)
	require.Len(t, inCtx, 1)

	execs, err := s.GetExecutionsByContext(ctxIDs[0])
	require.NoError(t, err)
	require.Len(t, execs, 1)
}

func TestSQLiteStore_EmptyIDLists(t *testing.T) {
	s := openTestStore(t)

	arts, err := s.GetArtifactsByID(nil)
	require.NoError(t, err)
	assert.Empty(t, arts)

	events, err := s.GetEventsByArtifactIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSQLiteStore_FailedCallWrapsStoreCallError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT id, type_id, name FROM contexts`).WillReturnError(boom)

	s := &SQLiteStore{db: db}
	_, err = s.GetContexts()
	require.Error(t, err)

	var callErr *core.StoreCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "GetContexts", callErr.Op)
	assert.ErrorIs(t, err, boom)
}
