package core

// MetadataStore is the read interface over the provenance store. Lookups
// are point-in-time synchronous calls; a failed call is wrapped in a
// *StoreCallError and propagated without retry.
//
// The store is assumed immutable for the duration of one extraction run.
type MetadataStore interface {
	// GetArtifactTypes returns all registered artifact types.
	GetArtifactTypes() ([]ArtifactType, error)

	// GetArtifactsByType returns all artifacts of the named concrete type.
	// An unknown type name yields an empty slice, not an error.
	GetArtifactsByType(typeName string) ([]Artifact, error)

	// GetArtifactsByID returns the artifacts with the given IDs. Missing
	// IDs are silently absent from the result.
	GetArtifactsByID(ids []int64) ([]Artifact, error)

	// GetEventsByArtifactIDs returns all events referencing any of the
	// given artifacts.
	GetEventsByArtifactIDs(artifactIDs []int64) ([]Event, error)

	// GetEventsByExecutionIDs returns all events referencing any of the
	// given executions.
	GetEventsByExecutionIDs(executionIDs []int64) ([]Event, error)

	// GetContexts returns all contexts.
	GetContexts() ([]Context, error)

	// GetArtifactsByContext returns the artifacts attributed to a context.
	GetArtifactsByContext(contextID int64) ([]Artifact, error)

	// GetExecutionsByContext returns the executions associated with a
	// context. Callers treat a failure here as best-effort: the context
	// fallback path degrades to an empty result.
	GetExecutionsByContext(contextID int64) ([]Execution, error)
}

// MetadataWriter is the write interface used only by scenario population.
// The extraction pipeline never writes.
type MetadataWriter interface {
	PutArtifactType(t ArtifactType) (int64, error)
	PutExecutionType(t ExecutionType) (int64, error)
	PutContextType(t ContextType) (int64, error)
	PutArtifacts(artifacts []Artifact) ([]int64, error)
	PutExecutions(executions []Execution) ([]int64, error)
	PutContexts(contexts []Context) ([]int64, error)
	PutEvents(events []Event) error
	PutAttribution(contextID, artifactID int64) error
	PutAssociation(contextID, executionID int64) error
}
