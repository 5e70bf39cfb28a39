// Package extract reconstructs provenance relations from the metadata
// store: for each artifact of a requested kind it correlates INPUT/OUTPUT
// events through shared executions to find upstream dependencies, dataset
// usages, and downstream consumers.
package extract

import (
	"io"
	"log/slog"

	"github.com/idlab-discover/AIBOM/internal/resolve"
	"github.com/idlab-discover/AIBOM/pkg/core"
)

// Query selects the artifacts to extract.
type Query struct {
	// Kind is the logical entity kind ("Model", "Dataset").
	Kind string
	// Context optionally scopes extraction to a named context.
	Context string
	// PropertyKey/PropertyValue optionally filter candidates by a typed
	// string property. An empty filtered result is not an error.
	PropertyKey   string
	PropertyValue string
}

// Run is one extraction run over an immutable store snapshot. It owns the
// per-run type-name cache and must not be shared across concurrent runs.
type Run struct {
	store       core.MetadataStore
	resolver    *resolve.Resolver
	logger      *slog.Logger
	datasetKind string
}

// NewRun creates an extraction run. datasetKind is the logical kind whose
// artifacts are folded into dataset_uris instead of dependency nodes.
func NewRun(store core.MetadataStore, resolver *resolve.Resolver, datasetKind string, logger *slog.Logger) *Run {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if resolver == nil {
		resolver = resolve.New(store, logger)
	}
	return &Run{
		store:       store,
		resolver:    resolver,
		logger:      logger,
		datasetKind: datasetKind,
	}
}

// Resolver exposes the run's resolver so later pipeline stages share the
// same type-name cache.
func (r *Run) Resolver() *resolve.Resolver { return r.resolver }

// Extract returns one ProvenanceRecord per artifact matching the query.
// It returns *core.ContextNotFoundError when a named context does not
// exist and *core.NotFoundError when zero artifacts of the kind exist
// after synonym resolution and the context fallback.
func (r *Run) Extract(q Query) ([]core.ProvenanceRecord, error) {
	candidates, err := r.collectCandidates(q.Kind, q.Context)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, &core.NotFoundError{Kind: q.Kind, Context: q.Context}
	}

	if q.PropertyKey != "" {
		candidates = filterByProperty(candidates, q.PropertyKey, q.PropertyValue)
	}

	records := make([]core.ProvenanceRecord, 0, len(candidates))
	for _, art := range candidates {
		rec, err := r.extractOne(q.Kind, art)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	r.logger.Info("extracted provenance records",
		"kind", q.Kind, "context", q.Context, "count", len(records))
	return records, nil
}

// collectCandidates gathers the artifacts of the requested kind, scoped by
// context when given.
func (r *Run) collectCandidates(kind, contextName string) ([]core.Artifact, error) {
	if contextName != "" {
		return r.collectFromContext(kind, contextName)
	}

	matched, err := r.resolver.Resolve(kind)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		// Fall back to the literal requested name and accept zero results.
		matched = []string{kind}
	}
	r.logger.Debug("type candidates", "kind", kind, "matched", matched)

	var out []core.Artifact
	seen := map[int64]struct{}{}
	for _, typeName := range matched {
		arts, err := r.store.GetArtifactsByType(typeName)
		if err != nil {
			return nil, err
		}
		for _, a := range arts {
			if _, ok := seen[a.ID]; !ok {
				seen[a.ID] = struct{}{}
				out = append(out, a)
			}
		}
	}
	return out, nil
}

// collectFromContext returns the context's artifacts of the requested
// kind. When direct attribution yields nothing it widens to artifacts
// produced by executions associated with the context, on a best-effort
// basis.
func (r *Run) collectFromContext(kind, contextName string) ([]core.Artifact, error) {
	ctxs, err := r.store.GetContexts()
	if err != nil {
		return nil, err
	}
	var ctx *core.Context
	for i := range ctxs {
		if ctxs[i].Name == contextName {
			ctx = &ctxs[i]
			break
		}
	}
	if ctx == nil {
		return nil, &core.ContextNotFoundError{Name: contextName}
	}

	attributed, err := r.store.GetArtifactsByContext(ctx.ID)
	if err != nil {
		return nil, err
	}
	matched, err := r.filterKind(attributed, kind)
	if err != nil {
		return nil, err
	}
	if len(matched) > 0 {
		return matched, nil
	}

	// Fallback: outputs of the context's executions.
	execs, err := r.store.GetExecutionsByContext(ctx.ID)
	if err != nil {
		// Best-effort path: tolerate an adapter that cannot serve it.
		r.logger.Warn("context execution lookup failed, skipping fallback",
			"context", contextName, "error", err)
		return nil, nil
	}
	if len(execs) == 0 {
		return nil, nil
	}
	execIDs := make([]int64, 0, len(execs))
	for _, e := range execs {
		execIDs = append(execIDs, e.ID)
	}
	events, err := r.store.GetEventsByExecutionIDs(execIDs)
	if err != nil {
		return nil, err
	}
	outSet := map[int64]struct{}{}
	for _, e := range events {
		if e.Type == core.EventOutput {
			outSet[e.ArtifactID] = struct{}{}
		}
	}
	produced, err := r.store.GetArtifactsByID(sortedInt64s(outSet))
	if err != nil {
		return nil, err
	}
	return r.filterKind(produced, kind)
}

func (r *Run) filterKind(arts []core.Artifact, kind string) ([]core.Artifact, error) {
	var out []core.Artifact
	for _, a := range arts {
		ok, err := r.resolver.IsKind(a, kind)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// extractOne walks the event graph around a single artifact.
func (r *Run) extractOne(kind string, art core.Artifact) (core.ProvenanceRecord, error) {
	events, err := r.store.GetEventsByArtifactIDs([]int64{art.ID})
	if err != nil {
		return core.ProvenanceRecord{}, err
	}

	producers := map[int64]struct{}{} // executions that created this artifact
	consumers := map[int64]struct{}{} // executions that consumed it downstream
	for _, e := range events {
		switch e.Type {
		case core.EventOutput:
			producers[e.ExecutionID] = struct{}{}
		case core.EventInput:
			consumers[e.ExecutionID] = struct{}{}
		}
	}

	datasetURIs := map[string]struct{}{}

	deps, err := r.collectDependencies(sortedInt64s(producers), datasetURIs)
	if err != nil {
		return core.ProvenanceRecord{}, err
	}
	produced, err := r.collectProduced(sortedInt64s(consumers), datasetURIs)
	if err != nil {
		return core.ProvenanceRecord{}, err
	}

	typeName, err := r.resolver.TypeName(art.TypeID)
	if err != nil {
		return core.ProvenanceRecord{}, err
	}

	rec := core.ProvenanceRecord{
		Kind:         kind,
		TypeName:     typeName,
		Name:         entityName(art),
		Version:      fieldValue(art, "version"),
		URI:          art.URI,
		Properties:   flattenProperties(art, "name", "display_name", "version", "revision"),
		Dependencies: deps,
		DatasetURIs:  sortedStrings(datasetURIs),
		Produced:     produced,
	}
	r.logger.Debug("collected relations",
		"artifact", rec.Name, "version", rec.Version,
		"deps", len(rec.Dependencies), "datasets", len(rec.DatasetURIs), "produced", len(rec.Produced))
	return rec, nil
}

// collectDependencies gathers the INPUT artifacts of the executions that
// created the artifact. Dataset inputs contribute only their URI to the
// dataset set; everything else becomes a dependency reference.
func (r *Run) collectDependencies(producerIDs []int64, datasetURIs map[string]struct{}) ([]core.DependencyRef, error) {
	var deps []core.DependencyRef
	seen := map[int64]struct{}{}
	for _, execID := range producerIDs {
		events, err := r.store.GetEventsByExecutionIDs([]int64{execID})
		if err != nil {
			return nil, err
		}
		inputSet := map[int64]struct{}{}
		for _, e := range events {
			if e.Type == core.EventInput {
				inputSet[e.ArtifactID] = struct{}{}
			}
		}
		inputs, err := r.store.GetArtifactsByID(sortedInt64s(inputSet))
		if err != nil {
			return nil, err
		}
		for _, a := range inputs {
			isDataset, err := r.resolver.IsKind(a, r.datasetKind)
			if err != nil {
				return nil, err
			}
			if isDataset {
				if a.URI != "" {
					datasetURIs[a.URI] = struct{}{}
				}
				continue
			}
			if _, ok := seen[a.ID]; ok {
				continue
			}
			seen[a.ID] = struct{}{}
			typeName, err := r.resolver.TypeName(a.TypeID)
			if err != nil {
				return nil, err
			}
			deps = append(deps, core.DependencyRef{
				Name:       entityName(a),
				Version:    fieldValue(a, "version"),
				Locator:    fieldValue(a, "purl"),
				URI:        a.URI,
				TypeName:   typeName,
				Properties: flattenProperties(a, "name", "display_name", "version", "revision", "purl", "package_url"),
			})
		}
	}
	return deps, nil
}

// collectProduced gathers the OUTPUT artifacts of the executions that
// consumed the artifact downstream. Dataset INPUTs of those executions
// fold into the same dataset set: a dataset consumed by a downstream
// evaluation is still "used by" this artifact transitively.
func (r *Run) collectProduced(consumerIDs []int64, datasetURIs map[string]struct{}) ([]core.ProducedRef, error) {
	var produced []core.ProducedRef
	seen := map[int64]struct{}{}
	for _, execID := range consumerIDs {
		events, err := r.store.GetEventsByExecutionIDs([]int64{execID})
		if err != nil {
			return nil, err
		}
		outSet := map[int64]struct{}{}
		inSet := map[int64]struct{}{}
		for _, e := range events {
			switch e.Type {
			case core.EventOutput:
				outSet[e.ArtifactID] = struct{}{}
			case core.EventInput:
				inSet[e.ArtifactID] = struct{}{}
			}
		}

		outputs, err := r.store.GetArtifactsByID(sortedInt64s(outSet))
		if err != nil {
			return nil, err
		}
		for _, a := range outputs {
			if _, ok := seen[a.ID]; ok {
				continue
			}
			seen[a.ID] = struct{}{}
			typeName, err := r.resolver.TypeName(a.TypeID)
			if err != nil {
				return nil, err
			}
			produced = append(produced, core.ProducedRef{
				Name:     entityName(a),
				Version:  fieldValue(a, "version"),
				URI:      a.URI,
				TypeName: typeName,
			})
		}

		inputs, err := r.store.GetArtifactsByID(sortedInt64s(inSet))
		if err != nil {
			return nil, err
		}
		for _, a := range inputs {
			isDataset, err := r.resolver.IsKind(a, r.datasetKind)
			if err != nil {
				return nil, err
			}
			if isDataset && a.URI != "" {
				datasetURIs[a.URI] = struct{}{}
			}
		}
	}
	return produced, nil
}

// filterByProperty keeps the artifacts whose declared typed property has
// the given string value.
func filterByProperty(arts []core.Artifact, key, value string) []core.Artifact {
	var out []core.Artifact
	for _, a := range arts {
		if v, ok := a.Properties[key]; ok && v.Kind == core.PropertyString && v.Str == value {
			out = append(out, a)
		}
	}
	return out
}
