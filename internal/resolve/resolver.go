// Package resolve maps logical entity kinds ("Model", "Dataset") to the
// concrete type names recorded in a metadata store, tolerating namespaced
// and synonym variants.
package resolve

import (
	"io"
	"log/slog"
	"strings"

	"github.com/idlab-discover/AIBOM/pkg/core"
)

// synonyms lists known concrete spellings per logical kind, checked after
// exact matching. Extend here when a new store schema variant appears;
// extraction logic never hard-codes type names.
var synonyms = map[string][]string{
	"Model":   {"system.Model", "kubeflow.Model", "MLModel"},
	"Dataset": {"system.Dataset", "kubeflow.Dataset", "DataSet"},
	"Library": {"system.Library", "Package"},
}

// Candidates resolves a logical kind against the available concrete type
// names. Match order: exact (case-sensitive, then case-insensitive), the
// fixed synonym table, then a suffix/substring heuristic. Discovery order
// is preserved and duplicates removed. An empty result is not an error;
// callers fall back to the literal requested name.
func Candidates(kind string, available []string) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(name string) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}

	for _, name := range available {
		if name == kind {
			add(name)
		}
	}
	for _, name := range available {
		if strings.EqualFold(name, kind) {
			add(name)
		}
	}
	for _, syn := range synonyms[kind] {
		for _, name := range available {
			if name == syn || strings.EqualFold(name, syn) {
				add(name)
			}
		}
	}
	lower := strings.ToLower(kind)
	for _, name := range available {
		ln := strings.ToLower(name)
		if strings.HasSuffix(ln, "."+lower) || strings.Contains(ln, lower) {
			add(name)
		}
	}
	return out
}

// Matches reports whether a concrete type name resolves to the logical
// kind: exact or namespaced ".kind" suffix, case-insensitive.
func Matches(typeName, kind string) bool {
	if typeName == "" {
		return false
	}
	if strings.EqualFold(typeName, kind) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(typeName), "."+strings.ToLower(kind))
}

// Resolver resolves logical kinds against one store and caches type-id
// lookups. A Resolver is owned by exactly one extraction run; the cache is
// never invalidated mid-run since the store is immutable during extraction.
type Resolver struct {
	store     core.MetadataStore
	logger    *slog.Logger
	typeNames map[int64]string
}

// New creates a Resolver for one extraction run.
func New(store core.MetadataStore, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{
		store:     store,
		logger:    logger,
		typeNames: make(map[int64]string),
	}
}

// Resolve returns the concrete type names in the store matching the
// logical kind. An empty result means "use the literal name and accept
// zero results", never a hard failure.
func (r *Resolver) Resolve(kind string) ([]string, error) {
	types, err := r.store.GetArtifactTypes()
	if err != nil {
		return nil, err
	}
	available := make([]string, 0, len(types))
	for _, t := range types {
		available = append(available, t.Name)
		r.typeNames[t.ID] = t.Name
	}
	matched := Candidates(kind, available)
	r.logger.Debug("resolved type candidates", "kind", kind, "matched", matched)
	return matched, nil
}

// TypeName returns the concrete type name for a type id, cached for the
// duration of the run. Unknown ids resolve to "".
func (r *Resolver) TypeName(id int64) (string, error) {
	if name, ok := r.typeNames[id]; ok {
		return name, nil
	}
	types, err := r.store.GetArtifactTypes()
	if err != nil {
		return "", err
	}
	for _, t := range types {
		r.typeNames[t.ID] = t.Name
	}
	name := r.typeNames[id]
	if name == "" {
		// Cache the miss too; the store is immutable during the run.
		r.typeNames[id] = ""
	}
	return name, nil
}

// IsKind reports whether the artifact's type resolves to the logical kind.
func (r *Resolver) IsKind(a core.Artifact, kind string) (bool, error) {
	name, err := r.TypeName(a.TypeID)
	if err != nil {
		return false, err
	}
	return Matches(name, kind), nil
}
