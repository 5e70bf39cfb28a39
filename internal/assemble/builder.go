package assemble

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/idlab-discover/AIBOM/internal/extract"
	"github.com/idlab-discover/AIBOM/internal/lineage"
	"github.com/idlab-discover/AIBOM/internal/resolve"
	"github.com/idlab-discover/AIBOM/pkg/core"
)

// Phase tracks builder progress. Transitions are strictly sequential; a
// builder is single-use and a fresh one is created per run.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseTypesResolved
	PhaseRecordsExtracted
	PhaseGrouped
	PhaseAssembled
	PhaseLinked
	PhaseFinalized
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseTypesResolved:
		return "types-resolved"
	case PhaseRecordsExtracted:
		return "records-extracted"
	case PhaseGrouped:
		return "grouped"
	case PhaseAssembled:
		return "assembled"
	case PhaseLinked:
		return "linked"
	case PhaseFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrBuilderReused is returned when Build is called on a builder that has
// already run.
var ErrBuilderReused = errors.New("builder already ran, create a fresh one per run")

// Config parametrizes one build run.
type Config struct {
	Store  core.MetadataStore
	Logger *slog.Logger

	// ModelKind and DatasetKind are the logical kinds driving extraction.
	ModelKind   string
	DatasetKind string

	// Context optionally scopes extraction to a named context.
	Context string

	// PropertyKey/PropertyValue optionally filter model candidates.
	PropertyKey   string
	PropertyValue string
}

// Result is the finalized output of a build run.
type Result struct {
	// Documents holds every assembled document, model chains first, then
	// dataset chains, each in chain order. All cross-document references
	// are in place.
	Documents []*core.Document
	// Models and Datasets index Documents by role.
	Models   []*core.Document
	Datasets []*core.Document
	// ModelChains and DatasetChains map logical names to their document
	// counts, for reporting. Kept separate because a dataset chain may
	// share a model chain's name.
	ModelChains   map[string]int
	DatasetChains map[string]int
}

// Builder drives one end-to-end run: resolve types, extract records, group
// into version chains, assemble documents, link every reference, then
// finalize. No document is final until all of them are linked.
type Builder struct {
	cfg    Config
	logger *slog.Logger
	phase  Phase

	run      *extract.Run
	models   []core.ProvenanceRecord
	datasets []core.ProvenanceRecord

	modelChains   lineage.Chains
	datasetChains lineage.Chains

	modelDocs   []*core.Document
	datasetDocs []*core.Document
}

// NewBuilder creates a single-use builder.
func NewBuilder(cfg Config) *Builder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ModelKind == "" {
		cfg.ModelKind = "Model"
	}
	if cfg.DatasetKind == "" {
		cfg.DatasetKind = "Dataset"
	}
	return &Builder{cfg: cfg, logger: logger, phase: PhaseUninitialized}
}

// Phase returns the builder's current phase.
func (b *Builder) Phase() Phase { return b.phase }

// advance enforces the sequential phase order.
func (b *Builder) advance(next Phase) error {
	if next != b.phase+1 {
		return fmt.Errorf("invalid phase transition %s -> %s", b.phase, next)
	}
	b.phase = next
	return nil
}

// Build runs every phase in order and returns the finalized documents.
func (b *Builder) Build() (*Result, error) {
	if b.phase != PhaseUninitialized {
		return nil, ErrBuilderReused
	}
	steps := []func() error{
		b.resolveTypes,
		b.extractRecords,
		b.groupChains,
		b.assembleDocuments,
		b.linkDocuments,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return b.finalize()
}

// resolveTypes warms the type-name cache for both kinds so later stages
// never re-query the type catalog.
func (b *Builder) resolveTypes() error {
	resolver := resolve.New(b.cfg.Store, b.logger)
	b.run = extract.NewRun(b.cfg.Store, resolver, b.cfg.DatasetKind, b.logger)
	for _, kind := range []string{b.cfg.ModelKind, b.cfg.DatasetKind} {
		matched, err := resolver.Resolve(kind)
		if err != nil {
			return err
		}
		b.logger.Debug("resolved kind", "kind", kind, "types", matched)
	}
	return b.advance(PhaseTypesResolved)
}

// extractRecords extracts model records (fatal when none exist) and dataset
// records (absence is tolerated; a store without dataset artifacts still
// yields model documents). The configured context scopes both kinds, so a
// scoped run never emits out-of-context dataset documents.
func (b *Builder) extractRecords() error {
	models, err := b.run.Extract(extract.Query{
		Kind:          b.cfg.ModelKind,
		Context:       b.cfg.Context,
		PropertyKey:   b.cfg.PropertyKey,
		PropertyValue: b.cfg.PropertyValue,
	})
	if err != nil {
		return err
	}
	b.models = models

	datasets, err := b.run.Extract(extract.Query{
		Kind:    b.cfg.DatasetKind,
		Context: b.cfg.Context,
	})
	if err != nil {
		var nf *core.NotFoundError
		if !errors.As(err, &nf) {
			return err
		}
		b.logger.Info("no dataset artifacts in store",
			"kind", b.cfg.DatasetKind, "context", b.cfg.Context)
	}
	b.datasets = datasets

	return b.advance(PhaseRecordsExtracted)
}

func (b *Builder) groupChains() error {
	b.modelChains = lineage.Group(b.models)
	b.datasetChains = lineage.Group(b.datasets)
	b.logger.Info("grouped version chains",
		"model_chains", len(b.modelChains), "dataset_chains", len(b.datasetChains))
	return b.advance(PhaseGrouped)
}

func (b *Builder) assembleDocuments() error {
	for _, name := range b.modelChains.Names() {
		b.modelDocs = append(b.modelDocs, Assemble(b.modelChains[name])...)
	}
	for _, name := range b.datasetChains.Names() {
		b.datasetDocs = append(b.datasetDocs, Assemble(b.datasetChains[name])...)
	}
	return b.advance(PhaseAssembled)
}

// linkDocuments wires every cross-document reference: adjacent-only
// lineage pairs within each chain, then model-to-dataset pairs by URI.
// Every document exists before any reference is written, so no link ever
// points at a document that was never assembled.
func (b *Builder) linkDocuments() error {
	b.linkChains(b.modelChains, b.modelDocs)
	b.linkChains(b.datasetChains, b.datasetDocs)

	byURI := make(map[string]*core.Document, len(b.datasetDocs))
	for _, d := range b.datasetDocs {
		if d.URI != "" {
			byURI[d.URI] = d
		}
	}
	for _, m := range b.modelDocs {
		for _, uri := range m.DatasetURIs {
			ds, ok := byURI[uri]
			if !ok {
				b.logger.Warn("dataset reference unresolved, skipping cross-reference",
					"model", m.Name, "version", m.Version, "uri", uri)
				continue
			}
			CrossReference(m, ds)
		}
	}
	return b.advance(PhaseLinked)
}

// linkChains pairs each document with its successor inside its chain. The
// docs slice is laid out chain by chain in Names() order, mirroring
// assembleDocuments.
func (b *Builder) linkChains(chains lineage.Chains, docs []*core.Document) {
	i := 0
	for _, name := range chains.Names() {
		n := len(chains[name])
		for j := 1; j < n; j++ {
			Link(docs[i+j-1], docs[i+j])
		}
		i += n
	}
}

func (b *Builder) finalize() (*Result, error) {
	if err := b.advance(PhaseFinalized); err != nil {
		return nil, err
	}
	res := &Result{
		Models:        b.modelDocs,
		Datasets:      b.datasetDocs,
		ModelChains:   map[string]int{},
		DatasetChains: map[string]int{},
	}
	res.Documents = append(res.Documents, b.modelDocs...)
	res.Documents = append(res.Documents, b.datasetDocs...)
	for name, chain := range b.modelChains {
		res.ModelChains[name] = len(chain)
	}
	for name, chain := range b.datasetChains {
		res.DatasetChains[name] = len(chain)
	}
	b.logger.Info("build finalized", "documents", len(res.Documents))
	return res, nil
}
