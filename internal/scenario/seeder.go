package scenario

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/idlab-discover/AIBOM/pkg/core"
)

// Summary reports what a seeding run wrote.
type Summary struct {
	ArtifactTypes  int
	ExecutionTypes int
	ContextTypes   int
	Contexts       int
	Artifacts      int
	Executions     int
	Events         int
	Attributions   int
	Associations   int
}

// Seeder writes scenarios into a metadata store.
type Seeder struct {
	writer core.MetadataWriter
	logger *slog.Logger
}

// NewSeeder creates a Seeder. A nil logger discards output.
func NewSeeder(writer core.MetadataWriter, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Seeder{writer: writer, logger: logger}
}

// Seed upserts the scenario's types and inserts its entities, resolving
// the fixture's symbolic keys to assigned store IDs. Entities are written
// in sorted key order so IDs are reproducible.
func (s *Seeder) Seed(sc *Scenario) (*Summary, error) {
	sum := &Summary{}

	artTypes, err := s.putArtifactTypes(sc, sum)
	if err != nil {
		return nil, err
	}
	exeTypes, err := s.putExecutionTypes(sc, sum)
	if err != nil {
		return nil, err
	}
	ctxTypes, err := s.putContextTypes(sc, sum)
	if err != nil {
		return nil, err
	}

	ctxIDs, err := s.putContexts(sc, ctxTypes, sum)
	if err != nil {
		return nil, err
	}
	artIDs, err := s.putArtifacts(sc, artTypes, sum)
	if err != nil {
		return nil, err
	}
	exeIDs, err := s.putExecutions(sc, exeTypes, sum)
	if err != nil {
		return nil, err
	}

	if err := s.putEvents(sc, artIDs, exeIDs, sum); err != nil {
		return nil, err
	}
	if err := s.putLinks(sc, ctxIDs, artIDs, exeIDs, sum); err != nil {
		return nil, err
	}

	s.logger.Info("scenario seeded",
		"contexts", sum.Contexts, "artifacts", sum.Artifacts,
		"executions", sum.Executions, "events", sum.Events)
	return sum, nil
}

// typeInfo carries a registered type's assigned ID and property kinds.
type typeInfo struct {
	id    int64
	decls map[string]core.PropertyKind
}

func (s *Seeder) putArtifactTypes(sc *Scenario, sum *Summary) (map[string]typeInfo, error) {
	out := map[string]typeInfo{}
	for _, name := range sortedKeys(sc.Types.Artifact) {
		decls := declsOf(sc.Types.Artifact[name])
		id, err := s.writer.PutArtifactType(core.ArtifactType{Name: name, Properties: decls})
		if err != nil {
			return nil, fmt.Errorf("registering artifact type %s: %w", name, err)
		}
		out[name] = typeInfo{id: id, decls: decls}
		sum.ArtifactTypes++
	}
	return out, nil
}

func (s *Seeder) putExecutionTypes(sc *Scenario, sum *Summary) (map[string]typeInfo, error) {
	out := map[string]typeInfo{}
	for _, name := range sortedKeys(sc.Types.Execution) {
		decls := declsOf(sc.Types.Execution[name])
		id, err := s.writer.PutExecutionType(core.ExecutionType{Name: name, Properties: decls})
		if err != nil {
			return nil, fmt.Errorf("registering execution type %s: %w", name, err)
		}
		out[name] = typeInfo{id: id, decls: decls}
		sum.ExecutionTypes++
	}
	return out, nil
}

func (s *Seeder) putContextTypes(sc *Scenario, sum *Summary) (map[string]typeInfo, error) {
	out := map[string]typeInfo{}
	for _, name := range sortedKeys(sc.Types.Context) {
		decls := declsOf(sc.Types.Context[name])
		id, err := s.writer.PutContextType(core.ContextType{Name: name, Properties: decls})
		if err != nil {
			return nil, fmt.Errorf("registering context type %s: %w", name, err)
		}
		out[name] = typeInfo{id: id, decls: decls}
		sum.ContextTypes++
	}
	return out, nil
}

func (s *Seeder) putContexts(sc *Scenario, types map[string]typeInfo, sum *Summary) (map[string]int64, error) {
	ids := map[string]int64{}
	for _, key := range sortedKeys(sc.Contexts) {
		item := sc.Contexts[key]
		ti, ok := types[item.Type]
		if !ok {
			return nil, fmt.Errorf("context %s references undeclared type %q", key, item.Type)
		}
		name := item.Name
		if name == "" {
			name = key
		}
		declared, _ := splitProperties(item.Properties, ti.decls)
		got, err := s.writer.PutContexts([]core.Context{{TypeID: ti.id, Name: name, Properties: declared}})
		if err != nil {
			return nil, fmt.Errorf("creating context %s: %w", key, err)
		}
		ids[key] = got[0]
		sum.Contexts++
	}
	return ids, nil
}

func (s *Seeder) putArtifacts(sc *Scenario, types map[string]typeInfo, sum *Summary) (map[string]int64, error) {
	ids := map[string]int64{}
	for _, key := range sortedKeys(sc.Artifacts) {
		item := sc.Artifacts[key]
		ti, ok := types[item.Type]
		if !ok {
			return nil, fmt.Errorf("artifact %s references undeclared type %q", key, item.Type)
		}
		declared, custom := splitProperties(item.Properties, ti.decls)
		got, err := s.writer.PutArtifacts([]core.Artifact{{
			TypeID:           ti.id,
			URI:              item.URI,
			Properties:       declared,
			CustomProperties: custom,
		}})
		if err != nil {
			return nil, fmt.Errorf("creating artifact %s: %w", key, err)
		}
		ids[key] = got[0]
		sum.Artifacts++
	}
	return ids, nil
}

func (s *Seeder) putExecutions(sc *Scenario, types map[string]typeInfo, sum *Summary) (map[string]int64, error) {
	ids := map[string]int64{}
	for _, key := range sortedKeys(sc.Executions) {
		item := sc.Executions[key]
		ti, ok := types[item.Type]
		if !ok {
			return nil, fmt.Errorf("execution %s references undeclared type %q", key, item.Type)
		}
		declared, _ := splitProperties(item.Properties, ti.decls)
		got, err := s.writer.PutExecutions([]core.Execution{{TypeID: ti.id, Name: key, Properties: declared}})
		if err != nil {
			return nil, fmt.Errorf("creating execution %s: %w", key, err)
		}
		ids[key] = got[0]
		sum.Executions++
	}
	return ids, nil
}

func (s *Seeder) putEvents(sc *Scenario, artIDs, exeIDs map[string]int64, sum *Summary) error {
	var events []core.Event
	for _, ev := range sc.Events {
		artID, ok := artIDs[ev.Artifact]
		if !ok {
			return fmt.Errorf("event references unknown artifact %q", ev.Artifact)
		}
		exeID, ok := exeIDs[ev.Execution]
		if !ok {
			return fmt.Errorf("event references unknown execution %q", ev.Execution)
		}
		events = append(events, core.Event{
			ArtifactID:  artID,
			ExecutionID: exeID,
			Type:        eventType(ev.Type),
		})
	}
	if len(events) == 0 {
		return nil
	}
	if err := s.writer.PutEvents(events); err != nil {
		return fmt.Errorf("creating events: %w", err)
	}
	sum.Events = len(events)
	return nil
}

// eventType defaults to OUTPUT; anything else spelled out becomes INPUT.
func eventType(name string) core.EventType {
	if name == "" || strings.EqualFold(name, "OUTPUT") {
		return core.EventOutput
	}
	return core.EventInput
}

// putLinks writes the explicit attribution/association lists plus the
// inline contexts declared on artifacts and executions.
func (s *Seeder) putLinks(sc *Scenario, ctxIDs, artIDs, exeIDs map[string]int64, sum *Summary) error {
	for _, at := range sc.Attributions {
		if err := s.attribute(ctxIDs, artIDs, at.Context, at.Artifact, sum); err != nil {
			return err
		}
	}
	for _, as := range sc.Associations {
		if err := s.associate(ctxIDs, exeIDs, as.Context, as.Execution, sum); err != nil {
			return err
		}
	}
	for _, key := range sortedKeys(sc.Artifacts) {
		for _, ctxKey := range sc.Artifacts[key].Contexts {
			if err := s.attribute(ctxIDs, artIDs, ctxKey, key, sum); err != nil {
				return err
			}
		}
	}
	for _, key := range sortedKeys(sc.Executions) {
		for _, ctxKey := range sc.Executions[key].Contexts {
			if err := s.associate(ctxIDs, exeIDs, ctxKey, key, sum); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) attribute(ctxIDs, artIDs map[string]int64, ctxKey, artKey string, sum *Summary) error {
	ctxID, ok := ctxIDs[ctxKey]
	if !ok {
		return fmt.Errorf("attribution references unknown context %q", ctxKey)
	}
	artID, ok := artIDs[artKey]
	if !ok {
		return fmt.Errorf("attribution references unknown artifact %q", artKey)
	}
	if err := s.writer.PutAttribution(ctxID, artID); err != nil {
		return fmt.Errorf("attributing %s to %s: %w", artKey, ctxKey, err)
	}
	sum.Attributions++
	return nil
}

func (s *Seeder) associate(ctxIDs, exeIDs map[string]int64, ctxKey, exeKey string, sum *Summary) error {
	ctxID, ok := ctxIDs[ctxKey]
	if !ok {
		return fmt.Errorf("association references unknown context %q", ctxKey)
	}
	exeID, ok := exeIDs[exeKey]
	if !ok {
		return fmt.Errorf("association references unknown execution %q", exeKey)
	}
	if err := s.writer.PutAssociation(ctxID, exeID); err != nil {
		return fmt.Errorf("associating %s with %s: %w", exeKey, ctxKey, err)
	}
	sum.Associations++
	return nil
}
