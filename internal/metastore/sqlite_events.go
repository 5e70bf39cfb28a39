package metastore

import (
	"fmt"

	"github.com/idlab-discover/AIBOM/pkg/core"
)

// --- Event operations ---

// GetEventsByArtifactIDs returns all events referencing any of the given
// artifacts, ordered for deterministic traversal.
func (s *SQLiteStore) GetEventsByArtifactIDs(artifactIDs []int64) ([]core.Event, error) {
	if len(artifactIDs) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(
		`SELECT artifact_id, execution_id, type FROM events
		  WHERE artifact_id IN (%s)
		  ORDER BY execution_id, artifact_id, type`, placeholders(len(artifactIDs)))
	events, err := s.queryEvents(q, int64Args(artifactIDs)...)
	if err != nil {
		return nil, storeErr("GetEventsByArtifactIDs", err)
	}
	return events, nil
}

// GetEventsByExecutionIDs returns all events referencing any of the given
// executions.
func (s *SQLiteStore) GetEventsByExecutionIDs(executionIDs []int64) ([]core.Event, error) {
	if len(executionIDs) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(
		`SELECT artifact_id, execution_id, type FROM events
		  WHERE execution_id IN (%s)
		  ORDER BY execution_id, artifact_id, type`, placeholders(len(executionIDs)))
	events, err := s.queryEvents(q, int64Args(executionIDs)...)
	if err != nil {
		return nil, storeErr("GetEventsByExecutionIDs", err)
	}
	return events, nil
}

func (s *SQLiteStore) queryEvents(query string, args ...any) ([]core.Event, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []core.Event
	for rows.Next() {
		var e core.Event
		var typ int
		if err := rows.Scan(&e.ArtifactID, &e.ExecutionID, &typ); err != nil {
			return nil, err
		}
		e.Type = core.EventType(typ)
		events = append(events, e)
	}
	return events, rows.Err()
}

// --- Execution operations ---

// GetExecutionsByContext returns the executions associated with a context.
func (s *SQLiteStore) GetExecutionsByContext(contextID int64) ([]core.Execution, error) {
	rows, err := s.db.Query(
		`SELECT e.id, e.type_id, e.name
		   FROM executions e
		   JOIN associations assoc ON assoc.execution_id = e.id
		  WHERE assoc.context_id = ?
		  ORDER BY e.id`, contextID)
	if err != nil {
		return nil, storeErr("GetExecutionsByContext", err)
	}
	defer rows.Close()

	var execs []core.Execution
	for rows.Next() {
		e := core.Execution{Properties: map[string]core.PropertyValue{}}
		if err := rows.Scan(&e.ID, &e.TypeID, &e.Name); err != nil {
			return nil, storeErr("GetExecutionsByContext", err)
		}
		execs = append(execs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("GetExecutionsByContext", err)
	}

	for i := range execs {
		custom := map[string]core.PropertyValue{}
		if err := s.loadProperties("execution_properties", "execution_id", execs[i].ID,
			execs[i].Properties, custom); err != nil {
			return nil, storeErr("GetExecutionsByContext", err)
		}
	}
	return execs, nil
}

// --- Context operations ---

// GetContexts returns all contexts, ordered by id.
func (s *SQLiteStore) GetContexts() ([]core.Context, error) {
	rows, err := s.db.Query(`SELECT id, type_id, name FROM contexts ORDER BY id`)
	if err != nil {
		return nil, storeErr("GetContexts", err)
	}
	defer rows.Close()

	var ctxs []core.Context
	for rows.Next() {
		c := core.Context{Properties: map[string]core.PropertyValue{}}
		if err := rows.Scan(&c.ID, &c.TypeID, &c.Name); err != nil {
			return nil, storeErr("GetContexts", err)
		}
		ctxs = append(ctxs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("GetContexts", err)
	}

	for i := range ctxs {
		custom := map[string]core.PropertyValue{}
		if err := s.loadProperties("context_properties", "context_id", ctxs[i].ID,
			ctxs[i].Properties, custom); err != nil {
			return nil, storeErr("GetContexts", err)
		}
	}
	return ctxs, nil
}
