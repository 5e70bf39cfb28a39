package metastore

import (
	"database/sql"
	"fmt"

	"github.com/idlab-discover/AIBOM/pkg/core"
)

// Write operations, used only by scenario population. Extraction runs
// never call these.

// PutArtifactType upserts an artifact type by name and returns its id.
func (s *SQLiteStore) PutArtifactType(t core.ArtifactType) (int64, error) {
	return s.putType("artifact_types", "artifact_type_properties", t.Name, t.Properties)
}

// PutExecutionType upserts an execution type by name and returns its id.
func (s *SQLiteStore) PutExecutionType(t core.ExecutionType) (int64, error) {
	return s.putType("execution_types", "execution_type_properties", t.Name, t.Properties)
}

// PutContextType upserts a context type by name and returns its id.
func (s *SQLiteStore) PutContextType(t core.ContextType) (int64, error) {
	return s.putType("context_types", "context_type_properties", t.Name, t.Properties)
}

func (s *SQLiteStore) putType(table, propTable, name string, props map[string]core.PropertyKind) (int64, error) {
	var id int64
	err := s.db.QueryRow(fmt.Sprintf(`SELECT id FROM %s WHERE name = ?`, table), name).Scan(&id)
	if err == sql.ErrNoRows {
		res, insErr := s.db.Exec(fmt.Sprintf(`INSERT INTO %s (name) VALUES (?)`, table), name)
		if insErr != nil {
			return 0, storeErr("PutType", insErr)
		}
		id, insErr = res.LastInsertId()
		if insErr != nil {
			return 0, storeErr("PutType", insErr)
		}
	} else if err != nil {
		return 0, storeErr("PutType", err)
	}

	for pname, kind := range props {
		_, err := s.db.Exec(fmt.Sprintf(
			`INSERT OR REPLACE INTO %s (type_id, name, kind) VALUES (?, ?, ?)`, propTable),
			id, pname, int(kind))
		if err != nil {
			return 0, storeErr("PutType", err)
		}
	}
	return id, nil
}

// PutArtifacts inserts artifacts and returns their assigned ids in order.
func (s *SQLiteStore) PutArtifacts(artifacts []core.Artifact) ([]int64, error) {
	ids := make([]int64, 0, len(artifacts))
	for _, a := range artifacts {
		res, err := s.db.Exec(
			`INSERT INTO artifacts (type_id, uri, name) VALUES (?, ?, ?)`,
			a.TypeID, a.URI, a.Name)
		if err != nil {
			return nil, storeErr("PutArtifacts", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, storeErr("PutArtifacts", err)
		}
		if err := s.putProperties("artifact_properties", "artifact_id", id, a.Properties, false); err != nil {
			return nil, err
		}
		if err := s.putProperties("artifact_properties", "artifact_id", id, a.CustomProperties, true); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// PutExecutions inserts executions and returns their assigned ids in order.
func (s *SQLiteStore) PutExecutions(executions []core.Execution) ([]int64, error) {
	ids := make([]int64, 0, len(executions))
	for _, e := range executions {
		res, err := s.db.Exec(`INSERT INTO executions (type_id, name) VALUES (?, ?)`, e.TypeID, e.Name)
		if err != nil {
			return nil, storeErr("PutExecutions", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, storeErr("PutExecutions", err)
		}
		if err := s.putProperties("execution_properties", "execution_id", id, e.Properties, false); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// PutContexts inserts contexts and returns their assigned ids in order.
func (s *SQLiteStore) PutContexts(contexts []core.Context) ([]int64, error) {
	ids := make([]int64, 0, len(contexts))
	for _, c := range contexts {
		res, err := s.db.Exec(`INSERT INTO contexts (type_id, name) VALUES (?, ?)`, c.TypeID, c.Name)
		if err != nil {
			return nil, storeErr("PutContexts", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, storeErr("PutContexts", err)
		}
		if err := s.putProperties("context_properties", "context_id", id, c.Properties, false); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// PutEvents inserts events; exact duplicates are ignored.
func (s *SQLiteStore) PutEvents(events []core.Event) error {
	for _, e := range events {
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO events (artifact_id, execution_id, type) VALUES (?, ?, ?)`,
			e.ArtifactID, e.ExecutionID, int(e.Type))
		if err != nil {
			return storeErr("PutEvents", err)
		}
	}
	return nil
}

// PutAttribution links an artifact to a context.
func (s *SQLiteStore) PutAttribution(contextID, artifactID int64) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO attributions (context_id, artifact_id) VALUES (?, ?)`,
		contextID, artifactID)
	if err != nil {
		return storeErr("PutAttribution", err)
	}
	return nil
}

// PutAssociation links an execution to a context.
func (s *SQLiteStore) PutAssociation(contextID, executionID int64) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO associations (context_id, execution_id) VALUES (?, ?)`,
		contextID, executionID)
	if err != nil {
		return storeErr("PutAssociation", err)
	}
	return nil
}

func (s *SQLiteStore) putProperties(table, idColumn string, id int64, props map[string]core.PropertyValue, custom bool) error {
	isCustom := 0
	if custom {
		isCustom = 1
	}
	for name, v := range props {
		var strVal any
		var intVal any
		var dblVal any
		switch v.Kind {
		case core.PropertyInt:
			intVal = v.Int
		case core.PropertyDouble:
			dblVal = v.Double
		default:
			strVal = v.Str
		}
		_, err := s.db.Exec(fmt.Sprintf(
			`INSERT OR REPLACE INTO %s (%s, name, kind, is_custom, string_value, int_value, double_value)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`, table, idColumn),
			id, name, int(v.Kind), isCustom, strVal, intVal, dblVal)
		if err != nil {
			return storeErr("PutProperties", err)
		}
	}
	return nil
}
