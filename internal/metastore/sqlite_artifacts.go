package metastore

import (
	"database/sql"
	"fmt"

	"github.com/idlab-discover/AIBOM/pkg/core"
)

// --- Artifact type operations ---

// GetArtifactTypes returns all registered artifact types with their
// declared property kinds, ordered by id.
func (s *SQLiteStore) GetArtifactTypes() ([]core.ArtifactType, error) {
	rows, err := s.db.Query(`SELECT id, name FROM artifact_types ORDER BY id`)
	if err != nil {
		return nil, storeErr("GetArtifactTypes", err)
	}
	defer rows.Close()

	var types []core.ArtifactType
	for rows.Next() {
		t := core.ArtifactType{Properties: map[string]core.PropertyKind{}}
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, storeErr("GetArtifactTypes", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("GetArtifactTypes", err)
	}

	for i := range types {
		if err := s.loadTypeProperties("artifact_type_properties", types[i].ID, types[i].Properties); err != nil {
			return nil, storeErr("GetArtifactTypes", err)
		}
	}
	return types, nil
}

func (s *SQLiteStore) loadTypeProperties(table string, typeID int64, dst map[string]core.PropertyKind) error {
	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT name, kind FROM %s WHERE type_id = ? ORDER BY name`, table), typeID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var kind int
		if err := rows.Scan(&name, &kind); err != nil {
			return err
		}
		dst[name] = core.PropertyKind(kind)
	}
	return rows.Err()
}

// --- Artifact operations ---

// GetArtifactsByType returns all artifacts of the named concrete type.
// An unknown type name yields an empty result.
func (s *SQLiteStore) GetArtifactsByType(typeName string) ([]core.Artifact, error) {
	var typeID int64
	err := s.db.QueryRow(`SELECT id FROM artifact_types WHERE name = ?`, typeName).Scan(&typeID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("GetArtifactsByType", err)
	}

	arts, err := s.queryArtifacts(`SELECT id, type_id, uri, name FROM artifacts WHERE type_id = ? ORDER BY id`, typeID)
	if err != nil {
		return nil, storeErr("GetArtifactsByType", err)
	}
	return arts, nil
}

// GetArtifactsByID returns the artifacts with the given ids; missing ids
// are silently absent.
func (s *SQLiteStore) GetArtifactsByID(ids []int64) ([]core.Artifact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(`SELECT id, type_id, uri, name FROM artifacts WHERE id IN (%s) ORDER BY id`, placeholders(len(ids)))
	arts, err := s.queryArtifacts(q, int64Args(ids)...)
	if err != nil {
		return nil, storeErr("GetArtifactsByID", err)
	}
	return arts, nil
}

// GetArtifactsByContext returns the artifacts attributed to a context.
func (s *SQLiteStore) GetArtifactsByContext(contextID int64) ([]core.Artifact, error) {
	arts, err := s.queryArtifacts(
		`SELECT a.id, a.type_id, a.uri, a.name
		   FROM artifacts a
		   JOIN attributions at ON at.artifact_id = a.id
		  WHERE at.context_id = ?
		  ORDER BY a.id`, contextID)
	if err != nil {
		return nil, storeErr("GetArtifactsByContext", err)
	}
	return arts, nil
}

func (s *SQLiteStore) queryArtifacts(query string, args ...any) ([]core.Artifact, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var arts []core.Artifact
	for rows.Next() {
		a := core.Artifact{
			Properties:       map[string]core.PropertyValue{},
			CustomProperties: map[string]core.PropertyValue{},
		}
		if err := rows.Scan(&a.ID, &a.TypeID, &a.URI, &a.Name); err != nil {
			return nil, err
		}
		arts = append(arts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range arts {
		if err := s.loadProperties("artifact_properties", "artifact_id", arts[i].ID,
			arts[i].Properties, arts[i].CustomProperties); err != nil {
			return nil, err
		}
	}
	return arts, nil
}

// loadProperties fills declared and custom property maps for one record.
func (s *SQLiteStore) loadProperties(table, idColumn string, id int64, declared, custom map[string]core.PropertyValue) error {
	rows, err := s.db.Query(fmt.Sprintf(
		`SELECT name, kind, is_custom, string_value, int_value, double_value
		   FROM %s WHERE %s = ? ORDER BY name`, table, idColumn), id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name     string
			kind     int
			isCustom int
			strVal   sql.NullString
			intVal   sql.NullInt64
			dblVal   sql.NullFloat64
		)
		if err := rows.Scan(&name, &kind, &isCustom, &strVal, &intVal, &dblVal); err != nil {
			return err
		}
		v := core.PropertyValue{Kind: core.PropertyKind(kind)}
		switch v.Kind {
		case core.PropertyInt:
			v.Int = intVal.Int64
		case core.PropertyDouble:
			v.Double = dblVal.Float64
		default:
			v.Str = strVal.String
		}
		if isCustom != 0 {
			custom[name] = v
		} else {
			declared[name] = v
		}
	}
	return rows.Err()
}
