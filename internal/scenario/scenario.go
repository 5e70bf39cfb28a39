// Package scenario populates a metadata store from a YAML fixture file:
// type declarations, contexts, artifacts, executions, events, and the
// attribution/association links between them.
package scenario

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/idlab-discover/AIBOM/pkg/core"
)

// Scenario is the parsed fixture file.
type Scenario struct {
	Types        TypeDecls                `yaml:"types"`
	Contexts     map[string]ContextItem   `yaml:"contexts"`
	Artifacts    map[string]ArtifactItem  `yaml:"artifacts"`
	Executions   map[string]ExecutionItem `yaml:"executions"`
	Events       []EventItem              `yaml:"events"`
	Attributions []AttributionItem        `yaml:"attributions"`
	Associations []AssociationItem        `yaml:"associations"`
}

// TypeDecls declares the store types and their property kinds.
type TypeDecls struct {
	Artifact  map[string]TypeSpec `yaml:"artifact"`
	Execution map[string]TypeSpec `yaml:"execution"`
	Context   map[string]TypeSpec `yaml:"context"`
}

// TypeSpec maps property names to STRING, INT, or DOUBLE.
type TypeSpec struct {
	Properties map[string]string `yaml:"properties"`
}

type ContextItem struct {
	Type       string         `yaml:"type"`
	Name       string         `yaml:"name"`
	Properties map[string]any `yaml:"properties"`
}

type ArtifactItem struct {
	Type       string         `yaml:"type"`
	URI        string         `yaml:"uri"`
	Properties map[string]any `yaml:"properties"`
	Contexts   []string       `yaml:"contexts"`
}

type ExecutionItem struct {
	Type       string         `yaml:"type"`
	Properties map[string]any `yaml:"properties"`
	Contexts   []string       `yaml:"contexts"`
}

type EventItem struct {
	Execution string `yaml:"execution"`
	Artifact  string `yaml:"artifact"`
	Type      string `yaml:"type"`
}

type AttributionItem struct {
	Context  string `yaml:"context"`
	Artifact string `yaml:"artifact"`
}

type AssociationItem struct {
	Context   string `yaml:"context"`
	Execution string `yaml:"execution"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return &s, nil
}

// propKind maps a declared kind name to the store kind, STRING by default.
func propKind(name string) core.PropertyKind {
	switch strings.ToUpper(name) {
	case "INT":
		return core.PropertyInt
	case "DOUBLE":
		return core.PropertyDouble
	default:
		return core.PropertyString
	}
}

// coerce converts a YAML scalar to the declared property kind. Conversion
// is best-effort: unparseable values degrade to the kind's zero value.
func coerce(v any, kind core.PropertyKind) core.PropertyValue {
	switch kind {
	case core.PropertyInt:
		switch x := v.(type) {
		case bool:
			if x {
				return core.IntProperty(1)
			}
			return core.IntProperty(0)
		case int:
			return core.IntProperty(int64(x))
		case int64:
			return core.IntProperty(x)
		case float64:
			return core.IntProperty(int64(x))
		case string:
			n, _ := strconv.ParseInt(x, 10, 64)
			return core.IntProperty(n)
		default:
			return core.IntProperty(0)
		}
	case core.PropertyDouble:
		switch x := v.(type) {
		case int:
			return core.DoubleProperty(float64(x))
		case int64:
			return core.DoubleProperty(float64(x))
		case float64:
			return core.DoubleProperty(x)
		case string:
			f, _ := strconv.ParseFloat(x, 64)
			return core.DoubleProperty(f)
		default:
			return core.DoubleProperty(0)
		}
	default:
		if v == nil {
			return core.StringProperty("")
		}
		return core.StringProperty(fmt.Sprint(v))
	}
}

// splitProperties coerces an item's property map against its type's
// declarations: declared keys become typed properties, the rest become
// string custom properties.
func splitProperties(values map[string]any, decls map[string]core.PropertyKind) (declared, custom map[string]core.PropertyValue) {
	declared = map[string]core.PropertyValue{}
	custom = map[string]core.PropertyValue{}
	for k, v := range values {
		if kind, ok := decls[k]; ok {
			declared[k] = coerce(v, kind)
		} else {
			custom[k] = coerce(v, core.PropertyString)
		}
	}
	return declared, custom
}

// declsOf parses a TypeSpec's property kinds.
func declsOf(spec TypeSpec) map[string]core.PropertyKind {
	out := map[string]core.PropertyKind{}
	for name, kind := range spec.Properties {
		out[name] = propKind(kind)
	}
	return out
}

// sortedKeys gives the deterministic iteration order for YAML maps, so
// assigned store IDs are reproducible across runs.
func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
