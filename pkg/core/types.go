package core

import (
	"fmt"
	"strconv"
)

// PropertyKind discriminates the value variants a store property can carry.
type PropertyKind int

const (
	PropertyString PropertyKind = iota
	PropertyInt
	PropertyDouble
)

// PropertyValue is a tagged union over the scalar value kinds the metadata
// store records. Exactly one of the value fields is meaningful, selected by
// Kind.
type PropertyValue struct {
	Kind   PropertyKind
	Str    string
	Int    int64
	Double float64
}

// StringProperty returns a string-valued property.
func StringProperty(s string) PropertyValue {
	return PropertyValue{Kind: PropertyString, Str: s}
}

// IntProperty returns an int-valued property.
func IntProperty(i int64) PropertyValue {
	return PropertyValue{Kind: PropertyInt, Int: i}
}

// DoubleProperty returns a double-valued property.
func DoubleProperty(f float64) PropertyValue {
	return PropertyValue{Kind: PropertyDouble, Double: f}
}

// IsZero reports whether the value is the empty/zero default for its kind.
// Zero-valued properties are skipped during extraction.
func (v PropertyValue) IsZero() bool {
	switch v.Kind {
	case PropertyInt:
		return v.Int == 0
	case PropertyDouble:
		return v.Double == 0
	default:
		return v.Str == ""
	}
}

// String renders the value for output maps.
func (v PropertyValue) String() string {
	switch v.Kind {
	case PropertyInt:
		return strconv.FormatInt(v.Int, 10)
	case PropertyDouble:
		return strconv.FormatFloat(v.Double, 'g', -1, 64)
	default:
		return v.Str
	}
}

// ArtifactType describes a concrete artifact type registered in the store.
type ArtifactType struct {
	ID   int64
	Name string
	// Properties maps declared property names to their value kind.
	Properties map[string]PropertyKind
}

// ExecutionType describes a concrete execution type registered in the store.
type ExecutionType struct {
	ID         int64
	Name       string
	Properties map[string]PropertyKind
}

// ContextType describes a concrete context type registered in the store.
type ContextType struct {
	ID         int64
	Name       string
	Properties map[string]PropertyKind
}

// Artifact is a versioned, named unit tracked in the store (model, dataset,
// library, ...). Artifacts are immutable once read; extraction never writes
// back to the store.
type Artifact struct {
	ID     int64
	TypeID int64
	URI    string
	Name   string

	// Properties holds declared, typed properties; CustomProperties holds
	// free-form ones. Declared values take precedence on key collisions.
	Properties       map[string]PropertyValue
	CustomProperties map[string]PropertyValue
}

// Execution is a recorded unit of work (e.g. a training run), linked to
// artifacts via events.
type Execution struct {
	ID         int64
	TypeID     int64
	Name       string
	Properties map[string]PropertyValue
}

// EventType is the direction of an execution/artifact association.
type EventType int

const (
	EventUnknown EventType = iota
	EventInput
	EventOutput
)

// String implements fmt.Stringer for log output.
func (t EventType) String() string {
	switch t {
	case EventInput:
		return "INPUT"
	case EventOutput:
		return "OUTPUT"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is a directed association between an execution and an artifact.
type Event struct {
	ArtifactID  int64
	ExecutionID int64
	Type        EventType
}

// Context is a named grouping of artifacts and executions, e.g. an
// experiment or a pipeline run.
type Context struct {
	ID         int64
	TypeID     int64
	Name       string
	Properties map[string]PropertyValue
}
