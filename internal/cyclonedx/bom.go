// Package cyclonedx serializes assembled documents as CycloneDX 1.6 JSON.
// Only the schema subset the generator emits is modeled here.
package cyclonedx

import "time"

const (
	bomFormat   = "CycloneDX"
	specVersion = "1.6"

	// Component types used by the generator.
	TypeApplication = "application"
	TypeLibrary     = "library"
	TypeData        = "data"

	// External reference types. Lineage links use "bom", model-to-dataset
	// uses "data", dataset-to-consumer uses "application".
	ExtRefBOM         = "bom"
	ExtRefData        = "data"
	ExtRefApplication = "application"
)

// BOM is the top-level CycloneDX document.
type BOM struct {
	BOMFormat    string       `json:"bomFormat"`
	SpecVersion  string       `json:"specVersion"`
	SerialNumber string       `json:"serialNumber,omitempty"`
	Version      int          `json:"version"`
	Metadata     *Metadata    `json:"metadata,omitempty"`
	Components   []Component  `json:"components,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
}

type Metadata struct {
	Timestamp time.Time  `json:"timestamp"`
	Tools     *Tools     `json:"tools,omitempty"`
	Component *Component `json:"component,omitempty"`
}

type Tools struct {
	Components []Component `json:"components,omitempty"`
}

type Component struct {
	BOMRef             string              `json:"bom-ref,omitempty"`
	Type               string              `json:"type"`
	Name               string              `json:"name"`
	Version            string              `json:"version,omitempty"`
	Description        string              `json:"description,omitempty"`
	PURL               string              `json:"purl,omitempty"`
	Properties         []Property          `json:"properties,omitempty"`
	ExternalReferences []ExternalReference `json:"externalReferences,omitempty"`
}

type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ExternalReference struct {
	Type    string `json:"type"`
	URL     string `json:"url"`
	Comment string `json:"comment,omitempty"`
}

// Dependency is one node of the BOM dependency graph.
type Dependency struct {
	Ref       string   `json:"ref"`
	DependsOn []string `json:"dependsOn,omitempty"`
}
