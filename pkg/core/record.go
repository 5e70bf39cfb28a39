package core

// DependencyRef is a lightweight reference to an upstream dependency
// artifact (library, container image, ...). Datasets never appear here;
// they are folded into ProvenanceRecord.DatasetURIs instead.
type DependencyRef struct {
	Name     string
	Version  string
	Locator  string // package locator (purl), when recorded
	URI      string
	TypeName string
	// Properties holds the remaining non-empty properties, declared values
	// winning over custom ones on key collisions.
	Properties map[string]string
}

// ProducedRef is a lightweight reference to a downstream artifact causally
// linked to an entity (e.g. an evaluation report produced by a run that
// consumed the model).
type ProducedRef struct {
	Name     string
	Version  string
	URI      string
	TypeName string
}

// ProvenanceRecord is the derived per-artifact result of relation
// extraction. Records are built fresh per run, never persisted, and are
// consumed immediately by the document assembler.
type ProvenanceRecord struct {
	// Kind is the logical entity kind that was requested ("Model",
	// "Dataset"); TypeName is the concrete store type the artifact has.
	Kind     string
	TypeName string

	Name    string
	Version string
	URI     string

	// Properties holds the remaining non-empty properties after the
	// identity fields above have been pulled out.
	Properties map[string]string

	Dependencies []DependencyRef
	// DatasetURIs is the sorted, deduplicated set of dataset locators this
	// entity used, directly or through downstream consumers.
	DatasetURIs []string
	Produced    []ProducedRef
}
