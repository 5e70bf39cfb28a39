package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ReferenceType classifies a cross-document reference.
type ReferenceType string

const (
	// RefAncestor points at the previous version of the same entity.
	RefAncestor ReferenceType = "ancestor"
	// RefDescendant points at the next version of the same entity.
	RefDescendant ReferenceType = "descendant"
	// RefDataset points from a model document at a dataset it used.
	RefDataset ReferenceType = "dataset"
	// RefConsumer points from a dataset document at a model that used it.
	RefConsumer ReferenceType = "consumer"
)

// Reference is a cross-document edge carried by a Document. Token is a
// stable identifier resolving to the target document; documents never embed
// each other's content.
type Reference struct {
	Type    ReferenceType
	Token   string
	Comment string
}

// Document is the per-artifact-version output unit: the root entity, its
// local dependency nodes, its dataset usages, and its cross-document
// references. One Document is produced per ProvenanceRecord.
type Document struct {
	Kind    string
	Name    string
	Version string
	URI     string

	Properties   map[string]string
	Dependencies []DependencyRef
	DatasetURIs  []string
	Produced     []ProducedRef

	References []Reference

	// SerialNumber is the deterministic document identity, derived from
	// the root entity's reference token (urn:uuid form).
	SerialNumber string
	// DocVersion is the BOM document version (always 1 for fresh runs).
	DocVersion int
}

// refNamespace seeds the deterministic serial numbers. Fixed, so identical
// entity identities hash to identical serials across runs and hosts.
var refNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("aibom.idlab-discover"))

// EntityRef returns the stable reference token for an entity identity. The
// store URI wins when present; otherwise the token is derived from the
// logical kind, name, and version. Never a filesystem path.
func EntityRef(kind, name, version, uri string) string {
	if uri != "" {
		return uri
	}
	return fmt.Sprintf("urn:aibom:%s/%s@%s", strings.ToLower(kind), name, version)
}

// SerialFor returns the deterministic urn:uuid serial for a reference token.
func SerialFor(ref string) string {
	return "urn:uuid:" + uuid.NewSHA1(refNamespace, []byte(ref)).String()
}

// Ref returns the document root's stable reference token.
func (d *Document) Ref() string {
	return EntityRef(d.Kind, d.Name, d.Version, d.URI)
}

// Link returns the BOM-Link token other documents use to reference this
// one: urn:cdx:<serial>/<version>#<bom-ref>.
func (d *Document) Link() string {
	serial := strings.TrimPrefix(d.SerialNumber, "urn:uuid:")
	v := d.DocVersion
	if v == 0 {
		v = 1
	}
	return fmt.Sprintf("urn:cdx:%s/%d#%s", serial, v, d.Ref())
}

// AddReference appends a cross-document reference, ignoring exact
// duplicates so repeated linking stays idempotent.
func (d *Document) AddReference(t ReferenceType, token, comment string) {
	for _, r := range d.References {
		if r.Type == t && r.Token == token {
			return
		}
	}
	d.References = append(d.References, Reference{Type: t, Token: token, Comment: comment})
}

// ReferencesOf returns the references of the given type, in insertion order.
func (d *Document) ReferencesOf(t ReferenceType) []Reference {
	var out []Reference
	for _, r := range d.References {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}
