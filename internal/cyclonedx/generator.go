package cyclonedx

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/idlab-discover/AIBOM/pkg/core"
)

// toolName identifies the generator inside metadata.tools.
const toolName = "aibom"

// Generator converts assembled documents into CycloneDX BOMs. Now is a
// hook so output stays byte-for-byte reproducible under test.
type Generator struct {
	// ToolVersion is stamped into metadata.tools.
	ToolVersion string
	// DatasetKind classifies which documents become data components.
	DatasetKind string
	// Now supplies the metadata timestamp.
	Now func() time.Time
}

// NewGenerator returns a Generator with production defaults.
func NewGenerator(toolVersion string) *Generator {
	return &Generator{ToolVersion: toolVersion, DatasetKind: "Dataset", Now: time.Now}
}

// Generate builds the CycloneDX BOM for one document. The document's root
// entity becomes metadata.component, dependencies become library
// components wired into the dependency graph, and every cross-document
// reference becomes an external reference on the root.
func (g *Generator) Generate(doc *core.Document) *BOM {
	root := Component{
		BOMRef:      doc.Ref(),
		Type:        g.componentType(doc),
		Name:        doc.Name,
		Version:     doc.Version,
		Description: g.description(doc),
		Properties:  properties(doc.Properties),
	}
	for _, ref := range doc.References {
		root.ExternalReferences = append(root.ExternalReferences, ExternalReference{
			Type:    extRefType(ref.Type),
			URL:     ref.Token,
			Comment: ref.Comment,
		})
	}

	bom := &BOM{
		BOMFormat:    bomFormat,
		SpecVersion:  specVersion,
		SerialNumber: doc.SerialNumber,
		Version:      docVersion(doc),
		Metadata: &Metadata{
			Timestamp: g.now().UTC(),
			Tools: &Tools{Components: []Component{
				{Name: toolName, Type: TypeApplication, Version: g.ToolVersion},
			}},
			Component: &root,
		},
		Components: []Component{root},
	}

	var depRefs []string
	for _, dep := range doc.Dependencies {
		c := Component{
			BOMRef:     depRef(dep),
			Type:       TypeLibrary,
			Name:       dep.Name,
			Version:    dep.Version,
			PURL:       dep.Locator,
			Properties: properties(dep.Properties),
		}
		bom.Components = append(bom.Components, c)
		depRefs = append(depRefs, c.BOMRef)
	}
	if len(depRefs) > 0 {
		bom.Dependencies = []Dependency{{Ref: root.BOMRef, DependsOn: depRefs}}
	}
	return bom
}

func (g *Generator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

func (g *Generator) componentType(doc *core.Document) string {
	if strings.EqualFold(doc.Kind, g.DatasetKind) {
		return TypeData
	}
	return TypeApplication
}

// description composes a short human line from well-known properties.
func (g *Generator) description(doc *core.Document) string {
	if d := doc.Properties["description"]; d != "" {
		return d
	}
	if g.componentType(doc) == TypeData {
		return ""
	}
	framework := doc.Properties["framework"]
	format := doc.Properties["format"]
	if framework == "" && format == "" {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("ML model using %s (%s)", framework, format))
}

// depRef picks the dependency component's bom-ref: purl, then store URI,
// then a derived token.
func depRef(dep core.DependencyRef) string {
	if dep.Locator != "" {
		return dep.Locator
	}
	return core.EntityRef("library", dep.Name, dep.Version, dep.URI)
}

func extRefType(t core.ReferenceType) string {
	switch t {
	case core.RefDataset:
		return ExtRefData
	case core.RefConsumer:
		return ExtRefApplication
	default:
		return ExtRefBOM
	}
}

func docVersion(doc *core.Document) int {
	if doc.DocVersion == 0 {
		return 1
	}
	return doc.DocVersion
}

// properties flattens a string map into name-sorted ml: properties.
func properties(m map[string]string) []Property {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Property, 0, len(keys))
	for _, k := range keys {
		out = append(out, Property{Name: "ml:" + k, Value: m[k]})
	}
	return out
}
