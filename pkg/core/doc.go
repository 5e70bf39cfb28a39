// Package core defines the shared domain types for AIBOM: the metadata
// store read interface, artifact/execution/event records, the derived
// provenance records produced by extraction, and the BOM documents handed
// to serializers and the graph exporter.
package core
