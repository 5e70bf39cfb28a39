package extract

import (
	"sort"

	"github.com/idlab-discover/AIBOM/pkg/core"
)

// fieldAliases maps a logical field to the historical property keys it may
// be stored under, in fixed priority order. The first alias with a
// non-empty value wins.
var fieldAliases = map[string][]string{
	"name":    {"name", "display_name"},
	"version": {"version", "revision"},
	"purl":    {"purl", "package_url"},
}

// lookup finds a property by key, declared typed properties taking
// precedence over free-form custom ones.
func lookup(a core.Artifact, key string) (core.PropertyValue, bool) {
	if v, ok := a.Properties[key]; ok {
		return v, true
	}
	if v, ok := a.CustomProperties[key]; ok {
		return v, true
	}
	return core.PropertyValue{}, false
}

// fieldValue resolves a logical field through its alias chain. Empty and
// zero-default values are skipped.
func fieldValue(a core.Artifact, field string) string {
	aliases, ok := fieldAliases[field]
	if !ok {
		aliases = []string{field}
	}
	for _, key := range aliases {
		if v, ok := lookup(a, key); ok && !v.IsZero() {
			return v.String()
		}
	}
	return ""
}

// entityName resolves the display name for an artifact: property aliases
// first, then the store-level artifact name, then "unknown".
func entityName(a core.Artifact) string {
	if name := fieldValue(a, "name"); name != "" {
		return name
	}
	if a.Name != "" {
		return a.Name
	}
	return "unknown"
}

// flattenProperties renders the remaining non-empty properties as strings,
// declared values winning over custom ones, excluding the given keys.
func flattenProperties(a core.Artifact, exclude ...string) map[string]string {
	skip := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		skip[k] = struct{}{}
	}

	out := map[string]string{}
	for k, v := range a.CustomProperties {
		if _, ok := skip[k]; ok || v.IsZero() {
			continue
		}
		out[k] = v.String()
	}
	for k, v := range a.Properties {
		if _, ok := skip[k]; ok || v.IsZero() {
			continue
		}
		out[k] = v.String()
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// sortedInt64s returns the keys of a set in ascending order, for
// deterministic traversal.
func sortedInt64s(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// sortedStrings returns the members of a string set in ascending order.
func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
