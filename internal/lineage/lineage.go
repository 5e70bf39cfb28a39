// Package lineage groups provenance records into version chains per
// logical entity name and orders them with a best-effort semantic-version
// comparator.
package lineage

import (
	"sort"
	"strconv"
	"strings"

	"github.com/idlab-discover/AIBOM/pkg/core"
)

// segment is one dot-separated piece of a version string, numeric when it
// parses as an integer.
type segment struct {
	num   int64
	str   string
	isNum bool
}

// versionKey is the parsed form of a version string. An absent or empty
// version parses to the empty key, which sorts first.
type versionKey []segment

// parseVersion splits a version on "." and parses each segment as an
// integer when possible. Not strict SemVer: pre-release and build metadata
// get no special handling.
func parseVersion(v string) versionKey {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ".")
	key := make(versionKey, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.ParseInt(p, 10, 64); err == nil {
			key = append(key, segment{num: n, isNum: true})
		} else {
			key = append(key, segment{str: p})
		}
	}
	return key
}

// Compare orders two version strings: segments compare element-by-element,
// numerically when both are numeric, as strings otherwise (a numeric
// segment sorts before a non-numeric one). Shorter keys sort first on a
// shared prefix, so "1.9" < "2" < "10".
func Compare(a, b string) int {
	ka, kb := parseVersion(a), parseVersion(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		sa, sb := ka[i], kb[i]
		switch {
		case sa.isNum && sb.isNum:
			if sa.num != sb.num {
				if sa.num < sb.num {
					return -1
				}
				return 1
			}
		case sa.isNum != sb.isNum:
			if sa.isNum {
				return -1
			}
			return 1
		default:
			if sa.str != sb.str {
				if sa.str < sb.str {
					return -1
				}
				return 1
			}
		}
	}
	switch {
	case len(ka) < len(kb):
		return -1
	case len(ka) > len(kb):
		return 1
	default:
		return 0
	}
}

// Chains maps a logical entity name to its version-ordered records.
type Chains map[string][]core.ProvenanceRecord

// Group partitions records by logical name and orders each chain ascending
// by version. The sort is stable: identical version strings preserve
// extraction order.
func Group(records []core.ProvenanceRecord) Chains {
	chains := Chains{}
	for _, rec := range records {
		chains[rec.Name] = append(chains[rec.Name], rec)
	}
	for name := range chains {
		chain := chains[name]
		sort.SliceStable(chain, func(i, j int) bool {
			return Compare(chain[i].Version, chain[j].Version) < 0
		})
	}
	return chains
}

// Names returns the chain names in ascending order, for deterministic
// iteration.
func (c Chains) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
