package datamart

import (
	"sort"
	"strings"
)

// FacetKey identifies one group in a faceted aggregation: the values the
// group's rows share for the requested facet columns, in column order.
// An empty facet list yields the single global group with an empty key.
type FacetKey struct {
	Columns []string `json:"columns"`
	Values  []string `json:"values"`
}

// String renders a stable, human-readable form ("Channel=Web, Issue=Sales").
func (k FacetKey) String() string {
	if len(k.Columns) == 0 {
		return "(all)"
	}
	parts := make([]string, len(k.Columns))
	for i, col := range k.Columns {
		parts[i] = col + "=" + k.Values[i]
	}
	return strings.Join(parts, ", ")
}

// encode produces the map key; unit separator keeps values unambiguous.
func (k FacetKey) encode() string {
	return strings.Join(k.Values, "\x1f")
}

// FacetGroup is one group of model rows sharing facet values.
type FacetGroup struct {
	Key    FacetKey
	Models []ModelSnapshot
}

// GroupByFacets partitions model rows by the cartesian product of the
// requested context-column values. Groups come back sorted by their facet
// values so downstream output is deterministic. An unknown facet column
// is a configuration error.
func GroupByFacets(models ModelTable, facets []string) ([]FacetGroup, error) {
	if len(facets) == 0 {
		return []FacetGroup{{Key: FacetKey{}, Models: models}}, nil
	}
	groups := make(map[string]*FacetGroup)
	for _, row := range models {
		values := make([]string, len(facets))
		for i, col := range facets {
			v, err := row.ContextValue(col)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		key := FacetKey{Columns: facets, Values: values}
		enc := key.encode()
		g, ok := groups[enc]
		if !ok {
			g = &FacetGroup{Key: key}
			groups[enc] = g
		}
		g.Models = append(g.Models, row)
	}
	out := make([]FacetGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.encode() < out[j].Key.encode()
	})
	return out, nil
}
