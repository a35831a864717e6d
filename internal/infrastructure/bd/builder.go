package bd

import (
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"workorder-system/pkg/types"
)

// ApplyListParams is ApplyFilters, ApplySort and ApplyPagination in that order.
func ApplyListParams(builder sq.SelectBuilder, filter types.Filter, columns map[string]string) sq.SelectBuilder {
	builder = ApplyFilters(builder, filter, columns)
	builder = ApplySort(builder, filter, columns)
	return ApplyPagination(builder, filter)
}

// ApplyFilters turns filter[key]=value into equality clauses for keys found in columns.
// A string value holding commas becomes an IN list.
func ApplyFilters(builder sq.SelectBuilder, filter types.Filter, columns map[string]string) sq.SelectBuilder {
	for _, key := range sortedKeys(filter.Filter) {
		col, ok := columns[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{col: filterValue(filter.Filter[key])})
	}
	return builder
}

func ApplySort(builder sq.SelectBuilder, filter types.Filter, columns map[string]string) sq.SelectBuilder {
	for _, key := range sortedKeys(filter.Sort) {
		col, ok := columns[key]
		if !ok {
			continue
		}
		if strings.EqualFold(filter.Sort[key], "desc") {
			builder = builder.OrderBy(col + " DESC")
		} else {
			builder = builder.OrderBy(col + " ASC")
		}
	}
	return builder
}

// ApplyPagination is a no-op unless WithPagination is set.
func ApplyPagination(builder sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	if !filter.WithPagination {
		return builder
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}
	return builder
}

func filterValue(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok || !strings.Contains(s, ",") {
		return v
	}
	parts := make([]string, 0, strings.Count(s, ",")+1)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
