// Package query turns untrusted request parameters into whitelisted filter,
// include, projection, order and pagination values.
package query

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Field is a column name type declared per entity, e.g. models.TopicField.
type Field interface {
	~string
}

// Filter holds equality predicates keyed by a closed set of entity columns.
type Filter[F Field] map[F]string

// BuildFilter keeps the raw parameters whose key is one of allowed and whose
// value is non-empty. Unknown keys are dropped silently.
func BuildFilter[F Field](raw map[string]string, allowed ...F) Filter[F] {
	filter := make(Filter[F])

	for _, field := range allowed {
		value, ok := raw[string(field)]
		if !ok || value == "" {
			continue
		}
		filter[field] = value
	}

	return filter
}

// With adds a predicate. Callers use the entity's typed field constants.
func (f Filter[F]) With(field F, value string) Filter[F] {
	f[field] = value
	return f
}

// Where renders the filter as a squirrel predicate qualified by table, nil
// when the filter is empty.
func (f Filter[F]) Where(table string) sq.Sqlizer {
	if len(f) == 0 {
		return nil
	}

	eq := sq.Eq{}
	for field, value := range f {
		col := string(field)
		if table != "" {
			col = table + "." + col
		}
		eq[col] = value
	}
	return eq
}

// ParseIncludeList splits a comma separated relation list and keeps the known
// relations in request order. Duplicates are collapsed.
func ParseIncludeList(raw string, allowed ...string) []string {
	return parseList(raw, allowed)
}

// ParseColumnList is ParseIncludeList for column projections.
func ParseColumnList(raw string, allowed ...string) []string {
	return parseList(raw, allowed)
}

// WithPrimaryKey prepends pk to a non-empty projection that lacks it.
func WithPrimaryKey(columns []string, pk string) []string {
	if len(columns) == 0 {
		return columns
	}
	for _, c := range columns {
		if c == pk {
			return columns
		}
	}
	return append([]string{pk}, columns...)
}

func parseList(raw string, allowed []string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	known := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		known[a] = struct{}{}
	}

	var (
		out  []string
		seen = make(map[string]struct{})
	)
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if _, ok := known[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	return out
}

// Strings converts typed field constants for ParseColumnList.
func Strings[F Field](fields ...F) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
