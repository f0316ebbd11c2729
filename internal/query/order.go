package query

import (
	"context"
	"fmt"
	"strings"
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

type OrderBy struct {
	Column    string
	Direction Direction
}

// SchemaIntrospector reports the column set of one table.
type SchemaIntrospector interface {
	Describe(ctx context.Context) (map[string]struct{}, error)
}

// ResolveOrder parses "column:direction" pairs separated by commas and keeps
// the pairs whose column exists in the live schema. Direction is DESC only for
// a case-insensitive "desc". When the schema cannot be read no ordering is
// returned along with the error; the raw text is never passed through.
func ResolveOrder(ctx context.Context, raw string, schema SchemaIntrospector) ([]OrderBy, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	columns, err := schema.Describe(ctx)
	if err != nil {
		return nil, fmt.Errorf("query.ResolveOrder: %w", err)
	}

	var orders []OrderBy
	for _, pair := range strings.Split(raw, ",") {
		column, dir, _ := strings.Cut(strings.TrimSpace(pair), ":")
		column = strings.TrimSpace(column)
		if _, ok := columns[column]; !ok {
			continue
		}

		direction := Asc
		if strings.EqualFold(strings.TrimSpace(dir), "desc") {
			direction = Desc
		}
		orders = append(orders, OrderBy{Column: column, Direction: direction})
	}

	return orders, nil
}
