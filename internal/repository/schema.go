package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/patrickmn/go-cache"
)

// SchemaCache keeps the column set of each table for a short ttl so order
// resolution does not hit information_schema on every list call.
type SchemaCache struct {
	c *cache.Cache
}

// NewSchemaCache returns a cache with the given ttl; ttl <= 0 disables caching.
func NewSchemaCache(ttl time.Duration) *SchemaCache {
	if ttl <= 0 {
		return &SchemaCache{}
	}
	return &SchemaCache{c: cache.New(ttl, 2*ttl)}
}

func (s *SchemaCache) get(name string) (map[string]struct{}, bool) {
	if s == nil || s.c == nil {
		return nil, false
	}
	v, ok := s.c.Get(name)
	if !ok {
		return nil, false
	}
	return v.(map[string]struct{}), true
}

func (s *SchemaCache) set(name string, cols map[string]struct{}) {
	if s == nil || s.c == nil {
		return
	}
	s.c.SetDefault(name, cols)
}

// describe reads the live column set of tableName, minus hidden columns.
func describe(ctx context.Context, db connProvider, sb sq.StatementBuilderType, sc *SchemaCache, tableName string, hidden ...string) (map[string]struct{}, error) {
	const op = "repository.describe"

	if cols, ok := sc.get(tableName); ok {
		return cols, nil
	}

	sql, args, err := sb.Select("column_name").
		From("information_schema.columns").
		Where(sq.Expr("table_schema = current_schema()")).
		Where(sq.Eq{"table_name": tableName}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	cols := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cols[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%s: table %s has no columns", op, tableName)
	}

	for _, h := range hidden {
		delete(cols, h)
	}

	sc.set(tableName, cols)
	return cols, nil
}
