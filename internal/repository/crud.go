package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/lib/pq"

	"content_hub/internal/query"
	"content_hub/internal/storage"
	"content_hub/internal/storage/postgresql"
)

// ListQuery is one combined filter/include/order/page/projection request.
type ListQuery struct {
	Where   sq.Sqlizer
	Include []string
	Order   []query.OrderBy
	Limit   uint64
	Offset  uint64
	Columns []string
}

type connProvider interface {
	Conn(ctx context.Context) postgresql.Querier
}

// table describes how rows of T map onto a postgres table. fields returns
// pointers in the order of columns; writable lists the columns a caller may
// set on insert and update. scope, when set, restricts every read.
type table[T any] struct {
	name     string
	columns  []string
	writable []string
	index    map[string]int
	fields   func(*T) []any
	scope    sq.Sqlizer
}

func newTable[T any](name string, columns, writable []string, fields func(*T) []any) *table[T] {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return &table[T]{name: name, columns: columns, writable: writable, index: index, fields: fields}
}

func (t *table[T]) scoped(scope sq.Sqlizer) *table[T] {
	t.scope = scope
	return t
}

// base carries what every postgres repository needs.
type base struct {
	db     connProvider
	sb     sq.StatementBuilderType
	schema *SchemaCache
}

func newBase(db connProvider, schema *SchemaCache) base {
	return base{
		db:     db,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		schema: schema,
	}
}

// projection keeps the known requested columns, all columns when none are.
func (t *table[T]) projection(cols []string) []string {
	if len(cols) == 0 {
		return t.columns
	}
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if _, ok := t.index[c]; ok {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return t.columns
	}
	return out
}

func (t *table[T]) targets(row *T, cols []string) []any {
	all := t.fields(row)
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = all[t.index[c]]
	}
	return out
}

func quoted(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = pq.QuoteIdentifier(c)
	}
	return out
}

func orderClauses(order []query.OrderBy) []string {
	out := make([]string, 0, len(order))
	for _, o := range order {
		dir := query.Asc
		if o.Direction == query.Desc {
			dir = query.Desc
		}
		out = append(out, fmt.Sprintf("%s %s", pq.QuoteIdentifier(o.Column), dir))
	}
	return out
}

func where(b sq.SelectBuilder, preds ...sq.Sqlizer) sq.SelectBuilder {
	for _, p := range preds {
		if p != nil {
			b = b.Where(p)
		}
	}
	return b
}

// listBuilders returns the count and page queries for lq.
func (t *table[T]) listBuilders(sb sq.StatementBuilderType, lq ListQuery) (sq.SelectBuilder, sq.SelectBuilder, []string) {
	cols := t.projection(lq.Columns)

	count := where(sb.Select("COUNT(*)").From(t.name), t.scope, lq.Where)

	data := where(sb.Select(quoted(cols)...).From(t.name), t.scope, lq.Where)
	if len(lq.Order) > 0 {
		data = data.OrderBy(orderClauses(lq.Order)...)
	}
	if lq.Limit > 0 {
		data = data.Limit(lq.Limit)
	}
	if lq.Offset > 0 {
		data = data.Offset(lq.Offset)
	}

	return count, data, cols
}

func (t *table[T]) findAndCountAll(ctx context.Context, q postgresql.Querier, sb sq.StatementBuilderType, lq ListQuery) (int, []T, error) {
	countB, dataB, cols := t.listBuilders(sb, lq)

	countSQL, countArgs, err := countB.ToSql()
	if err != nil {
		return 0, nil, fmt.Errorf("build count: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return 0, nil, postgresql.MapError(err)
	}

	rows, err := t.query(ctx, q, dataB, cols)
	if err != nil {
		return 0, nil, err
	}

	return total, rows, nil
}

func (t *table[T]) findAll(ctx context.Context, q postgresql.Querier, sb sq.StatementBuilderType, pred sq.Sqlizer, order []query.OrderBy) ([]T, error) {
	b := where(sb.Select(quoted(t.columns)...).From(t.name), t.scope, pred)
	if len(order) > 0 {
		b = b.OrderBy(orderClauses(order)...)
	}
	return t.query(ctx, q, b, t.columns)
}

func (t *table[T]) findOne(ctx context.Context, q postgresql.Querier, sb sq.StatementBuilderType, pred sq.Sqlizer) (*T, error) {
	rows, err := t.query(ctx, q, where(sb.Select(quoted(t.columns)...).From(t.name), t.scope, pred).Limit(1), t.columns)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}
	return &rows[0], nil
}

func (t *table[T]) query(ctx context.Context, q postgresql.Querier, b sq.SelectBuilder, cols []string) ([]T, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgresql.MapError(err)
	}
	defer rows.Close()

	return t.scan(rows, cols)
}

func (t *table[T]) scan(rows pgx.Rows, cols []string) ([]T, error) {
	out := make([]T, 0)
	for rows.Next() {
		var row T
		if err := rows.Scan(t.targets(&row, cols)...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, postgresql.MapError(err)
	}
	return out, nil
}

func exec(ctx context.Context, q postgresql.Querier, b sq.Sqlizer) (int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build statement: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgresql.MapError(err)
	}

	return tag.RowsAffected(), nil
}

// insert writes row and scans the stored version, defaults included, back into it.
func (t *table[T]) insert(ctx context.Context, q postgresql.Querier, sb sq.StatementBuilderType, row *T) error {
	sql, args, err := sb.Insert(t.name).
		Columns(quoted(t.writable)...).
		Values(t.targets(row, t.writable)...).
		Suffix("RETURNING " + strings.Join(quoted(t.columns), ", ")).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(t.fields(row)...); err != nil {
		return postgresql.MapError(err)
	}

	return nil
}

// update replaces every writable column of the rows matched by pred.
func (t *table[T]) update(ctx context.Context, q postgresql.Querier, sb sq.StatementBuilderType, row *T, pred sq.Sqlizer) (int64, error) {
	b := sb.Update(t.name)
	for i, v := range t.targets(row, t.writable) {
		b = b.Set(pq.QuoteIdentifier(t.writable[i]), v)
	}
	if _, ok := t.index["updated_at"]; ok {
		b = b.Set("updated_at", sq.Expr("NOW()"))
	}

	return exec(ctx, q, b.Where(pred))
}

func (t *table[T]) destroy(ctx context.Context, q postgresql.Querier, sb sq.StatementBuilderType, pred sq.Sqlizer) (int64, error) {
	return exec(ctx, q, sb.Delete(t.name).Where(pred))
}
