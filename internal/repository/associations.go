package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"content_hub/internal/storage/postgresql"
)

// joinTable is a many-to-many link table between an owner and a target.
type joinTable struct {
	name      string
	ownerCol  string
	targetCol string
}

var (
	postTopics      = joinTable{name: "post_topics", ownerCol: "post_id", targetCol: "topic_id"}
	postCategories  = joinTable{name: "post_categories", ownerCol: "post_id", targetCol: "category_id"}
	topicCategories = joinTable{name: "topic_categories", ownerCol: "topic_id", targetCol: "category_id"}
	topicUsers      = joinTable{name: "topic_users", ownerCol: "topic_id", targetCol: "user_id"}
)

// reversed swaps owner and target so links can be read from the other side.
func (j joinTable) reversed() joinTable {
	return joinTable{name: j.name, ownerCol: j.targetCol, targetCol: j.ownerCol}
}

// add links targets to owner, keeping links that already exist.
func (j joinTable) add(ctx context.Context, q postgresql.Querier, sb sq.StatementBuilderType, owner uuid.UUID, targets []uuid.UUID) error {
	if len(targets) == 0 {
		return nil
	}

	b := sb.Insert(j.name).Columns(j.ownerCol, j.targetCol)
	for _, id := range targets {
		b = b.Values(owner, id)
	}

	if _, err := exec(ctx, q, b.Suffix("ON CONFLICT DO NOTHING")); err != nil {
		return fmt.Errorf("link %s: %w", j.name, err)
	}

	return nil
}

// set replaces every link of owner with targets.
func (j joinTable) set(ctx context.Context, q postgresql.Querier, sb sq.StatementBuilderType, owner uuid.UUID, targets []uuid.UUID) error {
	if _, err := exec(ctx, q, sb.Delete(j.name).Where(sq.Eq{j.ownerCol: owner})); err != nil {
		return fmt.Errorf("unlink %s: %w", j.name, err)
	}

	return j.add(ctx, q, sb, owner, targets)
}

// targetsOf returns the linked target ids of every owner.
func (j joinTable) targetsOf(ctx context.Context, q postgresql.Querier, sb sq.StatementBuilderType, owners []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	out := make(map[uuid.UUID][]uuid.UUID, len(owners))
	if len(owners) == 0 {
		return out, nil
	}

	sql, args, err := sb.Select(j.ownerCol, j.targetCol).
		From(j.name).
		Where(sq.Eq{j.ownerCol: owners}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s lookup: %w", j.name, err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgresql.MapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner, target uuid.UUID
		if err := rows.Scan(&owner, &target); err != nil {
			return nil, fmt.Errorf("scan %s: %w", j.name, err)
		}
		out[owner] = append(out[owner], target)
	}

	return out, rows.Err()
}

// loadLinked fetches the targets linked to each owner through j.
func loadLinked[T any](ctx context.Context, q postgresql.Querier, sb sq.StatementBuilderType, j joinTable, owners []uuid.UUID, target *table[T], idOf func(T) uuid.UUID) (map[uuid.UUID][]T, error) {
	links, err := j.targetsOf(ctx, q, sb, owners)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]struct{})
	for _, targets := range links {
		for _, id := range targets {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	out := make(map[uuid.UUID][]T, len(links))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := target.findAll(ctx, q, sb, sq.Eq{"id": ids}, nil)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]T, len(rows))
	for _, r := range rows {
		byID[idOf(r)] = r
	}

	for owner, targets := range links {
		for _, id := range targets {
			if r, ok := byID[id]; ok {
				out[owner] = append(out[owner], r)
			}
		}
	}

	return out, nil
}

// loadByIDs fetches rows of target keyed by id.
func loadByIDs[T any](ctx context.Context, q postgresql.Querier, sb sq.StatementBuilderType, target *table[T], ids []uuid.UUID, idOf func(T) uuid.UUID) (map[uuid.UUID]T, error) {
	out := make(map[uuid.UUID]T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := target.findAll(ctx, q, sb, sq.Eq{"id": ids}, nil)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[idOf(r)] = r
	}

	return out, nil
}

func has(include []string, relation string) bool {
	for _, r := range include {
		if r == relation {
			return true
		}
	}
	return false
}
