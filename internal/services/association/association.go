// Package association resolves foreign ids into records before they are
// linked, and expands categories to their direct children.
package association

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"content_hub/internal/domain/models"
	"content_hub/internal/query"
	"content_hub/internal/repository"
)

// ChildFinder returns the direct children of a category.
type ChildFinder interface {
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error)
}

// CategorySource resolves category ids and expands them.
type CategorySource interface {
	repository.Finder[models.Category]
	ChildFinder
}

// Resolve fetches every record whose id is in ids with one batched lookup.
// Ids without a record are skipped, so the result may be shorter than ids.
func Resolve[T any](ctx context.Context, ids query.OneOrMany[uuid.UUID], finder repository.Finder[T]) ([]T, error) {
	list := dedupe(ids.ToList())
	if len(list) == 0 {
		return []T{}, nil
	}

	return finder.FindByIDs(ctx, list)
}

// ExpandWithChildren returns categories followed by the direct children of
// each of them. Grandchildren are not followed. Lookups run concurrently;
// the result keeps input order and holds every category once.
func ExpandWithChildren(ctx context.Context, categories []models.Category, finder ChildFinder) ([]models.Category, error) {
	if len(categories) == 0 {
		return categories, nil
	}

	children := make([][]models.Category, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range categories {
		g.Go(func() error {
			found, err := finder.FindChildren(gctx, c.ID)
			if err != nil {
				return err
			}
			children[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.Category, 0, len(categories))
	seen := make(map[uuid.UUID]struct{}, len(categories))
	add := func(c models.Category) {
		if _, ok := seen[c.ID]; ok {
			return
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}

	for _, c := range categories {
		add(c)
	}
	for _, found := range children {
		for _, c := range found {
			add(c)
		}
	}

	return out, nil
}

// IDs collects the primary keys of rows.
func IDs[T any](rows []T, id func(T) uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		out[i] = id(r)
	}
	return out
}

// Go schedules Resolve on g and stores the result in dst once it succeeds.
// dst must not be read before g.Wait returns.
func Go[T any](g *errgroup.Group, ctx context.Context, ids query.OneOrMany[uuid.UUID], finder repository.Finder[T], dst *[]T) {
	g.Go(func() error {
		rows, err := Resolve(ctx, ids, finder)
		if err != nil {
			return err
		}
		*dst = rows
		return nil
	})
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
