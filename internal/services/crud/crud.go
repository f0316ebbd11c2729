// Package crud holds the pieces every entity service shares: list query
// assembly, bulk delete accounting and error shaping.
package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"content_hub/internal/lib/apperr"
	"content_hub/internal/lib/logger/sl"
	"content_hub/internal/metrics"
	"content_hub/internal/query"
	"content_hub/internal/repository"
)

// ListParams is the already parsed list request of a caller.
type ListParams struct {
	Where   map[string]string
	Include string
	Order   string
	Page    int
	Size    int
	Columns string
}

// Page is one page of rows plus the number of rows matching the filter.
type Page[T any] struct {
	Count int `json:"count"`
	Rows  []T `json:"rows"`
}

// DeleteResult reports how many records a delete removed.
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// Entity lists what callers may filter, include and project on for one table.
type Entity[F query.Field] struct {
	Name      string
	Table     string
	Filters   []F
	Relations []string
	Columns   []F
	PK        F
}

// ListQuery turns p into a repository query. Order columns are checked
// against the live schema; when that check fails the list is left unordered.
func ListQuery[F query.Field](ctx context.Context, log *slog.Logger, e Entity[F], p ListParams, schema query.SchemaIntrospector, defaultSize int) repository.ListQuery {
	order, err := query.ResolveOrder(ctx, p.Order, schema)
	if err != nil {
		log.Warn("order dropped, schema introspection failed", slog.String("order", p.Order), sl.Err(err))
	}

	page := query.Paginate(p.Page, p.Size, defaultSize)

	var columns []string
	if p.Columns != "" {
		columns = query.ParseColumnList(p.Columns, query.Strings(e.Columns...)...)
		if len(columns) > 0 {
			columns = query.WithPrimaryKey(columns, string(e.PK))
		}
	}

	return repository.ListQuery{
		Where:   query.BuildFilter(p.Where, e.Filters...).Where(e.Table),
		Include: query.ParseIncludeList(p.Include, e.Relations...),
		Order:   order,
		Limit:   page.Limit,
		Offset:  page.Offset,
		Columns: columns,
	}
}

// Delete removes the existing records among ids. It fails with NotFound when
// none exists and with NoRowsAffected when they vanished before the delete.
func Delete[K comparable, T any](
	ctx context.Context,
	entity string,
	ids query.OneOrMany[K],
	find func(ctx context.Context, ids []K) ([]T, error),
	key func(T) K,
	destroy func(ctx context.Context, ids []K) (int64, error),
) (DeleteResult, error) {
	list := ids.ToList()

	found, err := find(ctx, list)
	if err != nil {
		return DeleteResult{}, apperr.FromStorage(entity, err, fmt.Sprintf("failed to find %s", entity))
	}
	if len(found) == 0 {
		return DeleteResult{}, apperr.NotFound(entity, len(list) > 1)
	}

	existing := make([]K, len(found))
	for i, r := range found {
		existing[i] = key(r)
	}

	n, err := destroy(ctx, existing)
	if err != nil {
		return DeleteResult{}, apperr.FromStorage(entity, err, fmt.Sprintf("failed to delete %s", entity))
	}
	if n == 0 {
		return DeleteResult{}, apperr.NotDeleted(entity)
	}

	return DeleteResult{DeletedCount: n}, nil
}

// Observe counts a finished service call.
func Observe(entity, operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = apperr.KindOf(err).String()
	}
	metrics.ObserveOperation(entity, operation, outcome)
}

// Fail logs err at a level matching its kind and returns it as an
// *apperr.Error.
func Fail(log *slog.Logger, entity string, err error, fallback string) error {
	appErr := apperr.FromStorage(entity, err, fallback)
	if appErr.Kind == apperr.KindUnknown {
		log.Error(fallback, sl.Err(err))
	} else {
		log.Warn(appErr.Message, sl.Err(err))
	}
	return appErr
}

// IsNotFound reports whether err is a NotFound *apperr.Error.
func IsNotFound(err error) bool {
	var appErr *apperr.Error
	return errors.As(err, &appErr) && appErr.Kind == apperr.KindNotFound
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of other characters into "-".
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
