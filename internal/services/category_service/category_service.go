package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"content_hub/internal/domain/models"
	"content_hub/internal/lib/apperr"
	"content_hub/internal/lib/logger/sl"
	"content_hub/internal/query"
	"content_hub/internal/repository"
	"content_hub/internal/services/crud"
	"content_hub/internal/transport/http/dto"
)

const entity = "category"

var categoryEntity = crud.Entity[models.CategoryField]{
	Name:  entity,
	Table: "categories",
	Filters: []models.CategoryField{
		models.CategoryID,
		models.CategoryName,
		models.CategorySlug,
		models.CategoryParentID,
	},
	Relations: []string{
		models.RelationParent,
		models.RelationChildren,
		models.RelationTopics,
		models.RelationPosts,
	},
	Columns: []models.CategoryField{
		models.CategoryID,
		models.CategoryName,
		models.CategorySlug,
		models.CategoryParentID,
		models.CategoryCreatedAt,
		models.CategoryUpdatedAt,
	},
	PK: models.CategoryID,
}

type CategoryService struct {
	log         *slog.Logger
	categories  repository.CategoryRepository
	defaultSize int
}

func NewCategoryService(log *slog.Logger, categories repository.CategoryRepository, defaultSize int) *CategoryService {
	return &CategoryService{log: log, categories: categories, defaultSize: defaultSize}
}

func (s *CategoryService) List(ctx context.Context, p crud.ListParams) (page crud.Page[models.Category], err error) {
	const op = "category_service.List"
	log := s.log.With(slog.String("op", op))
	defer func() { crud.Observe(entity, "list", err) }()

	lq := crud.ListQuery(ctx, log, categoryEntity, p, s.categories, s.defaultSize)

	count, rows, err := s.categories.FindAndCountAll(ctx, lq)
	if err != nil {
		return crud.Page[models.Category]{}, crud.Fail(log, entity, err, "failed to list categories")
	}

	return crud.Page[models.Category]{Count: count, Rows: rows}, nil
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID, include string) (category *models.Category, err error) {
	const op = "category_service.Get"
	log := s.log.With(slog.String("op", op), slog.String("category_id", id.String()))
	defer func() { crud.Observe(entity, "get", err) }()

	category, err = s.categories.FindByID(ctx, id, query.ParseIncludeList(include, categoryEntity.Relations...)...)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to get category")
	}

	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, input dto.CategoryInput) (created *models.Category, err error) {
	const op = "category_service.Create"
	log := s.log.With(slog.String("op", op), slog.String("name", input.Name))
	defer func() { crud.Observe(entity, "create", err) }()

	category := withDefaults(input.ToDomain())

	if err := s.categories.Create(ctx, &category); err != nil {
		return nil, crud.Fail(log, entity, err, "failed to create category")
	}

	log.Info("category created", slog.String("category_id", category.ID.String()))

	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, input dto.CategoryInput) (updated *models.Category, err error) {
	const op = "category_service.Update"
	log := s.log.With(slog.String("op", op), slog.String("category_id", id.String()))
	defer func() { crud.Observe(entity, "update", err) }()

	if input.ParentID != nil && *input.ParentID == id {
		return nil, apperr.Validation("category cannot be its own parent", nil)
	}

	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return nil, crud.Fail(log, entity, err, "failed to update category")
	}

	category := withDefaults(input.ToDomain())
	category.ID = id

	n, err := s.categories.Update(ctx, &category)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to update category")
	}
	if n == 0 {
		return nil, crud.Fail(log, entity, apperr.NotUpdated(entity), "failed to update category")
	}

	updated, err = s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to reload category")
	}

	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, ids query.OneOrMany[uuid.UUID]) (res crud.DeleteResult, err error) {
	const op = "category_service.Delete"
	log := s.log.With(slog.String("op", op), slog.Int("requested", ids.Len()))
	defer func() { crud.Observe(entity, "delete", err) }()

	res, err = crud.Delete(ctx, entity, ids, s.categories.FindByIDs, categoryID, s.categories.Destroy)
	if err != nil {
		log.Warn("category delete failed", sl.Err(err))
		return crud.DeleteResult{}, err
	}

	log.Info("categories deleted", slog.Int64("deleted", res.DeletedCount))

	return res, nil
}

func withDefaults(c models.Category) models.Category {
	if c.Slug == "" {
		c.Slug = crud.Slugify(c.Name)
	}
	return c
}

func categoryID(c models.Category) uuid.UUID { return c.ID }
