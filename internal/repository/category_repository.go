package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"content_hub/internal/domain/models"
	"content_hub/internal/query"
	"content_hub/internal/storage/postgresql"
)

type CategoryRepo struct {
	base
}

func NewCategoryRepository(db connProvider, schema *SchemaCache) *CategoryRepo {
	return &CategoryRepo{base: newBase(db, schema)}
}

func (r *CategoryRepo) Describe(ctx context.Context) (map[string]struct{}, error) {
	return describe(ctx, r.db, r.sb, r.schema, categoriesTable.name)
}

func (r *CategoryRepo) FindAndCountAll(ctx context.Context, lq ListQuery) (int, []models.Category, error) {
	const op = "repository.category_repository.FindAndCountAll"

	q := r.db.Conn(ctx)

	total, categories, err := categoriesTable.findAndCountAll(ctx, q, r.sb, lq)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.loadIncludes(ctx, q, categories, lq.Include); err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	return total, categories, nil
}

func (r *CategoryRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	const op = "repository.category_repository.FindByIDs"

	if len(ids) == 0 {
		return []models.Category{}, nil
	}

	categories, err := categoriesTable.findAll(ctx, r.db.Conn(ctx), r.sb, sq.Eq{"id": ids}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return categories, nil
}

func (r *CategoryRepo) FindByID(ctx context.Context, id uuid.UUID, include ...string) (*models.Category, error) {
	const op = "repository.category_repository.FindByID"

	q := r.db.Conn(ctx)

	category, err := categoriesTable.findOne(ctx, q, r.sb, sq.Eq{"id": id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows := []models.Category{*category}
	if err := r.loadIncludes(ctx, q, rows, include); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &rows[0], nil
}

// FindChildren returns the direct children of parentID.
func (r *CategoryRepo) FindChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	const op = "repository.category_repository.FindChildren"

	children, err := categoriesTable.findAll(ctx, r.db.Conn(ctx), r.sb,
		sq.Eq{"parent_id": parentID},
		[]query.OrderBy{{Column: "created_at", Direction: query.Asc}},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return children, nil
}

func (r *CategoryRepo) Create(ctx context.Context, category *models.Category) error {
	const op = "repository.category_repository.Create"

	if err := validateModel(category); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := categoriesTable.insert(ctx, r.db.Conn(ctx), r.sb, category); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *CategoryRepo) Update(ctx context.Context, category *models.Category) (int64, error) {
	const op = "repository.category_repository.Update"

	if err := validateModel(category); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := categoriesTable.update(ctx, r.db.Conn(ctx), r.sb, category, sq.Eq{"id": category.ID})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (r *CategoryRepo) Destroy(ctx context.Context, ids []uuid.UUID) (int64, error) {
	const op = "repository.category_repository.Destroy"

	n, err := categoriesTable.destroy(ctx, r.db.Conn(ctx), r.sb, sq.Eq{"id": ids})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (r *CategoryRepo) loadIncludes(ctx context.Context, q postgresql.Querier, categories []models.Category, include []string) error {
	if len(categories) == 0 || len(include) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(categories))
	for i := range categories {
		ids[i] = categories[i].ID
	}

	if has(include, models.RelationParent) {
		parentIDs := make([]uuid.UUID, 0)
		for _, c := range categories {
			if c.ParentID != nil {
				parentIDs = append(parentIDs, *c.ParentID)
			}
		}
		parents, err := loadByIDs(ctx, q, r.sb, categoriesTable, parentIDs, categoryID)
		if err != nil {
			return err
		}
		for i := range categories {
			if categories[i].ParentID == nil {
				continue
			}
			if p, ok := parents[*categories[i].ParentID]; ok {
				categories[i].Parent = &p
			}
		}
	}

	if has(include, models.RelationChildren) {
		children, err := categoriesTable.findAll(ctx, q, r.sb, sq.Eq{"parent_id": ids}, nil)
		if err != nil {
			return err
		}
		byParent := make(map[uuid.UUID][]models.Category)
		for _, c := range children {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
		for i := range categories {
			categories[i].Children = byParent[categories[i].ID]
		}
	}

	if has(include, models.RelationTopics) {
		topics, err := loadLinked(ctx, q, r.sb, topicCategories.reversed(), ids, topicsTable, topicID)
		if err != nil {
			return err
		}
		for i := range categories {
			categories[i].Topics = topics[categories[i].ID]
		}
	}

	if has(include, models.RelationPosts) {
		posts, err := loadLinked(ctx, q, r.sb, postCategories.reversed(), ids, postsTable, postID)
		if err != nil {
			return err
		}
		for i := range categories {
			categories[i].Posts = posts[categories[i].ID]
		}
	}

	return nil
}
