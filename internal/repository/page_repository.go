package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"content_hub/internal/domain/models"
	"content_hub/internal/storage/postgresql"
)

type PageRepo struct {
	base
}

func NewPageRepository(db connProvider, schema *SchemaCache) *PageRepo {
	return &PageRepo{base: newBase(db, schema)}
}

func (r *PageRepo) Describe(ctx context.Context) (map[string]struct{}, error) {
	return describe(ctx, r.db, r.sb, r.schema, pagesTable.name)
}

func (r *PageRepo) FindAndCountAll(ctx context.Context, lq ListQuery) (int, []models.Page, error) {
	const op = "repository.page_repository.FindAndCountAll"

	q := r.db.Conn(ctx)

	total, pages, err := pagesTable.findAndCountAll(ctx, q, r.sb, lq)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.loadIncludes(ctx, q, pages, lq.Include); err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	return total, pages, nil
}

func (r *PageRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Page, error) {
	const op = "repository.page_repository.FindByIDs"

	if len(ids) == 0 {
		return []models.Page{}, nil
	}

	pages, err := pagesTable.findAll(ctx, r.db.Conn(ctx), r.sb, sq.Eq{"id": ids}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pages, nil
}

func (r *PageRepo) FindByID(ctx context.Context, id uuid.UUID, include ...string) (*models.Page, error) {
	const op = "repository.page_repository.FindByID"

	q := r.db.Conn(ctx)

	page, err := pagesTable.findOne(ctx, q, r.sb, sq.Eq{"id": id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows := []models.Page{*page}
	if err := r.loadIncludes(ctx, q, rows, include); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &rows[0], nil
}

func (r *PageRepo) Create(ctx context.Context, page *models.Page) error {
	const op = "repository.page_repository.Create"

	if err := validateModel(page); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := pagesTable.insert(ctx, r.db.Conn(ctx), r.sb, page); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PageRepo) Update(ctx context.Context, page *models.Page) (int64, error) {
	const op = "repository.page_repository.Update"

	if err := validateModel(page); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := pagesTable.update(ctx, r.db.Conn(ctx), r.sb, page, sq.Eq{"id": page.ID})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (r *PageRepo) Destroy(ctx context.Context, ids []uuid.UUID) (int64, error) {
	const op = "repository.page_repository.Destroy"

	n, err := pagesTable.destroy(ctx, r.db.Conn(ctx), r.sb, sq.Eq{"id": ids})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (r *PageRepo) loadIncludes(ctx context.Context, q postgresql.Querier, pages []models.Page, include []string) error {
	if len(pages) == 0 || len(include) == 0 {
		return nil
	}

	if has(include, models.RelationAuthor) {
		authorIDs := make([]uuid.UUID, len(pages))
		for i := range pages {
			authorIDs[i] = pages[i].UserID
		}
		authors, err := loadByIDs(ctx, q, r.sb, usersTable, authorIDs, userID)
		if err != nil {
			return err
		}
		for i := range pages {
			if a, ok := authors[pages[i].UserID]; ok {
				pages[i].Author = &a
			}
		}
	}

	if has(include, models.RelationTopic) {
		topicIDs := make([]uuid.UUID, 0)
		for _, p := range pages {
			if p.TopicID != nil {
				topicIDs = append(topicIDs, *p.TopicID)
			}
		}
		topics, err := loadByIDs(ctx, q, r.sb, topicsTable, topicIDs, topicID)
		if err != nil {
			return err
		}
		for i := range pages {
			if pages[i].TopicID == nil {
				continue
			}
			if t, ok := topics[*pages[i].TopicID]; ok {
				pages[i].Topic = &t
			}
		}
	}

	return nil
}
