package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"content_hub/internal/domain/models"
	"content_hub/internal/storage/postgresql"
)

type PostRepo struct {
	base
}

func NewPostRepository(db connProvider, schema *SchemaCache) *PostRepo {
	return &PostRepo{base: newBase(db, schema)}
}

func (r *PostRepo) Describe(ctx context.Context) (map[string]struct{}, error) {
	return describe(ctx, r.db, r.sb, r.schema, postsTable.name)
}

func (r *PostRepo) FindAndCountAll(ctx context.Context, lq ListQuery) (int, []models.Post, error) {
	const op = "repository.post_repository.FindAndCountAll"

	q := r.db.Conn(ctx)

	total, posts, err := postsTable.findAndCountAll(ctx, q, r.sb, lq)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.loadIncludes(ctx, q, posts, lq.Include); err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	return total, posts, nil
}

func (r *PostRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Post, error) {
	const op = "repository.post_repository.FindByIDs"

	if len(ids) == 0 {
		return []models.Post{}, nil
	}

	posts, err := postsTable.findAll(ctx, r.db.Conn(ctx), r.sb, sq.Eq{"id": ids}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

func (r *PostRepo) FindByID(ctx context.Context, id uuid.UUID, include ...string) (*models.Post, error) {
	const op = "repository.post_repository.FindByID"

	q := r.db.Conn(ctx)

	post, err := postsTable.findOne(ctx, q, r.sb, sq.Eq{"id": id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows := []models.Post{*post}
	if err := r.loadIncludes(ctx, q, rows, include); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &rows[0], nil
}

func (r *PostRepo) Create(ctx context.Context, post *models.Post) error {
	const op = "repository.post_repository.Create"

	if err := validateModel(post); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := postsTable.insert(ctx, r.db.Conn(ctx), r.sb, post); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PostRepo) Update(ctx context.Context, post *models.Post) (int64, error) {
	const op = "repository.post_repository.Update"

	if err := validateModel(post); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := postsTable.update(ctx, r.db.Conn(ctx), r.sb, post, sq.Eq{"id": post.ID})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (r *PostRepo) Destroy(ctx context.Context, ids []uuid.UUID) (int64, error) {
	const op = "repository.post_repository.Destroy"

	n, err := postsTable.destroy(ctx, r.db.Conn(ctx), r.sb, sq.Eq{"id": ids})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (r *PostRepo) AddTopics(ctx context.Context, postID uuid.UUID, topicIDs []uuid.UUID) error {
	return postTopics.add(ctx, r.db.Conn(ctx), r.sb, postID, topicIDs)
}

func (r *PostRepo) SetTopics(ctx context.Context, postID uuid.UUID, topicIDs []uuid.UUID) error {
	return postTopics.set(ctx, r.db.Conn(ctx), r.sb, postID, topicIDs)
}

func (r *PostRepo) AddCategories(ctx context.Context, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	return postCategories.add(ctx, r.db.Conn(ctx), r.sb, postID, categoryIDs)
}

func (r *PostRepo) SetCategories(ctx context.Context, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	return postCategories.set(ctx, r.db.Conn(ctx), r.sb, postID, categoryIDs)
}

func (r *PostRepo) loadIncludes(ctx context.Context, q postgresql.Querier, posts []models.Post, include []string) error {
	if len(posts) == 0 || len(include) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	if has(include, models.RelationAuthor) {
		authorIDs := make([]uuid.UUID, len(posts))
		for i := range posts {
			authorIDs[i] = posts[i].UserID
		}
		authors, err := loadByIDs(ctx, q, r.sb, usersTable, authorIDs, userID)
		if err != nil {
			return err
		}
		for i := range posts {
			if a, ok := authors[posts[i].UserID]; ok {
				posts[i].Author = &a
			}
		}
	}

	if has(include, models.RelationTopics) {
		topics, err := loadLinked(ctx, q, r.sb, postTopics, ids, topicsTable, topicID)
		if err != nil {
			return err
		}
		for i := range posts {
			posts[i].Topics = topics[posts[i].ID]
		}
	}

	if has(include, models.RelationCategories) {
		categories, err := loadLinked(ctx, q, r.sb, postCategories, ids, categoriesTable, categoryID)
		if err != nil {
			return err
		}
		for i := range posts {
			posts[i].Categories = categories[posts[i].ID]
		}
	}

	return nil
}
