package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"content_hub/internal/domain/models"
	"content_hub/internal/lib/apperr"
	"content_hub/internal/lib/logger/sl"
	"content_hub/internal/query"
	"content_hub/internal/repository"
	"content_hub/internal/services/association"
	"content_hub/internal/services/crud"
	"content_hub/internal/transport/http/dto"
)

const entity = "post"

var postEntity = crud.Entity[models.PostField]{
	Name:  entity,
	Table: "posts",
	Filters: []models.PostField{
		models.PostID,
		models.PostTitle,
		models.PostSlug,
		models.PostStatus,
		models.PostUserID,
	},
	Relations: []string{
		models.RelationAuthor,
		models.RelationTopics,
		models.RelationCategories,
	},
	Columns: []models.PostField{
		models.PostID,
		models.PostTitle,
		models.PostExcerpt,
		models.PostContent,
		models.PostSlug,
		models.PostStatus,
		models.PostUserID,
		models.PostCreatedAt,
		models.PostUpdatedAt,
	},
	PK: models.PostID,
}

type PostService struct {
	log         *slog.Logger
	tx          repository.Transactor
	posts       repository.PostRepository
	topics      repository.Finder[models.Topic]
	categories  association.CategorySource
	defaultSize int
}

func NewPostService(
	log *slog.Logger,
	tx repository.Transactor,
	posts repository.PostRepository,
	topics repository.Finder[models.Topic],
	categories association.CategorySource,
	defaultSize int,
) *PostService {
	return &PostService{
		log:         log,
		tx:          tx,
		posts:       posts,
		topics:      topics,
		categories:  categories,
		defaultSize: defaultSize,
	}
}

func (s *PostService) List(ctx context.Context, p crud.ListParams) (page crud.Page[models.Post], err error) {
	const op = "post_service.List"
	log := s.log.With(slog.String("op", op))
	defer func() { crud.Observe(entity, "list", err) }()

	lq := crud.ListQuery(ctx, log, postEntity, p, s.posts, s.defaultSize)

	count, rows, err := s.posts.FindAndCountAll(ctx, lq)
	if err != nil {
		return crud.Page[models.Post]{}, crud.Fail(log, entity, err, "failed to list posts")
	}

	return crud.Page[models.Post]{Count: count, Rows: rows}, nil
}

func (s *PostService) Get(ctx context.Context, id uuid.UUID, include string) (post *models.Post, err error) {
	const op = "post_service.Get"
	log := s.log.With(slog.String("op", op), slog.String("post_id", id.String()))
	defer func() { crud.Observe(entity, "get", err) }()

	post, err = s.posts.FindByID(ctx, id, query.ParseIncludeList(include, postEntity.Relations...)...)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to get post")
	}

	return post, nil
}

// Create stores the post while its topics and categories are resolved, then
// links them. Categories bring their direct children along.
func (s *PostService) Create(ctx context.Context, input dto.PostInput) (created *models.Post, err error) {
	const op = "post_service.Create"
	log := s.log.With(
		slog.String("op", op),
		slog.String("author_id", input.UserID.String()),
	)
	defer func() { crud.Observe(entity, "create", err) }()

	log.Info("creating post", slog.String("title", input.Title))

	post := withDefaults(input.ToDomain())

	var (
		topics     []models.Topic
		categories []models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.posts.Create(gctx, &post) })
	association.Go(g, gctx, input.Topics, s.topics, &topics)
	association.Go(g, gctx, input.Categories, s.categories, &categories)
	if err := g.Wait(); err != nil {
		return nil, crud.Fail(log, entity, err, "failed to create post")
	}

	categories, err = association.ExpandWithChildren(ctx, categories, s.categories)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to expand categories")
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.posts.AddTopics(ctx, post.ID, association.IDs(topics, topicID)); err != nil {
			return err
		}
		return s.posts.AddCategories(ctx, post.ID, association.IDs(categories, categoryID))
	})
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to link post")
	}

	post.Topics = topics
	post.Categories = categories

	log.Info("post created", slog.String("post_id", post.ID.String()))

	return &post, nil
}

// Update replaces the scalar fields and the topic and category links of a
// post in one transaction. Omitted slug and status keep the stored values.
func (s *PostService) Update(ctx context.Context, id uuid.UUID, input dto.PostInput) (updated *models.Post, err error) {
	const op = "post_service.Update"
	log := s.log.With(slog.String("op", op), slog.String("post_id", id.String()))
	defer func() { crud.Observe(entity, "update", err) }()

	var (
		existing   *models.Post
		topics     []models.Topic
		categories []models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.posts.FindByID(gctx, id)
		existing = p
		return err
	})
	association.Go(g, gctx, input.Topics, s.topics, &topics)
	association.Go(g, gctx, input.Categories, s.categories, &categories)
	if err := g.Wait(); err != nil {
		return nil, crud.Fail(log, entity, err, "failed to update post")
	}

	categories, err = association.ExpandWithChildren(ctx, categories, s.categories)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to expand categories")
	}

	post := keepStored(input.ToDomain(), *existing)
	post.ID = id

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.posts.SetTopics(ctx, id, association.IDs(topics, topicID)); err != nil {
			return err
		}
		if err := s.posts.SetCategories(ctx, id, association.IDs(categories, categoryID)); err != nil {
			return err
		}

		n, err := s.posts.Update(ctx, &post)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotUpdated(entity)
		}
		return nil
	})
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to update post")
	}

	updated, err = s.posts.FindByID(ctx, id, models.RelationTopics, models.RelationCategories)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to reload post")
	}

	log.Info("post updated")

	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, ids query.OneOrMany[uuid.UUID]) (res crud.DeleteResult, err error) {
	const op = "post_service.Delete"
	log := s.log.With(slog.String("op", op), slog.Int("requested", ids.Len()))
	defer func() { crud.Observe(entity, "delete", err) }()

	res, err = crud.Delete(ctx, entity, ids, s.posts.FindByIDs, postID, s.posts.Destroy)
	if err != nil {
		log.Warn("post delete failed", sl.Err(err))
		return crud.DeleteResult{}, err
	}

	log.Info("posts deleted", slog.Int64("deleted", res.DeletedCount))

	return res, nil
}

func withDefaults(p models.Post) models.Post {
	if p.Slug == "" {
		p.Slug = crud.Slugify(p.Title)
	}
	if p.Status == "" {
		p.Status = models.StatusDraft
	}
	return p
}

func keepStored(p, stored models.Post) models.Post {
	if p.Slug == "" {
		p.Slug = stored.Slug
	}
	if p.Status == "" {
		p.Status = stored.Status
	}
	return p
}

func topicID(t models.Topic) uuid.UUID { return t.ID }

func categoryID(c models.Category) uuid.UUID { return c.ID }

func postID(p models.Post) uuid.UUID { return p.ID }
