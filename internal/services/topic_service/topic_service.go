package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"content_hub/internal/domain/models"
	"content_hub/internal/lib/apperr"
	"content_hub/internal/lib/logger/sl"
	"content_hub/internal/query"
	"content_hub/internal/repository"
	"content_hub/internal/services/association"
	"content_hub/internal/services/crud"
	"content_hub/internal/storage"
	"content_hub/internal/transport/http/dto"
)

const entity = "topic"

var topicEntity = crud.Entity[models.TopicField]{
	Name:  entity,
	Table: "topics",
	Filters: []models.TopicField{
		models.TopicID,
		models.TopicTitle,
		models.TopicSlug,
		models.TopicStatusField,
		models.TopicContentKind,
		models.TopicParentID,
	},
	Relations: []string{
		models.RelationUsers,
		models.RelationPosts,
		models.RelationCategories,
		models.RelationPage,
		models.RelationParent,
	},
	Columns: []models.TopicField{
		models.TopicID,
		models.TopicTitle,
		models.TopicSlug,
		models.TopicImage,
		models.TopicDescription,
		models.TopicStatusField,
		models.TopicContentKind,
		models.TopicParentID,
		models.TopicCreatedAt,
		models.TopicUpdatedAt,
	},
	PK: models.TopicID,
}

// ImageStorage stores uploaded topic images.
type ImageStorage interface {
	Save(ctx context.Context, file *multipart.FileHeader, subPath string) (string, int64, error)
	Delete(ctx context.Context, filePath string) error
}

type TopicService struct {
	log         *slog.Logger
	tx          repository.Transactor
	topics      repository.TopicRepository
	users       repository.Finder[models.User]
	categories  association.CategorySource
	images      ImageStorage
	defaultSize int
}

func NewTopicService(
	log *slog.Logger,
	tx repository.Transactor,
	topics repository.TopicRepository,
	users repository.Finder[models.User],
	categories association.CategorySource,
	images ImageStorage,
	defaultSize int,
) *TopicService {
	return &TopicService{
		log:         log,
		tx:          tx,
		topics:      topics,
		users:       users,
		categories:  categories,
		images:      images,
		defaultSize: defaultSize,
	}
}

func (s *TopicService) List(ctx context.Context, p crud.ListParams) (page crud.Page[models.Topic], err error) {
	const op = "topic_service.List"
	log := s.log.With(slog.String("op", op))
	defer func() { crud.Observe(entity, "list", err) }()

	lq := crud.ListQuery(ctx, log, topicEntity, p, s.topics, s.defaultSize)

	count, rows, err := s.topics.FindAndCountAll(ctx, lq)
	if err != nil {
		return crud.Page[models.Topic]{}, crud.Fail(log, entity, err, "failed to list topics")
	}

	return crud.Page[models.Topic]{Count: count, Rows: rows}, nil
}

func (s *TopicService) Get(ctx context.Context, id uuid.UUID, include string) (topic *models.Topic, err error) {
	const op = "topic_service.Get"
	log := s.log.With(slog.String("op", op), slog.String("topic_id", id.String()))
	defer func() { crud.Observe(entity, "get", err) }()

	topic, err = s.topics.FindByID(ctx, id, query.ParseIncludeList(include, topicEntity.Relations...)...)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to get topic")
	}

	return topic, nil
}

// Create stores the topic while its users and categories are resolved, then
// links them. Categories bring their direct children along.
func (s *TopicService) Create(ctx context.Context, input dto.TopicInput) (created *models.Topic, err error) {
	const op = "topic_service.Create"
	log := s.log.With(slog.String("op", op), slog.String("title", input.Title))
	defer func() { crud.Observe(entity, "create", err) }()

	log.Info("creating topic")

	topic := withDefaults(input.ToDomain())

	var (
		users      []models.User
		categories []models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.topics.Create(gctx, &topic) })
	association.Go(g, gctx, input.Users, s.users, &users)
	association.Go(g, gctx, input.Categories, s.categories, &categories)
	if err := g.Wait(); err != nil {
		return nil, crud.Fail(log, entity, err, "failed to create topic")
	}

	categories, err = association.ExpandWithChildren(ctx, categories, s.categories)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to expand categories")
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.topics.AddUsers(ctx, topic.ID, association.IDs(users, userID)); err != nil {
			return err
		}
		return s.topics.AddCategories(ctx, topic.ID, association.IDs(categories, categoryID))
	})
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to link topic")
	}

	topic.Users = users
	topic.Categories = categories

	log.Info("topic created", slog.String("topic_id", topic.ID.String()))

	return &topic, nil
}

// Update replaces the scalar fields and the user and category links of a
// topic in one transaction. Omitted slug, status, content and image keep the
// stored values.
func (s *TopicService) Update(ctx context.Context, id uuid.UUID, input dto.TopicInput) (updated *models.Topic, err error) {
	const op = "topic_service.Update"
	log := s.log.With(slog.String("op", op), slog.String("topic_id", id.String()))
	defer func() { crud.Observe(entity, "update", err) }()

	if input.ParentID != nil && *input.ParentID == id {
		return nil, apperr.Validation("topic cannot be its own parent", nil)
	}

	var (
		existing   *models.Topic
		users      []models.User
		categories []models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.topics.FindByID(gctx, id)
		existing = t
		return err
	})
	association.Go(g, gctx, input.Users, s.users, &users)
	association.Go(g, gctx, input.Categories, s.categories, &categories)
	if err := g.Wait(); err != nil {
		return nil, crud.Fail(log, entity, err, "failed to update topic")
	}

	categories, err = association.ExpandWithChildren(ctx, categories, s.categories)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to expand categories")
	}

	topic := keepStored(input.ToDomain(), *existing)
	topic.ID = id

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.topics.SetUsers(ctx, id, association.IDs(users, userID)); err != nil {
			return err
		}
		if err := s.topics.SetCategories(ctx, id, association.IDs(categories, categoryID)); err != nil {
			return err
		}

		n, err := s.topics.Update(ctx, &topic)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotUpdated(entity)
		}
		return nil
	})
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to update topic")
	}

	updated, err = s.topics.FindByID(ctx, id, models.RelationUsers, models.RelationCategories)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to reload topic")
	}

	log.Info("topic updated")

	return updated, nil
}

func (s *TopicService) Delete(ctx context.Context, ids query.OneOrMany[uuid.UUID]) (res crud.DeleteResult, err error) {
	const op = "topic_service.Delete"
	log := s.log.With(slog.String("op", op), slog.Int("requested", ids.Len()))
	defer func() { crud.Observe(entity, "delete", err) }()

	res, err = crud.Delete(ctx, entity, ids, s.topics.FindByIDs, topicID, s.topics.Destroy)
	if err != nil {
		log.Warn("topic delete failed", sl.Err(err))
		return crud.DeleteResult{}, err
	}

	log.Info("topics deleted", slog.Int64("deleted", res.DeletedCount))

	return res, nil
}

// SetImage stores an uploaded image and points the topic at it. The stored
// file is removed again when the topic cannot be updated.
func (s *TopicService) SetImage(ctx context.Context, id uuid.UUID, file *multipart.FileHeader) (topic *models.Topic, err error) {
	const op = "topic_service.SetImage"
	log := s.log.With(slog.String("op", op), slog.String("topic_id", id.String()))
	defer func() { crud.Observe(entity, "set_image", err) }()

	if _, err := s.topics.FindByID(ctx, id); err != nil {
		return nil, crud.Fail(log, entity, err, "failed to get topic")
	}

	path, _, err := s.images.Save(ctx, file, fmt.Sprintf("topics/%s", id))
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrInvalidFileType) {
			err = apperr.Validation("image: "+err.Error(), err)
		}
		return nil, crud.Fail(log, entity, err, "failed to store image")
	}

	n, err := s.topics.UpdateImage(ctx, id, path)
	if err == nil && n == 0 {
		err = apperr.NotUpdated(entity)
	}
	if err != nil {
		if rmErr := s.images.Delete(ctx, path); rmErr != nil {
			log.Warn("failed to remove orphaned image", slog.String("path", path), sl.Err(rmErr))
		}
		return nil, crud.Fail(log, entity, err, "failed to update topic image")
	}

	topic, err = s.topics.FindByID(ctx, id)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to reload topic")
	}

	log.Info("topic image stored", slog.String("path", path))

	return topic, nil
}

// withDefaults fills the fields a caller may omit.
func withDefaults(t models.Topic) models.Topic {
	if t.Slug == "" {
		t.Slug = crud.Slugify(t.Title)
	}
	if t.Status == "" {
		t.Status = models.TopicActive
	}
	if t.Content == "" {
		t.Content = models.TopicContentPosts
	}
	return t
}

// keepStored fills the fields an update leaves empty from the stored topic.
func keepStored(t, stored models.Topic) models.Topic {
	if t.Slug == "" {
		t.Slug = stored.Slug
	}
	if t.Status == "" {
		t.Status = stored.Status
	}
	if t.Content == "" {
		t.Content = stored.Content
	}
	if t.Image == nil {
		t.Image = stored.Image
	}
	return t
}

func userID(u models.User) uuid.UUID { return u.ID }

func categoryID(c models.Category) uuid.UUID { return c.ID }

func topicID(t models.Topic) uuid.UUID { return t.ID }
