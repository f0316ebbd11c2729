package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"content_hub/internal/domain/models"
	"content_hub/internal/lib/apperr"
	"content_hub/internal/lib/logger/sl"
	"content_hub/internal/query"
	"content_hub/internal/repository"
	"content_hub/internal/services/association"
	"content_hub/internal/services/crud"
	"content_hub/internal/transport/http/dto"
)

const entity = "page"

var pageEntity = crud.Entity[models.PageField]{
	Name:  entity,
	Table: "pages",
	Filters: []models.PageField{
		models.PageID,
		models.PageTitle,
		models.PageSlug,
		models.PageStatus,
		models.PageUserID,
		models.PageTopicID,
	},
	Relations: []string{
		models.RelationAuthor,
		models.RelationTopic,
	},
	Columns: []models.PageField{
		models.PageID,
		models.PageTitle,
		models.PageContent,
		models.PageSlug,
		models.PageStatus,
		models.PageUserID,
		models.PageTopicID,
		models.PageCreatedAt,
		models.PageUpdatedAt,
	},
	PK: models.PageID,
}

type PageService struct {
	log         *slog.Logger
	pages       repository.PageRepository
	topics      repository.Finder[models.Topic]
	defaultSize int
}

func NewPageService(log *slog.Logger, pages repository.PageRepository, topics repository.Finder[models.Topic], defaultSize int) *PageService {
	return &PageService{log: log, pages: pages, topics: topics, defaultSize: defaultSize}
}

func (s *PageService) List(ctx context.Context, p crud.ListParams) (page crud.Page[models.Page], err error) {
	const op = "page_service.List"
	log := s.log.With(slog.String("op", op))
	defer func() { crud.Observe(entity, "list", err) }()

	lq := crud.ListQuery(ctx, log, pageEntity, p, s.pages, s.defaultSize)

	count, rows, err := s.pages.FindAndCountAll(ctx, lq)
	if err != nil {
		return crud.Page[models.Page]{}, crud.Fail(log, entity, err, "failed to list pages")
	}

	return crud.Page[models.Page]{Count: count, Rows: rows}, nil
}

func (s *PageService) Get(ctx context.Context, id uuid.UUID, include string) (page *models.Page, err error) {
	const op = "page_service.Get"
	log := s.log.With(slog.String("op", op), slog.String("page_id", id.String()))
	defer func() { crud.Observe(entity, "get", err) }()

	page, err = s.pages.FindByID(ctx, id, query.ParseIncludeList(include, pageEntity.Relations...)...)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to get page")
	}

	return page, nil
}

func (s *PageService) Create(ctx context.Context, input dto.PageInput) (created *models.Page, err error) {
	const op = "page_service.Create"
	log := s.log.With(slog.String("op", op), slog.String("title", input.Title))
	defer func() { crud.Observe(entity, "create", err) }()

	topic, err := s.resolveTopic(ctx, input.TopicID)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to resolve topic")
	}

	page := withDefaults(input.ToDomain())
	if err := s.pages.Create(ctx, &page); err != nil {
		return nil, crud.Fail(log, entity, err, "failed to create page")
	}
	page.Topic = topic

	log.Info("page created", slog.String("page_id", page.ID.String()))

	return &page, nil
}

func (s *PageService) Update(ctx context.Context, id uuid.UUID, input dto.PageInput) (updated *models.Page, err error) {
	const op = "page_service.Update"
	log := s.log.With(slog.String("op", op), slog.String("page_id", id.String()))
	defer func() { crud.Observe(entity, "update", err) }()

	existing, err := s.pages.FindByID(ctx, id)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to update page")
	}

	if _, err := s.resolveTopic(ctx, input.TopicID); err != nil {
		return nil, crud.Fail(log, entity, err, "failed to resolve topic")
	}

	page := keepStored(input.ToDomain(), *existing)
	page.ID = id

	n, err := s.pages.Update(ctx, &page)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to update page")
	}
	if n == 0 {
		return nil, crud.Fail(log, entity, apperr.NotUpdated(entity), "failed to update page")
	}

	updated, err = s.pages.FindByID(ctx, id, models.RelationTopic)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to reload page")
	}

	return updated, nil
}

func (s *PageService) Delete(ctx context.Context, ids query.OneOrMany[uuid.UUID]) (res crud.DeleteResult, err error) {
	const op = "page_service.Delete"
	log := s.log.With(slog.String("op", op), slog.Int("requested", ids.Len()))
	defer func() { crud.Observe(entity, "delete", err) }()

	res, err = crud.Delete(ctx, entity, ids, s.pages.FindByIDs, pageID, s.pages.Destroy)
	if err != nil {
		log.Warn("page delete failed", sl.Err(err))
		return crud.DeleteResult{}, err
	}

	log.Info("pages deleted", slog.Int64("deleted", res.DeletedCount))

	return res, nil
}

// resolveTopic looks up the topic a page points at. A dangling id is a
// validation error.
func (s *PageService) resolveTopic(ctx context.Context, id *uuid.UUID) (*models.Topic, error) {
	if id == nil {
		return nil, nil
	}

	topics, err := association.Resolve(ctx, query.One(*id), s.topics)
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, apperr.Validation(fmt.Sprintf("topic_id: topic %s does not exist", id), nil)
	}

	return &topics[0], nil
}

func withDefaults(p models.Page) models.Page {
	if p.Slug == "" {
		p.Slug = crud.Slugify(p.Title)
	}
	if p.Status == "" {
		p.Status = models.StatusDraft
	}
	return p
}

func keepStored(p, stored models.Page) models.Page {
	if p.Slug == "" {
		p.Slug = stored.Slug
	}
	if p.Status == "" {
		p.Status = stored.Status
	}
	return p
}

func pageID(p models.Page) uuid.UUID { return p.ID }
