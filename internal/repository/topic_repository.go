package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"content_hub/internal/domain/models"
	"content_hub/internal/storage/postgresql"
)

type TopicRepo struct {
	base
}

func NewTopicRepository(db connProvider, schema *SchemaCache) *TopicRepo {
	return &TopicRepo{base: newBase(db, schema)}
}

func (r *TopicRepo) Describe(ctx context.Context) (map[string]struct{}, error) {
	return describe(ctx, r.db, r.sb, r.schema, topicsTable.name)
}

func (r *TopicRepo) FindAndCountAll(ctx context.Context, lq ListQuery) (int, []models.Topic, error) {
	const op = "repository.topic_repository.FindAndCountAll"

	q := r.db.Conn(ctx)

	total, topics, err := topicsTable.findAndCountAll(ctx, q, r.sb, lq)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.loadIncludes(ctx, q, topics, lq.Include); err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	return total, topics, nil
}

func (r *TopicRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Topic, error) {
	const op = "repository.topic_repository.FindByIDs"

	if len(ids) == 0 {
		return []models.Topic{}, nil
	}

	topics, err := topicsTable.findAll(ctx, r.db.Conn(ctx), r.sb, sq.Eq{"id": ids}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return topics, nil
}

func (r *TopicRepo) FindByID(ctx context.Context, id uuid.UUID, include ...string) (*models.Topic, error) {
	const op = "repository.topic_repository.FindByID"

	q := r.db.Conn(ctx)

	topic, err := topicsTable.findOne(ctx, q, r.sb, sq.Eq{"id": id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows := []models.Topic{*topic}
	if err := r.loadIncludes(ctx, q, rows, include); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &rows[0], nil
}

func (r *TopicRepo) Create(ctx context.Context, topic *models.Topic) error {
	const op = "repository.topic_repository.Create"

	if err := validateModel(topic); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := topicsTable.insert(ctx, r.db.Conn(ctx), r.sb, topic); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *TopicRepo) Update(ctx context.Context, topic *models.Topic) (int64, error) {
	const op = "repository.topic_repository.Update"

	if err := validateModel(topic); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := topicsTable.update(ctx, r.db.Conn(ctx), r.sb, topic, sq.Eq{"id": topic.ID})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (r *TopicRepo) UpdateImage(ctx context.Context, id uuid.UUID, image string) (int64, error) {
	const op = "repository.topic_repository.UpdateImage"

	n, err := exec(ctx, r.db.Conn(ctx), r.sb.Update(topicsTable.name).
		Set("image", image).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (r *TopicRepo) Destroy(ctx context.Context, ids []uuid.UUID) (int64, error) {
	const op = "repository.topic_repository.Destroy"

	n, err := topicsTable.destroy(ctx, r.db.Conn(ctx), r.sb, sq.Eq{"id": ids})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (r *TopicRepo) AddUsers(ctx context.Context, topicID uuid.UUID, userIDs []uuid.UUID) error {
	return topicUsers.add(ctx, r.db.Conn(ctx), r.sb, topicID, userIDs)
}

func (r *TopicRepo) SetUsers(ctx context.Context, topicID uuid.UUID, userIDs []uuid.UUID) error {
	return topicUsers.set(ctx, r.db.Conn(ctx), r.sb, topicID, userIDs)
}

func (r *TopicRepo) AddCategories(ctx context.Context, topicID uuid.UUID, categoryIDs []uuid.UUID) error {
	return topicCategories.add(ctx, r.db.Conn(ctx), r.sb, topicID, categoryIDs)
}

func (r *TopicRepo) SetCategories(ctx context.Context, topicID uuid.UUID, categoryIDs []uuid.UUID) error {
	return topicCategories.set(ctx, r.db.Conn(ctx), r.sb, topicID, categoryIDs)
}

func (r *TopicRepo) loadIncludes(ctx context.Context, q postgresql.Querier, topics []models.Topic, include []string) error {
	if len(topics) == 0 || len(include) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(topics))
	for i := range topics {
		ids[i] = topics[i].ID
	}

	if has(include, models.RelationUsers) {
		users, err := loadLinked(ctx, q, r.sb, topicUsers, ids, usersTable, userID)
		if err != nil {
			return err
		}
		for i := range topics {
			topics[i].Users = users[topics[i].ID]
		}
	}

	if has(include, models.RelationCategories) {
		categories, err := loadLinked(ctx, q, r.sb, topicCategories, ids, categoriesTable, categoryID)
		if err != nil {
			return err
		}
		for i := range topics {
			topics[i].Categories = categories[topics[i].ID]
		}
	}

	if has(include, models.RelationPosts) {
		posts, err := loadLinked(ctx, q, r.sb, postTopics.reversed(), ids, postsTable, postID)
		if err != nil {
			return err
		}
		for i := range topics {
			topics[i].Posts = posts[topics[i].ID]
		}
	}

	if has(include, models.RelationPage) {
		pages, err := pagesTable.findAll(ctx, q, r.sb, sq.Eq{"topic_id": ids}, nil)
		if err != nil {
			return err
		}
		byTopic := make(map[uuid.UUID]*models.Page, len(pages))
		for i := range pages {
			byTopic[*pages[i].TopicID] = &pages[i]
		}
		for i := range topics {
			topics[i].Page = byTopic[topics[i].ID]
		}
	}

	if has(include, models.RelationParent) {
		parentIDs := make([]uuid.UUID, 0)
		for _, t := range topics {
			if t.ParentID != nil {
				parentIDs = append(parentIDs, *t.ParentID)
			}
		}
		parents, err := loadByIDs(ctx, q, r.sb, topicsTable, parentIDs, topicID)
		if err != nil {
			return err
		}
		for i := range topics {
			if topics[i].ParentID == nil {
				continue
			}
			if p, ok := parents[*topics[i].ParentID]; ok {
				topics[i].Parent = &p
			}
		}
	}

	return nil
}
