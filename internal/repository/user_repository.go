package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"content_hub/internal/domain/models"
	"content_hub/internal/storage/postgresql"
)

type UserRepo struct {
	base
}

func NewUserRepository(db connProvider, schema *SchemaCache) *UserRepo {
	return &UserRepo{base: newBase(db, schema)}
}

// Describe hides the password hash and the soft delete marker so neither can
// be used as a sort key.
func (r *UserRepo) Describe(ctx context.Context) (map[string]struct{}, error) {
	return describe(ctx, r.db, r.sb, r.schema, usersTable.name, "password", "deleted_at")
}

func (r *UserRepo) FindAndCountAll(ctx context.Context, lq ListQuery) (int, []models.User, error) {
	const op = "repository.user_repository.FindAndCountAll"

	q := r.db.Conn(ctx)

	total, users, err := usersTable.findAndCountAll(ctx, q, r.sb, lq)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.loadIncludes(ctx, q, users, lq.Include); err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	return total, users, nil
}

func (r *UserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	const op = "repository.user_repository.FindByIDs"

	if len(ids) == 0 {
		return []models.User{}, nil
	}

	users, err := usersTable.findAll(ctx, r.db.Conn(ctx), r.sb, sq.Eq{"id": ids}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID, include ...string) (*models.User, error) {
	const op = "repository.user_repository.FindByID"

	q := r.db.Conn(ctx)

	user, err := usersTable.findOne(ctx, q, r.sb, sq.Eq{"id": id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows := []models.User{*user}
	if err := r.loadIncludes(ctx, q, rows, include); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &rows[0], nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "repository.user_repository.FindByEmail"

	user, err := usersTable.findOne(ctx, r.db.Conn(ctx), r.sb, sq.Eq{"email": email})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	const op = "repository.user_repository.Create"

	if err := validateModel(user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := usersTable.insert(ctx, r.db.Conn(ctx), r.sb, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) (int64, error) {
	const op = "repository.user_repository.Update"

	if err := validateModel(user); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := usersTable.update(ctx, r.db.Conn(ctx), r.sb, user, sq.And{usersTable.scope, sq.Eq{"id": user.ID}})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// Destroy soft deletes users: the rows stay, marked by deleted_at.
func (r *UserRepo) Destroy(ctx context.Context, ids []uuid.UUID) (int64, error) {
	const op = "repository.user_repository.Destroy"

	n, err := exec(ctx, r.db.Conn(ctx), r.sb.Update(usersTable.name).
		Set("deleted_at", sq.Expr("NOW()")).
		Where(usersTable.scope).
		Where(sq.Eq{"id": ids}))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (r *UserRepo) AddTopics(ctx context.Context, userID uuid.UUID, topicIDs []uuid.UUID) error {
	return topicUsers.reversed().add(ctx, r.db.Conn(ctx), r.sb, userID, topicIDs)
}

func (r *UserRepo) SetTopics(ctx context.Context, userID uuid.UUID, topicIDs []uuid.UUID) error {
	return topicUsers.reversed().set(ctx, r.db.Conn(ctx), r.sb, userID, topicIDs)
}

func (r *UserRepo) loadIncludes(ctx context.Context, q postgresql.Querier, users []models.User, include []string) error {
	if len(users) == 0 || !has(include, models.RelationTopics) {
		return nil
	}

	ids := make([]uuid.UUID, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}

	topics, err := loadLinked(ctx, q, r.sb, topicUsers.reversed(), ids, topicsTable, topicID)
	if err != nil {
		return err
	}
	for i := range users {
		users[i].Topics = topics[users[i].ID]
	}

	return nil
}
