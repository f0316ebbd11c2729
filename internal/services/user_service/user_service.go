package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
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

const entity = "user"

var userEntity = crud.Entity[models.UserField]{
	Name:  entity,
	Table: "users",
	Filters: []models.UserField{
		models.UserID,
		models.UserFirstname,
		models.UserLastname,
		models.UserEmail,
		models.UserStatusCol,
		models.UserRole,
	},
	Relations: []string{models.RelationTopics},
	Columns: []models.UserField{
		models.UserID,
		models.UserFirstname,
		models.UserLastname,
		models.UserEmail,
		models.UserStatusCol,
		models.UserRole,
		models.UserCreatedAt,
		models.UserUpdatedAt,
	},
	PK: models.UserID,
}

type UserService struct {
	log         *slog.Logger
	tx          repository.Transactor
	users       repository.UserRepository
	topics      repository.Finder[models.Topic]
	defaultSize int
}

func NewUserService(
	log *slog.Logger,
	tx repository.Transactor,
	users repository.UserRepository,
	topics repository.Finder[models.Topic],
	defaultSize int,
) *UserService {
	return &UserService{log: log, tx: tx, users: users, topics: topics, defaultSize: defaultSize}
}

func (s *UserService) List(ctx context.Context, p crud.ListParams) (page crud.Page[models.User], err error) {
	const op = "user_service.List"
	log := s.log.With(slog.String("op", op))
	defer func() { crud.Observe(entity, "list", err) }()

	lq := crud.ListQuery(ctx, log, userEntity, p, s.users, s.defaultSize)

	count, rows, err := s.users.FindAndCountAll(ctx, lq)
	if err != nil {
		return crud.Page[models.User]{}, crud.Fail(log, entity, err, "failed to list users")
	}

	return crud.Page[models.User]{Count: count, Rows: rows}, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID, include string) (user *models.User, err error) {
	const op = "user_service.Get"
	log := s.log.With(slog.String("op", op), slog.String("user_id", id.String()))
	defer func() { crud.Observe(entity, "get", err) }()

	user, err = s.users.FindByID(ctx, id, query.ParseIncludeList(include, userEntity.Relations...)...)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to get user")
	}

	return user, nil
}

// Create hashes the password and stores the user while its topics are
// resolved, then links them.
func (s *UserService) Create(ctx context.Context, input dto.UserInput) (created *models.User, err error) {
	const op = "user_service.Create"
	log := s.log.With(slog.String("op", op), slog.String("email", input.Email))
	defer func() { crud.Observe(entity, "create", err) }()

	log.Info("creating user")

	var passHash []byte
	if input.Password != "" {
		passHash, err = bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("failed to generate password hash", sl.Err(err))
			return nil, apperr.Validation("password: cannot be hashed", err)
		}
	}

	user := withDefaults(input.ToDomain(passHash))

	var topics []models.Topic

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.users.Create(gctx, &user) })
	association.Go(g, gctx, input.Topics, s.topics, &topics)
	if err := g.Wait(); err != nil {
		return nil, crud.Fail(log, entity, err, "failed to create user")
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.users.AddTopics(ctx, user.ID, association.IDs(topics, topicID))
	})
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to link user")
	}
	user.Topics = topics

	log.Info("user created", slog.String("user_id", user.ID.String()))

	return &user, nil
}

// Update replaces the user's fields and topic links in one transaction. An
// empty password, status or role keeps the stored value.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, input dto.UserInput) (updated *models.User, err error) {
	const op = "user_service.Update"
	log := s.log.With(slog.String("op", op), slog.String("user_id", id.String()))
	defer func() { crud.Observe(entity, "update", err) }()

	var (
		existing *models.User
		topics   []models.Topic
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.FindByID(gctx, id)
		existing = u
		return err
	})
	association.Go(g, gctx, input.Topics, s.topics, &topics)
	if err := g.Wait(); err != nil {
		return nil, crud.Fail(log, entity, err, "failed to update user")
	}

	passHash := existing.Password
	if input.Password != "" {
		passHash, err = bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("failed to generate password hash", sl.Err(err))
			return nil, apperr.Validation("password: cannot be hashed", err)
		}
	}

	user := keepStored(input.ToDomain(passHash), *existing)
	user.ID = id

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.SetTopics(ctx, id, association.IDs(topics, topicID)); err != nil {
			return err
		}

		n, err := s.users.Update(ctx, &user)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotUpdated(entity)
		}
		return nil
	})
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to update user")
	}

	updated, err = s.users.FindByID(ctx, id, models.RelationTopics)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to reload user")
	}

	log.Info("user updated")

	return updated, nil
}

// Delete soft deletes users; deleted users can no longer log in.
func (s *UserService) Delete(ctx context.Context, ids query.OneOrMany[uuid.UUID]) (res crud.DeleteResult, err error) {
	const op = "user_service.Delete"
	log := s.log.With(slog.String("op", op), slog.Int("requested", ids.Len()))
	defer func() { crud.Observe(entity, "delete", err) }()

	res, err = crud.Delete(ctx, entity, ids, s.users.FindByIDs, userID, s.users.Destroy)
	if err != nil {
		log.Warn("user delete failed", sl.Err(err))
		return crud.DeleteResult{}, err
	}

	log.Info("users deleted", slog.Int64("deleted", res.DeletedCount))

	return res, nil
}

func withDefaults(u models.User) models.User {
	if u.Status == "" {
		u.Status = models.UserPending
	}
	if u.Role == "" {
		u.Role = models.RoleEditor
	}
	return u
}

// keepStored fills the fields an update leaves empty from the stored user.
func keepStored(u, stored models.User) models.User {
	if u.Status == "" {
		u.Status = stored.Status
	}
	if u.Role == "" {
		u.Role = stored.Role
	}
	return u
}

func userID(u models.User) uuid.UUID { return u.ID }

func topicID(t models.Topic) uuid.UUID { return t.ID }
