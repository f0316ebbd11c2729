package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"content_hub/internal/domain/models"
	"content_hub/internal/lib/apperr"
	"content_hub/internal/lib/logger/sl"
	"content_hub/internal/query"
	"content_hub/internal/services/crud"
	"content_hub/internal/transport/http/dto"
	"content_hub/internal/transport/http/dto/response"
)

// EntityService is the CRUD surface shared by the content services.
type EntityService[T, I any] interface {
	List(ctx context.Context, p crud.ListParams) (crud.Page[T], error)
	Get(ctx context.Context, id uuid.UUID, include string) (*T, error)
	Create(ctx context.Context, input I) (*T, error)
	Update(ctx context.Context, id uuid.UUID, input I) (*T, error)
	Delete(ctx context.Context, ids query.OneOrMany[uuid.UUID]) (crud.DeleteResult, error)
}

type TopicService interface {
	EntityService[models.Topic, dto.TopicInput]
	SetImage(ctx context.Context, id uuid.UUID, file *multipart.FileHeader) (*models.Topic, error)
}

type OptionService interface {
	List(ctx context.Context) ([]models.Option, error)
	Get(ctx context.Context, name string) (*models.Option, error)
	Set(ctx context.Context, name string, value json.RawMessage) (*models.Option, error)
	Delete(ctx context.Context, names query.OneOrMany[string]) (crud.DeleteResult, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Logout(ctx context.Context, claims models.TokenClaims) error
}

// HealthCheck reports whether one backing store is reachable.
type HealthCheck func(ctx context.Context) error

type Routers struct {
	log         *slog.Logger
	maxPageSize int

	AuthService     AuthService
	TopicService    TopicService
	PostService     EntityService[models.Post, dto.PostInput]
	CategoryService EntityService[models.Category, dto.CategoryInput]
	PageService     EntityService[models.Page, dto.PageInput]
	UserService     EntityService[models.User, dto.UserInput]
	OptionService   OptionService
	Health          []HealthCheck
}

type Services struct {
	Auth       AuthService
	Topics     TopicService
	Posts      EntityService[models.Post, dto.PostInput]
	Categories EntityService[models.Category, dto.CategoryInput]
	Pages      EntityService[models.Page, dto.PageInput]
	Users      EntityService[models.User, dto.UserInput]
	Options    OptionService
}

func NewRouter(log *slog.Logger, maxPageSize int, s Services, health ...HealthCheck) *Routers {
	return &Routers{
		log:             log,
		maxPageSize:     maxPageSize,
		AuthService:     s.Auth,
		TopicService:    s.Topics,
		PostService:     s.Posts,
		CategoryService: s.Categories,
		PageService:     s.Pages,
		UserService:     s.Users,
		OptionService:   s.Options,
		Health:          health,
	}
}

var ErrInvalidUUID = errors.New("not valid UUID")

// reserved query keys; every other key is a filter candidate.
var listKeys = map[string]struct{}{
	"page":    {},
	"size":    {},
	"order":   {},
	"include": {},
	"columns": {},
}

// listParams reads page, size, order, include and columns from the query
// string. Remaining single-valued keys become raw filters.
func (r *Routers) listParams(c echo.Context) (crud.ListParams, error) {
	q := c.QueryParams()

	p := crud.ListParams{
		Where:   make(map[string]string),
		Include: q.Get("include"),
		Order:   q.Get("order"),
		Columns: q.Get("columns"),
	}

	var err error
	if p.Page, err = positiveInt(q.Get("page")); err != nil {
		return p, errors.New("page must be a positive integer")
	}
	if p.Size, err = positiveInt(q.Get("size")); err != nil {
		return p, errors.New("size must be a positive integer")
	}
	if r.maxPageSize > 0 && p.Size > r.maxPageSize {
		p.Size = r.maxPageSize
	}

	for key, values := range q {
		if _, ok := listKeys[key]; ok || len(values) == 0 {
			continue
		}
		p.Where[key] = values[0]
	}

	return p, nil
}

func positiveInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}
	return id, nil
}

func (r *Routers) bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

// fail writes err using the status of its kind. Foreign errors become a
// generic 500.
func (r *Routers) fail(c echo.Context, op string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return c.JSON(appErr.Status(), response.ErrorResponseWithDetails(appErr.Kind.String(), appErr.Message))
	}

	r.log.Error("unhandled error", slog.String("op", op), sl.Err(err))

	return c.JSON(http.StatusInternalServerError,
		response.ErrorResponseWithDetails(apperr.KindUnknown.String(), apperr.DefaultMessage))
}

func (r *Routers) badRequest(c echo.Context, op string, err error) error {
	r.log.Debug("bad request", slog.String("op", op), sl.Err(err))
	return c.JSON(http.StatusBadRequest, response.InvalidRequest(err.Error()))
}

// Healthz pings every backing store.
func (r *Routers) Healthz(c echo.Context) error {
	const op = "http.routers.Healthz"

	for _, h := range r.Health {
		if err := h(c.Request().Context()); err != nil {
			r.log.Error("health check failed", slog.String("op", op), sl.Err(err))
			return c.JSON(http.StatusServiceUnavailable, response.ErrorResponseWithDetails("unavailable", "dependency is down"))
		}
	}

	return c.JSON(http.StatusOK, response.OK("ok"))
}
