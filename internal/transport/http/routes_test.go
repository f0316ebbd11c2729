package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"content_hub/internal/domain/models"
	"content_hub/internal/lib/apperr"
	"content_hub/internal/query"
	"content_hub/internal/services/auth"
	"content_hub/internal/services/crud"
	"content_hub/internal/transport/http/dto"
)

type mockEntity[T, I any] struct {
	mock.Mock
}

func (m *mockEntity[T, I]) List(ctx context.Context, p crud.ListParams) (crud.Page[T], error) {
	args := m.Called(ctx, p)
	return args.Get(0).(crud.Page[T]), args.Error(1)
}

func (m *mockEntity[T, I]) Get(ctx context.Context, id uuid.UUID, include string) (*T, error) {
	args := m.Called(ctx, id, include)
	row, _ := args.Get(0).(*T)
	return row, args.Error(1)
}

func (m *mockEntity[T, I]) Create(ctx context.Context, input I) (*T, error) {
	args := m.Called(ctx, input)
	row, _ := args.Get(0).(*T)
	return row, args.Error(1)
}

func (m *mockEntity[T, I]) Update(ctx context.Context, id uuid.UUID, input I) (*T, error) {
	args := m.Called(ctx, id, input)
	row, _ := args.Get(0).(*T)
	return row, args.Error(1)
}

func (m *mockEntity[T, I]) Delete(ctx context.Context, ids query.OneOrMany[uuid.UUID]) (crud.DeleteResult, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(crud.DeleteResult), args.Error(1)
}

type mockTopics struct {
	mockEntity[models.Topic, dto.TopicInput]
}

func (m *mockTopics) SetImage(ctx context.Context, id uuid.UUID, file *multipart.FileHeader) (*models.Topic, error) {
	args := m.Called(ctx, id, file)
	row, _ := args.Get(0).(*models.Topic)
	return row, args.Error(1)
}

type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	args := m.Called(ctx, email, password)
	pair, _ := args.Get(0).(*models.TokenPair)
	return pair, args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, claims models.TokenClaims) error {
	return m.Called(ctx, claims).Error(0)
}

// Authenticate accepts the tokens "admin" and "editor".
func (m *mockAuth) Authenticate(_ context.Context, token string) (models.TokenClaims, error) {
	switch token {
	case "admin":
		return models.TokenClaims{UserID: adminID, Role: models.RoleAdmin, TokenID: "admin-jti"}, nil
	case "editor":
		return models.TokenClaims{UserID: editorID, Role: models.RoleEditor, TokenID: "editor-jti"}, nil
	}
	return models.TokenClaims{}, errors.New("invalid token")
}

type testValidator struct {
	v *validator.Validate
}

func (tv testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

var (
	adminID  = uuid.New()
	editorID = uuid.New()
)

type server struct {
	e      *echo.Echo
	auth   *mockAuth
	topics *mockTopics
	posts  *mockEntity[models.Post, dto.PostInput]
	users  *mockEntity[models.User, dto.UserInput]
}

func newServer(health ...HealthCheck) *server {
	s := &server{
		e:      echo.New(),
		auth:   new(mockAuth),
		topics: new(mockTopics),
		posts:  new(mockEntity[models.Post, dto.PostInput]),
		users:  new(mockEntity[models.User, dto.UserInput]),
	}
	s.e.Validator = testValidator{v: validator.New()}

	r := NewRouter(slog.Default(), 100, Services{
		Auth:       s.auth,
		Topics:     s.topics,
		Posts:      s.posts,
		Categories: new(mockEntity[models.Category, dto.CategoryInput]),
		Pages:      new(mockEntity[models.Page, dto.PageInput]),
		Users:      s.users,
	}, health...)
	r.Register(s.e, s.auth)

	return s
}

func (s *server) do(method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestListTopics_Params(t *testing.T) {
	s := newServer()

	s.topics.On("List", mock.Anything, mock.MatchedBy(func(p crud.ListParams) bool {
		return p.Page == 2 &&
			p.Size == 100 &&
			p.Order == "title desc" &&
			p.Include == "users" &&
			len(p.Where) == 1 &&
			p.Where["status"] == "active"
	})).Return(crud.Page[models.Topic]{Count: 1, Rows: []models.Topic{{Title: "News"}}}, nil).Once()

	rec := s.do(http.MethodGet, "/api/v1/topics?page=2&size=500&order=title+desc&include=users&status=active", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 1, data["count"])
	s.topics.AssertExpectations(t)
}

func TestListTopics_EmptyPage(t *testing.T) {
	s := newServer()
	s.topics.On("List", mock.Anything, mock.Anything).Return(crud.Page[models.Topic]{}, nil).Once()

	rec := s.do(http.MethodGet, "/api/v1/topics", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","data":{"count":0,"rows":[]}}`, rec.Body.String())
}

func TestListTopics_BadPaging(t *testing.T) {
	for _, target := range []string{
		"/api/v1/topics?page=0",
		"/api/v1/topics?size=-1",
		"/api/v1/topics?page=abc",
	} {
		t.Run(target, func(t *testing.T) {
			s := newServer()

			rec := s.do(http.MethodGet, target, "", "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			s.topics.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}
}

func TestGetTopic(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		target     string
		setup      func(s *server)
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid uuid",
			target:     "/api/v1/topics/not-a-uuid",
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_request",
		},
		{
			name:   "not found",
			target: "/api/v1/topics/" + id.String(),
			setup: func(s *server) {
				s.topics.On("Get", mock.Anything, id, "").Return(nil, apperr.NotFound("topic", false))
			},
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:   "unknown error is hidden",
			target: "/api/v1/topics/" + id.String() + "?include=users",
			setup: func(s *server) {
				s.topics.On("Get", mock.Anything, id, "users").Return(nil, errors.New("pq: secret detail"))
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "unknown",
		},
		{
			name:   "found",
			target: "/api/v1/topics/" + id.String(),
			setup: func(s *server) {
				s.topics.On("Get", mock.Anything, id, "").Return(&models.Topic{ID: id, Title: "News"}, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer()
			if tt.setup != nil {
				tt.setup(s)
			}

			rec := s.do(http.MethodGet, tt.target, "", "")

			require.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				assert.NotContains(t, rec.Body.String(), "secret detail")
			} else {
				assert.Equal(t, "success", body["status"])
			}
		})
	}
}

func TestCreateTopic(t *testing.T) {
	t.Run("requires token", func(t *testing.T) {
		s := newServer()

		rec := s.do(http.MethodPost, "/api/v1/topics", "", `{"title":"Test Topic"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		s.topics.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid enum", func(t *testing.T) {
		s := newServer()

		rec := s.do(http.MethodPost, "/api/v1/topics", "editor", `{"title":"Test Topic","status":"archived"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("conflict", func(t *testing.T) {
		s := newServer()
		s.topics.On("Create", mock.Anything, mock.MatchedBy(func(in dto.TopicInput) bool {
			return in.Title == "Test Topic" && in.Users.Len() == 1
		})).Return(nil, apperr.Conflict("topic", "slug", "test-topic", nil)).Once()

		rec := s.do(http.MethodPost, "/api/v1/topics", "editor",
			`{"title":"Test Topic","users":"`+uuid.NewString()+`"}`)

		require.Equal(t, http.StatusConflict, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "unique_constraint_violated", body["error"])
		assert.Equal(t, `topic with slug "test-topic" already exists`, body["details"])
	})

	t.Run("created", func(t *testing.T) {
		s := newServer()
		s.topics.On("Create", mock.Anything, mock.Anything).Return(&models.Topic{Title: "Test Topic"}, nil).Once()

		rec := s.do(http.MethodPost, "/api/v1/topics", "editor", `{"title":"Test Topic"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestUpdateTopic_NoRowsAffected(t *testing.T) {
	s := newServer()
	id := uuid.New()
	s.topics.On("Update", mock.Anything, id, mock.Anything).Return(nil, apperr.NotUpdated("topic")).Once()

	rec := s.do(http.MethodPut, "/api/v1/topics/"+id.String(), "editor", `{"title":"Renamed"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no_rows_affected", decode(t, rec)["error"])
}

func TestDeleteTopics(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	t.Run("path id", func(t *testing.T) {
		s := newServer()
		s.topics.On("Delete", mock.Anything, query.One(a)).Return(crud.DeleteResult{DeletedCount: 1}, nil).Once()

		rec := s.do(http.MethodDelete, "/api/v1/topics/"+a.String(), "editor", "")

		require.Equal(t, http.StatusOK, rec.Code)
		data := decode(t, rec)["data"].(map[string]any)
		assert.EqualValues(t, 1, data["deletedCount"])
	})

	t.Run("body ids", func(t *testing.T) {
		s := newServer()
		s.topics.On("Delete", mock.Anything, mock.MatchedBy(func(ids query.OneOrMany[uuid.UUID]) bool {
			list := ids.ToList()
			return len(list) == 2 && list[0] == a && list[1] == b
		})).Return(crud.DeleteResult{}, apperr.NotFound("topic", true)).Once()

		rec := s.do(http.MethodDelete, "/api/v1/topics", "editor", `{"ids":["`+a.String()+`","`+b.String()+`"]}`)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "topics not found", decode(t, rec)["details"])
	})

	t.Run("no ids", func(t *testing.T) {
		s := newServer()

		rec := s.do(http.MethodDelete, "/api/v1/topics", "editor", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		s.topics.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestCreatePost_AuthorFromToken(t *testing.T) {
	other := uuid.New()

	tests := []struct {
		name     string
		body     string
		wantUser uuid.UUID
	}{
		{name: "defaults to caller", body: `{"title":"Hello"}`, wantUser: editorID},
		{name: "explicit author kept", body: `{"title":"Hello","user_id":"` + other.String() + `"}`, wantUser: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer()
			s.posts.On("Create", mock.Anything, mock.MatchedBy(func(in dto.PostInput) bool {
				return in.UserID == tt.wantUser
			})).Return(&models.Post{Title: "Hello", UserID: tt.wantUser}, nil).Once()

			rec := s.do(http.MethodPost, "/api/v1/posts", "editor", tt.body)

			assert.Equal(t, http.StatusCreated, rec.Code)
			s.posts.AssertExpectations(t)
		})
	}
}

func TestUsers_AdminOnly(t *testing.T) {
	s := newServer()
	s.users.On("List", mock.Anything, mock.Anything).Return(crud.Page[models.User]{}, nil)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/users", "", "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/users", "editor", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/users", "admin", "").Code)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		loginErr   error
		wantStatus int
	}{
		{name: "invalid body", body: `{"email":"not-an-email","password":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "success", body: `{"email":"a@b.io","password":"secret"}`, wantStatus: http.StatusOK},
		{name: "bad credentials", body: `{"email":"a@b.io","password":"secret"}`, loginErr: auth.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "rate limited", body: `{"email":"a@b.io","password":"secret"}`, loginErr: auth.ErrTooManyAttempts, wantStatus: http.StatusTooManyRequests},
		{name: "blocked", body: `{"email":"a@b.io","password":"secret"}`, loginErr: auth.ErrUserBlocked, wantStatus: http.StatusForbidden},
		{name: "internal", body: `{"email":"a@b.io","password":"secret"}`, loginErr: errors.New("redis down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer()
			if tt.loginErr != nil {
				s.auth.On("Login", mock.Anything, "a@b.io", "secret").Return(nil, tt.loginErr).Once()
			} else {
				s.auth.On("Login", mock.Anything, "a@b.io", "secret").Return(&models.TokenPair{AccessToken: "tok"}, nil).Maybe()
			}

			rec := s.do(http.MethodPost, "/api/v1/auth/login", "", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestLogout(t *testing.T) {
	s := newServer()
	s.auth.On("Logout", mock.Anything, mock.MatchedBy(func(c models.TokenClaims) bool {
		return c.TokenID == "editor-jti"
	})).Return(nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/auth/logout", "editor", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	s.auth.AssertExpectations(t)
}

func TestHealthz(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	assert.Equal(t, http.StatusOK, newServer(ok, ok).do(http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, newServer(ok, down).do(http.MethodGet, "/health", "", "").Code)
}
