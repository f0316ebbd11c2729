package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"content_hub/internal/domain/models"
	"content_hub/internal/lib/apperr"
	"content_hub/internal/query"
	"content_hub/internal/repository"
	"content_hub/internal/services/crud"
	"content_hub/internal/storage"
	"content_hub/internal/transport/http/dto"
)

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Describe(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	cols, _ := args.Get(0).(map[string]struct{})
	return cols, args.Error(1)
}

func (m *MockCategoryRepository) FindAndCountAll(ctx context.Context, lq repository.ListQuery) (int, []models.Category, error) {
	args := m.Called(ctx, lq)
	return args.Int(0), args.Get(1).([]models.Category), args.Error(2)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID, include ...string) (*models.Category, error) {
	args := m.Called(ctx, id, include)
	category, _ := args.Get(0).(*models.Category)
	return category, args.Error(1)
}

func (m *MockCategoryRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	if args.Error(0) == nil {
		category.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category) (int64, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) Destroy(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func TestCategoryService_Create_DerivesSlug(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(slog.Default(), repo, 20)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Category) bool {
		return c.Slug == "world-news"
	})).Return(nil).Once()

	category, err := svc.Create(context.Background(), dto.CategoryInput{Name: "World News"})

	require.NoError(t, err)
	assert.Equal(t, "world-news", category.Slug)
}

func TestCategoryService_Update_SelfParent(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(slog.Default(), repo, 20)

	id := uuid.New()

	_, err := svc.Update(context.Background(), id, dto.CategoryInput{Name: "Loop", ParentID: &id})

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestCategoryService_Update_Missing(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(slog.Default(), repo, 20)

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id, []string(nil)).Return(nil, storage.ErrNotFound).Once()

	_, err := svc.Update(context.Background(), id, dto.CategoryInput{Name: "News"})

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCategoryService_List_UnorderedWhenSchemaUnavailable(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(slog.Default(), repo, 20)

	repo.On("Describe", mock.Anything).Return(nil, storage.ErrNotFound).Once()
	repo.On("FindAndCountAll", mock.Anything, mock.MatchedBy(func(lq repository.ListQuery) bool {
		return len(lq.Order) == 0 && lq.Limit == 20
	})).Return(0, []models.Category{}, nil).Once()

	page, err := svc.List(context.Background(), crud.ListParams{Order: "name:desc"})

	require.NoError(t, err)
	assert.Zero(t, page.Count)
	assert.Empty(t, page.Rows)
	repo.AssertExpectations(t)
}

func TestCategoryService_Delete_Partial(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(slog.Default(), repo, 20)

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	repo.On("FindByIDs", mock.Anything, []uuid.UUID{a, b, c}).
		Return([]models.Category{{ID: a}, {ID: c}}, nil).Once()
	repo.On("Destroy", mock.Anything, []uuid.UUID{a, c}).Return(int64(2), nil).Once()

	res, err := svc.Delete(context.Background(), query.Many(a, b, c))

	require.NoError(t, err)
	assert.Equal(t, crud.DeleteResult{DeletedCount: 2}, res)
}

func TestCategoryService_Delete_NoneFound(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(slog.Default(), repo, 20)

	a, b := uuid.New(), uuid.New()
	repo.On("FindByIDs", mock.Anything, []uuid.UUID{a, b}).Return([]models.Category{}, nil).Once()

	_, err := svc.Delete(context.Background(), query.Many(a, b))

	require.Error(t, err)
	assert.Equal(t, "categories not found", err.Error())
	repo.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
}
