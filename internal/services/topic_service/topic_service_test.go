package services

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
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

type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Topic, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Topic), args.Error(1)
}

func (m *MockTopicRepository) Describe(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockTopicRepository) FindAndCountAll(ctx context.Context, lq repository.ListQuery) (int, []models.Topic, error) {
	args := m.Called(ctx, lq)
	return args.Int(0), args.Get(1).([]models.Topic), args.Error(2)
}

func (m *MockTopicRepository) FindByID(ctx context.Context, id uuid.UUID, include ...string) (*models.Topic, error) {
	args := m.Called(ctx, id, include)
	topic, _ := args.Get(0).(*models.Topic)
	return topic, args.Error(1)
}

func (m *MockTopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	args := m.Called(ctx, topic)
	if args.Error(0) == nil {
		topic.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockTopicRepository) Update(ctx context.Context, topic *models.Topic) (int64, error) {
	args := m.Called(ctx, topic)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTopicRepository) UpdateImage(ctx context.Context, id uuid.UUID, image string) (int64, error) {
	args := m.Called(ctx, id, image)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTopicRepository) Destroy(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTopicRepository) AddUsers(ctx context.Context, topicID uuid.UUID, userIDs []uuid.UUID) error {
	return m.Called(ctx, topicID, userIDs).Error(0)
}

func (m *MockTopicRepository) SetUsers(ctx context.Context, topicID uuid.UUID, userIDs []uuid.UUID) error {
	return m.Called(ctx, topicID, userIDs).Error(0)
}

func (m *MockTopicRepository) AddCategories(ctx context.Context, topicID uuid.UUID, categoryIDs []uuid.UUID) error {
	return m.Called(ctx, topicID, categoryIDs).Error(0)
}

func (m *MockTopicRepository) SetCategories(ctx context.Context, topicID uuid.UUID, categoryIDs []uuid.UUID) error {
	return m.Called(ctx, topicID, categoryIDs).Error(0)
}

type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.User), args.Error(1)
}

type MockCategorySource struct {
	mock.Mock
}

func (m *MockCategorySource) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategorySource) FindChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).([]models.Category), args.Error(1)
}

type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) Save(ctx context.Context, file *multipart.FileHeader, subPath string) (string, int64, error) {
	args := m.Called(ctx, file, subPath)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockImageStorage) Delete(ctx context.Context, filePath string) error {
	return m.Called(ctx, filePath).Error(0)
}

// fakeTx runs fn directly and records how the transaction would have ended.
type fakeTx struct {
	commits   int
	rollbacks int
}

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

type fixture struct {
	svc        *TopicService
	tx         *fakeTx
	topics     *MockTopicRepository
	users      *MockUserFinder
	categories *MockCategorySource
	images     *MockImageStorage
}

func newFixture() fixture {
	f := fixture{
		tx:         &fakeTx{},
		topics:     new(MockTopicRepository),
		users:      new(MockUserFinder),
		categories: new(MockCategorySource),
		images:     new(MockImageStorage),
	}
	f.svc = NewTopicService(slog.Default(), f.tx, f.topics, f.users, f.categories, f.images, 20)
	return f
}

func TestTopicService_Create_ExpandsCategoriesAndDropsUnknownUsers(t *testing.T) {
	f := newFixture()

	editor := models.User{ID: uuid.New(), Firstname: "Ann"}
	missing := uuid.New()
	news := models.Category{ID: uuid.New(), Name: "News", Slug: "news"}
	world := models.Category{ID: uuid.New(), Name: "World", Slug: "world", ParentID: &news.ID}

	f.topics.On("Create", mock.Anything, mock.MatchedBy(func(tp *models.Topic) bool {
		return tp.Slug == "test-topic" && tp.Status == models.TopicActive && tp.Content == models.TopicContentPosts
	})).Return(nil).Once()
	f.users.On("FindByIDs", mock.Anything, []uuid.UUID{editor.ID, missing}).Return([]models.User{editor}, nil).Once()
	f.categories.On("FindByIDs", mock.Anything, []uuid.UUID{news.ID}).Return([]models.Category{news}, nil).Once()
	f.categories.On("FindChildren", mock.Anything, news.ID).Return([]models.Category{world}, nil).Once()
	f.topics.On("AddUsers", mock.Anything, mock.Anything, []uuid.UUID{editor.ID}).Return(nil).Once()
	f.topics.On("AddCategories", mock.Anything, mock.Anything, []uuid.UUID{news.ID, world.ID}).Return(nil).Once()

	topic, err := f.svc.Create(context.Background(), dto.TopicInput{
		Title:      "Test Topic",
		Users:      query.Many(editor.ID, missing),
		Categories: query.One(news.ID),
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, topic.ID)
	assert.Equal(t, []models.User{editor}, topic.Users)
	assert.Equal(t, []models.Category{news, world}, topic.Categories)
	assert.Equal(t, 1, f.tx.commits)
	f.topics.AssertExpectations(t)
	f.users.AssertExpectations(t)
	f.categories.AssertExpectations(t)
}

func TestTopicService_Create_Conflict(t *testing.T) {
	f := newFixture()

	f.topics.On("Create", mock.Anything, mock.Anything).
		Return(&storage.UniqueViolationError{Field: "slug", Value: "test-topic"}).Once()

	_, err := f.svc.Create(context.Background(), dto.TopicInput{Title: "Test Topic"})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindConflict, appErr.Kind)
	assert.Equal(t, http.StatusConflict, appErr.Status())
	assert.Equal(t, `topic with slug "test-topic" already exists`, appErr.Message)
	f.topics.AssertNotCalled(t, "AddUsers", mock.Anything, mock.Anything, mock.Anything)
	f.users.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestTopicService_Update_RollsBackWhenNothingUpdated(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	image := "topics/old.png"

	f.topics.On("FindByID", mock.Anything, id, []string(nil)).
		Return(&models.Topic{ID: id, Title: "Old", Image: &image}, nil).Once()
	f.topics.On("SetUsers", mock.Anything, id, []uuid.UUID{}).Return(nil).Once()
	f.topics.On("SetCategories", mock.Anything, id, []uuid.UUID{}).Return(nil).Once()
	f.topics.On("Update", mock.Anything, mock.MatchedBy(func(tp *models.Topic) bool {
		return tp.ID == id && tp.Image != nil && *tp.Image == image
	})).Return(int64(0), nil).Once()

	_, err := f.svc.Update(context.Background(), id, dto.TopicInput{Title: "New"})

	require.Error(t, err)
	assert.Equal(t, apperr.KindNoRowsAffected, apperr.KindOf(err))
	assert.Equal(t, "topic was not updated", err.Error())
	assert.Equal(t, 1, f.tx.rollbacks)
	assert.Zero(t, f.tx.commits)
	f.topics.AssertExpectations(t)
}

func TestTopicService_Update_KeepsStoredFields(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	stored := &models.Topic{
		ID:      id,
		Title:   "Old",
		Slug:    "old",
		Status:  models.TopicInactive,
		Content: models.TopicContentPage,
	}

	f.topics.On("FindByID", mock.Anything, id, []string(nil)).Return(stored, nil).Once()
	f.topics.On("SetUsers", mock.Anything, id, []uuid.UUID{}).Return(nil).Once()
	f.topics.On("SetCategories", mock.Anything, id, []uuid.UUID{}).Return(nil).Once()
	f.topics.On("Update", mock.Anything, mock.MatchedBy(func(tp *models.Topic) bool {
		return tp.Title == "New" &&
			tp.Slug == "old" &&
			tp.Status == models.TopicInactive &&
			tp.Content == models.TopicContentPage
	})).Return(int64(1), nil).Once()
	f.topics.On("FindByID", mock.Anything, id, []string{models.RelationUsers, models.RelationCategories}).
		Return(stored, nil).Once()

	_, err := f.svc.Update(context.Background(), id, dto.TopicInput{Title: "New"})

	require.NoError(t, err)
	assert.Equal(t, 1, f.tx.commits)
	f.topics.AssertExpectations(t)
}

func TestTopicService_Update_NotFound(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	f.topics.On("FindByID", mock.Anything, id, []string(nil)).Return(nil, storage.ErrNotFound).Once()

	_, err := f.svc.Update(context.Background(), id, dto.TopicInput{Title: "New"})

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Zero(t, f.tx.commits+f.tx.rollbacks)
}

func TestTopicService_Update_SelfParent(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	_, err := f.svc.Update(context.Background(), id, dto.TopicInput{Title: "Loop", ParentID: &id})

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	f.topics.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestTopicService_List_IsIdempotent(t *testing.T) {
	f := newFixture()
	rows := []models.Topic{{ID: uuid.New(), Title: "A"}}

	f.topics.On("Describe", mock.Anything).Return(map[string]struct{}{"title": {}}, nil)
	f.topics.On("FindAndCountAll", mock.Anything, mock.Anything).Return(1, rows, nil)

	p := crud.ListParams{Where: map[string]string{"status": "active"}, Order: "title:asc", Page: 1, Size: 10}

	first, err := f.svc.List(context.Background(), p)
	require.NoError(t, err)
	second, err := f.svc.List(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, first.Count)

	calls := f.topics.Calls
	var queries []repository.ListQuery
	for _, c := range calls {
		if c.Method == "FindAndCountAll" {
			queries = append(queries, c.Arguments.Get(1).(repository.ListQuery))
		}
	}
	require.Len(t, queries, 2)
	assert.Equal(t, queries[0], queries[1])
	assert.Equal(t, uint64(10), queries[0].Limit)
	assert.Zero(t, queries[0].Offset)
}

func TestTopicService_Delete(t *testing.T) {
	f := newFixture()
	a, b := uuid.New(), uuid.New()

	f.topics.On("FindByIDs", mock.Anything, []uuid.UUID{a, b}).Return([]models.Topic{}, nil).Once()

	_, err := f.svc.Delete(context.Background(), query.Many(a, b))

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "topics not found", err.Error())
	f.topics.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
}

func TestTopicService_SetImage(t *testing.T) {
	id := uuid.New()
	file := &multipart.FileHeader{Filename: "cover.png"}

	tests := []struct {
		name      string
		setup     func(f fixture)
		wantKind  apperr.Kind
		wantError bool
	}{
		{
			name: "stored and linked",
			setup: func(f fixture) {
				f.topics.On("FindByID", mock.Anything, id, []string(nil)).Return(&models.Topic{ID: id}, nil).Twice()
				f.images.On("Save", mock.Anything, file, "topics/"+id.String()).Return("topics/x.png", int64(10), nil).Once()
				f.topics.On("UpdateImage", mock.Anything, id, "topics/x.png").Return(int64(1), nil).Once()
			},
		},
		{
			name: "rejected file type",
			setup: func(f fixture) {
				f.topics.On("FindByID", mock.Anything, id, []string(nil)).Return(&models.Topic{ID: id}, nil).Once()
				f.images.On("Save", mock.Anything, file, mock.Anything).Return("", int64(0), storage.ErrInvalidFileType).Once()
			},
			wantError: true,
			wantKind:  apperr.KindValidation,
		},
		{
			name: "orphaned file removed",
			setup: func(f fixture) {
				f.topics.On("FindByID", mock.Anything, id, []string(nil)).Return(&models.Topic{ID: id}, nil).Once()
				f.images.On("Save", mock.Anything, file, mock.Anything).Return("topics/x.png", int64(10), nil).Once()
				f.topics.On("UpdateImage", mock.Anything, id, "topics/x.png").Return(int64(0), nil).Once()
				f.images.On("Delete", mock.Anything, "topics/x.png").Return(nil).Once()
			},
			wantError: true,
			wantKind:  apperr.KindNoRowsAffected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			topic, err := f.svc.SetImage(context.Background(), id, file)

			if tt.wantError {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, id, topic.ID)
			}
			f.topics.AssertExpectations(t)
			f.images.AssertExpectations(t)
		})
	}
}

func TestTopicService_Create_UnknownErrorIsHidden(t *testing.T) {
	f := newFixture()

	f.topics.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

	_, err := f.svc.Create(context.Background(), dto.TopicInput{Title: "X"})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindUnknown, appErr.Kind)
	assert.Equal(t, "failed to create topic", appErr.Message)
}
