package usecase_test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"

	"livestream-backend/domain/model"
	"livestream-backend/infrastructure/configuration"
)

func testConfig() configuration.Config {
	return configuration.Config{
		App: configuration.App{
			SecretKey:     "test-secret",
			TokenTTL:      time.Hour,
			UploadTimeout: time.Minute,
		},
		CDN:   configuration.CDN{Domain: "https://cdn.example.com/"},
		Redis: configuration.Redis{CatalogTTL: 30 * time.Second},
	}
}

// Mock implementations

type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) Create(ctx context.Context, video model.Video) (model.Video, error) {
	args := m.Called(ctx, video)
	return args.Get(0).(model.Video), args.Error(1)
}

func (m *MockVideoRepository) GetByID(ctx context.Context, id bson.ObjectID) (model.Video, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Video), args.Error(1)
}

func (m *MockVideoRepository) Count(ctx context.Context, filter model.VideoFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVideoRepository) List(ctx context.Context, filter model.VideoFilter, sort string, page, limit int) ([]model.Video, error) {
	args := m.Called(ctx, filter, sort, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoRepository) ListByOwner(ctx context.Context, owner bson.ObjectID, status model.VideoStatus) ([]model.Video, error) {
	args := m.Called(ctx, owner, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoRepository) Search(ctx context.Context, term string, limit int) ([]model.Video, error) {
	args := m.Called(ctx, term, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoRepository) UpdateMetadata(ctx context.Context, id bson.ObjectID, update model.VideoUpdate) (model.Video, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(model.Video), args.Error(1)
}

func (m *MockVideoRepository) AdvanceStatus(ctx context.Context, id bson.ObjectID, from, to model.VideoStatus, hlsKey string) (model.Video, error) {
	args := m.Called(ctx, id, from, to, hlsKey)
	return args.Get(0).(model.Video), args.Error(1)
}

func (m *MockVideoRepository) IncrementViews(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVideoRepository) AddLike(ctx context.Context, id, user bson.ObjectID) (model.Video, error) {
	args := m.Called(ctx, id, user)
	return args.Get(0).(model.Video), args.Error(1)
}

func (m *MockVideoRepository) RemoveLike(ctx context.Context, id, user bson.ObjectID) (model.Video, error) {
	args := m.Called(ctx, id, user)
	return args.Get(0).(model.Video), args.Error(1)
}

func (m *MockVideoRepository) PushComment(ctx context.Context, id bson.ObjectID, comment model.Comment) (model.Video, error) {
	args := m.Called(ctx, id, comment)
	return args.Get(0).(model.Video), args.Error(1)
}

func (m *MockVideoRepository) UpdateCommentText(ctx context.Context, id, commentID, author bson.ObjectID, text string) (model.Video, error) {
	args := m.Called(ctx, id, commentID, author, text)
	return args.Get(0).(model.Video), args.Error(1)
}

func (m *MockVideoRepository) PullComment(ctx context.Context, id, commentID bson.ObjectID) (model.Video, error) {
	args := m.Called(ctx, id, commentID)
	return args.Get(0).(model.Video), args.Error(1)
}

func (m *MockVideoRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVideoRepository) DeleteByOwner(ctx context.Context, owner bson.ObjectID) ([]model.Video, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id bson.ObjectID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) GetManyByIDs(ctx context.Context, ids []bson.ObjectID) ([]model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id bson.ObjectID, update model.UserUpdate) (model.User, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) SearchByUsername(ctx context.Context, term string) ([]model.User, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Create(ctx context.Context, follower, followee bson.ObjectID) (bool, error) {
	args := m.Called(ctx, follower, followee)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Delete(ctx context.Context, follower, followee bson.ObjectID) (bool, error) {
	args := m.Called(ctx, follower, followee)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Exists(ctx context.Context, follower, followee bson.ObjectID) (bool, error) {
	args := m.Called(ctx, follower, followee)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) CountFollowers(ctx context.Context, user bson.ObjectID) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) Followers(ctx context.Context, user bson.ObjectID) ([]bson.ObjectID, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bson.ObjectID), args.Error(1)
}

func (m *MockFollowRepository) Following(ctx context.Context, user bson.ObjectID) ([]bson.ObjectID, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bson.ObjectID), args.Error(1)
}

func (m *MockFollowRepository) DeleteAllFor(ctx context.Context, user bson.ObjectID) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification model.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByRecipient(ctx context.Context, recipient bson.ObjectID, limit int) ([]model.Notification, error) {
	args := m.Called(ctx, recipient, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipient bson.ObjectID) error {
	args := m.Called(ctx, recipient)
	return args.Error(0)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) VideoLiked(ctx context.Context, sender bson.ObjectID, video model.Video) {
	m.Called(ctx, sender, video)
}

func (m *MockNotifier) VideoCommented(ctx context.Context, sender bson.ObjectID, video model.Video) {
	m.Called(ctx, sender, video)
}

func (m *MockNotifier) VideoPublished(ctx context.Context, video model.Video) {
	m.Called(ctx, video)
}

func (m *MockNotifier) ListForUser(ctx context.Context, userID string) ([]model.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotifier) MarkAllRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
