package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"livestream-backend/domain/model"
	"livestream-backend/usecase"
)

func newVideoFixture() (model.Video, model.User) {
	owner := model.User{ID: bson.NewObjectID(), Username: "alice"}
	video := model.Video{
		ID:     bson.NewObjectID(),
		Title:  "First upload",
		Owner:  owner.ID,
		RawKey: "videos/123-abc.mp4",
		Status: model.StatusPending,
	}
	return video, owner
}

func TestVideoUsecase_Ingest_RequiresTitleAndFile(t *testing.T) {
	videos := new(MockVideoRepository)
	users := new(MockUserRepository)
	store := new(MockObjectStore)
	notifier := new(MockNotifier)
	uc := usecase.NewVideoUsecase(videos, users, store, notifier, testConfig())

	owner := bson.NewObjectID().Hex()

	_, err := uc.Ingest(context.Background(), owner, model.ReqIngest{
		Title: "  ",
		Video: &model.FileUpload{Name: "clip.mp4", Reader: strings.NewReader("data")},
	})
	assert.True(t, model.IsKind(err, model.KindValidation))

	_, err = uc.Ingest(context.Background(), owner, model.ReqIngest{Title: "No file"})
	assert.True(t, model.IsKind(err, model.KindValidation))

	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVideoUsecase_Ingest_CreatesPendingAsset(t *testing.T) {
	videos := new(MockVideoRepository)
	users := new(MockUserRepository)
	store := new(MockObjectStore)
	notifier := new(MockNotifier)
	uc := usecase.NewVideoUsecase(videos, users, store, notifier, testConfig())

	_, owner := newVideoFixture()

	store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "videos/") && strings.HasSuffix(key, ".mp4")
	}), mock.Anything, int64(4), "video/mp4").Return(nil).Once()

	created := model.Video{ID: bson.NewObjectID(), Title: "My clip", Owner: owner.ID, Status: model.StatusPending}
	videos.On("Create", mock.Anything, mock.MatchedBy(func(v model.Video) bool {
		return v.Status == model.StatusPending && v.Title == "My clip" && v.Owner == owner.ID && v.RawKey != ""
	})).Return(created, nil).Once()
	users.On("GetManyByIDs", mock.Anything, mock.Anything).Return([]model.User{owner}, nil).Once()

	view, err := uc.Ingest(context.Background(), owner.ID.Hex(), model.ReqIngest{
		Title: "  My clip  ",
		Video: &model.FileUpload{Name: "clip.mp4", Size: 4, ContentType: "video/mp4", Reader: strings.NewReader("data")},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, view.Status)
	assert.Equal(t, "alice", view.Owner.Username)

	store.AssertExpectations(t)
	videos.AssertExpectations(t)
}

func TestVideoUsecase_Ingest_CompensatesBlobsOnCreateFailure(t *testing.T) {
	videos := new(MockVideoRepository)
	users := new(MockUserRepository)
	store := new(MockObjectStore)
	notifier := new(MockNotifier)
	uc := usecase.NewVideoUsecase(videos, users, store, notifier, testConfig())

	owner := bson.NewObjectID()
	var rawKey, thumbKey string

	store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		if strings.HasPrefix(key, "videos/") {
			rawKey = key
			return true
		}
		return false
	}), mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		if strings.HasPrefix(key, "thumbnails/") {
			thumbKey = key
			return true
		}
		return false
	}), mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	videos.On("Create", mock.Anything, mock.Anything).
		Return(model.Video{}, model.NewInternalError("insert failed", assert.AnError)).Once()

	store.On("Remove", mock.Anything, mock.MatchedBy(func(key string) bool { return key == rawKey })).Return(nil).Once()
	store.On("Remove", mock.Anything, mock.MatchedBy(func(key string) bool { return key == thumbKey })).Return(nil).Once()

	_, err := uc.Ingest(context.Background(), owner.Hex(), model.ReqIngest{
		Title:     "Doomed",
		Video:     &model.FileUpload{Name: "clip.mp4", Reader: strings.NewReader("data")},
		Thumbnail: &model.FileUpload{Name: "thumb.jpg", Reader: strings.NewReader("img")},
	})
	require.Error(t, err)
	store.AssertExpectations(t)
}

func TestVideoUsecase_AdvanceStatus_LegalChain(t *testing.T) {
	videos := new(MockVideoRepository)
	users := new(MockUserRepository)
	store := new(MockObjectStore)
	notifier := new(MockNotifier)
	uc := usecase.NewVideoUsecase(videos, users, store, notifier, testConfig())

	video, owner := newVideoFixture()

	processing := video
	processing.Status = model.StatusProcessing
	videos.On("AdvanceStatus", mock.Anything, video.ID, model.StatusPending, model.StatusProcessing, "").
		Return(processing, nil).Once()
	users.On("GetManyByIDs", mock.Anything, mock.Anything).Return([]model.User{owner}, nil)

	view, err := uc.AdvanceStatus(context.Background(), video.ID.Hex(), model.ReqAdvanceStatus{Status: model.StatusProcessing})
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, view.Status)

	completed := processing
	completed.Status = model.StatusCompleted
	completed.HLSKey = "videos/x/master.m3u8"
	videos.On("AdvanceStatus", mock.Anything, video.ID, model.StatusProcessing, model.StatusCompleted, "videos/x/master.m3u8").
		Return(completed, nil).Once()
	notifier.On("VideoPublished", mock.Anything, completed).Once()

	view, err = uc.AdvanceStatus(context.Background(), video.ID.Hex(), model.ReqAdvanceStatus{
		Status: model.StatusCompleted,
		HLSKey: "videos/x/master.m3u8",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, view.Status)

	videos.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestVideoUsecase_AdvanceStatus_CompletedRequiresStreamKey(t *testing.T) {
	videos := new(MockVideoRepository)
	uc := usecase.NewVideoUsecase(videos, new(MockUserRepository), new(MockObjectStore), new(MockNotifier), testConfig())

	_, err := uc.AdvanceStatus(context.Background(), bson.NewObjectID().Hex(), model.ReqAdvanceStatus{Status: model.StatusCompleted})
	assert.True(t, model.IsKind(err, model.KindValidation))
}

func TestVideoUsecase_AdvanceStatus_DropsStreamKeyOnFailure(t *testing.T) {
	videos := new(MockVideoRepository)
	users := new(MockUserRepository)
	uc := usecase.NewVideoUsecase(videos, users, new(MockObjectStore), new(MockNotifier), testConfig())

	video, owner := newVideoFixture()
	failed := video
	failed.Status = model.StatusFailed

	// A stray hlsKey on a FAILED transition must not be persisted.
	videos.On("AdvanceStatus", mock.Anything, video.ID, model.StatusProcessing, model.StatusFailed, "").
		Return(failed, nil).Once()
	users.On("GetManyByIDs", mock.Anything, mock.Anything).Return([]model.User{owner}, nil).Once()

	view, err := uc.AdvanceStatus(context.Background(), video.ID.Hex(), model.ReqAdvanceStatus{
		Status: model.StatusFailed,
		HLSKey: "videos/x/master.m3u8",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, view.Status)
	videos.AssertExpectations(t)
}

func TestVideoUsecase_AdvanceStatus_RejectsIllegalTargets(t *testing.T) {
	uc := usecase.NewVideoUsecase(new(MockVideoRepository), new(MockUserRepository), new(MockObjectStore), new(MockNotifier), testConfig())

	_, err := uc.AdvanceStatus(context.Background(), bson.NewObjectID().Hex(), model.ReqAdvanceStatus{Status: model.StatusPending})
	assert.True(t, model.IsKind(err, model.KindInvalidTransition))

	_, err = uc.AdvanceStatus(context.Background(), bson.NewObjectID().Hex(), model.ReqAdvanceStatus{Status: "ARCHIVED"})
	assert.True(t, model.IsKind(err, model.KindValidation))
}

func TestVideoUsecase_AdvanceStatus_TerminalStateWins(t *testing.T) {
	videos := new(MockVideoRepository)
	uc := usecase.NewVideoUsecase(videos, new(MockUserRepository), new(MockObjectStore), new(MockNotifier), testConfig())

	video, _ := newVideoFixture()
	video.Status = model.StatusCompleted
	video.HLSKey = "videos/x/master.m3u8"

	// The compare-and-swap misses because the video is already COMPLETED.
	videos.On("AdvanceStatus", mock.Anything, video.ID, model.StatusPending, model.StatusProcessing, "").
		Return(model.Video{}, model.NewNotFoundError("Video not found")).Once()
	videos.On("GetByID", mock.Anything, video.ID).Return(video, nil).Once()

	_, err := uc.AdvanceStatus(context.Background(), video.ID.Hex(), model.ReqAdvanceStatus{Status: model.StatusProcessing})
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidTransition))
	assert.Contains(t, err.Error(), "COMPLETED")
	videos.AssertExpectations(t)
}

func TestVideoUsecase_AdvanceStatus_MissingVideo(t *testing.T) {
	videos := new(MockVideoRepository)
	uc := usecase.NewVideoUsecase(videos, new(MockUserRepository), new(MockObjectStore), new(MockNotifier), testConfig())

	id := bson.NewObjectID()
	videos.On("AdvanceStatus", mock.Anything, id, model.StatusPending, model.StatusProcessing, "").
		Return(model.Video{}, model.NewNotFoundError("Video not found")).Once()
	videos.On("GetByID", mock.Anything, id).Return(model.Video{}, model.NewNotFoundError("Video not found")).Once()

	_, err := uc.AdvanceStatus(context.Background(), id.Hex(), model.ReqAdvanceStatus{Status: model.StatusProcessing})
	assert.True(t, model.IsKind(err, model.KindNotFound))
}

func TestVideoUsecase_ResolveStream_ComposesURL(t *testing.T) {
	videos := new(MockVideoRepository)
	users := new(MockUserRepository)
	uc := usecase.NewVideoUsecase(videos, users, new(MockObjectStore), new(MockNotifier), testConfig())

	video, owner := newVideoFixture()
	video.Status = model.StatusCompleted
	video.HLSKey = "videos/x/master.m3u8"

	videos.On("GetByID", mock.Anything, video.ID).Return(video, nil).Once()
	videos.On("IncrementViews", mock.Anything, video.ID).Return(nil).Once()
	users.On("GetByID", mock.Anything, owner.ID).Return(owner, nil).Once()

	res, err := uc.ResolveStream(context.Background(), video.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/videos/x/master.m3u8", res.StreamURL)
	assert.Equal(t, "alice", res.Owner.Username)
}

func TestVideoUsecase_ResolveStream_ViewCountIsBestEffort(t *testing.T) {
	videos := new(MockVideoRepository)
	users := new(MockUserRepository)
	uc := usecase.NewVideoUsecase(videos, users, new(MockObjectStore), new(MockNotifier), testConfig())

	video, owner := newVideoFixture()
	video.Status = model.StatusCompleted
	video.HLSKey = "videos/x/master.m3u8"

	videos.On("GetByID", mock.Anything, video.ID).Return(video, nil).Once()
	videos.On("IncrementViews", mock.Anything, video.ID).Return(model.NewStorageError("write failed", assert.AnError)).Once()
	users.On("GetByID", mock.Anything, owner.ID).Return(owner, nil).Once()

	res, err := uc.ResolveStream(context.Background(), video.ID.Hex())
	require.NoError(t, err)
	assert.NotEmpty(t, res.StreamURL)
}

func TestVideoUsecase_ResolveStream_NotReadyBeforeCompleted(t *testing.T) {
	videos := new(MockVideoRepository)
	uc := usecase.NewVideoUsecase(videos, new(MockUserRepository), new(MockObjectStore), new(MockNotifier), testConfig())

	for _, status := range []model.VideoStatus{model.StatusPending, model.StatusProcessing, model.StatusFailed} {
		video, _ := newVideoFixture()
		video.Status = status
		videos.On("GetByID", mock.Anything, video.ID).Return(video, nil).Once()

		_, err := uc.ResolveStream(context.Background(), video.ID.Hex())
		assert.True(t, model.IsKind(err, model.KindNotReady), "status %s should not stream", status)
	}
	videos.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
}

func TestVideoUsecase_UpdateMetadata_OwnerOnly(t *testing.T) {
	videos := new(MockVideoRepository)
	uc := usecase.NewVideoUsecase(videos, new(MockUserRepository), new(MockObjectStore), new(MockNotifier), testConfig())

	video, _ := newVideoFixture()
	stranger := bson.NewObjectID()
	videos.On("GetByID", mock.Anything, video.ID).Return(video, nil).Once()

	title := "Renamed"
	_, err := uc.UpdateMetadata(context.Background(), video.ID.Hex(), stranger.Hex(), model.ReqUpdateVideo{Title: &title})
	assert.True(t, model.IsKind(err, model.KindForbidden))
	videos.AssertNotCalled(t, "UpdateMetadata", mock.Anything, mock.Anything, mock.Anything)
}

func TestVideoUsecase_Delete_BlobsFirst(t *testing.T) {
	videos := new(MockVideoRepository)
	store := new(MockObjectStore)
	uc := usecase.NewVideoUsecase(videos, new(MockUserRepository), store, new(MockNotifier), testConfig())

	video, _ := newVideoFixture()
	video.ThumbnailKey = "thumbnails/123-abc.jpg"

	videos.On("GetByID", mock.Anything, video.ID).Return(video, nil).Once()
	store.On("Remove", mock.Anything, video.RawKey).
		Return(model.NewStorageError("object store unreachable", assert.AnError)).Once()

	err := uc.Delete(context.Background(), video.ID.Hex(), video.Owner.Hex())
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindStorage))

	// The metadata row survives so a retry can still find the keys.
	videos.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestVideoUsecase_Delete_OwnerOnly(t *testing.T) {
	videos := new(MockVideoRepository)
	store := new(MockObjectStore)
	uc := usecase.NewVideoUsecase(videos, new(MockUserRepository), store, new(MockNotifier), testConfig())

	video, _ := newVideoFixture()
	videos.On("GetByID", mock.Anything, video.ID).Return(video, nil).Once()

	err := uc.Delete(context.Background(), video.ID.Hex(), bson.NewObjectID().Hex())
	assert.True(t, model.IsKind(err, model.KindForbidden))
	store.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestVideoUsecase_Get_InvalidID(t *testing.T) {
	uc := usecase.NewVideoUsecase(new(MockVideoRepository), new(MockUserRepository), new(MockObjectStore), new(MockNotifier), testConfig())

	_, err := uc.Get(context.Background(), "not-an-id")
	assert.True(t, model.IsKind(err, model.KindValidation))
}
