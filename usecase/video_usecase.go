package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"livestream-backend/domain/model"
	"livestream-backend/domain/repository"
	"livestream-backend/infrastructure/configuration"
	"livestream-backend/infrastructure/logger"
)

// IVideoUsecase is the lifecycle engine for a video asset: ingest, status
// progression, stream resolution, metadata edits and deletion.
type IVideoUsecase interface {
	Ingest(ctx context.Context, ownerID string, req model.ReqIngest) (model.VideoView, error)
	Get(ctx context.Context, videoID string) (model.VideoView, error)
	AdvanceStatus(ctx context.Context, videoID string, req model.ReqAdvanceStatus) (model.VideoView, error)
	ResolveStream(ctx context.Context, videoID string) (model.StreamResponse, error)
	UpdateMetadata(ctx context.Context, videoID, editorID string, req model.ReqUpdateVideo) (model.VideoView, error)
	Delete(ctx context.Context, videoID, requesterID string) error
}

type videoUsecase struct {
	videos        repository.IVideo
	users         repository.IUser
	store         repository.IObjectStore
	notifier      INotificationUsecase
	views         *viewBuilder
	cdnDomain     string
	uploadTimeout time.Duration
}

func NewVideoUsecase(
	videos repository.IVideo,
	users repository.IUser,
	store repository.IObjectStore,
	notifier INotificationUsecase,
	cfg configuration.Config,
) IVideoUsecase {
	return &videoUsecase{
		videos:        videos,
		users:         users,
		store:         store,
		notifier:      notifier,
		views:         newViewBuilder(users, cfg.CDN.Domain),
		cdnDomain:     cfg.CDN.Domain,
		uploadTimeout: cfg.App.UploadTimeout,
	}
}

// newStorageKey builds a collision-resistant key: time prefix, random
// suffix, original extension preserved.
func newStorageKey(prefix, filename string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s/%d-%s%s", prefix, time.Now().UnixMilli(), suffix, filepath.Ext(filename))
}

func (u *videoUsecase) Ingest(ctx context.Context, ownerID string, req model.ReqIngest) (model.VideoView, error) {
	owner, err := parseUserID(ownerID)
	if err != nil {
		return model.VideoView{}, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return model.VideoView{}, model.NewValidationError("Title is required")
	}
	if req.Video == nil {
		return model.VideoView{}, model.NewValidationError("Video file is required")
	}

	// Blob writes are bounded; the metadata row is only created after they
	// succeed, so a timeout cannot leave a row without a blob.
	uploadCtx, cancel := context.WithTimeout(ctx, u.uploadTimeout)
	defer cancel()

	rawKey := newStorageKey("videos", req.Video.Name)
	if err := u.store.Put(uploadCtx, rawKey, req.Video.Reader, req.Video.Size, req.Video.ContentType); err != nil {
		return model.VideoView{}, err
	}

	var thumbnailKey string
	if req.Thumbnail != nil {
		thumbnailKey = newStorageKey("thumbnails", req.Thumbnail.Name)
		if err := u.store.Put(uploadCtx, thumbnailKey, req.Thumbnail.Reader, req.Thumbnail.Size, req.Thumbnail.ContentType); err != nil {
			u.removeBlob(rawKey)
			return model.VideoView{}, err
		}
	}

	video, err := u.videos.Create(ctx, model.Video{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Category:     req.Category,
		Owner:        owner,
		RawKey:       rawKey,
		ThumbnailKey: thumbnailKey,
		Status:       model.StatusPending,
	})
	if err != nil {
		// Compensate the partial failure so the blobs stay reachable.
		u.removeBlob(rawKey)
		if thumbnailKey != "" {
			u.removeBlob(thumbnailKey)
		}
		return model.VideoView{}, err
	}

	return u.views.videoView(ctx, video)
}

// removeBlob is compensation cleanup; a failure here is logged and the key
// left for the storage reaper.
func (u *videoUsecase) removeBlob(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := u.store.Remove(ctx, key); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "key": key}).Warn("Orphaned blob left behind after failed upload")
	}
}

func (u *videoUsecase) Get(ctx context.Context, videoID string) (model.VideoView, error) {
	id, err := parseVideoID(videoID)
	if err != nil {
		return model.VideoView{}, err
	}
	video, err := u.videos.GetByID(ctx, id)
	if err != nil {
		return model.VideoView{}, err
	}
	return u.views.videoView(ctx, video)
}

// statusSource returns the only status a legal transition into next can come
// from.
func statusSource(next model.VideoStatus) (model.VideoStatus, bool) {
	switch next {
	case model.StatusProcessing:
		return model.StatusPending, true
	case model.StatusCompleted, model.StatusFailed:
		return model.StatusProcessing, true
	}
	return "", false
}

func (u *videoUsecase) AdvanceStatus(ctx context.Context, videoID string, req model.ReqAdvanceStatus) (model.VideoView, error) {
	id, err := parseVideoID(videoID)
	if err != nil {
		return model.VideoView{}, err
	}
	if !req.Status.Valid() {
		return model.VideoView{}, model.NewValidationError("Unknown status")
	}
	from, ok := statusSource(req.Status)
	if !ok {
		return model.VideoView{}, model.NewInvalidTransitionError(fmt.Sprintf("No transition leads to %s", req.Status))
	}
	if req.Status == model.StatusCompleted && req.HLSKey == "" {
		return model.VideoView{}, model.NewValidationError("hlsKey is required to complete processing")
	}
	if req.Status != model.StatusCompleted {
		// The stream key is present if and only if the video is COMPLETED.
		req.HLSKey = ""
	}

	video, err := u.videos.AdvanceStatus(ctx, id, from, req.Status, req.HLSKey)
	if err != nil {
		if !model.IsKind(err, model.KindNotFound) {
			return model.VideoView{}, err
		}
		// The compare-and-swap missed: either the video is gone or its
		// status already moved on.
		current, getErr := u.videos.GetByID(ctx, id)
		if getErr != nil {
			return model.VideoView{}, getErr
		}
		return model.VideoView{}, model.NewInvalidTransitionError(
			fmt.Sprintf("Cannot transition from %s to %s", current.Status, req.Status))
	}

	if video.Status == model.StatusCompleted {
		u.notifier.VideoPublished(ctx, video)
	}
	return u.views.videoView(ctx, video)
}

func (u *videoUsecase) ResolveStream(ctx context.Context, videoID string) (model.StreamResponse, error) {
	id, err := parseVideoID(videoID)
	if err != nil {
		return model.StreamResponse{}, err
	}
	video, err := u.videos.GetByID(ctx, id)
	if err != nil {
		return model.StreamResponse{}, err
	}
	if video.Status != model.StatusCompleted || video.HLSKey == "" {
		return model.StreamResponse{}, model.NewNotReadyError("Video not ready for streaming")
	}

	// Best-effort view count: never fails the stream resolution.
	if err := u.videos.IncrementViews(ctx, id); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "video": videoID}).Warn("Could not record view")
	}

	owner, err := u.users.GetByID(ctx, video.Owner)
	ownerRef := model.UserRef{ID: video.Owner, Username: model.DeletedUsername}
	if err == nil {
		ownerRef = owner.Ref()
	}

	streamURL := strings.TrimSuffix(u.cdnDomain, "/") + "/" + video.HLSKey
	return model.StreamResponse{StreamURL: streamURL, Owner: ownerRef}, nil
}

func (u *videoUsecase) UpdateMetadata(ctx context.Context, videoID, editorID string, req model.ReqUpdateVideo) (model.VideoView, error) {
	id, err := parseVideoID(videoID)
	if err != nil {
		return model.VideoView{}, err
	}
	editor, err := parseUserID(editorID)
	if err != nil {
		return model.VideoView{}, err
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return model.VideoView{}, model.NewValidationError("Title is required")
	}

	video, err := u.videos.GetByID(ctx, id)
	if err != nil {
		return model.VideoView{}, err
	}
	if video.Owner != editor {
		return model.VideoView{}, model.NewForbiddenError("Only the owner may edit this video")
	}

	update := model.VideoUpdate{Title: req.Title, Description: req.Description, Category: req.Category}
	if update.Empty() {
		return u.views.videoView(ctx, video)
	}
	updated, err := u.videos.UpdateMetadata(ctx, id, update)
	if err != nil {
		return model.VideoView{}, err
	}
	return u.views.videoView(ctx, updated)
}

// Delete removes the blobs first, then the metadata row. A blob-delete
// failure surfaces as a storage error and keeps the row, so a retry can
// still find the keys.
func (u *videoUsecase) Delete(ctx context.Context, videoID, requesterID string) error {
	id, err := parseVideoID(videoID)
	if err != nil {
		return err
	}
	requester, err := parseUserID(requesterID)
	if err != nil {
		return err
	}

	video, err := u.videos.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if video.Owner != requester {
		return model.NewForbiddenError("Only the owner may delete this video")
	}

	if video.RawKey != "" {
		if err := u.store.Remove(ctx, video.RawKey); err != nil {
			return err
		}
	}
	if video.ThumbnailKey != "" {
		if err := u.store.Remove(ctx, video.ThumbnailKey); err != nil {
			return err
		}
	}
	return u.videos.Delete(ctx, id)
}
