package usecase

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"livestream-backend/domain/model"
	"livestream-backend/domain/repository"
	"livestream-backend/infrastructure/configuration"
)

// ISocialUsecase owns the toggle and comment mutations on shared
// collections. Every mutation goes through an atomic per-record primitive in
// the repositories; this layer adds authorization and toggle semantics.
type ISocialUsecase interface {
	ToggleLike(ctx context.Context, videoID, userID string) (model.LikeResult, error)
	ToggleFollow(ctx context.Context, actorID, targetID string) (model.FollowResult, error)
	Comments(ctx context.Context, videoID string) ([]model.CommentView, error)
	AddComment(ctx context.Context, videoID, authorID, text string) ([]model.CommentView, error)
	EditComment(ctx context.Context, videoID, commentID, editorID, text string) ([]model.CommentView, error)
	DeleteComment(ctx context.Context, videoID, commentID, requesterID string) ([]model.CommentView, error)
}

type socialUsecase struct {
	videos   repository.IVideo
	users    repository.IUser
	follows  repository.IFollow
	notifier INotificationUsecase
	views    *viewBuilder
}

func NewSocialUsecase(
	videos repository.IVideo,
	users repository.IUser,
	follows repository.IFollow,
	notifier INotificationUsecase,
	cfg configuration.Config,
) ISocialUsecase {
	return &socialUsecase{
		videos:   videos,
		users:    users,
		follows:  follows,
		notifier: notifier,
		views:    newViewBuilder(users, cfg.CDN.Domain),
	}
}

// ToggleLike flips the caller's membership in the like set. The add is
// guarded by absence and the remove by presence, so two racing toggles from
// the same user cannot double-add or double-remove.
func (u *socialUsecase) ToggleLike(ctx context.Context, videoID, userID string) (model.LikeResult, error) {
	id, err := parseVideoID(videoID)
	if err != nil {
		return model.LikeResult{}, err
	}
	user, err := parseUserID(userID)
	if err != nil {
		return model.LikeResult{}, err
	}

	video, err := u.videos.AddLike(ctx, id, user)
	if err == nil {
		u.notifier.VideoLiked(ctx, user, video)
		return model.LikeResult{LikesCount: len(video.Likes), Liked: true}, nil
	}
	if !model.IsKind(err, model.KindNotFound) {
		return model.LikeResult{}, err
	}

	// Already liked, or the video does not exist; the remove guard decides.
	video, err = u.videos.RemoveLike(ctx, id, user)
	if err != nil {
		if model.IsKind(err, model.KindNotFound) {
			return model.LikeResult{}, model.NewNotFoundError("Video not found")
		}
		return model.LikeResult{}, err
	}
	return model.LikeResult{LikesCount: len(video.Likes), Liked: false}, nil
}

// ToggleFollow flips the directed follow edge actor -> target. The edge
// collection's unique index makes each direction change a single atomic
// write; both reads of the relationship derive from the same edge.
func (u *socialUsecase) ToggleFollow(ctx context.Context, actorID, targetID string) (model.FollowResult, error) {
	actor, err := parseUserID(actorID)
	if err != nil {
		return model.FollowResult{}, err
	}
	target, err := parseUserID(targetID)
	if err != nil {
		return model.FollowResult{}, err
	}
	if actor == target {
		return model.FollowResult{}, model.NewSelfFollowError("Cannot follow yourself")
	}
	if _, err := u.users.GetByID(ctx, target); err != nil {
		return model.FollowResult{}, err
	}

	following, err := u.follows.Exists(ctx, actor, target)
	if err != nil {
		return model.FollowResult{}, err
	}

	if following {
		if _, err := u.follows.Delete(ctx, actor, target); err != nil {
			return model.FollowResult{}, err
		}
	} else {
		if _, err := u.follows.Create(ctx, actor, target); err != nil {
			return model.FollowResult{}, err
		}
	}

	count, err := u.follows.CountFollowers(ctx, target)
	if err != nil {
		return model.FollowResult{}, err
	}
	return model.FollowResult{Following: !following, FollowersCount: count}, nil
}

func (u *socialUsecase) Comments(ctx context.Context, videoID string) ([]model.CommentView, error) {
	id, err := parseVideoID(videoID)
	if err != nil {
		return nil, err
	}
	video, err := u.videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.views.commentViews(ctx, video)
}

func (u *socialUsecase) AddComment(ctx context.Context, videoID, authorID, text string) ([]model.CommentView, error) {
	id, err := parseVideoID(videoID)
	if err != nil {
		return nil, err
	}
	author, err := parseUserID(authorID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, model.NewValidationError("Comment text required")
	}

	comment := model.Comment{
		ID:        bson.NewObjectID(),
		User:      author,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	video, err := u.videos.PushComment(ctx, id, comment)
	if err != nil {
		return nil, err
	}
	u.notifier.VideoCommented(ctx, author, video)
	return u.views.commentViews(ctx, video)
}

func findComment(video model.Video, commentID bson.ObjectID) (model.Comment, bool) {
	for _, c := range video.Comments {
		if c.ID == commentID {
			return c, true
		}
	}
	return model.Comment{}, false
}

func (u *socialUsecase) EditComment(ctx context.Context, videoID, commentID, editorID, text string) ([]model.CommentView, error) {
	id, err := parseVideoID(videoID)
	if err != nil {
		return nil, err
	}
	cid, err := parseCommentID(commentID)
	if err != nil {
		return nil, err
	}
	editor, err := parseUserID(editorID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, model.NewValidationError("Comment text required")
	}

	video, err := u.videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comment, ok := findComment(video, cid)
	if !ok {
		return nil, model.NewNotFoundError("Comment not found")
	}
	if comment.User != editor {
		return nil, model.NewForbiddenError("Only the author may edit this comment")
	}

	// The author guard repeats inside the atomic update; a comment deleted
	// between the read and the write surfaces as not found.
	updated, err := u.videos.UpdateCommentText(ctx, id, cid, editor, text)
	if err != nil {
		if model.IsKind(err, model.KindNotFound) {
			return nil, model.NewNotFoundError("Comment not found")
		}
		return nil, err
	}
	return u.views.commentViews(ctx, updated)
}

func (u *socialUsecase) DeleteComment(ctx context.Context, videoID, commentID, requesterID string) ([]model.CommentView, error) {
	id, err := parseVideoID(videoID)
	if err != nil {
		return nil, err
	}
	cid, err := parseCommentID(commentID)
	if err != nil {
		return nil, err
	}
	requester, err := parseUserID(requesterID)
	if err != nil {
		return nil, err
	}

	video, err := u.videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comment, ok := findComment(video, cid)
	if !ok {
		return nil, model.NewNotFoundError("Comment not found")
	}
	if comment.User != requester && video.Owner != requester {
		return nil, model.NewForbiddenError("Only the author or the video owner may delete this comment")
	}

	updated, err := u.videos.PullComment(ctx, id, cid)
	if err != nil {
		return nil, err
	}
	return u.views.commentViews(ctx, updated)
}
