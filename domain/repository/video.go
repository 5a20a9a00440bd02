package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"livestream-backend/domain/model"
)

// IVideo is the asset persistence boundary. Every mutation on shared fields
// (likes, views, comments, status) is a single field-scoped atomic update;
// there is no whole-record read-modify-write anywhere behind this interface.
type IVideo interface {
	Create(ctx context.Context, video model.Video) (model.Video, error)
	GetByID(ctx context.Context, id bson.ObjectID) (model.Video, error)

	Count(ctx context.Context, filter model.VideoFilter) (int64, error)
	List(ctx context.Context, filter model.VideoFilter, sort string, page, limit int) ([]model.Video, error)
	ListByOwner(ctx context.Context, owner bson.ObjectID, status model.VideoStatus) ([]model.Video, error)
	Search(ctx context.Context, term string, limit int) ([]model.Video, error)

	UpdateMetadata(ctx context.Context, id bson.ObjectID, update model.VideoUpdate) (model.Video, error)

	// AdvanceStatus is a compare-and-swap: the update only applies when the
	// stored status still equals from. No match returns model.ErrNoDocument
	// semantics via a not-found error.
	AdvanceStatus(ctx context.Context, id bson.ObjectID, from, to model.VideoStatus, hlsKey string) (model.Video, error)

	IncrementViews(ctx context.Context, id bson.ObjectID) error

	// AddLike adds user to the like set only if absent; RemoveLike removes it
	// only if present. Both return the updated document, or a not-found error
	// when the guard did not match.
	AddLike(ctx context.Context, id, user bson.ObjectID) (model.Video, error)
	RemoveLike(ctx context.Context, id, user bson.ObjectID) (model.Video, error)

	PushComment(ctx context.Context, id bson.ObjectID, comment model.Comment) (model.Video, error)
	// UpdateCommentText sets the text of the comment only when author still
	// owns it, preserving position and createdAt.
	UpdateCommentText(ctx context.Context, id, commentID, author bson.ObjectID, text string) (model.Video, error)
	PullComment(ctx context.Context, id, commentID bson.ObjectID) (model.Video, error)

	Delete(ctx context.Context, id bson.ObjectID) error
	// DeleteByOwner removes every video of owner and returns the deleted
	// documents so the caller can release their blobs.
	DeleteByOwner(ctx context.Context, owner bson.ObjectID) ([]model.Video, error)
}
