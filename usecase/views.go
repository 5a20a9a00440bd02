package usecase

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"livestream-backend/domain/model"
	"livestream-backend/domain/repository"
)

// viewBuilder resolves user references (video owners, comment authors) into
// response shapes. Accounts deleted since the reference was written resolve
// to a tombstone username instead of failing the request.
type viewBuilder struct {
	users     repository.IUser
	cdnDomain string
}

func newViewBuilder(users repository.IUser, cdnDomain string) *viewBuilder {
	return &viewBuilder{users: users, cdnDomain: cdnDomain}
}

// publicURL composes the delivery URL for a stored key, stripping one
// trailing slash from the configured domain.
func (b *viewBuilder) publicURL(key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimSuffix(b.cdnDomain, "/") + "/" + key
}

func (b *viewBuilder) userRefs(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]model.UserRef, error) {
	users, err := b.users.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	refs := make(map[bson.ObjectID]model.UserRef, len(users))
	for _, u := range users {
		refs[u.ID] = u.Ref()
	}
	return refs, nil
}

func resolveRef(refs map[bson.ObjectID]model.UserRef, id bson.ObjectID) model.UserRef {
	if ref, ok := refs[id]; ok {
		return ref
	}
	return model.UserRef{ID: id, Username: model.DeletedUsername}
}

func (b *viewBuilder) videoView(ctx context.Context, video model.Video) (model.VideoView, error) {
	views, err := b.videoViews(ctx, []model.Video{video})
	if err != nil {
		return model.VideoView{}, err
	}
	return views[0], nil
}

func (b *viewBuilder) videoViews(ctx context.Context, videos []model.Video) ([]model.VideoView, error) {
	seen := make(map[bson.ObjectID]struct{})
	var ids []bson.ObjectID
	add := func(id bson.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, v := range videos {
		add(v.Owner)
		for _, c := range v.Comments {
			add(c.User)
		}
	}

	refs, err := b.userRefs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]model.VideoView, 0, len(videos))
	for _, v := range videos {
		comments := make([]model.CommentView, 0, len(v.Comments))
		for _, c := range v.Comments {
			comments = append(comments, model.CommentView{
				ID:        c.ID,
				Author:    resolveRef(refs, c.User),
				Text:      c.Text,
				CreatedAt: c.CreatedAt,
			})
		}
		views = append(views, model.VideoView{
			ID:          v.ID,
			Title:       v.Title,
			Description: v.Description,
			Category:    v.Category,
			Owner:       resolveRef(refs, v.Owner),
			Thumbnail:   b.publicURL(v.ThumbnailKey),
			Status:      v.Status,
			Views:       v.Views,
			LikesCount:  len(v.Likes),
			Comments:    comments,
			CreatedAt:   v.CreatedAt,
			UpdatedAt:   v.UpdatedAt,
		})
	}
	return views, nil
}

func (b *viewBuilder) commentViews(ctx context.Context, video model.Video) ([]model.CommentView, error) {
	view, err := b.videoView(ctx, video)
	if err != nil {
		return nil, err
	}
	return view.Comments, nil
}

func parseVideoID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, model.NewValidationError("Invalid video ID")
	}
	return oid, nil
}

func parseUserID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, model.NewValidationError("Invalid user ID")
	}
	return oid, nil
}

func parseCommentID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, model.NewValidationError("Invalid comment ID")
	}
	return oid, nil
}
