package persistence

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"livestream-backend/domain/model"
	"livestream-backend/domain/repository"
	"livestream-backend/infrastructure/logger"
)

// VideoRepository is the MongoDB implementation of repository.IVideo. Shared
// collections (likes, comments, views) and the status field are only ever
// touched with field-scoped atomic operators, so concurrent mutations on the
// same document serialize inside the storage engine.
type VideoRepository struct {
	coll *mongo.Collection
}

func NewVideoRepository(db *mongo.Database) repository.IVideo {
	return &VideoRepository{coll: db.Collection(collVideos)}
}

func (r *VideoRepository) Create(ctx context.Context, video model.Video) (model.Video, error) {
	now := time.Now().UTC()
	video.ID = bson.NewObjectID()
	video.CreatedAt = now
	video.UpdatedAt = now
	if video.Likes == nil {
		video.Likes = []bson.ObjectID{}
	}
	if video.Comments == nil {
		video.Comments = []model.Comment{}
	}

	if _, err := r.coll.InsertOne(ctx, video); err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: insert video failed")
		return model.Video{}, model.NewInternalError("could not create video", err)
	}
	return video, nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id bson.ObjectID) (model.Video, error) {
	var v model.Video
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Video{}, model.NewNotFoundError("Video not found")
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: query video failed")
		return model.Video{}, model.NewInternalError("could not load video", err)
	}
	return v, nil
}

func buildFilter(filter model.VideoFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" && filter.Category != "all" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		query["title"] = bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
	}
	return query
}

func (r *VideoRepository) Count(ctx context.Context, filter model.VideoFilter) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: count videos failed")
		return 0, model.NewInternalError("could not count videos", err)
	}
	return total, nil
}

func (r *VideoRepository) List(ctx context.Context, filter model.VideoFilter, sort string, page, limit int) ([]model.Video, error) {
	order := bson.D{{Key: "createdAt", Value: -1}}
	switch sort {
	case model.SortOldest:
		order = bson.D{{Key: "createdAt", Value: 1}}
	case model.SortPopular:
		order = bson.D{{Key: "views", Value: -1}}
	}

	opts := options.Find().
		SetSort(order).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: list videos failed")
		return nil, model.NewInternalError("could not list videos", err)
	}
	var videos []model.Video
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, model.NewInternalError("could not decode videos", err)
	}
	return videos, nil
}

func (r *VideoRepository) ListByOwner(ctx context.Context, owner bson.ObjectID, status model.VideoStatus) ([]model.Video, error) {
	filter := bson.M{"owner": owner}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: list videos by owner failed")
		return nil, model.NewInternalError("could not list videos", err)
	}
	var videos []model.Video
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, model.NewInternalError("could not decode videos", err)
	}
	return videos, nil
}

func (r *VideoRepository) Search(ctx context.Context, term string, limit int) ([]model.Video, error) {
	filter := bson.M{
		"status": model.StatusCompleted,
		"title":  bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"},
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: search videos failed")
		return nil, model.NewInternalError("could not search videos", err)
	}
	var videos []model.Video
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, model.NewInternalError("could not decode videos", err)
	}
	return videos, nil
}

func (r *VideoRepository) UpdateMetadata(ctx context.Context, id bson.ObjectID, update model.VideoUpdate) (model.Video, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

func (r *VideoRepository) AdvanceStatus(ctx context.Context, id bson.ObjectID, from, to model.VideoStatus, hlsKey string) (model.Video, error) {
	set := bson.M{"status": to, "updatedAt": time.Now().UTC()}
	if hlsKey != "" {
		set["hlsKey"] = hlsKey
	}
	// The expected source status in the filter makes this a compare-and-swap:
	// a concurrent transition that got there first leaves nothing to match.
	return r.findOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id bson.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: increment views failed")
		return model.NewInternalError("could not record view", err)
	}
	return nil
}

func (r *VideoRepository) AddLike(ctx context.Context, id, user bson.ObjectID) (model.Video, error) {
	// Guarded by absence: a racing duplicate add matches nothing.
	return r.findOneAndUpdate(ctx,
		bson.M{"_id": id, "likes": bson.M{"$ne": user}},
		bson.M{"$addToSet": bson.M{"likes": user}},
	)
}

func (r *VideoRepository) RemoveLike(ctx context.Context, id, user bson.ObjectID) (model.Video, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"_id": id, "likes": user},
		bson.M{"$pull": bson.M{"likes": user}},
	)
}

func (r *VideoRepository) PushComment(ctx context.Context, id bson.ObjectID, comment model.Comment) (model.Video, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"comments": comment}},
	)
}

func (r *VideoRepository) UpdateCommentText(ctx context.Context, id, commentID, author bson.ObjectID, text string) (model.Video, error) {
	// The author guard lives in the filter, so an edit racing a delete or a
	// reassignment simply matches nothing.
	filter := bson.M{
		"_id":      id,
		"comments": bson.M{"$elemMatch": bson.M{"_id": commentID, "user": author}},
	}
	update := bson.M{"$set": bson.M{"comments.$.text": text}}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *VideoRepository) PullComment(ctx context.Context, id, commentID bson.ObjectID) (model.Video, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}},
	)
}

func (r *VideoRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (model.Video, error) {
	var v model.Video
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Video{}, model.NewNotFoundError("Video not found")
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: update video failed")
		return model.Video{}, model.NewInternalError("could not update video", err)
	}
	return v, nil
}

func (r *VideoRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: delete video failed")
		return model.NewInternalError("could not delete video", err)
	}
	if res.DeletedCount == 0 {
		return model.NewNotFoundError("Video not found")
	}
	return nil
}

func (r *VideoRepository) DeleteByOwner(ctx context.Context, owner bson.ObjectID) ([]model.Video, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"owner": owner})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: query videos by owner failed")
		return nil, model.NewInternalError("could not load videos", err)
	}
	var videos []model.Video
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, model.NewInternalError("could not decode videos", err)
	}
	if _, err := r.coll.DeleteMany(ctx, bson.M{"owner": owner}); err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: delete videos by owner failed")
		return nil, model.NewInternalError("could not delete videos", err)
	}
	return videos, nil
}
