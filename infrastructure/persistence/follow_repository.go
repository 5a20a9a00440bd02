package persistence

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"livestream-backend/domain/model"
	"livestream-backend/domain/repository"
	"livestream-backend/infrastructure/logger"
)

// FollowRepository stores the follower graph as directed edges with a unique
// (follower, followee) index. Storing edges once, instead of duplicated
// arrays on both user documents, makes each toggle a single atomic write.
type FollowRepository struct {
	coll *mongo.Collection
}

func NewFollowRepository(db *mongo.Database) repository.IFollow {
	return &FollowRepository{coll: db.Collection(collFollows)}
}

func (r *FollowRepository) Create(ctx context.Context, follower, followee bson.ObjectID) (bool, error) {
	edge := model.Follow{
		ID:        bson.NewObjectID(),
		Follower:  follower,
		Followee:  followee,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, edge); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a race against an identical follow; the edge exists.
			return false, nil
		}
		logger.GetLogger().WithField("error", err).Error("mongo: insert follow edge failed")
		return false, model.NewInternalError("could not follow user", err)
	}
	return true, nil
}

func (r *FollowRepository) Delete(ctx context.Context, follower, followee bson.ObjectID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"follower": follower, "followee": followee})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: delete follow edge failed")
		return false, model.NewInternalError("could not unfollow user", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *FollowRepository) Exists(ctx context.Context, follower, followee bson.ObjectID) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"follower": follower, "followee": followee})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: check follow edge failed")
		return false, model.NewInternalError("could not check follow state", err)
	}
	return count > 0, nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, user bson.ObjectID) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"followee": user})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: count followers failed")
		return 0, model.NewInternalError("could not count followers", err)
	}
	return count, nil
}

func (r *FollowRepository) Followers(ctx context.Context, user bson.ObjectID) ([]bson.ObjectID, error) {
	return r.edgeSide(ctx, bson.M{"followee": user}, func(f model.Follow) bson.ObjectID { return f.Follower })
}

func (r *FollowRepository) Following(ctx context.Context, user bson.ObjectID) ([]bson.ObjectID, error) {
	return r.edgeSide(ctx, bson.M{"follower": user}, func(f model.Follow) bson.ObjectID { return f.Followee })
}

func (r *FollowRepository) edgeSide(ctx context.Context, filter bson.M, pick func(model.Follow) bson.ObjectID) ([]bson.ObjectID, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: query follow edges failed")
		return nil, model.NewInternalError("could not load follow edges", err)
	}
	var edges []model.Follow
	if err := cursor.All(ctx, &edges); err != nil {
		return nil, model.NewInternalError("could not decode follow edges", err)
	}
	ids := make([]bson.ObjectID, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, pick(e))
	}
	return ids, nil
}

func (r *FollowRepository) DeleteAllFor(ctx context.Context, user bson.ObjectID) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"follower": user},
		bson.M{"followee": user},
	}})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: scrub follow edges failed")
		return model.NewInternalError("could not remove follow edges", err)
	}
	return nil
}
