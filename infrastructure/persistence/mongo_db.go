package persistence

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"livestream-backend/infrastructure/logger"
)

const (
	collUsers         = "users"
	collVideos        = "videos"
	collFollows       = "follows"
	collNotifications = "notifications"
)

// NewMongoDb connects to MongoDB and verifies the connection with a ping.
func NewMongoDb(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetServerSelectionTimeout(10 * time.Second))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: connect failed")
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: ping failed")
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the unique and query indexes the repositories rely
// on. Uniqueness of usernames, emails and follow edges is enforced here, not
// in application code.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(collUsers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(collFollows).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "follower", Value: 1}, {Key: "followee", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "followee", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(collVideos).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(collNotifications).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}
