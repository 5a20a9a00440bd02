package persistence

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"livestream-backend/domain/model"
	"livestream-backend/domain/repository"
	"livestream-backend/infrastructure/logger"
)

type NotificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) repository.INotification {
	return &NotificationRepository{coll: db.Collection(collNotifications)}
}

func (r *NotificationRepository) Create(ctx context.Context, notification model.Notification) error {
	notification.ID = bson.NewObjectID()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, notification); err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: insert notification failed")
		return model.NewInternalError("could not create notification", err)
	}
	return nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipient bson.ObjectID, limit int) ([]model.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: list notifications failed")
		return nil, model.NewInternalError("could not list notifications", err)
	}
	var notifications []model.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, model.NewInternalError("could not decode notifications", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipient bson.ObjectID) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"recipient": recipient, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: mark notifications read failed")
		return model.NewInternalError("could not mark notifications read", err)
	}
	return nil
}
