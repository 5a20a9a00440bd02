package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"livestream-backend/domain/model"
)

// INotification persists activity records.
type INotification interface {
	Create(ctx context.Context, notification model.Notification) error
	ListByRecipient(ctx context.Context, recipient bson.ObjectID, limit int) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, recipient bson.ObjectID) error
}
