package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type NotificationType string

const (
	NotificationNewVideo NotificationType = "NEW_VIDEO"
	NotificationLike     NotificationType = "LIKE"
	NotificationComment  NotificationType = "COMMENT"
)

// Notification is a best-effort activity record; writes never fail the
// mutation that triggered them.
type Notification struct {
	ID        bson.ObjectID    `bson:"_id,omitempty" json:"id"`
	Recipient bson.ObjectID    `bson:"recipient" json:"recipient"`
	Sender    bson.ObjectID    `bson:"sender" json:"sender"`
	Video     *bson.ObjectID   `bson:"video,omitempty" json:"video,omitempty"`
	Type      NotificationType `bson:"type" json:"type"`
	IsRead    bool             `bson:"isRead" json:"isRead"`
	CreatedAt time.Time        `bson:"createdAt" json:"createdAt"`
}
