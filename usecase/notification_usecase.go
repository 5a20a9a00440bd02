package usecase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"livestream-backend/domain/model"
	"livestream-backend/domain/repository"
	"livestream-backend/infrastructure/logger"
)

const notificationPageSize = 50

// INotificationUsecase records and serves activity notifications. All
// recording methods are best-effort: failures are logged, never returned, so
// a notification can never fail the mutation that produced it.
type INotificationUsecase interface {
	VideoLiked(ctx context.Context, sender bson.ObjectID, video model.Video)
	VideoCommented(ctx context.Context, sender bson.ObjectID, video model.Video)
	VideoPublished(ctx context.Context, video model.Video)
	ListForUser(ctx context.Context, userID string) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationUsecase struct {
	notifications repository.INotification
	follows       repository.IFollow
}

func NewNotificationUsecase(notifications repository.INotification, follows repository.IFollow) INotificationUsecase {
	return &notificationUsecase{notifications: notifications, follows: follows}
}

func (u *notificationUsecase) VideoLiked(ctx context.Context, sender bson.ObjectID, video model.Video) {
	u.record(ctx, video.Owner, sender, &video.ID, model.NotificationLike)
}

func (u *notificationUsecase) VideoCommented(ctx context.Context, sender bson.ObjectID, video model.Video) {
	u.record(ctx, video.Owner, sender, &video.ID, model.NotificationComment)
}

// VideoPublished fans out to the owner's followers once a video reaches
// COMPLETED.
func (u *notificationUsecase) VideoPublished(ctx context.Context, video model.Video) {
	followers, err := u.follows.Followers(ctx, video.Owner)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Could not load followers for publish notification")
		return
	}
	for _, follower := range followers {
		u.record(ctx, follower, video.Owner, &video.ID, model.NotificationNewVideo)
	}
}

func (u *notificationUsecase) record(ctx context.Context, recipient, sender bson.ObjectID, video *bson.ObjectID, kind model.NotificationType) {
	if recipient == sender {
		return
	}
	err := u.notifications.Create(ctx, model.Notification{
		Recipient: recipient,
		Sender:    sender,
		Video:     video,
		Type:      kind,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error": err,
			"type":  kind,
		}).Warn("Could not record notification")
	}
}

func (u *notificationUsecase) ListForUser(ctx context.Context, userID string) ([]model.Notification, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	notifications, err := u.notifications.ListByRecipient(ctx, id, notificationPageSize)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	return notifications, nil
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context, userID string) error {
	id, err := parseUserID(userID)
	if err != nil {
		return err
	}
	return u.notifications.MarkAllRead(ctx, id)
}
