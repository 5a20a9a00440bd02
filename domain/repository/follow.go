package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// IFollow stores directed follow edges with a unique (follower, followee)
// constraint. Both sides of the relationship derive from this one collection,
// so a toggle is a single atomic write.
type IFollow interface {
	// Create inserts the edge; inserting an existing edge is a no-op reported
	// as created=false.
	Create(ctx context.Context, follower, followee bson.ObjectID) (created bool, err error)
	// Delete removes the edge and reports whether it existed.
	Delete(ctx context.Context, follower, followee bson.ObjectID) (deleted bool, err error)
	Exists(ctx context.Context, follower, followee bson.ObjectID) (bool, error)
	CountFollowers(ctx context.Context, user bson.ObjectID) (int64, error)
	Followers(ctx context.Context, user bson.ObjectID) ([]bson.ObjectID, error)
	Following(ctx context.Context, user bson.ObjectID) ([]bson.ObjectID, error)
	// DeleteAllFor scrubs every edge touching user, both directions.
	DeleteAllFor(ctx context.Context, user bson.ObjectID) error
}
