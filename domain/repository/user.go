package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"livestream-backend/domain/model"
)

// IUser is the account persistence boundary.
type IUser interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByID(ctx context.Context, id bson.ObjectID) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	// GetManyByIDs returns the users that still exist; callers tolerate holes
	// for dangling references.
	GetManyByIDs(ctx context.Context, ids []bson.ObjectID) ([]model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Update(ctx context.Context, id bson.ObjectID, update model.UserUpdate) (model.User, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	List(ctx context.Context) ([]model.User, error)
	SearchByUsername(ctx context.Context, term string) ([]model.User, error)
}
