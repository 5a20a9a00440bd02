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

// UserRepository is the MongoDB implementation of repository.IUser.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) repository.IUser {
	return &UserRepository{coll: db.Collection(collUsers)}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	now := time.Now().UTC()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, model.NewValidationError("User already exists")
		}
		logger.GetLogger().WithField("error", err).Error("mongo: insert user failed")
		return model.User{}, model.NewInternalError("could not create user", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id bson.ObjectID) (model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (model.User, error) {
	var u model.User
	err := r.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, model.NewNotFoundError("User not found")
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: query user failed")
		return model.User{}, model.NewInternalError("could not load user", err)
	}
	return u, nil
}

func (r *UserRepository) GetManyByIDs(ctx context.Context, ids []bson.ObjectID) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: query users by ids failed")
		return nil, model.NewInternalError("could not load users", err)
	}
	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, model.NewInternalError("could not decode users", err)
	}
	return users, nil
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: count users failed")
		return false, model.NewInternalError("could not check user existence", err)
	}
	return count > 0, nil
}

func (r *UserRepository) Update(ctx context.Context, id bson.ObjectID, update model.UserUpdate) (model.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Username != nil {
		set["username"] = *update.Username
	}
	if update.Password != nil {
		set["password"] = *update.Password
	}
	if update.Avatar != nil {
		set["avatar"] = *update.Avatar
	}

	var u model.User
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, model.NewNotFoundError("User not found")
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, model.NewValidationError("Username already exists")
		}
		logger.GetLogger().WithField("error", err).Error("mongo: update user failed")
		return model.User{}, model.NewInternalError("could not update user", err)
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: delete user failed")
		return model.NewInternalError("could not delete user", err)
	}
	if res.DeletedCount == 0 {
		return model.NewNotFoundError("User not found")
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: list users failed")
		return nil, model.NewInternalError("could not list users", err)
	}
	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, model.NewInternalError("could not decode users", err)
	}
	return users, nil
}

func (r *UserRepository) SearchByUsername(ctx context.Context, term string) ([]model.User, error) {
	filter := bson.M{"username": bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: search users failed")
		return nil, model.NewInternalError("could not search users", err)
	}
	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, model.NewInternalError("could not decode users", err)
	}
	return users, nil
}
