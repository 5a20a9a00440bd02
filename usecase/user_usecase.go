package usecase

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"livestream-backend/domain/model"
	"livestream-backend/domain/repository"
	"livestream-backend/infrastructure/configuration"
	"livestream-backend/infrastructure/logger"
)

// IUserUsecase owns accounts: registration, login, profiles, profile edits
// and the cascading account delete.
type IUserUsecase interface {
	Register(ctx context.Context, req model.ReqRegister) (model.AuthResponse, error)
	Login(ctx context.Context, req model.ReqLogin) (model.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req model.ReqUpdateProfile) (model.User, error)
	DeleteAccount(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userUsecase struct {
	users     repository.IUser
	videos    repository.IVideo
	follows   repository.IFollow
	store     repository.IObjectStore
	views     *viewBuilder
	secretKey string
	tokenTTL  time.Duration
}

func NewUserUsecase(
	users repository.IUser,
	videos repository.IVideo,
	follows repository.IFollow,
	store repository.IObjectStore,
	cfg configuration.Config,
) IUserUsecase {
	return &userUsecase{
		users:     users,
		videos:    videos,
		follows:   follows,
		store:     store,
		views:     newViewBuilder(users, cfg.CDN.Domain),
		secretKey: cfg.App.SecretKey,
		tokenTTL:  cfg.App.TokenTTL,
	}
}

func (u *userUsecase) signToken(user model.User) (string, error) {
	claims := model.UserClaims{
		ID:       user.ID.Hex(),
		Username: user.Username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(u.tokenTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.secretKey))
	if err != nil {
		return "", model.NewInternalError("could not issue token", err)
	}
	return token, nil
}

func (u *userUsecase) Register(ctx context.Context, req model.ReqRegister) (model.AuthResponse, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return model.AuthResponse{}, model.NewValidationError("All fields required")
	}

	exists, err := u.users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if exists {
		return model.AuthResponse{}, model.NewValidationError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.AuthResponse{}, model.NewInternalError("could not hash password", err)
	}

	user, err := u.users.Create(ctx, model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
	})
	if err != nil {
		return model.AuthResponse{}, err
	}

	token, err := u.signToken(user)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{Token: token, User: user}, nil
}

// Login never reveals whether the email exists: a missing account and a
// wrong password fail identically.
func (u *userUsecase) Login(ctx context.Context, req model.ReqLogin) (model.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return model.AuthResponse{}, model.NewValidationError("All fields required")
	}

	user, err := u.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if model.IsKind(err, model.KindNotFound) {
			return model.AuthResponse{}, model.NewAuthenticationError("Invalid email or password")
		}
		return model.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, model.NewAuthenticationError("Invalid email or password")
	}

	token, err := u.signToken(user)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{Token: token, User: user}, nil
}

func (u *userUsecase) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return model.Profile{}, err
	}
	user, err := u.users.GetByID(ctx, id)
	if err != nil {
		return model.Profile{}, err
	}

	followers, err := u.followRefs(ctx, id, u.follows.Followers)
	if err != nil {
		return model.Profile{}, err
	}
	following, err := u.followRefs(ctx, id, u.follows.Following)
	if err != nil {
		return model.Profile{}, err
	}

	videos, err := u.videos.ListByOwner(ctx, id, model.StatusCompleted)
	if err != nil {
		return model.Profile{}, err
	}
	views, err := u.views.videoViews(ctx, videos)
	if err != nil {
		return model.Profile{}, err
	}
	if views == nil {
		views = []model.VideoView{}
	}

	return model.Profile{User: user, Followers: followers, Following: following, Videos: views}, nil
}

func (u *userUsecase) followRefs(ctx context.Context, id bson.ObjectID, side func(context.Context, bson.ObjectID) ([]bson.ObjectID, error)) ([]model.UserRef, error) {
	ids, err := side(ctx, id)
	if err != nil {
		return nil, err
	}
	refs, err := u.views.userRefs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserRef, 0, len(ids))
	for _, rid := range ids {
		out = append(out, resolveRef(refs, rid))
	}
	return out, nil
}

func (u *userUsecase) UpdateProfile(ctx context.Context, userID string, req model.ReqUpdateProfile) (model.User, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return model.User{}, err
	}

	update := model.UserUpdate{Avatar: req.Avatar}
	if req.Username != nil {
		if *req.Username == "" {
			return model.User{}, model.NewValidationError("Username cannot be empty")
		}
		existing, err := u.users.GetByUsername(ctx, *req.Username)
		if err == nil && existing.ID != id {
			return model.User{}, model.NewValidationError("Username already exists")
		}
		if err != nil && !model.IsKind(err, model.KindNotFound) {
			return model.User{}, err
		}
		update.Username = req.Username
	}
	if req.Password != nil {
		if *req.Password == "" {
			return model.User{}, model.NewValidationError("Password cannot be empty")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return model.User{}, model.NewInternalError("could not hash password", err)
		}
		hashed := string(hash)
		update.Password = &hashed
	}

	if update.Empty() {
		return u.users.GetByID(ctx, id)
	}
	return u.users.Update(ctx, id, update)
}

// DeleteAccount cascades: the user's videos and their blobs go, every follow
// edge touching the user is scrubbed, then the account itself. Comment
// author references on other videos are left dangling and render as a
// tombstone.
func (u *userUsecase) DeleteAccount(ctx context.Context, userID string) error {
	id, err := parseUserID(userID)
	if err != nil {
		return err
	}

	videos, err := u.videos.DeleteByOwner(ctx, id)
	if err != nil {
		return err
	}
	for _, v := range videos {
		for _, key := range []string{v.RawKey, v.ThumbnailKey} {
			if key == "" {
				continue
			}
			if err := u.store.Remove(ctx, key); err != nil {
				logger.GetLogger().WithFields(map[string]interface{}{"error": err, "key": key}).Warn("Could not delete blob during account removal")
			}
		}
	}

	if err := u.follows.DeleteAllFor(ctx, id); err != nil {
		return err
	}
	return u.users.Delete(ctx, id)
}

func (u *userUsecase) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}
