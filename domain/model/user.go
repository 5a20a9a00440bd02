package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is the account document. The password hash never serializes to JSON.
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string        `bson:"username" json:"username"`
	Email     string        `bson:"email" json:"email"`
	Password  string        `bson:"password" json:"-"`
	Avatar    string        `bson:"avatar" json:"avatar"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// UserRef is the short form embedded in responses when another record points
// at a user (video owner, comment author, follower lists).
type UserRef struct {
	ID       bson.ObjectID `json:"id"`
	Username string        `json:"username"`
	Avatar   string        `json:"avatar,omitempty"`
}

// DeletedUsername is rendered for references whose account no longer exists.
// Account deletion does not scrub comment author references (see DESIGN.md).
const DeletedUsername = "[deleted]"

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

// Follow is one directed edge of the follower graph. The (follower, followee)
// pair is unique, so toggling a follow is a single insert or delete.
type Follow struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Follower  bson.ObjectID `bson:"follower" json:"follower"`
	Followee  bson.ObjectID `bson:"followee" json:"followee"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

// UserUpdate carries the optional profile fields of PUT /users/me. A nil
// field leaves the stored value untouched.
type UserUpdate struct {
	Username *string
	Password *string
	Avatar   *string
}

func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Password == nil && u.Avatar == nil
}
