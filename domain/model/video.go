package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// VideoStatus is the processing lifecycle of an uploaded asset.
type VideoStatus string

const (
	StatusPending    VideoStatus = "PENDING"
	StatusProcessing VideoStatus = "PROCESSING"
	StatusCompleted  VideoStatus = "COMPLETED"
	StatusFailed     VideoStatus = "FAILED"
)

func (s VideoStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is a legal forward step. COMPLETED and
// FAILED are terminal.
func (s VideoStatus) CanTransitionTo(next VideoStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	}
	return false
}

// Video is the asset document. Storage keys stay internal; clients only ever
// see the derived stream URL.
type Video struct {
	ID           bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title        string          `bson:"title" json:"title"`
	Description  string          `bson:"description" json:"description"`
	Category     string          `bson:"category" json:"category"`
	Owner        bson.ObjectID   `bson:"owner" json:"owner"`
	RawKey       string          `bson:"rawKey" json:"-"`
	ThumbnailKey string          `bson:"thumbnailKey,omitempty" json:"-"`
	HLSKey       string          `bson:"hlsKey,omitempty" json:"-"`
	Status       VideoStatus     `bson:"status" json:"status"`
	Views        int64           `bson:"views" json:"views"`
	Likes        []bson.ObjectID `bson:"likes" json:"likes"`
	Comments     []Comment       `bson:"comments" json:"comments"`
	CreatedAt    time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// Comment is embedded in its video document, in insertion order.
type Comment struct {
	ID        bson.ObjectID `bson:"_id" json:"id"`
	User      bson.ObjectID `bson:"user" json:"user"`
	Text      string        `bson:"text" json:"text"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

// VideoUpdate carries the optional metadata fields of PUT /videos/:id. A nil
// field leaves the stored value untouched.
type VideoUpdate struct {
	Title       *string
	Description *string
	Category    *string
}

func (u VideoUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil
}

// VideoFilter narrows catalog queries. Catalog listings always pin
// StatusCompleted; Category "all" (or empty) means no category filter.
type VideoFilter struct {
	Status   VideoStatus
	Category string
	Search   string
}

// Catalog sort modes.
const (
	SortLatest   = "latest"
	SortOldest   = "oldest"
	SortPopular  = "popular"
	SortTrending = "trending"
)
