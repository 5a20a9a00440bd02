package model

import (
	"io"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Request payloads bound by the HTTP layer.

type ReqRegister struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ReqLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ReqUpdateProfile struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Avatar   *string `json:"avatar"`
}

type ReqUpdateVideo struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

type ReqComment struct {
	Text string `json:"text"`
}

type ReqAdvanceStatus struct {
	Status VideoStatus `json:"status"`
	HLSKey string      `json:"hlsKey"`
}

// FileUpload is one multipart part handed to the lifecycle engine. The
// reader is consumed exactly once by the blob write.
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// ReqIngest is the POST /videos payload after multipart decoding.
type ReqIngest struct {
	Title       string
	Description string
	Category    string
	Video       *FileUpload
	Thumbnail   *FileUpload
}

// Response shapes.

// CommentView is a comment with its author resolved.
type CommentView struct {
	ID        bson.ObjectID `json:"id"`
	Author    UserRef       `json:"author"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"createdAt"`
}

// VideoView is a video with owner and comment authors resolved.
type VideoView struct {
	ID          bson.ObjectID `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Owner       UserRef       `json:"owner"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
	Status      VideoStatus   `json:"status"`
	Views       int64         `json:"views"`
	LikesCount  int           `json:"likesCount"`
	Comments    []CommentView `json:"comments"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

type VideoPage struct {
	Data       []VideoView `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Profile is a user with derived follow lists and their completed videos.
type Profile struct {
	User      User        `json:"user"`
	Followers []UserRef   `json:"followers"`
	Following []UserRef   `json:"following"`
	Videos    []VideoView `json:"videos"`
}

type LikeResult struct {
	LikesCount int  `json:"likesCount"`
	Liked      bool `json:"liked"`
}

type FollowResult struct {
	Following      bool  `json:"following"`
	FollowersCount int64 `json:"followersCount"`
}

type StreamResponse struct {
	StreamURL string  `json:"streamUrl"`
	Owner     UserRef `json:"owner"`
}

type SearchResult struct {
	Users  []UserRef   `json:"users"`
	Videos []VideoView `json:"videos"`
}
