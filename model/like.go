package model

import "time"

// LikeTarget names the kind of resource a like points at.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Like records that LikedBy liked exactly one video, comment or tweet.
type Like struct {
	ID        int       `json:"id"`
	VideoID   *int      `json:"video,omitempty"`
	CommentID *int      `json:"comment,omitempty"`
	TweetID   *int      `json:"tweet,omitempty"`
	LikedBy   int       `json:"likedBy"`
	CreatedAt time.Time `json:"createdAt"`
}
