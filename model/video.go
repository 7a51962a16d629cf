package model

import "time"

type Video struct {
	ID          int       `json:"id"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	OwnerID     int       `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WatchedVideo is a watch-history entry: the video joined with its owner.
type WatchedVideo struct {
	Video
	Owner     UserSummary `json:"ownerDetails"`
	WatchedAt time.Time   `json:"watchedAt"`
}

// VideoFilter selects published videos for the public listing.
type VideoFilter struct {
	Query   string
	OwnerID int
	Page    int
	Limit   int
}

// Offset returns the row offset of the requested page.
func (f VideoFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type VideoPage struct {
	Videos      []*Video `json:"videos"`
	Page        int      `json:"page"`
	Limit       int      `json:"limit"`
	TotalVideos int64    `json:"totalVideos"`
	TotalPages  int64    `json:"totalPages"`
}
