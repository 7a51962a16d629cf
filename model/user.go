package model

import "time"

// User is a registered account. Password holds the bcrypt hash and RefreshToken the
// single live refresh token; neither is ever serialized.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullname"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage"`
	Password     string    `json:"-"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitized returns a copy without the password hash and refresh token.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clean := *u
	clean.Password = ""
	clean.RefreshToken = nil
	return &clean
}

// HasRefreshToken reports whether token is the refresh token currently stored for the user.
func (u *User) HasRefreshToken(token string) bool {
	return u.RefreshToken != nil && token != "" && *u.RefreshToken == token
}

// UserSummary is the public owner/channel projection embedded in other resources.
type UserSummary struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
	Avatar   string `json:"avatar"`
}

// ChannelProfile is a user's public channel page with computed subscription counts.
type ChannelProfile struct {
	ID                        int    `json:"id"`
	Username                  string `json:"username"`
	Email                     string `json:"email"`
	FullName                  string `json:"fullname"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}
