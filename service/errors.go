package service

import "errors"

var (
	ErrMissingIdentifier   = errors.New("username or email is required")
	ErrMissingPassword     = errors.New("password is required")
	ErrUserNotFound        = errors.New("user does not exist")
	ErrUserExists          = errors.New("user with email or username already exists")
	ErrInvalidCredentials  = errors.New("invalid user credentials")
	ErrInvalidOldPassword  = errors.New("invalid old password")
	ErrInvalidAccessToken  = errors.New("invalid access token")
	ErrMissingRefreshToken = errors.New("refresh token missing")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenUsed    = errors.New("refresh token is expired or used")
	ErrAvatarRequired      = errors.New("avatar file is required")
	ErrCoverImageRequired  = errors.New("cover image file is required")
	ErrUsernameMissing     = errors.New("username is missing")
	ErrChannelNotFound     = errors.New("channel does not exist")

	ErrVideoFileRequired   = errors.New("video file is required")
	ErrThumbnailRequired   = errors.New("thumbnail file is required")
	ErrVideoNotFound       = errors.New("video not found")
	ErrVideoNotOwned       = errors.New("video not found or not authorized")
	ErrCommentNotFound     = errors.New("comment not found or not authorized")
	ErrTweetNotFound       = errors.New("tweet not found")
	ErrPlaylistNotFound    = errors.New("playlist not found")
	ErrVideoInPlaylist     = errors.New("video already in playlist")
	ErrVideoNotInPlaylist  = errors.New("video not in playlist")
	ErrLikeTargetNotFound  = errors.New("like target not found")
	ErrSelfSubscription    = errors.New("cannot subscribe to your own channel")
	ErrPermissionDenied    = errors.New("you are not allowed to modify this resource")
)
