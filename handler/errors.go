package handler

import (
	"errors"
	"net/http"
	"videotube-api/common"
	"videotube-api/service"
)

var serviceErrors = []struct {
	err     error
	code    int
	message string
}{
	{service.ErrMissingIdentifier, http.StatusBadRequest, "username or email is required"},
	{service.ErrMissingPassword, http.StatusBadRequest, "Password is required"},
	{service.ErrUserNotFound, http.StatusNotFound, "User does not exist"},
	{service.ErrUserExists, http.StatusConflict, "User with email or username already exists"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid user credentials"},
	{service.ErrInvalidOldPassword, http.StatusBadRequest, "Invalid old password"},
	{service.ErrInvalidAccessToken, http.StatusUnauthorized, "Invalid access token"},
	{service.ErrMissingRefreshToken, http.StatusUnauthorized, "Refresh token missing"},
	{service.ErrInvalidRefreshToken, http.StatusUnauthorized, "Invalid refresh token"},
	{service.ErrRefreshTokenUsed, http.StatusUnauthorized, "Refresh token is expired or used"},
	{service.ErrAvatarRequired, http.StatusBadRequest, "Avatar file is required"},
	{service.ErrCoverImageRequired, http.StatusBadRequest, "Cover image file is required"},
	{service.ErrUsernameMissing, http.StatusBadRequest, "username is missing"},
	{service.ErrChannelNotFound, http.StatusNotFound, "Channel does not exist"},
	{service.ErrVideoFileRequired, http.StatusBadRequest, "Video file is required"},
	{service.ErrThumbnailRequired, http.StatusBadRequest, "Thumbnail is required"},
	{service.ErrVideoNotFound, http.StatusNotFound, "Video not found"},
	{service.ErrVideoNotOwned, http.StatusNotFound, "Video not found or not authorized"},
	{service.ErrCommentNotFound, http.StatusNotFound, "Comment not found or not authorized"},
	{service.ErrTweetNotFound, http.StatusNotFound, "Tweet not found"},
	{service.ErrPlaylistNotFound, http.StatusNotFound, "Playlist not found"},
	{service.ErrVideoInPlaylist, http.StatusConflict, "Video already in playlist"},
	{service.ErrVideoNotInPlaylist, http.StatusNotFound, "Video not in playlist"},
	{service.ErrLikeTargetNotFound, http.StatusNotFound, "Resource to like not found"},
	{service.ErrSelfSubscription, http.StatusBadRequest, "You cannot subscribe to your own channel"},
	{service.ErrPermissionDenied, http.StatusForbidden, "You are not allowed to modify this resource"},
}

// serviceError maps a service sentinel to its HTTP error; anything unknown is a 500 with fallback as message.
func serviceError(err error, fallback string) *common.AppError {
	for _, se := range serviceErrors {
		if errors.Is(err, se.err) {
			return common.NewAppError(se.code, se.message, err)
		}
	}
	return common.Internal(fallback, err)
}
