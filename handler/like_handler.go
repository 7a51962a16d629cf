package handler

import (
	"errors"
	"net/http"
	"videotube-api/common"
	"videotube-api/model"
	"videotube-api/service"
)

type LikeHandler struct {
	service *service.LikeService
}

func NewLikeHandler(s *service.LikeService) *LikeHandler {
	return &LikeHandler{service: s}
}

// ToggleVideoLike godoc
// @Summary      Like or unlike a video
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        videoId  path      int  true  "Video ID"
// @Success      200  {object}  common.APIResponse{data=map[string]bool}
// @Failure      404  {object}  common.AppError "Video not found"
// @Router       /api/v1/likes/toggle/v/{videoId} [post]
func (h *LikeHandler) ToggleVideoLike(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.toggle(w, r, model.LikeTargetVideo, "videoId", "Video not found")
}

// ToggleCommentLike godoc
// @Summary      Like or unlike a comment
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        commentId  path      int  true  "Comment ID"
// @Success      200  {object}  common.APIResponse{data=map[string]bool}
// @Failure      404  {object}  common.AppError "Comment not found"
// @Router       /api/v1/likes/toggle/c/{commentId} [post]
func (h *LikeHandler) ToggleCommentLike(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.toggle(w, r, model.LikeTargetComment, "commentId", "Comment not found")
}

// ToggleTweetLike godoc
// @Summary      Like or unlike a tweet
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        tweetId  path      int  true  "Tweet ID"
// @Success      200  {object}  common.APIResponse{data=map[string]bool}
// @Failure      404  {object}  common.AppError "Tweet not found"
// @Router       /api/v1/likes/toggle/t/{tweetId} [post]
func (h *LikeHandler) ToggleTweetLike(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.toggle(w, r, model.LikeTargetTweet, "tweetId", "Tweet not found")
}

func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, target model.LikeTarget, param, notFound string) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	targetID, appErr := pathID(r, param)
	if appErr != nil {
		return appErr
	}

	liked, err := h.service.ToggleLike(r.Context(), target, targetID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrLikeTargetNotFound) {
			return common.NotFound(notFound, err)
		}
		return common.Internal("Could not toggle like", err)
	}

	message := "Like removed"
	if liked {
		message = "Like added"
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"liked": liked}, message)
	return nil
}

// LikedVideos godoc
// @Summary      List the videos the caller liked
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=[]model.Video}
// @Router       /api/v1/likes/videos [get]
func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}

	videos, err := h.service.GetLikedVideos(r.Context(), user.ID)
	if err != nil {
		return common.Internal("Could not fetch liked videos", err)
	}
	common.WriteJSON(w, http.StatusOK, videos, "Liked videos fetched successfully")
	return nil
}
