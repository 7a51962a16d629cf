package handler

import (
	"net/http"
	"videotube-api/common"
	"videotube-api/model"
	"videotube-api/service"
)

type CommentHandler struct {
	service *service.CommentService
}

func NewCommentHandler(s *service.CommentService) *CommentHandler {
	return &CommentHandler{service: s}
}

// GetVideoComments godoc
// @Summary      List the comments of a video
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        videoId  path      int  true   "Video ID"
// @Param        page     query     int  false  "Page (default 1)"
// @Param        limit    query     int  false  "Page size (default 10)"
// @Success      200  {object}  common.APIResponse{data=[]model.Comment}
// @Failure      404  {object}  common.AppError "Video not found"
// @Router       /api/v1/comments/{videoId} [get]
func (h *CommentHandler) GetVideoComments(w http.ResponseWriter, r *http.Request) *common.AppError {
	videoID, appErr := pathID(r, "videoId")
	if appErr != nil {
		return appErr
	}

	comments, err := h.service.GetVideoComments(r.Context(), videoID, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		return serviceError(err, "Could not fetch comments")
	}
	common.WriteJSON(w, http.StatusOK, comments, "Comments fetched successfully")
	return nil
}

// AddComment godoc
// @Summary      Comment on a video
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        videoId  path      int                   true  "Video ID"
// @Param        body     body      model.ContentRequest  true  "Comment text"
// @Success      201  {object}  common.APIResponse{data=model.Comment}
// @Failure      400  {object}  common.AppError
// @Failure      404  {object}  common.AppError "Video not found"
// @Router       /api/v1/comments/{videoId} [post]
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	videoID, appErr := pathID(r, "videoId")
	if appErr != nil {
		return appErr
	}
	var req model.ContentRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	comment, err := h.service.AddComment(r.Context(), videoID, user.ID, req.Content)
	if err != nil {
		return serviceError(err, "Could not add comment")
	}
	common.WriteJSON(w, http.StatusCreated, comment, "Comment added successfully")
	return nil
}

// UpdateComment godoc
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        commentId  path      int                   true  "Comment ID"
// @Param        body       body      model.ContentRequest  true  "New text"
// @Success      200  {object}  common.APIResponse{data=model.Comment}
// @Failure      404  {object}  common.AppError "Comment not found or not authorized"
// @Router       /api/v1/comments/c/{commentId} [patch]
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	commentID, appErr := pathID(r, "commentId")
	if appErr != nil {
		return appErr
	}
	var req model.ContentRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	comment, err := h.service.UpdateComment(r.Context(), commentID, user.ID, req.Content)
	if err != nil {
		return serviceError(err, "Could not update comment")
	}
	common.WriteJSON(w, http.StatusOK, comment, "Comment updated successfully")
	return nil
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        commentId  path      int  true  "Comment ID"
// @Success      200  {object}  common.APIResponse{data=model.Comment}
// @Failure      404  {object}  common.AppError "Comment not found or not authorized"
// @Router       /api/v1/comments/c/{commentId} [delete]
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	commentID, appErr := pathID(r, "commentId")
	if appErr != nil {
		return appErr
	}

	comment, err := h.service.DeleteComment(r.Context(), commentID, user.ID)
	if err != nil {
		return serviceError(err, "Could not delete comment")
	}
	common.WriteJSON(w, http.StatusOK, comment, "Comment deleted successfully")
	return nil
}
