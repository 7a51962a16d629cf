package handler

import (
	"net/http"
	"videotube-api/common"
	"videotube-api/model"
	"videotube-api/service"
)

type TweetHandler struct {
	service *service.TweetService
}

func NewTweetHandler(s *service.TweetService) *TweetHandler {
	return &TweetHandler{service: s}
}

// CreateTweet godoc
// @Summary      Post a tweet
// @Tags         tweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      model.ContentRequest  true  "Tweet text"
// @Success      201  {object}  common.APIResponse{data=model.Tweet}
// @Failure      400  {object}  common.AppError
// @Router       /api/v1/tweets [post]
func (h *TweetHandler) CreateTweet(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	var req model.ContentRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	tweet, err := h.service.CreateTweet(r.Context(), user.ID, req.Content)
	if err != nil {
		return common.Internal("Could not create tweet", err)
	}
	common.WriteJSON(w, http.StatusCreated, tweet, "Tweet created successfully")
	return nil
}

// UserTweets godoc
// @Summary      List a user's tweets
// @Tags         tweets
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID"
// @Success      200  {object}  common.APIResponse{data=[]model.Tweet}
// @Router       /api/v1/tweets/user/{userId} [get]
func (h *TweetHandler) UserTweets(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := pathID(r, "userId")
	if appErr != nil {
		return appErr
	}

	tweets, err := h.service.GetUserTweets(r.Context(), userID)
	if err != nil {
		return common.Internal("Could not fetch tweets", err)
	}
	common.WriteJSON(w, http.StatusOK, tweets, "Tweets fetched successfully")
	return nil
}

// UpdateTweet godoc
// @Summary      Edit a tweet
// @Tags         tweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tweetId  path      int                   true  "Tweet ID"
// @Param        body     body      model.ContentRequest  true  "New text"
// @Success      200  {object}  common.APIResponse{data=model.Tweet}
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError "Tweet not found"
// @Router       /api/v1/tweets/{tweetId} [patch]
func (h *TweetHandler) UpdateTweet(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	tweetID, appErr := pathID(r, "tweetId")
	if appErr != nil {
		return appErr
	}
	var req model.ContentRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	tweet, err := h.service.UpdateTweet(r.Context(), tweetID, user.ID, req.Content)
	if err != nil {
		return serviceError(err, "Could not update tweet")
	}
	common.WriteJSON(w, http.StatusOK, tweet, "Tweet updated successfully")
	return nil
}

// DeleteTweet godoc
// @Summary      Delete a tweet
// @Tags         tweets
// @Produce      json
// @Security     BearerAuth
// @Param        tweetId  path      int  true  "Tweet ID"
// @Success      200  {object}  common.APIResponse
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError "Tweet not found"
// @Router       /api/v1/tweets/{tweetId} [delete]
func (h *TweetHandler) DeleteTweet(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	tweetID, appErr := pathID(r, "tweetId")
	if appErr != nil {
		return appErr
	}

	if err := h.service.DeleteTweet(r.Context(), tweetID, user.ID); err != nil {
		return serviceError(err, "Could not delete tweet")
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{}, "Tweet deleted successfully")
	return nil
}
