package handler

import (
	"net/http"
	"videotube-api/common"
	"videotube-api/service"
)

type SubscriptionHandler struct {
	service *service.SubscriptionService
}

func NewSubscriptionHandler(s *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: s}
}

// ToggleSubscription godoc
// @Summary      Subscribe to or unsubscribe from a channel
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        channelId  path      int  true  "Channel (user) ID"
// @Success      200  {object}  common.APIResponse{data=map[string]bool} "Unsubscribed"
// @Success      201  {object}  common.APIResponse{data=map[string]bool} "Subscribed"
// @Failure      400  {object}  common.AppError "Self subscription"
// @Failure      404  {object}  common.AppError "Channel does not exist"
// @Router       /api/v1/subscriptions/c/{channelId} [post]
func (h *SubscriptionHandler) ToggleSubscription(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	channelID, appErr := pathID(r, "channelId")
	if appErr != nil {
		return appErr
	}

	subscribed, err := h.service.ToggleSubscription(r.Context(), user, channelID)
	if err != nil {
		return serviceError(err, "Could not toggle subscription")
	}

	if subscribed {
		common.WriteJSON(w, http.StatusCreated, map[string]bool{"subscribed": true}, "Subscribed successfully")
		return nil
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"subscribed": false}, "Unsubscribed successfully")
	return nil
}

// ChannelSubscribers godoc
// @Summary      List the subscribers of a channel
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        channelId  path      int  true  "Channel (user) ID"
// @Success      200  {object}  common.APIResponse{data=[]model.SubscriptionEntry}
// @Router       /api/v1/subscriptions/c/{channelId} [get]
func (h *SubscriptionHandler) ChannelSubscribers(w http.ResponseWriter, r *http.Request) *common.AppError {
	channelID, appErr := pathID(r, "channelId")
	if appErr != nil {
		return appErr
	}

	entries, err := h.service.GetChannelSubscribers(r.Context(), channelID)
	if err != nil {
		return common.Internal("Could not fetch subscribers", err)
	}
	common.WriteJSON(w, http.StatusOK, entries, "Subscribers fetched successfully")
	return nil
}

// SubscribedChannels godoc
// @Summary      List the channels a user subscribed to
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        subscriberId  path      int  true  "Subscriber (user) ID"
// @Success      200  {object}  common.APIResponse{data=[]model.SubscriptionEntry}
// @Router       /api/v1/subscriptions/u/{subscriberId} [get]
func (h *SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) *common.AppError {
	subscriberID, appErr := pathID(r, "subscriberId")
	if appErr != nil {
		return appErr
	}

	entries, err := h.service.GetSubscribedChannels(r.Context(), subscriberID)
	if err != nil {
		return common.Internal("Could not fetch subscribed channels", err)
	}
	common.WriteJSON(w, http.StatusOK, entries, "Subscribed channels fetched successfully")
	return nil
}
