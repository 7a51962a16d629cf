package service

import (
	"context"
	"database/sql"
	"errors"
	"videotube-api/model"
	"videotube-api/repository"
)

type SubscriptionService struct {
	subscriptions repository.ISubscriptionRepository
	users         repository.IUserRepository
	channels      *ChannelCache
}

func NewSubscriptionService(subscriptions repository.ISubscriptionRepository, users repository.IUserRepository, channels *ChannelCache) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, users: users, channels: channels}
}

// ToggleSubscription subscribes the user to the channel, or unsubscribes if already subscribed.
// It reports whether the user is subscribed after the call.
func (s *SubscriptionService) ToggleSubscription(ctx context.Context, subscriber *model.User, channelID int) (bool, error) {
	if subscriber.ID == channelID {
		return false, ErrSelfSubscription
	}

	channel, err := s.users.GetUserByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrChannelNotFound
		}
		return false, err
	}

	subscribed, err := s.subscriptions.ToggleSubscription(ctx, subscriber.ID, channelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrChannelNotFound
		}
		return false, err
	}

	s.channels.Invalidate(ctx, channel.Username, subscriber.Username)
	return subscribed, nil
}

func (s *SubscriptionService) GetChannelSubscribers(ctx context.Context, channelID int) ([]*model.SubscriptionEntry, error) {
	return s.subscriptions.ListSubscribers(ctx, channelID)
}

func (s *SubscriptionService) GetSubscribedChannels(ctx context.Context, subscriberID int) ([]*model.SubscriptionEntry, error) {
	return s.subscriptions.ListSubscribedChannels(ctx, subscriberID)
}
