package service

import (
	"context"
	"database/sql"
	"testing"
	"videotube-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSubscriptionRepo struct{ mock.Mock }

func (m *mockSubscriptionRepo) ToggleSubscription(ctx context.Context, subscriberID, channelID int) (bool, error) {
	args := m.Called(ctx, subscriberID, channelID)
	return args.Bool(0), args.Error(1)
}
func (m *mockSubscriptionRepo) ListSubscribers(ctx context.Context, channelID int) ([]*model.SubscriptionEntry, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SubscriptionEntry), args.Error(1)
}
func (m *mockSubscriptionRepo) ListSubscribedChannels(ctx context.Context, subscriberID int) ([]*model.SubscriptionEntry, error) {
	args := m.Called(ctx, subscriberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SubscriptionEntry), args.Error(1)
}

func TestSubscriptionService_ToggleSubscription(t *testing.T) {
	ctx := context.Background()
	viewer := &model.User{ID: 2, Username: "bob"}

	t.Run("subscribing drops both cached channels", func(t *testing.T) {
		cache, mr := newTestChannelCache(t)
		cache.Set(ctx, "alice", 2, &model.ChannelProfile{ID: 1, Username: "alice"})
		cache.Set(ctx, "bob", 0, &model.ChannelProfile{ID: 2, Username: "bob"})

		subs := new(mockSubscriptionRepo)
		users := new(mockUserRepo)
		svc := NewSubscriptionService(subs, users, cache)
		users.On("GetUserByID", mock.Anything, 1).Return(&model.User{ID: 1, Username: "alice"}, nil).Once()
		subs.On("ToggleSubscription", mock.Anything, 2, 1).Return(true, nil).Once()

		subscribed, err := svc.ToggleSubscription(ctx, viewer, 1)

		require.NoError(t, err)
		assert.True(t, subscribed)
		assert.False(t, mr.Exists("channel:alice"))
		assert.False(t, mr.Exists("channel:bob"))
		subs.AssertExpectations(t)
	})

	t.Run("self subscription", func(t *testing.T) {
		subs := new(mockSubscriptionRepo)
		svc := NewSubscriptionService(subs, new(mockUserRepo), nil)

		_, err := svc.ToggleSubscription(ctx, viewer, 2)

		assert.ErrorIs(t, err, ErrSelfSubscription)
		subs.AssertNotCalled(t, "ToggleSubscription", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown channel", func(t *testing.T) {
		users := new(mockUserRepo)
		svc := NewSubscriptionService(new(mockSubscriptionRepo), users, nil)
		users.On("GetUserByID", mock.Anything, 50).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.ToggleSubscription(ctx, viewer, 50)

		assert.ErrorIs(t, err, ErrChannelNotFound)
	})
}

func TestChannelCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestChannelCache(t)
	profile := &model.ChannelProfile{ID: 1, Username: "alice", SubscribersCount: 3}

	_, ok := cache.Get(ctx, "alice", 5)
	assert.False(t, ok)

	cache.Set(ctx, "Alice", 5, profile)
	got, ok := cache.Get(ctx, "alice", 5)
	require.True(t, ok)
	assert.Equal(t, profile, got)

	_, ok = cache.Get(ctx, "alice", 6)
	assert.False(t, ok, "profiles are cached per viewer")
	assert.Greater(t, mr.TTL("channel:alice").Seconds(), 0.0)

	cache.Invalidate(ctx, "alice")
	_, ok = cache.Get(ctx, "alice", 5)
	assert.False(t, ok)
}
