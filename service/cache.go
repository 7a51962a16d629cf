package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
	"videotube-api/logger"
	"videotube-api/model"

	"github.com/redis/go-redis/v9"
)

// ICacheClient defines the contract for a cache client.
// *redis.Client satisfies it; tests run it against miniredis.
type ICacheClient interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ChannelCache stores channel profiles as one hash per channel, keyed by viewer,
// so a single delete drops every viewer's copy. A nil client disables caching.
type ChannelCache struct {
	client ICacheClient
	ttl    time.Duration
}

func NewChannelCache(client ICacheClient, ttl time.Duration) *ChannelCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ChannelCache{client: client, ttl: ttl}
}

func channelKey(username string) string {
	return "channel:" + strings.ToLower(username)
}

func (c *ChannelCache) Get(ctx context.Context, username string, viewerID int) (*model.ChannelProfile, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.HGet(ctx, channelKey(username), strconv.Itoa(viewerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.WithError(err).WithField("username", username).Warn("Channel cache read failed")
		}
		return nil, false
	}
	var profile model.ChannelProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, false
	}
	return &profile, true
}

func (c *ChannelCache) Set(ctx context.Context, username string, viewerID int, profile *model.ChannelProfile) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	key := channelKey(username)
	if err := c.client.HSet(ctx, key, strconv.Itoa(viewerID), data).Err(); err != nil {
		logger.Log.WithError(err).WithField("username", username).Warn("Channel cache write failed")
		return
	}
	c.client.Expire(ctx, key, c.ttl)
}

// Invalidate drops the cached profiles of the given channels.
func (c *ChannelCache) Invalidate(ctx context.Context, usernames ...string) {
	if c == nil || c.client == nil || len(usernames) == 0 {
		return
	}
	keys := make([]string, 0, len(usernames))
	for _, u := range usernames {
		keys = append(keys, channelKey(u))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.WithError(err).WithField("keys", keys).Warn("Channel cache invalidation failed")
	}
}
