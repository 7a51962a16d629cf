package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"videotube-api/model"
	"videotube-api/repository"
)

type TweetService struct {
	tweets repository.ITweetRepository
}

func NewTweetService(tweets repository.ITweetRepository) *TweetService {
	return &TweetService{tweets: tweets}
}

func (s *TweetService) CreateTweet(ctx context.Context, ownerID int, content string) (*model.Tweet, error) {
	tweet := &model.Tweet{Content: strings.TrimSpace(content), OwnerID: ownerID}
	if err := s.tweets.CreateTweet(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

func (s *TweetService) GetUserTweets(ctx context.Context, userID int) ([]*model.Tweet, error) {
	return s.tweets.ListTweetsByOwner(ctx, userID)
}

func (s *TweetService) UpdateTweet(ctx context.Context, tweetID, userID int, content string) (*model.Tweet, error) {
	if _, err := s.ownedTweet(ctx, tweetID, userID); err != nil {
		return nil, err
	}
	tweet, err := s.tweets.UpdateTweet(ctx, tweetID, strings.TrimSpace(content))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTweetNotFound
		}
		return nil, err
	}
	return tweet, nil
}

func (s *TweetService) DeleteTweet(ctx context.Context, tweetID, userID int) error {
	if _, err := s.ownedTweet(ctx, tweetID, userID); err != nil {
		return err
	}
	if err := s.tweets.DeleteTweet(ctx, tweetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTweetNotFound
		}
		return err
	}
	return nil
}

func (s *TweetService) ownedTweet(ctx context.Context, tweetID, userID int) (*model.Tweet, error) {
	tweet, err := s.tweets.GetTweetByID(ctx, tweetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTweetNotFound
		}
		return nil, err
	}
	if tweet.OwnerID != userID {
		return nil, ErrPermissionDenied
	}
	return tweet, nil
}
