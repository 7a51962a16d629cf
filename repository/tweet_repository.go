package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
	"videotube-api/logger"
	"videotube-api/model"
)

// ITweetRepository defines the contract for tweet operations.
type ITweetRepository interface {
	CreateTweet(ctx context.Context, tweet *model.Tweet) error
	GetTweetByID(ctx context.Context, id int) (*model.Tweet, error)
	ListTweetsByOwner(ctx context.Context, ownerID int) ([]*model.Tweet, error)
	UpdateTweet(ctx context.Context, id int, content string) (*model.Tweet, error)
	DeleteTweet(ctx context.Context, id int) error
}

type TweetRepository struct {
	store
}

func NewTweetRepository(db *sql.DB, timeout time.Duration) *TweetRepository {
	return &TweetRepository{store: newStore(db, timeout)}
}

const tweetColumns = `id, content, owner_id, created_at, updated_at`

func scanTweet(row rowScanner) (*model.Tweet, error) {
	t := &model.Tweet{}
	if err := row.Scan(&t.ID, &t.Content, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TweetRepository) CreateTweet(ctx context.Context, tweet *model.Tweet) error {
	log := logger.Log.WithField("owner_id", tweet.OwnerID)
	log.Info("Executing query to create a new tweet")

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO tweets (content, owner_id) VALUES ($1, $2) RETURNING id, created_at, updated_at`
	if err := r.DB.QueryRowContext(ctx, query, tweet.Content, tweet.OwnerID).Scan(&tweet.ID, &tweet.CreatedAt, &tweet.UpdatedAt); err != nil {
		log.WithError(err).Error("Failed to execute create tweet query")
		return err
	}
	return nil
}

func (r *TweetRepository) GetTweetByID(ctx context.Context, id int) (*model.Tweet, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tweet, err := scanTweet(r.DB.QueryRowContext(ctx, `SELECT `+tweetColumns+` FROM tweets WHERE id = $1`, id))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Log.WithError(err).WithField("tweet_id", id).Error("Failed to execute get tweet query")
	}
	return tweet, err
}

func (r *TweetRepository) ListTweetsByOwner(ctx context.Context, ownerID int) ([]*model.Tweet, error) {
	log := logger.Log.WithField("owner_id", ownerID)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, `SELECT `+tweetColumns+` FROM tweets WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		log.WithError(err).Error("Failed to execute list tweets query")
		return nil, err
	}
	defer rows.Close()

	tweets := []*model.Tweet{}
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan tweet row")
			return nil, err
		}
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

func (r *TweetRepository) UpdateTweet(ctx context.Context, id int, content string) (*model.Tweet, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `UPDATE tweets SET content = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + tweetColumns
	tweet, err := scanTweet(r.DB.QueryRowContext(ctx, query, content, id))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Log.WithError(err).WithField("tweet_id", id).Error("Failed to execute update tweet query")
	}
	return tweet, err
}

func (r *TweetRepository) DeleteTweet(ctx context.Context, id int) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		logger.Log.WithError(err).WithField("tweet_id", id).Error("Failed to execute delete tweet query")
		return err
	}
	return affectedOrNotFound(res)
}
