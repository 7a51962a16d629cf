package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"videotube-api/logger"
	"videotube-api/model"

	"github.com/sirupsen/logrus"
)

// ISubscriptionRepository defines the contract for subscription operations.
type ISubscriptionRepository interface {
	ToggleSubscription(ctx context.Context, subscriberID, channelID int) (bool, error)
	ListSubscribers(ctx context.Context, channelID int) ([]*model.SubscriptionEntry, error)
	ListSubscribedChannels(ctx context.Context, subscriberID int) ([]*model.SubscriptionEntry, error)
}

type SubscriptionRepository struct {
	store
}

func NewSubscriptionRepository(db *sql.DB, timeout time.Duration) *SubscriptionRepository {
	return &SubscriptionRepository{store: newStore(db, timeout)}
}

// ToggleSubscription unsubscribes if a subscription exists, otherwise subscribes.
// It reports whether the subscriber follows the channel after the call;
// a missing channel yields sql.ErrNoRows.
func (r *SubscriptionRepository) ToggleSubscription(ctx context.Context, subscriberID, channelID int) (bool, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"subscriber_id": subscriberID,
		"channel_id":    channelID,
	})

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`, subscriberID, channelID)
	if err != nil {
		log.WithError(err).Error("Failed to remove subscription")
		return false, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	subscribed := removed == 0
	if subscribed {
		_, err := tx.ExecContext(ctx, `INSERT INTO subscriptions (subscriber_id, channel_id) VALUES ($1, $2)`, subscriberID, channelID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return false, sql.ErrNoRows
			}
			log.WithError(err).Error("Failed to add subscription")
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("could not commit transaction: %w", err)
	}
	log.WithField("subscribed", subscribed).Info("Subscription toggled")
	return subscribed, nil
}

// ListSubscribers returns the users subscribed to channelID.
func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, channelID int) ([]*model.SubscriptionEntry, error) {
	query := `SELECT s.id, s.subscriber_id, s.channel_id, s.created_at, u.id, u.username, u.fullname, u.avatar
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC`
	return r.list(ctx, query, channelID)
}

// ListSubscribedChannels returns the channels subscriberID follows.
func (r *SubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID int) ([]*model.SubscriptionEntry, error) {
	query := `SELECT s.id, s.subscriber_id, s.channel_id, s.created_at, u.id, u.username, u.fullname, u.avatar
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC`
	return r.list(ctx, query, subscriberID)
}

func (r *SubscriptionRepository) list(ctx context.Context, query string, id int) ([]*model.SubscriptionEntry, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, query, id)
	if err != nil {
		logger.Log.WithError(err).WithField("id", id).Error("Failed to execute subscriptions query")
		return nil, err
	}
	defer rows.Close()

	entries := []*model.SubscriptionEntry{}
	for rows.Next() {
		var e model.SubscriptionEntry
		if err := rows.Scan(&e.ID, &e.SubscriberID, &e.ChannelID, &e.CreatedAt,
			&e.User.ID, &e.User.Username, &e.User.FullName, &e.User.Avatar); err != nil {
			logger.Log.WithError(err).Error("Failed to scan subscription row")
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
