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

// ILikeRepository defines the contract for like operations.
type ILikeRepository interface {
	ToggleLike(ctx context.Context, target model.LikeTarget, targetID, userID int) (bool, error)
	ListLikedVideos(ctx context.Context, userID int) ([]*model.Video, error)
}

type LikeRepository struct {
	store
}

func NewLikeRepository(db *sql.DB, timeout time.Duration) *LikeRepository {
	return &LikeRepository{store: newStore(db, timeout)}
}

func likeColumn(target model.LikeTarget) (string, error) {
	switch target {
	case model.LikeTargetVideo:
		return "video_id", nil
	case model.LikeTargetComment:
		return "comment_id", nil
	case model.LikeTargetTweet:
		return "tweet_id", nil
	}
	return "", fmt.Errorf("unknown like target %q", target)
}

// ToggleLike removes the user's like on the target if present, otherwise adds it.
// It reports whether the target is liked after the call.
func (r *LikeRepository) ToggleLike(ctx context.Context, target model.LikeTarget, targetID, userID int) (bool, error) {
	column, err := likeColumn(target)
	if err != nil {
		return false, err
	}
	log := logger.Log.WithFields(logrus.Fields{
		"target":    target,
		"target_id": targetID,
		"user_id":   userID,
	})

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE `+column+` = $1 AND liked_by = $2`, targetID, userID)
	if err != nil {
		log.WithError(err).Error("Failed to remove like")
		return false, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	liked := removed == 0
	if liked {
		if _, err := tx.ExecContext(ctx, `INSERT INTO likes (`+column+`, liked_by) VALUES ($1, $2)`, targetID, userID); err != nil {
			if isForeignKeyViolation(err) {
				return false, sql.ErrNoRows
			}
			log.WithError(err).Error("Failed to add like")
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("could not commit transaction: %w", err)
	}
	log.WithField("liked", liked).Info("Like toggled")
	return liked, nil
}

func (r *LikeRepository) ListLikedVideos(ctx context.Context, userID int) ([]*model.Video, error) {
	log := logger.Log.WithField("user_id", userID)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration, v.views,
			v.is_published, v.owner_id, v.created_at, v.updated_at
		FROM likes l
		JOIN videos v ON v.id = l.video_id
		WHERE l.liked_by = $1
		ORDER BY l.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute liked videos query")
		return nil, err
	}
	defer rows.Close()

	videos := []*model.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan liked video row")
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}
