package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
	"videotube-api/logger"
	"videotube-api/model"

	"github.com/sirupsen/logrus"
)

// ICommentRepository defines the contract for comment operations.
type ICommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	ListCommentsByVideo(ctx context.Context, videoID, limit, offset int) ([]*model.Comment, error)
	UpdateComment(ctx context.Context, id, ownerID int, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, id, ownerID int) (*model.Comment, error)
}

type CommentRepository struct {
	store
}

func NewCommentRepository(db *sql.DB, timeout time.Duration) *CommentRepository {
	return &CommentRepository{store: newStore(db, timeout)}
}

const commentColumns = `id, content, video_id, owner_id, created_at, updated_at`

func scanComment(row rowScanner) (*model.Comment, error) {
	c := &model.Comment{}
	if err := row.Scan(&c.ID, &c.Content, &c.VideoID, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CommentRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	log := logger.Log.WithFields(logrus.Fields{
		"video_id": comment.VideoID,
		"owner_id": comment.OwnerID,
	})
	log.Info("Executing query to create a new comment")

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO comments (content, video_id, owner_id) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query, comment.Content, comment.VideoID, comment.OwnerID).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return sql.ErrNoRows
		}
		log.WithError(err).Error("Failed to execute create comment query")
		return err
	}
	return nil
}

func (r *CommentRepository) ListCommentsByVideo(ctx context.Context, videoID, limit, offset int) ([]*model.Comment, error) {
	log := logger.Log.WithField("video_id", videoID)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + commentColumns + ` FROM comments WHERE video_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, videoID, limit, offset)
	if err != nil {
		log.WithError(err).Error("Failed to execute list comments query")
		return nil, err
	}
	defer rows.Close()

	comments := []*model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan comment row")
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) UpdateComment(ctx context.Context, id, ownerID int, content string) (*model.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `UPDATE comments SET content = $1, updated_at = NOW() WHERE id = $2 AND owner_id = $3 RETURNING ` + commentColumns
	comment, err := scanComment(r.DB.QueryRowContext(ctx, query, content, id, ownerID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Log.WithError(err).WithField("comment_id", id).Error("Failed to execute update comment query")
	}
	return comment, err
}

func (r *CommentRepository) DeleteComment(ctx context.Context, id, ownerID int) (*model.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `DELETE FROM comments WHERE id = $1 AND owner_id = $2 RETURNING ` + commentColumns
	comment, err := scanComment(r.DB.QueryRowContext(ctx, query, id, ownerID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Log.WithError(err).WithField("comment_id", id).Error("Failed to execute delete comment query")
	}
	return comment, err
}
