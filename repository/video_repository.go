package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"videotube-api/logger"
	"videotube-api/model"

	"github.com/sirupsen/logrus"
)

// IVideoRepository defines the contract for video operations.
// Owner-scoped mutations return sql.ErrNoRows when the video is missing or owned by someone else.
type IVideoRepository interface {
	CreateVideo(ctx context.Context, video *model.Video) error
	GetVideoByID(ctx context.Context, id int) (*model.Video, error)
	ListPublishedVideos(ctx context.Context, filter model.VideoFilter) ([]*model.Video, int64, error)
	UpdateVideo(ctx context.Context, id, ownerID int, req model.UpdateVideoRequest) (*model.Video, error)
	DeleteVideo(ctx context.Context, id, ownerID int) (*model.Video, error)
	TogglePublished(ctx context.Context, id, ownerID int) (*model.Video, error)
	IncrementViews(ctx context.Context, id int) error
}

type VideoRepository struct {
	store
}

func NewVideoRepository(db *sql.DB, timeout time.Duration) *VideoRepository {
	return &VideoRepository{store: newStore(db, timeout)}
}

const videoColumns = `id, video_file, thumbnail, title, description, duration, views, is_published, owner_id, created_at, updated_at`

func scanVideo(row rowScanner) (*model.Video, error) {
	v := &model.Video{}
	err := row.Scan(&v.ID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description, &v.Duration, &v.Views,
		&v.IsPublished, &v.OwnerID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VideoRepository) CreateVideo(ctx context.Context, video *model.Video) error {
	log := logger.Log.WithFields(logrus.Fields{
		"owner_id": video.OwnerID,
		"title":    video.Title,
	})
	log.Info("Executing query to create a new video")

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO videos (video_file, thumbnail, title, description, duration, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, views, is_published, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query, video.VideoFile, video.Thumbnail, video.Title, video.Description, video.Duration, video.OwnerID).
		Scan(&video.ID, &video.Views, &video.IsPublished, &video.CreatedAt, &video.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create video query")
		return err
	}
	return nil
}

func (r *VideoRepository) GetVideoByID(ctx context.Context, id int) (*model.Video, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	video, err := scanVideo(r.DB.QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Log.WithError(err).WithField("video_id", id).Error("Failed to execute get video query")
	}
	return video, err
}

// ListPublishedVideos returns one page of published videos, newest first, plus the total match count.
func (r *VideoRepository) ListPublishedVideos(ctx context.Context, filter model.VideoFilter) ([]*model.Video, int64, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"query":    filter.Query,
		"owner_id": filter.OwnerID,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
	log.Info("Executing query to list published videos")

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	where := []string{"is_published = TRUE"}
	args := []interface{}{}
	if filter.OwnerID > 0 {
		args = append(args, filter.OwnerID)
		where = append(where, "owner_id = $"+itoa(len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := itoa(len(args))
		where = append(where, "(title ILIKE $"+n+" OR description ILIKE $"+n+")")
	}
	whereSQL := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`+whereSQL, args...).Scan(&total); err != nil {
		log.WithError(err).Error("Failed to count videos")
		return nil, 0, err
	}

	pageArgs := append(args, filter.Limit, filter.Offset())
	query := `SELECT ` + videoColumns + ` FROM videos` + whereSQL +
		` ORDER BY created_at DESC LIMIT $` + itoa(len(pageArgs)-1) + ` OFFSET $` + itoa(len(pageArgs))
	rows, err := r.DB.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		log.WithError(err).Error("Failed to execute list videos query")
		return nil, 0, err
	}
	defer rows.Close()

	videos := []*model.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan video row")
			return nil, 0, err
		}
		videos = append(videos, v)
	}
	return videos, total, rows.Err()
}

func (r *VideoRepository) UpdateVideo(ctx context.Context, id, ownerID int, req model.UpdateVideoRequest) (*model.Video, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `UPDATE videos SET
			title = COALESCE($1, title),
			description = COALESCE($2, description),
			thumbnail = COALESCE($3, thumbnail),
			updated_at = NOW()
		WHERE id = $4 AND owner_id = $5
		RETURNING ` + videoColumns
	video, err := scanVideo(r.DB.QueryRowContext(ctx, query, req.Title, req.Description, req.Thumbnail, id, ownerID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Log.WithError(err).WithField("video_id", id).Error("Failed to execute update video query")
	}
	return video, err
}

func (r *VideoRepository) DeleteVideo(ctx context.Context, id, ownerID int) (*model.Video, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `DELETE FROM videos WHERE id = $1 AND owner_id = $2 RETURNING ` + videoColumns
	video, err := scanVideo(r.DB.QueryRowContext(ctx, query, id, ownerID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Log.WithError(err).WithField("video_id", id).Error("Failed to execute delete video query")
	}
	return video, err
}

func (r *VideoRepository) TogglePublished(ctx context.Context, id, ownerID int) (*model.Video, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `UPDATE videos SET is_published = NOT is_published, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2 RETURNING ` + videoColumns
	video, err := scanVideo(r.DB.QueryRowContext(ctx, query, id, ownerID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Log.WithError(err).WithField("video_id", id).Error("Failed to toggle publish status")
	}
	return video, err
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id int) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		logger.Log.WithError(err).WithField("video_id", id).Error("Failed to increment views")
		return err
	}
	return affectedOrNotFound(res)
}
