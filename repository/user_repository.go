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

// IUserRepository defines the contract for user record operations.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	SetRefreshToken(ctx context.Context, userID int, token string) error
	SwapRefreshToken(ctx context.Context, userID int, current, next string) (bool, error)
	ClearRefreshToken(ctx context.Context, userID int) error
	UpdatePassword(ctx context.Context, userID int, passwordHash string) error
	UpdateAccountDetails(ctx context.Context, userID int, fullName, email string) (*model.User, error)
	UpdateAvatar(ctx context.Context, userID int, url string) (*model.User, error)
	UpdateCoverImage(ctx context.Context, userID int, url string) (*model.User, error)
	GetChannelProfile(ctx context.Context, username string, viewerID int) (*model.ChannelProfile, error)
	AddToWatchHistory(ctx context.Context, userID, videoID int) error
	GetWatchHistory(ctx context.Context, userID int) ([]*model.WatchedVideo, error)
}

type UserRepository struct {
	store
}

func NewUserRepository(db *sql.DB, timeout time.Duration) *UserRepository {
	return &UserRepository{store: newStore(db, timeout)}
}

const userColumns = `id, username, email, fullname, avatar, cover_image, password, refresh_token, created_at, updated_at`

func scanUser(row rowScanner) (*model.User, error) {
	user := &model.User{}
	var refreshToken sql.NullString
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.Avatar,
		&user.CoverImage, &user.Password, &refreshToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if refreshToken.Valid {
		user.RefreshToken = &refreshToken.String
	}
	return user, nil
}

// CreateUser inserts a new user. A taken username or email yields ErrDuplicate.
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"username": user.Username,
		"email":    user.Email,
	})
	log.Info("Executing query to create a new user")

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO users (username, email, fullname, avatar, cover_image, password)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query, user.Username, user.Email, user.FullName, user.Avatar, user.CoverImage, user.Password).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			log.Info("Username or email already registered")
			return ErrDuplicate
		}
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

// GetUserByID returns sql.ErrNoRows when the user does not exist.
func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Log.WithError(err).WithField("user_id", id).Error("Failed to execute get user by id query")
	}
	return user, err
}

// GetUserByUsernameOrEmail matches either identifier; empty identifiers never match.
func (r *UserRepository) GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"username": username,
		"email":    email,
	})
	log.Info("Executing query to find user by username or email")

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users
		WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
		LIMIT 1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, username, email))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.WithError(err).Error("Failed to execute find user query")
	}
	return user, err
}

// SetRefreshToken overwrites the stored refresh token unconditionally.
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID int, token string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, token, userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to store refresh token")
		return err
	}
	return affectedOrNotFound(res)
}

// SwapRefreshToken replaces the stored refresh token only if it still equals current.
// It reports false when another request rotated or cleared the token first.
func (r *UserRepository) SwapRefreshToken(ctx context.Context, userID int, current, next string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE id = $2 AND refresh_token = $3`
	res, err := r.DB.ExecContext(ctx, query, next, userID, current)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to rotate refresh token")
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, userID int) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `UPDATE users SET refresh_token = NULL, updated_at = NOW() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to clear refresh token")
		return err
	}
	return affectedOrNotFound(res)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, passwordHash, userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to update password")
		return err
	}
	return affectedOrNotFound(res)
}

func (r *UserRepository) UpdateAccountDetails(ctx context.Context, userID int, fullName, email string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `UPDATE users SET fullname = $1, email = $2, updated_at = NOW() WHERE id = $3 RETURNING ` + userColumns
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, fullName, email, userID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to update account details")
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, userID int, url string) (*model.User, error) {
	return r.updateImage(ctx, userID, "avatar", url)
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, userID int, url string) (*model.User, error) {
	return r.updateImage(ctx, userID, "cover_image", url)
}

// updateImage only ever receives one of the two column names above.
func (r *UserRepository) updateImage(ctx context.Context, userID int, column, url string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `UPDATE users SET ` + column + ` = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, url, userID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"column":  column,
		}).Error("Failed to update user image")
	}
	return user, err
}

// GetChannelProfile joins the user with both sides of the subscriptions table.
// viewerID 0 means an anonymous viewer.
func (r *UserRepository) GetChannelProfile(ctx context.Context, username string, viewerID int) (*model.ChannelProfile, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT u.id, u.username, u.email, u.fullname, u.avatar, u.cover_image,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id) AS subscribers_count,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS channels_subscribed_to_count,
			EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2) AS is_subscribed
		FROM users u
		WHERE u.username = $1`

	p := &model.ChannelProfile{}
	err := r.DB.QueryRowContext(ctx, query, username, viewerID).Scan(&p.ID, &p.Username, &p.Email, &p.FullName,
		&p.Avatar, &p.CoverImage, &p.SubscribersCount, &p.ChannelsSubscribedToCount, &p.IsSubscribed)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Log.WithError(err).WithField("username", username).Error("Failed to execute channel profile query")
		}
		return nil, err
	}
	return p, nil
}

// AddToWatchHistory records a view; watching again moves the video to the front.
func (r *UserRepository) AddToWatchHistory(ctx context.Context, userID, videoID int) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO watch_history (user_id, video_id) VALUES ($1, $2)
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = NOW()`
	if _, err := r.DB.ExecContext(ctx, query, userID, videoID); err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"user_id":  userID,
			"video_id": videoID,
		}).Error("Failed to record watch history")
		return err
	}
	return nil
}

// GetWatchHistory returns the user's watched videos, most recent first, each with its owner.
func (r *UserRepository) GetWatchHistory(ctx context.Context, userID int) ([]*model.WatchedVideo, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to get watch history")

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration, v.views,
			v.is_published, v.owner_id, v.created_at, v.updated_at,
			o.id, o.username, o.fullname, o.avatar, wh.watched_at
		FROM watch_history wh
		JOIN videos v ON v.id = wh.video_id
		JOIN users o ON o.id = v.owner_id
		WHERE wh.user_id = $1
		ORDER BY wh.watched_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute watch history query")
		return nil, err
	}
	defer rows.Close()

	history := []*model.WatchedVideo{}
	for rows.Next() {
		var w model.WatchedVideo
		if err := rows.Scan(&w.ID, &w.VideoFile, &w.Thumbnail, &w.Title, &w.Description, &w.Duration, &w.Views,
			&w.IsPublished, &w.OwnerID, &w.CreatedAt, &w.UpdatedAt,
			&w.Owner.ID, &w.Owner.Username, &w.Owner.FullName, &w.Owner.Avatar, &w.WatchedAt); err != nil {
			log.WithError(err).Error("Failed to scan watch history row")
			return nil, err
		}
		history = append(history, &w)
	}
	return history, rows.Err()
}
