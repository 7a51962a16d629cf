package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
	"videotube-api/logger"
	"videotube-api/model"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// IPlaylistRepository defines the contract for playlist operations.
type IPlaylistRepository interface {
	CreatePlaylist(ctx context.Context, playlist *model.Playlist) error
	GetPlaylistByID(ctx context.Context, id int) (*model.Playlist, error)
	ListPlaylistsByOwner(ctx context.Context, ownerID int) ([]*model.Playlist, error)
	UpdatePlaylist(ctx context.Context, id int, name, description string) (*model.Playlist, error)
	DeletePlaylist(ctx context.Context, id int) error
	AddVideo(ctx context.Context, playlistID, videoID int) error
	RemoveVideo(ctx context.Context, playlistID, videoID int) error
}

type PlaylistRepository struct {
	store
}

func NewPlaylistRepository(db *sql.DB, timeout time.Duration) *PlaylistRepository {
	return &PlaylistRepository{store: newStore(db, timeout)}
}

// The video ids are aggregated in insertion order.
const playlistSelect = `SELECT p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at,
		COALESCE(ARRAY(SELECT pv.video_id FROM playlist_videos pv WHERE pv.playlist_id = p.id ORDER BY pv.added_at), '{}') AS videos
	FROM playlists p`

func scanPlaylist(row rowScanner) (*model.Playlist, error) {
	p := &model.Playlist{}
	var videos pq.Int64Array
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &videos); err != nil {
		return nil, err
	}
	p.Videos = make([]int, 0, len(videos))
	for _, id := range videos {
		p.Videos = append(p.Videos, int(id))
	}
	return p, nil
}

func (r *PlaylistRepository) CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	log := logger.Log.WithFields(logrus.Fields{
		"owner_id": playlist.OwnerID,
		"name":     playlist.Name,
	})
	log.Info("Executing query to create a new playlist")

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO playlists (name, description, owner_id) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query, playlist.Name, playlist.Description, playlist.OwnerID).
		Scan(&playlist.ID, &playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create playlist query")
		return err
	}
	if playlist.Videos == nil {
		playlist.Videos = []int{}
	}
	return nil
}

func (r *PlaylistRepository) GetPlaylistByID(ctx context.Context, id int) (*model.Playlist, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	playlist, err := scanPlaylist(r.DB.QueryRowContext(ctx, playlistSelect+` WHERE p.id = $1`, id))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Log.WithError(err).WithField("playlist_id", id).Error("Failed to execute get playlist query")
	}
	return playlist, err
}

func (r *PlaylistRepository) ListPlaylistsByOwner(ctx context.Context, ownerID int) ([]*model.Playlist, error) {
	log := logger.Log.WithField("owner_id", ownerID)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, playlistSelect+` WHERE p.owner_id = $1 ORDER BY p.created_at DESC`, ownerID)
	if err != nil {
		log.WithError(err).Error("Failed to execute list playlists query")
		return nil, err
	}
	defer rows.Close()

	playlists := []*model.Playlist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan playlist row")
			return nil, err
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

func (r *PlaylistRepository) UpdatePlaylist(ctx context.Context, id int, name, description string) (*model.Playlist, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, `UPDATE playlists SET name = $1, description = $2, updated_at = NOW() WHERE id = $3`, name, description, id)
	if err != nil {
		logger.Log.WithError(err).WithField("playlist_id", id).Error("Failed to execute update playlist query")
		return nil, err
	}
	if err := affectedOrNotFound(res); err != nil {
		return nil, err
	}
	return scanPlaylist(r.DB.QueryRowContext(ctx, playlistSelect+` WHERE p.id = $1`, id))
}

func (r *PlaylistRepository) DeletePlaylist(ctx context.Context, id int) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		logger.Log.WithError(err).WithField("playlist_id", id).Error("Failed to execute delete playlist query")
		return err
	}
	return affectedOrNotFound(res)
}

// AddVideo appends a video; ErrDuplicate if it is already in the playlist,
// sql.ErrNoRows if the video does not exist.
func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID int) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.DB.ExecContext(ctx, `INSERT INTO playlist_videos (playlist_id, video_id) VALUES ($1, $2)`, playlistID, videoID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrDuplicate
		case isForeignKeyViolation(err):
			return sql.ErrNoRows
		}
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"playlist_id": playlistID,
			"video_id":    videoID,
		}).Error("Failed to add video to playlist")
		return err
	}
	return nil
}

// RemoveVideo is idempotent: removing a video that is not in the playlist is not an error.
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID int) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.DB.ExecContext(ctx, `DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`, playlistID, videoID)
	if err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"playlist_id": playlistID,
			"video_id":    videoID,
		}).Error("Failed to remove video from playlist")
	}
	return err
}
