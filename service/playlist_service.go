package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"videotube-api/logger"
	"videotube-api/model"
	"videotube-api/repository"

	"github.com/sirupsen/logrus"
)

type PlaylistService struct {
	playlists repository.IPlaylistRepository
}

func NewPlaylistService(playlists repository.IPlaylistRepository) *PlaylistService {
	return &PlaylistService{playlists: playlists}
}

func (s *PlaylistService) CreatePlaylist(ctx context.Context, ownerID int, req model.PlaylistRequest) (*model.Playlist, error) {
	playlist := &model.Playlist{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		OwnerID:     ownerID,
		Videos:      []int{},
	}
	if err := s.playlists.CreatePlaylist(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) GetUserPlaylists(ctx context.Context, userID int) ([]*model.Playlist, error) {
	return s.playlists.ListPlaylistsByOwner(ctx, userID)
}

func (s *PlaylistService) GetPlaylist(ctx context.Context, playlistID int) (*model.Playlist, error) {
	playlist, err := s.playlists.GetPlaylistByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) UpdatePlaylist(ctx context.Context, playlistID, userID int, req model.PlaylistRequest) (*model.Playlist, error) {
	if _, err := s.ownedPlaylist(ctx, playlistID, userID); err != nil {
		return nil, err
	}
	playlist, err := s.playlists.UpdatePlaylist(ctx, playlistID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) DeletePlaylist(ctx context.Context, playlistID, userID int) error {
	if _, err := s.ownedPlaylist(ctx, playlistID, userID); err != nil {
		return err
	}
	if err := s.playlists.DeletePlaylist(ctx, playlistID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPlaylistNotFound
		}
		return err
	}
	return nil
}

func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, userID int) (*model.Playlist, error) {
	if _, err := s.ownedPlaylist(ctx, playlistID, userID); err != nil {
		return nil, err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"playlist_id": playlistID,
		"video_id":    videoID,
	})
	if err := s.playlists.AddVideo(ctx, playlistID, videoID); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrVideoInPlaylist
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	log.Info("Video added to playlist")
	return s.GetPlaylist(ctx, playlistID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, userID int) (*model.Playlist, error) {
	if _, err := s.ownedPlaylist(ctx, playlistID, userID); err != nil {
		return nil, err
	}
	if err := s.playlists.RemoveVideo(ctx, playlistID, videoID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVideoNotInPlaylist
		}
		return nil, err
	}
	return s.GetPlaylist(ctx, playlistID)
}

func (s *PlaylistService) ownedPlaylist(ctx context.Context, playlistID, userID int) (*model.Playlist, error) {
	playlist, err := s.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.OwnerID != userID {
		return nil, ErrPermissionDenied
	}
	return playlist, nil
}
