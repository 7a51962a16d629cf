package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"videotube-api/logger"
	"videotube-api/model"
	"videotube-api/repository"
	"videotube-api/storage"

	"github.com/sirupsen/logrus"
)

const (
	videoFolder     = "videos"
	thumbnailFolder = "thumbnails"
)

type VideoService struct {
	videos   repository.IVideoRepository
	users    repository.IUserRepository
	uploader storage.IMediaUploader
}

func NewVideoService(videos repository.IVideoRepository, users repository.IUserRepository, uploader storage.IMediaUploader) *VideoService {
	return &VideoService{videos: videos, users: users, uploader: uploader}
}

// ListVideos returns one page of published videos.
func (s *VideoService) ListVideos(ctx context.Context, filter model.VideoFilter) (*model.VideoPage, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	filter.Query = strings.TrimSpace(filter.Query)

	videos, total, err := s.videos.ListPublishedVideos(ctx, filter)
	if err != nil {
		return nil, err
	}

	limit := int64(filter.Limit)
	return &model.VideoPage{
		Videos:      videos,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalVideos: total,
		TotalPages:  (total + limit - 1) / limit,
	}, nil
}

func (s *VideoService) PublishVideo(ctx context.Context, ownerID int, req model.PublishVideoRequest, videoFile, thumbnail *storage.File) (*model.Video, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"title":    req.Title,
	})

	if videoFile == nil || videoFile.Size <= 0 {
		return nil, ErrVideoFileRequired
	}
	if thumbnail == nil || thumbnail.Size <= 0 {
		return nil, ErrThumbnailRequired
	}

	videoRes, err := storage.UploadFile(ctx, s.uploader, videoFolder, videoFile)
	if err != nil {
		return nil, err
	}
	thumbRes, err := storage.UploadFile(ctx, s.uploader, thumbnailFolder, thumbnail)
	if err != nil {
		s.discard(ctx, videoRes.URL)
		return nil, err
	}

	video := &model.Video{
		VideoFile:   videoRes.URL,
		Thumbnail:   thumbRes.URL,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Duration:    req.Duration,
		OwnerID:     ownerID,
	}
	if err := s.videos.CreateVideo(ctx, video); err != nil {
		s.discard(ctx, videoRes.URL, thumbRes.URL)
		return nil, err
	}

	log.WithField("video_id", video.ID).Info("Video published")
	return video, nil
}

// GetVideo returns a video and counts the view. viewerID 0 means an anonymous viewer;
// unpublished videos are only visible to their owner.
func (s *VideoService) GetVideo(ctx context.Context, videoID, viewerID int) (*model.Video, error) {
	video, err := s.videos.GetVideoByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, ErrVideoNotFound
	}

	log := logger.Log.WithFields(logrus.Fields{
		"video_id":  videoID,
		"viewer_id": viewerID,
	})
	if err := s.videos.IncrementViews(ctx, videoID); err != nil {
		log.WithError(err).Warn("Could not count video view")
	} else {
		video.Views++
	}
	if viewerID > 0 {
		if err := s.users.AddToWatchHistory(ctx, viewerID, videoID); err != nil {
			log.WithError(err).Warn("Could not record watch history")
		}
	}
	return video, nil
}

// UpdateVideo changes the title, description and optionally the thumbnail of an owned video.
func (s *VideoService) UpdateVideo(ctx context.Context, videoID, ownerID int, req model.UpdateVideoRequest, thumbnail *storage.File) (*model.Video, error) {
	var uploaded, previous string
	if thumbnail != nil {
		current, err := s.videos.GetVideoByID(ctx, videoID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrVideoNotOwned
			}
			return nil, err
		}
		if current.OwnerID != ownerID {
			return nil, ErrVideoNotOwned
		}
		previous = current.Thumbnail

		res, err := storage.UploadFile(ctx, s.uploader, thumbnailFolder, thumbnail)
		if err != nil {
			return nil, err
		}
		uploaded = res.URL
		req.Thumbnail = &uploaded
	}

	video, err := s.videos.UpdateVideo(ctx, videoID, ownerID, req)
	if err != nil {
		s.discard(ctx, uploaded)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVideoNotOwned
		}
		return nil, err
	}
	if previous != uploaded {
		s.discard(ctx, previous)
	}
	return video, nil
}

func (s *VideoService) DeleteVideo(ctx context.Context, videoID, ownerID int) error {
	video, err := s.videos.DeleteVideo(ctx, videoID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVideoNotOwned
		}
		return err
	}
	s.discard(ctx, video.VideoFile, video.Thumbnail)
	logger.Log.WithField("video_id", videoID).Info("Video deleted")
	return nil
}

func (s *VideoService) TogglePublishStatus(ctx context.Context, videoID, ownerID int) (*model.Video, error) {
	video, err := s.videos.TogglePublished(ctx, videoID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVideoNotOwned
		}
		return nil, err
	}
	return video, nil
}

// discard removes uploaded media that no record points at anymore.
func (s *VideoService) discard(ctx context.Context, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := s.uploader.Delete(ctx, url); err != nil {
			logger.Log.WithError(err).WithField("url", url).Warn("Could not delete media object")
		}
	}
}
