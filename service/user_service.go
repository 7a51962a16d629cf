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
	avatarFolder = "avatars"
	coverFolder  = "covers"
)

// UserService handles account and channel business logic.
type UserService struct {
	users    repository.IUserRepository
	auth     *AuthService
	uploader storage.IMediaUploader
	channels *ChannelCache
}

func NewUserService(users repository.IUserRepository, auth *AuthService, uploader storage.IMediaUploader, channels *ChannelCache) *UserService {
	return &UserService{
		users:    users,
		auth:     auth,
		uploader: uploader,
		channels: channels,
	}
}

// Register creates an account. The avatar is mandatory and the cover image optional.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest, avatar, cover *storage.File) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	log := logger.Log.WithFields(logrus.Fields{
		"username": username,
		"email":    email,
	})
	log.Info("Registering new user")

	_, err := s.users.GetUserByUsernameOrEmail(ctx, username, email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	avatarRes, err := storage.UploadFile(ctx, s.uploader, avatarFolder, avatar)
	if err != nil {
		log.WithError(err).Warn("Avatar upload failed")
		return nil, ErrAvatarRequired
	}

	var coverURL string
	if cover != nil {
		coverRes, err := storage.UploadFile(ctx, s.uploader, coverFolder, cover)
		if err != nil {
			log.WithError(err).Warn("Cover image upload failed, continuing without it")
		} else {
			coverURL = coverRes.URL
		}
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:   username,
		Email:      email,
		FullName:   strings.TrimSpace(req.FullName),
		Avatar:     avatarRes.URL,
		CoverImage: coverURL,
		Password:   hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		s.replaced(ctx, avatarRes.URL)
		s.replaced(ctx, coverURL)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	log.WithField("user_id", user.ID).Info("User registered")
	return user.Sanitized(), nil
}

func (s *UserService) UpdateAccount(ctx context.Context, current *model.User, req model.UpdateAccountRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.UpdateAccountDetails(ctx, current.ID, strings.TrimSpace(req.FullName), email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUserExists
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.channels.Invalidate(ctx, current.Username)
	return user.Sanitized(), nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, current *model.User, file *storage.File) (*model.User, error) {
	res, err := storage.UploadFile(ctx, s.uploader, avatarFolder, file)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyFile) {
			return nil, ErrAvatarRequired
		}
		return nil, err
	}
	user, err := s.users.UpdateAvatar(ctx, current.ID, res.URL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.replaced(ctx, current.Avatar)
	s.channels.Invalidate(ctx, current.Username)
	return user.Sanitized(), nil
}

func (s *UserService) UpdateCoverImage(ctx context.Context, current *model.User, file *storage.File) (*model.User, error) {
	res, err := storage.UploadFile(ctx, s.uploader, coverFolder, file)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyFile) {
			return nil, ErrCoverImageRequired
		}
		return nil, err
	}
	user, err := s.users.UpdateCoverImage(ctx, current.ID, res.URL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.replaced(ctx, current.CoverImage)
	s.channels.Invalidate(ctx, current.Username)
	return user.Sanitized(), nil
}

// replaced removes a superseded media object; failures only get logged.
func (s *UserService) replaced(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.uploader.Delete(ctx, url); err != nil {
		logger.Log.WithError(err).WithField("url", url).Warn("Could not delete replaced media")
	}
}

// GetChannelProfile returns the channel with its subscription counts as seen by viewerID
// (0 for anonymous viewers).
func (s *UserService) GetChannelProfile(ctx context.Context, username string, viewerID int) (*model.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, ErrUsernameMissing
	}

	if profile, ok := s.channels.Get(ctx, username, viewerID); ok {
		return profile, nil
	}

	profile, err := s.users.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}

	s.channels.Set(ctx, username, viewerID, profile)
	return profile, nil
}

func (s *UserService) GetWatchHistory(ctx context.Context, userID int) ([]*model.WatchedVideo, error) {
	return s.users.GetWatchHistory(ctx, userID)
}
