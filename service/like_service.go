package service

import (
	"context"
	"database/sql"
	"errors"
	"videotube-api/logger"
	"videotube-api/model"
	"videotube-api/repository"

	"github.com/sirupsen/logrus"
)

type LikeService struct {
	likes repository.ILikeRepository
}

func NewLikeService(likes repository.ILikeRepository) *LikeService {
	return &LikeService{likes: likes}
}

// ToggleLike flips the user's like on a video, comment or tweet and reports the new state.
func (s *LikeService) ToggleLike(ctx context.Context, target model.LikeTarget, targetID, userID int) (bool, error) {
	liked, err := s.likes.ToggleLike(ctx, target, targetID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrLikeTargetNotFound
		}
		return false, err
	}
	logger.Log.WithFields(logrus.Fields{
		"target":    target,
		"target_id": targetID,
		"user_id":   userID,
		"liked":     liked,
	}).Info("Like toggled")
	return liked, nil
}

func (s *LikeService) GetLikedVideos(ctx context.Context, userID int) ([]*model.Video, error) {
	return s.likes.ListLikedVideos(ctx, userID)
}
