package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"videotube-api/model"
	"videotube-api/repository"
)

type CommentService struct {
	comments repository.ICommentRepository
	videos   repository.IVideoRepository
}

func NewCommentService(comments repository.ICommentRepository, videos repository.IVideoRepository) *CommentService {
	return &CommentService{comments: comments, videos: videos}
}

// GetVideoComments returns one page of a video's comments, newest first.
func (s *CommentService) GetVideoComments(ctx context.Context, videoID, page, limit int) ([]*model.Comment, error) {
	if _, err := s.videos.GetVideoByID(ctx, videoID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	page, limit = normalizePage(page, limit)
	return s.comments.ListCommentsByVideo(ctx, videoID, limit, (page-1)*limit)
}

func (s *CommentService) AddComment(ctx context.Context, videoID, ownerID int, content string) (*model.Comment, error) {
	comment := &model.Comment{
		Content: strings.TrimSpace(content),
		VideoID: videoID,
		OwnerID: ownerID,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, commentID, ownerID int, content string) (*model.Comment, error) {
	comment, err := s.comments.UpdateComment(ctx, commentID, ownerID, strings.TrimSpace(content))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID, ownerID int) (*model.Comment, error) {
	comment, err := s.comments.DeleteComment(ctx, commentID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}
