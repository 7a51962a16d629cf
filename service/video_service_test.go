package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"videotube-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVideoService_ListVideos(t *testing.T) {
	repo := new(mockVideoRepo)
	svc := NewVideoService(repo, new(mockUserRepo), &fakeUploader{})

	expected := model.VideoFilter{Query: "cats", Page: 1, Limit: 10}
	repo.On("ListPublishedVideos", mock.Anything, expected).
		Return([]*model.Video{{ID: 1}, {ID: 2}}, int64(21), nil).Once()

	page, err := svc.ListVideos(context.Background(), model.VideoFilter{Query: " cats "})

	require.NoError(t, err)
	assert.Len(t, page.Videos, 2)
	assert.Equal(t, int64(21), page.TotalVideos)
	assert.Equal(t, int64(3), page.TotalPages)
	repo.AssertExpectations(t)
}

func TestVideoService_PublishVideo(t *testing.T) {
	ctx := context.Background()
	req := model.PublishVideoRequest{Title: "Intro", Description: "first", Duration: 12.5}

	t.Run("success", func(t *testing.T) {
		repo := new(mockVideoRepo)
		uploader := &fakeUploader{}
		svc := NewVideoService(repo, new(mockUserRepo), uploader)
		repo.On("CreateVideo", mock.Anything, mock.MatchedBy(func(v *model.Video) bool {
			return v.OwnerID == 5 && v.Duration == 12.5 && v.VideoFile != "" && v.Thumbnail != ""
		})).Return(nil).Once()

		video, err := svc.PublishVideo(ctx, 5, req, testFile("clip.mp4", "frames"), testFile("t.png", "thumb"))

		require.NoError(t, err)
		assert.Equal(t, "Intro", video.Title)
		assert.Len(t, uploader.uploads, 2)
		repo.AssertExpectations(t)
	})

	t.Run("thumbnail required", func(t *testing.T) {
		repo := new(mockVideoRepo)
		svc := NewVideoService(repo, new(mockUserRepo), &fakeUploader{})

		_, err := svc.PublishVideo(ctx, 5, req, testFile("clip.mp4", "frames"), nil)

		assert.ErrorIs(t, err, ErrThumbnailRequired)
		repo.AssertNotCalled(t, "CreateVideo")
	})

	t.Run("store failure removes uploads", func(t *testing.T) {
		repo := new(mockVideoRepo)
		uploader := &fakeUploader{}
		svc := NewVideoService(repo, new(mockUserRepo), uploader)
		repo.On("CreateVideo", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		_, err := svc.PublishVideo(ctx, 5, req, testFile("clip.mp4", "frames"), testFile("t.png", "thumb"))

		assert.Error(t, err)
		assert.Len(t, uploader.deleted, 2)
	})
}

func TestVideoService_GetVideo(t *testing.T) {
	ctx := context.Background()

	t.Run("counts view and records history", func(t *testing.T) {
		videos := new(mockVideoRepo)
		users := new(mockUserRepo)
		svc := NewVideoService(videos, users, &fakeUploader{})
		videos.On("GetVideoByID", mock.Anything, 3).Return(&model.Video{ID: 3, OwnerID: 1, IsPublished: true, Views: 4}, nil).Once()
		videos.On("IncrementViews", mock.Anything, 3).Return(nil).Once()
		users.On("AddToWatchHistory", mock.Anything, 9, 3).Return(nil).Once()

		video, err := svc.GetVideo(ctx, 3, 9)

		require.NoError(t, err)
		assert.Equal(t, int64(5), video.Views)
		videos.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("anonymous viewer has no history", func(t *testing.T) {
		videos := new(mockVideoRepo)
		users := new(mockUserRepo)
		svc := NewVideoService(videos, users, &fakeUploader{})
		videos.On("GetVideoByID", mock.Anything, 3).Return(&model.Video{ID: 3, OwnerID: 1, IsPublished: true}, nil).Once()
		videos.On("IncrementViews", mock.Anything, 3).Return(nil).Once()

		_, err := svc.GetVideo(ctx, 3, 0)

		require.NoError(t, err)
		users.AssertNotCalled(t, "AddToWatchHistory")
	})

	t.Run("unpublished video hidden from others", func(t *testing.T) {
		videos := new(mockVideoRepo)
		svc := NewVideoService(videos, new(mockUserRepo), &fakeUploader{})
		videos.On("GetVideoByID", mock.Anything, 3).Return(&model.Video{ID: 3, OwnerID: 1}, nil).Once()

		_, err := svc.GetVideo(ctx, 3, 2)

		assert.ErrorIs(t, err, ErrVideoNotFound)
		videos.AssertNotCalled(t, "IncrementViews")
	})

	t.Run("missing video", func(t *testing.T) {
		videos := new(mockVideoRepo)
		svc := NewVideoService(videos, new(mockUserRepo), &fakeUploader{})
		videos.On("GetVideoByID", mock.Anything, 8).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.GetVideo(ctx, 8, 0)

		assert.ErrorIs(t, err, ErrVideoNotFound)
	})
}

func TestVideoService_OwnerScopedMutations(t *testing.T) {
	ctx := context.Background()
	videos := new(mockVideoRepo)
	uploader := &fakeUploader{}
	svc := NewVideoService(videos, new(mockUserRepo), uploader)

	videos.On("DeleteVideo", mock.Anything, 3, 2).Return(nil, sql.ErrNoRows).Once()
	videos.On("TogglePublished", mock.Anything, 3, 2).Return(nil, sql.ErrNoRows).Once()
	videos.On("DeleteVideo", mock.Anything, 3, 1).
		Return(&model.Video{ID: 3, VideoFile: "http://cdn.test/v.mp4", Thumbnail: "http://cdn.test/t.png"}, nil).Once()

	assert.ErrorIs(t, svc.DeleteVideo(ctx, 3, 2), ErrVideoNotOwned)
	_, err := svc.TogglePublishStatus(ctx, 3, 2)
	assert.ErrorIs(t, err, ErrVideoNotOwned)

	require.NoError(t, svc.DeleteVideo(ctx, 3, 1))
	assert.ElementsMatch(t, []string{"http://cdn.test/v.mp4", "http://cdn.test/t.png"}, uploader.deleted)
	videos.AssertExpectations(t)
}

func TestVideoService_UpdateVideo(t *testing.T) {
	ctx := context.Background()
	title := "new title"
	req := model.UpdateVideoRequest{Title: &title}

	t.Run("replaced thumbnail is discarded", func(t *testing.T) {
		videos := new(mockVideoRepo)
		uploader := &fakeUploader{}
		svc := NewVideoService(videos, new(mockUserRepo), uploader)

		videos.On("GetVideoByID", mock.Anything, 3).
			Return(&model.Video{ID: 3, OwnerID: 1, Thumbnail: "http://cdn.test/old.png"}, nil).Once()
		videos.On("UpdateVideo", mock.Anything, 3, 1, mock.Anything).
			Return(&model.Video{ID: 3, OwnerID: 1, Title: title}, nil).Once()

		_, err := svc.UpdateVideo(ctx, 3, 1, req, testFile("new.png", "thumb"))

		require.NoError(t, err)
		require.Len(t, uploader.uploads, 1)
		assert.Equal(t, []string{"http://cdn.test/old.png"}, uploader.deleted)
		videos.AssertExpectations(t)
	})

	t.Run("text only update keeps media", func(t *testing.T) {
		videos := new(mockVideoRepo)
		uploader := &fakeUploader{}
		svc := NewVideoService(videos, new(mockUserRepo), uploader)

		videos.On("UpdateVideo", mock.Anything, 3, 1, req).Return(&model.Video{ID: 3, Title: title}, nil).Once()

		_, err := svc.UpdateVideo(ctx, 3, 1, req, nil)

		require.NoError(t, err)
		assert.Empty(t, uploader.deleted)
		videos.AssertExpectations(t)
	})

	t.Run("foreign video uploads nothing", func(t *testing.T) {
		videos := new(mockVideoRepo)
		uploader := &fakeUploader{}
		svc := NewVideoService(videos, new(mockUserRepo), uploader)

		videos.On("GetVideoByID", mock.Anything, 3).Return(&model.Video{ID: 3, OwnerID: 2}, nil).Once()

		_, err := svc.UpdateVideo(ctx, 3, 1, req, testFile("new.png", "thumb"))

		assert.ErrorIs(t, err, ErrVideoNotOwned)
		assert.Empty(t, uploader.uploads)
		assert.Empty(t, uploader.deleted)
		videos.AssertNotCalled(t, "UpdateVideo", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed update keeps the old thumbnail", func(t *testing.T) {
		videos := new(mockVideoRepo)
		uploader := &fakeUploader{}
		svc := NewVideoService(videos, new(mockUserRepo), uploader)

		videos.On("GetVideoByID", mock.Anything, 3).
			Return(&model.Video{ID: 3, OwnerID: 1, Thumbnail: "http://cdn.test/old.png"}, nil).Once()
		videos.On("UpdateVideo", mock.Anything, 3, 1, mock.Anything).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.UpdateVideo(ctx, 3, 1, req, testFile("new.png", "thumb"))

		assert.ErrorIs(t, err, ErrVideoNotOwned)
		require.Len(t, uploader.uploads, 1)
		assert.Equal(t, []string{"http://cdn.test/" + uploader.uploads[0]}, uploader.deleted)
	})
}
