package repository

import (
	"context"
	"regexp"
	"testing"
	"time"
	"videotube-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var videoRowColumns = []string{"id", "video_file", "thumbnail", "title", "description", "duration", "views", "is_published", "owner_id", "created_at", "updated_at"}

func TestVideoRepository_ListPublishedVideos(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewVideoRepository(db, time.Second)
	now := time.Now()

	filter := model.VideoFilter{Query: "go_lang", OwnerID: 4, Page: 2, Limit: 5}

	dbMock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM videos WHERE is_published = TRUE AND owner_id = $1 AND (title ILIKE $2 OR description ILIKE $2)")).
		WithArgs(4, `%go\_lang%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))
	dbMock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT $3 OFFSET $4")).
		WithArgs(4, `%go\_lang%`, 5, 5).
		WillReturnRows(sqlmock.NewRows(videoRowColumns).
			AddRow(11, "v.mp4", "t.png", "go_lang intro", "d", 61.5, 3, true, 4, now, now))

	videos, total, err := repo.ListPublishedVideos(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	require.Len(t, videos, 1)
	assert.Equal(t, 11, videos[0].ID)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestVideoRepository_UpdateVideo_NotOwner(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewVideoRepository(db, time.Second)

	title := "new title"
	dbMock.ExpectQuery(regexp.QuoteMeta("UPDATE videos SET")).
		WithArgs("new title", nil, nil, 1, 2).
		WillReturnRows(sqlmock.NewRows(videoRowColumns))

	_, err = repo.UpdateVideo(context.Background(), 1, 2, model.UpdateVideoRequest{Title: &title})

	assert.Error(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
