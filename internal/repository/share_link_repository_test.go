package repository

import (
	"testing"
	"time"

	"videoverse/internal/model"
	apperr "videoverse/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShareLink(videoID uint, expiresAt time.Time) *model.ShareLink {
	return &model.ShareLink{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		Token:     uuid.NewString(),
		ExpiresAt: expiresAt,
	}
}

func TestShareLinkRepository_Insert(t *testing.T) {
	database := newTestDB(t)
	videoRepo := NewVideoRepository(database)
	linkRepo := NewShareLinkRepository(database)

	video := insertTestVideo(t, videoRepo, "a.mp4")
	link := newShareLink(video.ID, time.Now().Add(10*time.Minute))
	require.NoError(t, linkRepo.Insert(link))
	assert.False(t, link.CreatedAt.IsZero())
}

func TestShareLinkRepository_InsertMissingVideo(t *testing.T) {
	linkRepo := NewShareLinkRepository(newTestDB(t))

	err := linkRepo.Insert(newShareLink(9999, time.Now().Add(10*time.Minute)))
	require.Error(t, err)
	code, ok := apperr.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeForeignKey, code)
}

func TestShareLinkRepository_FindValidByToken(t *testing.T) {
	database := newTestDB(t)
	videoRepo := NewVideoRepository(database)
	linkRepo := NewShareLinkRepository(database)

	video := insertTestVideo(t, videoRepo, "a.mp4")
	link := newShareLink(video.ID, time.Now().Add(10*time.Minute))
	require.NoError(t, linkRepo.Insert(link))

	found, err := linkRepo.FindValidByToken(link.Token, time.Now())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, video.ID, found.VideoID)
}

func TestShareLinkRepository_FindValidByTokenExpired(t *testing.T) {
	database := newTestDB(t)
	videoRepo := NewVideoRepository(database)
	linkRepo := NewShareLinkRepository(database)

	video := insertTestVideo(t, videoRepo, "a.mp4")
	link := newShareLink(video.ID, time.Now().Add(10*time.Minute))
	require.NoError(t, linkRepo.Insert(link))

	// Same token, different query-time clocks.
	beforeExpiry, err := linkRepo.FindValidByToken(link.Token, link.ExpiresAt.Add(-time.Second))
	require.NoError(t, err)
	assert.NotNil(t, beforeExpiry)

	atExpiry, err := linkRepo.FindValidByToken(link.Token, link.ExpiresAt)
	require.NoError(t, err)
	assert.Nil(t, atExpiry)

	afterExpiry, err := linkRepo.FindValidByToken(link.Token, link.ExpiresAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Nil(t, afterExpiry)
}

func TestShareLinkRepository_FindValidByTokenUnknown(t *testing.T) {
	linkRepo := NewShareLinkRepository(newTestDB(t))

	found, err := linkRepo.FindValidByToken("no-such-token", time.Now())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestShareLinkRepository_DeleteExpired(t *testing.T) {
	database := newTestDB(t)
	videoRepo := NewVideoRepository(database)
	linkRepo := NewShareLinkRepository(database)

	video := insertTestVideo(t, videoRepo, "a.mp4")
	now := time.Now()
	require.NoError(t, linkRepo.Insert(newShareLink(video.ID, now.Add(-time.Minute))))
	require.NoError(t, linkRepo.Insert(newShareLink(video.ID, now.Add(-time.Hour))))
	live := newShareLink(video.ID, now.Add(time.Hour))
	require.NoError(t, linkRepo.Insert(live))

	purged, err := linkRepo.DeleteExpired(now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	found, err := linkRepo.FindValidByToken(live.Token, now)
	require.NoError(t, err)
	assert.NotNil(t, found)
}
