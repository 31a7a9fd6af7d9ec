package service

import (
	"fmt"
	"time"

	"videoverse/internal/model"
	"videoverse/internal/repository"
	"videoverse/pkg/config"
	apperr "videoverse/pkg/errors"
	"videoverse/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShareService issues and resolves time-limited share tokens.
type ShareService struct {
	videoRepo *repository.VideoRepository
	linkRepo  *repository.ShareLinkRepository
	server    config.ServerConfig
}

type ShareRequest struct {
	ID uint `json:"id" binding:"required"`
	// ExpiresIn is the token lifetime in minutes.
	ExpiresIn int `json:"expiresIn" binding:"required"`
}

type ShareResult struct {
	Message    string    `json:"message"`
	SharedLink string    `json:"sharedLink"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

func NewShareService(videoRepo *repository.VideoRepository, linkRepo *repository.ShareLinkRepository, server config.ServerConfig) *ShareService {
	return &ShareService{
		videoRepo: videoRepo,
		linkRepo:  linkRepo,
		server:    server,
	}
}

// Generate issues a token for the given video with the requested TTL,
// computed against this node's clock at issue time.
func (s *ShareService) Generate(req ShareRequest) (*ShareResult, error) {
	if req.ExpiresIn <= 0 {
		return nil, apperr.Validation("expiresIn must be a positive number of minutes")
	}

	video, err := s.videoRepo.FindByID(req.ID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, apperr.NotFound("video not found")
	}

	link := &model.ShareLink{
		ID:        uuid.NewString(),
		VideoID:   video.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Duration(req.ExpiresIn) * time.Minute),
	}
	if err := s.linkRepo.Insert(link); err != nil {
		return nil, err
	}

	logger.L.Info("share link generated",
		zap.Uint("videoID", video.ID),
		zap.Time("expiresAt", link.ExpiresAt))

	return &ShareResult{
		Message:    "Link generated",
		SharedLink: fmt.Sprintf("%s:%d/videos/share/%s", s.server.BaseURL, s.server.Port, link.Token),
		ExpiresAt:  link.ExpiresAt,
	}, nil
}

// Resolve maps a token to its video if the token is still valid. A token
// that never existed and a token that has expired produce the same error, so
// expired links reveal nothing.
func (s *ShareService) Resolve(token string) (*model.Video, error) {
	link, err := s.linkRepo.FindValidByToken(token, time.Now())
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, apperr.NotFound("invalid or expired link")
	}

	video, err := s.videoRepo.FindByID(link.VideoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, apperr.NotFound("video not found")
	}
	return video, nil
}

// PurgeExpired deletes links that can no longer resolve.
func (s *ShareService) PurgeExpired() (int64, error) {
	return s.linkRepo.DeleteExpired(time.Now())
}
