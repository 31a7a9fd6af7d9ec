package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"videoverse/internal/ffmpeg"
	"videoverse/internal/model"
	"videoverse/internal/repository"
	"videoverse/internal/storage"
	"videoverse/pkg/config"
	apperr "videoverse/pkg/errors"
	"videoverse/pkg/logger"

	"go.uber.org/zap"
)

const bytesPerMB = 1024 * 1024

// VideoService handles upload validation and the video catalog.
type VideoService struct {
	videoRepo *repository.VideoRepository
	store     *storage.Store
	encoder   *ffmpeg.Encoder
	limits    config.VideoConfig
}

type UploadResult struct {
	ID       uint    `json:"id"`
	Message  string  `json:"message"`
	Duration float64 `json:"duration"`
}

func NewVideoService(videoRepo *repository.VideoRepository, store *storage.Store, encoder *ffmpeg.Encoder, limits config.VideoConfig) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		store:     store,
		encoder:   encoder,
		limits:    limits,
	}
}

// Upload validates and stores an uploaded video file and creates its
// metadata row. Size is checked before any bytes touch disk; the duration
// check runs after the probe and removes the stored file on rejection, so a
// rejected upload never leaves a metadata row behind.
func (s *VideoService) Upload(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error) {
	if file.Size <= 0 {
		return nil, apperr.Validation("uploaded file is empty")
	}
	sizeMB := float64(file.Size) / bytesPerMB
	if sizeMB > s.limits.MaxSizeMB {
		return nil, apperr.Validation(fmt.Sprintf("file size exceeds %.0f MB limit", s.limits.MaxSizeMB))
	}

	stored, err := s.store.SaveUpload(file)
	if err != nil {
		return nil, apperr.Processing(err)
	}

	duration, err := s.encoder.ProbeDuration(ctx, stored.AbsPath)
	if err != nil {
		s.store.Discard(stored.AbsPath)
		return nil, err
	}
	if duration < s.limits.MinDurationSecs || duration > s.limits.MaxDurationSecs {
		s.store.Discard(stored.AbsPath)
		return nil, apperr.Validation(fmt.Sprintf(
			"video duration %.2fs outside allowed range [%.0fs, %.0fs]",
			duration, s.limits.MinDurationSecs, s.limits.MaxDurationSecs))
	}

	video := &model.Video{
		Filename:     stored.Filename,
		FilePath:     stored.Path,
		SizeMB:       sizeMB,
		DurationSecs: duration,
	}
	if err := s.videoRepo.Insert(video); err != nil {
		s.store.Discard(stored.AbsPath)
		return nil, err
	}

	logger.L.Info("video uploaded",
		zap.Uint("id", video.ID),
		zap.String("filename", video.Filename),
		zap.Float64("sizeMB", sizeMB),
		zap.Float64("duration", duration))

	return &UploadResult{
		ID:       video.ID,
		Message:  "Video uploaded successfully",
		Duration: duration,
	}, nil
}

func (s *VideoService) Get(id uint) (*model.Video, error) {
	video, err := s.videoRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, apperr.NotFound("video not found")
	}
	return video, nil
}

func (s *VideoService) List() ([]model.Video, error) {
	return s.videoRepo.FindAll()
}
