package service

import (
	"context"
	"fmt"
	"os"

	"videoverse/internal/ffmpeg"
	"videoverse/internal/model"
	"videoverse/internal/repository"
	"videoverse/internal/storage"
	apperr "videoverse/pkg/errors"
	"videoverse/pkg/logger"

	"go.uber.org/zap"
)

const (
	TrimTypeStart = "start"
	TrimTypeEnd   = "end"
)

// TranscodeService coordinates trim and merge operations: it validates
// operands against metadata, drives the encoder through the artifact store's
// paths and registers successful outputs as new video rows. Each operation
// is a single attempt; any mid-flight failure cleans up its partial
// artifacts before surfacing.
type TranscodeService struct {
	videoRepo *repository.VideoRepository
	store     *storage.Store
	encoder   *ffmpeg.Encoder
}

type TrimRequest struct {
	VideoID  uint    `json:"videoId" binding:"required"`
	TrimType string  `json:"trimType" binding:"required"`
	Duration float64 `json:"duration" binding:"required"`
}

type TrimResult struct {
	FileName  string  `json:"fileName"`
	Duration  float64 `json:"duration"`
	WatchLink string  `json:"watchLink"`
}

type MergeRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

type MergeResult struct {
	MergedVideoID uint    `json:"mergedVideoId"`
	Duration      float64 `json:"duration"`
	WatchLink     string  `json:"watchLink"`
}

func NewTranscodeService(videoRepo *repository.VideoRepository, store *storage.Store, encoder *ffmpeg.Encoder) *TranscodeService {
	return &TranscodeService{
		videoRepo: videoRepo,
		store:     store,
		encoder:   encoder,
	}
}

// Trim produces a new artifact covering a window of the source video's
// timeline: the leading `duration` seconds for trimType "start", the
// trailing `duration` seconds for "end". All validation happens before any
// file is created.
func (s *TranscodeService) Trim(ctx context.Context, req TrimRequest) (*TrimResult, error) {
	if req.TrimType != TrimTypeStart && req.TrimType != TrimTypeEnd {
		return nil, apperr.Validation(`trimType must be "start" or "end"`)
	}
	if req.Duration <= 0 {
		return nil, apperr.Validation("duration must be positive")
	}

	video, err := s.videoRepo.FindByID(req.VideoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, apperr.NotFound("video not found")
	}
	if req.Duration > video.DurationSecs {
		return nil, apperr.Validation("trim duration exceeds video duration")
	}

	start, end := 0.0, req.Duration
	if req.TrimType == TrimTypeEnd {
		start, end = video.DurationSecs-req.Duration, video.DurationSecs
	}

	inputPath, err := s.store.Resolve(video.FilePath)
	if err != nil {
		return nil, err
	}
	outputName, err := s.store.AllocateOutputPath("trim")
	if err != nil {
		return nil, apperr.Processing(err)
	}
	outputPath, err := s.store.Resolve(outputName)
	if err != nil {
		return nil, err
	}

	if err := s.encoder.Trim(ctx, inputPath, outputPath, start, end); err != nil {
		s.store.Discard(outputPath)
		return nil, err
	}

	derived, err := s.registerArtifact(outputName, outputPath, req.Duration)
	if err != nil {
		s.store.Discard(outputPath)
		return nil, err
	}

	logger.L.Info("video trimmed",
		zap.Uint("sourceID", req.VideoID),
		zap.Uint("derivedID", derived.ID),
		zap.String("trimType", req.TrimType),
		zap.Float64("start", start),
		zap.Float64("end", end))

	return &TrimResult{
		FileName:  outputName,
		Duration:  req.Duration,
		WatchLink: watchLink(outputName),
	}, nil
}

// Merge concatenates the videos named by req.IDs in the caller's order. The
// concat manifest is allocated per invocation and removed success or
// failure; the output is removed on failure.
func (s *TranscodeService) Merge(ctx context.Context, req MergeRequest) (*MergeResult, error) {
	distinct := make(map[uint]struct{}, len(req.IDs))
	for _, id := range req.IDs {
		distinct[id] = struct{}{}
	}
	if len(distinct) < 2 {
		return nil, apperr.Validation("at least two distinct video ids are required")
	}

	ids := make([]uint, 0, len(distinct))
	for id := range distinct {
		ids = append(ids, id)
	}
	videos, err := s.videoRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(videos) != len(distinct) {
		return nil, apperr.NotFound("one or more videos not found")
	}

	byID := make(map[uint]*model.Video, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
	}
	inputPaths := make([]string, 0, len(req.IDs))
	for _, id := range req.IDs {
		abs, err := s.store.Resolve(byID[id].FilePath)
		if err != nil {
			return nil, err
		}
		inputPaths = append(inputPaths, abs)
	}

	outputName, err := s.store.AllocateOutputPath("merge")
	if err != nil {
		return nil, apperr.Processing(err)
	}
	outputPath, err := s.store.Resolve(outputName)
	if err != nil {
		return nil, err
	}
	manifestPath, err := s.store.AllocateManifestPath()
	if err != nil {
		return nil, apperr.Processing(err)
	}

	if err := s.encoder.Concat(ctx, inputPaths, manifestPath, outputPath); err != nil {
		s.store.Discard(outputPath)
		return nil, err
	}

	duration, err := s.encoder.ProbeDuration(ctx, outputPath)
	if err != nil {
		s.store.Discard(outputPath)
		return nil, err
	}

	derived, err := s.registerArtifact(outputName, outputPath, duration)
	if err != nil {
		s.store.Discard(outputPath)
		return nil, err
	}

	logger.L.Info("videos merged",
		zap.Uints("sourceIDs", req.IDs),
		zap.Uint("derivedID", derived.ID),
		zap.Float64("duration", duration))

	return &MergeResult{
		MergedVideoID: derived.ID,
		Duration:      duration,
		WatchLink:     watchLink(outputName),
	}, nil
}

// registerArtifact inserts a metadata row for a freshly produced output so
// derived videos are usable like uploads.
func (s *TranscodeService) registerArtifact(name, absPath string, duration float64) (*model.Video, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, apperr.Processing(fmt.Errorf("stat output artifact: %w", err))
	}
	video := &model.Video{
		Filename:     name,
		FilePath:     name,
		SizeMB:       float64(info.Size()) / bytesPerMB,
		DurationSecs: duration,
	}
	if err := s.videoRepo.Insert(video); err != nil {
		return nil, err
	}
	return video, nil
}

func watchLink(filename string) string {
	return "/videos/watch/" + filename
}
