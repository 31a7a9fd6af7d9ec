package repository

import (
	"errors"

	"videoverse/internal/model"
	apperr "videoverse/pkg/errors"

	"gorm.io/gorm"
)

// VideoRepository handles video metadata persistence.
type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Insert(video *model.Video) error {
	if err := r.db.Create(video).Error; err != nil {
		return apperr.Database(err)
	}
	return nil
}

// FindByID returns (nil, nil) when no video with the given id exists.
func (r *VideoRepository) FindByID(id uint) (*model.Video, error) {
	var video model.Video
	if err := r.db.First(&video, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Database(err)
	}
	return &video, nil
}

// FindByIDs returns the videos matching ids, in no particular order. Callers
// must compare the returned count against the requested count to detect
// missing operands.
func (r *VideoRepository) FindByIDs(ids []uint) ([]model.Video, error) {
	var videos []model.Video
	if err := r.db.Where("id IN ?", ids).Find(&videos).Error; err != nil {
		return nil, apperr.Database(err)
	}
	return videos, nil
}

func (r *VideoRepository) FindAll() ([]model.Video, error) {
	var videos []model.Video
	if err := r.db.Find(&videos).Error; err != nil {
		return nil, apperr.Database(err)
	}
	return videos, nil
}
