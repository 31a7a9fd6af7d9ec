package repository

import (
	"errors"
	"strings"
	"time"

	"videoverse/internal/model"
	apperr "videoverse/pkg/errors"

	"gorm.io/gorm"
)

// ShareLinkRepository persists share tokens. Expiry is enforced at query
// time, never at storage time.
type ShareLinkRepository struct {
	db *gorm.DB
}

func NewShareLinkRepository(db *gorm.DB) *ShareLinkRepository {
	return &ShareLinkRepository{db: db}
}

// Insert stores a new share link. A video_id referencing no existing video
// is rejected by the store's foreign key constraint.
func (r *ShareLinkRepository) Insert(link *model.ShareLink) error {
	if err := r.db.Create(link).Error; err != nil {
		if isForeignKeyViolation(err) {
			return apperr.ForeignKey(err)
		}
		return apperr.Database(err)
	}
	return nil
}

// FindValidByToken returns the link for token only if it has not expired at
// the supplied instant; (nil, nil) otherwise. Passing the clock in keeps the
// comparison tied to the caller's query time.
func (r *ShareLinkRepository) FindValidByToken(token string, now time.Time) (*model.ShareLink, error) {
	var link model.ShareLink
	err := r.db.Where("token = ? AND expires_at > ?", token, now).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Database(err)
	}
	return &link, nil
}

// DeleteExpired removes links whose expiry has passed and reports how many
// rows went away. Resolution already filters on expiry, so purging changes
// nothing observable.
func (r *ShareLinkRepository) DeleteExpired(now time.Time) (int64, error) {
	res := r.db.Where("expires_at <= ?", now).Delete(&model.ShareLink{})
	if res.Error != nil {
		return 0, apperr.Database(res.Error)
	}
	return res.RowsAffected, nil
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	// The sqlite driver does not translate this one.
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
