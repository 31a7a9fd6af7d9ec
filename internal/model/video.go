package model

import "time"

// Video is a stored media asset. Trimmed and merged outputs become regular
// Video rows once the encoder finishes, so they can be shared and merged
// like any upload.
type Video struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Filename     string    `gorm:"type:text;not null" json:"filename"`
	FilePath     string    `gorm:"type:text;not null" json:"file_path"`
	SizeMB       float64   `gorm:"column:size;not null" json:"size"`
	DurationSecs float64   `gorm:"column:duration;not null" json:"duration"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Video) TableName() string { return "videos" }
