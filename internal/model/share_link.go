package model

import "time"

// ShareLink grants anonymous, time-bounded access to one video. Expired rows
// stay in the table and are filtered out at query time; a periodic purge
// removes them eventually.
type ShareLink struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	VideoID   uint      `gorm:"not null;index" json:"video_id"`
	Token     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Video     Video     `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ShareLink) TableName() string { return "video_links" }
