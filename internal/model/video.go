package model

import "gorm.io/gorm"

// Video is read-only from the account service's perspective; it is joined
// into watch-history results together with its owner.
type Video struct {
	gorm.Model
	OwnerID      uint    `gorm:"column:owner_id;not null;index:idx_videos_owner"`
	Title        string  `gorm:"column:title;not null"`
	Description  string  `gorm:"column:description"`
	VideoURL     string  `gorm:"column:video_url;not null"`
	ThumbnailURL string  `gorm:"column:thumbnail_url;not null"`
	Duration     float64 `gorm:"column:duration;not null"`
	Views        int64   `gorm:"column:views;default:0;not null"`
	Published    bool    `gorm:"column:published;default:true;not null"`
}
