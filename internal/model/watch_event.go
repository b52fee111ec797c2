package model

import (
	"time"

	"gorm.io/gorm"
)

// WatchEvent is one entry of a user's ordered watch history.
type WatchEvent struct {
	gorm.Model
	UserID    uint      `gorm:"column:user_id;not null;index:idx_watch_events_user"`
	VideoID   uint      `gorm:"column:video_id;not null"`
	WatchedAt time.Time `gorm:"column:watched_at;not null"`
}

// WatchHistoryEntry is the scan target for the watch-history join: one
// video row with its owner's public fields denormalized alongside.
type WatchHistoryEntry struct {
	VideoID        uint      `gorm:"column:video_id" json:"video_id"`
	Title          string    `gorm:"column:title" json:"title"`
	Description    string    `gorm:"column:description" json:"description"`
	VideoURL       string    `gorm:"column:video_url" json:"video_url"`
	ThumbnailURL   string    `gorm:"column:thumbnail_url" json:"thumbnail_url"`
	Duration       float64   `gorm:"column:duration" json:"duration"`
	Views          int64     `gorm:"column:views" json:"views"`
	WatchedAt      time.Time `gorm:"column:watched_at" json:"watched_at"`
	OwnerID        uint      `gorm:"column:owner_id" json:"-"`
	OwnerFullName  string    `gorm:"column:owner_full_name" json:"-"`
	OwnerUsername  string    `gorm:"column:owner_username" json:"-"`
	OwnerAvatarURL string    `gorm:"column:owner_avatar_url" json:"-"`
}
