package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/streampulse/account-service/internal/model"
	"github.com/streampulse/account-service/pkg/ctxutil"
	"github.com/streampulse/account-service/pkg/logger"
)

// VideoRepository serves the watch history read path. Writes to videos and
// watch events belong to the catalog service; this service only joins them.
type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// WatchHistory returns the user's watched videos newest first, each joined
// with its owner's public fields. A user with no watch events gets an empty
// slice, not an error.
func (r *VideoRepository) WatchHistory(ctx context.Context, userID uint, limit, offset int) ([]model.WatchHistoryEntry, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "WatchHistory")

	logger.DebugWithContext(ctx, "Fetching watch history").
		Uint("history_user_id", userID).
		Int("limit", limit).
		Int("offset", offset).
		Log()

	start := time.Now()
	entries := make([]model.WatchHistoryEntry, 0, limit)

	err := r.db.WithContext(ctx).
		Table("watch_events").
		Select(`videos.id AS video_id,
			videos.title,
			videos.description,
			videos.video_url,
			videos.thumbnail_url,
			videos.duration,
			videos.views,
			watch_events.watched_at,
			owners.id AS owner_id,
			owners.full_name AS owner_full_name,
			owners.username AS owner_username,
			owners.avatar_url AS owner_avatar_url`).
		Joins("JOIN videos ON videos.id = watch_events.video_id AND videos.deleted_at IS NULL").
		Joins("JOIN users AS owners ON owners.id = videos.owner_id AND owners.deleted_at IS NULL").
		Where("watch_events.user_id = ? AND watch_events.deleted_at IS NULL", userID).
		Order("watch_events.watched_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&entries).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch watch history").
			Uint("history_user_id", userID).
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Watch history fetched").
		Uint("history_user_id", userID).
		Int("returned_count", len(entries)).
		Duration(duration).
		Log()

	return entries, nil
}
