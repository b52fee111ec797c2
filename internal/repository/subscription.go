package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/streampulse/account-service/internal/model"
	"github.com/streampulse/account-service/pkg/ctxutil"
	"github.com/streampulse/account-service/pkg/logger"
)

// SubscriptionRepository answers the aggregate questions the channel
// profile needs: how many subscribers a channel has, how many channels a
// user follows, and whether one user follows another.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID uint) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "CountSubscribers")

	start := time.Now()
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to count subscribers").
			Uint("channel_id", channelID).
			Duration(duration).
			Err(err).
			Log()
		return 0, err
	}

	logger.DebugWithContext(ctx, "Subscribers counted").
		Uint("channel_id", channelID).
		Int64("count", count).
		Duration(duration).
		Log()

	return count, nil
}

func (r *SubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID uint) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "CountSubscribedTo")

	start := time.Now()
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to count subscribed channels").
			Uint("subscriber_id", subscriberID).
			Duration(duration).
			Err(err).
			Log()
		return 0, err
	}

	return count, nil
}

// IsSubscribed reports whether subscriberID follows channelID.
func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, channelID, subscriberID uint) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "IsSubscribed")

	start := time.Now()
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("channel_id = ? AND subscriber_id = ?", channelID, subscriberID).
		Count(&count).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to check subscription").
			Uint("channel_id", channelID).
			Uint("subscriber_id", subscriberID).
			Duration(duration).
			Err(err).
			Log()
		return false, err
	}

	return count > 0, nil
}
