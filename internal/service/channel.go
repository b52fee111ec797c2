package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/streampulse/account-service/internal/constants"
	"github.com/streampulse/account-service/internal/dto"
	"github.com/streampulse/account-service/internal/errors"
	"github.com/streampulse/account-service/internal/model"
	"github.com/streampulse/account-service/pkg/ctxutil"
	"github.com/streampulse/account-service/pkg/logger"
	"github.com/streampulse/account-service/pkg/redis"
)

const channelCacheTTL = 30 * time.Second

// ChannelLookup resolves a channel by its username.
type ChannelLookup interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// SubscriptionStore answers the count and membership questions of the
// channel profile.
type SubscriptionStore interface {
	CountSubscribers(ctx context.Context, channelID uint) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID uint) (int64, error)
	IsSubscribed(ctx context.Context, channelID, subscriberID uint) (bool, error)
}

// HistoryStore serves the watch-history join.
type HistoryStore interface {
	WatchHistory(ctx context.Context, userID uint, limit, offset int) ([]model.WatchHistoryEntry, error)
}

// ChannelService builds the two aggregated read views: the channel profile
// with subscription counts and the caller's watch history.
type ChannelService struct {
	users         ChannelLookup
	subscriptions SubscriptionStore
	history       HistoryStore
	cache         redis.Client
}

func NewChannelService(users ChannelLookup, subscriptions SubscriptionStore, history HistoryStore, cache redis.Client) *ChannelService {
	return &ChannelService{
		users:         users,
		subscriptions: subscriptions,
		history:       history,
		cache:         cache,
	}
}

// ChannelProfile aggregates a channel's identity with its subscriber
// count, the number of channels it follows, and whether the viewer is
// subscribed. viewerID zero means anonymous; anonymous viewers always see
// is_subscribed false. Results are cached per (channel, viewer) briefly.
func (s *ChannelService) ChannelProfile(ctx context.Context, username string, viewerID uint) (*dto.ChannelProfileResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ChannelProfile")

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, errors.ErrInvalidInput
	}

	cacheKey := channelCacheKey(username, viewerID)
	if cached := s.cachedProfile(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	channel, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			logger.DebugWithContext(ctx, "Channel not found").
				String("channel", username).
				Log()
			return nil, errors.ErrChannelNotFound
		}
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	subscriberCount, err := s.subscriptions.CountSubscribers(ctx, channel.ID)
	if err != nil {
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	subscribedTo, err := s.subscriptions.CountSubscribedTo(ctx, channel.ID)
	if err != nil {
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	isSubscribed := false
	if viewerID != 0 {
		isSubscribed, err = s.subscriptions.IsSubscribed(ctx, channel.ID, viewerID)
		if err != nil {
			return nil, errors.WrapError(errors.ErrInternal, err)
		}
	}

	profile := &dto.ChannelProfileResponse{
		FullName:        channel.FullName,
		Username:        channel.Username,
		Email:           channel.Email,
		AvatarURL:       channel.AvatarURL,
		CoverImageURL:   channel.CoverImageURL,
		SubscriberCount: subscriberCount,
		SubscribedTo:    subscribedTo,
		IsSubscribed:    isSubscribed,
	}

	s.storeProfile(ctx, cacheKey, profile)

	logger.InfoWithContext(ctx, "Channel profile aggregated").
		String("channel", username).
		Uint("viewer_id", viewerID).
		Int64("subscriber_count", subscriberCount).
		Bool("is_subscribed", isSubscribed).
		Log()

	return profile, nil
}

// WatchHistory returns the caller's watched videos newest first with the
// owner of each video attached. A caller with no history gets an empty
// list.
func (s *ChannelService) WatchHistory(ctx context.Context, userID uint, page, limit int) ([]dto.WatchHistoryItem, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "WatchHistory")

	offset := (page - 1) * limit
	entries, err := s.history.WatchHistory(ctx, userID, limit, offset)
	if err != nil {
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	items := make([]dto.WatchHistoryItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.WatchHistoryItem{
			VideoID:      entry.VideoID,
			Title:        entry.Title,
			Description:  entry.Description,
			VideoURL:     entry.VideoURL,
			ThumbnailURL: entry.ThumbnailURL,
			Duration:     entry.Duration,
			Views:        entry.Views,
			WatchedAt:    entry.WatchedAt,
			Owner: dto.WatchHistoryOwner{
				FullName:  entry.OwnerFullName,
				Username:  entry.OwnerUsername,
				AvatarURL: entry.OwnerAvatarURL,
			},
		})
	}

	logger.DebugWithContext(ctx, "Watch history assembled").
		Uint("history_user_id", userID).
		Int("item_count", len(items)).
		Log()

	return items, nil
}

func channelCacheKey(username string, viewerID uint) string {
	return constants.CacheKeyChannel + username + ":" + strconv.FormatUint(uint64(viewerID), 10)
}

func (s *ChannelService) cachedProfile(ctx context.Context, key string) *dto.ChannelProfileResponse {
	if s.cache == nil || !s.cache.IsEnabled() {
		return nil
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !stderrors.Is(err, redis.ErrCacheMiss) {
			logger.WarnWithContext(ctx, "Channel cache read failed").
				String("cache_key", key).
				Err(err).
				Log()
		}
		return nil
	}

	var profile dto.ChannelProfileResponse
	if err := json.Unmarshal(raw, &profile); err != nil {
		logger.WarnWithContext(ctx, "Channel cache entry unreadable").
			String("cache_key", key).
			Err(err).
			Log()
		return nil
	}

	logger.DebugWithContext(ctx, "Channel profile served from cache").
		String("cache_key", key).
		Log()

	return &profile
}

func (s *ChannelService) storeProfile(ctx context.Context, key string, profile *dto.ChannelProfileResponse) {
	if s.cache == nil || !s.cache.IsEnabled() {
		return
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, raw, channelCacheTTL); err != nil {
		logger.WarnWithContext(ctx, "Channel cache write failed").
			String("cache_key", key).
			Err(err).
			Log()
	}
}
