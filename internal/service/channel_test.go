package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "github.com/streampulse/account-service/internal/errors"
	"github.com/streampulse/account-service/internal/model"
	"github.com/streampulse/account-service/pkg/redis"
)

type fakeChannelLookup struct {
	channels map[string]*model.User
}

func (f *fakeChannelLookup) GetByUsername(_ context.Context, username string) (*model.User, error) {
	channel, ok := f.channels[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return channel, nil
}

type fakeSubscriptionStore struct {
	subscribers   int64
	subscribedTo  int64
	memberships   map[[2]uint]bool // (channelID, subscriberID)
	membershipErr error
}

func (f *fakeSubscriptionStore) CountSubscribers(_ context.Context, _ uint) (int64, error) {
	return f.subscribers, nil
}

func (f *fakeSubscriptionStore) CountSubscribedTo(_ context.Context, _ uint) (int64, error) {
	return f.subscribedTo, nil
}

func (f *fakeSubscriptionStore) IsSubscribed(_ context.Context, channelID, subscriberID uint) (bool, error) {
	if f.membershipErr != nil {
		return false, f.membershipErr
	}
	return f.memberships[[2]uint{channelID, subscriberID}], nil
}

type fakeHistoryStore struct {
	entries []model.WatchHistoryEntry
}

func (f *fakeHistoryStore) WatchHistory(_ context.Context, _ uint, limit, offset int) ([]model.WatchHistoryEntry, error) {
	if offset >= len(f.entries) {
		return []model.WatchHistoryEntry{}, nil
	}
	end := offset + limit
	if end > len(f.entries) {
		end = len(f.entries)
	}
	return f.entries[offset:end], nil
}

// fakeCache is an in-memory redis.Client for cache path tests.
type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Ping(_ context.Context) error { return nil }

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := f.entries[key]
	if !ok {
		return nil, redis.ErrCacheMiss
	}
	return value, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

func (f *fakeCache) DeleteByPattern(_ context.Context, _ string) error {
	f.entries = make(map[string][]byte)
	return nil
}

func (f *fakeCache) IsEnabled() bool { return true }
func (f *fakeCache) Close() error    { return nil }

func channelFixture() *model.User {
	channel := &model.User{
		FullName:      "Grace Hopper",
		Username:      "grace",
		Email:         "grace@example.com",
		AvatarURL:     "https://assets.example.com/avatars/grace.png",
		CoverImageURL: "https://assets.example.com/covers/grace.jpg",
	}
	channel.ID = 7
	return channel
}

func TestChannelProfile(t *testing.T) {
	channel := channelFixture()
	lookup := &fakeChannelLookup{channels: map[string]*model.User{"grace": channel}}
	subs := &fakeSubscriptionStore{
		subscribers:  120,
		subscribedTo: 34,
		memberships:  map[[2]uint]bool{{7, 99}: true},
	}
	svc := NewChannelService(lookup, subs, &fakeHistoryStore{}, nil)

	profile, err := svc.ChannelProfile(context.Background(), "Grace", 99)
	require.NoError(t, err)
	assert.Equal(t, "grace", profile.Username)
	assert.Equal(t, int64(120), profile.SubscriberCount)
	assert.Equal(t, int64(34), profile.SubscribedTo)
	assert.True(t, profile.IsSubscribed)
}

func TestChannelProfile_AnonymousViewer(t *testing.T) {
	channel := channelFixture()
	lookup := &fakeChannelLookup{channels: map[string]*model.User{"grace": channel}}
	subs := &fakeSubscriptionStore{
		subscribers: 120,
		memberships: map[[2]uint]bool{{7, 99}: true},
	}
	svc := NewChannelService(lookup, subs, &fakeHistoryStore{}, nil)

	profile, err := svc.ChannelProfile(context.Background(), "grace", 0)
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)
}

func TestChannelProfile_NotFound(t *testing.T) {
	svc := NewChannelService(
		&fakeChannelLookup{channels: map[string]*model.User{}},
		&fakeSubscriptionStore{},
		&fakeHistoryStore{},
		nil,
	)

	_, err := svc.ChannelProfile(context.Background(), "ghost", 0)
	assert.ErrorIs(t, err, apperrors.ErrChannelNotFound)
}

func TestChannelProfile_BlankUsername(t *testing.T) {
	svc := NewChannelService(
		&fakeChannelLookup{channels: map[string]*model.User{}},
		&fakeSubscriptionStore{},
		&fakeHistoryStore{},
		nil,
	)

	_, err := svc.ChannelProfile(context.Background(), "   ", 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestChannelProfile_ServedFromCache(t *testing.T) {
	channel := channelFixture()
	lookup := &fakeChannelLookup{channels: map[string]*model.User{"grace": channel}}
	subs := &fakeSubscriptionStore{subscribers: 120}
	cache := newFakeCache()
	svc := NewChannelService(lookup, subs, &fakeHistoryStore{}, cache)

	first, err := svc.ChannelProfile(context.Background(), "grace", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(120), first.SubscriberCount)

	// The count changes underneath, but within the cache window the old
	// aggregate is still served.
	subs.subscribers = 999

	second, err := svc.ChannelProfile(context.Background(), "grace", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(120), second.SubscriberCount)
}

func TestChannelProfile_CacheKeyedByViewer(t *testing.T) {
	channel := channelFixture()
	lookup := &fakeChannelLookup{channels: map[string]*model.User{"grace": channel}}
	subs := &fakeSubscriptionStore{memberships: map[[2]uint]bool{{7, 99}: true}}
	cache := newFakeCache()
	svc := NewChannelService(lookup, subs, &fakeHistoryStore{}, cache)

	subscribed, err := svc.ChannelProfile(context.Background(), "grace", 99)
	require.NoError(t, err)
	assert.True(t, subscribed.IsSubscribed)

	// A different viewer must not inherit the first viewer's membership.
	other, err := svc.ChannelProfile(context.Background(), "grace", 100)
	require.NoError(t, err)
	assert.False(t, other.IsSubscribed)
}

func TestWatchHistory(t *testing.T) {
	now := time.Now()
	history := &fakeHistoryStore{entries: []model.WatchHistoryEntry{
		{
			VideoID:        3,
			Title:          "Compilers in an afternoon",
			VideoURL:       "https://assets.example.com/videos/3.mp4",
			Duration:       1800.5,
			Views:          420,
			WatchedAt:      now,
			OwnerFullName:  "Grace Hopper",
			OwnerUsername:  "grace",
			OwnerAvatarURL: "https://assets.example.com/avatars/grace.png",
		},
		{
			VideoID:       1,
			Title:         "Intro",
			WatchedAt:     now.Add(-time.Hour),
			OwnerUsername: "ada",
		},
	}}
	svc := NewChannelService(&fakeChannelLookup{}, &fakeSubscriptionStore{}, history, nil)

	items, err := svc.WatchHistory(context.Background(), 1, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, uint(3), items[0].VideoID)
	assert.Equal(t, "grace", items[0].Owner.Username)
	assert.Equal(t, "ada", items[1].Owner.Username)
}

func TestWatchHistory_EmptyForUnknownUser(t *testing.T) {
	svc := NewChannelService(&fakeChannelLookup{}, &fakeSubscriptionStore{}, &fakeHistoryStore{}, nil)

	items, err := svc.WatchHistory(context.Background(), 12345, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, items)
}
