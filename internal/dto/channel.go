package dto

import "time"

// ChannelProfileResponse is the fixed projection of the channel aggregation:
// identity fields plus both subscription counts and the viewer's membership.
type ChannelProfileResponse struct {
	FullName        string `json:"full_name"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	AvatarURL       string `json:"avatar_url"`
	CoverImageURL   string `json:"cover_image_url,omitempty"`
	SubscriberCount int64  `json:"subscriber_count"`
	SubscribedTo    int64  `json:"channels_subscribed_to_count"`
	IsSubscribed    bool   `json:"is_subscribed"`
}

// WatchHistoryOwner is the denormalized to-one owner of a watched video.
type WatchHistoryOwner struct {
	FullName  string `json:"full_name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

type WatchHistoryItem struct {
	VideoID      uint              `json:"video_id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	VideoURL     string            `json:"video_url"`
	ThumbnailURL string            `json:"thumbnail_url"`
	Duration     float64           `json:"duration"`
	Views        int64             `json:"views"`
	WatchedAt    time.Time         `json:"watched_at"`
	Owner        WatchHistoryOwner `json:"owner"`
}
