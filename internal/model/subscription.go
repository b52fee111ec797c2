package model

import "gorm.io/gorm"

// Subscription is an edge record: Subscriber follows Channel. The account
// service only reads this collection for aggregate counting; writes happen
// in the subscription service.
type Subscription struct {
	gorm.Model
	ChannelID    uint `gorm:"column:channel_id;not null;index:idx_subscriptions_channel"`
	SubscriberID uint `gorm:"column:subscriber_id;not null;index:idx_subscriptions_subscriber"`
}
