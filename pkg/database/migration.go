package database

import (
	"fmt"

	"github.com/streampulse/account-service/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every model the account
// service touches. Subscriptions and videos are owned by other services but
// are migrated here too so a standalone deployment works end to end.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Subscription{},
		&model.Video{},
		&model.WatchEvent{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	return createIndexes(db)
}

// createIndexes adds the indexes the aggregation paths rely on: lowercase
// lookups on username/email plus the two subscription counting directions.
func createIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))`,
		`CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email))`,
		`CREATE INDEX IF NOT EXISTS idx_subscriptions_pair ON subscriptions (channel_id, subscriber_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_events_user_watched ON watch_events (user_id, watched_at DESC)`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("index creation failed: %w", err)
		}
	}

	return nil
}
