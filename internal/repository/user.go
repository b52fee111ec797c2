package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/streampulse/account-service/internal/model"
	"github.com/streampulse/account-service/pkg/ctxutil"
	"github.com/streampulse/account-service/pkg/logger"
)

// UserRepository persists user accounts and their session slot.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	logger.DebugWithContext(ctx, "Getting user by ID").
		Uint("lookup_id", id).
		Log()

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).First(&user, id)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to get user by ID").
			Uint("lookup_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved successfully").
		Uint("lookup_id", id).
		String("username", user.Username).
		Duration(duration).
		Log()

	return &user, nil
}

// GetByUsername looks the user up case-insensitively.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByUsername")

	logger.DebugWithContext(ctx, "Getting user by username").
		String("username", username).
		Log()

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).Where("LOWER(username) = LOWER(?)", username).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to get user by username").
			String("username", username).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// GetByUsernameOrEmail matches either identifier case-insensitively. Used by
// login (single credential field) and by the registration existence check.
func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByUsernameOrEmail")

	logger.DebugWithContext(ctx, "Getting user by username or email").
		String("username", username).
		String("email", email).
		Log()

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", username, email).
		First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get user by username or email").
				String("username", username).
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	logger.DebugWithContext(ctx, "Creating new user").
		String("username", user.Username).
		String("email", user.Email).
		Log()

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("username", user.Username).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created successfully").
		Uint("created_id", user.ID).
		String("username", user.Username).
		Duration(duration).
		Log()

	return nil
}

// UpdateDetails changes full name and email only.
func (r *UserRepository) UpdateDetails(ctx context.Context, id uint, fullName, email string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateDetails")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"full_name": fullName,
		"email":     email,
	})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user details").
			Uint("lookup_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to update").
			Uint("lookup_id", id).
			Log()
		return nil, gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User details updated successfully").
		Uint("lookup_id", id).
		Duration(duration).
		Log()

	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdatePassword")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", hashedPassword)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user password").
			Uint("lookup_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User password updated successfully").
		Uint("lookup_id", id).
		Duration(duration).
		Log()

	return nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id uint, avatarURL string) (*model.User, error) {
	return r.updateAssetURL(ctx, id, "avatar_url", avatarURL, "UpdateAvatar")
}

func (r *UserRepository) UpdateCover(ctx context.Context, id uint, coverURL string) (*model.User, error) {
	return r.updateAssetURL(ctx, id, "cover_image_url", coverURL, "UpdateCover")
}

func (r *UserRepository) updateAssetURL(ctx context.Context, id uint, column, url, function string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", function)

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update(column, url)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update asset URL").
			Uint("lookup_id", id).
			String("column", column).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Asset URL updated successfully").
		Uint("lookup_id", id).
		String("column", column).
		Duration(duration).
		Log()

	return r.GetByID(ctx, id)
}

// UpdateRefreshToken writes the session slot. A nil token clears the slot.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id uint, token *string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateRefreshToken")

	logger.DebugWithContext(ctx, "Updating refresh token slot").
		Uint("lookup_id", id).
		Bool("has_token", token != nil).
		Log()

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("refresh_token", token)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update refresh token slot").
			Uint("lookup_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateLastLogin")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("last_login", time.Now())
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update last login").
			Uint("lookup_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "Last login updated successfully").
		Uint("lookup_id", id).
		Duration(duration).
		Log()

	return nil
}
