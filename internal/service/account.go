package service

import (
	"context"
	stderrors "errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/streampulse/account-service/internal/constants"
	"github.com/streampulse/account-service/internal/dto"
	"github.com/streampulse/account-service/internal/errors"
	"github.com/streampulse/account-service/internal/model"
	"github.com/streampulse/account-service/pkg/ctxutil"
	"github.com/streampulse/account-service/pkg/logger"
	"github.com/streampulse/account-service/pkg/redis"
)

// UserStore is the user persistence surface the account service depends on.
type UserStore interface {
	SessionStore
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdateDetails(ctx context.Context, id uint, fullName, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error
	UpdateAvatar(ctx context.Context, id uint, avatarURL string) (*model.User, error)
	UpdateCover(ctx context.Context, id uint, coverURL string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id uint) error
}

// Uploader stores binary assets on the media host and serves them by URL.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// AccountService implements registration, login, logout and profile
// mutations.
type AccountService struct {
	users  UserStore
	tokens *TokenService
	assets Uploader
	cache  redis.Client
}

func NewAccountService(users UserStore, tokens *TokenService, assets Uploader, cache redis.Client) *AccountService {
	return &AccountService{
		users:  users,
		tokens: tokens,
		assets: assets,
		cache:  cache,
	}
}

// Register creates a new account. The uniqueness check runs before any
// upload so a conflicting registration never touches the media host. The
// avatar is mandatory; a failed cover upload is tolerated and leaves the
// cover URL empty.
func (s *AccountService) Register(ctx context.Context, req *dto.RegisterRequest, avatar, cover *multipart.FileHeader) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Register")

	fullName := strings.TrimSpace(req.FullName)
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || username == "" || email == "" || strings.TrimSpace(req.Password) == "" {
		return nil, errors.ErrInvalidInput
	}

	logger.InfoWithContext(ctx, "Registering new user").
		String("username", username).
		String("email", email).
		Bool("has_cover", cover != nil).
		Log()

	_, err := s.users.GetByUsernameOrEmail(ctx, username, email)
	if err == nil {
		logger.WarnWithContext(ctx, "Registration rejected, account exists").
			String("username", username).
			Log()
		return nil, errors.ErrUserExists
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	if avatar == nil {
		return nil, errors.ErrMissingAvatar
	}

	avatarURL, err := s.uploadAsset(ctx, constants.AssetKeyAvatars, avatar)
	if err != nil {
		return nil, errors.WrapError(errors.ErrUploadFailed, err)
	}

	var coverURL string
	if cover != nil {
		coverURL, err = s.uploadAsset(ctx, constants.AssetKeyCovers, cover)
		if err != nil {
			// A missing cover is not worth failing the registration over.
			logger.WarnWithContext(ctx, "Cover upload failed, continuing without cover").
				String("username", username).
				Err(err).
				Log()
			coverURL = ""
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	user := &model.User{
		FullName:      fullName,
		Username:      username,
		Email:         email,
		Password:      string(hash),
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The assets were uploaded for an account that now does not exist;
		// delete them best effort so the bucket does not accumulate orphans.
		s.deleteAssetQuietly(ctx, avatarURL)
		s.deleteAssetQuietly(ctx, coverURL)

		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrUserExists
		}
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User registered successfully").
		Uint("new_user_id", user.ID).
		String("username", username).
		Log()

	resp := sanitizeUser(user)
	return &resp, nil
}

// Login verifies credentials and opens a session.
func (s *AccountService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByUsernameOrEmail(ctx, email, email)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnWithContext(ctx, "Login failed, unknown account").
				String("email", email).
				Log()
			return nil, errors.ErrInvalidCredentials
		}
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.WarnWithContext(ctx, "Login failed, wrong password").
			Uint("login_user_id", user.ID).
			Log()
		return nil, errors.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssueSessionTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// Last login is bookkeeping only, never fail the login for it.
		logger.WarnWithContext(ctx, "Failed to record last login").
			Uint("login_user_id", user.ID).
			Err(err).
			Log()
	}

	logger.InfoWithContext(ctx, "User logged in").
		Uint("login_user_id", user.ID).
		String("username", user.Username).
		Log()

	return &dto.LoginResponse{
		User:         sanitizeUser(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// Logout clears the caller's session slot.
func (s *AccountService) Logout(ctx context.Context, userID uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Logout")
	return s.tokens.ClearSession(ctx, userID)
}

// CurrentUser returns the caller's sanitized profile.
func (s *AccountService) CurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CurrentUser")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	resp := sanitizeUser(user)
	return &resp, nil
}

// ChangePassword verifies the old password before writing the new hash.
func (s *AccountService) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	ctx = ctxutil.WithOperation(ctx, "service", "ChangePassword")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return errors.WrapError(errors.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		logger.WarnWithContext(ctx, "Password change rejected, wrong old password").
			Uint("target_user_id", userID).
			Log()
		return errors.ErrIncorrectPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.WrapError(errors.ErrInternal, err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return errors.WrapError(errors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password changed").
		Uint("target_user_id", userID).
		Log()

	return nil
}

// UpdateDetails changes full name and email.
func (s *AccountService) UpdateDetails(ctx context.Context, userID uint, req *dto.UpdateDetailsRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateDetails")

	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || email == "" {
		return nil, errors.ErrInvalidInput
	}

	user, err := s.users.UpdateDetails(ctx, userID, fullName, email)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrUserExists
		}
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	s.invalidateChannelCache(ctx, user.Username)

	resp := sanitizeUser(user)
	return &resp, nil
}

// UpdateAvatar replaces the caller's avatar. The new asset is uploaded
// first; if the database write fails the new asset is removed again, and on
// success the superseded asset is deleted best effort.
func (s *AccountService) UpdateAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateAvatar")
	return s.replaceAsset(ctx, userID, file, constants.AssetKeyAvatars, s.users.UpdateAvatar, func(u *model.User) string {
		return u.AvatarURL
	})
}

// UpdateCover replaces the caller's cover image.
func (s *AccountService) UpdateCover(ctx context.Context, userID uint, file *multipart.FileHeader) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateCover")
	return s.replaceAsset(ctx, userID, file, constants.AssetKeyCovers, s.users.UpdateCover, func(u *model.User) string {
		return u.CoverImageURL
	})
}

func (s *AccountService) replaceAsset(
	ctx context.Context,
	userID uint,
	file *multipart.FileHeader,
	keyPrefix string,
	persist func(ctx context.Context, id uint, url string) (*model.User, error),
	currentURL func(*model.User) string,
) (*dto.UserResponse, error) {
	if file == nil {
		return nil, errors.ErrMissingFile
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.WrapError(errors.ErrInternal, err)
	}
	oldURL := currentURL(user)

	newURL, err := s.uploadAsset(ctx, keyPrefix, file)
	if err != nil {
		return nil, errors.WrapError(errors.ErrUploadFailed, err)
	}

	updated, err := persist(ctx, userID, newURL)
	if err != nil {
		s.deleteAssetQuietly(ctx, newURL)
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	s.deleteAssetQuietly(ctx, oldURL)
	s.invalidateChannelCache(ctx, updated.Username)

	logger.InfoWithContext(ctx, "Profile asset replaced").
		Uint("target_user_id", userID).
		String("key_prefix", keyPrefix).
		Log()

	resp := sanitizeUser(updated)
	return &resp, nil
}

// uploadAsset streams a multipart file to the media host under a random
// object key that keeps the original extension.
func (s *AccountService) uploadAsset(ctx context.Context, keyPrefix string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := keyPrefix + uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	return s.assets.Upload(ctx, key, src, file.Size, contentType)
}

// deleteAssetQuietly removes an asset without surfacing failures; orphan
// cleanup never outranks the caller's result.
func (s *AccountService) deleteAssetQuietly(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.assets.Delete(ctx, url); err != nil {
		logger.WarnWithContext(ctx, "Orphaned asset cleanup failed").
			String("asset_url", url).
			Err(err).
			Log()
	}
}

// invalidateChannelCache drops every cached channel profile view of the
// user so the next read sees the mutation.
func (s *AccountService) invalidateChannelCache(ctx context.Context, username string) {
	if s.cache == nil || !s.cache.IsEnabled() {
		return
	}
	pattern := constants.CacheKeyChannel + strings.ToLower(username) + ":*"
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		logger.WarnWithContext(ctx, "Channel cache invalidation failed").
			String("pattern", pattern).
			Err(err).
			Log()
	}
}

func sanitizeUser(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            user.ID,
		FullName:      user.FullName,
		Username:      user.Username,
		Email:         user.Email,
		AvatarURL:     user.AvatarURL,
		CoverImageURL: user.CoverImageURL,
		LastLogin:     user.LastLogin,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}
