package service

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/streampulse/account-service/config"
	"github.com/streampulse/account-service/internal/dto"
	"github.com/streampulse/account-service/internal/errors"
	"github.com/streampulse/account-service/internal/model"
	"github.com/streampulse/account-service/pkg/ctxutil"
	"github.com/streampulse/account-service/pkg/logger"
)

// SessionStore is the slice of user persistence the token service needs.
type SessionStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	UpdateRefreshToken(ctx context.Context, id uint, token *string) error
}

// TokenService owns the session token lifecycle: issuing access and refresh
// tokens, rotating the single-slot refresh token, and clearing the session.
type TokenService struct {
	cfg   config.JWTConfig
	users SessionStore
}

func NewTokenService(cfg config.JWTConfig, users SessionStore) *TokenService {
	return &TokenService{
		cfg:   cfg,
		users: users,
	}
}

// GenerateAccessToken creates the short-lived token carrying the user's
// identity claims.
func (s *TokenService) GenerateAccessToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"full_name": user.FullName,
		"exp":       now.Add(s.cfg.AccessTTL).Unix(),
		"iat":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.AccessSecret))
}

// GenerateRefreshToken creates the long-lived token. It carries only the
// user ID; everything else is re-read from the database on refresh. The
// jti claim makes every token unique so rotation always changes the slot.
func (s *TokenService) GenerateRefreshToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"exp":     now.Add(s.cfg.RefreshTTL).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.RefreshSecret))
}

// ValidateAccessToken verifies signature and expiry and returns the claims.
func (s *TokenService) ValidateAccessToken(tokenString string) (jwt.MapClaims, error) {
	claims, err := s.parse(tokenString, s.cfg.AccessSecret)
	if err != nil {
		return nil, errors.WrapError(errors.ErrInvalidToken, err)
	}
	return claims, nil
}

// ParseRefreshToken verifies the refresh token and extracts the user ID.
func (s *TokenService) ParseRefreshToken(tokenString string) (uint, error) {
	claims, err := s.parse(tokenString, s.cfg.RefreshSecret)
	if err != nil {
		return 0, errors.WrapError(errors.ErrInvalidRefreshToken, err)
	}

	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.ErrInvalidRefreshToken
	}
	return uint(rawID), nil
}

func (s *TokenService) parse(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, stderrors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, stderrors.New("invalid token claims")
	}
	return claims, nil
}

// IssueSessionTokens generates a fresh access/refresh pair and stores the
// refresh token in the user's session slot, replacing any previous session.
func (s *TokenService) IssueSessionTokens(ctx context.Context, user *model.User) (*dto.TokenPair, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "IssueSessionTokens")

	accessToken, err := s.GenerateAccessToken(user)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to generate access token").
			Uint("token_user_id", user.ID).
			Err(err).
			Log()
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	refreshToken, err := s.GenerateRefreshToken(user.ID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to generate refresh token").
			Uint("token_user_id", user.ID).
			Err(err).
			Log()
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		logger.ErrorWithContext(ctx, "Failed to store refresh token").
			Uint("token_user_id", user.ID).
			Err(err).
			Log()
		return nil, errors.WrapError(errors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Session tokens issued").
		Uint("token_user_id", user.ID).
		Log()

	return &dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.AccessTTL.Seconds()),
	}, nil
}

// RefreshSession rotates the session. The incoming token must verify
// against the refresh secret AND match the stored slot byte for byte; a
// token from a superseded session fails the slot comparison even though its
// signature is still valid.
func (s *TokenService) RefreshSession(ctx context.Context, incoming string) (*model.User, *dto.TokenPair, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "RefreshSession")

	userID, err := s.ParseRefreshToken(incoming)
	if err != nil {
		logger.WarnWithContext(ctx, "Refresh token failed verification").
			Err(err).
			Log()
		return nil, nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.ErrInvalidRefreshToken
		}
		return nil, nil, errors.WrapError(errors.ErrInternal, err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != incoming {
		logger.WarnWithContext(ctx, "Refresh token does not match session slot").
			Uint("token_user_id", user.ID).
			Bool("slot_empty", user.RefreshToken == nil).
			Log()
		return nil, nil, errors.ErrRefreshTokenReused
	}

	pair, err := s.IssueSessionTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	logger.InfoWithContext(ctx, "Session refreshed").
		Uint("token_user_id", user.ID).
		Log()

	return user, pair, nil
}

// ClearSession empties the user's session slot. Clearing an already empty
// slot succeeds, so logout is idempotent.
func (s *TokenService) ClearSession(ctx context.Context, userID uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "ClearSession")

	if err := s.users.UpdateRefreshToken(ctx, userID, nil); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		logger.ErrorWithContext(ctx, "Failed to clear session").
			Uint("token_user_id", userID).
			Err(err).
			Log()
		return errors.WrapError(errors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Session cleared").
		Uint("token_user_id", userID).
		Log()

	return nil
}
