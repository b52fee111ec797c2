package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/streampulse/account-service/config"
	apperrors "github.com/streampulse/account-service/internal/errors"
	"github.com/streampulse/account-service/internal/model"
)

type fakeSessionStore struct {
	users     map[uint]*model.User
	updateErr error
}

func newFakeSessionStore(users ...*model.User) *fakeSessionStore {
	store := &fakeSessionStore{users: make(map[uint]*model.User)}
	for _, u := range users {
		store.users[u.ID] = u
	}
	return store
}

func (f *fakeSessionStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeSessionStore) UpdateRefreshToken(_ context.Context, id uint, token *string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.RefreshToken = token
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:  "access-secret-for-tests",
		AccessTTL:     15 * time.Minute,
		RefreshSecret: "refresh-secret-for-tests",
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func testUser() *model.User {
	u := &model.User{
		FullName:  "Ada Lovelace",
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "$2a$10$notarealhash",
		AvatarURL: "https://assets.example.com/avatars/ada.png",
	}
	u.ID = 42
	return u
}

func TestIssueSessionTokens(t *testing.T) {
	user := testUser()
	store := newFakeSessionStore(user)
	svc := NewTokenService(testJWTConfig(), store)

	pair, err := svc.IssueSessionTokens(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int((15 * time.Minute).Seconds()), pair.ExpiresIn)

	// Slot must hold exactly the issued refresh token.
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, pair.RefreshToken, *user.RefreshToken)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, float64(user.ID), claims["user_id"])
	assert.Equal(t, user.Username, claims["username"])
	assert.Equal(t, user.Email, claims["email"])
	assert.Equal(t, user.FullName, claims["full_name"])
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	user := testUser()
	svc := NewTokenService(testJWTConfig(), newFakeSessionStore(user))

	refreshToken, err := svc.GenerateRefreshToken(user.ID)
	require.NoError(t, err)

	// Signed with the other secret, must not validate as an access token.
	_, err = svc.ValidateAccessToken(refreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestParseRefreshToken(t *testing.T) {
	svc := NewTokenService(testJWTConfig(), newFakeSessionStore())

	token, err := svc.GenerateRefreshToken(42)
	require.NoError(t, err)

	userID, err := svc.ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)

	_, err = svc.ParseRefreshToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestRefreshSession_RotatesSlot(t *testing.T) {
	user := testUser()
	store := newFakeSessionStore(user)
	svc := NewTokenService(testJWTConfig(), store)

	first, err := svc.IssueSessionTokens(context.Background(), user)
	require.NoError(t, err)

	refreshed, pair, err := svc.RefreshSession(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.ID)
	assert.NotEqual(t, first.RefreshToken, pair.RefreshToken)

	// Slot now holds the rotated token.
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, pair.RefreshToken, *user.RefreshToken)
}

func TestRefreshSession_RejectsSupersededToken(t *testing.T) {
	user := testUser()
	store := newFakeSessionStore(user)
	svc := NewTokenService(testJWTConfig(), store)

	first, err := svc.IssueSessionTokens(context.Background(), user)
	require.NoError(t, err)

	_, _, err = svc.RefreshSession(context.Background(), first.RefreshToken)
	require.NoError(t, err)

	// The first token still has a valid signature but no longer matches
	// the slot.
	_, _, err = svc.RefreshSession(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrRefreshTokenReused)
}

func TestRefreshSession_RejectsEmptySlot(t *testing.T) {
	user := testUser()
	store := newFakeSessionStore(user)
	svc := NewTokenService(testJWTConfig(), store)

	token, err := svc.GenerateRefreshToken(user.ID)
	require.NoError(t, err)

	_, _, err = svc.RefreshSession(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrRefreshTokenReused)
}

func TestRefreshSession_RejectsGarbage(t *testing.T) {
	svc := NewTokenService(testJWTConfig(), newFakeSessionStore())

	_, _, err := svc.RefreshSession(context.Background(), "garbage")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestRefreshSession_UnknownUser(t *testing.T) {
	svc := NewTokenService(testJWTConfig(), newFakeSessionStore())

	token, err := svc.GenerateRefreshToken(999)
	require.NoError(t, err)

	_, _, err = svc.RefreshSession(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestClearSession_Idempotent(t *testing.T) {
	user := testUser()
	store := newFakeSessionStore(user)
	svc := NewTokenService(testJWTConfig(), store)

	_, err := svc.IssueSessionTokens(context.Background(), user)
	require.NoError(t, err)

	require.NoError(t, svc.ClearSession(context.Background(), user.ID))
	assert.Nil(t, user.RefreshToken)

	// Clearing an already empty slot still succeeds.
	require.NoError(t, svc.ClearSession(context.Background(), user.ID))
}

func TestClearSession_UnknownUser(t *testing.T) {
	svc := NewTokenService(testJWTConfig(), newFakeSessionStore())

	err := svc.ClearSession(context.Background(), 12345)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
