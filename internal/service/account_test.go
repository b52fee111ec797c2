package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/streampulse/account-service/internal/dto"
	apperrors "github.com/streampulse/account-service/internal/errors"
	"github.com/streampulse/account-service/internal/model"
)

type fakeUserStore struct {
	users     map[uint]*model.User
	nextID    uint
	createErr error
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	store := &fakeUserStore{users: make(map[uint]*model.User), nextID: 1}
	for _, u := range users {
		store.users[u.ID] = u
		if u.ID >= store.nextID {
			store.nextID = u.ID + 1
		}
	}
	return store
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByUsernameOrEmail(_ context.Context, username, email string) (*model.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) UpdateDetails(_ context.Context, id uint, fullName, email string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	user.FullName = fullName
	user.Email = email
	return user, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uint, hashedPassword string) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Password = hashedPassword
	return nil
}

func (f *fakeUserStore) UpdateAvatar(_ context.Context, id uint, avatarURL string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	user.AvatarURL = avatarURL
	return user, nil
}

func (f *fakeUserStore) UpdateCover(_ context.Context, id uint, coverURL string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	user.CoverImageURL = coverURL
	return user, nil
}

func (f *fakeUserStore) UpdateRefreshToken(_ context.Context, id uint, token *string) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.RefreshToken = token
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, id uint) error {
	if _, ok := f.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type recordingUploader struct {
	uploads    []string
	deleted    []string
	failPrefix string
	failAll    bool
}

func (f *recordingUploader) Upload(_ context.Context, key string, _ io.Reader, _ int64, _ string) (string, error) {
	if f.failAll || (f.failPrefix != "" && strings.HasPrefix(key, f.failPrefix)) {
		return "", errors.New("media host unavailable")
	}
	f.uploads = append(f.uploads, key)
	return "https://cdn.test/" + key, nil
}

func (f *recordingUploader) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func fileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File[field][0]
}

func newAccountService(store *fakeUserStore, uploader Uploader) *AccountService {
	tokens := NewTokenService(testJWTConfig(), store)
	return NewAccountService(store, tokens, uploader, nil)
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FullName: "Grace Hopper",
		Username: "Grace",
		Email:    "Grace@Example.com",
		Password: "correct-horse-battery",
	}
}

func TestRegister_Success(t *testing.T) {
	store := newFakeUserStore()
	uploader := &recordingUploader{}
	svc := newAccountService(store, uploader)

	avatar := fileHeader(t, "avatar", "me.png", []byte("png-bytes"))
	cover := fileHeader(t, "coverImage", "banner.jpg", []byte("jpg-bytes"))

	resp, err := svc.Register(context.Background(), registerRequest(), avatar, cover)
	require.NoError(t, err)

	// Identifiers are stored lowercase.
	assert.Equal(t, "grace", resp.Username)
	assert.Equal(t, "grace@example.com", resp.Email)
	assert.NotEmpty(t, resp.AvatarURL)
	assert.NotEmpty(t, resp.CoverImageURL)

	created := store.users[resp.ID]
	require.NotNil(t, created)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("correct-horse-battery")))
	assert.Len(t, uploader.uploads, 2)
}

func TestRegister_BlankFields(t *testing.T) {
	svc := newAccountService(newFakeUserStore(), &recordingUploader{})

	req := registerRequest()
	req.FullName = "   "

	avatar := fileHeader(t, "avatar", "me.png", []byte("png"))
	_, err := svc.Register(context.Background(), req, avatar, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRegister_ConflictBeforeUpload(t *testing.T) {
	existing := testUser()
	existing.Username = "grace"
	store := newFakeUserStore(existing)
	uploader := &recordingUploader{}
	svc := newAccountService(store, uploader)

	avatar := fileHeader(t, "avatar", "me.png", []byte("png"))
	_, err := svc.Register(context.Background(), registerRequest(), avatar, nil)
	assert.ErrorIs(t, err, apperrors.ErrUserExists)

	// The conflict was detected before anything reached the media host.
	assert.Empty(t, uploader.uploads)
}

func TestRegister_MissingAvatar(t *testing.T) {
	svc := newAccountService(newFakeUserStore(), &recordingUploader{})

	_, err := svc.Register(context.Background(), registerRequest(), nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrMissingAvatar)
}

func TestRegister_AvatarUploadFailure(t *testing.T) {
	store := newFakeUserStore()
	uploader := &recordingUploader{failAll: true}
	svc := newAccountService(store, uploader)

	avatar := fileHeader(t, "avatar", "me.png", []byte("png"))
	_, err := svc.Register(context.Background(), registerRequest(), avatar, nil)
	assert.ErrorIs(t, err, apperrors.ErrUploadFailed)
	assert.Empty(t, store.users)
}

func TestRegister_CoverUploadFailureTolerated(t *testing.T) {
	store := newFakeUserStore()
	uploader := &recordingUploader{failPrefix: "covers/"}
	svc := newAccountService(store, uploader)

	avatar := fileHeader(t, "avatar", "me.png", []byte("png"))
	cover := fileHeader(t, "coverImage", "banner.jpg", []byte("jpg"))

	resp, err := svc.Register(context.Background(), registerRequest(), avatar, cover)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AvatarURL)
	assert.Empty(t, resp.CoverImageURL)
}

func TestRegister_CreateFailureCleansUpAssets(t *testing.T) {
	store := newFakeUserStore()
	store.createErr = errors.New("connection reset")
	uploader := &recordingUploader{}
	svc := newAccountService(store, uploader)

	avatar := fileHeader(t, "avatar", "me.png", []byte("png"))
	cover := fileHeader(t, "coverImage", "banner.jpg", []byte("jpg"))

	_, err := svc.Register(context.Background(), registerRequest(), avatar, cover)
	assert.ErrorIs(t, err, apperrors.ErrInternal)

	// Both freshly uploaded assets were removed again.
	assert.Len(t, uploader.deleted, 2)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := testUser()
	user.Password = string(hash)
	store := newFakeUserStore(user)
	svc := newAccountService(store, &recordingUploader{})

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "Ada@Example.com",
		Password: "open-sesame",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// The session slot was written.
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, resp.RefreshToken, *user.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := testUser()
	user.Password = string(hash)
	svc := newAccountService(newFakeUserStore(user), &recordingUploader{})

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_UnknownAccount(t *testing.T) {
	svc := newAccountService(newFakeUserStore(), &recordingUploader{})

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := testUser()
	user.Password = string(hash)
	store := newFakeUserStore(user)
	svc := newAccountService(store, &recordingUploader{})

	err = svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
		OldPassword: "old-password",
		NewPassword: "new-password-123",
	})
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("new-password-123")))
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := testUser()
	user.Password = string(hash)
	svc := newAccountService(newFakeUserStore(user), &recordingUploader{})

	err = svc.ChangePassword(context.Background(), user.ID, &dto.ChangePasswordRequest{
		OldPassword: "not-it",
		NewPassword: "new-password-123",
	})
	assert.ErrorIs(t, err, apperrors.ErrIncorrectPassword)
}

func TestUpdateDetails(t *testing.T) {
	user := testUser()
	store := newFakeUserStore(user)
	svc := newAccountService(store, &recordingUploader{})

	resp, err := svc.UpdateDetails(context.Background(), user.ID, &dto.UpdateDetailsRequest{
		FullName: "Ada King",
		Email:    "Countess@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada King", resp.FullName)
	assert.Equal(t, "countess@example.com", resp.Email)
}

func TestUpdateAvatar_ReplacesOldAsset(t *testing.T) {
	user := testUser()
	oldURL := user.AvatarURL
	store := newFakeUserStore(user)
	uploader := &recordingUploader{}
	svc := newAccountService(store, uploader)

	file := fileHeader(t, "avatar", "new.png", []byte("new-png"))

	resp, err := svc.UpdateAvatar(context.Background(), user.ID, file)
	require.NoError(t, err)
	assert.NotEqual(t, oldURL, resp.AvatarURL)
	assert.Contains(t, uploader.deleted, oldURL)
}

func TestUpdateAvatar_MissingFile(t *testing.T) {
	user := testUser()
	svc := newAccountService(newFakeUserStore(user), &recordingUploader{})

	_, err := svc.UpdateAvatar(context.Background(), user.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrMissingFile)
}

func TestCurrentUser_NotFound(t *testing.T) {
	svc := newAccountService(newFakeUserStore(), &recordingUploader{})

	_, err := svc.CurrentUser(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
