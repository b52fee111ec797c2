package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streampulse/account-service/config"
	"github.com/streampulse/account-service/internal/constants"
	"github.com/streampulse/account-service/internal/dto"
	apperrors "github.com/streampulse/account-service/internal/errors"
	"github.com/streampulse/account-service/internal/service"
	"github.com/streampulse/account-service/pkg/ctxutil"
	"github.com/streampulse/account-service/pkg/logger"
)

// AuthHandler exposes registration and the session lifecycle. Session
// tokens travel both ways: in the JSON body and as cookies.
type AuthHandler struct {
	accounts *service.AccountService
	tokens   *service.TokenService
	jwtCfg   config.JWTConfig
	cookies  config.CookieConfig
}

func NewAuthHandler(accounts *service.AccountService, tokens *service.TokenService, jwtCfg config.JWTConfig, cookies config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		tokens:   tokens,
		jwtCfg:   jwtCfg,
		cookies:  cookies,
	}
}

// Register handles the multipart registration form: text fields plus a
// required avatar and an optional cover image.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid registration request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, constants.MsgBadRequest, err.Error(),
		))
		return
	}

	avatar, err := c.FormFile(constants.FormFieldAvatar)
	if err != nil {
		logger.WarnWithContext(ctx, "Registration missing avatar file").
			String("username", req.Username).
			Log()
		respondError(c, apperrors.ErrMissingAvatar)
		return
	}
	if avatar.Size > constants.MaxAvatarSizeBytes {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, constants.MsgBadRequest, "avatar file too large",
		))
		return
	}

	cover := optionalFormFile(c, constants.FormFieldCover)
	if cover != nil && cover.Size > constants.MaxCoverSizeBytes {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, constants.MsgBadRequest, "cover image too large",
		))
		return
	}

	logger.InfoWithContext(ctx, "Registration attempt").
		String("username", req.Username).
		String("email", req.Email).
		Log()

	user, err := h.accounts.Register(ctx, &req, avatar, cover)
	if err != nil {
		logger.WarnWithContext(ctx, "Registration failed").
			String("username", req.Username).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, constants.BuildResponse(
		http.StatusCreated, user, constants.MsgRegistered,
	))
}

// Login authenticates the user and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, constants.MsgBadRequest, err.Error(),
		))
		return
	}

	logger.InfoWithContext(ctx, "User login attempt").
		String("email", req.Email).
		Log()

	response, err := h.accounts.Login(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Login failed").
			String("email", req.Email).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, response.AccessToken, response.RefreshToken)

	c.JSON(http.StatusOK, constants.BuildResponse(
		http.StatusOK, response, constants.MsgLoggedIn,
	))
}

// RefreshToken rotates the session. The refresh token is read from the
// cookie first, then from the body for API clients.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RefreshToken")

	incoming, _ := c.Cookie(constants.CookieRefreshToken)
	if incoming == "" {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			incoming = req.RefreshToken
		}
	}
	if incoming == "" {
		logger.WarnWithContext(ctx, "Refresh attempt without token").
			Log()
		respondError(c, apperrors.ErrInvalidRefreshToken)
		return
	}

	_, pair, err := h.tokens.RefreshSession(ctx, incoming)
	if err != nil {
		logger.WarnWithContext(ctx, "Token refresh failed").
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, pair.AccessToken, pair.RefreshToken)

	c.JSON(http.StatusOK, constants.BuildResponse(
		http.StatusOK, pair, constants.MsgTokenRefreshed,
	))
}

// Logout clears the session slot and both cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	if err := h.accounts.Logout(ctx, userID); err != nil {
		logger.ErrorWithContext(ctx, "Logout failed").
			Uint("auth_user_id", userID).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	h.clearSessionCookies(c)

	c.JSON(http.StatusOK, constants.BuildResponse(
		http.StatusOK, nil, constants.MsgLoggedOut,
	))
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.CookieAccessToken, accessToken,
		int(h.jwtCfg.AccessTTL.Seconds()), "/", h.cookies.Domain, h.cookies.Secure, h.cookies.HTTPOnly)
	c.SetCookie(constants.CookieRefreshToken, refreshToken,
		int(h.jwtCfg.RefreshTTL.Seconds()), "/", h.cookies.Domain, h.cookies.Secure, h.cookies.HTTPOnly)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.CookieAccessToken, "", -1, "/", h.cookies.Domain, h.cookies.Secure, h.cookies.HTTPOnly)
	c.SetCookie(constants.CookieRefreshToken, "", -1, "/", h.cookies.Domain, h.cookies.Secure, h.cookies.HTTPOnly)
}

// optionalFormFile returns nil when the field was not sent.
func optionalFormFile(c *gin.Context, field string) *multipart.FileHeader {
	file, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return file
}
