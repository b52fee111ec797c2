package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/streampulse/account-service/internal/constants"
	"github.com/streampulse/account-service/internal/service"
	"github.com/streampulse/account-service/pkg/ctxutil"
	"github.com/streampulse/account-service/pkg/logger"
)

// JWTMiddleware authenticates requests with the access token, taken from
// the accessToken cookie or the Authorization header.
type JWTMiddleware struct {
	tokens *service.TokenService
	users  service.SessionStore
}

func NewJWTMiddleware(tokens *service.TokenService, users service.SessionStore) *JWTMiddleware {
	return &JWTMiddleware{
		tokens: tokens,
		users:  users,
	}
}

// RequireAuth validates the access token and sets the caller's identity in
// the gin context. Requests without a valid token get 401.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractAccessToken(c)
		if tokenString == "" {
			logger.GetLogger().Warn("Missing access token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		claims, err := m.tokens.ValidateAccessToken(tokenString)
		if err != nil {
			logger.GetLogger().Warn("Invalid or expired access token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			logger.GetLogger().Warn("Access token missing user ID",
				zap.String("path", c.Request.URL.Path))
			abortUnauthorized(c)
			return
		}
		userID := uint(userIDFloat)

		// The token may outlive the account; the row must still exist.
		user, err := m.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			logger.GetLogger().Warn("Token holder not found",
				zap.String("path", c.Request.URL.Path),
				zap.Uint("token_user_id", userID),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		c.Set(constants.GinKeyUserID, user.ID)
		c.Set(constants.GinKeyUsername, user.Username)
		c.Set(constants.GinKeyEmail, user.Email)
		c.Set(constants.GinKeyFullName, user.FullName)
		c.Set(constants.GinKeyUser, user)

		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), user.ID))

		logger.GetLogger().Debug("Request authenticated",
			zap.Uint("auth_user_id", user.ID),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))

		c.Next()
	}
}

// OptionalAuth resolves the caller's identity when a valid token is
// present and stays silent otherwise. Used by public endpoints whose
// response is personalized for logged-in viewers.
func (m *JWTMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractAccessToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := m.tokens.ValidateAccessToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			c.Next()
			return
		}
		userID := uint(userIDFloat)

		user, err := m.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.Next()
			return
		}

		c.Set(constants.GinKeyUserID, user.ID)
		c.Set(constants.GinKeyUsername, user.Username)
		c.Set(constants.GinKeyEmail, user.Email)
		c.Set(constants.GinKeyFullName, user.FullName)
		c.Set(constants.GinKeyUser, user)

		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), user.ID))

		c.Next()
	}
}

// extractAccessToken prefers the cookie and falls back to a Bearer header
// so both browser clients and API clients work.
func extractAccessToken(c *gin.Context) string {
	if cookie, err := c.Cookie(constants.CookieAccessToken); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
		return ""
	}
	return tokenParts[1]
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(
		http.StatusUnauthorized, constants.MsgUnauthorized, nil,
	))
	c.Abort()
}
