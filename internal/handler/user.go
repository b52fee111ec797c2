package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streampulse/account-service/internal/constants"
	"github.com/streampulse/account-service/internal/dto"
	apperrors "github.com/streampulse/account-service/internal/errors"
	"github.com/streampulse/account-service/internal/service"
	"github.com/streampulse/account-service/pkg/ctxutil"
	"github.com/streampulse/account-service/pkg/logger"
)

// UserHandler exposes the authenticated account endpoints: current user,
// password change, detail updates, asset replacement and watch history.
type UserHandler struct {
	accounts *service.AccountService
	channels *service.ChannelService
}

func NewUserHandler(accounts *service.AccountService, channels *service.ChannelService) *UserHandler {
	return &UserHandler{
		accounts: accounts,
		channels: channels,
	}
}

// Me returns the caller's own profile.
func (h *UserHandler) Me(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Me")

	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := h.accounts.CurrentUser(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildResponse(
		http.StatusOK, user, constants.MsgUserFetched,
	))
}

// ChangePassword verifies the old password and writes the new one.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ChangePassword")

	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid password change request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, constants.MsgBadRequest, err.Error(),
		))
		return
	}

	if err := h.accounts.ChangePassword(ctx, userID, &req); err != nil {
		logger.WarnWithContext(ctx, "Password change failed").
			Uint("auth_user_id", userID).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildResponse(
		http.StatusOK, nil, constants.MsgPasswordChanged,
	))
}

// UpdateDetails changes the caller's full name and email.
func (h *UserHandler) UpdateDetails(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateDetails")

	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid details update request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, constants.MsgBadRequest, err.Error(),
		))
		return
	}

	user, err := h.accounts.UpdateDetails(ctx, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildResponse(
		http.StatusOK, user, constants.MsgDetailsUpdated,
	))
}

// UpdateAvatar replaces the caller's avatar image.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateAvatar")

	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	file, err := c.FormFile(constants.FormFieldAvatar)
	if err != nil {
		respondError(c, apperrors.ErrMissingFile)
		return
	}
	if file.Size > constants.MaxAvatarSizeBytes {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, constants.MsgBadRequest, "avatar file too large",
		))
		return
	}

	user, err := h.accounts.UpdateAvatar(ctx, userID, file)
	if err != nil {
		logger.WarnWithContext(ctx, "Avatar update failed").
			Uint("auth_user_id", userID).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildResponse(
		http.StatusOK, user, constants.MsgAvatarUpdated,
	))
}

// UpdateCover replaces the caller's cover image.
func (h *UserHandler) UpdateCover(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateCover")

	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	file, err := c.FormFile(constants.FormFieldCover)
	if err != nil {
		respondError(c, apperrors.ErrMissingFile)
		return
	}
	if file.Size > constants.MaxCoverSizeBytes {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, constants.MsgBadRequest, "cover image too large",
		))
		return
	}

	user, err := h.accounts.UpdateCover(ctx, userID, file)
	if err != nil {
		logger.WarnWithContext(ctx, "Cover update failed").
			Uint("auth_user_id", userID).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildResponse(
		http.StatusOK, user, constants.MsgCoverUpdated,
	))
}

// WatchHistory returns the caller's watched videos newest first.
func (h *UserHandler) WatchHistory(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "WatchHistory")

	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	params := constants.ParsePaginationParams(c)

	items, err := h.channels.WatchHistory(ctx, userID, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildResponse(
		http.StatusOK, items, constants.MsgHistoryFetched,
	))
}
