package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streampulse/account-service/internal/constants"
	"github.com/streampulse/account-service/internal/service"
	"github.com/streampulse/account-service/pkg/ctxutil"
	"github.com/streampulse/account-service/pkg/logger"
)

// ChannelHandler exposes the public channel profile endpoint. The route
// runs behind OptionalAuth so logged-in viewers get a personalized
// is_subscribed value.
type ChannelHandler struct {
	channels *service.ChannelService
}

func NewChannelHandler(channels *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channels: channels}
}

// GetChannelProfile returns a channel's profile with subscription counts.
func (h *ChannelHandler) GetChannelProfile(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetChannelProfile")

	username := c.Param("username")

	// Zero means anonymous viewer.
	viewerID, _ := currentUserID(c)

	logger.DebugWithContext(ctx, "Channel profile requested").
		String("channel", username).
		Uint("viewer_id", viewerID).
		Log()

	profile, err := h.channels.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		logger.WarnWithContext(ctx, "Channel profile lookup failed").
			String("channel", username).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildResponse(
		http.StatusOK, profile, constants.MsgChannelFetched,
	))
}
