package router

import "github.com/gin-gonic/gin"

func (r *Router) channelRoutes(version *gin.RouterGroup) {
	channels := version.Group("/channels")
	{
		// Public, but personalized when the viewer is logged in
		channels.GET("/:username", r.jwtMw.OptionalAuth(), r.channelHandler.GetChannelProfile)
	}
}
