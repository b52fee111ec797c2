package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(version *gin.RouterGroup) {
	users := version.Group("/users")
	{
		// All user routes require JWT authentication
		users.Use(r.jwtMw.RequireAuth())
		{
			// Current authenticated user
			users.GET("/me", r.userHandler.Me)

			// Change password with old password verification
			users.PUT("/password", r.userHandler.ChangePassword)

			// Update full name and email
			users.PATCH("/details", r.userHandler.UpdateDetails)

			// Replace profile assets
			users.PATCH("/avatar", r.userHandler.UpdateAvatar)
			users.PATCH("/cover", r.userHandler.UpdateCover)

			// Watched videos, newest first
			users.GET("/history", r.userHandler.WatchHistory)
		}
	}
}
