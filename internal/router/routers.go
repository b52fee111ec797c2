package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/streampulse/account-service/config"
	"github.com/streampulse/account-service/internal/handler"
	"github.com/streampulse/account-service/internal/middleware"
)

type Router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	channelHandler *handler.ChannelHandler
	healthHandler  *handler.HealthHandler

	jwtMw  *middleware.JWTMiddleware
	Config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	channel *handler.ChannelHandler,
	health *handler.HealthHandler,
	jwtMw *middleware.JWTMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:    auth,
		userHandler:    user,
		channelHandler: channel,
		healthHandler:  health,
		jwtMw:          jwtMw,
		Config:         cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if !r.Config.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestContextMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS())

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.Check)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(
				r.Config.RateLimit.Request,
				time.Duration(r.Config.RateLimit.Duration)*time.Second,
			))

			r.authRoutes(v1)
			r.userRoutes(v1)
			r.channelRoutes(v1)
		}
	}

	return router
}
