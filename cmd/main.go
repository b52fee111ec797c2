package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	configs "github.com/streampulse/account-service/config"
	"github.com/streampulse/account-service/internal/dto"
	"github.com/streampulse/account-service/internal/handler"
	"github.com/streampulse/account-service/internal/middleware"
	"github.com/streampulse/account-service/internal/repository"
	"github.com/streampulse/account-service/internal/router"
	"github.com/streampulse/account-service/internal/service"
	"github.com/streampulse/account-service/pkg/database"
	"github.com/streampulse/account-service/pkg/logger"
	"github.com/streampulse/account-service/pkg/redis"
	"github.com/streampulse/account-service/pkg/storage"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	if err := dto.RegisterValidations(); err != nil {
		logger.GetLogger().Fatal("Failed to register request validators", zap.Error(err))
	}

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	redisClient := redis.NewClient(redis.Config{
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		Enabled:      config.Redis.Enabled,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
	}, logger.GetLogger())
	defer redisClient.Close()

	logger.GetLogger().Info("Redis client initialized",
		zap.Bool("enabled", redisClient.IsEnabled()),
	)

	assetStore, err := storage.NewS3Store(&config.Storage)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize asset store", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	// Services
	tokenService := service.NewTokenService(config.JWT, userRepo)
	accountService := service.NewAccountService(userRepo, tokenService, assetStore, redisClient)
	channelService := service.NewChannelService(userRepo, subscriptionRepo, videoRepo, redisClient)

	// Handlers
	authHandler := handler.NewAuthHandler(accountService, tokenService, config.JWT, config.Cookie)
	userHandler := handler.NewUserHandler(accountService, channelService)
	channelHandler := handler.NewChannelHandler(channelService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	jwtMiddleware := middleware.NewJWTMiddleware(tokenService, userRepo)

	engine := router.NewRouter(
		authHandler,
		userHandler,
		channelHandler,
		healthHandler,
		jwtMiddleware,
		config,
	).SetupRoutes()

	server := &http.Server{
		Addr:         ":" + config.App.Port,
		Handler:      engine,
		ReadTimeout:  config.App.Timeout,
		WriteTimeout: config.App.Timeout,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server shutdown failed", zap.Error(err))
	}
	logger.GetLogger().Info("Server stopped")
}
