package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"folioforge/internal/api/middleware"
	"folioforge/internal/auth"
	"folioforge/internal/config"
)

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient ObjectStorage,
) {
	portfolioHandler := NewPortfolioHandler(db, asynqClient, storageClient, cfg.Limits.MaxPortfolios)
	themeHandler := NewThemeHandler(db)
	authHandler := NewAuthHandler(db, authService, redisClient, logger)
	wsHandler := NewWsHandler(redisClient, authService, logger, nil)
	avatarHandler := NewAvatarHandler(storageClient, logger, cfg.Upload.ClamdAddr, cfg.Upload.MaxSizeMB, cfg.Upload.MaxPerUser)
	authMiddleware := middleware.AuthMiddleware(authService)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
		}

		portfolioGroup := v1.Group("/portfolios")
		portfolioGroup.Use(authMiddleware)
		{
			portfolioGroup.POST("", portfolioHandler.CreatePortfolio)
			portfolioGroup.GET("", portfolioHandler.ListPortfolios)
			portfolioGroup.GET("/:id", portfolioHandler.GetPortfolio)
			portfolioGroup.PUT("/:id", portfolioHandler.UpdatePortfolio)
			portfolioGroup.DELETE("/:id", portfolioHandler.DeletePortfolio)
			portfolioGroup.POST("/preview", portfolioHandler.PreviewPortfolio)
			portfolioGroup.PATCH("/:id/theme", themeHandler.ApplyOp)
			portfolioGroup.POST("/:id/enhance", portfolioHandler.EnhanceField)
			portfolioGroup.POST("/:id/export", portfolioHandler.ExportPortfolio)
			portfolioGroup.GET("/:id/export-link", portfolioHandler.GetExportLink)
		}

		avatarGroup := v1.Group("/avatars")
		avatarGroup.Use(authMiddleware)
		{
			avatarGroup.POST("/upload", avatarHandler.UploadAvatar)
			avatarGroup.GET("", avatarHandler.ListAvatars)
			avatarGroup.GET("/view", avatarHandler.GetAvatarURL)
			avatarGroup.DELETE("", avatarHandler.DeleteAvatar)
		}
	}
}
