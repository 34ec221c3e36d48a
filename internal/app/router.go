package app

import (
	"focusread_backend/docs"
	"focusread_backend/internal/config"
	"focusread_backend/internal/middleware"
	"focusread_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		auth := public.Group("/auth")
		{
			auth.POST("/register", c.auth.Register)
			auth.POST("/verify-otp", c.auth.VerifyOTP)
			auth.POST("/login", c.auth.Login)
		}

		public.GET("/badges", c.badge.ListBadges)
		public.GET("/books/categories", c.book.Categories)
		public.GET("/books/tags", c.book.Tags)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/profile", c.auth.UpdateProfile)

		// 图书
		authGroup.POST("/books", c.book.Upload)
		authGroup.GET("/books", c.book.List)
		authGroup.GET("/books/:id", c.book.Get)
		authGroup.DELETE("/books/:id", c.book.Delete)
		authGroup.PUT("/books/:id/tags", c.book.UpdateTags)

		// 书签与高亮
		authGroup.GET("/bookmarks", c.bookmark.ListBookmarks)
		authGroup.POST("/bookmarks", c.bookmark.AddBookmark)
		authGroup.DELETE("/bookmarks/:id", c.bookmark.RemoveBookmark)
		authGroup.GET("/highlights", c.bookmark.ListHighlights)
		authGroup.POST("/highlights", c.bookmark.AddHighlight)
		authGroup.DELETE("/highlights/:id", c.bookmark.RemoveHighlight)

		// 阅读目标与打卡
		reading := authGroup.Group("/reading")
		{
			reading.POST("/goal", c.reading.SetGoal)
			reading.GET("/goal", c.reading.GetGoal)
			reading.POST("/goal/reset", c.reading.ResetGoal)
			reading.POST("/progress", c.reading.UpdateProgress)
			reading.GET("/streak", c.reading.GetStreak)
			reading.GET("/streak/weekly", c.reading.WeeklyStreaks)
			reading.GET("/streak/monthly", c.reading.MonthlyStreaks)
		}

		// 徽章与奖励
		authGroup.GET("/badges/mine", c.badge.MyBadges)
		authGroup.GET("/rewards", c.badge.MyRewards)
		authGroup.PATCH("/rewards/:id/redeem", c.badge.RedeemReward)

		// 专注会话
		focus := authGroup.Group("/focus")
		{
			focus.POST("/start", c.focus.StartSession)
			focus.POST("/end", c.focus.EndSession)
			focus.POST("/interruption", c.focus.RecordInterruption)
			focus.GET("/stats", c.focus.Stats)
		}

		// 屏蔽配置
		blocking := authGroup.Group("/blocking")
		{
			blocking.POST("/activate", c.blocking.Activate)
			blocking.POST("/deactivate", c.blocking.Deactivate)
			blocking.GET("/apps", c.blocking.ListApps)
			blocking.POST("/apps", c.blocking.AddApp)
			blocking.DELETE("/apps/:id", c.blocking.RemoveApp)
			blocking.GET("/websites", c.blocking.ListWebsites)
			blocking.POST("/websites", c.blocking.AddWebsite)
			blocking.DELETE("/websites/:id", c.blocking.RemoveWebsite)
		}
	}
}
