package app

import (
	"math_quest_backend/docs"
	"math_quest_backend/internal/config"
	"math_quest_backend/internal/middleware"
	"math_quest_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由：查询只读，无需登录
	a.registerPublicRoutes(router, c)

	// 2. 执行消息：调用方取自 JWT
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.POST("/execute", c.ledger.Execute)
		authGroup.POST("/quests", c.ledger.AddQuest)
		authGroup.POST("/quests/:id/solutions", c.ledger.SubmitSolution)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/query", c.ledger.Query)
		public.GET("/quests/:id", c.ledger.GetQuest)
		public.GET("/users/:address/badges", c.ledger.GetUserBadges)
		public.GET("/users/:address/progress/:questId", c.ledger.GetUserProgress)
	}
}
