package app

import (
	"aglc_chat/docs"
	"aglc_chat/internal/config"
	"aglc_chat/internal/middleware"
	"aglc_chat/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/api/health", c.health.HealthCheck)

	// 以下路由都绑定浏览器会话
	sessionGroup := router.Group("/")
	sessionGroup.Use(middleware.SessionMiddleware(&cfg.Session, a.Sessions))
	{
		sessionGroup.GET("/", c.page.Index)
		sessionGroup.GET("/api/session", c.page.Session)

		ui := sessionGroup.Group("/ui")
		{
			ui.GET("/feed", c.page.Feed)
			ui.GET("/citations", c.page.Citations)
			ui.GET("/toggles", c.page.Toggles)
			ui.POST("/chat", c.chat.Submit)
			ui.POST("/embedding", c.embedding.Toggle)
		}
	}
}
