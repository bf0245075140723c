// internal/api/router.go
package api

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/CreativeForgeMCP/internal/config"
	"github.com/Corphon/CreativeForgeMCP/internal/di"
	"github.com/Corphon/CreativeForgeMCP/internal/services"
)

// SetupRouter 配置HTTP路由
func SetupRouter() (*gin.Engine, error) {
	cfg := config.GetCurrentConfig()

	// 只从容器获取服务，不再创建新实例
	container := di.GetContainer()

	creativeService, ok := container.Get("creative").(*services.CreativeService)
	if !ok {
		return nil, fmt.Errorf("创作服务未正确初始化")
	}

	statsService, ok := container.Get("stats").(*services.StatsService)
	if !ok {
		return nil, fmt.Errorf("统计服务未正确初始化")
	}

	feedHub, ok := container.Get("feed_hub").(*FeedHub)
	if !ok {
		return nil, fmt.Errorf("事件中心未正确初始化")
	}

	handler := NewHandler(creativeService, statsService, feedHub)

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// 启用CORS与请求追踪
	r.Use(corsMiddleware())
	r.Use(RequestIDMiddleware())

	// 静态文件与生成产物
	r.Static("/static", cfg.StaticDir)
	r.Static("/output", cfg.OutputDir)

	// HTML模板
	r.LoadHTMLGlob(filepath.Join(cfg.TemplatesDir, "*.html"))

	// ===============================
	// 页面路由
	// ===============================
	r.GET("/", handler.IndexPage)
	r.GET("/dashboard", handler.DashboardPage)

	// WebSocket 支持
	r.GET("/ws/feed", feedHub.HandleFeed)

	// ===============================
	// API路由组
	// ===============================
	api := r.Group("/api")
	{
		// 生成接口按客户端IP限流
		api.POST("/generate",
			RateLimitMiddleware(30, time.Minute, func(c *gin.Context) string { return c.ClientIP() }),
			handler.Generate)

		// 记忆检索
		api.GET("/recent", handler.Recent)
		api.POST("/keyword", handler.Keyword)
		api.POST("/similar", handler.Similar)

		// 运行状态
		api.GET("/stats", handler.Stats)
		api.GET("/health", handler.Health)

		// 配置
		configGroup := api.Group("/config")
		{
			configGroup.GET("", handler.GetConfig)
			configGroup.PUT("/render", handler.UpdateRenderConfig)
		}
	}

	return r, nil
}
