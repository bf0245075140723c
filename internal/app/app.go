// internal/app/app.go
// Package app 负责应用级初始化：按依赖顺序创建服务并注册到容器。
package app

import (
	"fmt"
	"sync"

	"github.com/Corphon/CreativeForgeMCP/internal/api"
	"github.com/Corphon/CreativeForgeMCP/internal/config"
	"github.com/Corphon/CreativeForgeMCP/internal/di"
	"github.com/Corphon/CreativeForgeMCP/internal/memory"
	"github.com/Corphon/CreativeForgeMCP/internal/services"
	"github.com/Corphon/CreativeForgeMCP/internal/storage"
	"github.com/Corphon/CreativeForgeMCP/internal/utils"
)

// App 应用实例
type App struct {
	Container *di.Container
}

var (
	appInstance *App
	appOnce     sync.Once
)

// GetApp 获取应用单例
func GetApp() *App {
	appOnce.Do(func() {
		appInstance = &App{
			Container: di.GetContainer(),
		}
	})
	return appInstance
}

// InitServices 按依赖顺序初始化所有服务并注册到容器。
// 顺序：产物存储 -> 记忆库 -> 扩展服务 -> 统计 -> 事件中心 -> 创作服务。
func InitServices() error {
	cfg := config.GetCurrentConfig()
	container := di.GetContainer()
	logger := utils.GetLogger()

	// 1. 产物存储
	artifacts, err := storage.NewArtifactStorage(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("初始化产物存储失败: %w", err)
	}
	container.Register("artifacts", artifacts)

	// 2. 记忆库
	embedder := memory.NewHashEmbedder(256)
	memoryStore, err := memory.NewStore(cfg.DataDir, embedder)
	if err != nil {
		return fmt.Errorf("初始化记忆库失败: %w", err)
	}
	container.Register("memory", memoryStore)

	// 3. 提示词扩展服务
	expander := services.NewExpanderService()
	container.Register("expander", expander)

	// 4. 统计服务
	stats := services.NewStatsService(cfg.DataDir + "/stats")
	container.Register("stats", stats)

	// 5. WebSocket事件中心
	feedHub := api.NewFeedHub()
	container.Register("feed_hub", feedHub)

	// 6. 创作服务
	creative := services.NewCreativeService(expander, artifacts, memoryStore, stats)
	creative.Broadcaster = feedHub
	container.Register("creative", creative)

	logger.Infof("服务初始化完成: %v", container.GetNames())
	return nil
}

// Cleanup 释放服务资源，关闭数据库并做最后一次统计落盘
func Cleanup() {
	container := di.GetContainer()
	logger := utils.GetLogger()

	if stats, ok := container.Get("stats").(*services.StatsService); ok {
		stats.Stop()
	}

	if memoryStore, ok := container.Get("memory").(*memory.Store); ok {
		if err := memoryStore.Close(); err != nil {
			logger.Errorf("关闭记忆库失败: %v", err)
		}
	}

	container.Clear()
	logger.Info("应用资源已清理", nil)
}
