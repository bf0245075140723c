// internal/services/stats_service.go
package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Corphon/CreativeForgeMCP/internal/models"
)

// UsageStats 表示生成服务的使用统计
type UsageStats struct {
	TotalGenerations int            `json:"total_generations"`
	TodayGenerations int            `json:"today_generations"`
	DailyStats       map[string]int `json:"daily_stats"`
	SceneStats       map[string]int `json:"scene_stats"`
	LastUpdated      time.Time      `json:"last_updated"`
}

// StatsService 统计每日与按场景类型的生成次数，定期持久化到JSON文件
type StatsService struct {
	BasePath  string // 统计数据存储路径
	statsFile string // 统计文件名
	mutex     sync.Mutex
	cached    *UsageStats

	lastCheckDate string

	// 批量保存控制
	isDirty      bool
	lastSaveTime time.Time
	saveInterval time.Duration
	stopCh       chan struct{}
}

// NewStatsService 创建统计服务实例
func NewStatsService(basePath string) *StatsService {
	if basePath == "" {
		basePath = "data/stats"
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		fmt.Printf("Warning: Failed to create stats directory: %v\n", err)
	}

	service := &StatsService{
		BasePath:     basePath,
		statsFile:    filepath.Join(basePath, "usage_stats.json"),
		saveInterval: 30 * time.Second,
		stopCh:       make(chan struct{}),
	}

	service.mutex.Lock()
	service.initStatsUnlocked()
	service.mutex.Unlock()

	service.startPeriodicSave()

	return service
}

// initStatsUnlocked 初始化统计数据（无锁版本）
func (s *StatsService) initStatsUnlocked() {
	if loaded, err := s.loadStatsFromFile(); err == nil {
		s.rollDateUnlocked(loaded)
		s.cached = loaded
		return
	}

	s.cached = &UsageStats{
		DailyStats:  make(map[string]int),
		SceneStats:  make(map[string]int),
		LastUpdated: time.Now(),
	}
	if err := s.saveStats(s.cached); err != nil {
		fmt.Printf("警告: 保存初始统计数据失败: %v\n", err)
	}
}

// rollDateUnlocked 跨日时清零今日计数
func (s *StatsService) rollDateUnlocked(stats *UsageStats) {
	today := time.Now().Format("2006-01-02")
	if s.lastCheckDate != today {
		s.lastCheckDate = today
		if stats.LastUpdated.Format("2006-01-02") != today {
			stats.TodayGenerations = 0
		}
	}
	if stats.DailyStats == nil {
		stats.DailyStats = make(map[string]int)
	}
	if stats.SceneStats == nil {
		stats.SceneStats = make(map[string]int)
	}
}

// RecordGeneration 记录一次成功的生成
func (s *StatsService) RecordGeneration(sceneType models.SceneType) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.rollDateUnlocked(s.cached)

	today := time.Now().Format("2006-01-02")
	s.cached.TotalGenerations++
	s.cached.TodayGenerations++
	s.cached.DailyStats[today]++
	s.cached.SceneStats[string(sceneType)]++
	s.cached.LastUpdated = time.Now()
	s.isDirty = true
}

// GetStats 返回当前统计数据的副本
func (s *StatsService) GetStats() UsageStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.rollDateUnlocked(s.cached)

	copied := *s.cached
	copied.DailyStats = make(map[string]int, len(s.cached.DailyStats))
	for k, v := range s.cached.DailyStats {
		copied.DailyStats[k] = v
	}
	copied.SceneStats = make(map[string]int, len(s.cached.SceneStats))
	for k, v := range s.cached.SceneStats {
		copied.SceneStats[k] = v
	}
	return copied
}

// startPeriodicSave 后台定期把脏数据刷到磁盘
func (s *StatsService) startPeriodicSave() {
	go func() {
		ticker := time.NewTicker(s.saveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.flushIfDirty()
			case <-s.stopCh:
				s.flushIfDirty()
				return
			}
		}
	}()
}

// Stop 停止后台保存并做最后一次落盘
func (s *StatsService) Stop() {
	close(s.stopCh)
}

func (s *StatsService) flushIfDirty() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isDirty {
		return
	}
	if err := s.saveStats(s.cached); err != nil {
		fmt.Printf("警告: 保存统计数据失败: %v\n", err)
		return
	}
	s.isDirty = false
	s.lastSaveTime = time.Now()
}

// loadStatsFromFile 从磁盘加载统计数据
func (s *StatsService) loadStatsFromFile() (*UsageStats, error) {
	data, err := os.ReadFile(s.statsFile)
	if err != nil {
		return nil, err
	}
	var stats UsageStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("解析统计文件失败: %w", err)
	}
	return &stats, nil
}

// saveStats 原子性写入统计文件
func (s *StatsService) saveStats(stats *UsageStats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化统计数据失败: %w", err)
	}

	tempPath := s.statsFile + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("保存临时统计文件失败: %w", err)
	}
	if err := os.Rename(tempPath, s.statsFile); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("保存统计文件失败: %w", err)
	}
	return nil
}
