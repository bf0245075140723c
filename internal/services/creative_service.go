// internal/services/creative_service.go
package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Corphon/CreativeForgeMCP/internal/config"
	"github.com/Corphon/CreativeForgeMCP/internal/memory"
	"github.com/Corphon/CreativeForgeMCP/internal/mesh"
	"github.com/Corphon/CreativeForgeMCP/internal/models"
	"github.com/Corphon/CreativeForgeMCP/internal/render"
	"github.com/Corphon/CreativeForgeMCP/internal/scene"
	"github.com/Corphon/CreativeForgeMCP/internal/storage"
	"github.com/Corphon/CreativeForgeMCP/internal/utils"
)

// ErrMissingPrompt 请求缺少提示词
var ErrMissingPrompt = errors.New("缺少提示词")

// Broadcaster 向订阅方推送生成完成事件
type Broadcaster interface {
	BroadcastGeneration(result *models.GenerateResult)
}

// CreativeService 创作流水线的核心服务：
// 扩展提示词 -> 场景分类 -> 渲染 -> 生成模型与查看页 -> 落盘 -> 写入记忆
type CreativeService struct {
	Expander    *ExpanderService
	Artifacts   *storage.ArtifactStorage
	Memory      *memory.Store
	Stats       *StatsService
	Broadcaster Broadcaster
}

// NewCreativeService 创建创作服务
func NewCreativeService(expander *ExpanderService, artifacts *storage.ArtifactStorage,
	memoryStore *memory.Store, stats *StatsService) *CreativeService {
	return &CreativeService{
		Expander:  expander,
		Artifacts: artifacts,
		Memory:    memoryStore,
		Stats:     stats,
	}
}

// Generate 执行一次完整的创作流程。
// req.Seed 为空时使用随机种子；相同的 (prompt, seed) 产生逐字节相同的图像。
func (s *CreativeService) Generate(req *models.SceneRequest) (*models.GenerateResult, error) {
	if req == nil {
		return nil, ErrMissingPrompt
	}
	// 纯空白的提示词视为缺失，修剪后的提示词贯穿后续流程
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, ErrMissingPrompt
	}

	logger := utils.GetLogger()
	logger.Infof("收到创作请求: %q", prompt)

	// 1. 扩展提示词
	expanded := s.Expander.Expand(prompt)

	// 2. 场景分类与调色板选择（基于原始提示词）
	sceneType, palette, matched := scene.Classify(prompt)
	logger.Infof("场景分类: type=%s keyword=%q", sceneType, matched)

	// 3. 确定性渲染
	var seed int64
	if req.Seed != nil {
		seed = *req.Seed
	} else {
		seed = rand.Int63()
	}

	cfg := config.GetCurrentConfig()
	renderer := render.NewRenderer(cfg.Render.ImageWidth, cfg.Render.ImageHeight, cfg.Render.CaptionHeight)
	img := renderer.Render(prompt, sceneType, palette, seed)

	imageData, err := render.EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("编码PNG失败: %w", err)
	}

	// 4. 3D模型与查看页
	now := time.Now()
	basename := s.Artifacts.NextBasename(now)
	modelData := mesh.CubeOBJ()
	viewerData := mesh.ViewerPage(prompt, "image_"+basename+".png", "model_"+basename+".obj", sceneType, now)

	// 5. 落盘
	files, err := s.Artifacts.SaveArtifacts(basename, imageData, modelData, viewerData)
	if err != nil {
		return nil, fmt.Errorf("保存产物失败: %w", err)
	}

	// 6. 写入记忆（失败不阻断响应）
	tags := s.Expander.DeriveTags(prompt)
	recordID, err := s.Memory.Store(prompt, expanded, files.Image, files.Model, tags)
	if err != nil {
		logger.Errorf("写入记忆失败: %v", err)
	}

	if s.Stats != nil {
		s.Stats.RecordGeneration(sceneType)
	}

	result := &models.GenerateResult{
		Message:        fmt.Sprintf("Created image from prompt: %s", prompt),
		Files:          files,
		SceneType:      sceneType,
		Palette:        palette,
		ExpandedPrompt: expanded,
		RecordID:       recordID,
	}

	if s.Broadcaster != nil {
		s.Broadcaster.BroadcastGeneration(result)
	}

	return result, nil
}

// Recent 返回最近的创作记录
func (s *CreativeService) Recent(limit int) []models.MemoryRecord {
	return s.Memory.SearchRecent(limit)
}

// ByKeyword 按关键词检索创作记录
func (s *CreativeService) ByKeyword(keyword string, limit int) []models.MemoryRecord {
	return s.Memory.SearchKeyword(keyword, limit)
}

// Similar 按语义相似度检索创作记录
func (s *CreativeService) Similar(query string, limit int) []models.MemoryRecord {
	return s.Memory.SearchSimilar(query, limit)
}
