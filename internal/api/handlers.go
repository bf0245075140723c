// internal/api/handlers.go
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/CreativeForgeMCP/internal/config"
	"github.com/Corphon/CreativeForgeMCP/internal/models"
	"github.com/Corphon/CreativeForgeMCP/internal/services"
	"github.com/Corphon/CreativeForgeMCP/internal/utils"
)

// Handler API处理器
type Handler struct {
	CreativeService *services.CreativeService
	StatsService    *services.StatsService
	FeedHub         *FeedHub
	Response        *ResponseHelper

	startTime time.Time
}

// NewHandler 创建API处理器
func NewHandler(creative *services.CreativeService, stats *services.StatsService, hub *FeedHub) *Handler {
	return &Handler{
		CreativeService: creative,
		StatsService:    stats,
		FeedHub:         hub,
		Response:        NewResponseHelper(),
		startTime:       time.Now(),
	}
}

// keywordRequest 关键词检索请求体
type keywordRequest struct {
	Keyword string `json:"keyword"`
	Limit   int    `json:"limit"`
}

// similarRequest 相似度检索请求体
type similarRequest struct {
	Prompt string `json:"prompt"`
	Limit  int    `json:"limit"`
}

// Generate 处理创作请求
// POST /api/generate
func (h *Handler) Generate(c *gin.Context) {
	var req models.SceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, ErrorMissingPrompt, "Missing 'prompt' in request")
		return
	}

	result, err := h.CreativeService.Generate(&req)
	if err != nil {
		if errors.Is(err, services.ErrMissingPrompt) {
			h.Response.BadRequest(c, ErrorMissingPrompt, "Missing 'prompt' in request")
			return
		}
		utils.GetLogger().Errorf("创作请求处理失败: %v", err)
		h.Response.InternalError(c, ErrorRenderFailed, "Failed to generate image")
		return
	}

	h.Response.Success(c, result, result.Message)
}

// Recent 返回最近的创作记录
// GET /api/recent?limit=5
func (h *Handler) Recent(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 5)
	records := h.CreativeService.Recent(limit)
	h.Response.Success(c, gin.H{"results": records, "count": len(records)},
		fmt.Sprintf("Found %d recent images", len(records)))
}

// Keyword 按关键词检索创作记录
// POST /api/keyword
func (h *Handler) Keyword(c *gin.Context) {
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Keyword == "" {
		h.Response.BadRequest(c, ErrorMissingKeyword, "Missing 'keyword' in request")
		return
	}

	records := h.CreativeService.ByKeyword(req.Keyword, req.Limit)
	h.Response.Success(c, gin.H{"results": records, "count": len(records), "keyword": req.Keyword},
		fmt.Sprintf("Found %d matching images", len(records)))
}

// Similar 按语义相似度检索创作记录
// POST /api/similar
func (h *Handler) Similar(c *gin.Context) {
	var req similarRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		h.Response.BadRequest(c, ErrorMissingQuery, "Missing 'prompt' in request")
		return
	}

	records := h.CreativeService.Similar(req.Prompt, req.Limit)
	h.Response.Success(c, gin.H{"results": records, "count": len(records)},
		fmt.Sprintf("Found %d similar images", len(records)))
}

// Stats 返回使用统计
// GET /api/stats
func (h *Handler) Stats(c *gin.Context) {
	h.Response.Success(c, h.StatsService.GetStats())
}

// Health 健康检查
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	h.Response.Success(c, gin.H{
		"status":     "ok",
		"uptime":     time.Since(h.startTime).String(),
		"ws_clients": h.FeedHub.ClientCount(),
	})
}

// GetConfig 返回当前应用配置
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	h.Response.Success(c, config.GetCurrentConfig())
}

// UpdateRenderConfig 更新渲染参数并持久化
// PUT /api/config/render
func (h *Handler) UpdateRenderConfig(c *gin.Context) {
	var req config.RenderConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, ErrorConfigInvalid, "Invalid render config payload")
		return
	}

	if req.ImageWidth <= 0 || req.ImageHeight <= 0 || req.CaptionHeight <= 0 {
		h.Response.BadRequest(c, ErrorConfigInvalid, "Render dimensions must be positive")
		return
	}

	if err := config.UpdateRenderConfig(req); err != nil {
		utils.GetLogger().Errorf("更新渲染配置失败: %v", err)
		h.Response.InternalError(c, ErrorConfigUpdateFailed, "Failed to update render config")
		return
	}

	h.Response.Success(c, config.GetCurrentConfig().Render, "渲染配置已更新")
}

// IndexPage 主页
// GET /
func (h *Handler) IndexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": "Creative Forge",
	})
}

// DashboardPage 实时生成面板
// GET /dashboard
func (h *Handler) DashboardPage(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"title": "Creative Forge Dashboard",
	})
}

// parseLimit 解析limit参数，非法值回退到默认值
func parseLimit(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	if n > 100 {
		return 100
	}
	return n
}
