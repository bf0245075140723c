// internal/api/handlers_test.go
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/CreativeForgeMCP/internal/config"
	"github.com/Corphon/CreativeForgeMCP/internal/memory"
	"github.com/Corphon/CreativeForgeMCP/internal/services"
	"github.com/Corphon/CreativeForgeMCP/internal/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("OUTPUT_DIR", filepath.Join(dir, "output"))
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("STATIC_DIR", filepath.Join(dir, "static"))
	t.Setenv("TEMPLATES_DIR", filepath.Join(dir, "templates"))

	if err := config.InitConfig(filepath.Join(dir, "data")); err != nil {
		t.Fatalf("初始化配置失败: %v", err)
	}

	artifacts, err := storage.NewArtifactStorage(filepath.Join(dir, "output"))
	if err != nil {
		t.Fatalf("创建产物存储失败: %v", err)
	}
	memoryStore, err := memory.NewStore(filepath.Join(dir, "data"), memory.NewHashEmbedder(64))
	if err != nil {
		t.Fatalf("创建记忆库失败: %v", err)
	}
	t.Cleanup(func() { memoryStore.Close() })

	stats := services.NewStatsService(filepath.Join(dir, "data", "stats"))
	t.Cleanup(stats.Stop)

	creative := services.NewCreativeService(services.NewExpanderService(), artifacts, memoryStore, stats)
	handler := NewHandler(creative, stats, NewFeedHub())

	r := gin.New()
	r.POST("/api/generate", handler.Generate)
	r.GET("/api/recent", handler.Recent)
	r.POST("/api/keyword", handler.Keyword)
	r.POST("/api/similar", handler.Similar)
	r.GET("/api/stats", handler.Stats)
	r.GET("/api/health", handler.Health)
	r.GET("/api/config", handler.GetConfig)
	r.PUT("/api/config/render", handler.UpdateRenderConfig)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("序列化请求体失败: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v (body: %s)", err, w.Body.String())
	}
	return w, resp
}

func TestGenerateMissingPrompt(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/generate", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("状态码 = %d，期望 400", w.Code)
	}
	if resp.Success {
		t.Error("响应不应标记为成功")
	}
	if resp.Error == nil || resp.Error.Code != ErrorMissingPrompt {
		t.Errorf("错误代码不正确: %+v", resp.Error)
	}
}

func TestGenerateSuccess(t *testing.T) {
	r := newTestRouter(t)

	seed := int64(42)
	w, resp := doJSON(t, r, http.MethodPost, "/api/generate",
		map[string]interface{}{"prompt": "a red dragon", "seed": seed})
	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d，期望 200 (body: %s)", w.Code, w.Body.String())
	}
	if !resp.Success {
		t.Fatal("响应应标记为成功")
	}

	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("序列化data失败: %v", err)
	}
	var result struct {
		Message   string `json:"message"`
		SceneType string `json:"scene_type"`
		Files     struct {
			Image  string `json:"image"`
			Model  string `json:"model"`
			Viewer string `json:"viewer"`
		} `json:"files"`
		RecordID string `json:"record_id"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("解析生成结果失败: %v", err)
	}

	if result.SceneType != "dragon" {
		t.Errorf("场景类型 = %q，期望 dragon", result.SceneType)
	}
	if result.RecordID == "" {
		t.Error("记录ID不应为空")
	}
	for _, path := range []string{result.Files.Image, result.Files.Model, result.Files.Viewer} {
		if path == "" {
			t.Error("产物路径不应为空")
		}
	}

	// 产物文件应实际存在
	outputDir := os.Getenv("OUTPUT_DIR")
	imageName := filepath.Base(result.Files.Image)
	if _, err := os.Stat(filepath.Join(outputDir, imageName)); err != nil {
		t.Errorf("图像文件应已落盘: %v", err)
	}
}

func TestRecentAfterGenerate(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/generate", map[string]string{"prompt": "a blue robot"})

	w, resp := doJSON(t, r, http.MethodGet, "/api/recent?limit=5", nil)
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("查询最近记录失败: %d", w.Code)
	}

	data, _ := json.Marshal(resp.Data)
	var body struct {
		Count   int `json:"count"`
		Results []struct {
			Prompt string `json:"prompt"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if body.Count != 1 || len(body.Results) != 1 {
		t.Fatalf("期望1条记录，实际 %d", body.Count)
	}
	if body.Results[0].Prompt != "a blue robot" {
		t.Errorf("记录提示词 = %q", body.Results[0].Prompt)
	}
}

func TestKeywordMissingBody(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/keyword", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("状态码 = %d，期望 400", w.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrorMissingKeyword {
		t.Errorf("错误代码不正确: %+v", resp.Error)
	}
}

func TestSimilarSearch(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/generate", map[string]string{"prompt": "a magical dragon in forest"})
	doJSON(t, r, http.MethodPost, "/api/generate", map[string]string{"prompt": "a futuristic robot"})

	w, resp := doJSON(t, r, http.MethodPost, "/api/similar",
		map[string]interface{}{"prompt": "dragon forest", "limit": 1})
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("相似检索失败: %d", w.Code)
	}

	data, _ := json.Marshal(resp.Data)
	var body struct {
		Results []struct {
			Prompt     string  `json:"prompt"`
			Similarity float64 `json:"similarity"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if len(body.Results) != 1 {
		t.Fatalf("期望1条记录，实际 %d", len(body.Results))
	}
	if body.Results[0].Prompt != "a magical dragon in forest" {
		t.Errorf("相似度最高的应是龙的记录，实际 %q", body.Results[0].Prompt)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK || !resp.Success {
		t.Errorf("健康检查失败: %d", w.Code)
	}
}

func TestStatsCountsGenerations(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/generate", map[string]string{"prompt": "a dragon"})
	doJSON(t, r, http.MethodPost, "/api/generate", map[string]string{"prompt": "a robot"})

	_, resp := doJSON(t, r, http.MethodGet, "/api/stats", nil)
	data, _ := json.Marshal(resp.Data)
	var stats struct {
		TotalGenerations int            `json:"total_generations"`
		SceneStats       map[string]int `json:"scene_stats"`
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatalf("解析统计失败: %v", err)
	}
	if stats.TotalGenerations != 2 {
		t.Errorf("总生成次数 = %d，期望 2", stats.TotalGenerations)
	}
	if stats.SceneStats["dragon"] != 1 || stats.SceneStats["robot"] != 1 {
		t.Errorf("场景统计不正确: %v", stats.SceneStats)
	}
}

func TestUpdateRenderConfigEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPut, "/api/config/render",
		map[string]int{"image_width": 1024, "image_height": 768, "caption_height": 60})
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("更新渲染配置失败: %d (body: %s)", w.Code, w.Body.String())
	}

	cfg := config.GetCurrentConfig()
	if cfg.Render.ImageWidth != 1024 {
		t.Errorf("渲染宽度 = %d，期望 1024", cfg.Render.ImageWidth)
	}
}

func TestUpdateRenderConfigRejectsNegative(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPut, "/api/config/render",
		map[string]int{"image_width": -1, "image_height": 768, "caption_height": 60})
	if w.Code != http.StatusBadRequest {
		t.Errorf("状态码 = %d，期望 400", w.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrorConfigInvalid {
		t.Errorf("错误代码不正确: %+v", resp.Error)
	}
}
