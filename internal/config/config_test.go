// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setupConfig(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		t.Fatalf("创建临时目录失败: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
		configMutex.Lock()
		currentConfig = nil
		configFile = ""
		configMutex.Unlock()
	})

	setTempDirs(t, dir)

	if err := InitConfig(dir); err != nil {
		t.Fatalf("初始化配置失败: %v", err)
	}
	return dir
}

// setTempDirs 避免在包目录下创建默认目录
func setTempDirs(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("OUTPUT_DIR", filepath.Join(dir, "output"))
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("STATIC_DIR", filepath.Join(dir, "static"))
	t.Setenv("TEMPLATES_DIR", filepath.Join(dir, "templates"))
}

func TestLoadDefaults(t *testing.T) {
	setTempDirs(t, t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Port != "8888" {
		t.Errorf("默认端口 = %q，期望 8888", cfg.Port)
	}
	if cfg.ImageWidth != 800 || cfg.ImageHeight != 600 {
		t.Errorf("默认图像尺寸 = %dx%d，期望 800x600", cfg.ImageWidth, cfg.ImageHeight)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	setTempDirs(t, t.TempDir())
	t.Setenv("PORT", "9999")
	t.Setenv("IMAGE_WIDTH", "1024")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("端口 = %q，期望 9999", cfg.Port)
	}
	if cfg.ImageWidth != 1024 {
		t.Errorf("图像宽度 = %d，期望 1024", cfg.ImageWidth)
	}
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	setTempDirs(t, t.TempDir())
	t.Setenv("IMAGE_WIDTH", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.ImageWidth != 800 {
		t.Errorf("非法整数应回退到默认值800，实际 %d", cfg.ImageWidth)
	}
}

func TestInitConfigWritesFile(t *testing.T) {
	dir := setupConfig(t)

	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Errorf("初始化后应生成配置文件: %v", err)
	}

	cfg := GetCurrentConfig()
	if cfg.Render.ImageWidth != 800 || cfg.Render.CaptionHeight != 50 {
		t.Errorf("渲染默认配置不正确: %+v", cfg.Render)
	}
}

func TestUpdateRenderConfig(t *testing.T) {
	setupConfig(t)

	err := UpdateRenderConfig(RenderConfig{ImageWidth: 1024, ImageHeight: 768, CaptionHeight: 60})
	if err != nil {
		t.Fatalf("更新渲染配置失败: %v", err)
	}

	cfg := GetCurrentConfig()
	if cfg.Render.ImageWidth != 1024 || cfg.Render.ImageHeight != 768 || cfg.Render.CaptionHeight != 60 {
		t.Errorf("渲染配置未生效: %+v", cfg.Render)
	}
}

func TestUpdateRenderConfigRejectsInvalid(t *testing.T) {
	setupConfig(t)

	if err := UpdateRenderConfig(RenderConfig{ImageWidth: 0, ImageHeight: 600}); err == nil {
		t.Error("非法尺寸应返回错误")
	}
}

func TestGetCurrentConfigReturnsCopy(t *testing.T) {
	setupConfig(t)

	cfg := GetCurrentConfig()
	cfg.Render.ImageWidth = 1

	if GetCurrentConfig().Render.ImageWidth == 1 {
		t.Error("修改副本不应影响全局配置")
	}
}

func TestReload(t *testing.T) {
	setupConfig(t)

	if err := UpdateRenderConfig(RenderConfig{ImageWidth: 640, ImageHeight: 480, CaptionHeight: 40}); err != nil {
		t.Fatalf("更新渲染配置失败: %v", err)
	}

	// 模拟外部进程修改后重载
	if err := Reload(); err != nil {
		t.Fatalf("重载配置失败: %v", err)
	}

	cfg := GetCurrentConfig()
	if cfg.Render.ImageWidth != 640 {
		t.Errorf("重载后图像宽度 = %d，期望 640", cfg.Render.ImageWidth)
	}
}

func TestReloadBackfillsInvalidDimensions(t *testing.T) {
	setupConfig(t)

	// 手工改坏配置文件中的渲染尺寸
	broken := `{"port":"8888","render":{"image_width":0,"image_height":-1,"caption_height":0}}`
	if err := os.WriteFile(ConfigFilePath(), []byte(broken), 0644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	if err := Reload(); err != nil {
		t.Fatalf("重载配置失败: %v", err)
	}

	cfg := GetCurrentConfig()
	if cfg.Render.ImageWidth != 800 || cfg.Render.ImageHeight != 600 || cfg.Render.CaptionHeight != 50 {
		t.Errorf("非法渲染尺寸应回填默认值，实际 %+v", cfg.Render)
	}
}
