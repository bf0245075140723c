// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// 当前配置的单例实例
var (
	currentConfig *AppConfig
	configMutex   sync.RWMutex
	configFile    string
)

// RenderConfig 渲染相关配置
type RenderConfig struct {
	ImageWidth    int `json:"image_width"`
	ImageHeight   int `json:"image_height"`
	CaptionHeight int `json:"caption_height"`
}

// AppConfig 包含应用程序的所有配置
type AppConfig struct {
	// 基础配置
	Port         string `json:"port"`
	DataDir      string `json:"data_dir"`
	OutputDir    string `json:"output_dir"`
	StaticDir    string `json:"static_dir"`
	TemplatesDir string `json:"templates_dir"`
	LogDir       string `json:"log_dir"`
	DebugMode    bool   `json:"debug_mode"`

	// 渲染相关配置
	Render RenderConfig `json:"render"`
}

// Config 存储从环境变量加载的基础配置
type Config struct {
	Port         string
	DataDir      string
	OutputDir    string
	StaticDir    string
	TemplatesDir string
	LogDir       string
	DebugMode    bool
	ImageWidth   int
	ImageHeight  int
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	// 尝试加载.env文件（可选）
	godotenv.Load()

	config := &Config{
		Port:         getEnv("PORT", "8888"),
		DataDir:      getEnvPath("DATA_DIR", "data"),
		OutputDir:    getEnvPath("OUTPUT_DIR", "output"),
		StaticDir:    getEnvPath("STATIC_DIR", "web/static"),
		TemplatesDir: getEnvPath("TEMPLATES_DIR", "web/templates"),
		LogDir:       getEnvPath("LOG_DIR", "logs"),
		DebugMode:    getEnvBool("DEBUG_MODE", true),
		ImageWidth:   getEnvInt("IMAGE_WIDTH", 800),
		ImageHeight:  getEnvInt("IMAGE_HEIGHT", 600),
	}

	return config, nil
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvPath 获取环境变量表示的路径，如果不存在则返回默认值
func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)

	// 确保目录存在
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			fmt.Printf("警告: 创建目录失败 %s: %v\n", path, err)
		}
	}

	return path
}

// getEnvBool 获取布尔类型环境变量
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt 获取整数类型环境变量
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("警告: 环境变量 %s 的值 %q 无效，使用默认值 %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// InitConfig 初始化配置管理器
func InitConfig(dataDir string) error {
	configFile = filepath.Join(dataDir, "config.json")

	// 加载基础配置
	baseConfig, err := Load()
	if err != nil {
		return err
	}

	configMutex.Lock()
	defer configMutex.Unlock()

	currentConfig = buildAppConfig(baseConfig)

	// 尝试从文件加载已保存的配置
	if _, err := os.Stat(configFile); !os.IsNotExist(err) {
		data, err := os.ReadFile(configFile)
		if err == nil {
			var savedConfig AppConfig
			if json.Unmarshal(data, &savedConfig) == nil {
				// 合并配置：保留文件中的渲染设置，但使用最新的基础配置
				savedConfig.Port = baseConfig.Port
				savedConfig.DataDir = baseConfig.DataDir
				savedConfig.OutputDir = baseConfig.OutputDir
				savedConfig.StaticDir = baseConfig.StaticDir
				savedConfig.TemplatesDir = baseConfig.TemplatesDir
				savedConfig.LogDir = baseConfig.LogDir
				savedConfig.DebugMode = baseConfig.DebugMode

				if savedConfig.Render.ImageWidth <= 0 {
					savedConfig.Render.ImageWidth = baseConfig.ImageWidth
				}
				if savedConfig.Render.ImageHeight <= 0 {
					savedConfig.Render.ImageHeight = baseConfig.ImageHeight
				}
				if savedConfig.Render.CaptionHeight <= 0 {
					savedConfig.Render.CaptionHeight = 50
				}

				currentConfig = &savedConfig
			}
		}
	}

	// 保存初始配置到文件
	return saveConfigLocked()
}

// buildAppConfig 从基础配置构建运行时配置
func buildAppConfig(baseConfig *Config) *AppConfig {
	return &AppConfig{
		Port:         baseConfig.Port,
		DataDir:      baseConfig.DataDir,
		OutputDir:    baseConfig.OutputDir,
		StaticDir:    baseConfig.StaticDir,
		TemplatesDir: baseConfig.TemplatesDir,
		LogDir:       baseConfig.LogDir,
		DebugMode:    baseConfig.DebugMode,
		Render: RenderConfig{
			ImageWidth:    baseConfig.ImageWidth,
			ImageHeight:   baseConfig.ImageHeight,
			CaptionHeight: 50,
		},
	}
}

// GetCurrentConfig 返回当前配置的副本
func GetCurrentConfig() *AppConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if currentConfig == nil {
		// 紧急情况，返回一个基本配置
		baseConfig, _ := Load()
		return buildAppConfig(baseConfig)
	}

	// 返回配置的副本
	configCopy := *currentConfig
	return &configCopy
}

// UpdateRenderConfig 更新渲染配置并持久化
func UpdateRenderConfig(render RenderConfig) error {
	configMutex.Lock()
	defer configMutex.Unlock()

	if currentConfig == nil {
		return fmt.Errorf("配置系统未初始化")
	}

	if render.ImageWidth <= 0 || render.ImageHeight <= 0 {
		return fmt.Errorf("无效的图像尺寸: %dx%d", render.ImageWidth, render.ImageHeight)
	}
	if render.CaptionHeight <= 0 {
		render.CaptionHeight = 50
	}

	currentConfig.Render = render

	return saveConfigLocked()
}

// Reload 重新从磁盘加载配置文件（显式重载API）
func Reload() error {
	configMutex.Lock()
	defer configMutex.Unlock()

	if configFile == "" {
		return fmt.Errorf("配置系统未初始化")
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	var savedConfig AppConfig
	if err := json.Unmarshal(data, &savedConfig); err != nil {
		return fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 手工编辑的文件可能带非法渲染尺寸，与初始化时一样回填
	if savedConfig.Render.ImageWidth <= 0 {
		savedConfig.Render.ImageWidth = getEnvInt("IMAGE_WIDTH", 800)
	}
	if savedConfig.Render.ImageHeight <= 0 {
		savedConfig.Render.ImageHeight = getEnvInt("IMAGE_HEIGHT", 600)
	}
	if savedConfig.Render.CaptionHeight <= 0 {
		savedConfig.Render.CaptionHeight = 50
	}

	currentConfig = &savedConfig
	return nil
}

// SaveConfig 保存当前配置到文件
func SaveConfig() error {
	configMutex.Lock()
	defer configMutex.Unlock()

	return saveConfigLocked()
}

func saveConfigLocked() error {
	if currentConfig == nil {
		return fmt.Errorf("没有配置可保存")
	}

	dir := filepath.Dir(configFile)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建配置目录失败: %w", err)
		}
	}

	data, err := json.MarshalIndent(currentConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	return os.WriteFile(configFile, data, 0644)
}

// ConfigFilePath 返回持久化配置文件路径
func ConfigFilePath() string {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return configFile
}
