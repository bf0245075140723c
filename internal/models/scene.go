// internal/models/scene.go
package models

import "image/color"

// SceneType 场景类型的封闭枚举
type SceneType string

const (
	SceneDragon    SceneType = "dragon"
	SceneRobot     SceneType = "robot"
	SceneCity      SceneType = "city"
	SceneSpace     SceneType = "space"
	SceneLandscape SceneType = "landscape" // 默认类型，没有关键词匹配时使用
)

// ValidSceneTypes 所有支持的场景类型
var ValidSceneTypes = []SceneType{
	SceneDragon, SceneRobot, SceneCity, SceneSpace, SceneLandscape,
}

// Palette 主体颜色三元组，应用于主体图形和部分环境着色
type Palette struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBA 转换为不透明颜色
func (p Palette) RGBA() color.RGBA {
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: 255}
}

// Scale 按比例缩放每个分量（用于翅膀、骨骼等明暗变化）
func (p Palette) Scale(factor float64) Palette {
	clamp := func(v float64) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return Palette{
		R: clamp(float64(p.R) * factor),
		G: clamp(float64(p.G) * factor),
		B: clamp(float64(p.B) * factor),
	}
}

// SceneRequest 生成请求
type SceneRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	// Seed 可选的随机种子，用于测试中的确定性渲染
	Seed *int64 `json:"seed,omitempty"`
}
