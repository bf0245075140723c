// internal/scene/classifier.go
package scene

import (
	"strings"

	"github.com/Corphon/CreativeForgeMCP/internal/models"
)

// categoryEntry 一个场景类别及其触发关键词
type categoryEntry struct {
	Type     models.SceneType
	Keywords []string
}

// paletteEntry 一个颜色名集合及其对应的颜色三元组
type paletteEntry struct {
	Names   []string
	Palette models.Palette
}

// 类别表按声明顺序匹配，先命中者获胜
var categoryTable = []categoryEntry{
	{models.SceneDragon, []string{"dragon", "drake", "wyvern", "serpent"}},
	{models.SceneRobot, []string{"robot", "mech", "android", "machine"}},
	{models.SceneCity, []string{"city", "urban", "metropolis", "building"}},
	{models.SceneSpace, []string{"space", "galaxy", "planet", "star"}},
}

// 调色板表同样按声明顺序匹配
var paletteTable = []paletteEntry{
	{[]string{"green", "emerald"}, models.Palette{R: 30, G: 150, B: 30}},
	{[]string{"blue", "sapphire", "ice"}, models.Palette{R: 30, G: 30, B: 180}},
	{[]string{"gold", "yellow"}, models.Palette{R: 200, G: 180, B: 30}},
	{[]string{"black", "dark"}, models.Palette{R: 20, G: 20, B: 20}},
	{[]string{"white", "silver"}, models.Palette{R: 200, G: 200, B: 220}},
	{[]string{"purple", "violet", "amethyst"}, models.Palette{R: 120, G: 30, B: 160}},
	{[]string{"orange", "amber"}, models.Palette{R: 220, G: 120, B: 30}},
	{[]string{"pink", "rose"}, models.Palette{R: 220, G: 120, B: 180}},
}

// DefaultPalette 没有颜色关键词时的默认红色
var DefaultPalette = models.Palette{R: 180, G: 30, B: 30}

// Classify 将自由文本提示映射为场景类型和调色板。
// 纯函数：总是返回结果，无错误路径。matchedKeyword 为命中类别的关键词，
// 默认 landscape 时为空字符串。
func Classify(prompt string) (models.SceneType, models.Palette, string) {
	lower := strings.ToLower(prompt)

	sceneType := models.SceneLandscape
	matched := ""
	for _, entry := range categoryTable {
		for _, keyword := range entry.Keywords {
			if strings.Contains(lower, keyword) {
				sceneType = entry.Type
				matched = keyword
				break
			}
		}
		if matched != "" {
			break
		}
	}

	// 调色板独立于类别选择
	palette := DefaultPalette
	for _, entry := range paletteTable {
		found := false
		for _, name := range entry.Names {
			if strings.Contains(lower, name) {
				palette = entry.Palette
				found = true
				break
			}
		}
		if found {
			break
		}
	}

	return sceneType, palette, matched
}

// HasFlag 检查提示中是否包含指定标志词（如 magical/fire/night/ring）
func HasFlag(prompt string, flags ...string) bool {
	lower := strings.ToLower(prompt)
	for _, flag := range flags {
		if strings.Contains(lower, flag) {
			return true
		}
	}
	return false
}
