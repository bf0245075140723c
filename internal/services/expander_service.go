// internal/services/expander_service.go
// Package services 组织创作流水线的业务逻辑。
package services

import (
	"strings"

	"github.com/Corphon/CreativeForgeMCP/internal/utils"
)

// 组合关键词优先于单个关键词匹配
var combinedKeywords = []string{"dragon forest", "dragon in forest", "magical forest"}

// enhancementEntry 保持查表顺序确定
type enhancementEntry struct {
	keyword  string
	expanded string
}

var enhancements = []enhancementEntry{
	{"dragon", "a majestic dragon with intricate scales, powerful wings outspread, standing on a rocky cliff overlooking a vast landscape, with dramatic sunset lighting creating golden highlights on its scales"},
	{"robot", "a sleek, futuristic robot with glowing LED details, metallic surface reflecting ambient light, detailed mechanical joints and panels, standing in a high-tech laboratory environment with subtle blue lighting"},
	{"city", "a sprawling cyberpunk cityscape with neon signs illuminating rain-slicked streets, towering skyscrapers with holographic advertisements, flying vehicles navigating between buildings, and crowds of people under a night sky filled with industrial haze"},
	{"forest", "an enchanted forest with ancient trees covered in luminescent moss, shaft of golden sunlight filtering through the dense canopy, magical creatures hiding among colorful mushrooms, and a misty atmosphere creating depth and mystery"},
	{"dragon forest", "a majestic dragon with emerald scales and golden eyes in an enchanted forest, surrounded by ancient trees with glowing moss, magical fireflies illuminating the scene, and a misty atmosphere creating depth with shafts of moonlight breaking through the dense canopy"},
	{"dragon in forest", "a majestic dragon with emerald scales and golden eyes in an enchanted forest, surrounded by ancient trees with glowing moss, magical fireflies illuminating the scene, and a misty atmosphere creating depth with shafts of moonlight breaking through the dense canopy"},
	{"magical forest", "an enchanted forest with ancient trees covered in luminescent moss, shaft of golden sunlight filtering through the dense canopy, magical creatures hiding among colorful mushrooms, and a misty atmosphere creating depth and mystery"},
}

// genericSuffix 没有命中任何关键词时附加的通用修饰
const genericSuffix = ", with highly detailed textures, dramatic lighting, cinematic composition, photo-realistic quality"

// ExpanderService 将简短提示词扩展为细节丰富的渲染描述
type ExpanderService struct{}

// NewExpanderService 创建提示词扩展服务
func NewExpanderService() *ExpanderService {
	return &ExpanderService{}
}

// Expand 查表扩展提示词。匹配顺序：组合关键词 > 单个关键词 > 通用修饰。
// 同一输入总是产生同一输出。
func (s *ExpanderService) Expand(prompt string) string {
	lower := strings.ToLower(prompt)

	// 先检查多词组合
	for _, combo := range combinedKeywords {
		if strings.Contains(lower, combo) {
			expanded := lookupEnhancement(combo)
			utils.GetLogger().Infof("提示词扩展(组合): %q -> %q", prompt, expanded)
			return expanded
		}
	}

	// 再检查单个关键词
	for _, entry := range enhancements {
		if isCombined(entry.keyword) {
			continue
		}
		if strings.Contains(lower, entry.keyword) {
			utils.GetLogger().Infof("提示词扩展(关键词): %q -> %q", prompt, entry.expanded)
			return entry.expanded
		}
	}

	// 无命中则附加通用修饰
	expanded := prompt + genericSuffix
	utils.GetLogger().Infof("提示词扩展(通用): %q -> %q", prompt, expanded)
	return expanded
}

// DeriveTags 从提示词提取标签：小写化后保留长度大于3的词元
func (s *ExpanderService) DeriveTags(prompt string) []string {
	tags := []string{}
	for _, word := range strings.Fields(prompt) {
		if len(word) > 3 {
			tags = append(tags, strings.ToLower(word))
		}
	}
	return tags
}

func lookupEnhancement(keyword string) string {
	for _, entry := range enhancements {
		if entry.keyword == keyword {
			return entry.expanded
		}
	}
	return keyword
}

func isCombined(keyword string) bool {
	for _, combo := range combinedKeywords {
		if keyword == combo {
			return true
		}
	}
	return false
}
