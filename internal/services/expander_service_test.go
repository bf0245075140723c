// internal/services/expander_service_test.go
package services

import (
	"strings"
	"testing"
)

func TestExpandCombinedKeywordPriority(t *testing.T) {
	s := NewExpanderService()

	// 组合关键词优先于单个关键词
	expanded := s.Expand("a dragon in forest at night")
	if !strings.Contains(expanded, "emerald scales and golden eyes") {
		t.Errorf("应命中 dragon in forest 组合扩展，实际: %q", expanded)
	}
}

func TestExpandSingleKeywords(t *testing.T) {
	s := NewExpanderService()

	cases := []struct {
		prompt string
		want   string
	}{
		{"a fierce dragon", "a majestic dragon with intricate scales"},
		{"a shiny robot", "a sleek, futuristic robot"},
		{"a big city", "a sprawling cyberpunk cityscape"},
		{"a deep forest", "an enchanted forest with ancient trees"},
	}
	for _, tc := range cases {
		expanded := s.Expand(tc.prompt)
		if !strings.Contains(expanded, tc.want) {
			t.Errorf("Expand(%q) 应包含 %q，实际: %q", tc.prompt, tc.want, expanded)
		}
	}
}

func TestExpandGenericFallback(t *testing.T) {
	s := NewExpanderService()

	prompt := "a quiet mountain lake"
	expanded := s.Expand(prompt)
	if !strings.HasPrefix(expanded, prompt) {
		t.Errorf("通用扩展应保留原始提示词前缀: %q", expanded)
	}
	if !strings.Contains(expanded, "photo-realistic quality") {
		t.Errorf("通用扩展应附加修饰后缀: %q", expanded)
	}
}

func TestExpandCaseInsensitive(t *testing.T) {
	s := NewExpanderService()

	upper := s.Expand("A DRAGON")
	lower := s.Expand("a dragon")
	if upper != lower {
		t.Error("关键词匹配应忽略大小写")
	}
}

func TestExpandDeterministic(t *testing.T) {
	s := NewExpanderService()

	prompt := "magical forest with fireflies"
	first := s.Expand(prompt)
	for i := 0; i < 5; i++ {
		if s.Expand(prompt) != first {
			t.Fatal("相同输入的扩展结果应完全一致")
		}
	}
}

func TestDeriveTags(t *testing.T) {
	s := NewExpanderService()

	tags := s.DeriveTags("A Magical Dragon in the sky")
	want := []string{"magical", "dragon"}
	if len(tags) != len(want) {
		t.Fatalf("标签 = %v，期望 %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("标签[%d] = %q，期望 %q", i, tags[i], want[i])
		}
	}
}

func TestDeriveTagsEmpty(t *testing.T) {
	s := NewExpanderService()

	tags := s.DeriveTags("a big cat")
	if len(tags) != 0 {
		t.Errorf("短词不应产生标签: %v", tags)
	}
	if tags == nil {
		t.Error("应返回空切片而不是nil")
	}
}
