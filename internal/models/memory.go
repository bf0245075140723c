// internal/models/memory.go
package models

import "time"

// MemoryRecord 描述一次已完成的创作，用于最近/关键词/相似度检索
type MemoryRecord struct {
	ID             string    `json:"id"`
	Timestamp      string    `json:"timestamp"` // ISO-8601 创建时间
	Prompt         string    `json:"prompt"`
	ExpandedPrompt string    `json:"expanded_prompt"`
	ImagePath      string    `json:"image_path"`
	ModelPath      string    `json:"model_path"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"created_at"`

	// Similarity 仅在相似度检索结果中填充
	Similarity float64 `json:"similarity,omitempty"`
}

// Document 返回用于向量嵌入的组合文本（prompt + 扩展 + 标签）
func (r *MemoryRecord) Document() string {
	doc := r.Prompt + " " + r.ExpandedPrompt
	for _, tag := range r.Tags {
		doc += " " + tag
	}
	return doc
}
