// internal/memory/embedding.go
// Package memory 持久化每次创作交互并支持按时间、关键词、
// 语义相似度三种方式检索。
package memory

import (
	"hash/fnv"
	"math"
	"strings"
)

// EmbeddingEngine 将文本映射为定长向量，供相似度检索使用
type EmbeddingEngine interface {
	Embed(text string) []float64
	Dimensions() int
	Name() string
}

// HashEmbedder 基于特征哈希的确定性嵌入器。
// 每个词元经FNV哈希落入固定桶位，第二个哈希决定正负号，
// 最后做L2归一化。无外部服务依赖，同一文本总是产生同一向量。
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder 创建嵌入器，dims<=0 时使用默认256维
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = 256
	}
	return &HashEmbedder{dims: dims}
}

// Embed 计算文本的归一化特征向量，空文本返回零向量
func (e *HashEmbedder) Embed(text string) []float64 {
	vec := make([]float64, e.dims)

	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		sum := h.Sum32()

		bucket := int(sum % uint32(e.dims))
		// 哈希高位决定符号，减少桶冲突时的系统性偏差
		sign := 1.0
		if (sum>>16)&1 == 1 {
			sign = -1.0
		}
		vec[bucket] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// Dimensions 返回向量维数
func (e *HashEmbedder) Dimensions() int {
	return e.dims
}

// Name 返回嵌入器标识
func (e *HashEmbedder) Name() string {
	return "feature-hash"
}

// tokenize 小写化后按非字母数字切分
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		isLower := r >= 'a' && r <= 'z'
		isDigit := r >= '0' && r <= '9'
		return !isLower && !isDigit
	})
}

// CosineSimilarity 计算两个向量的余弦相似度，
// 维数不一致或零向量时返回0
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
