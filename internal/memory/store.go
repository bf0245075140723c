// internal/memory/store.go
package memory

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Corphon/CreativeForgeMCP/internal/models"
	"github.com/Corphon/CreativeForgeMCP/internal/utils"
)

// Store 基于SQLite的交互记忆库。
// 标签和嵌入向量以JSON列存储，相似度排序在Go侧完成。
type Store struct {
	db       *sql.DB
	embedder EmbeddingEngine
	mu       sync.RWMutex
}

// NewStore 打开（必要时创建）记忆数据库
func NewStore(dataDir string, embedder EmbeddingEngine) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}

	dbPath := filepath.Join(dataDir, "memory.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开记忆数据库失败: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS memory (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		prompt TEXT NOT NULL,
		expanded_prompt TEXT NOT NULL,
		image_path TEXT NOT NULL,
		model_path TEXT NOT NULL,
		tags TEXT NOT NULL,
		embedding TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_memory_created_at ON memory(created_at DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化记忆表失败: %w", err)
	}

	if embedder == nil {
		embedder = NewHashEmbedder(0)
	}

	return &Store{db: db, embedder: embedder}, nil
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	return s.db.Close()
}

// Store 写入一条交互记录，返回分配的记录ID
func (s *Store) Store(prompt, expandedPrompt, imagePath, modelPath string, tags []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tags == nil {
		tags = []string{}
	}

	id := uuid.New().String()
	now := time.Now()

	doc := models.MemoryRecord{Prompt: prompt, ExpandedPrompt: expandedPrompt, Tags: tags}
	embedding := s.embedder.Embed(doc.Document())

	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("序列化标签失败: %w", err)
	}
	embJSON, err := json.Marshal(embedding)
	if err != nil {
		return "", fmt.Errorf("序列化嵌入向量失败: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO memory (id, timestamp, prompt, expanded_prompt, image_path, model_path, tags, embedding, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, now.Format(time.RFC3339), prompt, expandedPrompt, imagePath, modelPath,
		string(tagsJSON), string(embJSON), now.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("写入记忆失败: %w", err)
	}

	utils.GetLogger().Infof("记忆已存储: id=%s prompt=%q", id, prompt)
	return id, nil
}

// SearchRecent 返回最近的limit条记录，最新的在前。
// 查询失败时记录日志并返回空列表，不中断调用方。
func (s *Store) SearchRecent(limit int) []models.MemoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.Query(
		`SELECT id, timestamp, prompt, expanded_prompt, image_path, model_path, tags, created_at
		 FROM memory ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		utils.GetLogger().Errorf("查询最近记忆失败: %v", err)
		return []models.MemoryRecord{}
	}
	defer rows.Close()

	return scanRecords(rows)
}

// SearchKeyword 对提示词、扩展提示词和标签做大小写不敏感的子串匹配
func (s *Store) SearchKeyword(keyword string, limit int) []models.MemoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 5
	}
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"

	rows, err := s.db.Query(
		`SELECT id, timestamp, prompt, expanded_prompt, image_path, model_path, tags, created_at
		 FROM memory
		 WHERE LOWER(prompt) LIKE ? ESCAPE '\' OR LOWER(expanded_prompt) LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\'
		 ORDER BY created_at DESC LIMIT ?`,
		pattern, pattern, pattern, limit)
	if err != nil {
		utils.GetLogger().Errorf("关键词检索失败: %v", err)
		return []models.MemoryRecord{}
	}
	defer rows.Close()

	return scanRecords(rows)
}

// SearchSimilar 按查询文本与历史记录的余弦相似度降序返回前limit条
func (s *Store) SearchSimilar(query string, limit int) []models.MemoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 5
	}
	queryVec := s.embedder.Embed(query)

	rows, err := s.db.Query(
		`SELECT id, timestamp, prompt, expanded_prompt, image_path, model_path, tags, embedding, created_at
		 FROM memory`)
	if err != nil {
		utils.GetLogger().Errorf("相似度检索失败: %v", err)
		return []models.MemoryRecord{}
	}
	defer rows.Close()

	var records []models.MemoryRecord
	for rows.Next() {
		var rec models.MemoryRecord
		var tagsJSON, embJSON string
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Prompt, &rec.ExpandedPrompt,
			&rec.ImagePath, &rec.ModelPath, &tagsJSON, &embJSON, &createdAt); err != nil {
			utils.GetLogger().Warnf("扫描记忆行失败: %v", err)
			continue
		}
		if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
			rec.Tags = []string{}
		}
		var embedding []float64
		if err := json.Unmarshal([]byte(embJSON), &embedding); err != nil {
			continue
		}
		rec.CreatedAt = time.Unix(0, createdAt)
		rec.Similarity = CosineSimilarity(queryVec, embedding)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		utils.GetLogger().Errorf("遍历记忆行失败: %v", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Similarity > records[j].Similarity
	})
	if len(records) > limit {
		records = records[:limit]
	}
	if records == nil {
		records = []models.MemoryRecord{}
	}
	return records
}

// escapeLike 转义LIKE模式中的通配符，保证关键词按字面子串匹配
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Count 返回记忆总条数
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM memory`).Scan(&n); err != nil {
		return 0, fmt.Errorf("统计记忆数量失败: %w", err)
	}
	return n, nil
}

// scanRecords 读取不含嵌入列的查询结果
func scanRecords(rows *sql.Rows) []models.MemoryRecord {
	records := []models.MemoryRecord{}
	for rows.Next() {
		var rec models.MemoryRecord
		var tagsJSON string
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Prompt, &rec.ExpandedPrompt,
			&rec.ImagePath, &rec.ModelPath, &tagsJSON, &createdAt); err != nil {
			utils.GetLogger().Warnf("扫描记忆行失败: %v", err)
			continue
		}
		if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
			rec.Tags = []string{}
		}
		rec.CreatedAt = time.Unix(0, createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		utils.GetLogger().Errorf("遍历记忆行失败: %v", err)
	}
	return records
}
