// internal/memory/store_test.go
package memory

import (
	"math"
	"os"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir, err := os.MkdirTemp("", "memory_test")
	if err != nil {
		t.Fatalf("创建临时目录失败: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := NewStore(dir, NewHashEmbedder(64))
	if err != nil {
		t.Fatalf("创建记忆库失败: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreAndSearchRecent(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Store("a red dragon", "expanded dragon text",
		"/output/image_1_1.png", "/output/model_1_1.obj", []string{"dragon"})
	if err != nil {
		t.Fatalf("写入记忆失败: %v", err)
	}
	if id == "" {
		t.Fatal("记录ID不应为空")
	}

	records := store.SearchRecent(1)
	if len(records) != 1 {
		t.Fatalf("期望1条记录，实际 %d", len(records))
	}
	rec := records[0]
	if rec.ID != id {
		t.Errorf("ID = %q，期望 %q", rec.ID, id)
	}
	if rec.Prompt != "a red dragon" || rec.ExpandedPrompt != "expanded dragon text" {
		t.Errorf("记录内容不正确: %+v", rec)
	}
	if len(rec.Tags) != 1 || rec.Tags[0] != "dragon" {
		t.Errorf("标签不正确: %v", rec.Tags)
	}
}

func TestSearchRecentOrdering(t *testing.T) {
	store := newTestStore(t)

	prompts := []string{"first prompt", "second prompt", "third prompt"}
	for _, p := range prompts {
		if _, err := store.Store(p, p, "/output/i.png", "/output/m.obj", nil); err != nil {
			t.Fatalf("写入记忆失败: %v", err)
		}
	}

	records := store.SearchRecent(10)
	if len(records) != 3 {
		t.Fatalf("期望3条记录，实际 %d", len(records))
	}
	// 最新的在前
	if records[0].Prompt != "third prompt" || records[2].Prompt != "first prompt" {
		t.Errorf("记录应按时间倒序: %v, %v, %v", records[0].Prompt, records[1].Prompt, records[2].Prompt)
	}
}

func TestSearchKeyword(t *testing.T) {
	store := newTestStore(t)

	store.Store("a dragon in forest", "expanded", "/output/a.png", "/output/a.obj", []string{"dragon", "forest"})
	store.Store("a robot in lab", "expanded", "/output/b.png", "/output/b.obj", []string{"robot"})

	records := store.SearchKeyword("forest", 10)
	if len(records) != 1 {
		t.Fatalf("期望1条匹配记录，实际 %d", len(records))
	}
	if records[0].Prompt != "a dragon in forest" {
		t.Errorf("匹配了错误的记录: %q", records[0].Prompt)
	}

	// 大小写不敏感
	records = store.SearchKeyword("FOREST", 10)
	if len(records) != 1 {
		t.Errorf("关键词匹配应忽略大小写，实际匹配 %d 条", len(records))
	}

	// 无匹配返回空列表而不是nil错误
	records = store.SearchKeyword("nonexistent", 10)
	if len(records) != 0 {
		t.Errorf("不应有匹配记录，实际 %d 条", len(records))
	}
}

func TestSearchKeywordLiteralWildcards(t *testing.T) {
	store := newTestStore(t)

	store.Store("a dragon in forest", "expanded", "/output/a.png", "/output/a.obj", []string{"dragon"})
	store.Store("rendered at 100% scale", "expanded", "/output/b.png", "/output/b.obj", []string{"scale"})

	// 关键词中的通配符必须按字面匹配，不能匹配所有记录
	records := store.SearchKeyword("100%", 10)
	if len(records) != 1 {
		t.Fatalf("通配符应按字面匹配，期望1条记录，实际 %d", len(records))
	}
	if records[0].Prompt != "rendered at 100% scale" {
		t.Errorf("匹配了错误的记录: %q", records[0].Prompt)
	}

	if records := store.SearchKeyword("dragon_", 10); len(records) != 0 {
		t.Errorf("下划线应按字面匹配，实际匹配 %d 条", len(records))
	}
}

func TestSearchSimilarOrdering(t *testing.T) {
	store := newTestStore(t)

	store.Store("a magical dragon in enchanted forest", "dragon forest magic", "/output/a.png", "/output/a.obj", []string{"dragon", "forest"})
	store.Store("a futuristic robot laboratory", "robot lab machines", "/output/b.png", "/output/b.obj", []string{"robot"})

	records := store.SearchSimilar("dragon forest", 2)
	if len(records) != 2 {
		t.Fatalf("期望2条记录，实际 %d", len(records))
	}
	if records[0].Prompt != "a magical dragon in enchanted forest" {
		t.Errorf("相似度最高的应是龙的记录，实际 %q", records[0].Prompt)
	}
	if records[0].Similarity < records[1].Similarity {
		t.Error("结果应按相似度降序排列")
	}
}

func TestCount(t *testing.T) {
	store := newTestStore(t)

	n, err := store.Count()
	if err != nil || n != 0 {
		t.Fatalf("空库计数 = %d, err = %v", n, err)
	}

	store.Store("p", "e", "/output/i.png", "/output/m.obj", nil)
	n, err = store.Count()
	if err != nil || n != 1 {
		t.Errorf("计数 = %d, err = %v，期望 1", n, err)
	}
}

func TestHashEmbedderDeterministic(t *testing.T) {
	e := NewHashEmbedder(64)
	a := e.Embed("a magical dragon")
	b := e.Embed("a magical dragon")

	for i := range a {
		if a[i] != b[i] {
			t.Fatal("相同文本应产生相同向量")
		}
	}
}

func TestHashEmbedderNormalized(t *testing.T) {
	e := NewHashEmbedder(64)
	vec := e.Embed("some text to embed")

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-9 {
		t.Errorf("向量应被归一化，模长 = %f", math.Sqrt(norm))
	}
}

func TestHashEmbedderEmptyText(t *testing.T) {
	e := NewHashEmbedder(64)
	vec := e.Embed("")
	for _, v := range vec {
		if v != 0 {
			t.Fatal("空文本应产生零向量")
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := []float64{1, 0, 0}
	if sim := CosineSimilarity(a, a); math.Abs(sim-1) > 1e-9 {
		t.Errorf("自身相似度 = %f，期望 1", sim)
	}

	b := []float64{0, 1, 0}
	if sim := CosineSimilarity(a, b); math.Abs(sim) > 1e-9 {
		t.Errorf("正交向量相似度 = %f，期望 0", sim)
	}

	if sim := CosineSimilarity(a, []float64{1, 0}); sim != 0 {
		t.Errorf("维数不一致应返回0，实际 %f", sim)
	}

	if sim := CosineSimilarity(a, []float64{0, 0, 0}); sim != 0 {
		t.Errorf("零向量相似度应为0，实际 %f", sim)
	}
}
