// internal/storage/artifact_storage_test.go
package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *ArtifactStorage {
	t.Helper()
	dir, err := os.MkdirTemp("", "artifact_test")
	if err != nil {
		t.Fatalf("创建临时目录失败: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	as, err := NewArtifactStorage(dir)
	if err != nil {
		t.Fatalf("创建产物存储失败: %v", err)
	}
	return as
}

func TestSaveArtifacts(t *testing.T) {
	as := newTestStorage(t)

	basename := as.NextBasename(time.Now())
	files, err := as.SaveArtifacts(basename, []byte("png-bytes"), "obj-content", "<html></html>")
	if err != nil {
		t.Fatalf("保存产物失败: %v", err)
	}

	if !strings.HasPrefix(files.Image, "/output/image_") || !strings.HasSuffix(files.Image, ".png") {
		t.Errorf("图像路径格式不正确: %q", files.Image)
	}
	if !strings.HasPrefix(files.Model, "/output/model_") || !strings.HasSuffix(files.Model, ".obj") {
		t.Errorf("模型路径格式不正确: %q", files.Model)
	}
	if !strings.HasPrefix(files.Viewer, "/output/view_") || !strings.HasSuffix(files.Viewer, ".html") {
		t.Errorf("查看页路径格式不正确: %q", files.Viewer)
	}

	// 验证实际文件内容
	data, err := os.ReadFile(filepath.Join(as.BaseDir, "model_"+basename+".obj"))
	if err != nil {
		t.Fatalf("读取模型文件失败: %v", err)
	}
	if string(data) != "obj-content" {
		t.Errorf("模型文件内容 = %q", string(data))
	}
}

func TestNextBasenameUnique(t *testing.T) {
	as := newTestStorage(t)

	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := as.NextBasename(now)
		if seen[name] {
			t.Fatalf("同一秒内生成了重复的文件名: %q", name)
		}
		seen[name] = true
	}
}

func TestListArtifacts(t *testing.T) {
	as := newTestStorage(t)

	b1 := as.NextBasename(time.Now())
	if _, err := as.SaveArtifacts(b1, []byte("a"), "b", "c"); err != nil {
		t.Fatalf("保存产物失败: %v", err)
	}

	all, err := as.ListArtifacts("")
	if err != nil {
		t.Fatalf("列出产物失败: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("产物数量 = %d，期望 3", len(all))
	}

	images, err := as.ListArtifacts("image_")
	if err != nil {
		t.Fatalf("列出图像失败: %v", err)
	}
	if len(images) != 1 || !strings.HasPrefix(images[0], "image_") {
		t.Errorf("图像产物列表不正确: %v", images)
	}
}

func TestListArtifactsSkipsTempFiles(t *testing.T) {
	as := newTestStorage(t)

	if err := os.WriteFile(filepath.Join(as.BaseDir, "image_1_1.png.tmp"), []byte("x"), 0644); err != nil {
		t.Fatalf("写入临时文件失败: %v", err)
	}

	all, err := as.ListArtifacts("")
	if err != nil {
		t.Fatalf("列出产物失败: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("临时文件不应出现在列表中: %v", all)
	}
}
