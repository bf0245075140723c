// internal/storage/artifact_storage.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Corphon/CreativeForgeMCP/internal/models"
)

// ArtifactStorage 管理生成产物（PNG、OBJ、HTML查看页）的落盘。
// 所有写入先写临时文件再重命名，保证不会出现半写文件。
type ArtifactStorage struct {
	BaseDir string

	// 并发控制
	fileLocks sync.Map // 文件级别锁 path -> *sync.Mutex

	// 同一秒内多次生成时用递增序号区分文件名
	counter uint64
}

// NewArtifactStorage 创建产物存储服务
func NewArtifactStorage(baseDir string) (*ArtifactStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	return &ArtifactStorage{BaseDir: baseDir}, nil
}

// 获取文件锁
func (as *ArtifactStorage) getFileLock(fullPath string) *sync.Mutex {
	value, _ := as.fileLocks.LoadOrStore(fullPath, &sync.Mutex{})
	return value.(*sync.Mutex)
}

// NextBasename 生成唯一的文件名后缀 "<unix时间戳>_<序号>"。
// 时间戳保持文件按生成时间可排序，序号避免同秒冲突。
func (as *ArtifactStorage) NextBasename(now time.Time) string {
	n := atomic.AddUint64(&as.counter, 1)
	return fmt.Sprintf("%d_%d", now.Unix(), n)
}

// SaveArtifacts 将一次生成的三个产物写入输出目录，
// 返回以 /output/ 为前缀的访问路径
func (as *ArtifactStorage) SaveArtifacts(basename string, imageData []byte, modelData, viewerData string) (models.ArtifactFiles, error) {
	imageFile := "image_" + basename + ".png"
	modelFile := "model_" + basename + ".obj"
	viewerFile := "view_" + basename + ".html"

	if err := as.writeFile(imageFile, imageData); err != nil {
		return models.ArtifactFiles{}, err
	}
	if err := as.writeFile(modelFile, []byte(modelData)); err != nil {
		return models.ArtifactFiles{}, err
	}
	if err := as.writeFile(viewerFile, []byte(viewerData)); err != nil {
		return models.ArtifactFiles{}, err
	}

	return models.ArtifactFiles{
		Image:  "/output/" + imageFile,
		Model:  "/output/" + modelFile,
		Viewer: "/output/" + viewerFile,
	}, nil
}

// writeFile 原子性写入单个产物文件
func (as *ArtifactStorage) writeFile(filename string, content []byte) error {
	fullPath := filepath.Join(as.BaseDir, filename)

	lock := as.getFileLock(fullPath)
	lock.Lock()
	defer lock.Unlock()

	tempPath := fullPath + ".tmp"
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return fmt.Errorf("保存临时文件失败: %w", err)
	}
	if err := os.Rename(tempPath, fullPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			fmt.Printf("Warning: failed to clean up temporary file %s after rename failure: %v\n", tempPath, removeErr)
		}
		return fmt.Errorf("保存文件失败: %w", err)
	}
	return nil
}

// ListArtifacts 按文件名倒序列出输出目录中的产物文件名，
// prefix 为空时返回全部
func (as *ArtifactStorage) ListArtifacts(prefix string) ([]string, error) {
	entries, err := os.ReadDir(as.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("读取输出目录失败: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".tmp") {
			continue
		}
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		names = append(names, name)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}
