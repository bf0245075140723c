// internal/config/watcher.go
package config

import (
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig 监视持久化配置文件，文件被外部修改时自动重载。
// 返回的函数用于停止监视。
func WatchConfig() (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// fsnotify 监视目录比监视单个文件更可靠（编辑器常用rename替换文件）
	dir := filepath.Dir(ConfigFilePath())
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	target := filepath.Base(ConfigFilePath())

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := Reload(); err != nil {
					log.Printf("配置热重载失败: %v", err)
				} else {
					log.Printf("配置已重新加载: %s", event.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("配置监视错误: %v", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
