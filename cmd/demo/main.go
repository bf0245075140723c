// cmd/demo/main.go
// 控制台演示程序：不经过HTTP直接驱动创作流水线，
// 适合快速验证渲染效果和记忆检索。
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Corphon/CreativeForgeMCP/internal/app"
	"github.com/Corphon/CreativeForgeMCP/internal/config"
	"github.com/Corphon/CreativeForgeMCP/internal/di"
	"github.com/Corphon/CreativeForgeMCP/internal/models"
	"github.com/Corphon/CreativeForgeMCP/internal/services"
)

func main() {
	baseConfig, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	for _, dir := range []string{baseConfig.DataDir, baseConfig.OutputDir, baseConfig.LogDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("创建目录失败 %s: %v", dir, err)
		}
	}

	if err := config.InitConfig(baseConfig.DataDir); err != nil {
		log.Fatalf("初始化配置系统失败: %v", err)
	}
	if err := app.InitServices(); err != nil {
		log.Fatalf("初始化服务失败: %v", err)
	}
	defer app.Cleanup()

	creative, ok := di.GetContainer().Get("creative").(*services.CreativeService)
	if !ok {
		log.Fatal("创作服务未正确初始化")
	}

	fmt.Println("Creative Forge 控制台演示")
	fmt.Println("命令: g <提示词> 生成 | r 最近记录 | k <关键词> 检索 | s <查询> 相似检索 | q 退出")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, arg := splitCommand(line)
		switch cmd {
		case "q", "quit", "exit":
			return

		case "g":
			if arg == "" {
				fmt.Println("用法: g <提示词>")
				continue
			}
			result, err := creative.Generate(&models.SceneRequest{Prompt: arg})
			if err != nil {
				fmt.Printf("生成失败: %v\n", err)
				continue
			}
			fmt.Printf("场景类型: %s\n", result.SceneType)
			fmt.Printf("扩展提示词: %s\n", result.ExpandedPrompt)
			fmt.Printf("图像: %s\n模型: %s\n查看页: %s\n", result.Files.Image, result.Files.Model, result.Files.Viewer)

		case "r":
			printRecords(creative.Recent(5))

		case "k":
			if arg == "" {
				fmt.Println("用法: k <关键词>")
				continue
			}
			printRecords(creative.ByKeyword(arg, 5))

		case "s":
			if arg == "" {
				fmt.Println("用法: s <查询>")
				continue
			}
			printRecords(creative.Similar(arg, 5))

		default:
			fmt.Println("未知命令:", cmd)
		}
	}
}

func splitCommand(line string) (string, string) {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func printRecords(records []models.MemoryRecord) {
	if len(records) == 0 {
		fmt.Println("(无记录)")
		return
	}
	for i, rec := range records {
		fmt.Printf("%d. [%s] %s\n", i+1, rec.Timestamp, rec.Prompt)
		if rec.Similarity > 0 {
			fmt.Printf("   相似度: %.3f\n", rec.Similarity)
		}
		fmt.Printf("   图像: %s\n", rec.ImagePath)
	}
}
