// internal/mesh/viewer.go
package mesh

import (
	"fmt"
	"html"
	"time"

	"github.com/Corphon/CreativeForgeMCP/internal/models"
)

// ViewerPage 生成展示图像与模型下载链接的静态HTML页面。
// imageFile/modelFile 是 /output/ 下的文件名，label 是场景类型标题。
func ViewerPage(prompt, imageFile, modelFile string, sceneType models.SceneType, generatedAt time.Time) string {
	label := sceneLabel(sceneType)
	escaped := html.EscapeString(prompt)

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>Creative Forge Output %d</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; background-color: #f5f5f5; }
        .container { display: flex; flex-wrap: wrap; }
        .section { margin-right: 20px; margin-bottom: 20px; background-color: white; padding: 20px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1, h2 { color: #333; }
        .prompt { background-color: #f0f0f0; padding: 10px; border-radius: 4px; margin-bottom: 20px; font-style: italic; }
        img { max-width: 100%%; border-radius: 4px; }
        a { color: #0066cc; text-decoration: none; }
        a:hover { text-decoration: underline; }
        .button { display: inline-block; background-color: #0066cc; color: white; padding: 8px 16px; border-radius: 4px; margin-top: 10px; }
        .button:hover { background-color: #0055aa; }
    </style>
</head>
<body>
    <h1>Creative Forge</h1>
    <div class="prompt">
        <p><strong>Prompt:</strong> %s</p>
    </div>
    <div class="container">
        <div class="section">
            <h2>Generated %s</h2>
            <img src="/output/%s" alt="Generated Image" style="max-width: 800px;">
        </div>
        <div class="section">
            <h2>3D Model</h2>
            <p>A 3D model representation is available as an OBJ file:</p>
            <p><a href="/output/%s" download class="button">Download 3D Model</a></p>
        </div>
    </div>
    <div style="margin-top: 20px; text-align: center; color: #666; font-size: 0.8em;">
        Generated on %s
    </div>
</body>
</html>
`, generatedAt.Unix(), escaped, label, imageFile, modelFile, generatedAt.Format("2006-01-02 15:04:05"))
}

// sceneLabel 将场景类型转换为页面标题
func sceneLabel(sceneType models.SceneType) string {
	switch sceneType {
	case models.SceneDragon:
		return "Dragon"
	case models.SceneRobot:
		return "Robot"
	case models.SceneCity:
		return "City"
	case models.SceneSpace:
		return "Space"
	default:
		return "Image"
	}
}
