// internal/mesh/mesh_test.go
package mesh

import (
	"strings"
	"testing"
	"time"

	"github.com/Corphon/CreativeForgeMCP/internal/models"
)

func TestCubeOBJConstant(t *testing.T) {
	first := CubeOBJ()
	second := CubeOBJ()
	if first != second {
		t.Error("模型内容应与调用次数无关")
	}
}

func TestCubeOBJStructure(t *testing.T) {
	obj := CubeOBJ()

	if !strings.HasPrefix(obj, "# Simple cube OBJ file") {
		t.Error("OBJ应以注释行开头")
	}

	var vertices, faces int
	for _, line := range strings.Split(obj, "\n") {
		switch {
		case strings.HasPrefix(line, "v "):
			vertices++
		case strings.HasPrefix(line, "f "):
			faces++
		}
	}
	if vertices != 8 {
		t.Errorf("顶点数 = %d，期望 8", vertices)
	}
	if faces != 6 {
		t.Errorf("面数 = %d，期望 6", faces)
	}
}

func TestViewerPage(t *testing.T) {
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	page := ViewerPage("a red dragon", "image_1_1.png", "model_1_1.obj", models.SceneDragon, at)

	for _, want := range []string{
		"a red dragon",
		"/output/image_1_1.png",
		"/output/model_1_1.obj",
		"Generated Dragon",
		"2026-08-30 12:00:00",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("查看页应包含 %q", want)
		}
	}
}

func TestViewerPageEscapesPrompt(t *testing.T) {
	page := ViewerPage("<script>alert(1)</script>", "i.png", "m.obj", models.SceneLandscape, time.Now())
	if strings.Contains(page, "<script>alert(1)</script>") {
		t.Error("提示词应被HTML转义")
	}
}

func TestSceneLabels(t *testing.T) {
	cases := map[models.SceneType]string{
		models.SceneDragon:    "Dragon",
		models.SceneRobot:     "Robot",
		models.SceneCity:      "City",
		models.SceneSpace:     "Space",
		models.SceneLandscape: "Image",
	}
	for sceneType, want := range cases {
		if got := sceneLabel(sceneType); got != want {
			t.Errorf("sceneLabel(%s) = %q，期望 %q", sceneType, got, want)
		}
	}
}
