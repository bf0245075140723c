// internal/render/renderer.go
package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"

	"github.com/Corphon/CreativeForgeMCP/internal/models"
	"github.com/Corphon/CreativeForgeMCP/internal/scene"
)

// Renderer 过程化场景渲染器。
// 渲染管线按固定顺序执行：天空渐变 -> 远山 -> 树木 -> 魔法特效 ->
// 主体图形 -> 底部提示文字条。同一 (prompt, seed) 输入产生逐字节相同的图像。
type Renderer struct {
	Width         int
	Height        int
	CaptionHeight int
}

// NewRenderer 创建渲染器，非法尺寸回退到 800x600
func NewRenderer(width, height, captionHeight int) *Renderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	if captionHeight <= 0 {
		captionHeight = 50
	}
	return &Renderer{
		Width:         width,
		Height:        height,
		CaptionHeight: captionHeight,
	}
}

// Render 根据场景类型和调色板绘制完整图像。
// 所有随机数来自同一个种子源，保证确定性。
func (r *Renderer) Render(prompt string, sceneType models.SceneType, palette models.Palette, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	c := NewCanvas(r.Width, r.Height)

	magical := scene.HasFlag(prompt, "magical", "magic")

	r.paintSky(c, sceneType)
	r.paintMountains(c, rng)
	r.paintForest(c, rng, magical)
	if magical {
		r.paintMagicEffects(c, rng)
	}

	switch sceneType {
	case models.SceneDragon:
		r.paintDragon(c, rng, prompt, palette)
	case models.SceneRobot:
		r.paintRobot(c, rng, palette)
	case models.SceneCity:
		r.paintCity(c, rng, prompt)
	case models.SceneSpace:
		r.paintSpace(c, rng, prompt, palette)
	case models.SceneLandscape:
		// 默认场景没有额外主体
	}

	r.paintCaption(c, prompt)

	return c.Image()
}

// EncodePNG 将图像编码为PNG字节
func EncodePNG(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// paintSky 绘制逐行渐变的天空，顶部较暗，地平线较亮
func (r *Renderer) paintSky(c *Canvas, sceneType models.SceneType) {
	for y := 0; y < r.Height; y++ {
		intensity := 1 - float64(y)/float64(r.Height)*0.7

		var col color.RGBA
		switch sceneType {
		case models.SceneSpace:
			// 黑暗的太空背景，带蓝色调
			col = rgb(10+int(10*intensity), 10+int(15*intensity), 30+int(40*intensity))
		case models.SceneCity:
			// 城市天空带雾霾灰紫色调
			col = rgb(60+int(20*intensity), 60+int(15*intensity), 80+int(30*intensity))
		default:
			// 蓝青色标准天空
			col = rgb(20+int(40*intensity), 40+int(60*intensity), 60+int(90*intensity))
		}

		c.HLine(y, col)
	}
}

// paintMountains 绘制5座随机参数化的远山剪影，索引越大颜色越深
func (r *Renderer) paintMountains(c *Canvas, rng *rand.Rand) {
	w := float64(r.Width)
	h := float64(r.Height)

	for i := 0; i < 5; i++ {
		height := randBetween(rng, int(h*0.2), int(h*0.4))
		width := randBetween(rng, int(w*0.3), int(w*0.6))
		x := randBetween(rng, -int(float64(width)*0.3), int(w*0.9))
		y := r.Height - height

		// 山脊轮廓: 正弦扰动叠加有界随机抖动
		points := make([]Point, 0, width+2)
		for j := 0; j < width; j++ {
			px := float64(x + j)
			py := float64(y) + math.Sin(float64(j)/30)*20 + float64(randBetween(rng, -10, 10))
			points = append(points, Point{X: px, Y: py})
		}
		points = append(points, Point{X: float64(x + width), Y: h})
		points = append(points, Point{X: float64(x), Y: h})

		col := rgb(40+i*10, 50+i*10, 60+i*10)
		c.FillPolygon(points, col)
	}
}

// paintForest 绘制中景树木，尺寸随距画面中心的水平距离衰减（透视提示）
func (r *Renderer) paintForest(c *Canvas, rng *rand.Rand, magical bool) {
	w := float64(r.Width)
	h := float64(r.Height)

	for i := 0; i < 40; i++ {
		x := randBetween(rng, 0, r.Width)
		distanceFromCenter := math.Abs(float64(x)-w/2) / (w * 0.8)
		sizeModifier := 1.0 - distanceFromCenter

		treeHeight := randBetween(rng, int(h*0.2*sizeModifier), int(h*0.4*sizeModifier))
		if treeHeight <= 0 {
			continue
		}
		treeWidth := float64(treeHeight) * 0.6
		y := r.Height - treeHeight - randBetween(rng, 0, int(h*0.1))

		// 距离越远雾化越强（大气透视）
		distanceFactor := distanceFromCenter * 0.7

		trunkWidth := treeWidth * 0.15
		trunkColor := rgb(
			int(60*(1-distanceFactor)+100*distanceFactor),
			int(40*(1-distanceFactor)+120*distanceFactor),
			int(20*(1-distanceFactor)+140*distanceFactor),
		)
		c.FillRect(
			float64(x)-trunkWidth/2, float64(y)+float64(treeHeight)*0.7,
			float64(x)+trunkWidth/2, float64(y+treeHeight),
			trunkColor,
		)

		var foliage color.RGBA
		if magical {
			// 魔法树有发光的蓝绿色叶冠
			baseGreen := 100 + randBetween(rng, -10, 30)
			glow := randBetween(rng, 30, 80)
			foliage = rgb(30+glow/3, baseGreen, 30+glow)
		} else {
			season := randBetween(rng, -20, 20)
			foliage = rgb(30+season, 80+randBetween(rng, -10, 30), 30+int(distanceFactor*100))
		}

		// 多个相互重叠的圆形成自然树冠
		for j := 0; j < 5; j++ {
			ex := float64(x + randBetween(rng, -int(treeWidth*0.4), int(treeWidth*0.4)))
			ey := float64(y) + float64(treeHeight)*0.3 +
				float64(randBetween(rng, -int(float64(treeHeight)*0.25), int(float64(treeHeight)*0.25)))
			size := float64(randBetween(rng, int(treeWidth*0.4), int(treeWidth*0.7)))

			variation := randBetween(rng, -15, 15)
			varied := rgb(
				int(foliage.R)+variation,
				int(foliage.G)+variation,
				int(foliage.B)+variation,
			)
			c.FillEllipse(ex, ey, size/2, size/2, varied)
		}
	}
}

// paintMagicEffects 撒布亮点火花与柔和的径向渐变薄雾
func (r *Renderer) paintMagicEffects(c *Canvas, rng *rand.Rand) {
	h := float64(r.Height)

	// 火花
	for i := 0; i < 200; i++ {
		x := randBetween(rng, 0, r.Width)
		y := randBetween(rng, 0, r.Height)
		size := float64(randBetween(rng, 1, 3))
		brightness := randBetween(rng, 200, 255)
		col := rgb(brightness, brightness, randBetween(rng, 180, 230))
		c.FillEllipse(float64(x), float64(y), size, size, col)
	}

	// 薄雾: 同心收缩椭圆近似径向渐变
	for i := 0; i < 30; i++ {
		x := float64(randBetween(rng, 0, r.Width))
		y := float64(randBetween(rng, int(h*0.5), int(h*0.9)))
		radiusX := randBetween(rng, 30, 100)
		radiusY := randBetween(rng, 20, 40)

		maxRadius := radiusX
		if radiusY > maxRadius {
			maxRadius = radiusY
		}
		for radius := maxRadius; radius > 0; radius -= 5 {
			ratio := float64(radius) / float64(maxRadius)
			col := rgb(100+randBetween(rng, 0, 50), 150+randBetween(rng, 0, 50), 150+randBetween(rng, 0, 50))
			c.FillEllipse(x, y, float64(radiusX)*ratio, float64(radiusY)*ratio, col)
		}
	}
}

// randBetween 返回 [lo, hi] 间的随机整数（含端点）
func randBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// uniform 返回 [lo, hi) 间的随机浮点数
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// rgb 构造不透明颜色，分量裁剪到 [0,255]
func rgb(r, g, b int) color.RGBA {
	clamp := func(v int) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return color.RGBA{R: clamp(r), G: clamp(g), B: clamp(b), A: 255}
}
