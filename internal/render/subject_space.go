// internal/render/subject_space.go
package render

import (
	"math/rand"

	"github.com/Corphon/CreativeForgeMCP/internal/models"
	"github.com/Corphon/CreativeForgeMCP/internal/scene"
)

// paintSpace 绘制太空场景：500颗随机亮度的星星、一颗以调色板着色的行星，
// 提示词含 ring/saturn 时加上扁椭圆光环
func (r *Renderer) paintSpace(c *Canvas, rng *rand.Rand, prompt string, palette models.Palette) {
	w := r.Width
	h := r.Height

	// 星空
	for i := 0; i < 500; i++ {
		x := float64(randBetween(rng, 0, w))
		y := float64(randBetween(rng, 0, int(float64(h)*0.8)))
		size := rng.Float64() * 2
		brightness := randBetween(rng, 180, 255)
		c.FillEllipse(x, y, size, size, rgb(brightness, brightness, brightness))
	}

	// 行星
	planetX := float64(randBetween(rng, int(float64(w)*0.2), int(float64(w)*0.8)))
	planetY := float64(randBetween(rng, int(float64(h)*0.2), int(float64(h)*0.5)))
	planetSize := randBetween(rng, 50, 120)

	planetColor := palette.RGBA()
	c.FillEllipse(planetX, planetY, float64(planetSize), float64(planetSize), planetColor)

	// 光环: 一组纵向压扁到1/3的同心椭圆弧
	if scene.HasFlag(prompt, "ring", "saturn") {
		ringColor := rgb(int(planetColor.R)/2+50, int(planetColor.G)/2+50, int(planetColor.B)/2+50)
		for ringSize := planetSize + 10; ringSize < planetSize+40; ringSize += 5 {
			c.OutlineEllipse(planetX, planetY, float64(ringSize), float64(ringSize)/3, 3, ringColor)
		}
	}
}
