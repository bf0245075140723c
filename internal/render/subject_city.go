// internal/render/subject_city.go
package render

import (
	"math/rand"

	"github.com/Corphon/CreativeForgeMCP/internal/scene"
)

// cityColumns 返回楼群的左边缘横坐标，横向步进只掷一次
func cityColumns(rng *rand.Rand, width int) []int {
	step := randBetween(rng, 10, 40)
	columns := make([]int, 0, width/10+1)
	for x := 0; x < width; x += step {
		columns = append(columns, x)
	}
	return columns
}

// paintCity 绘制城市剪影：随机宽高的楼群、夜景时随机亮起的窗格、
// 前景道路与虚线标线，以及散布的车灯
func (r *Renderer) paintCity(c *Canvas, rng *rand.Rand, prompt string) {
	w := r.Width
	h := r.Height

	baseY := int(float64(h) * 0.7)
	night := scene.HasFlag(prompt, "night")
	outline := rgb(60, 60, 70)

	// 楼群: 整条天际线使用同一个随机横向步进
	for _, x := range cityColumns(rng, w) {
		buildingWidth := randBetween(rng, 20, 60)
		buildingHeight := randBetween(rng, 50, 250)
		buildingColor := rgb(
			randBetween(rng, 20, 50),
			randBetween(rng, 20, 50),
			randBetween(rng, 30, 60),
		)

		c.FillRect(float64(x), float64(baseY-buildingHeight),
			float64(x+buildingWidth), float64(baseY), buildingColor)
		c.OutlineRect(float64(x), float64(baseY-buildingHeight),
			float64(x+buildingWidth), float64(baseY), 1, outline)

		// 夜景亮窗，部分窗户随机熄灭
		if night {
			windowColor := rgb(200, 200, 100)
			for wy := baseY - buildingHeight + 10; wy < baseY-10; wy += 20 {
				for wx := x + 5; wx < x+buildingWidth-5; wx += 10 {
					if rng.Float64() > 0.3 {
						c.FillRect(float64(wx), float64(wy), float64(wx+5), float64(wy+5), windowColor)
					}
				}
			}
		}
	}

	// 前景道路
	roadY := int(float64(h) * 0.7)
	c.FillRect(0, float64(roadY), float64(w), float64(h), rgb(40, 40, 40))

	// 道路中线的虚线标记
	lineY := roadY + (h-roadY)/2
	for x := 0; x < w; x += 40 {
		c.FillRect(float64(x), float64(lineY), float64(x+20), float64(lineY+5), rgb(200, 200, 200))
	}

	// 车灯/路灯
	for i := 0; i < 10; i++ {
		lightX := float64(randBetween(rng, 0, w))
		lightY := float64(randBetween(rng, roadY+10, h-10))
		lightSize := float64(randBetween(rng, 2, 6))
		lightColor := rgb(255, 200, 0)
		if rng.Float64() <= 0.5 {
			lightColor = rgb(255, 0, 0)
		}
		c.FillEllipse(lightX, lightY, lightSize, lightSize, lightColor)
	}
}
