// internal/render/subject_dragon.go
package render

import (
	"math"
	"math/rand"

	"github.com/Corphon/CreativeForgeMCP/internal/models"
	"github.com/Corphon/CreativeForgeMCP/internal/scene"
)

// paintDragon 在画面中央绘制龙的主体图形：
// 细长的头部和吻部、双正弦曲线身体、鳞片轮廓、骨架式翅膀、
// 眼睛/角/鼻孔，以及可选的多层渐变火焰。
func (r *Renderer) paintDragon(c *Canvas, rng *rand.Rand, prompt string, palette models.Palette) {
	w := float64(r.Width)
	h := float64(r.Height)

	dragonX := w * 0.5
	dragonY := h * 0.45
	dragonSize := math.Min(w, h) * 0.45

	bodyColor := palette.RGBA()

	// 头部: 拉长的椭圆，更接近爬行动物
	headSize := dragonSize * 0.25
	headLength := headSize * 1.4
	headWidth := headSize * 0.9

	c.FillEllipse(
		dragonX+(headLength-headWidth)/2, dragonY,
		(headLength+headWidth)/2, headWidth,
		bodyColor,
	)

	// 吻部延伸
	snout := []Point{
		{X: dragonX + headLength - headWidth*0.3, Y: dragonY - headWidth*0.4},
		{X: dragonX + headLength + headWidth*0.3, Y: dragonY},
		{X: dragonX + headLength - headWidth*0.3, Y: dragonY + headWidth*0.4},
		{X: dragonX + headLength - headWidth*0.5, Y: dragonY},
	}
	c.FillPolygon(snout, bodyColor)

	// 身体: 上下两条双正弦曲线围成的封闭多边形
	bodyLength := dragonSize * 1.2
	bodyWidth := dragonSize * 0.22

	body := make([]Point, 0, 60)
	for i := 0; i < 30; i++ {
		t := float64(i) / 29.0
		x := dragonX - headWidth + t*bodyLength
		y := dragonY + math.Sin(t*math.Pi)*bodyWidth*0.5 + math.Sin(t*math.Pi*3)*bodyWidth*0.1
		body = append(body, Point{X: x, Y: y})
	}
	for i := 29; i >= 0; i-- {
		t := float64(i) / 29.0
		x := dragonX - headWidth + t*bodyLength
		y := dragonY + math.Sin(t*math.Pi)*bodyWidth*0.5 + math.Sin(t*math.Pi*2.5)*bodyWidth*0.15 + bodyWidth*0.9
		body = append(body, Point{X: x, Y: y})
	}
	c.FillPolygon(body, bodyColor)

	// 沿脊背的鳞片轮廓，交错排列
	scaleColor := palette.Scale(0.85).RGBA()
	spineY := dragonY - bodyWidth*0.1
	for i := 0; i < 10; i++ {
		scaleX := dragonX + float64(i)*(bodyLength*0.1)
		scaleSize := bodyWidth * 0.15
		offset := float64(i%2) * scaleSize * 0.4
		c.OutlineEllipse(scaleX, spineY+offset, scaleSize, scaleSize, 1, scaleColor)
	}

	// 翅膀配色: 膜较暗，骨骼较亮
	wingColor := palette.Scale(0.8).RGBA()
	membraneColor := palette.Scale(0.6).RGBA()
	boneColor := palette.Scale(1.2).RGBA()

	wingBaseY := dragonY - bodyWidth*0.3
	wingLength := dragonSize * 0.8
	wingHeight := dragonSize * 0.6

	// 左翼: sign=-1，右翼: sign=+1
	for _, sign := range []float64{-1, 1} {
		baseX := dragonX + sign*bodyWidth*0.5

		bone1 := [2]Point{{X: baseX, Y: wingBaseY}, {X: baseX + sign*wingLength*0.9, Y: wingBaseY - wingHeight*0.9}}
		bone2 := [2]Point{{X: baseX, Y: wingBaseY}, {X: baseX + sign*wingLength*0.8, Y: wingBaseY - wingHeight*0.5}}
		bone3 := [2]Point{{X: baseX, Y: wingBaseY}, {X: baseX + sign*wingLength*0.7, Y: wingBaseY - wingHeight*0.2}}

		membrane := []Point{
			{X: baseX, Y: wingBaseY},
			bone1[1],
			{X: bone1[1].X - sign*wingLength*0.1, Y: bone1[1].Y + wingHeight*0.1},
			bone2[1],
			{X: bone2[1].X - sign*wingLength*0.1, Y: bone2[1].Y + wingHeight*0.1},
			bone3[1],
			{X: bone3[1].X - sign*wingLength*0.1, Y: bone3[1].Y + wingHeight*0.2},
			{X: baseX + sign*wingLength*0.3, Y: wingBaseY + wingHeight*0.1},
		}
		c.FillPolygon(membrane, membraneColor)

		for _, bone := range [][2]Point{bone1, bone2, bone3} {
			for off := -1; off <= 1; off++ {
				c.DrawLine(bone[0].X, bone[0].Y+float64(off), bone[1].X, bone[1].Y+float64(off), 2, boneColor)
			}
		}
	}

	// 明亮的黄色眼睛
	eyeColor := rgb(255, 255, 0)
	eyeSize := headSize * 0.15
	c.FillEllipse(dragonX-headSize*0.5+eyeSize/2, dragonY-headSize*0.2+eyeSize/2, eyeSize/2, eyeSize/2, eyeColor)
	c.FillEllipse(dragonX+headSize*0.5-eyeSize/2, dragonY-headSize*0.2+eyeSize/2, eyeSize/2, eyeSize/2, eyeColor)

	// 双角
	horn1 := []Point{
		{X: dragonX - headSize*0.3, Y: dragonY - headSize*0.8},
		{X: dragonX - headSize*0.5, Y: dragonY - headSize*1.3},
		{X: dragonX - headSize*0.2, Y: dragonY - headSize*0.6},
	}
	horn2 := []Point{
		{X: dragonX + headSize*0.3, Y: dragonY - headSize*0.8},
		{X: dragonX + headSize*0.5, Y: dragonY - headSize*1.3},
		{X: dragonX + headSize*0.2, Y: dragonY - headSize*0.6},
	}
	c.FillPolygon(horn1, wingColor)
	c.FillPolygon(horn2, wingColor)

	// 鼻孔
	black := rgb(0, 0, 0)
	nostril := headSize * 0.05
	c.FillEllipse(dragonX-headSize*0.15, dragonY+headSize*0.15, nostril, nostril, black)
	c.FillEllipse(dragonX+headSize*0.15, dragonY+headSize*0.15, nostril, nostril, black)

	// 火焰: 提示词含 fire 必定喷火，否则掷硬币决定
	if scene.HasFlag(prompt, "fire") || rng.Float64() > 0.5 {
		r.paintFlame(c, rng, dragonX, dragonY, headSize)
	}
}

// paintFlame 绘制从龙口喷出的四层渐变火焰，内层最亮
func (r *Renderer) paintFlame(c *Canvas, rng *rand.Rand, dragonX, dragonY, headSize float64) {
	fireWidth := headSize * 0.8
	fireLength := headSize * 3

	points := make([]Point, 0, 20)
	for i := 0; i < 10; i++ {
		t := float64(i) / 9.0
		x := dragonX + headSize + t*fireLength
		variance := (1 - t) * fireWidth * 0.5
		y := dragonY + uniform(rng, -variance, variance)
		points = append(points, Point{X: x, Y: y})
	}
	for i := 9; i >= 0; i-- {
		t := float64(i) / 9.0
		x := dragonX + headSize + t*fireLength
		variance := (1 - t) * fireWidth * 0.5
		y := dragonY + fireWidth*0.5 + uniform(rng, -variance, variance)
		points = append(points, Point{X: x, Y: y})
	}

	flameColors := []struct{ r, g, b int }{
		{255, 255, 200},
		{255, 200, 50},
		{255, 150, 0},
		{255, 50, 0},
	}

	var centerY float64
	for _, p := range points {
		centerY += p.Y
	}
	centerY /= float64(len(points))

	// 每层向中轴收缩20%，形成渐变
	for i, fc := range flameColors {
		scale := 1 - float64(i)*0.2
		scaled := make([]Point, len(points))
		for j, p := range points {
			scaled[j] = Point{X: p.X, Y: (p.Y-centerY)*scale + centerY}
		}
		c.FillPolygon(scaled, rgb(fc.r, fc.g, fc.b))
	}
}
