// internal/render/canvas.go
package render

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// Canvas 包装RGBA画布并提供绘制原语。
// 所有坐标使用float64，便于直接表达比例几何。
type Canvas struct {
	img *image.RGBA
	w   int
	h   int
}

// NewCanvas 创建指定尺寸的画布
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		w:   width,
		h:   height,
	}
}

// Image 返回底层图像
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Width 画布宽度
func (c *Canvas) Width() int { return c.w }

// Height 画布高度
func (c *Canvas) Height() int { return c.h }

// Set 设置单个像素（越界安全）
func (c *Canvas) Set(x, y int, col color.RGBA) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.img.SetRGBA(x, y, col)
}

// HLine 绘制一条水平线
func (c *Canvas) HLine(y int, col color.RGBA) {
	if y < 0 || y >= c.h {
		return
	}
	for x := 0; x < c.w; x++ {
		c.img.SetRGBA(x, y, col)
	}
}

// FillRect 填充矩形 [x0,y0]-[x1,y1]
func (c *Canvas) FillRect(x0, y0, x1, y1 float64, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := int(math.Floor(y0)); y <= int(math.Ceil(y1)); y++ {
		for x := int(math.Floor(x0)); x <= int(math.Ceil(x1)); x++ {
			c.Set(x, y, col)
		}
	}
}

// OutlineRect 绘制矩形边框
func (c *Canvas) OutlineRect(x0, y0, x1, y1 float64, thickness int, col color.RGBA) {
	t := float64(thickness)
	c.FillRect(x0, y0, x1, y0+t-1, col)
	c.FillRect(x0, y1-t+1, x1, y1, col)
	c.FillRect(x0, y0, x0+t-1, y1, col)
	c.FillRect(x1-t+1, y0, x1, y1, col)
}

// FillEllipse 填充以(cx,cy)为中心、半径(rx,ry)的椭圆
func (c *Canvas) FillEllipse(cx, cy, rx, ry float64, col color.RGBA) {
	if rx <= 0 || ry <= 0 {
		c.Set(int(cx), int(cy), col)
		return
	}
	for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy + ry)); y++ {
		for x := int(math.Floor(cx - rx)); x <= int(math.Ceil(cx + rx)); x++ {
			dx := (float64(x) - cx) / rx
			dy := (float64(y) - cy) / ry
			if dx*dx+dy*dy <= 1.0 {
				c.Set(x, y, col)
			}
		}
	}
}

// OutlineEllipse 绘制椭圆轮廓（按角度采样）
func (c *Canvas) OutlineEllipse(cx, cy, rx, ry float64, thickness int, col color.RGBA) {
	circumference := 2 * math.Pi * math.Max(rx, ry)
	steps := int(circumference * 2)
	if steps < 16 {
		steps = 16
	}
	half := float64(thickness) / 2
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		px := cx + rx*math.Cos(theta)
		py := cy + ry*math.Sin(theta)
		for oy := -half; oy <= half; oy++ {
			for ox := -half; ox <= half; ox++ {
				c.Set(int(px+ox), int(py+oy), col)
			}
		}
	}
}

// Point 二维点
type Point struct {
	X float64
	Y float64
}

// FillPolygon 扫描线填充多边形（奇偶规则）
func (c *Canvas) FillPolygon(points []Point, col color.RGBA) {
	if len(points) < 3 {
		return
	}

	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	y0 := int(math.Floor(minY))
	y1 := int(math.Ceil(maxY))
	if y0 < 0 {
		y0 = 0
	}
	if y1 >= c.h {
		y1 = c.h - 1
	}

	for y := y0; y <= y1; y++ {
		scanY := float64(y) + 0.5

		// 计算扫描线与每条边的交点
		var xs []float64
		n := len(points)
		for i := 0; i < n; i++ {
			a := points[i]
			b := points[(i+1)%n]
			if (a.Y <= scanY && b.Y > scanY) || (b.Y <= scanY && a.Y > scanY) {
				t := (scanY - a.Y) / (b.Y - a.Y)
				xs = append(xs, a.X+t*(b.X-a.X))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)

		for i := 0; i+1 < len(xs); i += 2 {
			startX := int(math.Ceil(xs[i] - 0.5))
			endX := int(math.Floor(xs[i+1] - 0.5))
			for x := startX; x <= endX; x++ {
				c.Set(x, y, col)
			}
		}
	}
}

// DrawLine 绘制指定宽度的线段（沿线采样）
func (c *Canvas) DrawLine(x0, y0, x1, y1 float64, width int, col color.RGBA) {
	dx := x1 - x0
	dy := y1 - y0
	length := math.Hypot(dx, dy)
	steps := int(length) + 1
	half := float64(width) / 2
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px := x0 + t*dx
		py := y0 + t*dy
		for oy := -half; oy <= half; oy++ {
			for ox := -half; ox <= half; ox++ {
				c.Set(int(px+ox), int(py+oy), col)
			}
		}
	}
}
