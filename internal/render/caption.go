// internal/render/caption.go
package render

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// paintCaption 在图像底部绘制黑色文字条并写入提示词。
// 超出单行宽度的文本按字符数截断换行。
func (r *Renderer) paintCaption(c *Canvas, prompt string) {
	bandTop := r.Height - r.CaptionHeight
	c.FillRect(0, float64(bandTop), float64(r.Width), float64(r.Height), rgb(0, 0, 0))

	face := basicfont.Face7x13
	text := "Prompt: " + prompt

	// Face7x13 是等宽字体，每字符7像素宽
	maxChars := (r.Width - 40) / 7
	if maxChars < 1 {
		return
	}

	lines := wrapRunes(text, maxChars)
	lineHeight := face.Metrics().Height.Ceil() + 2
	maxLines := (r.CaptionHeight - 10) / lineHeight
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	d := &font.Drawer{
		Dst:  c.Image(),
		Src:  image.NewUniform(rgb(255, 255, 255)),
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(20, bandTop+10+face.Metrics().Ascent.Ceil()+i*lineHeight)
		d.DrawString(line)
	}
}

// wrapRunes 按rune数硬换行，不做单词边界处理
func wrapRunes(s string, width int) []string {
	runes := []rune(s)
	var lines []string
	for len(runes) > width {
		lines = append(lines, string(runes[:width]))
		runes = runes[width:]
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return lines
}
