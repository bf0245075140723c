// internal/render/subject_robot.go
package render

import (
	"math/rand"

	"github.com/Corphon/CreativeForgeMCP/internal/models"
)

// paintRobot 在画面中央绘制方块机器人：头/躯干/四肢的矩形结构，
// 青色发光眼睛，躯干上随机散布的科技细节
func (r *Renderer) paintRobot(c *Canvas, rng *rand.Rand, palette models.Palette) {
	robotX := float64(r.Width / 2)
	robotY := float64(r.Height / 2)
	robotWidth := float64(int(float64(r.Width) * 0.3))
	robotHeight := float64(int(float64(r.Height) * 0.5))

	outline := rgb(50, 50, 50)

	// 头部
	headSize := robotWidth / 2
	headColor := palette.RGBA()
	c.FillRect(robotX-headSize, robotY-robotHeight/2-headSize,
		robotX+headSize, robotY-robotHeight/2+headSize, headColor)
	c.OutlineRect(robotX-headSize, robotY-robotHeight/2-headSize,
		robotX+headSize, robotY-robotHeight/2+headSize, 3, outline)

	// 青色眼睛
	eyeColor := rgb(0, 200, 255)
	eyeSize := headSize / 4
	c.FillRect(robotX-headSize/2-eyeSize/2, robotY-robotHeight/2-eyeSize,
		robotX-headSize/2+eyeSize/2, robotY-robotHeight/2, eyeColor)
	c.FillRect(robotX+headSize/2-eyeSize/2, robotY-robotHeight/2-eyeSize,
		robotX+headSize/2+eyeSize/2, robotY-robotHeight/2, eyeColor)

	// 躯干颜色为头部的一半亮度
	bodyColor := palette.Scale(0.5).RGBA()
	c.FillRect(robotX-robotWidth/2, robotY-robotHeight/2+headSize,
		robotX+robotWidth/2, robotY+robotHeight/2, bodyColor)
	c.OutlineRect(robotX-robotWidth/2, robotY-robotHeight/2+headSize,
		robotX+robotWidth/2, robotY+robotHeight/2, 3, outline)

	// 四肢
	limbColor := rgb(80, 80, 80)
	armWidth := robotWidth / 6
	c.FillRect(robotX-robotWidth/2-armWidth, robotY-robotHeight/4,
		robotX-robotWidth/2, robotY+robotHeight/4, limbColor)
	c.FillRect(robotX+robotWidth/2, robotY-robotHeight/4,
		robotX+robotWidth/2+armWidth, robotY+robotHeight/4, limbColor)

	c.FillRect(robotX-robotWidth/3, robotY+robotHeight/2,
		robotX-robotWidth/6, robotY+robotHeight/2+robotHeight/3, limbColor)
	c.FillRect(robotX+robotWidth/6, robotY+robotHeight/2,
		robotX+robotWidth/3, robotY+robotHeight/2+robotHeight/3, limbColor)

	// 躯干上的科技细节（指示灯、面板）
	for i := 0; i < 5; i++ {
		detailX := float64(randBetween(rng, int(robotX-robotWidth/2)+10, int(robotX+robotWidth/2)-10))
		detailY := float64(randBetween(rng, int(robotY-robotHeight/2+headSize)+10, int(robotY+robotHeight/2)-10))
		detailSize := float64(randBetween(rng, 5, 15))

		detailColor := rgb(0, 200, 255)
		if rng.Float64() <= 0.5 {
			detailColor = rgb(255, 50, 50)
		}

		if rng.Float64() > 0.5 {
			c.FillRect(detailX-detailSize, detailY-detailSize/2,
				detailX+detailSize, detailY+detailSize/2, detailColor)
		} else {
			c.FillEllipse(detailX, detailY, detailSize, detailSize, detailColor)
		}
	}
}
