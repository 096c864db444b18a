package app

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/decker502/scenery/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"
)

// hudFontSize 与 hudLineHeight 配合，保证行距一致
const hudFontSize = 12

// newHUDFace 创建 HUD 使用的等宽字体
func newHUDFace() (*text.GoTextFace, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("无法创建字体源: %w", err)
	}
	return &text.GoTextFace{
		Source:    source,
		Size:      hudFontSize,
		Direction: text.DirectionLeftToRight,
	}, nil
}

// drawText 在 (x, y) 处绘制一行文字
func drawText(screen *ebiten.Image, face *text.GoTextFace, str string, x, y float64, clr color.Color) {
	opts := &text.DrawOptions{}
	opts.GeoM.Translate(x, y)
	opts.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, face, opts)
}

// drawLoadingBar 在屏幕底部居中绘制加载进度条
//
// 参数：
//   - percent: 进度 0-100
//   - label: 进度条上方的文字
func drawLoadingBar(screen *ebiten.Image, face *text.GoTextFace, percent float64, label string) {
	b := screen.Bounds()
	w := config.LoadingBarWidth
	h := config.LoadingBarHeight
	x := (float32(b.Dx()) - w) / 2
	y := float32(b.Dy()) - config.LoadingBarBottomMargin - h

	// 背景与边框
	vector.DrawFilledRect(screen, x, y, w, h, color.RGBA{0, 0, 0, 180}, false)
	vector.StrokeRect(screen, x, y, w, h, config.LoadingBarBorder, color.RGBA{200, 200, 200, 255}, false)

	// 填充
	fill := float32(percent/100) * (w - 2*config.LoadingBarBorder)
	if fill > 0 {
		vector.DrawFilledRect(screen,
			x+config.LoadingBarBorder, y+config.LoadingBarBorder,
			fill, h-2*config.LoadingBarBorder,
			color.RGBA{90, 200, 120, 255}, false)
	}

	// 刻度
	for _, m := range config.LoadingBarMilestones {
		mx := x + float32(m/100)*w
		vector.StrokeLine(screen, mx, y, mx, y+h, 1, color.RGBA{255, 255, 255, 120}, false)
	}

	drawText(screen, face, fmt.Sprintf("%s  %.0f%%", label, percent),
		float64(x), float64(y+config.LoadingTextOffsetY), color.White)
}

// drawHUD 在左上角逐行绘制调试文字
func drawHUD(screen *ebiten.Image, face *text.GoTextFace, lines []string) {
	for i, line := range lines {
		clr := color.Color(color.White)
		if i == 0 {
			clr = color.RGBA{170, 170, 170, 255}
		}
		drawText(screen, face, line, 8, float64(hudTop+i*hudLineHeight), clr)
	}
}
