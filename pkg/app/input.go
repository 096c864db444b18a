package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// HUD 布局：每行高度与第一行场景列表之前的行数
const (
	hudTop        = 8
	hudLineHeight = 16
	hudHeaderRows = 2
)

// pointerPress 返回本帧刚发生的点击或触摸位置
// 同时支持鼠标和触摸输入，优先检测触摸
func pointerPress() (x, y int, ok bool) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y = ebiten.TouchPosition(touchIDs[0])
		return x, y, true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y = ebiten.CursorPosition()
		return x, y, true
	}
	return 0, 0, false
}

// sceneAtHUDRow 返回屏幕 y 坐标对应的 HUD 场景行索引，不在场景行上时返回 -1
func sceneAtHUDRow(y, sceneCount int) int {
	row := (y - hudTop) / hudLineHeight
	if y < hudTop || row < hudHeaderRows {
		return -1
	}
	index := row - hudHeaderRows
	if index >= sceneCount {
		return -1
	}
	return index
}
