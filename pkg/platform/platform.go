//go:build !mobile

// Package platform 提供与运行平台相关的小工具：移动端检测与会话存储目录
package platform

import "os"

// EmulateMobileEnv 设置为 "1" 时在桌面端模拟移动模式（用于本地调试触摸界面）
const EmulateMobileEnv = "SCENERY_MOBILE_EMULATE"

// IsMobile 检测当前是否在移动设备上运行
// 桌面端编译时返回 false，除非设置了 SCENERY_MOBILE_EMULATE=1
func IsMobile() bool {
	return os.Getenv(EmulateMobileEnv) == "1"
}
