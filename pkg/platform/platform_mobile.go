//go:build mobile

// Package platform 提供与运行平台相关的小工具：移动端检测与会话存储目录
package platform

// IsMobile 检测当前是否在移动设备上运行
// 移动端编译时返回 true
func IsMobile() bool {
	return true
}
