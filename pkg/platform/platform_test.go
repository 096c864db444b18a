//go:build !mobile

package platform

import "testing"

// TestIsMobileDesktop 测试桌面端编译时 IsMobile() 返回 false
func TestIsMobileDesktop(t *testing.T) {
	t.Setenv(EmulateMobileEnv, "")
	if IsMobile() {
		t.Error("IsMobile() should return false on desktop")
	}
}

// TestIsMobileEmulated 测试环境变量强制启用移动模式
func TestIsMobileEmulated(t *testing.T) {
	t.Setenv(EmulateMobileEnv, "1")
	if !IsMobile() {
		t.Error("IsMobile() should return true with SCENERY_MOBILE_EMULATE=1")
	}
}
