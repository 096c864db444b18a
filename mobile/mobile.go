//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。手动构建：
//
//	# Android
//	cp -r data mobile/ && ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.scenery -o build/android/scenery.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	cp -r data mobile/ && ebitenmobile bind -target ios -tags mobile -o build/ios/Scenery.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/scenery/pkg/app"
	"github.com/decker502/scenery/pkg/config"
	"github.com/decker502/scenery/pkg/embedded"
	"github.com/decker502/scenery/pkg/logging"
	"github.com/decker502/scenery/pkg/platform"
)

func init() {
	// 初始化嵌入资源，dataFS 在 embed.go 中声明
	embedded.Init(dataFS)
	fsys, err := embedded.FS()
	if err != nil {
		log.Fatalf("资源初始化失败: %v", err)
	}

	cfg := config.Default()
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}

	// 会话存储不可用时降级为不保存
	var gdataManager *gdata.Manager
	if err := platform.EnsureStorageDir(); err != nil {
		log.Printf("会话存储目录不可用: %v", err)
	} else if gdataManager, err = gdata.Open(gdata.Config{AppName: cfg.Session.AppName}); err != nil {
		log.Printf("会话存储不可用: %v", err)
		gdataManager = nil
	}

	gameApp, err := app.NewApp(app.Options{Config: cfg, Log: logger, FS: fsys, Gdata: gdataManager})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	// 注册到 ebitenmobile
	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
