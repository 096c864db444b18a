package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/decker502/scenery/pkg/app"
	"github.com/decker502/scenery/pkg/config"
	"github.com/decker502/scenery/pkg/embedded"
	"github.com/decker502/scenery/pkg/logging"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "config/scenery.toml", "配置文件路径（不存在时使用默认配置）")
	catalog    = flag.String("catalog", "", "场景目录 YAML，覆盖配置中的 catalog.path")
	assetRoot  = flag.String("assets", "", "资源目录，覆盖配置中的 catalog.asset_root")
	verbose    = flag.Bool("verbose", false, "输出 debug 日志")
	noRestore  = flag.Bool("no-restore", false, "启动时不恢复上次的场景")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "scenery: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *catalog != "" {
		cfg.Catalog.Path = *catalog
	}
	if *assetRoot != "" {
		cfg.Catalog.AssetRoot = *assetRoot
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if *noRestore {
		cfg.Session.Restore = false
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	embedded.Init(dataFS)
	fsys, err := embedded.Resolve(cfg.Catalog.AssetRoot)
	if err != nil {
		return err
	}

	// gdata 打开失败不是致命错误，降级为不保存会话
	gdataManager, err := gdata.Open(gdata.Config{AppName: cfg.Session.AppName})
	if err != nil {
		log.Warn("session storage unavailable", zap.Error(err))
		gdataManager = nil
	}

	a, err := app.NewApp(app.Options{
		Config: cfg,
		Log:    log,
		FS:     fsys,
		Gdata:  gdataManager,
	})
	if err != nil {
		return fmt.Errorf("初始化失败: %w", err)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(a); err != nil {
		a.Close()
		return err
	}
	return nil
}

// loadConfig 读取配置文件，文件不存在时使用默认配置
func loadConfig(path string) (*config.AppConfig, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}
