// Package app 提供场景查看器应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
//
// 每个 tick 的调用顺序：
//  1. 处理输入（切换、加载、卸载场景）
//  2. SceneManager.Update()：回收完成的任务并实例化新加载的场景
//  3. Draw：绘制启用的场景，加载中时绘制进度条
package app

import (
	"fmt"
	"image/color"
	"io/fs"

	"github.com/decker502/scenery/pkg/config"
	"github.com/decker502/scenery/pkg/game"
	"github.com/decker502/scenery/pkg/platform"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
)

// Options 定义应用启动参数
type Options struct {
	// Config 应用配置，nil 时使用 config.Default()
	Config *config.AppConfig
	// Log 根日志，nil 时不输出
	Log *zap.Logger
	// FS 资源文件系统（场景目录、脚本、纹理）
	FS fs.FS
	// Gdata 会话存储，nil 时不保存会话（降级模式）
	Gdata *gdata.Manager
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg       *config.AppConfig
	log       *zap.Logger
	resources *game.ResourceManager
	manager   *game.SceneManager
	sessions  *game.SessionManager
	renderer  *Renderer
	face      *text.GoTextFace

	status string // 最近一次操作的结果，显示在屏幕左上角
	closed bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 读取场景目录、创建场景管理器；配置允许时恢复上次会话
func NewApp(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.FS == nil {
		return nil, fmt.Errorf("app needs a resource file system")
	}

	catalogCfg, err := LoadCatalogConfig(cfg.Catalog, opts.FS)
	if err != nil {
		return nil, fmt.Errorf("场景目录加载失败: %w", err)
	}
	defs, err := BuildDefinitions(catalogCfg, opts.FS, log)
	if err != nil {
		return nil, fmt.Errorf("场景定义创建失败: %w", err)
	}

	resources := game.NewResourceManager(opts.FS, log)
	resources.SetLatency(cfg.Loading.AssetLatency)

	catalog, err := game.NewSceneCatalog(defs, resources, cfg.Loading.AssetWorkers, log)
	if err != nil {
		return nil, err
	}
	log.Info("scene catalog loaded", zap.Int("scenes", catalog.Len()))

	face, err := newHUDFace()
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:       cfg,
		log:       log.Named("app"),
		resources: resources,
		manager:   game.NewSceneManager(catalog, log),
		sessions:  game.NewSessionManager(opts.Gdata, log),
		renderer:  NewRenderer(cfg.Window.Width, cfg.Window.Height),
		face:      face,
		status:    "press 1-9 to switch scenes",
	}

	if cfg.Session.Restore {
		tasks, err := a.sessions.Restore(a.manager)
		if err != nil {
			a.log.Warn("session restore failed", zap.Error(err))
		} else if len(tasks) > 0 {
			a.status = fmt.Sprintf("restoring %d scenes", len(tasks))
		}
	}
	return a, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		if err := a.Close(); err != nil {
			a.log.Error("shutdown", zap.Error(err))
		}
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	a.handleInput()
	a.manager.Update()
	return nil
}

func (a *App) handleInput() {
	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	// 1-9 切换到对应场景
	for i := 0; i < 9; i++ {
		if inpututil.IsKeyJustPressed(ebiten.Key1 + ebiten.Key(i)) {
			a.switchTo(i)
		}
	}

	// 点击或触摸 HUD 中的场景行切换场景（移动端没有键盘）
	if _, y, ok := pointerPress(); ok {
		if index := sceneAtHUDRow(y, a.manager.Catalog().Len()); index >= 0 {
			a.switchTo(index)
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		tasks := a.manager.LoadAllScenesAsync(true)
		a.status = fmt.Sprintf("loading %d scenes", len(tasks))
	case inpututil.IsKeyJustPressed(ebiten.KeyU):
		a.unloadEnabled()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		if err := a.sessions.Save(a.manager); err != nil {
			a.status = err.Error()
		} else {
			a.status = "session saved"
		}
	}
}

func (a *App) switchTo(index int) {
	scene, err := a.manager.GetScene(index)
	if err != nil {
		a.status = fmt.Sprintf("no scene %d", index+1)
		return
	}
	if err := a.manager.SwitchToScene(index); err != nil {
		a.status = err.Error()
		return
	}
	a.status = fmt.Sprintf("switched to %s", scene.Name())
}

func (a *App) unloadEnabled() {
	n := 0
	for _, s := range a.manager.GetEnabledScenes() {
		if _, err := a.manager.UnloadSceneAsync(s.Index()); err == nil {
			n++
		}
	}
	a.status = fmt.Sprintf("unloading %d scenes", n)
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 28, B: 36, A: 255})

	a.renderer.DrawScenes(screen, a.manager.GetEnabledScenes())

	if percent := a.manager.GetMainProgressBarPercent(); percent >= 0 {
		label := "loading"
		if s := a.manager.GetMainLoadingScene(); s != nil {
			label = "loading " + s.Name()
		}
		drawLoadingBar(screen, a.face, percent, label)
	}

	drawHUD(screen, a.face, a.hudLines())
}

func (a *App) hudLines() []string {
	help := "1-9 switch  L load all  U unload enabled  S save session  F11 fullscreen"
	if platform.IsMobile() {
		help = "tap a scene to switch to it"
	}
	lines := []string{help, a.status}
	for _, s := range a.manager.Catalog().Scenes() {
		membership, _ := a.manager.Membership(s.Index())
		line := fmt.Sprintf("%d %-12s %-9s %3.0f%%", s.Index()+1, s.Name(), membership, s.PercentLoaded())
		if err := s.LastError(); err != nil {
			line += "  " + err.Error()
		}
		lines = append(lines, line)
	}
	return lines
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.Window.Width, a.cfg.Window.Height
}

// Close 保存会话并卸载所有场景，可重复调用
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	// 先等待进行中的任务，保存的会话才包含它们
	a.manager.Wait()
	a.manager.Update()
	if err := a.sessions.Save(a.manager); err != nil {
		a.log.Warn("session save failed", zap.Error(err))
	}
	return a.manager.Shutdown()
}

// SceneManager 返回场景管理器
func (a *App) SceneManager() *game.SceneManager {
	return a.manager
}
