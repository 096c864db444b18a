package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/decker502/scenery/pkg/collection"
	"github.com/decker502/scenery/pkg/gfx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Scene is one catalog entry at runtime: its asset list, the assets loaded
// for it, the game objects it spawned and its lifecycle state.
//
// State and progress are guarded by an internal lock, so PercentLoaded may be
// polled from the render goroutine while LoadAssets runs on a worker.
type Scene struct {
	index   int
	def     Definition
	loader  AssetLoader
	workers int
	log     *zap.Logger

	assets      []string
	gameObjects *collection.Collection[*gfx.GameObject]

	mu           sync.RWMutex
	state        SceneState
	assetsLoaded int
	loaded       map[string]*Asset
	textures     map[string]*gfx.Texture
	instantiated bool
	lastErr      error
}

func newScene(index int, def Definition, loader AssetLoader, workers int, log *zap.Logger) *Scene {
	if workers < 1 {
		workers = 1
	}
	s := &Scene{
		index:       index,
		def:         def,
		loader:      loader,
		workers:     workers,
		log:         log.With(zap.Int("scene", index), zap.String("name", def.Name())),
		gameObjects: collection.New[*gfx.GameObject](),
		state:       SceneUnloaded,
	}
	for _, name := range def.Assets() {
		s.addAsset(name)
	}
	return s
}

// addAsset appends an asset identifier, ignoring duplicates.
func (s *Scene) addAsset(name string) {
	for _, existing := range s.assets {
		if existing == name {
			return
		}
	}
	s.assets = append(s.assets, name)
}

// Index returns the scene's stable catalog index.
func (s *Scene) Index() int { return s.index }

// Name returns the definition's name.
func (s *Scene) Name() string { return s.def.Name() }

// Assets returns a copy of the asset identifiers in load order.
func (s *Scene) Assets() []string {
	return append([]string(nil), s.assets...)
}

// GameObjects returns the scene's game objects. Use its Read or RLock for a
// consistent traversal while loaders may be running.
func (s *Scene) GameObjects() *collection.Collection[*gfx.GameObject] {
	return s.gameObjects
}

// State returns the current lifecycle state.
func (s *Scene) State() SceneState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsLoaded reports whether the scene is Disabled or Enabled.
func (s *Scene) IsLoaded() bool {
	return s.State().IsLoaded()
}

// LastError returns the error of the most recent failed load, if any.
func (s *Scene) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// PercentLoaded returns asset loading progress in [0,100]. A scene with no
// assets is always 100.
func (s *Scene) PercentLoaded() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.assets)
	if total == 0 {
		return 100
	}
	p := float64(s.assetsLoaded) / float64(total) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// LoadAssets moves the scene from Unloaded through Loading to Disabled,
// loading up to the configured number of assets in parallel. Progress is
// counted as each asset completes.
//
// If any asset fails, the assets already loaded are released, the scene
// returns to Unloaded (so the load can be retried) and the error is kept in
// LastError.
func (s *Scene) LoadAssets(ctx context.Context) error {
	s.mu.Lock()
	if s.state != SceneUnloaded {
		state := s.state
		s.mu.Unlock()
		s.log.Error("tried to load assets of a scene that is not unloaded", zap.Stringer("state", state))
		return fmt.Errorf("%w: load scene %q from %s", ErrInvalidState, s.Name(), state)
	}
	s.state = SceneLoading
	s.assetsLoaded = 0
	s.lastErr = nil
	s.loaded = make(map[string]*Asset, len(s.assets))
	s.textures = make(map[string]*gfx.Texture)
	s.mu.Unlock()

	s.log.Debug("loading assets", zap.Int("assets", len(s.assets)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, name := range s.assets {
		name := name
		g.Go(func() error {
			asset, err := s.loader.LoadAsset(gctx, name)
			if err != nil {
				return fmt.Errorf("scene %q: %w", s.Name(), err)
			}
			s.mu.Lock()
			s.loaded[name] = asset
			s.assetsLoaded++
			s.mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.mu.Lock()
		s.releaseAssetsLocked()
		s.state = SceneUnloaded
		s.lastErr = err
		s.mu.Unlock()
		s.log.Error("asset loading failed", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.state = SceneDisabled
	s.mu.Unlock()
	s.log.Debug("assets loaded")
	return nil
}

// LoadGameObjects spawns the scene's game objects from its loaded assets.
// It must run on the goroutine that owns the graphics context. The scene
// must be loaded and not yet instantiated; on a spawn error the objects
// spawned so far are discarded and the scene stays loaded.
func (s *Scene) LoadGameObjects() error {
	s.mu.Lock()
	if !s.state.IsLoaded() || s.instantiated {
		state, inst := s.state, s.instantiated
		s.mu.Unlock()
		s.log.Error("tried to load game objects in an invalid state",
			zap.Stringer("state", state), zap.Bool("instantiated", inst))
		return fmt.Errorf("%w: spawn objects of scene %q from %s", ErrInvalidState, s.Name(), state)
	}
	s.instantiated = true
	s.mu.Unlock()

	sc := &SpawnContext{scene: s}
	if err := s.def.SpawnGameObjects(sc); err != nil {
		s.mu.Lock()
		s.releaseGameObjectsLocked()
		s.instantiated = false
		s.mu.Unlock()
		return fmt.Errorf("spawn game objects of scene %q: %w", s.Name(), err)
	}

	s.log.Debug("game objects spawned", zap.Int("objects", sc.Spawned()))
	return nil
}

// UnloadAssetsAndGameObjects moves a Disabled or Enabled scene through
// Unloading to Unloaded, disposing its game objects and textures and
// releasing its asset references.
func (s *Scene) UnloadAssetsAndGameObjects() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.IsLoaded() {
		s.log.Error("tried to unload a scene that is not loaded", zap.Stringer("state", s.state))
		return fmt.Errorf("%w: unload scene %q from %s", ErrInvalidState, s.Name(), s.state)
	}

	s.state = SceneUnloading
	s.releaseGameObjectsLocked()
	s.instantiated = false
	s.releaseAssetsLocked()
	s.state = SceneUnloaded
	s.log.Debug("scene unloaded")
	return nil
}

// Enable flips a Disabled scene to Enabled. Enabling an Enabled scene is a no-op.
func (s *Scene) Enable() error {
	return s.flip(SceneDisabled, SceneEnabled)
}

// Disable flips an Enabled scene to Disabled. Disabling a Disabled scene is a no-op.
func (s *Scene) Disable() error {
	return s.flip(SceneEnabled, SceneDisabled)
}

func (s *Scene) flip(from, to SceneState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case to:
		return nil
	case from:
		s.state = to
		return nil
	default:
		s.log.Error("tried to change visibility of a scene that is not loaded",
			zap.Stringer("state", s.state), zap.Stringer("target", to))
		return fmt.Errorf("%w: %s scene %q from %s", ErrInvalidState, to, s.Name(), s.state)
	}
}

func (s *Scene) releaseGameObjectsLocked() {
	s.gameObjects.Clear()
	for name, tex := range s.textures {
		tex.Dispose()
		delete(s.textures, name)
	}
}

func (s *Scene) releaseAssetsLocked() {
	for name := range s.loaded {
		s.loader.ReleaseAsset(name)
	}
	s.loaded = nil
	s.assetsLoaded = 0
}
