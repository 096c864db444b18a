package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/decker502/scenery/pkg/collection"
	"go.uber.org/zap"
)

// NoProgress is returned by GetMainProgressBarPercent when nothing is loading.
const NoProgress = -1.0

// SceneManager coordinates loading, unloading, enabling and disabling of the
// scenes in a SceneCatalog.
//
// Async loads and unloads run on their own goroutines. Everything else,
// including reaping finished tasks, instantiating game objects, progress
// queries and enable/disable bookkeeping, is meant to be called from the
// render goroutine once per tick:
//
//	m.ReapFinishedTasks()
//	m.InstantiateNewLoadedScenes()
//	for _, s := range m.GetEnabledScenes() { draw(s) }
//	percent := m.GetMainProgressBarPercent()
//
// Update performs the first two steps.
//
// Precondition violations (loading a loaded scene, unloading a scene that is
// not loaded, ...) are logged and returned as errors; the manager's state is
// left unchanged.
type SceneManager struct {
	catalog *SceneCatalog
	log     *zap.Logger
	ctx     context.Context

	mu      sync.Mutex
	members []Membership

	sceneLoadingTasks         *collection.Collection[*SceneLoadingTask]
	sceneUnloadingTasks       *collection.Collection[*SceneUnloadingTask]
	newLoadedScenesAsEnabled  *collection.Collection[int]
	newLoadedScenesAsDisabled *collection.Collection[int]

	// sceneLoadingCount is the high-water mark of concurrently loading
	// enable-on-load scenes, reset once no task is left.
	sceneLoadingCount int

	wg sync.WaitGroup
}

// NewSceneManager creates a manager for catalog. Every scene starts Untracked.
func NewSceneManager(catalog *SceneCatalog, log *zap.Logger) *SceneManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SceneManager{
		catalog:                   catalog,
		log:                       log.Named("scene_manager"),
		ctx:                       context.Background(),
		members:                   make([]Membership, catalog.Len()),
		sceneLoadingTasks:         collection.New[*SceneLoadingTask](),
		sceneUnloadingTasks:       collection.New[*SceneUnloadingTask](),
		newLoadedScenesAsEnabled:  collection.New[int](),
		newLoadedScenesAsDisabled: collection.New[int](),
	}
}

// Catalog returns the manager's scene catalog.
func (m *SceneManager) Catalog() *SceneCatalog {
	return m.catalog
}

// GetScene returns the scene at index, or ErrUnknownScene.
func (m *SceneManager) GetScene(index int) (*Scene, error) {
	return m.catalog.Scene(index)
}

// Membership returns where the manager currently tracks the scene.
func (m *SceneManager) Membership(index int) (Membership, error) {
	if _, err := m.catalog.Scene(index); err != nil {
		return Untracked, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.members[index], nil
}

// LoadScene loads the scene's assets on the calling goroutine and stages it
// for InstantiateNewLoadedScenes. The scene must be Untracked.
func (m *SceneManager) LoadScene(index int, loadAsEnabled bool) error {
	scene, err := m.lookup(index)
	if err != nil {
		return err
	}
	if err := m.beginLoad(index); err != nil {
		return err
	}

	if err := scene.LoadAssets(m.ctx); err != nil {
		m.setMembership(index, Untracked)
		return err
	}
	m.stage(index, loadAsEnabled)
	return nil
}

// LoadSceneAsync starts loading the scene on a new goroutine and returns the
// task. The scene must be Untracked. Results are picked up by
// ReapFinishedTasks and InstantiateNewLoadedScenes.
func (m *SceneManager) LoadSceneAsync(index int, loadAsEnabled bool) (*SceneLoadingTask, error) {
	scene, err := m.lookup(index)
	if err != nil {
		return nil, err
	}
	if err := m.beginLoad(index); err != nil {
		return nil, err
	}

	t := &SceneLoadingTask{task: newTask(index), enableOnLoad: loadAsEnabled}
	m.sceneLoadingTasks.Append(t)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		t.run(m.ctx, m, scene)
	}()

	m.log.Debug("scene loading started",
		zap.Int("scene", index), zap.String("name", scene.Name()), zap.Bool("enable_on_load", loadAsEnabled))
	return t, nil
}

// LoadAllScenesAsync starts an async load for every Untracked scene. When
// loadAsEnabled is set, scenes that are already Disabled are enabled too.
func (m *SceneManager) LoadAllScenesAsync(loadAsEnabled bool) []*SceneLoadingTask {
	var tasks []*SceneLoadingTask
	for i := 0; i < m.catalog.Len(); i++ {
		membership, _ := m.Membership(i)
		switch membership {
		case Untracked:
			t, err := m.LoadSceneAsync(i, loadAsEnabled)
			if err == nil {
				tasks = append(tasks, t)
			}
		case TrackedDisabled:
			if loadAsEnabled {
				m.enableScene(i)
			}
		}
	}
	return tasks
}

// UnloadScene unloads an Enabled or Disabled scene on the calling goroutine.
func (m *SceneManager) UnloadScene(index int) error {
	scene, err := m.lookup(index)
	if err != nil {
		return err
	}
	if err := m.beginUnload(index); err != nil {
		return err
	}

	err = scene.UnloadAssetsAndGameObjects()
	m.setMembership(index, Untracked)
	return err
}

// UnloadSceneAsync starts unloading an Enabled or Disabled scene on a new
// goroutine. The scene stays InFlightUnloading until the task is reaped.
func (m *SceneManager) UnloadSceneAsync(index int) (*SceneUnloadingTask, error) {
	scene, err := m.lookup(index)
	if err != nil {
		return nil, err
	}
	if err := m.beginUnload(index); err != nil {
		return nil, err
	}

	t := &SceneUnloadingTask{task: newTask(index)}
	m.sceneUnloadingTasks.Append(t)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		t.run(scene)
	}()

	m.log.Debug("scene unloading started", zap.Int("scene", index), zap.String("name", scene.Name()))
	return t, nil
}

// SwitchToScene makes the scene the only enabled one. Every enabled scene
// is disabled, then the target is enabled if it is Disabled or loaded
// asynchronously as enabled if it is Untracked.
//
// If the target is the sole enabled scene, it is only disabled. A target
// with a load or unload in flight is rejected with ErrSceneBusy before any
// scene is disabled.
func (m *SceneManager) SwitchToScene(index int) error {
	if _, err := m.lookup(index); err != nil {
		return err
	}

	switch membership, _ := m.Membership(index); membership {
	case Untracked, TrackedDisabled, TrackedEnabled:
	default:
		m.log.Error("tried to switch to a scene with an operation in flight",
			zap.Int("scene", index), zap.Stringer("membership", membership))
		return fmt.Errorf("%w: switch to scene %d (%s)", ErrSceneBusy, index, membership)
	}

	enabled := m.enabledIndices()
	if len(enabled) == 1 && enabled[0] == index {
		m.disableScene(index)
		return nil
	}

	for _, i := range enabled {
		m.disableScene(i)
	}

	if membership, _ := m.Membership(index); membership == Untracked {
		_, err := m.LoadSceneAsync(index, true)
		return err
	}
	m.enableScene(index)
	return nil
}

// EnableScene enables a Disabled scene.
func (m *SceneManager) EnableScene(index int) error {
	return m.checkedFlip(index, TrackedDisabled, m.enableScene)
}

// DisableScene disables an Enabled scene.
func (m *SceneManager) DisableScene(index int) error {
	return m.checkedFlip(index, TrackedEnabled, m.disableScene)
}

// InstantiateNewLoadedScenes spawns game objects for every staged scene and
// moves it to the enabled or disabled set, as requested when it was loaded.
// It must run on the render goroutine. It returns the number of scenes
// instantiated; a scene whose spawn fails is unloaded and becomes Untracked.
func (m *SceneManager) InstantiateNewLoadedScenes() int {
	n := 0
	for _, index := range m.newLoadedScenesAsEnabled.Drain() {
		if m.instantiate(index, true) {
			n++
		}
	}
	for _, index := range m.newLoadedScenesAsDisabled.Drain() {
		if m.instantiate(index, false) {
			n++
		}
	}
	return n
}

// ReapFinishedTasks removes every finished loading and unloading task from
// the registries. A failed load untracks its scene; a finished unload
// untracks its scene. It returns the number of tasks removed.
func (m *SceneManager) ReapFinishedTasks() int {
	loads := m.sceneLoadingTasks.RemoveFunc(func(t *SceneLoadingTask) bool { return t.IsDone() })
	for _, t := range loads {
		if err := t.Err(); err != nil {
			m.setMembership(t.SceneIndex(), Untracked)
			m.log.Error("scene loading failed", zap.Int("scene", t.SceneIndex()), zap.Error(err))
			continue
		}
		m.log.Debug("scene loading finished", zap.Int("scene", t.SceneIndex()))
	}

	unloads := m.sceneUnloadingTasks.RemoveFunc(func(t *SceneUnloadingTask) bool { return t.IsDone() })
	for _, t := range unloads {
		m.setMembership(t.SceneIndex(), Untracked)
		if err := t.Err(); err != nil {
			m.log.Error("scene unloading failed", zap.Int("scene", t.SceneIndex()), zap.Error(err))
			continue
		}
		m.log.Debug("scene unloading finished", zap.Int("scene", t.SceneIndex()))
	}

	return len(loads) + len(unloads)
}

// Update reaps finished tasks and instantiates newly loaded scenes.
func (m *SceneManager) Update() {
	m.ReapFinishedTasks()
	m.InstantiateNewLoadedScenes()
}

// GetMainProgressBarPercent returns the combined loading progress, in
// [0,100], of the scenes being loaded as enabled. Scenes loaded as disabled
// do not count.
//
// The divisor is the highest number of such scenes seen loading at once,
// so when one finishes and its task is reaped it keeps counting as 100 and
// the bar does not jump back. A failed task counts with its scene's own
// percentage until it is reaped. Returns NoProgress, and resets the
// high-water mark, when no enable-on-load task is registered.
func (m *SceneManager) GetMainProgressBarPercent() float64 {
	g := m.sceneLoadingTasks.RLock()
	if g.Len() == 0 {
		g.Unlock()
		m.mu.Lock()
		m.sceneLoadingCount = 0
		m.mu.Unlock()
		return NoProgress
	}

	sceneCount := 0
	percentTotal := 0.0
	for _, t := range g.Items() {
		if !t.EnableOnLoad() {
			continue
		}
		sceneCount++
		if t.IsDone() && t.Err() == nil {
			percentTotal += 100
			continue
		}
		percentTotal += m.catalog.scenes[t.SceneIndex()].PercentLoaded()
	}
	g.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if sceneCount == 0 {
		m.sceneLoadingCount = 0
		return NoProgress
	}
	if sceneCount > m.sceneLoadingCount {
		m.sceneLoadingCount = sceneCount
	}
	percentTotal += float64(m.sceneLoadingCount-sceneCount) * 100
	return percentTotal / float64(m.sceneLoadingCount)
}

// GetMainLoadingScene returns the scene of the oldest loading task if that
// task loads its scene as enabled, nil otherwise.
func (m *SceneManager) GetMainLoadingScene() *Scene {
	t, ok := m.sceneLoadingTasks.First()
	if !ok || !t.EnableOnLoad() {
		return nil
	}
	return m.catalog.scenes[t.SceneIndex()]
}

// GetEnabledScenes returns the enabled scenes in catalog order.
func (m *SceneManager) GetEnabledScenes() []*Scene {
	return m.scenesWith(TrackedEnabled)
}

// GetDisabledScenes returns the loaded but disabled scenes in catalog order.
func (m *SceneManager) GetDisabledScenes() []*Scene {
	return m.scenesWith(TrackedDisabled)
}

// LoadingTaskCount returns the number of loading tasks not yet reaped.
func (m *SceneManager) LoadingTaskCount() int {
	return m.sceneLoadingTasks.Len()
}

// UnloadingTaskCount returns the number of unloading tasks not yet reaped.
func (m *SceneManager) UnloadingTaskCount() int {
	return m.sceneUnloadingTasks.Len()
}

// Wait blocks until every task started so far has finished. Finished tasks
// still need ReapFinishedTasks.
func (m *SceneManager) Wait() {
	m.wg.Wait()
}

// Shutdown waits for in-flight tasks, instantiates nothing new, and unloads
// every loaded scene on the calling goroutine.
func (m *SceneManager) Shutdown() error {
	m.Wait()
	m.ReapFinishedTasks()

	// Staged scenes are loaded but were never instantiated; move them to
	// the disabled set so they are unloaded below.
	for _, index := range append(m.newLoadedScenesAsEnabled.Drain(), m.newLoadedScenesAsDisabled.Drain()...) {
		m.setMembership(index, TrackedDisabled)
	}

	var errs []error
	for i := 0; i < m.catalog.Len(); i++ {
		membership, _ := m.Membership(i)
		if membership == TrackedEnabled || membership == TrackedDisabled {
			if err := m.UnloadScene(i); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (m *SceneManager) lookup(index int) (*Scene, error) {
	scene, err := m.catalog.Scene(index)
	if err != nil {
		m.log.Error("tried to use an unknown scene", zap.Int("scene", index), zap.Int("catalog_size", m.catalog.Len()))
		return nil, err
	}
	return scene, nil
}

// beginLoad marks an Untracked scene as loading.
func (m *SceneManager) beginLoad(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch current := m.members[index]; current {
	case Untracked:
		m.members[index] = InFlightLoading
		return nil
	case TrackedEnabled, TrackedDisabled:
		m.log.Error("tried to load an already loaded scene", zap.Int("scene", index), zap.Stringer("membership", current))
		return fmt.Errorf("%w: scene %d", ErrAlreadyLoaded, index)
	default:
		m.log.Error("tried to load a scene with an operation in flight", zap.Int("scene", index), zap.Stringer("membership", current))
		return fmt.Errorf("%w: scene %d (%s)", ErrSceneBusy, index, current)
	}
}

// beginUnload removes an Enabled or Disabled scene from its set and marks it
// as unloading.
func (m *SceneManager) beginUnload(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch current := m.members[index]; current {
	case TrackedEnabled, TrackedDisabled:
		m.members[index] = InFlightUnloading
		return nil
	case Untracked:
		m.log.Error("tried to unload a scene in an invalid state", zap.Int("scene", index), zap.Stringer("membership", current))
		return fmt.Errorf("%w: scene %d", ErrNotLoaded, index)
	default:
		m.log.Error("tried to unload a scene with an operation in flight", zap.Int("scene", index), zap.Stringer("membership", current))
		return fmt.Errorf("%w: scene %d (%s)", ErrSceneBusy, index, current)
	}
}

// stage records a scene whose assets finished loading. Called from loader
// goroutines.
func (m *SceneManager) stage(index int, asEnabled bool) {
	m.setMembership(index, Staged)
	if asEnabled {
		m.newLoadedScenesAsEnabled.Append(index)
	} else {
		m.newLoadedScenesAsDisabled.Append(index)
	}
}

func (m *SceneManager) instantiate(index int, asEnabled bool) bool {
	scene := m.catalog.scenes[index]

	if err := scene.LoadGameObjects(); err != nil {
		m.log.Error("scene instantiation failed", zap.Int("scene", index), zap.Error(err))
		if unloadErr := scene.UnloadAssetsAndGameObjects(); unloadErr != nil {
			m.log.Error("unloading failed scene", zap.Int("scene", index), zap.Error(unloadErr))
		}
		m.setMembership(index, Untracked)
		return false
	}

	if asEnabled {
		m.enableScene(index)
	} else {
		m.disableScene(index)
	}

	m.log.Info("scene instantiated",
		zap.Int("scene", index), zap.String("name", scene.Name()), zap.Bool("enabled", asEnabled),
		zap.Int("objects", scene.GameObjects().Len()))
	return true
}

// enableScene moves a scene from the disabled to the enabled set. The scene
// must be TrackedDisabled; this is not re-checked.
func (m *SceneManager) enableScene(index int) {
	m.setMembership(index, TrackedEnabled)
	if err := m.catalog.scenes[index].Enable(); err != nil {
		m.log.Error("enable scene", zap.Int("scene", index), zap.Error(err))
	}
}

// disableScene moves a scene from the enabled to the disabled set. The scene
// must be TrackedEnabled; this is not re-checked.
func (m *SceneManager) disableScene(index int) {
	m.setMembership(index, TrackedDisabled)
	if err := m.catalog.scenes[index].Disable(); err != nil {
		m.log.Error("disable scene", zap.Int("scene", index), zap.Error(err))
	}
}

func (m *SceneManager) checkedFlip(index int, want Membership, flip func(int)) error {
	if _, err := m.lookup(index); err != nil {
		return err
	}
	current, _ := m.Membership(index)
	if current == want {
		flip(index)
		return nil
	}
	if current == TrackedEnabled || current == TrackedDisabled {
		// Already in the requested set.
		return nil
	}
	m.log.Error("tried to change visibility of a scene that is not loaded",
		zap.Int("scene", index), zap.Stringer("membership", current))
	return fmt.Errorf("%w: scene %d (%s)", ErrNotLoaded, index, current)
}

func (m *SceneManager) setMembership(index int, membership Membership) {
	m.mu.Lock()
	m.members[index] = membership
	m.mu.Unlock()
}

func (m *SceneManager) enabledIndices() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []int
	for i, membership := range m.members {
		if membership == TrackedEnabled {
			out = append(out, i)
		}
	}
	return out
}

func (m *SceneManager) scenesWith(want Membership) []*Scene {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Scene
	for i, membership := range m.members {
		if membership == want {
			out = append(out, m.catalog.scenes[i])
		}
	}
	return out
}
