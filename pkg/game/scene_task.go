package game

import "context"

// task is the completion handle shared by loading and unloading tasks.
// Done is closed once the work finished; Err is valid after that.
type task struct {
	index int
	done  chan struct{}
	err   error
}

func newTask(index int) task {
	return task{index: index, done: make(chan struct{})}
}

// SceneIndex returns the catalog index of the scene the task works on.
func (t *task) SceneIndex() int { return t.index }

// Done returns a channel closed when the task finished.
func (t *task) Done() <-chan struct{} { return t.done }

// IsDone reports whether the task finished without blocking.
func (t *task) IsDone() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the task finished and returns its result.
func (t *task) Wait() error {
	<-t.done
	return t.err
}

// Err returns the task's result, or nil while it is still running.
func (t *task) Err() error {
	if !t.IsDone() {
		return nil
	}
	return t.err
}

func (t *task) finish(err error) {
	t.err = err
	close(t.done)
}

// SceneLoadingTask loads one scene's assets on its own goroutine and stages
// the scene for instantiation. The SceneManager reaps it once it is done.
type SceneLoadingTask struct {
	task
	enableOnLoad bool
}

// EnableOnLoad reports whether the scene is enabled once instantiated.
func (t *SceneLoadingTask) EnableOnLoad() bool { return t.enableOnLoad }

func (t *SceneLoadingTask) run(ctx context.Context, m *SceneManager, scene *Scene) {
	err := scene.LoadAssets(ctx)
	if err == nil {
		m.stage(t.index, t.enableOnLoad)
	}
	t.finish(err)
}

// SceneUnloadingTask unloads one scene on its own goroutine.
type SceneUnloadingTask struct {
	task
}

func (t *SceneUnloadingTask) run(scene *Scene) {
	t.finish(scene.UnloadAssetsAndGameObjects())
}
