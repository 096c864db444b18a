package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeLoader is an AssetLoader that never touches the file system. Assets
// can be gated (LoadAsset blocks until the gate is opened) or made to fail.
type fakeLoader struct {
	mu       sync.Mutex
	gates    map[string]chan struct{}
	failures map[string]error
	refs     map[string]int
	loads    int
	releases int
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		gates:    make(map[string]chan struct{}),
		failures: make(map[string]error),
		refs:     make(map[string]int),
	}
}

// gate makes LoadAsset(name) block until open(name).
func (l *fakeLoader) gate(names ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, name := range names {
		l.gates[name] = make(chan struct{})
	}
}

func (l *fakeLoader) open(names ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, name := range names {
		if ch, ok := l.gates[name]; ok {
			close(ch)
			delete(l.gates, name)
		}
	}
}

func (l *fakeLoader) fail(name string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err == nil {
		delete(l.failures, name)
		return
	}
	l.failures[name] = err
}

func (l *fakeLoader) LoadAsset(ctx context.Context, name string) (*Asset, error) {
	l.mu.Lock()
	gate := l.gates[name]
	l.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.failures[name]; err != nil {
		return nil, err
	}
	l.loads++
	l.refs[name]++
	return &Asset{Name: name, Data: []byte(name)}, nil
}

func (l *fakeLoader) ReleaseAsset(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releases++
	l.refs[name]--
	if l.refs[name] == 0 {
		delete(l.refs, name)
	}
}

func (l *fakeLoader) loadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

// outstanding returns the number of assets with unreleased references.
func (l *fakeLoader) outstanding() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.refs)
}

// fakeDefinition spawns untextured quads, one per asset, so tests never
// need a graphics context.
type fakeDefinition struct {
	name     string
	assets   []string
	spawnErr error
}

func (d *fakeDefinition) Name() string     { return d.name }
func (d *fakeDefinition) Assets() []string { return d.assets }

func (d *fakeDefinition) SpawnGameObjects(sc *SpawnContext) error {
	for _, asset := range d.assets {
		spec := DefaultObjectSpec()
		spec.Name = asset
		spec.Asset = asset
		if _, err := sc.SpawnObject(spec); err != nil {
			return err
		}
	}
	return d.spawnErr
}

// sceneAssets returns the asset names used by scene i in these tests.
func sceneAssets(i, n int) []string {
	assets := make([]string, n)
	for j := range assets {
		assets[j] = fmt.Sprintf("scene%d/asset%d.txt", i, j)
	}
	return assets
}

func newTestCatalog(t *testing.T, loader AssetLoader, scenes, assetsPerScene int) *SceneCatalog {
	t.Helper()
	defs := make([]Definition, scenes)
	for i := range defs {
		defs[i] = &fakeDefinition{name: fmt.Sprintf("scene%d", i), assets: sceneAssets(i, assetsPerScene)}
	}
	c, err := NewSceneCatalog(defs, loader, 4, nil)
	if err != nil {
		t.Fatalf("NewSceneCatalog() error: %v", err)
	}
	return c
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

var errBroken = errors.New("broken asset")
