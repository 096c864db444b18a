package game

import (
	"fmt"

	"go.uber.org/zap"
)

// SceneCatalog is the fixed, index-addressed list of scenes owned by the
// application. Indices never change after construction and are the stable
// external identifier of a scene.
type SceneCatalog struct {
	scenes []*Scene
	byName map[string]int
}

// NewSceneCatalog creates one Scene per definition, in order.
//
// Parameters:
//   - defs: concrete scene definitions; names must be unique
//   - loader: asset loader shared by all scenes
//   - assetWorkers: parallel asset loads per scene (minimum 1)
//   - log: logger, nil disables logging
func NewSceneCatalog(defs []Definition, loader AssetLoader, assetWorkers int, log *zap.Logger) (*SceneCatalog, error) {
	if loader == nil {
		return nil, fmt.Errorf("scene catalog needs an asset loader")
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("scene")

	c := &SceneCatalog{
		scenes: make([]*Scene, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	for i, def := range defs {
		if def == nil {
			return nil, fmt.Errorf("scene definition %d is nil", i)
		}
		if _, dup := c.byName[def.Name()]; dup {
			return nil, fmt.Errorf("duplicate scene name %q at index %d", def.Name(), i)
		}
		c.byName[def.Name()] = i
		c.scenes = append(c.scenes, newScene(i, def, loader, assetWorkers, log))
	}
	return c, nil
}

// Len returns the number of scenes.
func (c *SceneCatalog) Len() int {
	return len(c.scenes)
}

// Scene returns the scene at index, or ErrUnknownScene.
func (c *SceneCatalog) Scene(index int) (*Scene, error) {
	if index < 0 || index >= len(c.scenes) {
		return nil, fmt.Errorf("%w: index %d (catalog has %d scenes)", ErrUnknownScene, index, len(c.scenes))
	}
	return c.scenes[index], nil
}

// IndexOf returns the index of the named scene, or -1.
func (c *SceneCatalog) IndexOf(name string) int {
	if i, ok := c.byName[name]; ok {
		return i
	}
	return -1
}

// Scenes returns every scene in index order.
func (c *SceneCatalog) Scenes() []*Scene {
	return append([]*Scene(nil), c.scenes...)
}
