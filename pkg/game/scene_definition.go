package game

import (
	"fmt"
	"image/color"

	"github.com/decker502/scenery/pkg/config"
	"github.com/decker502/scenery/pkg/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

// Definition is a concrete catalog entry: it names the scene, lists the
// assets it needs, and spawns its game objects once they are loaded.
//
// SpawnGameObjects runs on the render goroutine (see SceneManager.
// InstantiateNewLoadedScenes) so it may create GPU resources through the
// SpawnContext.
type Definition interface {
	Name() string
	Assets() []string
	SpawnGameObjects(sc *SpawnContext) error
}

// ObjectSpec describes one game object to spawn.
type ObjectSpec struct {
	Name     string
	Asset    string // texture asset, empty for an untextured object
	Mesh     string // "quad" or "cube"
	Size     float32
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // Euler angles in degrees
	Scale    mgl32.Vec3
	Tint     color.RGBA
}

// DefaultObjectSpec returns a white unit quad at the origin.
func DefaultObjectSpec() ObjectSpec {
	return ObjectSpec{
		Mesh:  "quad",
		Size:  1,
		Scale: mgl32.Vec3{1, 1, 1},
		Tint:  color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// ObjectSpecFromConfig converts a validated catalog object entry.
func ObjectSpecFromConfig(cfg config.ObjectConfig) ObjectSpec {
	spec := DefaultObjectSpec()
	spec.Name = cfg.Name
	spec.Asset = cfg.Asset
	if cfg.Mesh != "" {
		spec.Mesh = cfg.Mesh
	}
	if cfg.Size > 0 {
		spec.Size = cfg.Size
	}
	if len(cfg.Position) == 3 {
		spec.Position = mgl32.Vec3{cfg.Position[0], cfg.Position[1], cfg.Position[2]}
	}
	if len(cfg.Rotation) == 3 {
		spec.Rotation = mgl32.Vec3{cfg.Rotation[0], cfg.Rotation[1], cfg.Rotation[2]}
	}
	if len(cfg.Scale) == 3 {
		spec.Scale = mgl32.Vec3{cfg.Scale[0], cfg.Scale[1], cfg.Scale[2]}
	}
	if len(cfg.Tint) == 4 {
		spec.Tint = color.RGBA{R: uint8(cfg.Tint[0]), G: uint8(cfg.Tint[1]), B: uint8(cfg.Tint[2]), A: uint8(cfg.Tint[3])}
	}
	return spec
}

// DataDefinition is a Definition whose game objects are a fixed list of specs.
type DataDefinition struct {
	name    string
	assets  []string
	objects []ObjectSpec
}

// NewDataDefinition creates a declarative scene definition.
func NewDataDefinition(name string, assets []string, objects []ObjectSpec) *DataDefinition {
	return &DataDefinition{
		name:    name,
		assets:  append([]string(nil), assets...),
		objects: append([]ObjectSpec(nil), objects...),
	}
}

// NewDataDefinitionFromConfig builds a DataDefinition from a catalog entry.
// The entry's script, if any, is ignored here.
func NewDataDefinitionFromConfig(cfg config.SceneConfig) *DataDefinition {
	objects := make([]ObjectSpec, 0, len(cfg.Objects))
	for _, obj := range cfg.Objects {
		objects = append(objects, ObjectSpecFromConfig(obj))
	}
	return NewDataDefinition(cfg.Name, cfg.Assets, objects)
}

func (d *DataDefinition) Name() string     { return d.name }
func (d *DataDefinition) Assets() []string { return d.assets }

// SpawnGameObjects spawns every configured object.
func (d *DataDefinition) SpawnGameObjects(sc *SpawnContext) error {
	for i, spec := range d.objects {
		if _, err := sc.SpawnObject(spec); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}
	return nil
}

// SpawnContext is handed to Definition.SpawnGameObjects. It gives access to
// the scene's loaded assets and records the objects that are spawned.
type SpawnContext struct {
	scene   *Scene
	spawned int
}

// SceneName returns the name of the scene being instantiated.
func (c *SpawnContext) SceneName() string {
	return c.scene.Name()
}

// Asset returns a loaded asset of the scene.
func (c *SpawnContext) Asset(name string) (*Asset, bool) {
	c.scene.mu.RLock()
	defer c.scene.mu.RUnlock()
	asset, ok := c.scene.loaded[name]
	return asset, ok
}

// Texture uploads the named image asset, reusing the texture if the scene
// already uploaded it. Textures are disposed when the scene unloads.
func (c *SpawnContext) Texture(name string) (*gfx.Texture, error) {
	s := c.scene
	s.mu.Lock()
	defer s.mu.Unlock()

	if tex, ok := s.textures[name]; ok {
		return tex, nil
	}
	asset, ok := s.loaded[name]
	if !ok {
		return nil, fmt.Errorf("asset %q is not loaded by scene %q", name, s.Name())
	}
	if asset.Image == nil {
		return nil, fmt.Errorf("asset %q is not an image", name)
	}
	tex := gfx.NewTexture(name, asset.Image)
	s.textures[name] = tex
	return tex, nil
}

// Add stores obj in the scene's game object collection.
func (c *SpawnContext) Add(obj *gfx.GameObject) {
	c.scene.gameObjects.Append(obj)
	c.spawned++
}

// Spawned returns the number of objects added through this context.
func (c *SpawnContext) Spawned() int {
	return c.spawned
}

// SpawnObject builds the mesh and material for spec, places the object and
// adds it to the scene. Image assets become textures; other assets are only
// checked for presence and the object is drawn with its tint.
func (c *SpawnContext) SpawnObject(spec ObjectSpec) (*gfx.GameObject, error) {
	mesh, err := gfx.NewMesh(spec.Mesh, spec.Size)
	if err != nil {
		return nil, err
	}

	material := &gfx.Material{Tint: spec.Tint}
	if spec.Asset != "" {
		asset, ok := c.Asset(spec.Asset)
		if !ok {
			return nil, fmt.Errorf("asset %q is not loaded by scene %q", spec.Asset, c.SceneName())
		}
		if asset.Image != nil {
			tex, err := c.Texture(spec.Asset)
			if err != nil {
				return nil, err
			}
			material.Texture = tex
		}
	}

	scale := spec.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}

	obj := gfx.NewGameObject(mesh, material)
	obj.Name = spec.Name
	obj.SetPosition(spec.Position)
	obj.SetRotation(spec.Rotation)
	obj.SetScale(scale)
	c.Add(obj)
	return obj, nil
}
