package scripting

import (
	"testing"
	"testing/fstest"

	"github.com/decker502/scenery/pkg/game"
	"github.com/go-gl/mathgl/mgl32"
)

const rowScript = `
assert(API_VERSION == 1)
assert(scene.name == "row")
for i = 0, 3 do
  spawn{name = "tile" .. i, asset = "notes.txt", position = {i * 2, 0, -1}, tint = {255, 0, 0, 255}}
end
if has_asset("missing.txt") then
  error("unexpected asset")
end
spawn{name = "box", mesh = "cube", size = 0.5, scale = {2, 2, 2}}
log("row spawned")
`

func newTestManager(t *testing.T, defs ...game.Definition) *game.SceneManager {
	t.Helper()
	fsys := fstest.MapFS{"notes.txt": {Data: []byte("x")}}
	catalog, err := game.NewSceneCatalog(defs, game.NewResourceManager(fsys, nil), 2, nil)
	if err != nil {
		t.Fatalf("NewSceneCatalog() error: %v", err)
	}
	return game.NewSceneManager(catalog, nil)
}

func TestScriptSpawnsObjects(t *testing.T) {
	def, err := NewDefinition("row", []string{"notes.txt"}, "row.lua", []byte(rowScript), nil)
	if err != nil {
		t.Fatalf("NewDefinition() error: %v", err)
	}
	m := newTestManager(t, def)

	if err := m.LoadScene(0, true); err != nil {
		t.Fatal(err)
	}
	if n := m.InstantiateNewLoadedScenes(); n != 1 {
		t.Fatalf("InstantiateNewLoadedScenes() = %d, want 1", n)
	}

	scene, _ := m.GetScene(0)
	objects := scene.GameObjects().Snapshot()
	if len(objects) != 5 {
		t.Fatalf("spawned %d objects, want 5", len(objects))
	}
	if got := objects[3].Position(); got != (mgl32.Vec3{6, 0, -1}) {
		t.Errorf("tile3 position = %v, want {6 0 -1}", got)
	}
	if got := objects[0].Material().Tint.G; got != 0 {
		t.Errorf("tile0 tint green = %d, want 0", got)
	}
	box := objects[4]
	if box.Name != "box" || box.Scale() != (mgl32.Vec3{2, 2, 2}) {
		t.Errorf("box = %q scale %v", box.Name, box.Scale())
	}
	if got := len(box.Mesh().Indices.Indices()); got != 36 {
		t.Errorf("box mesh has %d indices, want 36", got)
	}
}

func TestScriptErrors(t *testing.T) {
	if _, err := NewDefinition("bad", nil, "bad.lua", []byte("spawn{"), nil); err == nil {
		t.Error("NewDefinition() accepted a syntax error")
	}

	tests := []struct {
		name string
		src  string
	}{
		{"runtime error", `error("boom")`},
		{"bad position", `spawn{position = {1, 2}}`},
		{"bad tint", `spawn{tint = {300, 0, 0, 255}}`},
		{"unknown mesh", `spawn{mesh = "sphere"}`},
		{"asset not loaded", `spawn{asset = "missing.png"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := NewDefinition("bad", nil, "bad.lua", []byte(tt.src), nil)
			if err != nil {
				t.Fatalf("NewDefinition() error: %v", err)
			}
			m := newTestManager(t, def)
			if err := m.LoadScene(0, true); err != nil {
				t.Fatal(err)
			}
			if n := m.InstantiateNewLoadedScenes(); n != 0 {
				t.Errorf("InstantiateNewLoadedScenes() = %d, want 0", n)
			}
			if got, _ := m.Membership(0); got != game.Untracked {
				t.Errorf("Membership(0) = %s, want untracked", got)
			}
		})
	}
}

func TestLoadDefinition(t *testing.T) {
	fsys := fstest.MapFS{"scripts/one.lua": {Data: []byte(`spawn{name = "one"}`)}}
	def, err := LoadDefinition(fsys, "scripts/one.lua", "one", nil, nil)
	if err != nil {
		t.Fatalf("LoadDefinition() error: %v", err)
	}
	if def.Name() != "one" {
		t.Errorf("Name() = %q", def.Name())
	}
	if _, err := LoadDefinition(fsys, "scripts/missing.lua", "x", nil, nil); err == nil {
		t.Error("LoadDefinition() of a missing file should fail")
	}
}
