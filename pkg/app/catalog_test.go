package app

import (
	"testing"
	"testing/fstest"

	"github.com/decker502/scenery/pkg/config"
	"github.com/decker502/scenery/pkg/game"
)

const testCatalog = `
version: "1.0"
scenes:
  - name: plain
    objects:
      - name: floor
        asset: notes/floor.txt
        mesh: cube
  - name: scripted
    assets: [notes/floor.txt]
    objects:
      - name: marker
    script: scripts/row.lua
`

const testScript = `
for i = 1, 3 do
  spawn{name = "post" .. i, asset = "notes/floor.txt", position = {i, 0, 0}}
end
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"catalog.yaml":    {Data: []byte(testCatalog)},
		"scripts/row.lua": {Data: []byte(testScript)},
		"notes/floor.txt": {Data: []byte("floor")},
	}
}

func TestLoadCatalogConfigFromFS(t *testing.T) {
	cat, err := LoadCatalogConfig(config.CatalogConfig{}, testFS())
	if err != nil {
		t.Fatalf("LoadCatalogConfig() error: %v", err)
	}
	if len(cat.Scenes) != 2 {
		t.Fatalf("got %d scenes, want 2", len(cat.Scenes))
	}
	// 对象引用的资源自动加入场景资源列表
	if len(cat.Scenes[0].Assets) != 1 || cat.Scenes[0].Assets[0] != "notes/floor.txt" {
		t.Errorf("plain assets = %v", cat.Scenes[0].Assets)
	}
}

func TestLoadCatalogConfigMissingFile(t *testing.T) {
	if _, err := LoadCatalogConfig(config.CatalogConfig{Path: "/nonexistent/catalog.yaml"}, testFS()); err == nil {
		t.Error("LoadCatalogConfig() with a missing path should fail")
	}
}

// TestBuildDefinitions 测试声明式与脚本场景都能实例化
func TestBuildDefinitions(t *testing.T) {
	fsys := testFS()
	cat, err := LoadCatalogConfig(config.CatalogConfig{}, fsys)
	if err != nil {
		t.Fatal(err)
	}
	defs, err := BuildDefinitions(cat, fsys, nil)
	if err != nil {
		t.Fatalf("BuildDefinitions() error: %v", err)
	}

	catalog, err := game.NewSceneCatalog(defs, game.NewResourceManager(fsys, nil), 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	m := game.NewSceneManager(catalog, nil)
	m.LoadAllScenesAsync(true)
	m.Wait()
	m.Update()

	want := map[string]int{"plain": 1, "scripted": 4}
	enabled := m.GetEnabledScenes()
	if len(enabled) != 2 {
		t.Fatalf("got %d enabled scenes, want 2", len(enabled))
	}
	for _, s := range enabled {
		if got := s.GameObjects().Len(); got != want[s.Name()] {
			t.Errorf("scene %s has %d objects, want %d", s.Name(), got, want[s.Name()])
		}
	}
}

func TestBuildDefinitionsMissingScript(t *testing.T) {
	fsys := testFS()
	delete(fsys, "scripts/row.lua")
	cat, err := LoadCatalogConfig(config.CatalogConfig{}, fsys)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := BuildDefinitions(cat, fsys, nil); err == nil {
		t.Error("BuildDefinitions() with a missing script should fail")
	}
}
