package app

import (
	"fmt"
	"io/fs"

	"github.com/decker502/scenery/pkg/config"
	"github.com/decker502/scenery/pkg/game"
	"github.com/decker502/scenery/pkg/scripting"
	"go.uber.org/zap"
)

// DefaultCatalogPath 是嵌入数据中默认场景目录的路径
const DefaultCatalogPath = "catalog.yaml"

// LoadCatalogConfig 读取场景目录配置
//
// cfg.Path 非空时从磁盘读取，否则读取 fsys 中的 catalog.yaml
func LoadCatalogConfig(cfg config.CatalogConfig, fsys fs.FS) (*config.SceneCatalogConfig, error) {
	if cfg.Path != "" {
		return config.LoadSceneCatalogConfig(cfg.Path)
	}
	return config.LoadSceneCatalogConfigFS(fsys, DefaultCatalogPath)
}

// BuildDefinitions 将目录配置转换为场景定义
//
// 带 script 的场景先生成声明式对象，再运行脚本；脚本从 fsys 读取
func BuildDefinitions(catalog *config.SceneCatalogConfig, fsys fs.FS, log *zap.Logger) ([]game.Definition, error) {
	defs := make([]game.Definition, 0, len(catalog.Scenes))
	for _, sc := range catalog.Scenes {
		data := game.NewDataDefinitionFromConfig(sc)
		if sc.Script == "" {
			defs = append(defs, data)
			continue
		}

		script, err := scripting.LoadDefinition(fsys, sc.Script, sc.Name, sc.Assets, log)
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", sc.Name, err)
		}
		defs = append(defs, &scriptedDefinition{DataDefinition: data, script: script})
	}
	return defs, nil
}

// scriptedDefinition 先生成声明式对象，再执行 Lua 脚本
type scriptedDefinition struct {
	*game.DataDefinition
	script *scripting.Definition
}

func (d *scriptedDefinition) SpawnGameObjects(sc *game.SpawnContext) error {
	if err := d.DataDefinition.SpawnGameObjects(sc); err != nil {
		return err
	}
	return d.script.SpawnGameObjects(sc)
}
