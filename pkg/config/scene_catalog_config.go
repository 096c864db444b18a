package config

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// SceneCatalogConfig 场景目录配置
// 定义应用启动时注册的全部场景（顺序即场景索引）
//
// 结构：
//
//	version: "1.0"
//	scenes:
//	  - name: meadow
//	    assets: [textures/grass.png]
//	    objects:
//	      - asset: textures/grass.png
//	        mesh: quad
//	        position: [0, -1, 0]
//	  - name: forest
//	    assets: [textures/bark.png]
//	    script: scripts/forest.lua
type SceneCatalogConfig struct {
	Version string        `yaml:"version"` // 配置文件版本
	Scenes  []SceneConfig `yaml:"scenes"`  // 场景列表，索引即场景的稳定标识
}

// SceneConfig 单个场景配置
type SceneConfig struct {
	Name    string         `yaml:"name"`    // 场景名称（唯一）
	Assets  []string       `yaml:"assets"`  // 资源标识列表，加载顺序即列表顺序
	Objects []ObjectConfig `yaml:"objects"` // 声明式生成的游戏对象
	Script  string         `yaml:"script"`  // 可选：Lua 生成脚本路径（与 objects 同时存在时两者都执行）
}

// ObjectConfig 单个游戏对象生成配置
type ObjectConfig struct {
	Name     string    `yaml:"name"`     // 对象名称（可选）
	Asset    string    `yaml:"asset"`    // 纹理资源标识，为空则只使用 tint 颜色
	Mesh     string    `yaml:"mesh"`     // 网格类型："quad" 或 "cube"，默认 "quad"
	Size     float32   `yaml:"size"`     // 网格边长，默认 1
	Position []float32 `yaml:"position"` // 位置 [x, y, z]，默认原点
	Rotation []float32 `yaml:"rotation"` // 欧拉角（度）[x, y, z]，默认 0
	Scale    []float32 `yaml:"scale"`    // 缩放 [x, y, z]，默认 1
	Tint     []int     `yaml:"tint"`     // RGBA 颜色（0-255），默认白色
}

// LoadSceneCatalogConfig 从磁盘加载场景目录配置
func LoadSceneCatalogConfig(path string) (*SceneCatalogConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene catalog file %s: %w", path, err)
	}
	return ParseSceneCatalogConfig(data, path)
}

// LoadSceneCatalogConfigFS 从文件系统（如嵌入资源）加载场景目录配置
func LoadSceneCatalogConfigFS(fsys fs.FS, path string) (*SceneCatalogConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene catalog file %s: %w", path, err)
	}
	return ParseSceneCatalogConfig(data, path)
}

// ParseSceneCatalogConfig 解析 YAML 数据，source 仅用于错误信息
func ParseSceneCatalogConfig(data []byte, source string) (*SceneCatalogConfig, error) {
	var catalog SceneCatalogConfig
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse scene catalog YAML from %s: %w", source, err)
	}

	applyCatalogDefaults(&catalog)

	if err := validateSceneCatalog(&catalog); err != nil {
		return nil, fmt.Errorf("invalid scene catalog in %s: %w", source, err)
	}

	return &catalog, nil
}

// applyCatalogDefaults 为缺失的可选字段设置默认值
func applyCatalogDefaults(catalog *SceneCatalogConfig) {
	if catalog.Version == "" {
		catalog.Version = "1.0"
	}

	for i := range catalog.Scenes {
		scene := &catalog.Scenes[i]
		for j := range scene.Objects {
			obj := &scene.Objects[j]
			if obj.Mesh == "" {
				obj.Mesh = "quad"
			}
			if obj.Size == 0 {
				obj.Size = 1
			}
			if len(obj.Position) == 0 {
				obj.Position = []float32{0, 0, 0}
			}
			if len(obj.Rotation) == 0 {
				obj.Rotation = []float32{0, 0, 0}
			}
			if len(obj.Scale) == 0 {
				obj.Scale = []float32{1, 1, 1}
			}
			if len(obj.Tint) == 0 {
				obj.Tint = []int{255, 255, 255, 255}
			}

			// 对象引用的资源必须随场景一起加载
			if obj.Asset != "" && !containsString(scene.Assets, obj.Asset) {
				scene.Assets = append(scene.Assets, obj.Asset)
			}
		}
	}
}

// validateSceneCatalog 验证场景目录配置的完整性和合法性
func validateSceneCatalog(catalog *SceneCatalogConfig) error {
	if len(catalog.Scenes) == 0 {
		return fmt.Errorf("at least one scene is required")
	}

	seen := make(map[string]bool, len(catalog.Scenes))
	for i, scene := range catalog.Scenes {
		if scene.Name == "" {
			return fmt.Errorf("scene %d: name is required", i)
		}
		if seen[scene.Name] {
			return fmt.Errorf("scene %d: duplicate name %q", i, scene.Name)
		}
		seen[scene.Name] = true

		for j, asset := range scene.Assets {
			if asset == "" {
				return fmt.Errorf("scene %q asset %d: identifier is empty", scene.Name, j)
			}
		}

		for j, obj := range scene.Objects {
			if obj.Mesh != "quad" && obj.Mesh != "cube" {
				return fmt.Errorf("scene %q object %d: mesh must be quad or cube, got %q", scene.Name, j, obj.Mesh)
			}
			if obj.Size < 0 {
				return fmt.Errorf("scene %q object %d: size cannot be negative", scene.Name, j)
			}
			if len(obj.Position) != 3 || len(obj.Rotation) != 3 || len(obj.Scale) != 3 {
				return fmt.Errorf("scene %q object %d: position, rotation and scale need 3 components", scene.Name, j)
			}
			if len(obj.Tint) != 4 {
				return fmt.Errorf("scene %q object %d: tint needs 4 components, got %d", scene.Name, j, len(obj.Tint))
			}
			for _, c := range obj.Tint {
				if c < 0 || c > 255 {
					return fmt.Errorf("scene %q object %d: tint components must be between 0 and 255, got %d", scene.Name, j, c)
				}
			}
		}
	}

	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
