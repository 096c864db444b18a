// Package scripting lets a scene spawn its game objects from a Lua script.
//
// A script runs once per instantiation in a fresh VM on the render
// goroutine. It sees a read-only `scene` table and these functions:
//
//	spawn{name=, asset=, mesh=, size=, position={x,y,z}, rotation={x,y,z}, scale={x,y,z}, tint={r,g,b,a}}
//	has_asset(name) -> bool
//	log(message)
//
// Example:
//
//	for i = 0, 4 do
//	  spawn{name = "tile" .. i, asset = "textures/grass.png", position = {i * 1.5, 0, 0}}
//	end
package scripting

import (
	"bytes"
	"fmt"
	"image/color"
	"io/fs"

	"github.com/decker502/scenery/pkg/game"
	"github.com/go-gl/mathgl/mgl32"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
	"go.uber.org/zap"
)

// APIVersion is exposed to scripts as the API_VERSION global.
const APIVersion = 1

// Definition is a game.Definition whose SpawnGameObjects runs a Lua script.
// The script is compiled once; each run gets its own VM, so a Definition is
// safe to share.
type Definition struct {
	name   string
	assets []string
	chunk  string
	proto  *lua.FunctionProto
	log    *zap.Logger
}

// NewDefinition compiles src. chunk names the script in error messages.
func NewDefinition(name string, assets []string, chunk string, src []byte, log *zap.Logger) (*Definition, error) {
	if log == nil {
		log = zap.NewNop()
	}
	stmts, err := parse.Parse(bytes.NewReader(src), chunk)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", chunk, err)
	}
	proto, err := lua.Compile(stmts, chunk)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", chunk, err)
	}
	return &Definition{
		name:   name,
		assets: append([]string(nil), assets...),
		chunk:  chunk,
		proto:  proto,
		log:    log.Named("lua").With(zap.String("scene", name)),
	}, nil
}

// LoadDefinition reads and compiles the script at path in fsys.
func LoadDefinition(fsys fs.FS, path, name string, assets []string, log *zap.Logger) (*Definition, error) {
	src, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	return NewDefinition(name, assets, path, src, log)
}

func (d *Definition) Name() string     { return d.name }
func (d *Definition) Assets() []string { return d.assets }

// SpawnGameObjects runs the script against sc.
func (d *Definition) SpawnGameObjects(sc *game.SpawnContext) error {
	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("API_VERSION", lua.LNumber(APIVersion))

	scene := L.NewTable()
	scene.RawSetString("name", lua.LString(sc.SceneName()))
	assets := L.NewTable()
	for _, a := range d.assets {
		assets.Append(lua.LString(a))
	}
	scene.RawSetString("assets", assets)
	L.SetGlobal("scene", scene)

	L.SetGlobal("spawn", L.NewFunction(func(L *lua.LState) int {
		spec, err := specFromTable(L.CheckTable(1))
		if err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
		if _, err := sc.SpawnObject(spec); err != nil {
			L.RaiseError("spawn %q: %v", spec.Name, err)
			return 0
		}
		L.Push(lua.LNumber(sc.Spawned()))
		return 1
	}))
	L.SetGlobal("has_asset", L.NewFunction(func(L *lua.LState) int {
		_, ok := sc.Asset(L.CheckString(1))
		L.Push(lua.LBool(ok))
		return 1
	}))
	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		d.log.Info(L.CheckString(1))
		return 0
	}))

	L.Push(L.NewFunctionFromProto(d.proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("run %s: %w", d.chunk, err)
	}
	d.log.Debug("script spawned objects", zap.Int("objects", sc.Spawned()))
	return nil
}

// specFromTable converts a spawn{...} argument.
func specFromTable(t *lua.LTable) (game.ObjectSpec, error) {
	spec := game.DefaultObjectSpec()
	spec.Name = lua.LVAsString(t.RawGetString("name"))
	spec.Asset = lua.LVAsString(t.RawGetString("asset"))
	if mesh := lua.LVAsString(t.RawGetString("mesh")); mesh != "" {
		spec.Mesh = mesh
	}
	if v := t.RawGetString("size"); v != lua.LNil {
		n, ok := v.(lua.LNumber)
		if !ok || n <= 0 {
			return spec, fmt.Errorf("size must be a positive number")
		}
		spec.Size = float32(n)
	}

	var err error
	if spec.Position, err = vec3Field(t, "position", spec.Position); err != nil {
		return spec, err
	}
	if spec.Rotation, err = vec3Field(t, "rotation", spec.Rotation); err != nil {
		return spec, err
	}
	if spec.Scale, err = vec3Field(t, "scale", spec.Scale); err != nil {
		return spec, err
	}
	if spec.Tint, err = tintField(t, spec.Tint); err != nil {
		return spec, err
	}
	return spec, nil
}

func vec3Field(t *lua.LTable, field string, def mgl32.Vec3) (mgl32.Vec3, error) {
	v := t.RawGetString(field)
	if v == lua.LNil {
		return def, nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok || tbl.Len() != 3 {
		return def, fmt.Errorf("%s must be {x, y, z}", field)
	}
	var out mgl32.Vec3
	for i := range out {
		n, ok := tbl.RawGetInt(i + 1).(lua.LNumber)
		if !ok {
			return def, fmt.Errorf("%s[%d] is not a number", field, i+1)
		}
		out[i] = float32(n)
	}
	return out, nil
}

func tintField(t *lua.LTable, def color.RGBA) (color.RGBA, error) {
	v := t.RawGetString("tint")
	if v == lua.LNil {
		return def, nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok || tbl.Len() != 4 {
		return def, fmt.Errorf("tint must be {r, g, b, a}")
	}
	var c [4]uint8
	for i := range c {
		n, ok := tbl.RawGetInt(i + 1).(lua.LNumber)
		if !ok || n < 0 || n > 255 {
			return def, fmt.Errorf("tint[%d] must be 0-255", i+1)
		}
		c[i] = uint8(n)
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
}
