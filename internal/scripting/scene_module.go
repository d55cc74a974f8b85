package scripting

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/lbtl/engine/internal/core/ecs"
	"github.com/lbtl/engine/internal/scene"
)

const entityTypeName = "scene.entity"

// openScene installs the scene table as a global and as require("scene").
func (e *Engine) openScene() {
	L := e.vm
	mt := L.NewTypeMetatable(entityTypeName)
	L.SetField(mt, "__tostring", L.NewFunction(entityString))
	L.SetField(mt, "__eq", L.NewFunction(entityEqual))

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"spawn":        e.luaSpawn,
		"despawn":      e.luaDespawn,
		"translate":    e.luaTranslate,
		"rotate":       e.luaRotate,
		"set_position": e.luaSetPosition,
		"position":     e.luaPosition,
		"root":         e.luaRoot,
	})
	L.SetGlobal("scene", mod)
	L.PreloadModule("scene", func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
}

func (e *Engine) pushEntity(L *lua.LState, id ecs.EntityID) {
	ud := L.NewUserData()
	ud.Value = id
	L.SetMetatable(ud, L.GetTypeMetatable(entityTypeName))
	L.Push(ud)
}

func checkEntity(L *lua.LState, n int) ecs.EntityID {
	ud := L.CheckUserData(n)
	id, ok := ud.Value.(ecs.EntityID)
	if !ok {
		L.ArgError(n, "entity expected")
	}
	return id
}

// checkTransform resolves argument n to the transform of a live entity.
func (e *Engine) checkTransform(L *lua.LState, n int) *scene.Transform {
	id := checkEntity(L, n)
	t, ok := e.scene.Transform(id)
	if !ok {
		L.RaiseError("entity %d is not alive or has no transform", uint64(id))
	}
	return t
}

func checkVec3(L *lua.LState, n int) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(L.CheckNumber(n)),
		float32(L.CheckNumber(n + 1)),
		float32(L.CheckNumber(n + 2)),
	}
}

func entityString(L *lua.LState) int {
	id := checkEntity(L, 1)
	L.Push(lua.LString(fmt.Sprintf("entity(%d:%d)", id.Index(), id.Generation())))
	return 1
}

func entityEqual(L *lua.LState) int {
	L.Push(lua.LBool(checkEntity(L, 1) == checkEntity(L, 2)))
	return 1
}

// scene.spawn(prefab, x, y, z) -> entity
func (e *Engine) luaSpawn(L *lua.LState) int {
	name := L.CheckString(1)
	pos := checkVec3(L, 2)
	p, err := e.prefabs.Get(name)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	root := scene.Instantiate(e.scene, p)
	t, _ := e.scene.Transform(root)
	t.Translation = pos
	e.log.Debug("script spawned instance", zap.String("prefab", name), zap.Uint64("root", uint64(root)))
	e.pushEntity(L, root)
	return 1
}

// scene.despawn(entity) -> number of entities destroyed
func (e *Engine) luaDespawn(L *lua.LState) int {
	L.Push(lua.LNumber(e.scene.Despawn(checkEntity(L, 1))))
	return 1
}

// scene.translate(entity, dx, dy, dz)
func (e *Engine) luaTranslate(L *lua.LState) int {
	e.checkTransform(L, 1).Translate(checkVec3(L, 2))
	return 0
}

// scene.rotate(entity, ax, ay, az, radians)
func (e *Engine) luaRotate(L *lua.LState) int {
	t := e.checkTransform(L, 1)
	t.Rotate(checkVec3(L, 2), float32(L.CheckNumber(5)))
	return 0
}

// scene.set_position(entity, x, y, z)
func (e *Engine) luaSetPosition(L *lua.LState) int {
	e.checkTransform(L, 1).Translation = checkVec3(L, 2)
	return 0
}

// scene.position(entity) -> x, y, z
func (e *Engine) luaPosition(L *lua.LState) int {
	p := e.checkTransform(L, 1).Translation
	L.Push(lua.LNumber(p.X()))
	L.Push(lua.LNumber(p.Y()))
	L.Push(lua.LNumber(p.Z()))
	return 3
}

// scene.root(name) -> entity or nil
func (e *Engine) luaRoot(L *lua.LState) int {
	id, ok := e.roots[L.CheckString(1)]
	if !ok || !e.scene.Entities.Alive(id) {
		L.Push(lua.LNil)
		return 1
	}
	e.pushEntity(L, id)
	return 1
}
