package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/lbtl/engine/internal/asset"
	"github.com/lbtl/engine/internal/core/ecs"
	"github.com/lbtl/engine/internal/memory"
	"github.com/lbtl/engine/internal/scene"
)

// Prefabs resolves prefab names for scene.spawn.
type Prefabs interface {
	Get(name string) (memory.NonOwner[asset.Prefab], error)
}

// Engine wraps a single gopher-lua VM running gameplay scripts against the
// scene. Single-goroutine access only (frame loop).
type Engine struct {
	vm      *lua.LState
	scene   *scene.World
	prefabs Prefabs
	roots   map[string]ecs.EntityID
	log     *zap.Logger
}

// NewEngine creates a Lua engine, installs the scene module and loads every
// script in scriptsDir in name order. A missing directory loads nothing.
func NewEngine(scriptsDir string, w *scene.World, prefabs Prefabs, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{
		vm:      vm,
		scene:   w,
		prefabs: prefabs,
		roots:   make(map[string]ecs.EntityID, 4),
		log:     log,
	}
	e.openScene()

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// SetRoot exposes id to scripts as scene.root(name).
func (e *Engine) SetRoot(name string, id ecs.EntityID) {
	e.roots[name] = id
}

// OnFrame calls the global on_frame(dt) hook with dt in seconds. Scripts
// without the hook are fine.
func (e *Engine) OnFrame(dt time.Duration) error {
	fn := e.vm.GetGlobal("on_frame")
	if fn == lua.LNil {
		return nil
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(dt.Seconds())); err != nil {
		return fmt.Errorf("lua on_frame: %w", err)
	}
	return nil
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
