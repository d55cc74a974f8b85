package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lbtl/engine/internal/asset"
	"github.com/lbtl/engine/internal/component"
	"github.com/lbtl/engine/internal/config"
	"github.com/lbtl/engine/internal/core/ecs"
	"github.com/lbtl/engine/internal/core/event"
	coresys "github.com/lbtl/engine/internal/core/system"
	"github.com/lbtl/engine/internal/data"
	"github.com/lbtl/engine/internal/gpu"
	"github.com/lbtl/engine/internal/memory"
	"github.com/lbtl/engine/internal/render"
	"github.com/lbtl/engine/internal/scene"
	"github.com/lbtl/engine/internal/scripting"
	"github.com/lbtl/engine/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-len(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if stop := startProfile(cfg.Debug); stop != nil {
		defer stop()
	}

	// 3. Scene description
	desc, err := data.LoadScene(cfg.Assets.SceneFile)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	// 4. Device, prefab library and scene context
	dev := gpu.NewHeadless()
	bus := event.NewBus()
	lib := asset.NewLibrary(dev, asset.GLTFDecoder{}, bus, log)
	world := scene.NewWorld(cfg.Engine.EntityCapacity, bus, log)

	printSection("Assets")
	skipped, err := loadPrefabs(lib, desc.Prefabs, log)
	if err != nil {
		lib.ReleaseAll()
		return err
	}
	printStat("Prefabs", lib.Len())
	printStat("Device buffers", dev.LiveBuffers())
	fmt.Println()

	// 5. Instances and camera rig
	printSection("Scene")
	spawned := spawnInstances(world, lib, desc.Spawns, skipped, log)
	cam := component.NewCamera(cfg.Viewport.Fov, cfg.Viewport.Aspect(), cfg.Viewport.Near, cfg.Viewport.Far)
	player, _ := world.SpawnCameraRig(desc.Camera.Offset, cam)
	printStat("Instances", spawned)
	printStat("Entities", world.Entities.Pool().Len())

	lua, err := scripting.NewEngine(cfg.Assets.ScriptsDir, world, lib, log)
	if err != nil {
		shutdown(world, lib, dev, cfg.Debug, log)
		return fmt.Errorf("scripting: %w", err)
	}
	defer lua.Close()
	lua.SetRoot("player", player)
	printOK("Lua scripts loaded")
	fmt.Println()

	// 6. Systems
	runner := coresys.NewRunner()
	runner.Register(system.NewEventSystem(bus))
	runner.Register(system.NewScriptSystem(lua, log))
	runner.Register(system.NewTransformSystem(world))
	runner.Register(system.NewRenderSystem(render.NewRenderer(dev, world, log)))
	runner.Register(system.NewCleanupSystem(world.Entities, log))

	// 7. Frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	ticker := time.NewTicker(cfg.Engine.TickRate)
	defer ticker.Stop()

	printSection("Running")
	printReady(fmt.Sprintf("frame loop started (tick: %s)", cfg.Engine.TickRate))
	fmt.Println()

	start := time.Now()
loop:
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Engine.TickRate)
			if cfg.Engine.MaxFrames > 0 && runner.Frames() >= cfg.Engine.MaxFrames {
				log.Info("frame limit reached", zap.Uint64("frames", runner.Frames()))
				break loop
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			break loop
		}
	}

	log.Info("frame loop stopped",
		zap.Uint64("frames", runner.Frames()),
		zap.Duration("elapsed", time.Since(start)))
	shutdown(world, lib, dev, cfg.Debug, log)
	return nil
}

// loadPrefabs registers every listed prefab. An unreadable file is skipped
// with a warning and reported in the returned set; a file that decodes but
// does not fit the vertex layout aborts startup.
func loadPrefabs(lib *asset.Library, entries []data.PrefabEntry, log *zap.Logger) (map[string]bool, error) {
	skipped := make(map[string]bool)
	for _, p := range entries {
		_, err := lib.Load(p.Name, p.Path)
		switch {
		case err == nil:
			printOK(fmt.Sprintf("%s (%s)", p.Name, p.Path))
		case asset.IsDecodeError(err):
			log.Warn("prefab skipped", zap.String("name", p.Name), zap.Error(err))
			skipped[p.Name] = true
		default:
			return nil, fmt.Errorf("prefab %s: %w", p.Name, err)
		}
	}
	return skipped, nil
}

func spawnInstances(w *scene.World, lib *asset.Library, spawns []data.SpawnEntry, skipped map[string]bool, log *zap.Logger) int {
	n := 0
	for _, sp := range spawns {
		if skipped[sp.Prefab] {
			continue
		}
		p, err := lib.Get(sp.Prefab)
		if err != nil {
			log.Warn("spawn skipped", zap.String("prefab", sp.Prefab), zap.Error(err))
			continue
		}
		root := scene.Instantiate(w, p)
		t, _ := w.Transform(root)
		t.Translation = sp.Position
		t.Rotation = sp.Quat()
		n++
	}
	return n
}

// shutdown removes every instance before the prefabs they share, then
// checks that nothing was left behind.
func shutdown(w *scene.World, lib *asset.Library, dev *gpu.Headless, dbg config.DebugConfig, log *zap.Logger) {
	roots := append([]ecs.EntityID(nil), w.Instances.IDs()...)
	for _, root := range roots {
		w.Despawn(root)
	}
	lib.ReleaseAll()

	if n := dev.LiveBuffers(); n != 0 {
		log.Error("device buffers leaked", zap.Int("count", n))
	}
	if dbg.LeakCheck {
		memory.AssertNoLeaks()
	}
	log.Info("shutdown complete")
}

func startProfile(cfg config.DebugConfig) func() {
	var mode func(*profile.Profile)
	switch cfg.Profile {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfileAllocs
	default:
		return nil
	}
	p := profile.Start(mode, profile.ProfilePath(cfg.ProfileDir), profile.NoShutdownHook, profile.Quiet)
	return p.Stop
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console", "":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	default:
		return nil, errors.New("logging.format must be console or json")
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
