package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath is used when LBTL_CONFIG is unset.
const DefaultPath = "config/lbtl.toml"

type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Viewport ViewportConfig `toml:"viewport"`
	Assets   AssetsConfig   `toml:"assets"`
	Logging  LoggingConfig  `toml:"logging"`
	Debug    DebugConfig    `toml:"debug"`
}

type EngineConfig struct {
	Name           string        `toml:"name"`
	TickRate       time.Duration `toml:"tick_rate"`
	MaxFrames      uint64        `toml:"max_frames"` // 0 = run until signalled
	EntityCapacity int           `toml:"entity_capacity"`
}

type ViewportConfig struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Fov    float32 `toml:"fov"` // vertical, radians
	Near   float32 `toml:"near"`
	Far    float32 `toml:"far"`
}

// Aspect returns width/height, or 1 for a degenerate viewport.
func (v ViewportConfig) Aspect() float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

type AssetsConfig struct {
	SceneFile  string `toml:"scene_file"`
	ScriptsDir string `toml:"scripts_dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DebugConfig struct {
	LeakCheck  bool   `toml:"leak_check"`
	Profile    string `toml:"profile"` // "", "cpu" or "mem"
	ProfileDir string `toml:"profile_dir"`
}

// Load reads the TOML file at path over the defaults. A missing file at
// DefaultPath yields the defaults; a missing file anywhere else is an error.
func Load(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if path == DefaultPath && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the config path from LBTL_CONFIG, or DefaultPath.
func Path() string {
	if p := os.Getenv("LBTL_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

func (c *Config) validate() error {
	if c.Engine.TickRate <= 0 {
		return fmt.Errorf("engine.tick_rate must be positive, got %s", c.Engine.TickRate)
	}
	if c.Viewport.Near <= 0 || c.Viewport.Far <= c.Viewport.Near {
		return fmt.Errorf("viewport planes must satisfy 0 < near < far, got %g..%g", c.Viewport.Near, c.Viewport.Far)
	}
	switch c.Debug.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("debug.profile must be cpu or mem, got %q", c.Debug.Profile)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			Name:           "lbtl",
			TickRate:       16 * time.Millisecond,
			EntityCapacity: 1024,
		},
		Viewport: ViewportConfig{
			Width:  1200,
			Height: 800,
			Fov:    1,
			Near:   0.1,
			Far:    1000,
		},
		Assets: AssetsConfig{
			SceneFile:  "data/scene.yaml",
			ScriptsDir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Debug: DebugConfig{
			LeakCheck:  true,
			ProfileDir: ".",
		},
	}
}
