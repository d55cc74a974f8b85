package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lbtl.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[engine]
tick_rate = "33ms"
max_frames = 120

[viewport]
width = 640
height = 480

[logging]
format = "json"

[debug]
profile = "cpu"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 33*time.Millisecond, cfg.Engine.TickRate)
	assert.Equal(t, uint64(120), cfg.Engine.MaxFrames)
	assert.Equal(t, "lbtl", cfg.Engine.Name, "unset keys keep their defaults")
	assert.InDelta(t, 640.0/480.0, cfg.Viewport.Aspect(), 1e-6)
	assert.Equal(t, float32(0.1), cfg.Viewport.Near)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "cpu", cfg.Debug.Profile)
	assert.Equal(t, "data/scene.yaml", cfg.Assets.SceneFile)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[engine\n"},
		{"tick rate", "[engine]\ntick_rate = \"0s\"\n"},
		{"planes", "[viewport]\nnear = 10.0\nfar = 1.0\n"},
		{"profile", "[debug]\nprofile = \"trace\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err, "an explicit path must exist")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, defaults(), cfg)
}

func TestPath(t *testing.T) {
	t.Setenv("LBTL_CONFIG", "")
	assert.Equal(t, DefaultPath, Path())
	t.Setenv("LBTL_CONFIG", "/etc/lbtl.toml")
	assert.Equal(t, "/etc/lbtl.toml", Path())
}

func TestAspectOfEmptyViewport(t *testing.T) {
	assert.Equal(t, float32(1), ViewportConfig{}.Aspect())
}
