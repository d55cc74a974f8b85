package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbtl/engine/internal/config"
	"github.com/lbtl/engine/internal/memory"
)

func writeGLB(t *testing.T, path string) {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	nrm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{Name: "tri", Primitives: []*gltf.Primitive{{
		Indices:    gltf.Index(idx),
		Attributes: map[string]int{"POSITION": pos, "NORMAL": nrm, "TEXCOORD_0": uv},
	}}}}
	doc.Nodes = []*gltf.Node{{Name: "tri", Mesh: gltf.Index(0), Rotation: [4]float64{0, 0, 0, 1}}}
	doc.Scenes[0].Nodes = []int{0}
	require.NoError(t, gltf.SaveBinary(doc, path))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeGLB(t, filepath.Join(dir, "tri.glb"))

	scenePath := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(scenePath, []byte(`
prefabs:
  - {name: tri, path: tri.glb}
  - {name: ghost, path: missing.glb}
spawns:
  - {prefab: tri, position: [0, 0, -5]}
  - {prefab: tri, position: [3, 0, -5], rotation: [0, 1, 0, 1]}
  - {prefab: ghost, position: [0, 0, 0]}
camera:
  offset: [0, 1, 4]
`), 0o644))

	scripts := filepath.Join(dir, "scripts")
	require.NoError(t, os.Mkdir(scripts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "spin.lua"), []byte(`
function on_frame(dt)
  scene.rotate(scene.root("player"), 0, 1, 0, 0.002)
end
`), 0o644))

	cfgPath := filepath.Join(dir, "lbtl.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[engine]
tick_rate = "1ms"
max_frames = 5

[assets]
scene_file = "`+filepath.ToSlash(scenePath)+`"
scripts_dir = "`+filepath.ToSlash(scripts)+`"

[logging]
level = "error"

[debug]
leak_check = true
`), 0o644))
	t.Setenv("LBTL_CONFIG", cfgPath)

	require.NoError(t, run())
	assert.Zero(t, memory.Live(), "shutdown releases everything it allocated")
}

func TestRunRejectsBadScene(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "lbtl.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[assets]
scene_file = "`+filepath.ToSlash(filepath.Join(dir, "absent.yaml"))+`"
`), 0o644))
	t.Setenv("LBTL_CONFIG", cfgPath)

	assert.Error(t, run())
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json", ""} {
		log, err := newLogger(config.LoggingConfig{Level: "nonsense", Format: format})
		require.NoError(t, err, format)
		assert.True(t, log.Core().Enabled(0), "unknown levels fall back to info")
		assert.False(t, log.Core().Enabled(-1))
	}
	_, err := newLogger(config.LoggingConfig{Format: "xml"})
	assert.Error(t, err)
}

func TestStartProfileDisabled(t *testing.T) {
	assert.Nil(t, startProfile(config.DebugConfig{}))
}
