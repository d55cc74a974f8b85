package data

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// PrefabEntry names an asset to load at startup.
type PrefabEntry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"` // relative to the scene file
}

// SpawnEntry places one instance of a prefab. Rotation is x, y, z, w and
// defaults to identity.
type SpawnEntry struct {
	Prefab   string      `yaml:"prefab"`
	Position [3]float32  `yaml:"position"`
	Rotation *[4]float32 `yaml:"rotation,omitempty"`
}

// Quat returns the spawn rotation, normalized.
func (s SpawnEntry) Quat() mgl32.Quat {
	if s.Rotation == nil {
		return mgl32.QuatIdent()
	}
	r := s.Rotation
	return mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
}

// CameraRig places the camera relative to the player root.
type CameraRig struct {
	Offset [3]float32 `yaml:"offset"`
}

// Scene is the startup description: what to load, what to spawn and where
// the camera sits.
type Scene struct {
	Prefabs []PrefabEntry `yaml:"prefabs"`
	Spawns  []SpawnEntry  `yaml:"spawns"`
	Camera  CameraRig     `yaml:"camera"`
}

// LoadScene reads a scene file. Prefab paths are resolved against the
// file's directory; every spawn must name a listed prefab.
func LoadScene(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	var s Scene
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	known := make(map[string]bool, len(s.Prefabs))
	for i := range s.Prefabs {
		p := &s.Prefabs[i]
		if p.Name == "" || p.Path == "" {
			return nil, fmt.Errorf("scene %s: prefab %d needs a name and a path", path, i)
		}
		if known[p.Name] {
			return nil, fmt.Errorf("scene %s: prefab %q listed twice", path, p.Name)
		}
		known[p.Name] = true
		if !filepath.IsAbs(p.Path) {
			p.Path = filepath.Join(dir, p.Path)
		}
	}
	for i, sp := range s.Spawns {
		if !known[sp.Prefab] {
			return nil, fmt.Errorf("scene %s: spawn %d names unknown prefab %q", path, i, sp.Prefab)
		}
	}
	return &s, nil
}
