package scene

import (
	"go.uber.org/zap"

	"github.com/lbtl/engine/internal/asset"
	"github.com/lbtl/engine/internal/component"
	"github.com/lbtl/engine/internal/core/ecs"
	"github.com/lbtl/engine/internal/core/event"
	"github.com/lbtl/engine/internal/memory"
)

// Instantiate creates a live copy of prefab and returns its root.
//
// The root carries an identity transform and no parent. A template entity
// holds the prefab's buffer reference once for the whole instance; every
// node becomes a child of the root, and mesh nodes inherit the buffer from
// the template and carry their own draw range. Instances share the prefab's
// buffer but never transform state.
//
// prefab must reference a loaded prefab.
func Instantiate(w *World, prefab memory.NonOwner[asset.Prefab]) ecs.EntityID {
	p := prefab.Get()

	root := w.Spawn(Identity())
	template := w.Entities.CreateEntity()
	if buf := p.Buffer(); !buf.IsZero() {
		w.Buffers.Add(template, component.MeshBuffer{Handle: buf})
	}
	w.Instances.Add(root, Instance{Prefab: p.Name, Template: template})

	nodes := p.Nodes()
	for i := range nodes {
		n := &nodes[i]
		id := w.Spawn(NewTransform(n.Translation, n.Rotation))
		// Both entities were created above; neither call can fail.
		_ = w.Entities.SetParent(id, root)
		if n.HasMesh {
			_ = w.Entities.SetBase(id, template)
			w.Meshes.Add(id, n.Mesh)
		}
	}

	w.log.Debug("prefab instantiated",
		zap.String("prefab", p.Name),
		zap.Uint64("root", uint64(root)),
		zap.Int("nodes", len(nodes)))
	if w.bus != nil {
		event.Emit(w.bus, event.InstanceSpawned{Root: root, Prefab: p.Name, Entities: len(nodes) + 2})
	}
	return root
}
