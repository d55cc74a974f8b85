// Package scene is the scene graph: the world context every frame system
// works against, the per-frame transform pass and the instantiation of
// prefabs into live entity subtrees.
package scene

import (
	"go.uber.org/zap"

	"github.com/lbtl/engine/internal/component"
	"github.com/lbtl/engine/internal/core/ecs"
	"github.com/lbtl/engine/internal/core/event"
)

// Instance is attached to the synthetic root of every instantiated prefab.
type Instance struct {
	Prefab   string
	Template ecs.EntityID
}

// World is the scene context: the entity world and the component stores the
// scene systems share. One is built at startup and passed to every
// subsystem; tests build as many as they need.
type World struct {
	Entities   *ecs.World
	Transforms *ecs.Store[Transform]
	Meshes     *ecs.Store[component.MeshRange]
	Buffers    *ecs.Store[component.MeshBuffer]
	Cameras    *ecs.Store[component.Camera]
	Instances  *ecs.Store[Instance]

	bus *event.Bus
	log *zap.Logger

	// Cascade order of the transform store, rebuilt only when entities,
	// parents or the set of transforms change.
	order      []ecs.EntityID
	orderWorld uint64
	orderStore uint64
	orderValid bool
}

// NewWorld creates an empty scene. bus may be nil.
func NewWorld(capacity int, bus *event.Bus, log *zap.Logger) *World {
	ew := ecs.NewWorld(capacity)
	return &World{
		Entities:   ew,
		Transforms: ecs.NewRegisteredStore[Transform](ew),
		Meshes:     ecs.NewRegisteredStore[component.MeshRange](ew),
		Buffers:    ecs.NewRegisteredStore[component.MeshBuffer](ew),
		Cameras:    ecs.NewRegisteredStore[component.Camera](ew),
		Instances:  ecs.NewRegisteredStore[Instance](ew),
		bus:        bus,
		log:        log,
		order:      make([]ecs.EntityID, 0, capacity),
	}
}

func (w *World) Bus() *event.Bus     { return w.bus }
func (w *World) Logger() *zap.Logger { return w.log }

// Spawn creates a root entity carrying t.
func (w *World) Spawn(t Transform) ecs.EntityID {
	id := w.Entities.CreateEntity()
	w.Transforms.Add(id, t)
	return id
}

// SetParent attaches child under parent; a zero parent makes child a root.
func (w *World) SetParent(child, parent ecs.EntityID) error {
	return w.Entities.SetParent(child, parent)
}

// Transform returns the transform of a live entity.
func (w *World) Transform(id ecs.EntityID) (*Transform, bool) {
	if !w.Entities.Alive(id) {
		return nil, false
	}
	return w.Transforms.Get(id)
}

// UpdateTransforms resolves every world matrix, parents before children.
// An entity whose parent is gone, or carries no transform, resolves as a
// root.
func (w *World) UpdateTransforms() {
	for _, id := range w.cascade() {
		t, ok := w.Transforms.Get(id)
		if !ok {
			continue
		}
		local := t.Local()
		t.world = local
		if p, ok := w.Entities.Parent(id); ok && w.Entities.Alive(p) {
			if pt, ok := w.Transforms.Get(p); ok && pt.resolved {
				t.world = pt.world.Mul4(local)
			}
		}
		t.resolved = true
	}
}

func (w *World) cascade() []ecs.EntityID {
	wv, sv := w.Entities.Version(), w.Transforms.Version()
	if w.orderValid && wv == w.orderWorld && sv == w.orderStore {
		return w.order
	}
	w.order = append(w.order[:0], w.Transforms.IDs()...)
	w.Entities.Cascade(w.order)
	w.orderWorld, w.orderStore, w.orderValid = wv, sv, true
	return w.order
}

// Destroy removes one entity and its components. Its children stay alive
// and resolve as roots from the next pass on.
func (w *World) Destroy(id ecs.EntityID) {
	w.Entities.Destroy(id)
}

// Despawn destroys an instance: root, every descendant and the template
// entity holding the shared buffer reference. It returns the number of
// entities destroyed. The prefab's buffer is untouched.
func (w *World) Despawn(root ecs.EntityID) int {
	if !w.Entities.Alive(root) {
		return 0
	}
	template := ecs.NoEntity
	if inst, ok := w.Instances.Get(root); ok {
		template = inst.Template
	}
	n := w.destroyTree(root)
	if w.Entities.Alive(template) {
		w.Entities.Destroy(template)
		n++
	}
	w.log.Debug("instance despawned", zap.Uint64("root", uint64(root)), zap.Int("entities", n))
	if w.bus != nil {
		event.Emit(w.bus, event.InstanceDespawned{Root: root, Entities: n})
	}
	return n
}

func (w *World) destroyTree(id ecs.EntityID) int {
	n := 1
	children := append([]ecs.EntityID(nil), w.Entities.Children(id)...)
	for _, c := range children {
		n += w.destroyTree(c)
	}
	w.Entities.Destroy(id)
	return n
}
