package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, the parent/child hierarchy and a deferred destruction queue
// flushed by the cleanup system each frame.
type World struct {
	pool         *EntityPool
	registry     *Registry
	links        map[EntityID]*link
	destroyQueue []EntityID
	version      uint64
}

func NewWorld(capacity int) *World {
	return &World{
		pool:         NewEntityPool(capacity),
		registry:     NewRegistry(),
		links:        make(map[EntityID]*link, capacity),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	w.version++
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Version changes on every create, destroy and reparent.
func (w *World) Version() uint64 { return w.version }

// Destroy removes id and all its components immediately. Children keep
// their (now dead) parent reference and drop to depth zero. Destroying a
// stale id is a no-op.
func (w *World) Destroy(id EntityID) {
	if !w.pool.Alive(id) {
		return
	}
	w.unlink(id)
	w.registry.RemoveAll(id)
	w.pool.Destroy(id)
	w.version++
}

// MarkForDestruction queues an entity for end-of-frame cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue destroys all queued entities and clears their components.
// Called by the cleanup system at the end of each frame.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.destroyQueue {
		if w.pool.Alive(id) {
			w.Destroy(id)
			n++
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}
