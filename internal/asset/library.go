package asset

import (
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"github.com/lbtl/engine/internal/core/event"
	"github.com/lbtl/engine/internal/gpu"
	"github.com/lbtl/engine/internal/memory"
)

// Library owns every loaded prefab for the life of the program. Prefabs are
// never released one by one; ReleaseAll tears them all down at shutdown,
// after every instance is gone.
type Library struct {
	device  gpu.Device
	decoder Decoder
	bus     *event.Bus
	log     *zap.Logger

	prefabs *memory.Array[*memory.Owner[Prefab]]
	byName  *memory.StringMap[int]
}

// NewLibrary creates an empty library. bus may be nil.
func NewLibrary(dev gpu.Device, dec Decoder, bus *event.Bus, log *zap.Logger) *Library {
	return &Library{
		device:  dev,
		decoder: dec,
		bus:     bus,
		log:     log,
		prefabs: memory.NewArray[*memory.Owner[Prefab]](8),
		byName:  memory.NewStringMap[int](8),
	}
}

// Load imports the asset at path and registers it under name. On failure
// nothing is registered and no device buffer is left behind.
func (l *Library) Load(name, path string) (memory.NonOwner[Prefab], error) {
	if _, ok := l.byName.Get(name); ok {
		return memory.NonOwner[Prefab]{}, fmt.Errorf("%w: %s", ErrDuplicatePrefab, name)
	}
	p, err := Load(path, l.decoder, l.device, l.log)
	if err != nil {
		return memory.NonOwner[Prefab]{}, err
	}
	p.Name = name

	owner := memory.NewOwner(*p)
	l.byName.Put(name, l.prefabs.Len())
	l.prefabs.Push(owner)

	l.log.Info("prefab loaded",
		zap.String("name", name),
		zap.String("path", path),
		zap.Int("nodes", len(p.Nodes())),
		zap.Int("vertices", p.Vertices),
		zap.Int("indices", p.Indices),
		zap.String("checksum", hex.EncodeToString(p.Checksum[:8])))
	if l.bus != nil {
		event.Emit(l.bus, event.PrefabLoaded{
			Name:     name,
			Nodes:    len(p.Nodes()),
			Vertices: p.Vertices,
			Indices:  p.Indices,
		})
	}
	return owner.NonOwner(), nil
}

// Get returns the prefab registered under name.
func (l *Library) Get(name string) (memory.NonOwner[Prefab], error) {
	i, ok := l.byName.Get(name)
	if !ok {
		return memory.NonOwner[Prefab]{}, fmt.Errorf("%w: %s", ErrUnknownPrefab, name)
	}
	return l.prefabs.At(i).NonOwner(), nil
}

// Names returns the registered names in load order.
func (l *Library) Names() []string { return l.byName.Keys() }

func (l *Library) Len() int { return l.prefabs.Len() }

// ReleaseAll releases every prefab's device buffer exactly once, then the
// library's own containers. The library is unusable afterwards.
func (l *Library) ReleaseAll() {
	for _, owner := range l.prefabs.Slice() {
		p := owner.Get()
		p.Release(l.device)
		if l.bus != nil {
			event.Emit(l.bus, event.PrefabReleased{Name: p.Name})
		}
		owner.Release()
	}
	l.log.Info("prefabs released", zap.Int("count", l.prefabs.Len()))
	l.prefabs.Release()
	l.byName.Release()
}
