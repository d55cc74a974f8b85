package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lbtl/engine/internal/component"
	"github.com/lbtl/engine/internal/core/ecs"
)

// SpawnCameraRig creates a player root at the origin and a camera entity
// parented to it at offset. Moving or turning the player carries the camera
// with it.
func (w *World) SpawnCameraRig(offset mgl32.Vec3, cam component.Camera) (player, camera ecs.EntityID) {
	player = w.Spawn(Identity())
	camera = w.Spawn(NewTransform(offset, mgl32.QuatIdent()))
	_ = w.Entities.SetParent(camera, player)
	w.Cameras.Add(camera, cam)
	return player, camera
}

// ActiveCamera returns the first live camera with a resolved transform.
func (w *World) ActiveCamera() (ecs.EntityID, *component.Camera, bool) {
	for _, id := range w.Cameras.IDs() {
		t, ok := w.Transforms.Get(id)
		if !ok || !t.Resolved() {
			continue
		}
		c, _ := w.Cameras.Get(id)
		return id, c, true
	}
	return ecs.NoEntity, nil, false
}
