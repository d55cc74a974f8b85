// Package render submits one draw per mesh-bearing entity using the resolved
// world matrices of the scene graph.
package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/lbtl/engine/internal/component"
	"github.com/lbtl/engine/internal/core/ecs"
	"github.com/lbtl/engine/internal/gpu"
	"github.com/lbtl/engine/internal/scene"
)

// frameStarter is implemented by devices that record per-frame state.
type frameStarter interface {
	BeginFrame()
}

type Renderer struct {
	device gpu.Device
	scene  *scene.World
	log    *zap.Logger

	warnedNoCamera bool
}

func NewRenderer(dev gpu.Device, w *scene.World, log *zap.Logger) *Renderer {
	return &Renderer{device: dev, scene: w, log: log}
}

// ViewProjection returns projection · inverse(camera world) for the active
// camera. Without a camera it returns the identity and false.
func (r *Renderer) ViewProjection() (mgl32.Mat4, bool) {
	id, cam, ok := r.scene.ActiveCamera()
	if !ok {
		return mgl32.Ident4(), false
	}
	t, _ := r.scene.Transforms.Get(id)
	return cam.Projection.Mul4(t.World().Inv()), true
}

// Draw submits every mesh-bearing entity whose transform has been resolved
// and which inherits a geometry buffer. It returns the number of draws.
func (r *Renderer) Draw() int {
	if fs, ok := r.device.(frameStarter); ok {
		fs.BeginFrame()
	}
	vp, ok := r.ViewProjection()
	if !ok && !r.warnedNoCamera {
		r.log.Warn("no active camera, drawing in clip space")
		r.warnedNoCamera = true
	}

	n := 0
	r.scene.Meshes.Each(func(id ecs.EntityID, m *component.MeshRange) {
		t, ok := r.scene.Transforms.Get(id)
		if !ok || !t.Resolved() {
			return
		}
		buf, ok := ecs.Inherited(r.scene.Buffers, r.scene.Entities, id)
		if !ok {
			return
		}
		r.device.Draw(buf.Handle, int(m.BaseVertex), int(m.IndexCount), int(m.VertexOffset), vp.Mul4(t.World()))
		n++
	})
	return n
}
