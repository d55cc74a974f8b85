package component

import "github.com/go-gl/mathgl/mgl32"

// Camera marks the entity whose world matrix is the view origin.
type Camera struct {
	Projection mgl32.Mat4
}

// NewCamera returns a right-handed perspective camera.
func NewCamera(fovy, aspect, near, far float32) Camera {
	return Camera{Projection: mgl32.Perspective(fovy, aspect, near, far)}
}
