package scene

import "github.com/go-gl/mathgl/mgl32"

// Transform places an entity relative to its parent. Gameplay code mutates
// Translation and Rotation; the world matrix is written only by
// World.UpdateTransforms.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat

	world    mgl32.Mat4
	resolved bool
}

// NewTransform returns a transform at t rotated by r.
func NewTransform(t mgl32.Vec3, r mgl32.Quat) Transform {
	return Transform{Translation: t, Rotation: r}
}

// Identity returns a transform at the origin with no rotation.
func Identity() Transform {
	return Transform{Rotation: mgl32.QuatIdent()}
}

// Local returns translate(Translation) · rotate(Rotation), so a point is
// rotated about the local origin before it is moved.
func (t *Transform) Local() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.Elem()).Mul4(t.Rotation.Normalize().Mat4())
}

// World returns the matrix resolved by the last transform pass. It panics if
// no pass has resolved this transform yet.
func (t *Transform) World() mgl32.Mat4 {
	if !t.resolved {
		panic("scene: world matrix read before the first transform pass")
	}
	return t.world
}

// Resolved reports whether a transform pass has written the world matrix.
func (t *Transform) Resolved() bool { return t.resolved }

// Translate moves the transform by d in its parent's space.
func (t *Transform) Translate(d mgl32.Vec3) {
	t.Translation = t.Translation.Add(d)
}

// Rotate turns the transform by angle radians about axis, expressed in its
// parent's space. A zero axis leaves the rotation unchanged.
func (t *Transform) Rotate(axis mgl32.Vec3, angle float32) {
	if axis.Len() == 0 {
		return
	}
	t.Rotation = mgl32.QuatRotate(angle, axis.Normalize()).Mul(t.Rotation).Normalize()
}
