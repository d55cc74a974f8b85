package component

import "github.com/lbtl/engine/internal/gpu"

// MeshRange is one draw range inside a shared index buffer: IndexCount
// indices starting at index BaseVertex. BaseVertex+IndexCount never exceeds
// the buffer's index count. The stored indices are local to the mesh;
// VertexOffset is added to each of them at draw time.
type MeshRange struct {
	BaseVertex   uint16
	IndexCount   uint16
	VertexOffset uint16
}

// End returns the index one past the last index of the range.
func (m MeshRange) End() int { return int(m.BaseVertex) + int(m.IndexCount) }

// MeshBuffer references the geometry buffer pair a prefab uploaded. It is
// attached once per instance, to the instance's template entity; mesh
// entities inherit it.
type MeshBuffer struct {
	Handle gpu.MeshBuffer
}
