// Package gpu is the boundary to the graphics device: buffer upload and
// release, and draw submission. The engine only ever holds opaque handles.
package gpu

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrEmptyBuffer  = errors.New("gpu: empty buffer data")
	ErrOutOfBuffers = errors.New("gpu: buffer limit reached")
)

// BufferID names one device buffer. Zero is never a valid buffer.
type BufferID uint32

// MeshBuffer is the vertex/index buffer pair of one uploaded geometry.
type MeshBuffer struct {
	Vertices BufferID
	Indices  BufferID
}

func (b MeshBuffer) IsZero() bool { return b.Vertices == 0 && b.Indices == 0 }

// Device is what the engine needs from a graphics backend.
type Device interface {
	// UploadMeshBuffer copies vertex and index bytes into device buffers.
	UploadMeshBuffer(vertices, indices []byte) (MeshBuffer, error)
	// ReleaseMeshBuffer destroys a buffer pair. Each pair is released
	// exactly once.
	ReleaseMeshBuffer(b MeshBuffer)
	// Draw submits indexCount indices of b starting at firstIndex, each
	// offset by vertexOffset, with the given model-view-projection matrix.
	Draw(b MeshBuffer, firstIndex, indexCount, vertexOffset int, mvp mgl32.Mat4)
}
