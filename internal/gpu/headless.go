package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// IndexSize is the byte width of one index in an index buffer.
const IndexSize = 2

// VertexSize is the byte width of one interleaved vertex: position, normal
// and texture coordinate.
const VertexSize = 32

// DrawCall is one recorded submission.
type DrawCall struct {
	Buffer     MeshBuffer
	FirstIndex   int
	IndexCount   int
	VertexOffset int
	MVP        mgl32.Mat4
}

// Headless is an in-memory Device. It keeps copies of uploaded bytes and
// records draw calls for the current frame.
type Headless struct {
	// Limit caps the number of live buffers; 0 means unlimited.
	Limit int

	buffers map[BufferID][]byte
	nextID  BufferID
	uploads int
	draws   []DrawCall
}

func NewHeadless() *Headless {
	return &Headless{buffers: make(map[BufferID][]byte, 16)}
}

func (h *Headless) UploadMeshBuffer(vertices, indices []byte) (MeshBuffer, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return MeshBuffer{}, ErrEmptyBuffer
	}
	if h.Limit > 0 && len(h.buffers)+2 > h.Limit {
		return MeshBuffer{}, ErrOutOfBuffers
	}
	b := MeshBuffer{Vertices: h.store(vertices), Indices: h.store(indices)}
	h.uploads++
	return b, nil
}

func (h *Headless) store(data []byte) BufferID {
	h.nextID++
	h.buffers[h.nextID] = append([]byte(nil), data...)
	return h.nextID
}

func (h *Headless) ReleaseMeshBuffer(b MeshBuffer) {
	for _, id := range [2]BufferID{b.Vertices, b.Indices} {
		if _, ok := h.buffers[id]; !ok {
			panic(fmt.Sprintf("gpu: release of unknown buffer %d", id))
		}
		delete(h.buffers, id)
	}
}

func (h *Headless) Draw(b MeshBuffer, firstIndex, indexCount, vertexOffset int, mvp mgl32.Mat4) {
	vtx, ok := h.buffers[b.Vertices]
	if !ok {
		panic(fmt.Sprintf("gpu: draw from unknown vertex buffer %d", b.Vertices))
	}
	if vertexOffset < 0 || vertexOffset*VertexSize >= len(vtx) {
		panic(fmt.Sprintf("gpu: vertex offset %d outside vertex buffer of %d bytes", vertexOffset, len(vtx)))
	}
	idx, ok := h.buffers[b.Indices]
	if !ok {
		panic(fmt.Sprintf("gpu: draw from unknown index buffer %d", b.Indices))
	}
	if firstIndex < 0 || (firstIndex+indexCount)*IndexSize > len(idx) {
		panic(fmt.Sprintf("gpu: draw range [%d,+%d) outside index buffer of %d indices",
			firstIndex, indexCount, len(idx)/IndexSize))
	}
	h.draws = append(h.draws, DrawCall{
		Buffer:       b,
		FirstIndex:   firstIndex,
		IndexCount:   indexCount,
		VertexOffset: vertexOffset,
		MVP:          mvp,
	})
}

// BeginFrame drops the draw calls recorded so far.
func (h *Headless) BeginFrame() { h.draws = h.draws[:0] }

// Draws returns the draw calls recorded since the last BeginFrame.
func (h *Headless) Draws() []DrawCall { return h.draws }

// LiveBuffers returns the number of buffers not yet released.
func (h *Headless) LiveBuffers() int { return len(h.buffers) }

// Uploads returns the number of successful mesh buffer uploads.
func (h *Headless) Uploads() int { return h.uploads }

// Data returns the bytes held by a live buffer.
func (h *Headless) Data(id BufferID) ([]byte, bool) {
	d, ok := h.buffers[id]
	return d, ok
}
