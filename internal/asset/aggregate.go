package asset

import (
	"fmt"
	"math"

	"github.com/lbtl/engine/internal/component"
	"github.com/lbtl/engine/internal/memory"
)

// Vertex is the engine's single vertex layout, uploaded as-is.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// Index is the canonical index type of every shared index buffer.
type Index = uint16

// MaxVertices is the exclusive ceiling on the merged vertex count; 65535 is
// reserved as the primitive-restart value of a 16-bit index.
const MaxVertices = math.MaxUint16

// ParsePrimitive validates one primitive and appends its vertices and
// indices to the shared arrays. The returned range starts at the index
// array's length before the append. On error nothing is appended.
func ParsePrimitive(p *Primitive, vertices *memory.Array[Vertex], indices *memory.Array[Index]) (component.MeshRange, error) {
	if len(p.Attributes) == 0 {
		return component.MeshRange{}, ErrNoAttributes
	}
	var pos, nrm, uv *Attribute
	for i := range p.Attributes {
		a := &p.Attributes[i]
		switch {
		case a.Semantic == SemanticPosition && pos == nil:
			pos = a
		case a.Semantic == SemanticNormal && nrm == nil:
			nrm = a
		case a.Semantic == SemanticTexCoord && uv == nil:
			uv = a
		}
	}
	for _, want := range []struct {
		a *Attribute
		s Semantic
	}{{pos, SemanticPosition}, {nrm, SemanticNormal}, {uv, SemanticTexCoord}} {
		if want.a == nil {
			return component.MeshRange{}, fmt.Errorf("%w: %s", ErrMissingAttribute, want.s)
		}
	}
	for i := range p.Attributes {
		if p.Attributes[i].Sparse {
			return component.MeshRange{}, fmt.Errorf("%w: %s", ErrSparseAttribute, p.Attributes[i].Name)
		}
	}
	count := pos.Count
	if nrm.Count != count || uv.Count != count {
		return component.MeshRange{}, fmt.Errorf("%w: position %d, normal %d, uv %d",
			ErrCountMismatch, pos.Count, nrm.Count, uv.Count)
	}
	for _, a := range []*Attribute{pos, nrm, uv} {
		if len(a.Data) < count*a.Semantic.Components() {
			return component.MeshRange{}, fmt.Errorf("%w: %s holds %d floats for %d elements",
				ErrCountMismatch, a.Semantic, len(a.Data), count)
		}
	}
	if p.Topology != TopologyTriangles {
		return component.MeshRange{}, ErrUnsupportedTopology
	}
	if !p.HasIndices {
		return component.MeshRange{}, ErrMissingIndices
	}

	baseVertex := vertices.Len()
	if baseVertex+count >= MaxVertices {
		return component.MeshRange{}, fmt.Errorf("%w: %d + %d", ErrVertexOverflow, baseVertex, count)
	}
	first := indices.Len()
	if first+len(p.Indices) > math.MaxUint16 {
		return component.MeshRange{}, fmt.Errorf("%w: %d + %d", ErrIndexOverflow, first, len(p.Indices))
	}
	for _, idx := range p.Indices {
		if int(idx) >= count {
			return component.MeshRange{}, fmt.Errorf("%w: %d >= %d", ErrIndexOutOfRange, idx, count)
		}
	}

	vertices.SetLen(baseVertex + count)
	for i := 0; i < count; i++ {
		v := vertices.Ptr(baseVertex + i)
		copy(v.Position[:], pos.Data[i*3:i*3+3])
		copy(v.Normal[:], nrm.Data[i*3:i*3+3])
		copy(v.UV[:], uv.Data[i*2:i*2+2])
	}
	for _, idx := range p.Indices {
		indices.Push(Index(idx))
	}

	return component.MeshRange{
		BaseVertex:   uint16(first),
		IndexCount:   uint16(len(p.Indices)),
		VertexOffset: uint16(baseVertex),
	}, nil
}
