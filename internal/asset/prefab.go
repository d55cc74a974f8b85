package asset

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"

	"github.com/lbtl/engine/internal/component"
	"github.com/lbtl/engine/internal/gpu"
	"github.com/lbtl/engine/internal/memory"
)

// Node is one placed node of a prefab. Mesh is meaningful only when HasMesh
// is set.
type Node struct {
	Name        string
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	HasMesh     bool
	Mesh        component.MeshRange
}

// Prefab is an imported asset resident on the device: one shared geometry
// buffer and the flat list of the asset's scene root nodes.
type Prefab struct {
	Name     string
	Path     string
	Vertices int
	Indices  int
	Checksum [blake2b.Size256]byte

	buffer *memory.Owner[gpu.MeshBuffer]
	nodes  *memory.Array[Node]
}

// Buffer returns the shared geometry buffer. It is zero for an asset
// without geometry.
func (p *Prefab) Buffer() gpu.MeshBuffer {
	if p.buffer == nil {
		return gpu.MeshBuffer{}
	}
	return *p.buffer.Get()
}

// Nodes returns the prefab's nodes in scene order.
func (p *Prefab) Nodes() []Node { return p.nodes.Slice() }

// Release destroys the geometry buffer and node list. Safe to call more
// than once.
func (p *Prefab) Release(dev gpu.Device) {
	if p.buffer != nil {
		dev.ReleaseMeshBuffer(*p.buffer.Get())
		p.buffer.Release()
		p.buffer = nil
	}
	if p.nodes != nil {
		p.nodes.Release()
		p.nodes = nil
	}
}

// meshKey normalizes a mesh name so names that differ only in Unicode
// composition resolve to the same range. Unnamed meshes are keyed by index.
func meshKey(i int, name string) string {
	if name == "" {
		return "#" + strconv.Itoa(i)
	}
	return norm.NFC.String(name)
}

// Load decodes the asset at path and builds a device-resident prefab from
// it. Only the first primitive of each mesh is merged, and only the scene's
// root nodes become prefab nodes; their descendants are not captured.
//
// Every mesh is attempted even after a failure so that all schema errors
// are reported together; any failure means nothing is uploaded and no
// prefab is returned.
func Load(path string, dec Decoder, dev gpu.Device, log *zap.Logger) (*Prefab, error) {
	src, err := dec.Decode(path)
	if err != nil {
		return nil, err
	}
	defer src.Release()

	vertices := memory.NewArray[Vertex](0)
	defer vertices.Release()
	indices := memory.NewArray[Index](0)
	defer indices.Release()
	ranges := memory.NewStringMap[component.MeshRange](len(src.Meshes))
	defer ranges.Release()

	var errs error
	for i := range src.Meshes {
		m := &src.Meshes[i]
		if len(m.Primitives) == 0 {
			continue
		}
		if len(m.Primitives) > 1 {
			log.Debug("extra primitives ignored",
				zap.String("path", path),
				zap.String("mesh", m.Name),
				zap.Int("dropped", len(m.Primitives)-1))
		}
		r, err := ParsePrimitive(&m.Primitives[0], vertices, indices)
		if err != nil {
			log.Warn("primitive rejected",
				zap.String("path", path),
				zap.Int("mesh", i),
				zap.String("name", m.Name),
				zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("mesh %d %q: %w", i, m.Name, err))
			continue
		}
		ranges.Put(meshKey(i, m.Name), r)
	}
	if errs != nil {
		return nil, fmt.Errorf("load %s: %w", path, errs)
	}

	nodes := memory.NewArray[Node](len(src.Roots))
	for _, ri := range src.Roots {
		nodes.Push(buildNode(src, ri, ranges))
	}

	p := &Prefab{
		Path:     path,
		Vertices: vertices.Len(),
		Indices:  indices.Len(),
		Checksum: checksum(vertices.Bytes(), indices.Bytes()),
		nodes:    nodes,
	}
	if vertices.Len() > 0 {
		buf, err := dev.UploadMeshBuffer(vertices.Bytes(), indices.Bytes())
		if err != nil {
			nodes.Release()
			return nil, fmt.Errorf("load %s: upload: %w", path, err)
		}
		p.buffer = memory.NewOwner(buf)
	}
	return p, nil
}

func buildNode(src *Source, idx int, ranges *memory.StringMap[component.MeshRange]) Node {
	sn := &src.Nodes[idx]
	n := Node{
		Name:     sn.Name,
		Rotation: mgl32.QuatIdent(),
	}
	if sn.HasTranslation {
		n.Translation = mgl32.Vec3(sn.Translation)
	}
	if sn.HasRotation {
		r := sn.Rotation
		n.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	}
	if sn.Mesh >= 0 && sn.Mesh < len(src.Meshes) {
		if r, ok := ranges.Get(meshKey(sn.Mesh, src.Meshes[sn.Mesh].Name)); ok {
			n.HasMesh = true
			n.Mesh = r
		}
	}
	return n
}

func checksum(vertices, indices []byte) [blake2b.Size256]byte {
	var sum [blake2b.Size256]byte
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	h.Write(vertices)
	h.Write(indices)
	copy(sum[:], h.Sum(nil))
	return sum
}
