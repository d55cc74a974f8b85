package asset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lbtl/engine/internal/component"
	"github.com/lbtl/engine/internal/core/event"
	"github.com/lbtl/engine/internal/gpu"
	"github.com/lbtl/engine/internal/memory"
)

// writeMesh appends an indexed mesh of n vertices to doc and returns its index.
func writeMesh(doc *gltf.Document, name string, n int, primitives int) int {
	pos := make([][3]float32, n)
	nrm := make([][3]float32, n)
	uv := make([][2]float32, n)
	for i := range pos {
		pos[i] = [3]float32{float32(i), 0, 0}
		nrm[i] = [3]float32{0, 0, 1}
		uv[i] = [2]float32{0, float32(i)}
	}
	var idx []uint16
	for i := 1; i+1 < n; i++ {
		idx = append(idx, 0, uint16(i), uint16(i+1))
	}
	mesh := &gltf.Mesh{Name: name}
	for k := 0; k < primitives; k++ {
		mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
			Indices: gltf.Index(modeler.WriteIndices(doc, idx)),
			Attributes: map[string]int{
				"POSITION":   modeler.WritePosition(doc, pos),
				"NORMAL":     modeler.WriteNormal(doc, nrm),
				"TEXCOORD_0": modeler.WriteTextureCoord(doc, uv),
			},
		})
	}
	doc.Meshes = append(doc.Meshes, mesh)
	return len(doc.Meshes) - 1
}

// writeShips saves a two-mesh asset: a hull (4 vertices, 2 primitives) and a
// mast (5 vertices). Scene roots: hull node at (1,2,3), mast node rotated 90°
// about +Y with a child node that must not be captured, and an empty node.
func writeShips(t *testing.T) string {
	doc := gltf.NewDocument()
	hull := writeMesh(doc, "hull", 4, 2)
	mast := writeMesh(doc, "mast", 5, 1)

	doc.Nodes = []*gltf.Node{
		{Name: "hull", Mesh: gltf.Index(hull), Translation: [3]float64{1, 2, 3}, Rotation: [4]float64{0, 0, 0, 1}},
		{Name: "mast", Mesh: gltf.Index(mast), Rotation: [4]float64{0, 0.70710677, 0, 0.70710677}, Children: []int{3}},
		{Name: "marker", Rotation: [4]float64{0, 0, 0, 1}},
		{Name: "flag", Mesh: gltf.Index(hull), Translation: [3]float64{0, 9, 0}, Rotation: [4]float64{0, 0, 0, 1}},
	}
	doc.Scenes[0].Nodes = []int{0, 1, 2}

	path := filepath.Join(t.TempDir(), "ships.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadGLTF(t *testing.T) {
	path := writeShips(t)
	dev := gpu.NewHeadless()
	before := memory.Live()

	p, err := Load(path, GLTFDecoder{}, dev, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 9, p.Vertices, "only the first primitive of each mesh is merged")
	assert.Equal(t, 6+9, p.Indices)
	assert.Equal(t, 1, dev.Uploads())
	assert.False(t, p.Buffer().IsZero())

	nodes := p.Nodes()
	require.Len(t, nodes, 3, "only scene roots become prefab nodes")

	assert.Equal(t, "hull", nodes[0].Name)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, nodes[0].Translation)
	assert.True(t, nodes[0].HasMesh)
	assert.Equal(t, uint16(0), nodes[0].Mesh.BaseVertex)
	assert.Equal(t, uint16(6), nodes[0].Mesh.IndexCount)

	assert.True(t, nodes[1].HasMesh)
	assert.Equal(t, uint16(6), nodes[1].Mesh.BaseVertex)
	assert.Equal(t, uint16(9), nodes[1].Mesh.IndexCount)
	assert.Equal(t, uint16(4), nodes[1].Mesh.VertexOffset)
	assert.InDelta(t, 0.70710677, nodes[1].Rotation.V.Y(), 1e-6)
	assert.InDelta(t, 0.70710677, nodes[1].Rotation.W, 1e-6)

	assert.False(t, nodes[2].HasMesh)
	assert.Equal(t, mgl32.QuatIdent(), nodes[2].Rotation)
	assert.Equal(t, mgl32.Vec3{}, nodes[2].Translation)

	t.Run("reloading yields identical geometry", func(t *testing.T) {
		q, err := Load(path, GLTFDecoder{}, dev, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, p.Checksum, q.Checksum)
		a, _ := dev.Data(p.Buffer().Vertices)
		b, _ := dev.Data(q.Buffer().Vertices)
		assert.Equal(t, a, b)
		assert.Equal(t, p.Nodes(), q.Nodes())
		q.Release(dev)
	})

	p.Release(dev)
	p.Release(dev)
	assert.Zero(t, dev.LiveBuffers())
	assert.Equal(t, before, memory.Live())
}

func TestLoadDecodeErrors(t *testing.T) {
	dev := gpu.NewHeadless()

	_, err := Load(filepath.Join(t.TempDir(), "missing.glb"), GLTFDecoder{}, dev, zap.NewNop())
	assert.ErrorIs(t, err, ErrOpen)
	assert.True(t, IsDecodeError(err))

	bad := filepath.Join(t.TempDir(), "bad.gltf")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = Load(bad, GLTFDecoder{}, dev, zap.NewNop())
	assert.ErrorIs(t, err, ErrDecode)

	assert.Zero(t, dev.Uploads())
}

// stubDecoder returns a fixed source and counts releases.
type stubDecoder struct {
	meshes   []Mesh
	nodes    []SourceNode
	roots    []int
	err      error
	released int
}

func (d *stubDecoder) Decode(string) (*Source, error) {
	if d.err != nil {
		return nil, d.err
	}
	src := NewSource(func() { d.released++ })
	src.Meshes = d.meshes
	src.Nodes = d.nodes
	src.Roots = d.roots
	return src, nil
}

func TestLoadSchemaFailure(t *testing.T) {
	partial := primitive(3, 0, 1, 2)
	partial.Attributes = partial.Attributes[1:2]
	sparse := primitive(3, 0, 1, 2)
	sparse.Attributes[0].Sparse = true

	dec := &stubDecoder{
		meshes: []Mesh{
			{Name: "good", Primitives: []Primitive{primitive(3, 0, 1, 2)}},
			{Name: "partial", Primitives: []Primitive{partial}},
			{Name: "sparse", Primitives: []Primitive{sparse}},
		},
		nodes: []SourceNode{{Name: "a", Mesh: 0}},
		roots: []int{0},
	}
	dev := gpu.NewHeadless()
	before := memory.Live()

	p, err := Load("stub", dec, dev, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrMissingAttribute, "every failing primitive is reported")
	assert.ErrorIs(t, err, ErrSparseAttribute)
	assert.Contains(t, err.Error(), `"partial"`)

	assert.Equal(t, 1, dec.released)
	assert.Zero(t, dev.Uploads(), "nothing is uploaded after a schema failure")
	assert.Equal(t, before, memory.Live())
}

func TestLoadUploadFailure(t *testing.T) {
	dec := &stubDecoder{
		meshes: []Mesh{{Name: "m", Primitives: []Primitive{primitive(3, 0, 1, 2)}}},
		nodes:  []SourceNode{{Mesh: 0}},
		roots:  []int{0},
	}
	dev := gpu.NewHeadless()
	dev.Limit = 1
	before := memory.Live()

	_, err := Load("stub", dec, dev, zap.NewNop())
	assert.ErrorIs(t, err, gpu.ErrOutOfBuffers)
	assert.Equal(t, 1, dec.released)
	assert.Equal(t, before, memory.Live())
}

func TestLoadNodeResolution(t *testing.T) {
	dec := &stubDecoder{
		meshes: []Mesh{
			{Name: "café", Primitives: []Primitive{primitive(3, 0, 1, 2)}},
			{Name: "empty"},
		},
		nodes: []SourceNode{
			{Name: "decomposed", Mesh: 0},
			{Name: "no-primitives", Mesh: 1},
			{Name: "bad-ref", Mesh: 7},
			{Name: "none", Mesh: -1, HasTranslation: true, Translation: [3]float32{4, 5, 6}},
		},
		roots: []int{0, 1, 2, 3},
	}
	dev := gpu.NewHeadless()
	p, err := Load("stub", dec, dev, zap.NewNop())
	require.NoError(t, err)
	defer p.Release(dev)

	nodes := p.Nodes()
	require.Len(t, nodes, 4)
	assert.True(t, nodes[0].HasMesh)
	assert.False(t, nodes[1].HasMesh)
	assert.False(t, nodes[2].HasMesh)
	assert.False(t, nodes[3].HasMesh)
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, nodes[3].Translation)
	assert.Equal(t, mgl32.QuatIdent(), nodes[3].Rotation)

	t.Run("unnamed meshes", func(t *testing.T) {
		dec := &stubDecoder{
			meshes: []Mesh{
				{Primitives: []Primitive{primitive(3, 0, 1, 2)}},
				{Primitives: []Primitive{primitive(4, fan(4)...)}},
			},
			nodes: []SourceNode{{Name: "a", Mesh: 0}, {Name: "b", Mesh: 1}},
			roots: []int{0, 1},
		}
		p, err := Load("stub", dec, dev, zap.NewNop())
		require.NoError(t, err)
		defer p.Release(dev)

		nodes := p.Nodes()
		require.Len(t, nodes, 2)
		assert.Equal(t, component.MeshRange{BaseVertex: 0, IndexCount: 3, VertexOffset: 0}, nodes[0].Mesh)
		assert.Equal(t, component.MeshRange{BaseVertex: 3, IndexCount: 6, VertexOffset: 3}, nodes[1].Mesh)
	})
}

func TestLoadWithoutGeometry(t *testing.T) {
	dec := &stubDecoder{nodes: []SourceNode{{Mesh: -1}}, roots: []int{0}}
	dev := gpu.NewHeadless()
	p, err := Load("stub", dec, dev, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, p.Buffer().IsZero())
	assert.Len(t, p.Nodes(), 1)
	p.Release(dev)
	assert.Zero(t, dev.Uploads())
}

func TestLibrary(t *testing.T) {
	path := writeShips(t)
	dev := gpu.NewHeadless()
	bus := event.NewBus()
	var loaded, released []string
	event.Subscribe(bus, func(e event.PrefabLoaded) { loaded = append(loaded, e.Name) })
	event.Subscribe(bus, func(e event.PrefabReleased) { released = append(released, e.Name) })
	before := memory.Live()

	lib := NewLibrary(dev, GLTFDecoder{}, bus, zap.NewNop())
	ships, err := lib.Load("ships", path)
	require.NoError(t, err)
	assert.Equal(t, "ships", ships.Get().Name)

	_, err = lib.Load("ships", path)
	assert.ErrorIs(t, err, ErrDuplicatePrefab)

	_, err = lib.Load("broken", filepath.Join(t.TempDir(), "nope.glb"))
	assert.True(t, IsDecodeError(err))
	assert.Equal(t, 1, lib.Len(), "a failed load registers nothing")

	got, err := lib.Get("ships")
	require.NoError(t, err)
	assert.Same(t, ships.Get(), got.Get())
	_, err = lib.Get("broken")
	assert.True(t, errors.Is(err, ErrUnknownPrefab))
	assert.Equal(t, []string{"ships"}, lib.Names())

	bus.SwapBuffers()
	bus.DispatchAll()
	assert.Equal(t, []string{"ships"}, loaded)

	lib.ReleaseAll()
	assert.Zero(t, dev.LiveBuffers())
	assert.False(t, ships.Valid())
	assert.Equal(t, before, memory.Live())

	bus.SwapBuffers()
	bus.DispatchAll()
	assert.Equal(t, []string{"ships"}, released)
}
