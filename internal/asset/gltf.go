package asset

import (
	"fmt"
	"os"
	"sort"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// GLTFDecoder decodes .gltf and .glb files, with external or embedded
// buffers.
type GLTFDecoder struct{}

func (GLTFDecoder) Decode(path string) (*Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrOpen, path, err)
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrDecode, path, err)
	}
	for i, b := range doc.Buffers {
		if len(b.Data) < int(b.ByteLength) {
			return nil, fmt.Errorf("%w %s: buffer %d holds %d of %d bytes", ErrDecode, path, i, len(b.Data), b.ByteLength)
		}
	}

	// The decoded document is plain Go memory; nothing to release.
	src := NewSource(nil)
	src.Meshes = make([]Mesh, len(doc.Meshes))
	for i, m := range doc.Meshes {
		mesh := Mesh{Name: m.Name, Primitives: make([]Primitive, 0, len(m.Primitives))}
		for j, p := range m.Primitives {
			prim, err := readPrimitive(doc, p)
			if err != nil {
				src.Release()
				return nil, fmt.Errorf("%w %s: mesh %d primitive %d: %v", ErrDecode, path, i, j, err)
			}
			mesh.Primitives = append(mesh.Primitives, prim)
		}
		src.Meshes[i] = mesh
	}

	src.Nodes = make([]SourceNode, len(doc.Nodes))
	for i, n := range doc.Nodes {
		src.Nodes[i] = readNode(n)
	}

	var scene *gltf.Scene
	switch {
	case doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes):
		scene = doc.Scenes[*doc.Scene]
	case len(doc.Scenes) > 0:
		scene = doc.Scenes[0]
	}
	if scene != nil {
		for _, idx := range scene.Nodes {
			if int(idx) >= len(src.Nodes) {
				src.Release()
				return nil, fmt.Errorf("%w %s: scene references node %d of %d", ErrDecode, path, idx, len(src.Nodes))
			}
			src.Roots = append(src.Roots, int(idx))
		}
	}
	return src, nil
}

func readNode(n *gltf.Node) SourceNode {
	node := SourceNode{Name: n.Name, Mesh: -1, Rotation: [4]float32{0, 0, 0, 1}}
	if n.Translation != [3]float64{} {
		node.HasTranslation = true
		for k, v := range n.Translation {
			node.Translation[k] = float32(v)
		}
	}
	// An all-zero quaternion carries no rotation; treat it as absent.
	if n.Rotation != [4]float64{} {
		node.HasRotation = true
		for k, v := range n.Rotation {
			node.Rotation[k] = float32(v)
		}
	}
	if n.Mesh != nil {
		node.Mesh = int(*n.Mesh)
	}
	for _, c := range n.Children {
		node.Children = append(node.Children, int(c))
	}
	return node
}

func semanticOf(name string) Semantic {
	switch name {
	case "POSITION":
		return SemanticPosition
	case "NORMAL":
		return SemanticNormal
	case "TEXCOORD_0":
		return SemanticTexCoord
	}
	return SemanticOther
}

func readPrimitive(doc *gltf.Document, p *gltf.Primitive) (Primitive, error) {
	prim := Primitive{Topology: TopologyOther}
	if p.Mode == gltf.PrimitiveTriangles {
		prim.Topology = TopologyTriangles
	}

	names := make([]string, 0, len(p.Attributes))
	for name := range p.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		idx := int(p.Attributes[name])
		if idx >= len(doc.Accessors) {
			return prim, fmt.Errorf("attribute %s references accessor %d of %d", name, idx, len(doc.Accessors))
		}
		acr := doc.Accessors[idx]
		attr := Attribute{
			Name:     name,
			Semantic: semanticOf(name),
			Count:    int(acr.Count),
			Sparse:   acr.Sparse != nil,
		}
		if !attr.Sparse && attr.Semantic != SemanticOther {
			data, err := readFloats(doc, acr, attr.Semantic)
			if err != nil {
				return prim, fmt.Errorf("attribute %s: %w", name, err)
			}
			attr.Data = data
		}
		prim.Attributes = append(prim.Attributes, attr)
	}

	if p.Indices != nil {
		idx := int(*p.Indices)
		if idx >= len(doc.Accessors) {
			return prim, fmt.Errorf("indices reference accessor %d of %d", idx, len(doc.Accessors))
		}
		indices, err := modeler.ReadIndices(doc, doc.Accessors[idx], nil)
		if err != nil {
			return prim, fmt.Errorf("indices: %w", err)
		}
		prim.Indices = indices
		prim.HasIndices = true
	}
	return prim, nil
}

func readFloats(doc *gltf.Document, acr *gltf.Accessor, s Semantic) ([]float32, error) {
	switch s {
	case SemanticPosition:
		v, err := modeler.ReadPosition(doc, acr, nil)
		return flatten3(v), err
	case SemanticNormal:
		v, err := modeler.ReadNormal(doc, acr, nil)
		return flatten3(v), err
	case SemanticTexCoord:
		v, err := modeler.ReadTextureCoord(doc, acr, nil)
		return flatten2(v), err
	}
	return nil, nil
}

func flatten3(v [][3]float32) []float32 {
	out := make([]float32, 0, len(v)*3)
	for _, e := range v {
		out = append(out, e[0], e[1], e[2])
	}
	return out
}

func flatten2(v [][2]float32) []float32 {
	out := make([]float32, 0, len(v)*2)
	for _, e := range v {
		out = append(out, e[0], e[1])
	}
	return out
}
