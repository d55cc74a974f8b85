package asset

// Semantic identifies what a vertex attribute carries.
type Semantic int

const (
	SemanticOther Semantic = iota
	SemanticPosition
	SemanticNormal
	SemanticTexCoord
)

// Components returns the number of floats per element.
func (s Semantic) Components() int {
	switch s {
	case SemanticPosition, SemanticNormal:
		return 3
	case SemanticTexCoord:
		return 2
	}
	return 0
}

func (s Semantic) String() string {
	switch s {
	case SemanticPosition:
		return "POSITION"
	case SemanticNormal:
		return "NORMAL"
	case SemanticTexCoord:
		return "TEXCOORD_0"
	}
	return "OTHER"
}

// Topology is how a primitive's indices form faces.
type Topology int

const (
	TopologyTriangles Topology = iota
	TopologyOther
)

// Attribute is one decoded vertex attribute stream. Data holds
// Count*Semantic.Components() floats; it is nil for sparse accessors and
// for attributes the engine does not consume.
type Attribute struct {
	Name     string
	Semantic Semantic
	Count    int
	Sparse   bool
	Data     []float32
}

// Primitive is one decoded draw primitive. Indices are widened from their
// source width; HasIndices is false for non-indexed primitives.
type Primitive struct {
	Topology   Topology
	Attributes []Attribute
	Indices    []uint32
	HasIndices bool
}

type Mesh struct {
	Name       string
	Primitives []Primitive
}

// SourceNode is one node of the decoded node graph. Rotation is x, y, z, w.
// Mesh is -1 when the node has no mesh.
type SourceNode struct {
	Name           string
	Translation    [3]float32
	Rotation       [4]float32
	HasTranslation bool
	HasRotation    bool
	Mesh           int
	Children       []int
}

// Source is a decoded asset: meshes and nodes in declaration order, and the
// root node indices of the active scene.
type Source struct {
	Meshes []Mesh
	Nodes  []SourceNode
	Roots  []int

	release func()
}

// Release frees whatever the decoder holds for this source. Safe to call
// more than once.
func (s *Source) Release() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// Decoder turns an asset file into a Source.
type Decoder interface {
	Decode(path string) (*Source, error)
}

// NewSource returns an empty Source whose Release calls release, which may
// be nil.
func NewSource(release func()) *Source {
	return &Source{release: release}
}
