package asset

import "errors"

// Decode errors: the asset could not be read at all.
var (
	ErrOpen   = errors.New("asset: cannot open file")
	ErrDecode = errors.New("asset: malformed file or buffers")
)

// Schema errors: one primitive does not fit the engine's vertex layout.
var (
	ErrNoAttributes        = errors.New("asset: primitive has no attributes")
	ErrMissingAttribute    = errors.New("asset: primitive lacks a required attribute")
	ErrSparseAttribute     = errors.New("asset: sparse accessors are not supported")
	ErrCountMismatch       = errors.New("asset: attribute element counts differ")
	ErrVertexOverflow      = errors.New("asset: vertex count reaches the 16-bit index limit")
	ErrIndexOverflow       = errors.New("asset: index count exceeds the 16-bit range limit")
	ErrMissingIndices      = errors.New("asset: primitive is not indexed")
	ErrIndexOutOfRange     = errors.New("asset: index refers past the primitive's vertices")
	ErrUnsupportedTopology = errors.New("asset: primitive is not a triangle list")
)

// Library errors.
var (
	ErrDuplicatePrefab = errors.New("asset: prefab already loaded")
	ErrUnknownPrefab   = errors.New("asset: unknown prefab")
)

// IsDecodeError reports whether err means the asset file itself was unreadable.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrOpen) || errors.Is(err, ErrDecode)
}
