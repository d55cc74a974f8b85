package system

import (
	"time"

	coresys "github.com/lbtl/engine/internal/core/system"
	"github.com/lbtl/engine/internal/scene"
)

// TransformSystem resolves every world matrix after gameplay has moved
// things and before anything reads them.
// Phase 3 (Transform).
type TransformSystem struct {
	scene *scene.World
}

func NewTransformSystem(w *scene.World) *TransformSystem {
	return &TransformSystem{scene: w}
}

func (s *TransformSystem) Phase() coresys.Phase { return coresys.PhaseTransform }

func (s *TransformSystem) Update(_ time.Duration) {
	s.scene.UpdateTransforms()
}
