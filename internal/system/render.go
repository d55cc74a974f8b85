package system

import (
	"time"

	coresys "github.com/lbtl/engine/internal/core/system"
	"github.com/lbtl/engine/internal/render"
)

// RenderSystem submits the frame's draws.
// Phase 5 (Render).
type RenderSystem struct {
	renderer *render.Renderer
	draws    int
}

func NewRenderSystem(r *render.Renderer) *RenderSystem {
	return &RenderSystem{renderer: r}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseRender }

func (s *RenderSystem) Update(_ time.Duration) {
	s.draws = s.renderer.Draw()
}

// LastDraws returns the number of draws submitted by the last frame.
func (s *RenderSystem) LastDraws() int { return s.draws }
