package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseInput     Phase = iota // 0: poll input
	PhaseEvents                 // 1: deliver last frame's events
	PhaseUpdate                 // 2: gameplay scripts mutate translation/rotation
	PhaseTransform              // 3: resolve world matrices parent-before-child
	PhasePhysics                // 4: physics step
	PhaseRender                 // 5: build + submit draws
	PhaseCleanup                // 6: destroy queued entities
)

var phaseNames = [...]string{"input", "events", "update", "transform", "physics", "render", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
