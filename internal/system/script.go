package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/lbtl/engine/internal/core/system"
	"github.com/lbtl/engine/internal/scripting"
)

// ScriptSystem runs the gameplay scripts' on_frame hook. A failing script
// is logged and the frame goes on.
// Phase 2 (Update).
type ScriptSystem struct {
	lua *scripting.Engine
	log *zap.Logger
}

func NewScriptSystem(lua *scripting.Engine, log *zap.Logger) *ScriptSystem {
	return &ScriptSystem{lua: lua, log: log}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ScriptSystem) Update(dt time.Duration) {
	if err := s.lua.OnFrame(dt); err != nil {
		s.log.Error("script frame failed", zap.Error(err))
	}
}
